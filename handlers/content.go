package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"trinhnail/models"
	"trinhnail/services/content"
	"trinhnail/services/media"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxUploadBytes bounds an admin image upload before transcoding.
const MaxUploadBytes = 20 << 20

// ContentHandler serves the site content and its admin edits.
type ContentHandler struct {
	Store      *content.Store
	Transcoder *media.Transcoder
	// Host is optional; without it the data URI itself is stored.
	Host media.ImageHost
}

func NewContentHandler(store *content.Store, transcoder *media.Transcoder, host media.ImageHost) *ContentHandler {
	if transcoder == nil {
		transcoder = media.NewTranscoder(0, 0)
	}
	return &ContentHandler{Store: store, Transcoder: transcoder, Host: host}
}

// GetContentHandler returns the current content with its sync status.
func (h *ContentHandler) GetContentHandler(c *gin.Context) {
	st := h.Store.Status()
	c.JSON(http.StatusOK, gin.H{
		"content": st.Content,
		"status":  st,
	})
}

// StreamContentHandler pushes every content change as a server-sent event.
func (h *ContentHandler) StreamContentHandler(c *gin.Context) {
	ch, cancel := h.Store.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("content", h.Store.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case sc, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("content", sc)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

type updateImageRequest struct {
	Value string `json:"value" binding:"required"`
}

// UpdateImageHandler replaces one image. Multipart uploads ("file") are
// transcoded first; JSON bodies carry a ready URL or data URI in "value".
func (h *ContentHandler) UpdateImageHandler(c *gin.Context) {
	logger := getLogger(c)

	key, err := models.ParseContentKey(c.Param("key"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unknown content key", c.Param("key"))
		return
	}

	var value string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		value, err = h.uploadedImage(c, key)
		if err != nil {
			var decErr *media.DecodeError
			if errors.As(err, &decErr) {
				utils.JSONError(c, http.StatusUnprocessableEntity, "圖片處理失敗", err.Error())
				return
			}
			utils.JSONError(c, http.StatusBadRequest, "Invalid upload", err.Error())
			return
		}
	} else {
		var req updateImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}
		value = req.Value
	}

	updated, err := h.Store.UpdateImage(c.Request.Context(), key, value)
	if err != nil {
		h.respondPersistence(c, updated, err)
		return
	}
	logger.Info("Content image updated", zap.String("key", string(key)))
	c.JSON(http.StatusOK, gin.H{"content": updated})
}

func (h *ContentHandler) uploadedImage(c *gin.Context, key models.ContentKey) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	dataURI, err := h.Transcoder.Compress(c.Request.Context(), f)
	if err != nil {
		return "", err
	}
	if h.Host == nil {
		return dataURI, nil
	}

	url, err := h.Host.Upload(c.Request.Context(), dataURI, string(key))
	if err != nil {
		getLogger(c).Warn("Image host upload failed, storing data URI", zap.String("key", string(key)), zap.Error(err))
		return dataURI, nil
	}
	return url, nil
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// ResetContentHandler restores the default content. The body must confirm.
func (h *ContentHandler) ResetContentHandler(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	err := h.Store.ResetContent(c.Request.Context(), req.Confirm)
	if errors.Is(err, content.ErrConfirmationRequired) {
		utils.JSONError(c, http.StatusBadRequest, "Reset requires confirmation", err.Error())
		return
	}
	if err != nil {
		h.respondPersistence(c, h.Store.Snapshot(), err)
		return
	}
	getLogger(c).Info("Content reset to defaults")
	c.JSON(http.StatusOK, gin.H{"content": h.Store.Snapshot()})
}

// respondPersistence reports a failed write as a non-blocking warning; the
// new content is already live in memory.
func (h *ContentHandler) respondPersistence(c *gin.Context, sc models.SiteContent, err error) {
	if errors.Is(err, models.ErrUnknownKey) {
		utils.JSONError(c, http.StatusBadRequest, "Unknown content key", err.Error())
		return
	}
	var perr *content.PersistenceError
	if errors.As(err, &perr) {
		getLogger(c).Warn("Content not persisted", zap.String("kind", string(perr.Kind)), zap.Error(err))
		c.JSON(http.StatusAccepted, gin.H{
			"content": sc,
			"warning": perr.UserMessage(),
			"kind":    perr.Kind,
		})
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "Failed to update content", err.Error())
}
