package handlers

import (
	"errors"
	"net/http"

	"trinhnail/models"
	"trinhnail/services/booking"
	"trinhnail/services/i18n"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler composes booking messages; nothing is stored or sent.
type BookingHandler struct {
	Translator i18n.Translator
}

func NewBookingHandler(t i18n.Translator) *BookingHandler {
	if t == nil {
		t = i18n.Default
	}
	return &BookingHandler{Translator: t}
}

type bookingMessageRequest struct {
	models.BookingDraft
	Lang string `json:"lang"`
}

// requestLang prefers an explicit lang value over Accept-Language.
func requestLang(c *gin.Context, explicit string) i18n.Lang {
	if explicit != "" {
		return i18n.Negotiate(explicit)
	}
	if q := c.Query("lang"); q != "" {
		return i18n.Negotiate(q)
	}
	return i18n.Negotiate(c.GetHeader("Accept-Language"))
}

// MessageHandler validates a draft and returns the text to paste into LINE.
func (h *BookingHandler) MessageHandler(c *gin.Context) {
	var req bookingMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	lang := requestLang(c, req.Lang)

	msg, class, err := booking.Compose(req.BookingDraft, h.Translator, lang)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": verr.Message(h.Translator, lang),
				"kind":    verr.Kind,
				"field":   verr.Field,
			})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to compose message", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   msg,
		"timeClass": class,
		"hint":      booking.TimeHint(class, h.Translator, lang),
	})
}

// TimeStatusHandler classifies ?time=HH:MM for the inline form hint.
func (h *BookingHandler) TimeStatusHandler(c *gin.Context) {
	lang := requestLang(c, "")
	class, err := booking.ClassifyTime(c.Query("time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid time", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"timeClass": class,
		"warning":   class.NeedsWarning(),
		"hint":      booking.TimeHint(class, h.Translator, lang),
	})
}

type optionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsHandler lists the form choices with labels in the requested language.
func (h *BookingHandler) OptionsHandler(c *gin.Context) {
	lang := requestLang(c, "")
	view := func(opts []booking.Option) []optionView {
		out := make([]optionView, 0, len(opts))
		for _, o := range opts {
			out = append(out, optionView{Value: o.Value, Label: h.Translator.Translate(o.LabelKey, lang)})
		}
		return out
	}
	c.JSON(http.StatusOK, gin.H{
		"lang":      lang,
		"branches":  view(booking.BranchOptions),
		"services":  view(booking.ServiceOptions),
		"birthday":  view(booking.BirthdayOptions),
		"matte":     view(booking.MatteOptions),
		"maxImages": models.MaxBookingImages,
	})
}
