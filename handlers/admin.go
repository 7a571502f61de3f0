package handlers

import (
	"net/http"
	"time"

	"trinhnail/middleware"
	"trinhnail/services/session"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionCookieMaxAge keeps the admin logged in across browser restarts.
const sessionCookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// AdminHandler handles the owner's passphrase login.
type AdminHandler struct {
	Sessions     *session.Manager
	SecureCookie bool
}

func NewAdminHandler(sessions *session.Manager, secure bool) *AdminHandler {
	return &AdminHandler{Sessions: sessions, SecureCookie: secure}
}

type loginRequest struct {
	Password string `json:"password"`
}

// LoginHandler checks the passphrase and binds the browser to an authenticated session.
func (h *AdminHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	id, ok := middleware.SessionID(c)
	if !ok {
		id = h.Sessions.NewID()
	}

	authed, err := h.Sessions.Login(c.Request.Context(), id, req.Password)
	if !authed {
		utils.JSONError(c, http.StatusUnauthorized, "密碼錯誤", "")
		return
	}
	if err != nil {
		logger.Warn("Admin session not persisted", zap.Error(err))
	}

	token, err := utils.GenerateToken(id, 0)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue session", err.Error())
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, sessionCookieMaxAge, "/", "", h.SecureCookie, true)

	logger.Info("Admin logged in", zap.String("sessionID", id))
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// LogoutHandler always ends up unauthenticated.
func (h *AdminHandler) LogoutHandler(c *gin.Context) {
	if id, ok := middleware.SessionID(c); ok {
		if err := h.Sessions.Get(id).Logout(c.Request.Context()); err != nil {
			getLogger(c).Warn("Failed to clear admin session", zap.Error(err))
		}
		h.Sessions.Forget(id)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// SessionHandler reports whether the browser is logged in.
func (h *AdminHandler) SessionHandler(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	authed, err := h.Sessions.Get(id).IsAuthenticated(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Session unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": authed})
}
