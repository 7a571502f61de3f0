package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"trinhnail/config"
	"trinhnail/database/kv"
	"trinhnail/services/session"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.SessionSecret = "test-secret"
}

func TestGetClientIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", "192.0.2.7")
	assert.Equal(t, "192.0.2.7", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	assert.Equal(t, "203.0.113.9", getClientIP(c))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("198.51.100.1"))
	assert.Equal(t, http.StatusOK, hit("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("198.51.100.1"))
	assert.Equal(t, http.StatusOK, hit("198.51.100.2"))
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Get("logger")
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestAdminSession(t *testing.T) {
	sessions := session.NewManager(kv.NewMemoryStore(0), "")
	r := gin.New()
	r.GET("/admin", AdminSession(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("sessionID"))
	})

	call := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("not-a-token").Code)

	id := sessions.NewID()
	token, err := utils.GenerateToken(id, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(token).Code, "not logged in yet")

	ok, err := sessions.Get(id).Login(context.Background(), session.DefaultPassphrase)
	require.NoError(t, err)
	require.True(t, ok)

	w := call(token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Body.String())
}
