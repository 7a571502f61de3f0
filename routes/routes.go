package routes

import (
	"net/http"
	"time"

	"trinhnail/handlers"
	"trinhnail/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Trinh Nail"})
	})
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterContentRoutes registers the public, read-only content endpoints.
func RegisterContentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/content")
	{
		api.GET("", hb.GetContentHandler)
		api.GET("/stream", hb.StreamContentHandler)
	}
}

// RegisterAdminRoutes registers the login endpoints and the session-guarded content edits.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/login", hb.LoginHandler)
		adminGroup.POST("/logout", hb.LogoutHandler)
		adminGroup.GET("/session", hb.SessionHandler)

		protected := adminGroup.Group("/content")
		protected.Use(middleware.AdminSession(hb.Sessions))
		protected.PUT("/images/:key", hb.UpdateImageHandler)
		protected.POST("/reset", hb.ResetContentHandler)
	}
}

// RegisterBookingRoutes registers the booking message endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.GET("/options", hb.BookingOptionsHandler)
		bookingGroup.GET("/time-status", hb.TimeStatusHandler)
		bookingGroup.POST("/message", hb.BookingMessageHandler)
	}
}

// corsConfig allows credentials only for an explicit origin list; browsers
// reject credentialed responses carrying a wildcard origin.
func corsConfig(allowedOrigins []string) cors.Config {
	wildcard := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept-Language", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if wildcard {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(corsConfig(allowedOrigins)))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
	RegisterContentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
