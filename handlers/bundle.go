package handlers

import (
	"trinhnail/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	Sessions *session.Manager

	// Content endpoints
	GetContentHandler    gin.HandlerFunc
	StreamContentHandler gin.HandlerFunc
	UpdateImageHandler   gin.HandlerFunc
	ResetContentHandler  gin.HandlerFunc

	// Admin endpoints
	LoginHandler   gin.HandlerFunc
	LogoutHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	// Booking endpoints
	BookingMessageHandler gin.HandlerFunc
	TimeStatusHandler     gin.HandlerFunc
	BookingOptionsHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(ch *ContentHandler, ah *AdminHandler, bh *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		Sessions: ah.Sessions,

		GetContentHandler:    ch.GetContentHandler,
		StreamContentHandler: ch.StreamContentHandler,
		UpdateImageHandler:   ch.UpdateImageHandler,
		ResetContentHandler:  ch.ResetContentHandler,

		LoginHandler:   ah.LoginHandler,
		LogoutHandler:  ah.LogoutHandler,
		SessionHandler: ah.SessionHandler,

		BookingMessageHandler: bh.MessageHandler,
		TimeStatusHandler:     bh.TimeStatusHandler,
		BookingOptionsHandler: bh.OptionsHandler,
	}
}
