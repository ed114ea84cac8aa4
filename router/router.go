package router

import (
	"log/slog"

	"bayon/controllers"
	"bayon/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
func Initialize(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	api := r.Group("/api")

	// Messenger webhook: GET is the platform's subscription handshake,
	// POST carries the deliveries. No Logger() here: webhook traffic is
	// high-volume and the processor does its own structured logging.
	api.GET("/webhook", controllers.WebhookVerify)
	api.POST("/webhook", controllers.WebhookUpdate)

	// Inbox/setup surface
	api.POST("/businesses/:id/channel", Logger(), controllers.ConnectChannel)
	api.POST("/conversations/:id/handover", Logger(), controllers.MarkHandover)

	slog.Info("routes initialized")
}
