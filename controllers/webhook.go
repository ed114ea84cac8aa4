package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"bayon/bot"
	"bayon/config"
	"bayon/secret"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	cfg       config.Configuration
	processor *bot.Processor
	tokenBox  secret.Box
	logger    *slog.Logger
)

// Setup hands the controllers their collaborators. Call once before
// registering routes.
func Setup(c config.Configuration, p *bot.Processor, box secret.Box, l *slog.Logger) {
	cfg = c
	processor = p
	tokenBox = box
	logger = l
}

// GET /api/webhook
//
// Meta calls this once when the webhook is registered:
// GET /webhook?hub.mode=subscribe&hub.verify_token=...&hub.challenge=...
func WebhookVerify(c *gin.Context) {
	verifyToken := cfg.Messenger.VerifyToken
	if verifyToken == "" {
		RespondError(c, "verify token not configured", http.StatusInternalServerError)
		return
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" || challenge == "" {
		RespondError(c, "missing hub parameters", http.StatusBadRequest)
		return
	}

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1 {
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	RespondError(c, "forbidden", http.StatusForbidden)
}

// POST /api/webhook
//
// Acknowledges within the platform's deadline and processes the delivery
// in the background; redeliveries are absorbed by message dedup.
func WebhookUpdate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, "cannot read body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(body, c.GetHeader("X-Hub-Signature-256"), cfg.Messenger.AppSecret) {
		logger.Warn("webhook signature rejected", "remote", c.ClientIP())
		RespondError(c, "invalid signature", http.StatusForbidden)
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		RespondError(c, "malformed payload", http.StatusBadRequest)
		return
	}

	events := ExtractMessages(payload)

	// ack first, work after
	c.String(http.StatusOK, "EVENT_RECEIVED")

	if len(events) == 0 {
		return
	}
	deliveryID := uuid.NewString()
	go processor.ProcessDelivery(context.Background(), deliveryID, events)
}
