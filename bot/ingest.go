package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bayon/dedup"
	"bayon/models"

	"github.com/jinzhu/gorm"
)

// MessageEvent is one normalized inbound message from a webhook delivery.
type MessageEvent struct {
	SenderID    string
	RecipientID string
	Timestamp   time.Time
	Text        string
	MessageID   string
}

// Processor ingests inbound messages: tenant resolution, conversation
// lookup/creation, dedup, persistence, status transition, and the hand-off
// to the responder.
type Processor struct {
	db        *gorm.DB
	logger    *slog.Logger
	filter    *dedup.Filter
	responder *Responder
}

func NewProcessor(db *gorm.DB, logger *slog.Logger, filter *dedup.Filter, responder *Responder) *Processor {
	return &Processor{db: db, logger: logger, filter: filter, responder: responder}
}

// ProcessDelivery handles one webhook delivery's events sequentially, in
// array order — conversation state is read-modify-write per event, so
// interleaving events of the same delivery could invert chronology. One
// event's failure is logged and must not block the rest.
func (p *Processor) ProcessDelivery(ctx context.Context, deliveryID string, events []MessageEvent) {
	logger := p.logger.With("delivery", deliveryID)
	for i, ev := range events {
		if err := p.HandleIncoming(ctx, ev); err != nil {
			logger.Error("event processing failed",
				"index", i,
				"sender", ev.SenderID,
				"mid", ev.MessageID,
				"error", err,
			)
		}
	}
}

// HandleIncoming ingests one inbound message. "Not found" conditions are
// soft (logged, nil); only persistence failures that leave the event's
// state indeterminate come back as errors.
func (p *Processor) HandleIncoming(ctx context.Context, ev MessageEvent) error {
	var biz models.Business
	if err := p.db.Where("page_id = ?", ev.RecipientID).First(&biz).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			// the page may simply not be connected yet
			p.logger.Info("no business for page, dropping event", "page_id", ev.RecipientID)
			return nil
		}
		return fmt.Errorf("resolve business: %w", err)
	}

	conv, err := p.resolveConversation(&biz, ev)
	if err != nil {
		return err
	}

	logger := p.logger.With("business_id", biz.ID, "conversation_id", conv.ID)

	if p.filter.Seen(ctx, ev.MessageID) {
		logger.Info("duplicate delivery dropped (fast path)", "mid", ev.MessageID)
		return nil
	}

	msg := models.Message{
		BusinessID:     biz.ID,
		ConversationID: conv.ID,
		SenderType:     models.MESSAGE_SENDER_CUSTOMER,
		Content:        ev.Text,
	}
	if ev.MessageID != "" {
		mid := ev.MessageID
		msg.PlatformMessageID = &mid
	}
	if err := p.db.Create(&msg).Error; err != nil {
		if isUniqueViolation(err) {
			// redelivery: the unique index on platform_message_id is the
			// idempotency authority. The row exists, so marking is safe.
			p.filter.Mark(ctx, ev.MessageID)
			logger.Info("duplicate delivery dropped", "mid", ev.MessageID)
			return nil
		}
		// not marked in the fast path: the platform's redelivery must get
		// another shot at storing this message
		return fmt.Errorf("store customer message: %w", err)
	}
	p.filter.Mark(ctx, ev.MessageID)

	updates := map[string]any{"last_message_at": ev.Timestamp}
	if !biz.BotActive {
		updates["status"] = conv.Status.OnInboundWhilePaused()
	}
	if err := p.db.Model(&models.Conversation{}).Where("id = ?", conv.ID).Updates(updates).Error; err != nil {
		// the message row is safe; a stale timestamp is not worth failing
		// the event over
		logger.Error("update conversation failed", "error", err)
	}

	if biz.BotActive {
		p.responder.Respond(ctx, biz.ID, conv.ID, ev.Text)
	}
	return nil
}

// resolveConversation finds the conversation by the canonical
// (business_id, sender_psid) key, falls back to the legacy customer_id key
// (backfilling the canonical one), and otherwise creates a fresh row.
func (p *Processor) resolveConversation(biz *models.Business, ev MessageEvent) (*models.Conversation, error) {
	var conv models.Conversation

	err := p.db.Where("business_id = ? AND sender_psid = ?", biz.ID, ev.SenderID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	err = p.db.Where("business_id = ? AND customer_id = ?", biz.ID, ev.SenderID).First(&conv).Error
	if err == nil {
		if uerr := p.db.Model(&conv).Update("sender_psid", ev.SenderID).Error; uerr != nil {
			p.logger.Error("backfill sender_psid failed", "conversation_id", conv.ID, "error", uerr)
		}
		conv.SenderPSID = ev.SenderID
		return &conv, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("resolve conversation (legacy key): %w", err)
	}

	ts := ev.Timestamp
	conv = models.Conversation{
		BusinessID:    biz.ID,
		SenderPSID:    ev.SenderID,
		Status:        models.InitialStatus(biz.BotActive),
		LastMessageAt: &ts,
	}
	if err := p.db.Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &conv, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
