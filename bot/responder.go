package bot

import (
	"context"
	"log/slog"
	"time"

	"bayon/messenger"
	"bayon/models"
	"bayon/secret"

	"github.com/jinzhu/gorm"
)

// Responder generates and delivers the automated reply for one inbound
// customer message, escalating the conversation to a human when it cannot.
type Responder struct {
	db      *gorm.DB
	logger  *slog.Logger
	box     secret.Box
	client  *messenger.Client
	retrier *messenger.Retrier
	gateway *Gateway
	now     func() time.Time
}

func NewResponder(db *gorm.DB, logger *slog.Logger, box secret.Box, client *messenger.Client, retrier *messenger.Retrier, gateway *Gateway) *Responder {
	return &Responder{
		db:      db,
		logger:  logger,
		box:     box,
		client:  client,
		retrier: retrier,
		gateway: gateway,
		now:     time.Now,
	}
}

// Respond classifies the message, renders a reply from stored business
// data, sends it with retries, and records the bot message. It never
// returns an error: everything past the webhook ack is fire-and-log, and a
// panic anywhere in here must not take down the delivery loop.
func (r *Responder) Respond(ctx context.Context, businessID, conversationID int64, text string) {
	logger := r.logger.With("business_id", businessID, "conversation_id", conversationID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("responder panicked", "panic", rec)
			r.escalateBestEffort(conversationID, logger)
		}
	}()

	var biz models.Business
	if err := r.db.First(&biz, businessID).Error; err != nil {
		logger.Error("load business failed", "error", err)
		return
	}
	if biz.PageID == "" || biz.EncryptedPageToken == "" {
		// nothing to escalate: without a channel there is no send to fail
		logger.Info("business has no connected channel, skipping reply")
		return
	}

	token, err := r.box.Decrypt(biz.EncryptedPageToken)
	if err != nil {
		// a bad credential cannot be fixed by retrying
		logger.Error("page token decryption failed", "error", err)
		if serr := r.escalate(conversationID, models.ConversationStatus.OnSendPrecondFailure); serr != nil {
			logger.Error("escalation failed", "error", serr)
		}
		return
	}

	var conv models.Conversation
	if err := r.db.First(&conv, conversationID).Error; err != nil {
		logger.Error("load conversation failed", "error", err)
		return
	}
	if conv.SenderPSID == "" {
		// data integrity gap, not a transient failure
		logger.Error("conversation has no sender handle, cannot reply")
		return
	}

	reply, handover := r.buildReply(&biz, text)

	result, err := r.retrier.Send(ctx, func() (*messenger.SendResult, error) {
		return r.client.SendText(ctx, token, conv.SenderPSID, reply)
	})
	if err != nil {
		logger.Error("reply delivery failed after retries", "error", err)
		if serr := r.escalate(conversationID, models.ConversationStatus.OnSendFailureExhausted); serr != nil {
			logger.Error("escalation failed", "error", serr)
		}
		return
	}

	msg := models.Message{
		BusinessID:      biz.ID,
		ConversationID:  conv.ID,
		SenderType:      models.MESSAGE_SENDER_BOT,
		Content:         reply,
		HandoverTrigger: handover,
	}
	if result.MessageID != "" {
		mid := result.MessageID
		msg.PlatformMessageID = &mid
	}
	if err := r.db.Create(&msg).Error; err != nil {
		// the customer already has the reply; losing our copy is log-worthy
		// but not escalation-worthy
		logger.Error("store bot message failed", "mid", result.MessageID, "error", err)
	}
	if err := r.db.Model(&models.Conversation{}).Where("id = ?", conv.ID).Update("last_message_at", r.now()).Error; err != nil {
		logger.Error("update conversation timestamp failed", "error", err)
	}
}

// buildReply maps the classified intent to a reply. The second return
// reports whether this reply is a handover (no intent matched).
func (r *Responder) buildReply(biz *models.Business, text string) (string, bool) {
	c := Classify(text)

	switch c.Intent {
	case INTENT_PRICE:
		if c.Entity != "" {
			if p := r.gateway.FindProduct(biz.ID, c.Entity); p != nil {
				return TemplatePriceFound(p), false
			}
			if alts := r.gateway.ListProducts(biz.ID); len(alts) > 0 {
				return TemplateProductNotFound(c.Entity, alts), false
			}
			return TemplateNoPriceData(), false
		}
		if products := r.gateway.ListProducts(biz.ID); len(products) > 0 {
			return TemplateProductList(products), false
		}
		return TemplateNoPriceData(), false

	case INTENT_HOURS:
		hours := r.gateway.OpeningHours(biz.ID)
		if len(hours) == 0 {
			return TemplateNoHoursData(), false
		}
		return TemplateHours(hours, r.now()), false

	case INTENT_LOCATION:
		if addr := r.gateway.Address(biz.ID); addr != "" {
			return TemplateAddress(r.gateway.BusinessName(biz.ID), addr), false
		}
		return TemplateNoAddressData(), false

	case INTENT_PHONE:
		if phone := r.gateway.Phone(biz.ID); phone != "" {
			return TemplatePhone(phone), false
		}
		return TemplateNoPhoneData(), false

	case INTENT_GREETING:
		return TemplateGreeting(biz.Name, r.now()), false

	case INTENT_FAREWELL:
		return TemplateFarewell(r.now()), false

	default:
		return TemplateHandover(), true
	}
}

// escalate applies a status transition to the conversation's current
// status.
func (r *Responder) escalate(conversationID int64, transition func(models.ConversationStatus) models.ConversationStatus) error {
	var conv models.Conversation
	if err := r.db.First(&conv, conversationID).Error; err != nil {
		return err
	}
	return r.db.Model(&conv).Update("status", transition(conv.Status)).Error
}

// escalateBestEffort swallows escalation failures: there is no recovery
// path left when even the status write fails, so it must never propagate.
func (r *Responder) escalateBestEffort(conversationID int64, logger *slog.Logger) {
	if err := r.escalate(conversationID, models.ConversationStatus.OnSendFailureExhausted); err != nil {
		logger.Error("best-effort escalation failed, giving up", "error", err)
	}
}
