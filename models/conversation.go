package models

import "time"

/************************************************
/**** MARK: CONVERSATION STATUS ****/
/************************************************/

// ConversationStatus is a closed enum. Status changes made by this service
// go through the transition functions below instead of raw assignments, so
// the handful of legal moves is visible in one place.
type ConversationStatus string

const (
	CONVERSATION_STATUS_ACTIVE          ConversationStatus = "active"
	CONVERSATION_STATUS_NEEDS_ATTENTION ConversationStatus = "needs_attention"
	CONVERSATION_STATUS_BOT_HANDLED     ConversationStatus = "bot_handled"
	CONVERSATION_STATUS_OWNER_HANDLED   ConversationStatus = "owner_handled"
)

// InitialStatus is the status of a conversation created by its first
// inbound message.
func InitialStatus(botActive bool) ConversationStatus {
	if botActive {
		return CONVERSATION_STATUS_ACTIVE
	}
	return CONVERSATION_STATUS_NEEDS_ATTENTION
}

// OnInboundWhileActive: a customer message arrived and the bot is on.
// The conversation stays where it is; the bot will answer.
func (s ConversationStatus) OnInboundWhileActive() ConversationStatus {
	return s
}

// OnInboundWhilePaused: a customer message arrived while the bot is off,
// so a human has to pick it up.
func (s ConversationStatus) OnInboundWhilePaused() ConversationStatus {
	return CONVERSATION_STATUS_NEEDS_ATTENTION
}

// OnSendFailureExhausted: every delivery attempt for the reply failed.
func (s ConversationStatus) OnSendFailureExhausted() ConversationStatus {
	return CONVERSATION_STATUS_NEEDS_ATTENTION
}

// OnSendPrecondFailure: the page credential could not be decrypted.
// Retrying cannot fix a bad credential, escalate straight away.
func (s ConversationStatus) OnSendPrecondFailure() ConversationStatus {
	return CONVERSATION_STATUS_NEEDS_ATTENTION
}

// OnOwnerReply is used by the handover collaborator endpoint when a human
// answers from the inbox.
func (s ConversationStatus) OnOwnerReply() ConversationStatus {
	return CONVERSATION_STATUS_OWNER_HANDLED
}

// Conversation is the thread between one business and one customer PSID.
// At most one row exists per (business_id, sender_psid); CustomerID is a
// legacy alternate key that gets backfilled into SenderPSID on first use.
type Conversation struct {
	ID            int64              `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessID    int64              `gorm:"column:business_id;not null;index;unique_index:uix_conversations_business_sender" json:"business_id"`
	SenderPSID    string             `gorm:"column:sender_psid;not null;unique_index:uix_conversations_business_sender" json:"sender_psid"`
	CustomerID    string             `gorm:"column:customer_id;default:'';index" json:"customer_id"`
	Status        ConversationStatus `gorm:"not null;default:'active';index" json:"status"`
	LastMessageAt *time.Time         `gorm:"column:last_message_at" json:"last_message_at"`
	CreatedAt     *time.Time         `json:"created_at"`
	UpdatedAt     *time.Time         `json:"updated_at"`
}
