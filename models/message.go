package models

import "time"

/************************************************
/**** MARK: MESSAGE SENDER TYPES ****/
/************************************************/
const MESSAGE_SENDER_CUSTOMER = "customer"
const MESSAGE_SENDER_BOT = "bot"
const MESSAGE_SENDER_OWNER = "owner"

// Message is one stored message in a conversation. Rows are append-only.
//
// PlatformMessageID carries the Messenger mid. The unique index on it is
// what makes webhook redelivery idempotent: a duplicate insert fails with
// a uniqueness violation and the event is dropped. NULL (no mid) rows are
// exempt, which is why the column is a pointer.
type Message struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessID        int64      `gorm:"column:business_id;not null;index" json:"business_id"`
	ConversationID    int64      `gorm:"column:conversation_id;not null;index" json:"conversation_id"`
	SenderType        string     `gorm:"column:sender_type;not null;index" json:"sender_type"`
	Content           string     `gorm:"type:text" json:"content"`
	PlatformMessageID *string    `gorm:"column:platform_message_id;unique_index" json:"platform_message_id"`
	HandoverTrigger   bool       `gorm:"column:handover_trigger;not null;default:false" json:"handover_trigger"`
	CreatedAt         *time.Time `json:"created_at"`
}
