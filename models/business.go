package models

import "time"

// Business is one tenant: a shop with a connected Messenger page.
// This service only reads it; settings/onboarding collaborators own writes.
type Business struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name               string     `gorm:"not null" json:"name"`
	PageID             string     `gorm:"column:page_id;index" json:"page_id"`
	EncryptedPageToken string     `gorm:"column:encrypted_page_token;type:text" json:"-"`
	BotActive          bool       `gorm:"column:bot_active;not null;default:true" json:"bot_active"`
	Address            string     `gorm:"default:''" json:"address"`
	Phone              string     `gorm:"default:''" json:"phone"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}
