package models

import "time"

// OpeningHour is one weekday's window for a business. CloseTime may be
// numerically earlier than OpenTime, meaning the window runs past midnight
// into the next calendar day (e.g. 18:00-02:00).
type OpeningHour struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessID int64      `gorm:"column:business_id;not null;index" json:"business_id"`
	Weekday    int        `gorm:"not null" json:"weekday"` // 0 = Sunday ... 6 = Saturday
	OpenTime   string     `gorm:"column:open_time;not null;default:''" json:"open_time"`   // "HH:MM"
	CloseTime  string     `gorm:"column:close_time;not null;default:''" json:"close_time"` // "HH:MM"
	Closed     bool       `gorm:"not null;default:false" json:"closed"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
