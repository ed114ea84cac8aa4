package models

import "time"

// Product is a sellable item for one business. The bot only ever quotes a
// price that is stored here; there is no fallback pricing.
type Product struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	BusinessID int64      `gorm:"column:business_id;not null;index" json:"business_id"`
	Name       string     `gorm:"not null" json:"name"`
	Price      float64    `gorm:"not null;default:0" json:"price"`
	Currency   string     `gorm:"not null;default:'USD'" json:"currency"`
	Active     bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
