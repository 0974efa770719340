package models

import "time"

// AlertRecord is the append-only proof that a chat was alerted about a
// listing. Its existence is the sole dedup source of truth.
type AlertRecord struct {
	ID        uint      `gorm:"primaryKey"`
	ChatID    int64     `gorm:"not null;index:idx_alert_chat_listing"`
	ListingID string    `gorm:"type:text;not null;index:idx_alert_chat_listing"`
	SentAt    time.Time `gorm:"not null;index"`
	DealScore float64
}

func (AlertRecord) TableName() string {
	return "alert_log"
}
