package models

import "time"

// Watch is a chat's saved search. Unsubscribing deactivates it so alert
// history stays attributable.
type Watch struct {
	ID           uint    `gorm:"primaryKey"`
	ChatID       int64   `gorm:"index;not null"`
	Query        string  `gorm:"type:text;not null"`
	MinDealScore float64 `gorm:"not null;default:0.25"`
	PollMinutes  int     `gorm:"not null;default:30"`
	Active       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
}

func (Watch) TableName() string {
	return "watches"
}
