package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Release is a Discogs reference entry. The ID comes from Discogs and never
// changes; price fields are nil until the first successful price fetch.
type Release struct {
	ID             int64            `gorm:"primaryKey;autoIncrement:false"`
	Artist         string           `gorm:"type:text;not null"`
	Title          string           `gorm:"type:text;not null"`
	CatalogNo      *string          `gorm:"type:text;index"`
	Barcode        *string          `gorm:"type:text;index"`
	Format         string           `gorm:"type:text"`
	MedianPrice    *decimal.Decimal `gorm:"type:numeric(12,2)"`
	FloorPrice     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PriceUpdatedAt *time.Time
	CreatedAt      time.Time `gorm:"not null"`
}

func (Release) TableName() string {
	return "releases"
}
