package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Match methods recorded on a listing, ordered by descending trust.
const (
	MatchMethodCatalog = "catalog_no"
	MatchMethodBarcode = "barcode"
	MatchMethodFuzzy   = "fuzzy"
)

// Listing is an observed eBay offer. Match fields are rewritten on every
// scan; NotifiedAt is stamped once and never cleared.
type Listing struct {
	ID              string          `gorm:"primaryKey;type:text"`
	Title           string          `gorm:"type:text;not null"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Shipping        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Condition       *string         `gorm:"type:text"`
	SellerRating    *float64
	ItemWebURL      string   `gorm:"type:text"`
	MatchReleaseID  *int64   `gorm:"index"`
	MatchMethod     *string  `gorm:"type:text"`
	MatchConfidence *float64
	DealScore       *float64
	NotifiedAt      *time.Time
	FirstSeen       time.Time `gorm:"not null"`
}

func (Listing) TableName() string {
	return "listings"
}
