package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vinylscout/internal/models"
)

// Repository is the persistence contract shared by the matcher, the scan
// pipeline, the bot and the maintenance loops. Not-found is (nil, nil),
// never an error. All writes are single-statement.
type Repository interface {
	// Releases (Discogs reference cache).
	UpsertRelease(ctx context.Context, item *models.Release) error
	GetRelease(ctx context.Context, id int64) (*models.Release, error)
	LookupByCatalog(ctx context.Context, catalogNo string) (*models.Release, error)
	LookupByCatalogNormalized(ctx context.Context, normalized string) (*models.Release, error)
	LookupByBarcode(ctx context.Context, barcode string) (*models.Release, error)
	SearchReleases(ctx context.Context, query string, limit int) ([]models.Release, error)
	ListStaleReleases(ctx context.Context, before time.Time, limit int) ([]models.Release, error)
	UpdateReleasePrices(ctx context.Context, id int64, median, floor *decimal.Decimal, at time.Time) error
	MarkReleasePriceChecked(ctx context.Context, id int64, at time.Time) error

	// Listings (eBay observations).
	UpsertListing(ctx context.Context, item *models.Listing) error
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	UpdateListingMatch(ctx context.Context, id string, match ListingMatchUpdate) error
	MarkListingNotified(ctx context.Context, id string, at time.Time) error
	DeleteListingsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Watches (saved searches).
	CreateWatch(ctx context.Context, item *models.Watch) error
	ListActiveWatches(ctx context.Context) ([]models.Watch, error)
	ListWatchesByChat(ctx context.Context, chatID int64) ([]models.Watch, error)
	SetWatchActive(ctx context.Context, id uint, active bool) error
	SetChatMinDealScore(ctx context.Context, chatID int64, minScore float64) error

	// Alert log (dedup source of truth).
	WasAlerted(ctx context.Context, chatID int64, listingID string) (bool, error)
	InsertAlertRecord(ctx context.Context, item *models.AlertRecord) error
	DeleteAlertRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListingMatchUpdate rewrites the resolution fields of one listing. Nil
// fields clear the previous resolution, which is how an unmatched rescan
// is recorded.
type ListingMatchUpdate struct {
	ReleaseID  *int64
	Method     *string
	Confidence *float64
	DealScore  *float64
}
