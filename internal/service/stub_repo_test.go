package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

type priceUpdate struct {
	median *decimal.Decimal
	floor  *decimal.Decimal
	at     time.Time
}

// memRepo is an in-memory Repository for service tests. Methods a test
// never reaches fall through to the embedded nil interface.
type memRepo struct {
	repository.Repository

	releases   map[int64]*models.Release
	byCatalog  map[string]*models.Release
	byBarcode  map[string]*models.Release
	searchHits []models.Release
	stale      []models.Release

	listings     map[string]*models.Listing
	matches      map[string]repository.ListingMatchUpdate
	notified     map[string]time.Time
	watches      []models.Watch
	alertRecords []*models.AlertRecord

	priceUpdates    map[int64]priceUpdate
	priceChecked    map[int64]time.Time
	listingsCutoff  time.Time
	alertsCutoff    time.Time
	deletedListings int64
	deletedAlerts   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		releases:     map[int64]*models.Release{},
		byCatalog:    map[string]*models.Release{},
		byBarcode:    map[string]*models.Release{},
		listings:     map[string]*models.Listing{},
		matches:      map[string]repository.ListingMatchUpdate{},
		notified:     map[string]time.Time{},
		priceUpdates: map[int64]priceUpdate{},
	}
}

func (m *memRepo) addRelease(r *models.Release) {
	m.releases[r.ID] = r
	if r.CatalogNo != nil {
		m.byCatalog[*r.CatalogNo] = r
	}
	if r.Barcode != nil {
		m.byBarcode[*r.Barcode] = r
	}
}

func (m *memRepo) UpsertRelease(_ context.Context, item *models.Release) error {
	m.addRelease(item)
	return nil
}

func (m *memRepo) GetRelease(_ context.Context, id int64) (*models.Release, error) {
	return m.releases[id], nil
}

func (m *memRepo) LookupByCatalog(_ context.Context, catalogNo string) (*models.Release, error) {
	return m.byCatalog[catalogNo], nil
}

func (m *memRepo) LookupByCatalogNormalized(_ context.Context, normalized string) (*models.Release, error) {
	return nil, nil
}

func (m *memRepo) LookupByBarcode(_ context.Context, barcode string) (*models.Release, error) {
	return m.byBarcode[barcode], nil
}

func (m *memRepo) SearchReleases(_ context.Context, _ string, limit int) ([]models.Release, error) {
	if len(m.searchHits) > limit {
		return m.searchHits[:limit], nil
	}
	return m.searchHits, nil
}

func (m *memRepo) ListStaleReleases(_ context.Context, _ time.Time, limit int) ([]models.Release, error) {
	if len(m.stale) > limit {
		return m.stale[:limit], nil
	}
	return m.stale, nil
}

func (m *memRepo) UpdateReleasePrices(_ context.Context, id int64, median, floor *decimal.Decimal, at time.Time) error {
	m.priceUpdates[id] = priceUpdate{median: median, floor: floor, at: at}
	return nil
}

func (m *memRepo) MarkReleasePriceChecked(_ context.Context, id int64, at time.Time) error {
	if m.priceChecked == nil {
		m.priceChecked = map[int64]time.Time{}
	}
	m.priceChecked[id] = at
	return nil
}

func (m *memRepo) UpsertListing(_ context.Context, item *models.Listing) error {
	m.listings[item.ID] = item
	return nil
}

func (m *memRepo) GetListing(_ context.Context, id string) (*models.Listing, error) {
	return m.listings[id], nil
}

func (m *memRepo) UpdateListingMatch(_ context.Context, id string, match repository.ListingMatchUpdate) error {
	m.matches[id] = match
	return nil
}

func (m *memRepo) MarkListingNotified(_ context.Context, id string, at time.Time) error {
	if _, done := m.notified[id]; !done {
		m.notified[id] = at
	}
	return nil
}

func (m *memRepo) DeleteListingsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.listingsCutoff = cutoff
	return m.deletedListings, nil
}

func (m *memRepo) ListActiveWatches(_ context.Context) ([]models.Watch, error) {
	var active []models.Watch
	for _, w := range m.watches {
		if w.Active {
			active = append(active, w)
		}
	}
	return active, nil
}

func alertKey(chatID int64, listingID string) string {
	return fmt.Sprintf("%d:%s", chatID, listingID)
}

func (m *memRepo) WasAlerted(_ context.Context, chatID int64, listingID string) (bool, error) {
	for _, rec := range m.alertRecords {
		if alertKey(rec.ChatID, rec.ListingID) == alertKey(chatID, listingID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) InsertAlertRecord(_ context.Context, item *models.AlertRecord) error {
	m.alertRecords = append(m.alertRecords, item)
	return nil
}

func (m *memRepo) DeleteAlertRecordsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.alertsCutoff = cutoff
	return m.deletedAlerts, nil
}
