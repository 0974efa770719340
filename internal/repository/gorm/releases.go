package gormrepository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vinylscout/internal/models"
)

// UpsertRelease writes metadata and keeps releases_fts in step. Price
// columns are never part of the update set: seeding and metadata refreshes
// must not regress a price snapshot, and UpdateReleasePrices is the sole
// price writer.
func (s *Store) UpsertRelease(ctx context.Context, item *models.Release) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	db := s.db.WithContext(ctx)

	// The old index entry must go while index and content still agree;
	// deleting after the content row changed corrupts an external-content
	// FTS5 table. With no prior content row the delete is a no-op.
	if err := db.Exec("DELETE FROM releases_fts WHERE rowid = ?", item.ID).Error; err != nil {
		return err
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"artist",
			"title",
			"catalog_no",
			"barcode",
			"format",
		}),
	}).Create(item).Error; err != nil {
		return err
	}

	catalogNo := ""
	if item.CatalogNo != nil {
		catalogNo = *item.CatalogNo
	}
	return db.Exec(
		"INSERT INTO releases_fts (rowid, artist, title, catalog_no) VALUES (?, ?, ?, ?)",
		item.ID, item.Artist, item.Title, catalogNo,
	).Error
}

func (s *Store) GetRelease(ctx context.Context, id int64) (*models.Release, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Release
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) LookupByCatalog(ctx context.Context, catalogNo string) (*models.Release, error) {
	if s == nil || s.db == nil || strings.TrimSpace(catalogNo) == "" {
		return nil, nil
	}
	var item models.Release
	err := s.db.WithContext(ctx).First(&item, "catalog_no = ?", catalogNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// LookupByCatalogNormalized compares against the stored catalog numbers with
// whitespace, hyphens, underscores and dots stripped and upper-cased, so
// "BLP-4003" finds a row stored as "BLP 4003".
func (s *Store) LookupByCatalogNormalized(ctx context.Context, normalized string) (*models.Release, error) {
	if s == nil || s.db == nil || normalized == "" {
		return nil, nil
	}
	var item models.Release
	err := s.db.WithContext(ctx).
		Where(`REPLACE(REPLACE(REPLACE(REPLACE(
			UPPER(catalog_no), ' ', ''), '-', ''), '_', ''), '.', '') = ?`, normalized).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) LookupByBarcode(ctx context.Context, barcode string) (*models.Release, error) {
	if s == nil || s.db == nil || strings.TrimSpace(barcode) == "" {
		return nil, nil
	}
	var item models.Release
	err := s.db.WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

var ftsStripRe = regexp.MustCompile(`[^\w\s]`)

// SearchReleases runs an FTS5 MATCH over artist+title+catalog_no, best rank
// first. Punctuation is stripped before querying because FTS5 treats bare
// quotes and dashes as syntax.
func (s *Store) SearchReleases(ctx context.Context, query string, limit int) ([]models.Release, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	tokens := strings.Fields(ftsStripRe.ReplaceAllString(query, ""))
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var items []models.Release
	err := s.db.WithContext(ctx).Raw(
		`SELECT r.* FROM releases_fts f
		 JOIN releases r ON r.id = f.rowid
		 WHERE releases_fts MATCH ?
		 ORDER BY f.rank
		 LIMIT ?`,
		strings.Join(tokens, " "), limit,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListStaleReleases(ctx context.Context, before time.Time, limit int) ([]models.Release, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("price_updated_at IS NULL OR price_updated_at < ?", before).
		Order("price_updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []models.Release
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateReleasePrices(ctx context.Context, id int64, median, floor *decimal.Decimal, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"median_price":     median,
			"floor_price":      floor,
			"price_updated_at": at,
		}).Error
}

// MarkReleasePriceChecked stamps price_updated_at without touching prices.
// Unpriceable releases rotate to the back of the stale batch instead of
// blocking it.
func (s *Store) MarkReleasePriceChecked(ctx context.Context, id int64, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("id = ?", id).
		Update("price_updated_at", at).Error
}
