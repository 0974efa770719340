package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// UpsertListing records an observation. On conflict only the observed
// fields are rewritten: first_seen, notified_at and the match fields belong
// to other writers.
func (s *Store) UpsertListing(ctx context.Context, item *models.Listing) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return nil
	}
	if item.FirstSeen.IsZero() {
		item.FirstSeen = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"price",
			"shipping",
			"condition",
			"seller_rating",
			"item_web_url",
		}),
	}).Create(item).Error
}

func (s *Store) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Listing
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateListingMatch(ctx context.Context, id string, match repository.ListingMatchUpdate) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"match_release_id": match.ReleaseID,
			"match_method":     match.Method,
			"match_confidence": match.Confidence,
			"deal_score":       match.DealScore,
		}).Error
}

// MarkListingNotified stamps notified_at once; a stamped listing is never
// re-stamped.
func (s *Store) MarkListingNotified(ctx context.Context, id string, at time.Time) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ? AND notified_at IS NULL", id).
		Update("notified_at", at).Error
}

func (s *Store) DeleteListingsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("first_seen < ?", cutoff).
		Delete(&models.Listing{})
	return res.RowsAffected, res.Error
}
