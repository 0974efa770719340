package gormrepository

import (
	"context"
	"strings"
	"time"

	"vinylscout/internal/models"
)

func (s *Store) WasAlerted(ctx context.Context, chatID int64, listingID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.AlertRecord{}).
		Where("chat_id = ? AND listing_id = ?", chatID, listingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) InsertAlertRecord(ctx context.Context, item *models.AlertRecord) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ListingID) == "" {
		return nil
	}
	if item.SentAt.IsZero() {
		item.SentAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) DeleteAlertRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("sent_at < ?", cutoff).
		Delete(&models.AlertRecord{})
	return res.RowsAffected, res.Error
}
