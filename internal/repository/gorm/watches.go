package gormrepository

import (
	"context"
	"strings"
	"time"

	"vinylscout/internal/models"
)

func (s *Store) CreateWatch(ctx context.Context, item *models.Watch) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Query) == "" {
		return nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListActiveWatches(ctx context.Context) ([]models.Watch, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Watch
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListWatchesByChat(ctx context.Context, chatID int64) ([]models.Watch, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Watch
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetWatchActive(ctx context.Context, id uint, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Watch{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (s *Store) SetChatMinDealScore(ctx context.Context, chatID int64, minScore float64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Watch{}).
		Where("chat_id = ?", chatID).
		Update("min_deal_score", minScore).Error
}
