package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vinylscout/internal/repository"
)

// CleanupService enforces retention: old listing observations and old alert
// log rows are purged. The alert log is kept longer than listings so dedup
// still suppresses a listing that ages out and is re-observed.
type CleanupService struct {
	Store             repository.Repository
	ListingRetention  time.Duration
	AlertLogRetention time.Duration
	Logger            *zap.Logger
}

type CleanupResult struct {
	Listings int64
	Alerts   int64
}

func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	now := time.Now().UTC()

	listings, err := s.Store.DeleteListingsBefore(ctx, now.Add(-s.ListingRetention))
	if err != nil {
		return CleanupResult{}, err
	}
	alerts, err := s.Store.DeleteAlertRecordsBefore(ctx, now.Add(-s.AlertLogRetention))
	if err != nil {
		return CleanupResult{Listings: listings}, err
	}

	s.Logger.Info("retention cleanup finished",
		zap.Int64("listings_deleted", listings),
		zap.Int64("alerts_deleted", alerts),
	)
	return CleanupResult{Listings: listings, Alerts: alerts}, nil
}
