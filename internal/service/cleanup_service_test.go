package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCleanupRunOnce(t *testing.T) {
	repo := newMemRepo()
	repo.deletedListings = 12
	repo.deletedAlerts = 3
	svc := &CleanupService{
		Store:             repo,
		ListingRetention:  30 * 24 * time.Hour,
		AlertLogRetention: 90 * 24 * time.Hour,
		Logger:            zap.NewNop(),
	}

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Listings != 12 || result.Alerts != 3 {
		t.Fatalf("result = %+v", result)
	}

	// Alert log retention is longer, so its cutoff sits further back; a
	// listing can age out and reappear without re-alerting.
	if !repo.alertsCutoff.Before(repo.listingsCutoff) {
		t.Errorf("alert cutoff %v not before listing cutoff %v", repo.alertsCutoff, repo.listingsCutoff)
	}
}
