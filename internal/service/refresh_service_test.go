package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vinylscout/internal/client/discogs"
	"vinylscout/internal/models"
)

type stubDiscogs struct {
	releases map[int64]*discogs.Release
	stats    map[int64]*discogs.PriceStats
	statsErr map[int64]error
	searches map[string][]discogs.SearchResult
}

func (s *stubDiscogs) GetRelease(_ context.Context, releaseID int64) (*discogs.Release, error) {
	return s.releases[releaseID], nil
}

func (s *stubDiscogs) GetPriceStats(_ context.Context, releaseID int64) (*discogs.PriceStats, error) {
	if err := s.statsErr[releaseID]; err != nil {
		return nil, err
	}
	return s.stats[releaseID], nil
}

func (s *stubDiscogs) Search(_ context.Context, query string, _ int) ([]discogs.SearchResult, error) {
	return s.searches[query], nil
}

func TestRefreshStalePrices(t *testing.T) {
	repo := newMemRepo()
	repo.stale = []models.Release{{ID: 1}, {ID: 2}, {ID: 3}}
	floor := decimal.RequireFromString("12.50")
	api := &stubDiscogs{
		stats: map[int64]*discogs.PriceStats{
			1: {Median: decimal.RequireFromString("49.99"), Floor: &floor},
			// 2 has no suggestions at all.
		},
		statsErr: map[int64]error{3: errors.New("rate limited")},
	}
	svc := &RefreshService{
		Store:   repo,
		Discogs: api,
		MaxAge:  7 * 24 * time.Hour,
		Logger:  zap.NewNop(),
	}

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Checked != 3 || result.Refreshed != 1 {
		t.Fatalf("result = %+v, want checked 3 refreshed 1", result)
	}

	update, ok := repo.priceUpdates[1]
	if !ok {
		t.Fatal("release 1 prices not updated")
	}
	if update.median == nil || update.median.String() != "49.99" {
		t.Errorf("median = %v", update.median)
	}
	if update.floor == nil || update.floor.String() != "12.5" {
		t.Errorf("floor = %v", update.floor)
	}
	if update.at.IsZero() {
		t.Error("refresh timestamp not set")
	}

	// No suggestion keeps the prices but stamps the check, so the release
	// rotates to the back of the oldest-first batch instead of pinning it.
	if _, ok := repo.priceUpdates[2]; ok {
		t.Error("release without suggestions had prices written")
	}
	if _, ok := repo.priceChecked[2]; !ok {
		t.Error("release without suggestions not stamped as checked")
	}

	// A hard fetch failure leaves the release fully untouched for a retry
	// on the next run.
	if _, ok := repo.priceUpdates[3]; ok {
		t.Error("release with failed fetch was updated")
	}
	if _, ok := repo.priceChecked[3]; ok {
		t.Error("release with failed fetch was stamped")
	}
}

func TestSeedFromSearch(t *testing.T) {
	repo := newMemRepo()
	api := &stubDiscogs{
		searches: map[string][]discogs.SearchResult{
			"blue note": {{ID: 101, Title: "John Coltrane - Blue Train"}, {ID: 404, Title: "Gone"}},
		},
		releases: map[int64]*discogs.Release{
			101: {
				ID: 101, Artist: "John Coltrane", Title: "Blue Train",
				CatalogNo: "BLP 1577", Barcode: "074646088821", Format: "Vinyl",
			},
			// 404 vanished between search and fetch.
		},
	}
	svc := &RefreshService{
		Store:     repo,
		Discogs:   api,
		SeedLimit: 50,
		Logger:    zap.NewNop(),
	}

	seeded, err := svc.SeedFromSearch(context.Background(), "blue note")
	if err != nil {
		t.Fatalf("SeedFromSearch: %v", err)
	}
	if seeded != 1 {
		t.Fatalf("seeded = %d, want 1", seeded)
	}

	got := repo.releases[101]
	if got == nil {
		t.Fatal("release 101 not stored")
	}
	if got.Artist != "John Coltrane" || got.CatalogNo == nil || *got.CatalogNo != "BLP 1577" {
		t.Errorf("stored release = %+v", got)
	}
	if got.Barcode == nil || *got.Barcode != "074646088821" {
		t.Errorf("barcode = %v", got.Barcode)
	}
	if got.MedianPrice != nil {
		t.Error("seeding must not invent prices")
	}
}
