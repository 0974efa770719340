package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vinylscout/internal/client/discogs"
	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// DiscogsAPI is the slice of the Discogs client the refresh loop uses.
type DiscogsAPI interface {
	GetRelease(ctx context.Context, releaseID int64) (*discogs.Release, error)
	GetPriceStats(ctx context.Context, releaseID int64) (*discogs.PriceStats, error)
	Search(ctx context.Context, query string, limit int) ([]discogs.SearchResult, error)
}

const refreshBatchSize = 100

// RefreshService keeps the reference catalog priced: it re-fetches price
// suggestions for releases whose data has gone stale, and can seed new
// releases from Discogs searches.
type RefreshService struct {
	Store     repository.Repository
	Discogs   DiscogsAPI
	MaxAge    time.Duration
	SeedLimit int
	Logger    *zap.Logger
}

type RefreshResult struct {
	Checked   int
	Refreshed int
}

// RunOnce refreshes one batch of stale releases. A release Discogs has no
// suggestions for keeps its old prices but still gets its check timestamp
// stamped; otherwise unpriceable releases would pin the head of the
// oldest-first batch forever. Hard fetch failures are left unstamped and
// retried next run.
func (s *RefreshService) RunOnce(ctx context.Context) (RefreshResult, error) {
	cutoff := time.Now().UTC().Add(-s.MaxAge)
	stale, err := s.Store.ListStaleReleases(ctx, cutoff, refreshBatchSize)
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{Checked: len(stale)}
	for i := range stale {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		release := &stale[i]
		stats, err := s.Discogs.GetPriceStats(ctx, release.ID)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.Logger.Warn("price refresh failed",
				zap.Int64("release_id", release.ID), zap.Error(err))
			continue
		}
		if stats == nil {
			if err := s.Store.MarkReleasePriceChecked(ctx, release.ID, time.Now().UTC()); err != nil {
				return result, err
			}
			continue
		}
		median := stats.Median
		if err := s.Store.UpdateReleasePrices(ctx, release.ID, &median, stats.Floor, time.Now().UTC()); err != nil {
			return result, err
		}
		result.Refreshed++
	}

	s.Logger.Info("price refresh finished",
		zap.Int("checked", result.Checked),
		zap.Int("refreshed", result.Refreshed),
	)
	return result, nil
}

// SeedFromSearch imports releases matching a Discogs search into the
// reference catalog. Existing releases are overwritten with fresh metadata;
// their prices are left to the refresh loop.
func (s *RefreshService) SeedFromSearch(ctx context.Context, query string) (int, error) {
	hits, err := s.Discogs.Search(ctx, query, s.SeedLimit)
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, hit := range hits {
		if err := ctx.Err(); err != nil {
			return seeded, err
		}
		release, err := s.Discogs.GetRelease(ctx, hit.ID)
		if err != nil {
			if ctx.Err() != nil {
				return seeded, ctx.Err()
			}
			s.Logger.Warn("seed fetch failed",
				zap.Int64("release_id", hit.ID), zap.Error(err))
			continue
		}
		if release == nil {
			continue
		}
		item := &models.Release{
			ID:     release.ID,
			Artist: release.Artist,
			Title:  release.Title,
			Format: release.Format,
		}
		if release.CatalogNo != "" {
			item.CatalogNo = &release.CatalogNo
		}
		if release.Barcode != "" {
			item.Barcode = &release.Barcode
		}
		if err := s.Store.UpsertRelease(ctx, item); err != nil {
			return seeded, err
		}
		seeded++
	}

	s.Logger.Info("catalog seeded",
		zap.String("query", query),
		zap.Int("hits", len(hits)),
		zap.Int("seeded", seeded),
	)
	return seeded, nil
}
