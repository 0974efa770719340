package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vinylscout/internal/alert"
	"vinylscout/internal/models"
	"vinylscout/internal/repository"
	"vinylscout/internal/scorer"
)

// PollService drives the deal-discovery loop: on every tick it scans each
// active watch that has come due, filters deals against the watch's
// threshold and delivers alerts. One watch failing never blocks the rest.
type PollService struct {
	Store    repository.Repository
	Scanner  *Scanner
	Dedup    *alert.Deduplicator
	Notifier *alert.Notifier
	Tick     time.Duration
	Logger   *zap.Logger

	lastRun map[uint]time.Time
}

func (s *PollService) Run(ctx context.Context) error {
	if s.Tick <= 0 {
		s.Tick = time.Minute
	}
	if err := s.RunOnce(ctx); err != nil {
		s.Logger.Error("poll cycle failed", zap.Error(err))
	}
	t := time.NewTicker(s.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := s.RunOnce(ctx); err != nil {
				s.Logger.Error("poll cycle failed", zap.Error(err))
			}
		}
	}
}

// RunOnce polls every active watch that is due. The returned error is only
// non-nil when the watch list itself cannot be loaded or ctx ended.
func (s *PollService) RunOnce(ctx context.Context) error {
	watches, err := s.Store.ListActiveWatches(ctx)
	if err != nil {
		return err
	}
	if s.lastRun == nil {
		s.lastRun = make(map[uint]time.Time)
	}

	now := time.Now()
	for i := range watches {
		if err := ctx.Err(); err != nil {
			return err
		}
		w := &watches[i]
		if !s.due(w, now) {
			continue
		}
		s.lastRun[w.ID] = now
		if err := s.pollWatch(ctx, w); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Logger.Error("watch poll failed",
				zap.Uint("watch_id", w.ID),
				zap.String("query", w.Query),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *PollService) due(w *models.Watch, now time.Time) bool {
	last, ok := s.lastRun[w.ID]
	if !ok {
		return true
	}
	interval := time.Duration(w.PollMinutes) * time.Minute
	if interval <= 0 {
		interval = s.Tick
	}
	return now.Sub(last) >= interval
}

func (s *PollService) pollWatch(ctx context.Context, w *models.Watch) error {
	deals, err := s.Scanner.Scan(ctx, w.Query)
	if err != nil {
		return err
	}
	filtered := scorer.FilterDeals(deals, w.MinDealScore)
	s.Logger.Info("watch polled",
		zap.Uint("watch_id", w.ID),
		zap.String("query", w.Query),
		zap.Int("deals", len(deals)),
		zap.Int("after_filter", len(filtered)),
	)

	for _, deal := range filtered {
		fresh, err := s.Dedup.ShouldSend(ctx, w.ChatID, deal.ListingID)
		if err != nil {
			return err
		}
		if !fresh {
			continue
		}
		if err := s.Notifier.Send(ctx, w.ChatID, deal); err != nil {
			// Recorded nowhere, so the alert is retried next cycle.
			s.Logger.Error("alert delivery failed",
				zap.Int64("chat_id", w.ChatID),
				zap.String("listing_id", deal.ListingID),
				zap.Error(err),
			)
			continue
		}
		if err := s.Dedup.Record(ctx, w.ChatID, deal.ListingID, deal.DealScore); err != nil {
			return err
		}
		if err := s.Store.MarkListingNotified(ctx, deal.ListingID, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}
