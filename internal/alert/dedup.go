package alert

import (
	"context"
	"time"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// Deduplicator guards against re-alerting a chat about a listing it has
// already seen. The alert log is the source of truth, so suppression
// survives restarts and spans watches within the same chat.
type Deduplicator struct {
	repo repository.Repository
}

func NewDeduplicator(repo repository.Repository) *Deduplicator {
	return &Deduplicator{repo: repo}
}

// ShouldSend reports whether (chatID, listingID) has never been alerted.
func (d *Deduplicator) ShouldSend(ctx context.Context, chatID int64, listingID string) (bool, error) {
	alerted, err := d.repo.WasAlerted(ctx, chatID, listingID)
	if err != nil {
		return false, err
	}
	return !alerted, nil
}

// Record logs a delivered alert. Call it only after the send succeeded, so
// a failed delivery is retried on the next cycle.
func (d *Deduplicator) Record(ctx context.Context, chatID int64, listingID string, dealScore float64) error {
	return d.repo.InsertAlertRecord(ctx, &models.AlertRecord{
		ChatID:    chatID,
		ListingID: listingID,
		SentAt:    time.Now().UTC(),
		DealScore: dealScore,
	})
}
