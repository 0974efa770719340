package matcher

import (
	"context"
	"strings"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// barcodeStrategy is tier 2: an exact lookup of the externally supplied
// identifier (UPC/EAN). Confidence 1.0.
type barcodeStrategy struct {
	repo repository.Repository
}

func (s *barcodeStrategy) Name() string { return models.MatchMethodBarcode }

func (s *barcodeStrategy) Resolve(ctx context.Context, _, externalID string) (*MatchResult, error) {
	barcode := strings.TrimSpace(externalID)
	if barcode == "" {
		return nil, nil
	}
	release, err := s.repo.LookupByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if release == nil {
		return nil, nil
	}
	return &MatchResult{
		ReleaseID:   release.ID,
		Artist:      release.Artist,
		Title:       release.Title,
		MedianPrice: release.MedianPrice,
		Method:      models.MatchMethodBarcode,
		Confidence:  1.0,
	}, nil
}
