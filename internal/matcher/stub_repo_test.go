package matcher

import (
	"context"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// stubRepo backs the strategies with fixed lookup tables. Methods the
// matcher never calls fall through to the embedded nil interface.
type stubRepo struct {
	repository.Repository

	byCatalog    map[string]*models.Release
	byNormalized map[string]*models.Release
	byBarcode    map[string]*models.Release
	searchHits   []models.Release

	searchCalls int
}

func (s *stubRepo) LookupByCatalog(_ context.Context, catalogNo string) (*models.Release, error) {
	return s.byCatalog[catalogNo], nil
}

func (s *stubRepo) LookupByCatalogNormalized(_ context.Context, normalized string) (*models.Release, error) {
	return s.byNormalized[normalized], nil
}

func (s *stubRepo) LookupByBarcode(_ context.Context, barcode string) (*models.Release, error) {
	return s.byBarcode[barcode], nil
}

func (s *stubRepo) SearchReleases(_ context.Context, _ string, limit int) ([]models.Release, error) {
	s.searchCalls++
	if len(s.searchHits) > limit {
		return s.searchHits[:limit], nil
	}
	return s.searchHits, nil
}
