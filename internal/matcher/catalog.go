package matcher

import (
	"context"
	"regexp"
	"strings"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// Catalog number shape: 1-5 uppercase letters, optional space or dash, then
// digits with optional dash-joined suffixes (BLP-4003, MFSL 1-234, APP 3014).
var catalogRe = regexp.MustCompile(`\b([A-Z]{1,5}[\s-]?\d+(?:-\d+)*)\b`)

var catalogNormalizer = strings.NewReplacer(" ", "", "\t", "", "-", "", "_", "", ".", "")

// ExtractCatalogNo pulls the first catalog-number-shaped token out of a
// listing title, or "" when there is none.
func ExtractCatalogNo(title string) string {
	m := catalogRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1]
}

// NormalizeCatalog strips whitespace, hyphens, underscores and dots and
// upper-cases, so formatting differences never block a match. Idempotent.
func NormalizeCatalog(catalogNo string) string {
	return strings.ToUpper(catalogNormalizer.Replace(catalogNo))
}

// catalogStrategy is tier 1: an exact (then normalized) lookup of a catalog
// number extracted from the title. Confidence 1.0.
type catalogStrategy struct {
	repo repository.Repository
}

func (s *catalogStrategy) Name() string { return models.MatchMethodCatalog }

func (s *catalogStrategy) Resolve(ctx context.Context, title, _ string) (*MatchResult, error) {
	catalogNo := ExtractCatalogNo(title)
	if catalogNo == "" {
		return nil, nil
	}
	release, err := s.repo.LookupByCatalog(ctx, catalogNo)
	if err != nil {
		return nil, err
	}
	if release == nil {
		release, err = s.repo.LookupByCatalogNormalized(ctx, NormalizeCatalog(catalogNo))
		if err != nil {
			return nil, err
		}
	}
	if release == nil {
		return nil, nil
	}
	return &MatchResult{
		ReleaseID:   release.ID,
		Artist:      release.Artist,
		Title:       release.Title,
		MedianPrice: release.MedianPrice,
		Method:      models.MatchMethodCatalog,
		Confidence:  1.0,
	}, nil
}
