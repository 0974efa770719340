package matcher

import (
	"context"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

// fuzzyStrategy is tier 3: a full-text prefilter over the reference catalog
// narrows the field to a handful of candidates, then word-set similarity
// against "artist title" picks the best one. Anything under the cutoff is
// treated as no match rather than risking a wrong alert.
type fuzzyStrategy struct {
	repo       repository.Repository
	cutoff     float64
	candidates int
}

func (s *fuzzyStrategy) Name() string { return models.MatchMethodFuzzy }

func (s *fuzzyStrategy) Resolve(ctx context.Context, title, _ string) (*MatchResult, error) {
	candidates, err := s.repo.SearchReleases(ctx, title, s.candidates)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var best *models.Release
	bestScore := 0.0
	for i := range candidates {
		score := Similarity(title, candidates[i].Artist+" "+candidates[i].Title)
		// Strict >, so on equal scores the earlier (better-ranked) candidate
		// from the prefilter stands.
		if score > bestScore {
			best, bestScore = &candidates[i], score
		}
	}
	if best == nil || bestScore < s.cutoff {
		return nil, nil
	}
	return &MatchResult{
		ReleaseID:   best.ID,
		Artist:      best.Artist,
		Title:       best.Title,
		MedianPrice: best.MedianPrice,
		Method:      models.MatchMethodFuzzy,
		Confidence:  bestScore,
	}, nil
}
