package matcher

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vinylscout/internal/repository"
)

// MatchResult identifies the reference release a listing resolved to and
// how much the resolving strategy trusts the match.
type MatchResult struct {
	ReleaseID   int64
	Artist      string
	Title       string
	MedianPrice *decimal.Decimal
	Method      string
	Confidence  float64
}

// Strategy resolves a listing title (plus an optional external identifier
// such as a UPC) to a reference release. No match is (nil, nil).
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, title, externalID string) (*MatchResult, error)
}

// Engine runs strategies in declaration order and returns the first hit,
// so the highest-trust method available always wins. Adding a tier means
// appending a Strategy, not touching the cascade.
type Engine struct {
	strategies []Strategy
	logger     *zap.Logger
}

type Options struct {
	FuzzyCutoff     float64
	FuzzyCandidates int
}

func NewEngine(repo repository.Repository, logger *zap.Logger, opts Options) *Engine {
	if opts.FuzzyCutoff <= 0 || opts.FuzzyCutoff > 1 {
		opts.FuzzyCutoff = 0.85
	}
	if opts.FuzzyCandidates <= 0 {
		opts.FuzzyCandidates = 50
	}
	return &Engine{
		strategies: []Strategy{
			&catalogStrategy{repo: repo},
			&barcodeStrategy{repo: repo},
			&fuzzyStrategy{repo: repo, cutoff: opts.FuzzyCutoff, candidates: opts.FuzzyCandidates},
		},
		logger: logger,
	}
}

func (e *Engine) Resolve(ctx context.Context, title, externalID string) (*MatchResult, error) {
	if e == nil {
		return nil, nil
	}
	for _, st := range e.strategies {
		result, err := st.Resolve(ctx, title, externalID)
		if err != nil {
			return nil, err
		}
		if result != nil {
			if e.logger != nil {
				e.logger.Debug("listing matched",
					zap.String("strategy", st.Name()),
					zap.Int64("release_id", result.ReleaseID),
					zap.Float64("confidence", result.Confidence),
				)
			}
			return result, nil
		}
	}
	return nil, nil
}
