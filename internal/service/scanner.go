package service

import (
	"context"

	"go.uber.org/zap"

	"vinylscout/internal/client/ebay"
	"vinylscout/internal/matcher"
	"vinylscout/internal/models"
	"vinylscout/internal/repository"
	"vinylscout/internal/scorer"
)

// EbayAPI is the slice of the eBay client the scanner uses.
type EbayAPI interface {
	SearchListings(ctx context.Context, query string) ([]ebay.ListingSummary, error)
	GetItem(ctx context.Context, itemID string) (*ebay.ItemDetail, error)
}

// Scanner runs one scan cycle: search eBay, resolve each listing against
// the reference catalog, score it, and persist what was observed.
type Scanner struct {
	Ebay   EbayAPI
	Store  repository.Repository
	Engine *matcher.Engine
	Logger *zap.Logger
}

// Scan searches one query and returns the deals found. Every observed
// listing is persisted whether or not it became a deal, so retention and
// re-match behavior do not depend on pricing data being present.
//
// The detail endpoint is only hit when the title carries no catalog code,
// since a catalog hit never needs the UPC.
func (s *Scanner) Scan(ctx context.Context, query string) ([]*scorer.Deal, error) {
	listings, err := s.Ebay.SearchListings(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}

	var deals []*scorer.Deal
	for i := range listings {
		if err := ctx.Err(); err != nil {
			return deals, err
		}
		deal, err := s.scanOne(ctx, &listings[i])
		if err != nil {
			return deals, err
		}
		if deal != nil {
			deals = append(deals, deal)
		}
	}

	s.Logger.Info("scan cycle finished",
		zap.String("query", query),
		zap.Int("listings", len(listings)),
		zap.Int("deals", len(deals)),
	)
	return deals, nil
}

func (s *Scanner) scanOne(ctx context.Context, summary *ebay.ListingSummary) (*scorer.Deal, error) {
	upc := ""
	if matcher.ExtractCatalogNo(summary.Title) == "" {
		detail, err := s.Ebay.GetItem(ctx, summary.ItemID)
		if err != nil {
			// Enrichment is best-effort; the fuzzy tier can still match.
			s.Logger.Warn("item detail fetch failed",
				zap.String("item_id", summary.ItemID), zap.Error(err))
		} else if detail != nil {
			upc = ebay.ExtractUPC(detail.LocalizedAspects)
		}
	}

	result, err := s.Engine.Resolve(ctx, summary.Title, upc)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:           summary.ItemID,
		Title:        summary.Title,
		Price:        summary.Price,
		Shipping:     summary.Shipping,
		Condition:    summary.Condition,
		SellerRating: summary.SellerRating,
		ItemWebURL:   summary.ItemWebURL,
	}
	if err := s.Store.UpsertListing(ctx, listing); err != nil {
		return nil, err
	}

	var update repository.ListingMatchUpdate
	var deal *scorer.Deal
	if result != nil {
		update.ReleaseID = &result.ReleaseID
		update.Method = &result.Method
		update.Confidence = &result.Confidence
		if deal = scorer.Score(listing, result); deal != nil {
			update.DealScore = &deal.DealScore
		}
	}
	if err := s.Store.UpdateListingMatch(ctx, summary.ItemID, update); err != nil {
		return nil, err
	}
	return deal, nil
}
