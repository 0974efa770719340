package scorer

import (
	"sort"

	"github.com/shopspring/decimal"

	"vinylscout/internal/matcher"
	"vinylscout/internal/models"
)

// Priority tiers by deal score.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	highThreshold   = 0.40
	mediumThreshold = 0.25
)

// Deal is a listing priced usefully below its release's median, ready to be
// ranked, filtered against a watch threshold and formatted into an alert.
type Deal struct {
	ListingID    string
	Title        string
	Price        decimal.Decimal
	Shipping     decimal.Decimal
	TotalCost    decimal.Decimal
	Condition    *string
	SellerRating *float64
	ItemWebURL   string
	Match        *matcher.MatchResult
	DealScore    float64
	Priority     string
}

// Score rates one matched listing against its release's median price:
// (median - total cost) / median. Listings at or above median, and matches
// with no usable median, are not deals and return nil.
func Score(listing *models.Listing, match *matcher.MatchResult) *Deal {
	if listing == nil || match == nil {
		return nil
	}
	if match.MedianPrice == nil || !match.MedianPrice.IsPositive() {
		return nil
	}

	total := listing.Price.Add(listing.Shipping)
	score, _ := match.MedianPrice.Sub(total).Div(*match.MedianPrice).Float64()
	if score < 0 {
		return nil
	}

	return &Deal{
		ListingID:    listing.ID,
		Title:        listing.Title,
		Price:        listing.Price,
		Shipping:     listing.Shipping,
		TotalCost:    total,
		Condition:    listing.Condition,
		SellerRating: listing.SellerRating,
		ItemWebURL:   listing.ItemWebURL,
		Match:        match,
		DealScore:    score,
		Priority:     priorityFor(score),
	}
}

func priorityFor(score float64) string {
	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// FilterDeals keeps deals at or above minScore, best first.
func FilterDeals(deals []*Deal, minScore float64) []*Deal {
	kept := make([]*Deal, 0, len(deals))
	for _, d := range deals {
		if d != nil && d.DealScore >= minScore {
			kept = append(kept, d)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].DealScore > kept[j].DealScore
	})
	return kept
}
