package alert

import (
	"fmt"
	"html"
	"strings"

	"vinylscout/internal/scorer"
)

// FormatDealMessage renders a deal as Telegram HTML. The link target is
// passed in separately because it may carry affiliate parameters.
func FormatDealMessage(deal *scorer.Deal, linkURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>DEAL FOUND</b> [%s]\n\n", strings.ToUpper(deal.Priority))
	fmt.Fprintf(&b, "<b>%s - %s</b>\n",
		html.EscapeString(deal.Match.Artist), html.EscapeString(deal.Match.Title))
	fmt.Fprintf(&b, "Price: $%s + $%s shipping\n",
		deal.Price.StringFixed(2), deal.Shipping.StringFixed(2))
	fmt.Fprintf(&b, "Discogs Median: $%s\n", deal.Match.MedianPrice.StringFixed(2))
	fmt.Fprintf(&b, "<b>You Save: %d%%</b>\n", int(deal.DealScore*100))

	if deal.Condition != nil {
		fmt.Fprintf(&b, "Condition: %s\n", html.EscapeString(*deal.Condition))
	}

	fmt.Fprintf(&b, "Match: %s (%d%%)\n\n",
		html.EscapeString(deal.Match.Method), int(deal.Match.Confidence*100))
	fmt.Fprintf(&b, `<a href="%s">View on eBay</a>`, html.EscapeString(linkURL))

	return b.String()
}
