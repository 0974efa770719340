package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"vinylscout/internal/config"
	"vinylscout/internal/ratelimit"
)

const (
	userAgent     = "VinylScout/1.0"
	marketplaceID = "EBAY_US"
	oauthScope    = "https://api.ebay.com/oauth/api_scope"

	// Browse API category for vinyl records.
	recordsCategoryID = "176985"
)

// APIError is an unexpected eBay response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ebay api %d: %s", e.StatusCode, e.Body)
}

// ListingSummary is one search hit, with the shipping cost of the first
// shipping option folded in.
type ListingSummary struct {
	ItemID       string
	Title        string
	Price        decimal.Decimal
	Currency     string
	Shipping     decimal.Decimal
	Condition    *string
	SellerRating *float64
	ImageURL     string
	ItemWebURL   string
}

// LocalizedAspect is one name/value pair from an item's detail page.
type LocalizedAspect struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ItemDetail is the enrichment payload for a single listing.
type ItemDetail struct {
	ItemID           string
	Title            string
	LocalizedAspects []LocalizedAspect
	ItemWebURL       string
}

// Client talks to the eBay Browse API. Token acquisition and refresh run
// through the OAuth2 client-credentials flow, so callers never see a token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *ratelimit.Limiter
	searchLimit int
	logger      *zap.Logger
}

// New builds a client. ctx bounds the lifetime of background token
// refreshes, so pass the process context, not a request one.
func New(ctx context.Context, cfg config.EbayConfig, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.AppID,
		ClientSecret: cfg.CertID,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{oauthScope},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	return &Client{
		httpClient:  cc.Client(ctx),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		limiter:     limiter,
		searchLimit: cfg.SearchLimit,
		logger:      logger,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (int, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return 0, err
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", marketplaceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ebay get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("ebay decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

type moneyValue struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type itemSummary struct {
	ItemID    string     `json:"itemId"`
	Title     string     `json:"title"`
	Price     moneyValue `json:"price"`
	Condition string     `json:"condition"`
	Seller    struct {
		FeedbackPercentage string `json:"feedbackPercentage"`
	} `json:"seller"`
	Image struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	ItemWebURL      string `json:"itemWebUrl"`
	ShippingOptions []struct {
		ShippingCost moneyValue `json:"shippingCost"`
	} `json:"shippingOptions"`
}

// SearchListings runs a fixed-price record search on the Browse API.
func (c *Client) SearchListings(ctx context.Context, query string) ([]ListingSummary, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.searchLimit))
	params.Set("filter", "buyingOptions:{FIXED_PRICE}")
	params.Set("category_ids", recordsCategoryID)

	var raw struct {
		ItemSummaries []itemSummary `json:"itemSummaries"`
	}
	if _, err := c.get(ctx, "/buy/browse/v1/item_summary/search", params, &raw); err != nil {
		return nil, err
	}

	results := make([]ListingSummary, 0, len(raw.ItemSummaries))
	for _, item := range raw.ItemSummaries {
		price, err := decimal.NewFromString(item.Price.Value)
		if err != nil {
			c.logger.Warn("skipping listing with unparseable price",
				zap.String("item_id", item.ItemID),
				zap.String("price", item.Price.Value),
			)
			continue
		}
		out := ListingSummary{
			ItemID:     item.ItemID,
			Title:      item.Title,
			Price:      price,
			Currency:   item.Price.Currency,
			ImageURL:   item.Image.ImageURL,
			ItemWebURL: item.ItemWebURL,
		}
		if len(item.ShippingOptions) > 0 {
			if ship, err := decimal.NewFromString(item.ShippingOptions[0].ShippingCost.Value); err == nil {
				out.Shipping = ship
			}
		}
		if item.Condition != "" {
			cond := item.Condition
			out.Condition = &cond
		}
		if item.Seller.FeedbackPercentage != "" {
			if rating, err := strconv.ParseFloat(item.Seller.FeedbackPercentage, 64); err == nil {
				out.SellerRating = &rating
			}
		}
		results = append(results, out)
	}
	return results, nil
}

// GetItem fetches full item details for enrichment. Unknown or delisted
// items are (nil, nil).
func (c *Client) GetItem(ctx context.Context, itemID string) (*ItemDetail, error) {
	var raw struct {
		ItemID           string            `json:"itemId"`
		Title            string            `json:"title"`
		LocalizedAspects []LocalizedAspect `json:"localizedAspects"`
		ItemWebURL       string            `json:"itemWebUrl"`
	}
	status, err := c.get(ctx, "/buy/browse/v1/item/"+url.PathEscape(itemID), nil, &raw)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return &ItemDetail{
		ItemID:           raw.ItemID,
		Title:            raw.Title,
		LocalizedAspects: raw.LocalizedAspects,
		ItemWebURL:       raw.ItemWebURL,
	}, nil
}
