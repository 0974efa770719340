package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vinylscout/internal/config"
	"vinylscout/internal/ratelimit"
)

const userAgent = "VinylScout/1.0"

// Discogs disambiguates same-named artists with a numeric suffix, e.g.
// "Nirvana (2)". The suffix is noise for matching.
var artistSuffixRe = regexp.MustCompile(`\s*\(\d+\)$`)

// Conditions Discogs keys price suggestions by.
const (
	conditionVGPlus = "Very Good Plus (VG+)"
	conditionGood   = "Good (G)"
)

// APIError is an unexpected Discogs response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discogs api %d: %s", e.StatusCode, e.Body)
}

// Release is the subset of a Discogs release the matcher cares about.
type Release struct {
	ID        int64
	Artist    string
	Title     string
	CatalogNo string
	Barcode   string
	Format    string
}

// PriceStats carries suggested prices for a release: the VG+ suggestion
// serves as the market median, the G suggestion as the floor.
type PriceStats struct {
	Median decimal.Decimal
	Floor  *decimal.Decimal
}

// SearchResult is one hit from the database search endpoint.
type SearchResult struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Client talks to the Discogs REST API with a personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *ratelimit.Limiter
	logger     *zap.Logger
}

func New(cfg config.DiscogsConfig, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		limiter:    limiter,
		logger:     logger,
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
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("discogs get %s: %w", path, err)
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
		return resp.StatusCode, fmt.Errorf("discogs decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

type releaseResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Labels []struct {
		Catno string `json:"catno"`
	} `json:"labels"`
	Identifiers []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"identifiers"`
	Formats []struct {
		Name string `json:"name"`
	} `json:"formats"`
}

// GetRelease fetches one release by ID. Unknown IDs are (nil, nil).
func (c *Client) GetRelease(ctx context.Context, releaseID int64) (*Release, error) {
	var raw releaseResponse
	status, err := c.get(ctx, "/releases/"+strconv.FormatInt(releaseID, 10), nil, &raw)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	out := &Release{ID: raw.ID, Title: raw.Title}
	if len(raw.Artists) > 0 {
		out.Artist = artistSuffixRe.ReplaceAllString(raw.Artists[0].Name, "")
	}
	if len(raw.Labels) > 0 {
		out.CatalogNo = raw.Labels[0].Catno
	}
	for _, ident := range raw.Identifiers {
		if ident.Type == "Barcode" && ident.Value != "" {
			out.Barcode = ident.Value
			break
		}
	}
	if len(raw.Formats) > 0 {
		out.Format = raw.Formats[0].Name
	}
	return out, nil
}

// GetPriceStats fetches marketplace price suggestions for a release.
// Returns (nil, nil) when the release is unknown or has no VG+ suggestion.
func (c *Client) GetPriceStats(ctx context.Context, releaseID int64) (*PriceStats, error) {
	var raw map[string]struct {
		Value float64 `json:"value"`
	}
	status, err := c.get(ctx, "/marketplace/price_suggestions/"+strconv.FormatInt(releaseID, 10), nil, &raw)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	vgp, ok := raw[conditionVGPlus]
	if !ok {
		return nil, nil
	}
	stats := &PriceStats{Median: decimal.NewFromFloat(vgp.Value)}
	if good, ok := raw[conditionGood]; ok {
		floor := decimal.NewFromFloat(good.Value)
		stats.Floor = &floor
	}
	return stats, nil
}

// Search runs a database search for vinyl releases matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")
	params.Set("per_page", strconv.Itoa(limit))

	var raw struct {
		Results []SearchResult `json:"results"`
	}
	if _, err := c.get(ctx, "/database/search", params, &raw); err != nil {
		return nil, err
	}
	return raw.Results, nil
}
