package discogs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"vinylscout/internal/config"
	"vinylscout/internal/ratelimit"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.DiscogsConfig{
		Token:   "secret",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, ratelimit.New(60000), zap.NewNop())
}

func TestGetRelease(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Discogs token=secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{
			"id": 123,
			"title": "Moanin'",
			"artists": [{"name": "Art Blakey (2)"}],
			"labels": [{"catno": "BLP 4003"}],
			"identifiers": [
				{"type": "Matrix / Runout", "value": "X"},
				{"type": "Barcode", "value": "074646493526"}
			],
			"formats": [{"name": "Vinyl"}]
		}`))
	}))

	got, err := c.GetRelease(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetRelease: %v", err)
	}
	want := Release{
		ID: 123, Artist: "Art Blakey", Title: "Moanin'",
		CatalogNo: "BLP 4003", Barcode: "074646493526", Format: "Vinyl",
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestGetReleaseNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	got, err := c.GetRelease(context.Background(), 999)
	if err != nil || got != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestGetReleaseServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	_, err := c.GetRelease(context.Background(), 123)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestGetPriceStats(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/marketplace/price_suggestions/123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"Very Good Plus (VG+)": {"value": 49.99, "currency": "USD"},
			"Good (G)": {"value": 12.50, "currency": "USD"}
		}`))
	}))

	got, err := c.GetPriceStats(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetPriceStats: %v", err)
	}
	if got == nil || got.Median.String() != "49.99" {
		t.Fatalf("Median = %+v, want 49.99", got)
	}
	if got.Floor == nil || got.Floor.String() != "12.5" {
		t.Fatalf("Floor = %+v, want 12.5", got.Floor)
	}
}

func TestGetPriceStatsNoSuggestion(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Good (G)": {"value": 5.00, "currency": "USD"}}`))
	}))
	got, err := c.GetPriceStats(context.Background(), 123)
	if err != nil || got != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil) without a VG+ suggestion", got, err)
	}
}

func TestSearch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "blue note jazz" || q.Get("type") != "release" || q.Get("per_page") != "25" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"results": [
			{"id": 1, "title": "Art Blakey - Moanin'"},
			{"id": 2, "title": "Lee Morgan - The Sidewinder"}
		]}`))
	}))

	got, err := c.Search(context.Background(), "blue note jazz", 25)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].Title != "Lee Morgan - The Sidewinder" {
		t.Errorf("got %+v", got)
	}
}
