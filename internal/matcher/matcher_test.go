package matcher

import (
	"context"
	"testing"

	"vinylscout/internal/models"
)

func TestExtractCatalogNo(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Miles Davis Kind Of Blue CS 8163 Columbia LP", "CS 8163"},
		{"Art Blakey Moanin Blue Note BLP-4003 Vinyl LP", "BLP-4003"},
		{"John Coltrane Blue Train BLP-1577 Blue Note", "BLP-1577"},
		{"Beatles Abbey Road PCS 7088 UK pressing", "PCS 7088"},
		{"MFSL 1-017 Pink Floyd Dark Side", "MFSL 1-017"},
		{"Sealed reissue, near mint vinyl record", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ExtractCatalogNo(tc.title); got != tc.want {
			t.Errorf("ExtractCatalogNo(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestNormalizeCatalog(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BLP-4003", "BLP4003"},
		{"blp 4003", "BLP4003"},
		{"blp_40.03", "BLP4003"},
		{"CS 8163", "CS8163"},
	}
	for _, tc := range tests {
		got := NormalizeCatalog(tc.in)
		if got != tc.want {
			t.Errorf("NormalizeCatalog(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := NormalizeCatalog(got); again != got {
			t.Errorf("NormalizeCatalog not idempotent: %q -> %q -> %q", tc.in, got, again)
		}
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		if got := Similarity("Kind of Blue", "kind of blue"); got < 0.999 {
			t.Fatalf("Similarity = %v, want ~1.0", got)
		}
	})

	t.Run("subset titles score high", func(t *testing.T) {
		got := Similarity("Coltrane Love Supreme", "John Coltrane A Love Supreme")
		if got < 0.85 {
			t.Fatalf("Similarity = %v, want >= 0.85", got)
		}
	})

	t.Run("filler words survive the cutoff", func(t *testing.T) {
		got := Similarity("Coltrane Love Supreme original press", "John Coltrane A Love Supreme")
		if got < 0.85 {
			t.Fatalf("Similarity = %v, want >= 0.85", got)
		}
	})

	t.Run("different records score low", func(t *testing.T) {
		got := Similarity("Miles Davis Kind Of Blue", "Taylor Swift 1989")
		if got >= 0.85 {
			t.Fatalf("Similarity = %v, want < 0.85", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Similarity("", "anything"); got != 0 {
			t.Fatalf("Similarity = %v, want 0", got)
		}
	})
}

func release(id int64, artist, title string) *models.Release {
	return &models.Release{ID: id, Artist: artist, Title: title}
}

func TestEngineCatalogTierWins(t *testing.T) {
	repo := &stubRepo{
		byCatalog: map[string]*models.Release{
			"BLP-1577": release(101, "John Coltrane", "Blue Train"),
		},
		byBarcode: map[string]*models.Release{
			"074646493526": release(202, "Wrong", "Record"),
		},
	}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "Coltrane Blue Train BLP-1577 mono", "074646493526")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ReleaseID != 101 {
		t.Fatalf("got %+v, want release 101", got)
	}
	if got.Method != models.MatchMethodCatalog || got.Confidence != 1.0 {
		t.Fatalf("got method=%q confidence=%v, want catalog_no at 1.0", got.Method, got.Confidence)
	}
	if repo.searchCalls != 0 {
		t.Fatalf("fuzzy tier ran despite catalog hit")
	}
}

func TestEngineNormalizedCatalogFallback(t *testing.T) {
	repo := &stubRepo{
		byCatalog: map[string]*models.Release{},
		byNormalized: map[string]*models.Release{
			"BLP4003": release(55, "Art Blakey", "Moanin'"),
		},
	}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "Art Blakey Moanin BLP 4003 LP", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ReleaseID != 55 || got.Method != models.MatchMethodCatalog {
		t.Fatalf("got %+v, want normalized catalog hit on release 55", got)
	}
}

func TestEngineBarcodeTier(t *testing.T) {
	repo := &stubRepo{
		byBarcode: map[string]*models.Release{
			"074646493526": release(7, "Miles Davis", "Kind of Blue"),
		},
	}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "Sealed jazz record near mint", "074646493526")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ReleaseID != 7 {
		t.Fatalf("got %+v, want release 7", got)
	}
	if got.Method != models.MatchMethodBarcode || got.Confidence != 1.0 {
		t.Fatalf("got method=%q confidence=%v, want barcode at 1.0", got.Method, got.Confidence)
	}
}

func TestEngineFuzzyTier(t *testing.T) {
	repo := &stubRepo{
		searchHits: []models.Release{
			{ID: 1, Artist: "John Coltrane", Title: "A Love Supreme"},
			{ID: 2, Artist: "John Coltrane", Title: "Giant Steps"},
		},
	}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "Coltrane Love Supreme", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ReleaseID != 1 {
		t.Fatalf("got %+v, want release 1", got)
	}
	if got.Method != models.MatchMethodFuzzy {
		t.Fatalf("got method=%q, want fuzzy", got.Method)
	}
	if got.Confidence < 0.85 || got.Confidence > 1.0 {
		t.Fatalf("confidence %v out of range", got.Confidence)
	}
}

func TestEngineFuzzyBelowCutoff(t *testing.T) {
	repo := &stubRepo{
		searchHits: []models.Release{
			{ID: 1, Artist: "Taylor Swift", Title: "1989"},
		},
	}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "Obscure private press folk", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want no match below cutoff", got)
	}
}

func TestEngineNoMatchAnywhere(t *testing.T) {
	repo := &stubRepo{}
	e := NewEngine(repo, nil, Options{})

	got, err := e.Resolve(context.Background(), "completely unknown record", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}
