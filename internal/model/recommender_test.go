package model

import (
	"errors"
	"testing"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

func testCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "d1", Name: "Ilha do Mussulo", Region: "Luanda", Category: "praia", Rating: 4.5, Description: "praia tranquila com areia branca"},
		{ID: "d2", Name: "Fortaleza de São Miguel", Region: "Luanda", Category: "cultura", Rating: 4.2, Description: "fortaleza histórica com museu"},
		{ID: "d3", Name: "Baía Azul", Region: "Benguela", Category: "praia", Rating: 4.7, Description: "praia de águas calmas"},
		{ID: "d4", Name: "Lubango Cristo Rei", Region: "Huila", Category: "cultura", Rating: 4.7, Description: "monumento com vista da cidade"},
	}
}

func testRecommender(t *testing.T) *RecommenderModel {
	t.Helper()
	items := testCatalog()
	vec := feature.NewVectorizer(50)
	corpus := make([]string, len(items))
	for i, it := range items {
		corpus[i] = ItemText(it)
	}
	vec.Fit(corpus)

	// d1 and d3 are both beaches; d2 and d4 cluster on culture.
	sim := [][]float64{
		{1.0, 0.1, 0.8, 0.2},
		{0.1, 1.0, 0.2, 0.7},
		{0.8, 0.2, 1.0, 0.3},
		{0.2, 0.7, 0.3, 1.0},
	}
	ratings := make([]float64, len(items))
	for i, it := range items {
		ratings[i] = it.Rating
	}
	m, err := NewRecommender(items, sim, vec, feature.FitMinMax(ratings))
	if err != nil {
		t.Fatalf("NewRecommender: %v", err)
	}
	return m
}

func TestSimilarExcludesAnchorAndOrders(t *testing.T) {
	m := testRecommender(t)

	got, err := m.Similar("d1", 10)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ItemID != "d3" || got[1].ItemID != "d4" || got[2].ItemID != "d2" {
		t.Errorf("order = %s, %s, %s; want d3, d4, d2", got[0].ItemID, got[1].ItemID, got[2].ItemID)
	}
	if got[0].Score != 0.8 {
		t.Errorf("top score = %v, want 0.8", got[0].Score)
	}
}

func TestSimilarLimitAndUnknownItem(t *testing.T) {
	m := testRecommender(t)

	got, err := m.Similar("d1", 1)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}

	if _, err := m.Similar("nope", 10); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("Similar(unknown): err = %v, want ErrItemNotFound", err)
	}
}

func TestByPreferenceFiltersAndRanksByRating(t *testing.T) {
	m := testRecommender(t)

	got, err := m.ByPreference(PreferenceFilter{Categories: []string{"praia"}}, 10)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ItemID != "d3" || got[1].ItemID != "d1" {
		t.Errorf("order = %s, %s; want d3, d1 (rating descending)", got[0].ItemID, got[1].ItemID)
	}
	if got[0].Score != 4.7/5 {
		t.Errorf("score = %v, want %v", got[0].Score, 4.7/5)
	}
}

func TestByPreferenceCombinedFilters(t *testing.T) {
	m := testRecommender(t)

	// Category and region must both match.
	got, err := m.ByPreference(PreferenceFilter{
		Categories: []string{"cultura"},
		Regions:    []string{"Luanda"},
	}, 10)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	if len(got) != 1 || got[0].ItemID != "d2" {
		t.Fatalf("got %+v, want only d2", got)
	}

	// Rating floor drops d2.
	got, err = m.ByPreference(PreferenceFilter{MinRating: 4.4}, 10)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	for _, r := range got {
		if r.Rating < 4.4 {
			t.Errorf("%s survived the rating filter with rating %v", r.ItemID, r.Rating)
		}
	}
}

func TestByPreferenceTiesKeepCatalogOrder(t *testing.T) {
	m := testRecommender(t)

	got, err := m.ByPreference(PreferenceFilter{}, 10)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	// d3 and d4 share rating 4.7; d3 precedes d4 in the catalog.
	if got[0].ItemID != "d3" || got[1].ItemID != "d4" {
		t.Errorf("tie order = %s, %s; want d3, d4", got[0].ItemID, got[1].ItemID)
	}
}

func TestHybridReRanksByAnchor(t *testing.T) {
	m := testRecommender(t)

	// Preference alone puts d3/d4 first; anchoring on d2 promotes d4.
	got, err := m.Hybrid(PreferenceFilter{}, "d2", 10)
	if err != nil {
		t.Fatalf("Hybrid: %v", err)
	}
	if got[0].ItemID != "d2" && got[0].ItemID != "d4" {
		t.Fatalf("unexpected top item %s", got[0].ItemID)
	}
	// d2 is its own best match (similarity 1.0), then d4 at 0.7.
	if got[0].ItemID != "d2" || got[1].ItemID != "d4" {
		t.Errorf("order = %s, %s; want d2, d4", got[0].ItemID, got[1].ItemID)
	}
	if got[1].Score != 0.7 {
		t.Errorf("d4 score = %v, want 0.7", got[1].Score)
	}
}

func TestHybridUnknownAnchorKeepsPreferenceRanking(t *testing.T) {
	m := testRecommender(t)

	want, err := m.ByPreference(PreferenceFilter{}, 10)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	got, err := m.Hybrid(PreferenceFilter{}, "missing", 10)
	if err != nil {
		t.Fatalf("Hybrid: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ItemID != want[i].ItemID {
			t.Errorf("position %d: %s, want %s", i, got[i].ItemID, want[i].ItemID)
		}
		if got[i].Score != want[i].Score {
			t.Errorf("%s score = %v, want rating-derived %v", got[i].ItemID, got[i].Score, want[i].Score)
		}
	}
	if got[0].Score != got[0].Rating/5 {
		t.Errorf("top score = %v, want rating/5 = %v", got[0].Score, got[0].Rating/5)
	}
}

func TestHybridIgnoresMinRatingInPool(t *testing.T) {
	m := testRecommender(t)

	got, err := m.Hybrid(PreferenceFilter{MinRating: 5.0}, "d1", 10)
	if err != nil {
		t.Fatalf("Hybrid: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4 (rating floor not applied to the pool)", len(got))
	}
}

func TestSimilarityToFallback(t *testing.T) {
	m := testRecommender(t)

	if got := m.SimilarityTo("d1", "d3", 0); got != 0.8 {
		t.Errorf("SimilarityTo(d1, d3) = %v, want 0.8", got)
	}
	if got := m.SimilarityTo("missing", "d3", 0); got != 0 {
		t.Errorf("SimilarityTo with missing anchor = %v, want fallback 0", got)
	}
}

func TestDecodeRecommenderRoundTrip(t *testing.T) {
	in := testRecommender(t)
	data, err := blob.Encode(domain.Manifest{Name: "recommender", Version: "1"}, in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := DecodeRecommender(data)
	if err != nil {
		t.Fatalf("DecodeRecommender: %v", err)
	}
	if out.Snapshot().Len() != 4 {
		t.Errorf("Snapshot().Len() = %d, want 4", out.Snapshot().Len())
	}
	if out.Manifest.Name != "recommender" {
		t.Errorf("Manifest.Name = %q", out.Manifest.Name)
	}

	before, err := in.Similar("d1", 10)
	if err != nil {
		t.Fatalf("Similar before: %v", err)
	}
	after, err := out.Similar("d1", 10)
	if err != nil {
		t.Fatalf("Similar after: %v", err)
	}
	for i := range before {
		if before[i].ItemID != after[i].ItemID || before[i].Score != after[i].Score {
			t.Errorf("rank %d diverged after decode: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestDecodeRecommenderMisalignment(t *testing.T) {
	in := testRecommender(t)
	in.Similarity = in.Similarity[:2] // drop rows, keep four items
	data, err := blob.Encode(domain.Manifest{}, in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeRecommender(data); !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Errorf("DecodeRecommender misaligned: err = %v, want ErrSchemaMismatch", err)
	}

	empty, err := blob.Encode(domain.Manifest{}, &RecommenderModel{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeRecommender(empty); !errors.Is(err, domain.ErrArtifactCorrupt) {
		t.Errorf("DecodeRecommender empty: err = %v, want ErrArtifactCorrupt", err)
	}
}
