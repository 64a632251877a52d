package model

import (
	"fmt"
	"sort"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

// hybridPoolSize bounds the preference pool fed into the anchor re-rank.
const hybridPoolSize = 50

// RecommenderModel pairs a catalog snapshot with its precomputed
// item-to-item similarity matrix. The vectorizer and rating scaler are the
// exact transforms the matrix was built with; they travel with the artifact
// so a retrain can reproduce the feature space.
type RecommenderModel struct {
	Items       []domain.CatalogItem  `json:"items"`
	Similarity  [][]float64           `json:"similarity"`
	Vectorizer  *feature.Vectorizer   `json:"vectorizer"`
	RatingScale *feature.MinMaxScaler `json:"ratingScale"`
	Categories  []string              `json:"categories"`
	Regions     []string              `json:"regions"`

	Manifest domain.Manifest `json:"-"`

	snapshot domain.CatalogSnapshot
	index    domain.SimilarityIndex
}

// Snapshot returns the catalog the similarity index is aligned with.
func (m *RecommenderModel) Snapshot() domain.CatalogSnapshot { return m.snapshot }

// Index returns the validated similarity index.
func (m *RecommenderModel) Index() domain.SimilarityIndex { return m.index }

// Similar ranks catalog items by similarity to the anchor item, most
// similar first, excluding the anchor itself. Ties keep catalog order.
func (m *RecommenderModel) Similar(itemID string, limit int) ([]domain.RankedItem, error) {
	row, ok := m.snapshot.IndexOf(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	scores := m.index.Row(row)
	ranked := make([]domain.RankedItem, 0, m.snapshot.Len()-1)
	for i := 0; i < m.snapshot.Len(); i++ {
		if i == row {
			continue
		}
		ranked = append(ranked, rankedAt(m.snapshot, i, scores[i]))
	}
	sortRanked(ranked)
	return truncate(ranked, limit), nil
}

// PreferenceFilter narrows the catalog before ranking. Empty slices match
// everything; both filters must pass when set.
type PreferenceFilter struct {
	Categories []string
	Regions    []string
	MinRating  float64
}

// ByPreference filters the catalog and ranks the survivors by rating,
// highest first, ties keeping catalog order. Score is the rating on a
// 0-1 scale.
func (m *RecommenderModel) ByPreference(f PreferenceFilter, limit int) ([]domain.RankedItem, error) {
	ranked := make([]domain.RankedItem, 0, m.snapshot.Len())
	for i := 0; i < m.snapshot.Len(); i++ {
		item := m.snapshot.At(i)
		if item.Rating < f.MinRating {
			continue
		}
		if !matchesAny(item.Category, f.Categories) || !matchesAny(item.Region, f.Regions) {
			continue
		}
		ranked = append(ranked, rankedAt(m.snapshot, i, item.Rating/5))
	}
	sortRanked(ranked)
	return truncate(ranked, limit), nil
}

// Hybrid runs a preference pass over a wider pool, then re-ranks it by
// similarity to the anchor item. An unknown or empty anchor keeps the
// preference ranking and its rating-derived scores untouched.
func (m *RecommenderModel) Hybrid(f PreferenceFilter, anchorID string, limit int) ([]domain.RankedItem, error) {
	pool := f
	pool.MinRating = 0
	ranked, err := m.ByPreference(pool, hybridPoolSize)
	if err != nil {
		return nil, err
	}

	if anchor, anchored := m.snapshot.IndexOf(anchorID); anchored {
		for i := range ranked {
			ranked[i].Score = 0
			if j, ok := m.snapshot.IndexOf(ranked[i].ItemID); ok {
				ranked[i].Score = m.index.Row(anchor)[j]
			}
		}
		sortRanked(ranked)
	}
	return truncate(ranked, limit), nil
}

// SimilarityTo returns the similarity of an item to the anchor row, or the
// fallback when either id is absent from the catalog.
func (m *RecommenderModel) SimilarityTo(anchorID, itemID string, fallback float64) float64 {
	a, okA := m.snapshot.IndexOf(anchorID)
	b, okB := m.snapshot.IndexOf(itemID)
	if !okA || !okB {
		return fallback
	}
	return m.index.Row(a)[b]
}

// ItemText is the text representation items are vectorized from. Category
// appears twice to weight it above individual description words.
func ItemText(it domain.CatalogItem) string {
	return it.Description + " " + it.Category + " " + it.Category + " " + it.Region
}

func matchesAny(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if value == w {
			return true
		}
	}
	return false
}

func rankedAt(s domain.CatalogSnapshot, i int, score float64) domain.RankedItem {
	it := s.At(i)
	return domain.RankedItem{
		ItemID:   it.ID,
		Name:     it.Name,
		Region:   it.Region,
		Category: it.Category,
		Rating:   it.Rating,
		Score:    score,
	}
}

// sortRanked orders by descending score. The sort is stable so equal
// scores preserve the caller's (catalog) order.
func sortRanked(items []domain.RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func truncate(items []domain.RankedItem, limit int) []domain.RankedItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// DecodeRecommender deserializes a recommender artifact and validates the
// similarity matrix against the catalog snapshot. Misalignment is fatal:
// serving from a skewed index would silently recommend the wrong items.
func DecodeRecommender(data []byte) (*RecommenderModel, error) {
	var m RecommenderModel
	manifest, err := blob.Decode(data, &m)
	if err != nil {
		return nil, err
	}
	if len(m.Items) == 0 {
		return nil, fmt.Errorf("%w: recommender payload has no catalog items", domain.ErrArtifactCorrupt)
	}
	m.snapshot = domain.NewSnapshot(m.Items)
	idx, err := domain.NewSimilarityIndex(m.Similarity, m.snapshot)
	if err != nil {
		return nil, err
	}
	m.index = idx
	m.Manifest = manifest
	return &m, nil
}

// NewRecommender assembles a model from freshly trained components,
// validating alignment the same way decode does.
func NewRecommender(items []domain.CatalogItem, similarity [][]float64, vec *feature.Vectorizer, ratingScale *feature.MinMaxScaler) (*RecommenderModel, error) {
	m := &RecommenderModel{
		Items:       items,
		Similarity:  similarity,
		Vectorizer:  vec,
		RatingScale: ratingScale,
	}
	m.snapshot = domain.NewSnapshot(items)
	idx, err := domain.NewSimilarityIndex(similarity, m.snapshot)
	if err != nil {
		return nil, err
	}
	m.index = idx
	for _, it := range items {
		m.Categories = appendUnique(m.Categories, it.Category)
		m.Regions = appendUnique(m.Regions, it.Region)
	}
	sort.Strings(m.Categories)
	sort.Strings(m.Regions)
	return m, nil
}

func appendUnique(xs []string, x string) []string {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}
