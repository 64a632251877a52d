package domain

import "fmt"

// CatalogItem is one destination record captured at training time.
// Description is only populated when served from a direct catalog query;
// results built from the similarity index leave it empty.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`
}

// CatalogSnapshot is the ordered destination list a similarity index was
// trained against. Row order is the alignment contract with the index.
type CatalogSnapshot struct {
	items []CatalogItem
	byID  map[string]int
}

// NewSnapshot builds a snapshot preserving item order.
func NewSnapshot(items []CatalogItem) CatalogSnapshot {
	is := make([]CatalogItem, len(items))
	copy(is, items)
	byID := make(map[string]int, len(is))
	for i, it := range is {
		byID[it.ID] = i
	}
	return CatalogSnapshot{items: is, byID: byID}
}

// Len returns the number of items.
func (s CatalogSnapshot) Len() int { return len(s.items) }

// Items returns a copy of the ordered items.
func (s CatalogSnapshot) Items() []CatalogItem {
	is := make([]CatalogItem, len(s.items))
	copy(is, s.items)
	return is
}

// At returns the item at row index i.
func (s CatalogSnapshot) At(i int) CatalogItem { return s.items[i] }

// IndexOf resolves an item id to its row index.
func (s CatalogSnapshot) IndexOf(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// SimilarityIndex is a square matrix where Row(i)[j] is the similarity of
// catalog item i to item j. It is only meaningful paired with the snapshot
// it was computed from: any structural change to the catalog invalidates it.
type SimilarityIndex struct {
	rows [][]float64
}

// NewSimilarityIndex validates squareness and alignment with the snapshot.
func NewSimilarityIndex(rows [][]float64, snapshot CatalogSnapshot) (SimilarityIndex, error) {
	if len(rows) != snapshot.Len() {
		return SimilarityIndex{}, fmt.Errorf("%w: similarity index has %d rows, catalog has %d items",
			ErrSchemaMismatch, len(rows), snapshot.Len())
	}
	for i, row := range rows {
		if len(row) != len(rows) {
			return SimilarityIndex{}, fmt.Errorf("%w: similarity row %d has length %d, expected %d",
				ErrSchemaMismatch, i, len(row), len(rows))
		}
	}
	return SimilarityIndex{rows: rows}, nil
}

// Len returns the index dimension.
func (s SimilarityIndex) Len() int { return len(s.rows) }

// Row returns the similarity row for catalog item i.
func (s SimilarityIndex) Row(i int) []float64 { return s.rows[i] }

// Rows exposes the raw matrix for serialization.
func (s SimilarityIndex) Rows() [][]float64 { return s.rows }

// RankedItem is a recommendation entry. ItemID and Score are contractual.
type RankedItem struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Region   string  `json:"region"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	Score    float64 `json:"score"`
}
