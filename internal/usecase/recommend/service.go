// Package recommend serves destination recommendations from the trained
// content-similarity index.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/model"
)

// Service answers recommendation queries.
type Service struct {
	models ModelSource
}

// New creates a recommend service.
func New(models ModelSource) *Service {
	return &Service{models: models}
}

// Similar returns items most similar to the given one, the item itself
// excluded.
func (s *Service) Similar(ctx context.Context, itemID string, limit int) ([]domain.RankedItem, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Similar(itemID, limit)
}

// ByPreference returns the best-rated items matching the filter.
func (s *Service) ByPreference(ctx context.Context, f model.PreferenceFilter, limit int) ([]domain.RankedItem, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.ByPreference(f, limit)
}

// Hybrid filters by preference and re-ranks by similarity to the anchor.
func (s *Service) Hybrid(ctx context.Context, f model.PreferenceFilter, anchorID string, limit int) ([]domain.RankedItem, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Hybrid(f, anchorID, limit)
}

func (s *Service) load(ctx context.Context) (*model.RecommenderModel, error) {
	m, err := s.models.Get(ctx, domain.RecommenderKey)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) || errors.Is(err, domain.ErrArtifactCorrupt) {
			return nil, fmt.Errorf("%w: no recommender model trained", domain.ErrModelUnavailable)
		}
		return nil, err
	}
	return m, nil
}
