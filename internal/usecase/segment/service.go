// Package segment serves behavioral segmentation: the stored cluster
// profiles and per-visitor segment assignment.
package segment

import (
	"context"
	"errors"
	"fmt"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
	"github.com/wenda-travel/wendaml/internal/model"
)

// Service answers segmentation queries from the clustering artifact.
type Service struct {
	models ModelSource
}

// New creates a segment service.
func New(models ModelSource) *Service {
	return &Service{models: models}
}

// Segments returns the trained cluster profiles. A missing or corrupt
// artifact surfaces as ErrModelUnavailable so callers can substitute their
// default table.
func (s *Service) Segments(ctx context.Context) ([]domain.SegmentProfile, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Profiles, nil
}

// Assignment pairs the placement with its segment profile.
type Assignment struct {
	domain.SegmentAssignment
	Profile domain.SegmentProfile
}

// Assign places a visitor's behavior into the nearest segment.
func (s *Service) Assign(ctx context.Context, b feature.Behavior) (Assignment, error) {
	m, err := s.load(ctx)
	if err != nil {
		return Assignment{}, err
	}

	a, err := m.Assign(feature.BehaviorRow(b))
	if err != nil {
		return Assignment{}, err
	}

	out := Assignment{SegmentAssignment: a}
	if p, ok := m.Profile(a.SegmentID); ok {
		out.Profile = p
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) (*model.ClusterModel, error) {
	m, err := s.models.Get(ctx, domain.ClusteringKey)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) || errors.Is(err, domain.ErrArtifactCorrupt) {
			return nil, fmt.Errorf("%w: no clustering model trained", domain.ErrModelUnavailable)
		}
		return nil, err
	}
	return m, nil
}
