package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

// DistanceNorm divides the centroid distance when deriving assignment
// confidence. An empirical constant carried over from the original model,
// not a derived bound; changing it changes observable confidences.
const DistanceNorm = 3.0

// ClusterModel partitions behavioral feature vectors into K segments.
// Centroids live in the standardized feature space of the stored scaler.
type ClusterModel struct {
	SchemaName string                  `json:"schema"`
	Centroids  [][]float64             `json:"centroids"`
	Scaler     *feature.StandardScaler `json:"scaler"`
	Profiles   []domain.SegmentProfile `json:"profiles"`
	Quality    float64                 `json:"quality"`
	Samples    int                     `json:"samples"`
	Manifest   domain.Manifest         `json:"-"`
}

// Assign standardizes the vector with the stored scaler, finds the nearest
// centroid by Euclidean distance, and derives a confidence in [0, 1].
func (m *ClusterModel) Assign(v domain.Vector) (domain.SegmentAssignment, error) {
	if v.SchemaName() != m.SchemaName {
		return domain.SegmentAssignment{}, fmt.Errorf("%w: model trained on %q, input encoded as %q",
			domain.ErrSchemaMismatch, m.SchemaName, v.SchemaName())
	}

	scaled, err := m.Scaler.Transform(v.Values())
	if err != nil {
		return domain.SegmentAssignment{}, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}

	best, bestDist := -1, 0.0
	for i, c := range m.Centroids {
		d := floats.Distance(scaled, c, 2)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return domain.SegmentAssignment{}, fmt.Errorf("%w: cluster model has no centroids", domain.ErrModelUnavailable)
	}

	confidence := 1 - bestDist/DistanceNorm
	if confidence < 0 {
		confidence = 0
	}
	return domain.SegmentAssignment{SegmentID: best, Confidence: confidence}, nil
}

// Profile returns the descriptive profile for a segment id.
func (m *ClusterModel) Profile(segmentID int) (domain.SegmentProfile, bool) {
	for _, p := range m.Profiles {
		if p.SegmentID == segmentID {
			return p, true
		}
	}
	return domain.SegmentProfile{}, false
}

// DecodeCluster deserializes a clustering artifact.
func DecodeCluster(data []byte) (*ClusterModel, error) {
	var m ClusterModel
	manifest, err := blob.Decode(data, &m)
	if err != nil {
		return nil, err
	}
	if len(m.Centroids) == 0 || m.Scaler == nil {
		return nil, fmt.Errorf("%w: clustering payload missing centroids or scaler", domain.ErrArtifactCorrupt)
	}
	for i, c := range m.Centroids {
		if len(c) != len(m.Scaler.Means) {
			return nil, fmt.Errorf("%w: centroid %d has dimension %d, scaler has %d",
				domain.ErrSchemaMismatch, i, len(c), len(m.Scaler.Means))
		}
	}
	m.Manifest = manifest
	return &m, nil
}
