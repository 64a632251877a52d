package model

import (
	"errors"
	"math"
	"testing"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

// identityScaler returns a scaler that leaves dim features unchanged.
func identityScaler(dim int) *feature.StandardScaler {
	s := &feature.StandardScaler{
		Means: make([]float64, dim),
		Stds:  make([]float64, dim),
	}
	for i := range s.Stds {
		s.Stds[i] = 1
	}
	return s
}

func behaviorClusterModel() *ClusterModel {
	dim := feature.BehaviorSchema.Len()
	c0 := make([]float64, dim)
	c1 := make([]float64, dim)
	c1[0] = 10 // far away on the budget axis
	return &ClusterModel{
		SchemaName: feature.BehaviorSchema.Name(),
		Centroids:  [][]float64{c0, c1},
		Scaler:     identityScaler(dim),
		Profiles: []domain.SegmentProfile{
			{SegmentID: 0, Name: "Aventureiros"},
			{SegmentID: 1, Name: "Luxo"},
		},
	}
}

func TestAssignNearestCentroid(t *testing.T) {
	m := behaviorClusterModel()

	near0 := feature.BehaviorRow(feature.Behavior{})
	a, err := m.Assign(near0)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.SegmentID != 0 {
		t.Errorf("SegmentID = %d, want 0", a.SegmentID)
	}
	if a.Confidence != 1 {
		t.Errorf("Confidence at centroid = %v, want 1", a.Confidence)
	}

	near1 := feature.BehaviorRow(feature.Behavior{Budget: 10})
	a, err = m.Assign(near1)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.SegmentID != 1 {
		t.Errorf("SegmentID = %d, want 1", a.SegmentID)
	}
}

func TestAssignConfidenceDecaysWithDistance(t *testing.T) {
	m := behaviorClusterModel()

	// Distance 1.5 from centroid 0: confidence 1 - 1.5/3 = 0.5.
	a, err := m.Assign(feature.BehaviorRow(feature.Behavior{Budget: 1.5}))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if math.Abs(a.Confidence-0.5) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.5", a.Confidence)
	}

	// Beyond DistanceNorm the confidence floors at zero.
	a, err = m.Assign(feature.BehaviorRow(feature.Behavior{Budget: 4.9}))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.Confidence != 0 {
		t.Errorf("Confidence far from centroid = %v, want 0", a.Confidence)
	}
}

func TestAssignSchemaMismatch(t *testing.T) {
	m := behaviorClusterModel()
	if _, err := m.Assign(feature.ForecastRow(2025, 1, 0, 0)); !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Errorf("Assign with forecast vector: err = %v, want ErrSchemaMismatch", err)
	}
}

func TestClusterProfileLookup(t *testing.T) {
	m := behaviorClusterModel()
	p, ok := m.Profile(1)
	if !ok || p.Name != "Luxo" {
		t.Errorf("Profile(1) = %+v, %v", p, ok)
	}
	if _, ok := m.Profile(7); ok {
		t.Error("Profile(7) found for unknown segment")
	}
}

func TestDecodeClusterRoundTrip(t *testing.T) {
	in := behaviorClusterModel()
	in.Quality = 0.42
	in.Samples = 500
	data, err := blob.Encode(domain.Manifest{Name: "clustering", Version: "1"}, in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := DecodeCluster(data)
	if err != nil {
		t.Fatalf("DecodeCluster: %v", err)
	}
	if len(out.Centroids) != 2 || out.Quality != 0.42 || out.Samples != 500 {
		t.Errorf("decoded model = %+v", out)
	}
	if out.Manifest.Name != "clustering" {
		t.Errorf("Manifest.Name = %q", out.Manifest.Name)
	}

	// A decoded model must assign exactly like the original.
	v := feature.BehaviorRow(feature.Behavior{Budget: 10})
	a, err := out.Assign(v)
	if err != nil {
		t.Fatalf("Assign after decode: %v", err)
	}
	if a.SegmentID != 1 {
		t.Errorf("SegmentID after decode = %d, want 1", a.SegmentID)
	}
}

func TestDecodeClusterValidation(t *testing.T) {
	empty, err := blob.Encode(domain.Manifest{}, &ClusterModel{SchemaName: "behavior_v1"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeCluster(empty); !errors.Is(err, domain.ErrArtifactCorrupt) {
		t.Errorf("DecodeCluster without centroids: err = %v, want ErrArtifactCorrupt", err)
	}

	skewed := behaviorClusterModel()
	skewed.Centroids[1] = []float64{1, 2} // wrong dimension
	data, err := blob.Encode(domain.Manifest{}, skewed)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeCluster(data); !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Errorf("DecodeCluster with skewed centroid: err = %v, want ErrSchemaMismatch", err)
	}
}
