package domain

import "time"

// Artifact key naming. Regions with spaces are normalized with underscores.
const (
	ForecastKeyPrefix = "forecast:"
	ClusteringKey     = "clustering:v1"
	RecommenderKey    = "recommender:v1"
)

// Manifest is the metadata record attached to every stored artifact.
// Artifacts are immutable: a new training run writes a new blob, never an
// in-place mutation.
type Manifest struct {
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	RunID     string             `json:"run_id,omitempty"`
	Algorithm string             `json:"algorithm"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	TrainedAt time.Time          `json:"trained_at"`
	Schema    []string           `json:"schema,omitempty"`
}

// ArtifactInfo pairs a store key with its manifest, for operational listing.
type ArtifactInfo struct {
	Key      string   `json:"key"`
	Manifest Manifest `json:"manifest"`
}
