package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
	"github.com/wenda-travel/wendaml/internal/model"
	"github.com/wenda-travel/wendaml/internal/synthetic"
)

const (
	clusterVersion   = "v1.0.0-kmeans"
	clusterAlgorithm = "kmeans"
	clusterRestarts  = 20
)

// preferenceNames in dominance-check order. Earlier entries win ties so the
// segment naming is deterministic.
var preferenceNames = []string{"beach", "culture", "nature", "adventure", "gastronomy"}

// ClusterJob fits the behavioral segmentation model on a seeded synthetic
// population and publishes it as a single artifact.
type ClusterJob struct {
	store blob.Store
	reg   Registrar
	log   *zap.Logger

	seed     int64
	samples  int
	clusters int
}

// NewClusterJob wires a segmentation training run.
func NewClusterJob(store blob.Store, reg Registrar, log *zap.Logger, seed int64, samples, clusters int) *ClusterJob {
	if samples <= 0 {
		samples = 500
	}
	if clusters <= 0 {
		clusters = 5
	}
	return &ClusterJob{store: store, reg: reg, log: log, seed: seed, samples: samples, clusters: clusters}
}

// Run generates the population, fits k-means on standardized features and
// publishes centroids, scaler and named profiles together.
func (j *ClusterJob) Run(ctx context.Context) error {
	population := synthetic.Generate(j.samples, j.seed)
	raw := synthetic.Rows(population)

	scaler, err := feature.FitStandard(raw)
	if err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	scaled, err := scaler.TransformAll(raw)
	if err != nil {
		return fmt.Errorf("scale population: %w", err)
	}

	rng := rand.New(rand.NewSource(j.seed))
	centroids, labels := kmeansFit(scaled, j.clusters, clusterRestarts, rng)
	quality := silhouette(scaled, labels, j.clusters)

	profiles := buildProfiles(raw, labels, j.clusters)

	m := &model.ClusterModel{
		SchemaName: feature.BehaviorSchema.Name(),
		Centroids:  centroids,
		Scaler:     scaler,
		Profiles:   profiles,
		Quality:    quality,
		Samples:    len(raw),
	}
	manifest := domain.Manifest{
		Name:      "clustering_kmeans",
		Version:   clusterVersion,
		Algorithm: clusterAlgorithm,
		Metrics: map[string]float64{
			"silhouette_score": quality,
			"n_clusters":       float64(j.clusters),
			"n_samples":        float64(len(raw)),
		},
		TrainedAt: now(),
		Schema:    feature.BehaviorSchema.Features(),
	}

	if err := publish(ctx, j.store, domain.ClusteringKey, manifest, m); err != nil {
		return err
	}
	if err := register(ctx, j.reg, j.log, manifest); err != nil {
		return err
	}
	j.log.Info("clustering model published",
		zap.Int("clusters", j.clusters),
		zap.Float64("silhouette", quality))
	return nil
}

// buildProfiles summarizes each cluster over the raw (unscaled) features
// and derives its display name and description.
func buildProfiles(raw [][]float64, labels []int, k int) []domain.SegmentProfile {
	features := feature.BehaviorSchema.Features()
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, len(features))
	}
	for i, row := range raw {
		c := labels[i]
		counts[c]++
		for f, v := range row {
			sums[c][f] += v
		}
	}

	profiles := make([]domain.SegmentProfile, 0, k)
	for c := 0; c < k; c++ {
		means := make(map[string]float64, len(features))
		for f, name := range features {
			if counts[c] > 0 {
				means[name] = sums[c][f] / float64(counts[c])
			}
		}
		p := domain.SegmentProfile{
			SegmentID:  c,
			Size:       counts[c],
			Percentage: math.Round(float64(counts[c])/float64(len(raw))*1000) / 10,
			Means:      means,
		}
		p.Name = segmentName(means)
		p.Description = segmentDescription(means)
		profiles = append(profiles, p)
	}
	return profiles
}

// segmentName applies the fixed naming precedence over the cluster's mean
// preferences.
func segmentName(means map[string]float64) string {
	top := dominantPreference(means)
	switch {
	case top == "beach" && means["budget"] >= 2:
		return "Relaxante Tradicional"
	case top == "adventure" || top == "nature":
		return "Aventureiro Explorador"
	case top == "culture":
		return "Cultural Urbano"
	case means["trips_per_year"] >= 4:
		return "Negócios & Lazer"
	default:
		return "Ecoturista Consciente"
	}
}

// dominantPreference returns the highest mean preference; ties go to the
// earlier name in preferenceNames.
func dominantPreference(means map[string]float64) string {
	best := preferenceNames[0]
	bestV := math.Inf(-1)
	for _, name := range preferenceNames {
		if v := means[name+"_pref"]; v > bestV {
			best = name
			bestV = v
		}
	}
	return best
}

// segmentDescription renders the numeric summary as a sentence.
func segmentDescription(means map[string]float64) string {
	budget := "medium"
	switch int(math.Round(means["budget"])) {
	case 1:
		budget = "low"
	case 3:
		budget = "high"
	}

	type pref struct {
		name string
		v    float64
	}
	prefs := make([]pref, 0, len(preferenceNames))
	for _, name := range preferenceNames {
		prefs = append(prefs, pref{name, means[name+"_pref"]})
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].v > prefs[j].v })

	return fmt.Sprintf(
		"Travelers with %s budget, typically staying %.0f days. Strong preference for %s and %s. Travel %.0f times per year in groups of %.0f.",
		budget, means["trip_duration"], prefs[0].name, prefs[1].name,
		means["trips_per_year"], means["group_size"])
}
