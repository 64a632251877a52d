package training

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
	"github.com/wenda-travel/wendaml/internal/model"
	"github.com/wenda-travel/wendaml/internal/repository/catalog"
)

const (
	recommenderVersion   = "v1.0.0-content"
	recommenderAlgorithm = "term-frequency + cosine"

	// Fusion weights over the concatenated feature blocks.
	blockText     = 0.4
	blockCategory = 0.3
	blockRegion   = 0.2
	blockRating   = 0.1
)

// CatalogSource yields the full destination catalog in stable order.
type CatalogSource interface {
	All(ctx context.Context) ([]domain.CatalogItem, error)
}

var _ CatalogSource = (*catalog.Repo)(nil)

// RecommenderJob builds the content-similarity index over the destination
// catalog and publishes it with its snapshot.
type RecommenderJob struct {
	source CatalogSource
	store  blob.Store
	reg    Registrar
	log    *zap.Logger

	vocabulary int
}

// NewRecommenderJob wires a recommender training run.
func NewRecommenderJob(source CatalogSource, store blob.Store, reg Registrar, log *zap.Logger, vocabulary int) *RecommenderJob {
	if vocabulary <= 0 {
		vocabulary = 50
	}
	return &RecommenderJob{source: source, store: store, reg: reg, log: log, vocabulary: vocabulary}
}

// Run fuses text, category, region and rating features into one block per
// item, computes the pairwise cosine matrix and publishes it aligned with
// the catalog snapshot it was built from.
func (j *RecommenderJob) Run(ctx context.Context) error {
	items, err := j.source.All(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("catalog is empty, nothing to index")
	}

	corpus := make([]string, len(items))
	for i, it := range items {
		corpus[i] = model.ItemText(it)
	}
	vec := feature.NewVectorizer(j.vocabulary)
	vec.Fit(corpus)

	ratings := make([]float64, len(items))
	for i, it := range items {
		ratings[i] = it.Rating
	}
	ratingScale := feature.FitMinMax(ratings)

	fused := fuseFeatures(items, vec.TransformAll(corpus), ratingScale)
	similarity := cosineMatrix(fused)

	m, err := model.NewRecommender(items, similarity, vec, ratingScale)
	if err != nil {
		return fmt.Errorf("assemble recommender: %w", err)
	}

	manifest := domain.Manifest{
		Name:      "recommender_content_based",
		Version:   recommenderVersion,
		Algorithm: recommenderAlgorithm,
		Metrics: map[string]float64{
			"n_destinations": float64(len(items)),
			"vocabulary":     float64(len(vec.Vocabulary)),
			"n_categories":   float64(len(m.Categories)),
			"n_regions":      float64(len(m.Regions)),
		},
		TrainedAt: now(),
	}

	if err := publish(ctx, j.store, domain.RecommenderKey, manifest, m); err != nil {
		return err
	}
	if err := register(ctx, j.reg, j.log, manifest); err != nil {
		return err
	}
	j.log.Info("recommender model published",
		zap.Int("destinations", len(items)),
		zap.Int("vocabulary", len(vec.Vocabulary)))
	return nil
}

// fuseFeatures concatenates the weighted blocks: text counts normalized by
// the global maximum, one-hot category, one-hot region, scaled rating.
func fuseFeatures(items []domain.CatalogItem, text [][]float64, ratingScale *feature.MinMaxScaler) [][]float64 {
	globalMax := 0.0
	for _, row := range text {
		for _, v := range row {
			if v > globalMax {
				globalMax = v
			}
		}
	}

	categories := uniqueInOrder(items, func(it domain.CatalogItem) string { return it.Category })
	regions := uniqueInOrder(items, func(it domain.CatalogItem) string { return it.Region })

	dim := len(text[0]) + len(categories) + len(regions) + 1
	fused := make([][]float64, len(items))
	for i, it := range items {
		row := make([]float64, 0, dim)
		for _, v := range text[i] {
			if globalMax > 0 {
				v /= globalMax
			}
			row = append(row, v*blockText)
		}
		for _, c := range categories {
			if it.Category == c {
				row = append(row, blockCategory)
			} else {
				row = append(row, 0)
			}
		}
		for _, r := range regions {
			if it.Region == r {
				row = append(row, blockRegion)
			} else {
				row = append(row, 0)
			}
		}
		row = append(row, ratingScale.Transform(it.Rating)*blockRating)
		fused[i] = row
	}
	return fused
}

// cosineMatrix computes pairwise cosine similarity. The matrix is symmetric
// with a unit diagonal for any non-zero row.
func cosineMatrix(rows [][]float64) [][]float64 {
	n := len(rows)
	norms := make([]float64, n)
	for i, row := range rows {
		norms[i] = math.Sqrt(floats.Dot(row, row))
	}

	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for k := i; k < n; k++ {
			v := 0.0
			if norms[i] > 0 && norms[k] > 0 {
				v = floats.Dot(rows[i], rows[k]) / (norms[i] * norms[k])
			}
			sim[i][k] = v
			sim[k][i] = v
		}
	}
	return sim
}

func uniqueInOrder(items []domain.CatalogItem, key func(domain.CatalogItem) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
