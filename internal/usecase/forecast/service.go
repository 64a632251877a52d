// Package forecast serves visitor demand predictions. A trained per-region
// model is preferred; every soft failure on that path degrades to the
// deterministic seasonal baseline so the endpoint always answers.
package forecast

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

const (
	// 95% interval over the ensemble spread.
	ensembleZ = 1.96
	// Band half-widths when no ensemble spread is available.
	singleEstimatorBand = 0.20
	baselineBand        = 0.15

	// Baseline growth: 5% per year relative to 2024.
	growthRate = 0.05
	growthBase = 2024

	defaultBaseVisitors = 2000
)

// baseVisitors is the per-region fallback when no history exists at all.
var baseVisitors = map[string]float64{
	"Luanda":   12000,
	"Benguela": 4500,
	"Huila":    3000,
	"Namibe":   1500,
	"Cunene":   800,
	"Malanje":  2000,
}

// seasonal multipliers by month. High season is December and the mid-year
// holiday months.
var seasonal = map[int]float64{
	1: 1.3, 2: 0.9, 3: 0.8, 4: 0.9, 5: 0.95, 6: 1.0,
	7: 1.25, 8: 1.2, 9: 0.9, 10: 0.85, 11: 0.95, 12: 1.4,
}

// Service produces visitor forecasts.
type Service struct {
	models  ModelSource
	history HistoryProvider
	rec     Recorder
	log     *zap.Logger
	base    map[string]float64
}

// New creates a forecast service. rec may be nil.
func New(models ModelSource, history HistoryProvider, rec Recorder, log *zap.Logger) *Service {
	return &Service{models: models, history: history, rec: rec, log: log, base: baseVisitors}
}

// WithBaseVisitors overlays configured entries onto the built-in base
// visitor table.
func (s *Service) WithBaseVisitors(overrides map[string]float64) *Service {
	if len(overrides) == 0 {
		return s
	}
	merged := make(map[string]float64, len(baseVisitors)+len(overrides))
	for region, v := range baseVisitors {
		merged[region] = v
	}
	for region, v := range overrides {
		merged[region] = v
	}
	s.base = merged
	return s
}

// Predict forecasts total visitors for the region and month. Occupancy and
// stay-days feed the trained regressor when the caller knows them; zero
// means unknown. Missing or corrupt artifacts and numeric failures fall
// back to the baseline; a schema mismatch aborts instead, it means serving
// and training disagree.
func (s *Service) Predict(ctx context.Context, region string, year, month int, occupancy, stayDays float64) (domain.Prediction, error) {
	p, err := s.predictModel(ctx, region, year, month, occupancy, stayDays)
	if err == nil {
		s.observe(p.Source)
		return p, nil
	}
	if errors.Is(err, domain.ErrSchemaMismatch) {
		return domain.Prediction{}, err
	}
	if !isSoft(err) {
		return domain.Prediction{}, err
	}

	s.log.Debug("model path unavailable, serving baseline",
		zap.String("region", region), zap.Error(err))
	p, err = s.Baseline(ctx, region, year, month)
	if err != nil {
		return domain.Prediction{}, err
	}
	s.observe(p.Source)
	return p, nil
}

func (s *Service) predictModel(ctx context.Context, region string, year, month int, occupancy, stayDays float64) (domain.Prediction, error) {
	m, err := s.models.Get(ctx, Key(region))
	if err != nil {
		return domain.Prediction{}, err
	}

	v := feature.ForecastRow(year, month, occupancy, stayDays)
	preds, err := m.EstimatorPredictions(v)
	if err != nil {
		return domain.Prediction{}, err
	}

	value := stat.Mean(preds, nil)
	var lower, upper float64
	if m.IsEnsemble() {
		sigma := stat.PopStdDev(preds, nil)
		lower = value - ensembleZ*sigma
		upper = value + ensembleZ*sigma
	} else {
		lower = value * (1 - singleEstimatorBand)
		upper = value * (1 + singleEstimatorBand)
	}

	return rounded(value, lower, upper, domain.SourceModel), nil
}

// Baseline computes the deterministic seasonal-growth heuristic. The
// historical monthly average seeds it; with no usable history the
// per-region base table applies.
func (s *Service) Baseline(ctx context.Context, region string, year, month int) (domain.Prediction, error) {
	base := s.historicalAverage(ctx, region, month)

	growth := 1 + growthRate*float64(year-growthBase)
	// The band is taken over the rounded value, not the raw product.
	value := math.Round(base * growth * seasonal[month])
	lower := value * (1 - baselineBand)
	upper := value * (1 + baselineBand)

	return rounded(value, lower, upper, domain.SourceBaseline), nil
}

func (s *Service) historicalAverage(ctx context.Context, region string, month int) float64 {
	avg, ok, err := s.history.AverageVisitors(ctx, region, month)
	if err != nil {
		s.log.Warn("history provider unavailable, using base table",
			zap.String("region", region), zap.Error(err))
		ok = false
	}
	if ok {
		return avg
	}
	if base, known := s.base[region]; known {
		return base
	}
	return defaultBaseVisitors
}

func (s *Service) observe(src domain.PredictionSource) {
	if s.rec != nil {
		s.rec.ObservePrediction(string(src))
	}
}

// isSoft reports whether the model-path failure should degrade to the
// baseline rather than surface.
func isSoft(err error) bool {
	return errors.Is(err, domain.ErrArtifactNotFound) ||
		errors.Is(err, domain.ErrArtifactCorrupt) ||
		errors.Is(err, domain.ErrModelUnavailable)
}

func rounded(value, lower, upper float64, src domain.PredictionSource) domain.Prediction {
	if lower < 0 {
		lower = 0
	}
	if upper < 0 {
		upper = 0
	}
	return domain.Prediction{
		Value:      int(math.Round(value)),
		LowerBound: int(math.Round(lower)),
		UpperBound: int(math.Round(upper)),
		Source:     src,
	}
}

// Key builds the artifact key for a region.
func Key(region string) string {
	return domain.ForecastKeyPrefix + strings.ReplaceAll(region, " ", "_")
}
