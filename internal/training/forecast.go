package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/dataset"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
	"github.com/wenda-travel/wendaml/internal/model"
)

const (
	forecastVersion   = "v1.0.0-ensemble"
	forecastAlgorithm = "bagged-linear-ensemble"

	// Ridge term keeps the normal equations solvable when a feature column
	// is constant (occupancy and stay days are often all zero).
	ridgeLambda = 1e-6

	minTrainRows = 6
	holdoutYear  = 2024
)

// ForecastJob trains one demand regressor per region and publishes each as
// its own artifact.
type ForecastJob struct {
	source dataset.StatsSource
	store  blob.Store
	reg    Registrar
	log    *zap.Logger

	seed       int64
	estimators int
}

// NewForecastJob wires a forecast training run.
func NewForecastJob(source dataset.StatsSource, store blob.Store, reg Registrar, log *zap.Logger, seed int64, estimators int) *ForecastJob {
	if estimators <= 0 {
		estimators = 100
	}
	return &ForecastJob{
		source: source, store: store, reg: reg, log: log,
		seed: seed, estimators: estimators,
	}
}

// Run trains every region found in the source data. Regions without enough
// history are skipped with a warning rather than failing the whole run.
func (j *ForecastJob) Run(ctx context.Context) error {
	rows, err := j.source.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}

	grouped := dataset.ByRegion(rows)
	regions := make([]string, 0, len(grouped))
	for region := range grouped {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	trained := 0
	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.trainRegion(ctx, region, grouped[region]); err != nil {
			return err
		}
		trained++
	}
	j.log.Info("forecast training complete", zap.Int("regions", trained))
	return nil
}

func (j *ForecastJob) trainRegion(ctx context.Context, region string, rows []dataset.StatRow) error {
	sort.Slice(rows, func(i, k int) bool {
		if rows[i].Year != rows[k].Year {
			return rows[i].Year < rows[k].Year
		}
		return rows[i].Month < rows[k].Month
	})

	var trainX, testX [][]float64
	var trainY, testY []float64
	for _, r := range rows {
		x := feature.ForecastRow(r.Year, r.Month, r.OccupancyRate, r.AvgStayDays).Values()
		if r.Year >= holdoutYear {
			testX = append(testX, x)
			testY = append(testY, r.TotalVisitors())
		} else {
			trainX = append(trainX, x)
			trainY = append(trainY, r.TotalVisitors())
		}
	}
	if len(trainX) < minTrainRows {
		j.log.Warn("not enough history, skipping region",
			zap.String("region", region), zap.Int("rows", len(trainX)))
		return nil
	}

	rng := rand.New(rand.NewSource(j.seed))
	estimators := make([][]float64, 0, j.estimators)
	for e := 0; e < j.estimators; e++ {
		bx, by := bootstrap(rng, trainX, trainY)
		w, err := ridgeFit(bx, by)
		if err != nil {
			return fmt.Errorf("fit estimator %d for %s: %w", e, region, err)
		}
		estimators = append(estimators, w)
	}

	m := &model.ForecastModel{
		SchemaName: feature.ForecastSchema.Name(),
		Estimators: estimators,
	}

	metrics := evaluate(m, testX, testY)
	manifest := domain.Manifest{
		Name:      "forecast_" + region,
		Version:   forecastVersion,
		Algorithm: forecastAlgorithm,
		Metrics:   metrics,
		TrainedAt: now(),
		Schema:    feature.ForecastSchema.Features(),
	}

	key := ForecastKey(region)
	if err := publish(ctx, j.store, key, manifest, m); err != nil {
		return err
	}
	if err := register(ctx, j.reg, j.log, manifest); err != nil {
		return err
	}
	j.log.Info("forecast model published",
		zap.String("region", region),
		zap.String("key", key),
		zap.Float64("mae", metrics["mae"]),
		zap.Float64("mape", metrics["mape"]))
	return nil
}

// bootstrap resamples the training set with replacement.
func bootstrap(rng *rand.Rand, xs [][]float64, ys []float64) ([][]float64, []float64) {
	n := len(xs)
	bx := make([][]float64, n)
	by := make([]float64, n)
	for i := 0; i < n; i++ {
		k := rng.Intn(n)
		bx[i] = xs[k]
		by[i] = ys[k]
	}
	return bx, by
}

// ridgeFit solves the regularized normal equations (XᵀX + λI)w = Xᵀy with
// an appended intercept column. Returns per-feature weights plus the
// trailing intercept, matching the serving layout.
func ridgeFit(xs [][]float64, ys []float64) ([]float64, error) {
	n := len(xs)
	dim := len(xs[0]) + 1

	a := mat.NewDense(n, dim, nil)
	for i, row := range xs {
		for k, v := range row {
			a.Set(i, k, v)
		}
		a.Set(i, dim-1, 1)
	}
	b := mat.NewVecDense(n, ys)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for k := 0; k < dim; k++ {
		ata.Set(k, k, ata.At(k, k)+ridgeLambda)
	}

	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var w mat.VecDense
	if err := w.SolveVec(&ata, &atb); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	out := make([]float64, dim)
	copy(out, w.RawVector().Data)
	return out, nil
}

// evaluate computes MAE and MAPE on the holdout set. Zero actuals are
// counted with denominator 1 to keep MAPE finite.
func evaluate(m *model.ForecastModel, xs [][]float64, ys []float64) map[string]float64 {
	metrics := map[string]float64{"test_samples": float64(len(ys))}
	if len(ys) == 0 {
		return metrics
	}

	var absSum, pctSum float64
	for i, x := range xs {
		v, err := domain.NewVector(feature.ForecastSchema, x)
		if err != nil {
			continue
		}
		pred, err := m.Predict(v)
		if err != nil {
			continue
		}
		diff := math.Abs(ys[i] - pred)
		absSum += diff
		denom := ys[i]
		if denom == 0 {
			denom = 1
		}
		pctSum += diff / math.Abs(denom)
	}
	metrics["mae"] = absSum / float64(len(ys))
	metrics["mape"] = pctSum / float64(len(ys)) * 100
	return metrics
}
