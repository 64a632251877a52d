package forecast

import (
	"context"

	"github.com/wenda-travel/wendaml/internal/model"
)

// ModelSource loads forecast models by artifact key.
type ModelSource interface {
	Get(ctx context.Context, key string) (*model.ForecastModel, error)
}

// HistoryProvider supplies the monthly visitor average that seeds the
// baseline heuristic. The second return is false when no history exists.
type HistoryProvider interface {
	AverageVisitors(ctx context.Context, region string, month int) (float64, bool, error)
}

// Recorder counts served predictions by source.
type Recorder interface {
	ObservePrediction(source string)
}
