package recommend

import (
	"context"

	"github.com/wenda-travel/wendaml/internal/model"
)

// ModelSource loads the recommender artifact.
type ModelSource interface {
	Get(ctx context.Context, key string) (*model.RecommenderModel, error)
}
