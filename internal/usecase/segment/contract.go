package segment

import (
	"context"

	"github.com/wenda-travel/wendaml/internal/model"
)

// ModelSource loads the clustering model artifact.
type ModelSource interface {
	Get(ctx context.Context, key string) (*model.ClusterModel, error)
}
