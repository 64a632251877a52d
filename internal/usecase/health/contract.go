package health

import (
	"context"

	"github.com/wenda-travel/wendaml/internal/domain"
)

// StorePinger checks artifact store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// DBPinger checks database availability.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// ArtifactLister enumerates available artifacts with their manifests.
type ArtifactLister interface {
	ListAvailable(ctx context.Context) ([]domain.ArtifactInfo, error)
}
