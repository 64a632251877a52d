// Package training holds the offline jobs that fit models and publish them
// as artifacts. Each job reads its source data, trains, writes a new blob
// (artifacts are immutable) and records the run in the model registry.
package training

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/repository/registry"
)

// Registrar records trained models. Implemented by repository/registry.
type Registrar interface {
	Register(ctx context.Context, e registry.Entry) (bool, error)
}

// ForecastKey builds the artifact key for a region, normalizing spaces.
func ForecastKey(region string) string {
	return domain.ForecastKeyPrefix + strings.ReplaceAll(region, " ", "_")
}

// publish encodes the payload under the manifest and writes it to the store.
// Each published blob gets a fresh run id so repeated runs of the same
// version stay distinguishable in listings and logs.
func publish(ctx context.Context, store blob.Store, key string, m domain.Manifest, payload any) error {
	if m.RunID == "" {
		m.RunID = uuid.NewString()
	}
	data, err := blob.Encode(m, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Write(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// register syncs the registry after a successful publish. A duplicate
// (name, version) row is left untouched.
func register(ctx context.Context, reg Registrar, log *zap.Logger, m domain.Manifest) error {
	if reg == nil {
		return nil
	}
	created, err := reg.Register(ctx, registry.Entry{
		Name:      m.Name,
		Version:   m.Version,
		Algorithm: m.Algorithm,
		Metrics:   m.Metrics,
		TrainedOn: m.TrainedAt,
	})
	if err != nil {
		return fmt.Errorf("register %s@%s: %w", m.Name, m.Version, err)
	}
	if !created {
		log.Debug("model already registered",
			zap.String("name", m.Name), zap.String("version", m.Version))
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }
