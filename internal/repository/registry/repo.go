// Package registry records trained models in the ml_models_registry table
// so operations can see what is deployed without touching the blob store.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Entry is one registry row.
type Entry struct {
	Name      string
	Version   string
	Algorithm string
	Metrics   map[string]float64
	TrainedOn time.Time
}

// database is the consumer interface over *sql.DB.
type database interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo implements the model registry.
type Repo struct {
	db database
}

// New creates a registry repository.
func New(db database) *Repo {
	return &Repo{db: db}
}

// Register inserts the entry unless a row with the same (name, version)
// already exists. Returns true when a row was inserted.
func (r *Repo) Register(ctx context.Context, e Entry) (bool, error) {
	const check = `SELECT id FROM ml_models_registry WHERE model_name = $1 AND version = $2`

	var id int64
	err := r.db.QueryRowContext(ctx, check, e.Name, e.Version).Scan(&id)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("check registry %s@%s: %w", e.Name, e.Version, err)
	}

	metrics, err := json.Marshal(e.Metrics)
	if err != nil {
		return false, fmt.Errorf("marshal metrics: %w", err)
	}

	const insert = `
		INSERT INTO ml_models_registry
			(model_name, version, algorithm, metrics, status, trained_on, last_updated)
		VALUES ($1, $2, $3, $4, 'active', $5, $6)`

	if _, err := r.db.ExecContext(ctx, insert,
		e.Name, e.Version, e.Algorithm, metrics, e.TrainedOn, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("insert registry %s@%s: %w", e.Name, e.Version, err)
	}
	return true, nil
}
