// Package history reads historical tourism statistics. It backs the
// baseline forecast: the monthly visitor average seeds the seasonal
// heuristic when no trained model is available.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// database is the consumer interface over *sql.DB.
type database interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo implements the historical statistics provider.
type Repo struct {
	db database
}

// New creates a history repository.
func New(db database) *Repo {
	return &Repo{db: db}
}

// AverageVisitors returns the mean total visitors (domestic + foreign) for
// the region and month across all recorded years. The second return is
// false when no rows exist for the pair.
func (r *Repo) AverageVisitors(ctx context.Context, region string, month int) (float64, bool, error) {
	const q = `
		SELECT AVG(COALESCE(domestic_visitors, 0) + COALESCE(foreign_visitors, 0))
		FROM tourism_statistics
		WHERE province = $1 AND month = $2`

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q, region, month).Scan(&avg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("average visitors %s/%d: %w", region, month, err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}
