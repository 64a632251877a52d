// Package catalog queries the destinations table directly. Training reads
// the full catalog to build the similarity index; serving uses the rated
// query as the fallback when no recommender artifact exists.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/wenda-travel/wendaml/internal/domain"
)

// database is the consumer interface over *sql.DB.
type database interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repo reads destination records.
type Repo struct {
	db database
}

// New creates a catalog repository.
func New(db database) *Repo {
	return &Repo{db: db}
}

const baseSelect = `
	SELECT d.id, d.name, d.province, c.name, d.rating, d.description
	FROM destinations d
	JOIN categories c ON c.id = d.category_id`

// All returns every destination in insertion order. Row order matters to
// training: the similarity index is aligned with it.
func (r *Repo) All(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, baseSelect+` ORDER BY d.created_at, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Filter narrows the rated query.
type Filter struct {
	Categories []string
	Regions    []string
	Limit      int
}

// TopRated returns destinations matching the filter, best rated first.
func (r *Repo) TopRated(ctx context.Context, f Filter) ([]domain.CatalogItem, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Categories) > 0 {
		args = append(args, pq.Array(f.Categories))
		where = append(where, fmt.Sprintf("c.name = ANY($%d)", len(args)))
	}
	if len(f.Regions) > 0 {
		args = append(args, pq.Array(f.Regions))
		where = append(where, fmt.Sprintf("d.province = ANY($%d)", len(args)))
	}

	q := baseSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY d.rating DESC, d.id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("top rated destinations: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	for rows.Next() {
		var (
			it   domain.CatalogItem
			desc sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Region, &it.Category, &it.Rating, &desc); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		it.Description = desc.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destinations: %w", err)
	}
	return items, nil
}
