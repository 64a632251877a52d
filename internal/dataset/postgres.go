package dataset

import (
	"context"
	"database/sql"
	"fmt"
)

// database is the consumer interface over *sql.DB.
type database interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresSource reads statistics from the live tourism_statistics table.
type PostgresSource struct {
	db database
}

// NewPostgresSource creates a source over the given connection.
func NewPostgresSource(db database) *PostgresSource {
	return &PostgresSource{db: db}
}

// Stats returns all records ordered by province and time.
func (s *PostgresSource) Stats(ctx context.Context) ([]StatRow, error) {
	const q = `
		SELECT province, year, month,
			COALESCE(domestic_visitors, 0),
			COALESCE(foreign_visitors, 0),
			COALESCE(occupancy_rate, 0),
			COALESCE(avg_stay_days, 0)
		FROM tourism_statistics
		ORDER BY province, year, month`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query tourism statistics: %w", err)
	}
	defer rows.Close()

	var out []StatRow
	for rows.Next() {
		var r StatRow
		if err := rows.Scan(&r.Province, &r.Year, &r.Month,
			&r.DomesticVisitors, &r.ForeignVisitors, &r.OccupancyRate, &r.AvgStayDays); err != nil {
			return nil, fmt.Errorf("scan statistics row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statistics: %w", err)
	}
	return out, nil
}
