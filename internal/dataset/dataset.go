// Package dataset provides the training data sources. The forecast job can
// read tourism statistics either from the live Postgres table or from
// parquet exports dropped into a data directory; both produce the same
// row type so the job does not care which one it got.
package dataset

import "context"

// StatRow is one monthly tourism statistics record.
type StatRow struct {
	Province         string
	Year             int
	Month            int
	DomesticVisitors int
	ForeignVisitors  int
	OccupancyRate    float64
	AvgStayDays      float64
}

// TotalVisitors is the regression target.
func (r StatRow) TotalVisitors() float64 {
	return float64(r.DomesticVisitors + r.ForeignVisitors)
}

// StatsSource yields the full statistics history.
type StatsSource interface {
	Stats(ctx context.Context) ([]StatRow, error)
}

// ByRegion groups rows by province, preserving input order within a group.
func ByRegion(rows []StatRow) map[string][]StatRow {
	grouped := make(map[string][]StatRow)
	for _, r := range rows {
		grouped[r.Province] = append(grouped[r.Province], r)
	}
	return grouped
}
