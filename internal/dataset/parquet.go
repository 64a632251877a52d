package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// statRecord mirrors the parquet export of the tourism_statistics table.
// Nullable columns are pointers; absent values default to zero.
type statRecord struct {
	Province         string   `parquet:"province"`
	Year             int32    `parquet:"year"`
	Month            int32    `parquet:"month"`
	DomesticVisitors *int32   `parquet:"domestic_visitors,optional"`
	ForeignVisitors  *int32   `parquet:"foreign_visitors,optional"`
	OccupancyRate    *float64 `parquet:"occupancy_rate,optional"`
	AvgStayDays      *float64 `parquet:"avg_stay_days,optional"`
}

// ParquetSource reads statistics from parquet files in a directory.
type ParquetSource struct {
	dir string
}

// NewParquetSource creates a source over *.parquet files in dir.
func NewParquetSource(dir string) *ParquetSource {
	return &ParquetSource{dir: dir}
}

// Stats reads every file in lexical order and concatenates the rows.
func (s *ParquetSource) Stats(ctx context.Context) ([]StatRow, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("glob parquet files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet files in %s", s.dir)
	}
	sort.Strings(files)

	var rows []StatRow
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := parquet.ReadFile[statRecord](f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(f), err)
		}
		for _, rec := range records {
			rows = append(rows, rec.toRow())
		}
	}
	return rows, nil
}

func (r statRecord) toRow() StatRow {
	row := StatRow{
		Province: r.Province,
		Year:     int(r.Year),
		Month:    int(r.Month),
	}
	if r.DomesticVisitors != nil {
		row.DomesticVisitors = int(*r.DomesticVisitors)
	}
	if r.ForeignVisitors != nil {
		row.ForeignVisitors = int(*r.ForeignVisitors)
	}
	if r.OccupancyRate != nil {
		row.OccupancyRate = *r.OccupancyRate
	}
	if r.AvgStayDays != nil {
		row.AvgStayDays = *r.AvgStayDays
	}
	return row
}
