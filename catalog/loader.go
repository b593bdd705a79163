package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one (vendor, solution) pair supplied by a catalog source.
type Row struct {
	Vendor   string
	Solution string
}

// Loader supplies catalog rows. The core requires only this shape,
// regardless of the source format.
type Loader interface {
	// Rows returns all (vendor, solution) rows from the source.
	// An unreadable source returns an error; an empty source returns
	// an empty slice (Load turns that into ErrEmptyCatalog).
	Rows(ctx context.Context) ([]Row, error)
}

// SliceLoader serves a fixed set of rows. Useful for tests and embedded
// catalogs.
type SliceLoader []Row

// Rows returns the slice as-is.
func (l SliceLoader) Rows(ctx context.Context) ([]Row, error) {
	return l, nil
}

// CSVLoader reads rows from a CSV file with a header line containing
// "vendor" and "solution_name" (or "solution") columns.
type CSVLoader struct {
	Path string
}

// Rows reads and parses the CSV file.
func (l CSVLoader) Rows(ctx context.Context) ([]Row, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}

	vendorCol, solutionCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "vendor":
			vendorCol = i
		case "solution_name", "solution":
			solutionCol = i
		}
	}
	if vendorCol < 0 || solutionCol < 0 {
		return nil, fmt.Errorf("%w: missing vendor/solution_name columns", ErrUnreadableSource)
	}

	var rows []Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
		}
		if vendorCol >= len(record) || solutionCol >= len(record) {
			continue
		}
		rows = append(rows, Row{
			Vendor:   strings.TrimSpace(record[vendorCol]),
			Solution: strings.TrimSpace(record[solutionCol]),
		})
	}
	return rows, nil
}
