package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Raw is a reference table as read from CSV, before any engineering
type Raw struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of col in the header, or -1
func (r *Raw) Index(col string) int {
	for i, h := range r.Header {
		if h == col {
			return i
		}
	}
	return -1
}

// Has reports whether every column in cols is present
func (r *Raw) Has(cols ...string) bool {
	for _, c := range cols {
		if r.Index(c) < 0 {
			return false
		}
	}
	return true
}

// Cell returns the value of col in row, or "" when the column or cell is absent
func (r *Raw) Cell(row []string, col string) string {
	i := r.Index(col)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Number parses col in row. Missing or invalid values become NaN.
func (r *Raw) Number(row []string, col string) float64 {
	return ParseNumber(r.Cell(row, col))
}

// ParseNumber coerces s to a float64, returning NaN instead of an error
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// CleanColumn strips surrounding whitespace and quotes and resolves the
// activity-name aliases
func CleanColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
	for _, alias := range activityAliases {
		if strings.EqualFold(name, alias) {
			return ColActivity
		}
	}
	return name
}

// Read parses a CSV reference table
func Read(r io.Reader) (*Raw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty dataset: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	raw := &Raw{Header: make([]string, len(header))}
	for i, h := range header {
		raw.Header[i] = CleanColumn(h)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(raw.Rows)+2, err)
		}
		raw.Rows = append(raw.Rows, row)
	}

	return raw, nil
}

// ReadFile opens and parses the CSV at path
func ReadFile(path string) (*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	raw, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

// Write serialises an engineered table as CSV in EngineeredColumns order
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EngineeredColumns()); err != nil {
		return err
	}

	for _, rec := range t.Records {
		row := []string{rec.Activity}
		for _, v := range rec.Calories {
			row = append(row, formatNumber(v))
		}
		row = append(row, formatNumber(rec.CaloriesPerKg), formatNumber(rec.AvgCalories))
		for _, v := range rec.CaloriesPerClass {
			row = append(row, formatNumber(v))
		}
		row = append(row,
			string(rec.Intensity),
			string(rec.Type),
			formatNumber(rec.NormalizedCaloriesPerKg),
			formatNumber(rec.EstimatedMET),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the engineered table to path, creating parent directories
func WriteFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
