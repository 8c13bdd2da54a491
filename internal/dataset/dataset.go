package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
)

// outcomeColumn is the label column the attribution baseline must exclude.
const outcomeColumn = "Outcome"

// Reference is the training feature table, loaded once at startup and held
// read-only for the process lifetime. It supplies the attribution engine's
// background distribution.
type Reference struct {
	rows  [][]float64
	means []float64
}

// Load reads the 9-column reference CSV (8 features in training order plus
// the outcome label). Any problem with the file is fatal to startup.
func Load(path string) (*Reference, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("reference dataset %s has no data rows", path)
	}

	if err := validateHeader(records[0]); err != nil {
		return nil, fmt.Errorf("invalid reference dataset %s: %w", path, err)
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, features.Count)
		for j := 0; j < features.Count; j++ {
			value, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("reference dataset %s row %d column %q: %w", path, i+2, records[0][j], err)
			}
			row[j] = value
		}
		// The outcome label is parsed only to verify the row is well formed.
		if _, err := strconv.ParseFloat(record[features.Count], 64); err != nil {
			return nil, fmt.Errorf("reference dataset %s row %d outcome: %w", path, i+2, err)
		}
		rows = append(rows, row)
	}

	return &Reference{rows: rows, means: columnMeans(rows)}, nil
}

func validateHeader(header []string) error {
	expected := append(features.Names(), outcomeColumn)
	if len(header) != len(expected) {
		return fmt.Errorf("expected %d columns, found %d", len(expected), len(header))
	}
	for i, name := range expected {
		if header[i] != name {
			return fmt.Errorf("column %d: expected %q, found %q", i, name, header[i])
		}
	}
	return nil
}

func columnMeans(rows [][]float64) []float64 {
	means := make([]float64, features.Count)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}
	return means
}

// Len returns the number of reference rows.
func (r *Reference) Len() int {
	return len(r.rows)
}

// Means returns the per-feature means in training order. The slice is a
// copy; the baseline itself never changes after load.
func (r *Reference) Means() []float64 {
	out := make([]float64, len(r.means))
	copy(out, r.means)
	return out
}

// Row returns one background row in training order.
func (r *Reference) Row(i int) []float64 {
	out := make([]float64, features.Count)
	copy(out, r.rows[i])
	return out
}
