package features

import "fmt"

// Row is one team-season: its roster features, actual goal differential, and
// the model's prediction once one has been attached.
type Row struct {
	File      string
	TID       int
	Season    int
	Features  Vector
	Diff      float64
	Predicted float64
}

// Table is the index-aligned feature/target table built by Extract.
type Table struct {
	files     []string
	rows      []Row
	predicted bool
}

// NewTable builds a table from rows, mainly for tests and re-fits.
func NewTable(files []string, rows []Row) *Table {
	return &Table{files: append([]string(nil), files...), rows: append([]Row(nil), rows...)}
}

// Files returns the source names in processing order.
func (t *Table) Files() []string { return t.files }

// Columns returns the feature column names.
func (t *Table) Columns() []string { return Columns() }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in extraction order.
func (t *Table) Rows() []Row { return t.rows }

// HasPredictions reports whether SetPredictions has been called.
func (t *Table) HasPredictions() bool { return t.predicted }

// Features returns the feature matrix, one slice per row.
func (t *Table) Features() [][]float64 {
	x := make([][]float64, len(t.rows))
	for i := range t.rows {
		x[i] = t.rows[i].Features.Slice()
	}
	return x
}

// Targets returns the goal differentials, aligned with Features.
func (t *Table) Targets() []float64 {
	y := make([]float64, len(t.rows))
	for i := range t.rows {
		y[i] = t.rows[i].Diff
	}
	return y
}

// Predictions returns the attached predictions, aligned with Targets.
func (t *Table) Predictions() []float64 {
	p := make([]float64, len(t.rows))
	for i := range t.rows {
		p[i] = t.rows[i].Predicted
	}
	return p
}

// SetPredictions attaches one prediction per row.
func (t *Table) SetPredictions(pred []float64) error {
	if len(pred) != len(t.rows) {
		return fmt.Errorf("%w: %d predictions for %d rows", ErrPredictionLength, len(pred), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i].Predicted = pred[i]
	}
	t.predicted = true
	return nil
}
