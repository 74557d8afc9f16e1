// Package report renders fit results and the feature/target table as text
// and CSV.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/teamovr/internal/adapters/repository"
	"github.com/okian/teamovr/internal/domain/features"
)

// Summary is the outcome of a fit.
type Summary struct {
	Files        []string
	Model        string
	Samples      int
	Columns      []string
	Intercept    float64
	Coefficients []float64
	RSquared     float64
}

// Writer prints reports to an io.Writer.
type Writer struct {
	out    io.Writer
	border lipgloss.Border
	cell   lipgloss.Style
}

// NewWriter creates a Writer with configuration options.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:    out,
		border: lipgloss.NormalBorder(),
		cell:   lipgloss.NewStyle().Padding(0, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary prints the input files, fitted parameters and R².
func (w *Writer) WriteSummary(s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Files: %s\n", strings.Join(s.Files, ", "))
	fmt.Fprintf(&b, "Model: %s (%d samples)\n", s.Model, s.Samples)
	fmt.Fprintf(&b, "Intercept: %s\n", formatFloat(s.Intercept))

	b.WriteString("Coefficients:\n")
	width := 0
	for _, c := range s.Columns {
		width = max(width, len(c))
	}
	for i, c := range s.Columns {
		var v float64
		if i < len(s.Coefficients) {
			v = s.Coefficients[i]
		}
		fmt.Fprintf(&b, "  %-*s %s\n", width, c, formatFloat(v))
	}
	fmt.Fprintf(&b, "r2: %s\n", formatFloat(s.RSquared))

	_, err := io.WriteString(w.out, b.String())
	return err
}

// WriteTable prints every row of t, with predictions when attached.
func (w *Writer) WriteTable(t *features.Table) error {
	records := Records(t)
	tbl := table.New().
		Border(w.border).
		StyleFunc(func(_, _ int) lipgloss.Style { return w.cell }).
		Headers(records[0]...).
		Rows(records[1:]...)

	_, err := io.WriteString(w.out, tbl.String()+"\n")
	return err
}

// WriteRankings prints power rankings for one season.
func (w *Writer) WriteRankings(season int, entries []repository.Entry) error {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.Itoa(e.Rank),
			strconv.Itoa(e.TID),
			e.Name,
			strconv.Itoa(e.Ovr),
			formatFloat(e.MOV),
		}
	}
	tbl := table.New().
		Border(w.border).
		StyleFunc(func(_, _ int) lipgloss.Style { return w.cell }).
		Headers("#", "tid", "team", "ovr", "mov").
		Rows(rows...)

	_, err := fmt.Fprintf(w.out, "Power rankings %d\n%s\n", season, tbl.String())
	return err
}

// Records returns the header and one record per row of t:
// file, tid, season, the feature columns, diff and, once predicted, diff_predicted.
func Records(t *features.Table) [][]string {
	header := append([]string{"file", "tid", "season"}, t.Columns()...)
	header = append(header, "diff")
	if t.HasPredictions() {
		header = append(header, "diff_predicted")
	}

	records := make([][]string, 0, t.Len()+1)
	records = append(records, header)
	for _, r := range t.Rows() {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.File, strconv.Itoa(r.TID), strconv.Itoa(r.Season))
		for _, v := range r.Features {
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, formatFloat(r.Diff))
		if t.HasPredictions() {
			rec = append(rec, strconv.FormatFloat(r.Predicted, 'f', 4, 64))
		}
		records = append(records, rec)
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
