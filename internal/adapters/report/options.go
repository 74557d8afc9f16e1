package report

import "github.com/charmbracelet/lipgloss"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithBorder sets the table border, e.g. lipgloss.ASCIIBorder() for plain terminals.
func WithBorder(b lipgloss.Border) Option {
	return func(w *Writer) {
		w.border = b
	}
}

// WithCellStyle sets the style applied to every table cell.
func WithCellStyle(s lipgloss.Style) Option {
	return func(w *Writer) {
		w.cell = s
	}
}
