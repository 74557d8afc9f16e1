package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/teamovr/internal/domain/features"
)

// WriteCSV writes Records(t) as CSV.
func WriteCSV(out io.Writer, t *features.Table) error {
	cw := csv.NewWriter(out)
	if err := cw.WriteAll(Records(t)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes Records(t) as CSV to path, replacing any existing file.
func WriteCSVFile(path string, t *features.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteCSV(f, t)
}
