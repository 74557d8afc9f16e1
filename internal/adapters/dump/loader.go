// Package dump discovers league export files on disk and decodes them into
// typed records.
package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/teamovr/internal/domain/features"
	"github.com/okian/teamovr/internal/domain/model"
	"github.com/okian/teamovr/pkg/logger"
	"github.com/okian/teamovr/pkg/metrics"
)

// Defaults match the export names the game writes.
const (
	defaultDir     = "."
	defaultPattern = "data*.json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is one decoded dump.
type File struct {
	Name   string // base name, used in reports
	Path   string
	Size   int
	League *model.League
}

// Source adapts f for the feature extractor.
func (f File) Source() features.Source {
	return features.Source{Name: f.Name, League: f.League}
}

// Sources adapts files for the feature extractor, keeping their order.
func Sources(files []File) []features.Source {
	out := make([]features.Source, len(files))
	for i, f := range files {
		out[i] = f.Source()
	}
	return out
}

// Loader finds and decodes dumps in a directory.
type Loader struct {
	dir     string
	pattern string
	workers int
	logger  logger.Logger
}

// NewLoader creates a Loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{dir: defaultDir, pattern: defaultPattern, workers: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discover returns the paths matching the pattern, sorted lexicographically.
func (l *Loader) Discover(_ context.Context) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", l.pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load discovers and decodes every dump, one at a time unless WithWorkers
// allows more. The result keeps discovery order. It
// returns ErrNoFiles when nothing matches and, when several files fail, the
// error of the first failing file in that order.
func (l *Loader) Load(ctx context.Context) ([]File, error) {
	log := l.logger
	if log == nil {
		log = logger.Named("dump")
	}

	paths, err := l.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoFiles, l.pattern, l.dir)
	}

	files := make([]File, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			files[i], errs[i] = ReadFile(path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for _, f := range files {
		metrics.RecordFileLoaded(f.Size)
		log.Info(ctx, "loaded dump",
			logger.String("file", f.Name),
			logger.Int("bytes", f.Size),
			logger.Int("players", len(f.League.Players)),
			logger.Int("teams", len(f.League.Teams)),
		)
	}
	return files, nil
}

// ReadFile reads and decodes a single dump.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	league, err := Decode(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return File{
		Name:   filepath.Base(path),
		Path:   path,
		Size:   len(data),
		League: league,
	}, nil
}

// Decode parses a dump, ignoring a leading UTF-8 byte-order mark.
func Decode(data []byte) (*model.League, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var league model.League
	if err := json.Unmarshal(data, &league); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &league, nil
}
