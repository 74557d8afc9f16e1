// Package service wires the dump loader, feature extractor, regressor,
// report writer and chart renderer into the teamovr pipeline.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teamovr/internal/adapters/chart"
	"github.com/okian/teamovr/internal/adapters/dump"
	"github.com/okian/teamovr/internal/adapters/report"
	"github.com/okian/teamovr/internal/adapters/repository"
	"github.com/okian/teamovr/internal/config"
	"github.com/okian/teamovr/internal/domain/features"
	"github.com/okian/teamovr/internal/domain/model"
	"github.com/okian/teamovr/internal/domain/regression"
	"github.com/okian/teamovr/internal/domain/teamovr"
	"github.com/okian/teamovr/pkg/logger"
	"github.com/okian/teamovr/pkg/metrics"
)

// Result is the outcome of a fit.
type Result struct {
	Table    *features.Table
	Model    *regression.Model
	Kind     string // config.ModelSlots or config.ModelAggregate
	Columns  []string
	RSquared float64
}

// Service runs the analysis pipeline.
type Service struct {
	loader    *dump.Loader
	extractor *features.Extractor
	regressor regression.Regressor
	plotter   chart.Plotter
	out       io.Writer
	writer    *report.Writer

	model           string
	csvPath         string
	metricsTextfile string

	runID  string
	logger logger.Logger
}

// New constructs a Service. Defaults read data*.json from the working
// directory, fit the 19-slot model and print to stdout without plotting.
func New(opts ...Option) *Service {
	s := &Service{
		loader:    dump.NewLoader(),
		extractor: features.NewExtractor(),
		regressor: regression.NewOLS(regression.WithNormalize(true)),
		out:       os.Stdout,
		model:     config.ModelSlots,
		runID:     uuid.NewString(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.logger = s.logger.With(logger.String("run_id", s.runID))
	if s.writer == nil {
		s.writer = report.NewWriter(s.out)
	}
	return s
}

// RunID identifies this service's run in logs.
func (s *Service) RunID() string { return s.runID }

// Extract loads every dump and builds the feature/target table.
func (s *Service) Extract(ctx context.Context) (*features.Table, error) {
	var files []dump.File
	err := s.stage(ctx, metrics.StageLoad, func() error {
		var err error
		files, err = s.loader.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var table *features.Table
	err = s.stage(ctx, metrics.StageExtract, func() error {
		var err error
		table, err = s.extractor.Extract(ctx, dump.Sources(files))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "extracted feature table",
		logger.Strings("files", table.Files()),
		logger.Int("rows", table.Len()),
	)
	return table, nil
}

// Fit extracts the table, fits the configured model on all rows and attaches
// the in-sample predictions to the table.
func (s *Service) Fit(ctx context.Context) (*Result, error) {
	table, err := s.Extract(ctx)
	if err != nil {
		return nil, err
	}

	x, cols := s.design(table)
	res := &Result{Table: table, Kind: s.model, Columns: cols}

	err = s.stage(ctx, metrics.StageFit, func() error {
		m, err := s.regressor.Fit(ctx, x, table.Targets())
		if err != nil {
			return fmt.Errorf("fit %s model: %w", s.model, err)
		}
		pred, err := m.Predict(x)
		if err != nil {
			return err
		}
		if err := table.SetPredictions(pred); err != nil {
			return err
		}
		res.Model = m
		res.RSquared = regression.RSquared(table.Targets(), pred)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordFit(s.model, table.Len(), len(cols), res.RSquared)
	s.logger.Info(ctx, "fitted model",
		logger.String("model", s.model),
		logger.Int("samples", table.Len()),
		logger.Float64("intercept", res.Model.Intercept),
		logger.Float64("r2", res.RSquared),
	)
	return res, nil
}

// design returns the regression inputs for the configured model.
func (s *Service) design(t *features.Table) ([][]float64, []string) {
	if s.model == config.ModelAggregate {
		return teamovr.AggregateRows(t), teamovr.AggregateColumns
	}
	return t.Features(), t.Columns()
}

// Run fits the model, prints the report, and writes the optional CSV and chart.
// Nothing is printed unless extraction and fitting succeed.
func (s *Service) Run(ctx context.Context) (err error) {
	defer s.finish(ctx, &err)

	res, err := s.Fit(ctx)
	if err != nil {
		return err
	}

	err = s.stage(ctx, metrics.StageReport, func() error {
		if err := s.writer.WriteSummary(report.Summary{
			Files:        res.Table.Files(),
			Model:        res.Kind,
			Samples:      res.Table.Len(),
			Columns:      res.Columns,
			Intercept:    res.Model.Intercept,
			Coefficients: res.Model.Coefficients,
			RSquared:     res.RSquared,
		}); err != nil {
			return err
		}
		if err := s.writer.WriteTable(res.Table); err != nil {
			return err
		}
		return s.writeCSV(ctx, res.Table)
	})
	if err != nil {
		return err
	}

	if s.plotter == nil {
		return nil
	}
	return s.stage(ctx, metrics.StagePlot, func() error {
		return s.plotter.Render(ctx, res.Table.Targets(), res.Table.Predictions())
	})
}

// RunExtract prints the feature/target table without fitting.
func (s *Service) RunExtract(ctx context.Context) (err error) {
	defer s.finish(ctx, &err)

	table, err := s.Extract(ctx)
	if err != nil {
		return err
	}
	return s.stage(ctx, metrics.StageReport, func() error {
		if err := s.writer.WriteTable(table); err != nil {
			return err
		}
		return s.writeCSV(ctx, table)
	})
}

// Rankings rates every team with a qualifying record for season in the last
// dump (the newest export) using w, best first. top <= 0 returns every team.
func (s *Service) Rankings(ctx context.Context, season, top int, w teamovr.Weights) ([]repository.Entry, error) {
	files, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	latest := files[len(files)-1]

	store := repository.NewMemoryStore()
	for _, team := range latest.League.Teams {
		if !hasQualifyingSeason(team, season) {
			continue
		}
		v, err := s.extractor.VectorFor(latest.League.Players, team.TID, season)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", latest.Name, err)
		}
		if err := store.Put(ctx, repository.Entry{
			TID:    team.TID,
			Name:   team.DisplayName(),
			Season: season,
			Ovr:    w.Ovr(v),
			MOV:    w.MOV(teamovr.Aggregated(v)),
		}); err != nil {
			return nil, err
		}
	}

	n := store.Count(ctx)
	if n == 0 {
		return nil, nil
	}
	if top > 0 {
		n = min(n, top)
	}
	return store.TopN(ctx, n)
}

// RunRankings prints Rankings for season.
func (s *Service) RunRankings(ctx context.Context, season, top int, w teamovr.Weights) (err error) {
	defer s.finish(ctx, &err)

	entries, err := s.Rankings(ctx, season, top, w)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logger.Warn(ctx, "no team played a regular season", logger.Int("season", season))
	}
	return s.writer.WriteRankings(season, entries)
}

func hasQualifyingSeason(t model.Team, season int) bool {
	for _, ts := range t.Stats {
		if ts.Season == season && ts.Qualifies() {
			return true
		}
	}
	return false
}

func (s *Service) writeCSV(ctx context.Context, t *features.Table) error {
	if s.csvPath == "" {
		return nil
	}
	if err := report.WriteCSVFile(s.csvPath, t); err != nil {
		return err
	}
	s.logger.Info(ctx, "wrote csv", logger.String("path", s.csvPath), logger.Int("rows", t.Len()))
	return nil
}

// stage runs fn and records its duration.
func (s *Service) stage(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.ObserveStage(name, elapsed.Seconds())
	s.logger.Debug(ctx, "stage finished",
		logger.String("stage", name),
		logger.String("elapsed", elapsed.String()),
		logger.Bool("ok", err == nil),
	)
	return err
}

// finish stamps success and flushes the metrics textfile, if configured.
func (s *Service) finish(ctx context.Context, errp *error) {
	if *errp == nil {
		metrics.MarkSuccess()
	}
	if s.metricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.metricsTextfile); err != nil {
		s.logger.Warn(ctx, "failed to write metrics textfile", logger.Error(err))
	}
}
