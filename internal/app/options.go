package service

import (
	"io"

	"github.com/okian/teamovr/internal/adapters/chart"
	"github.com/okian/teamovr/internal/adapters/dump"
	"github.com/okian/teamovr/internal/adapters/report"
	"github.com/okian/teamovr/internal/config"
	"github.com/okian/teamovr/internal/domain/features"
	"github.com/okian/teamovr/internal/domain/regression"
	"github.com/okian/teamovr/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets the dump loader.
func WithLoader(l *dump.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithExtractor sets the feature extractor.
func WithExtractor(e *features.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithRegressor sets the regressor used by Fit.
func WithRegressor(r regression.Regressor) Option {
	return func(s *Service) {
		if r != nil {
			s.regressor = r
		}
	}
}

// WithPlotter enables chart rendering after a fit. nil disables it.
func WithPlotter(p chart.Plotter) Option {
	return func(s *Service) {
		s.plotter = p
	}
}

// WithOutput sets where reports are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
			s.writer = nil
		}
	}
}

// WithReportWriter sets a preconfigured report writer; it takes precedence over WithOutput.
func WithReportWriter(w *report.Writer) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithModel selects config.ModelSlots or config.ModelAggregate.
func WithModel(model string) Option {
	return func(s *Service) {
		if model == config.ModelSlots || model == config.ModelAggregate {
			s.model = model
		}
	}
}

// WithCSVPath writes the table as CSV after each run.
func WithCSVPath(path string) Option {
	return func(s *Service) {
		s.csvPath = path
	}
}

// WithMetricsTextfile writes run metrics in Prometheus text format when a run ends.
func WithMetricsTextfile(path string) Option {
	return func(s *Service) {
		s.metricsTextfile = path
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// FromConfig translates cfg into options. Plotting is enabled when
// cfg.PlotPath is set.
func FromConfig(cfg *config.Config, log logger.Logger) []Option {
	opts := []Option{
		WithLogger(log),
		WithLoader(dump.NewLoader(
			dump.WithDir(cfg.DataDir),
			dump.WithPattern(cfg.Pattern),
			dump.WithWorkers(cfg.LoadWorkers),
			dump.WithLogger(log),
		)),
		WithExtractor(features.NewExtractor(
			features.WithDefaultOvr(cfg.DefaultOvr),
			features.WithStatsTidsFilter(cfg.StatsTidsFilter),
			features.WithRequireGamesPlayed(cfg.RequireGamesPlayed),
			features.WithLogger(log),
		)),
		WithRegressor(regression.NewOLS(regression.WithNormalize(cfg.Normalize))),
		WithModel(cfg.Model),
		WithCSVPath(cfg.CSVPath),
		WithMetricsTextfile(cfg.MetricsTextfile),
	}
	if cfg.PlotPath != "" {
		opts = append(opts, WithPlotter(chart.NewHexbinPlotter(cfg.PlotPath,
			chart.WithGridSize(cfg.PlotGridSize),
			chart.WithSize(cfg.PlotWidthIn, cfg.PlotHeightIn),
		)))
	}
	return opts
}
