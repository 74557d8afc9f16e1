package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	service "github.com/okian/teamovr/internal/app"
	"github.com/okian/teamovr/internal/config"
	"github.com/okian/teamovr/internal/domain/teamovr"
	"github.com/okian/teamovr/pkg/logger"
)

var version = "dev"

// flags holds raw command-line values. Only flags the user set override config.
type flags struct {
	configPath      string
	logLevel        string
	logFormat       string
	dir             string
	pattern         string
	metricsTextfile string

	model       string
	plot        string
	noPlot      bool
	csv         string
	noNormalize bool

	season int
	top    int
	fitted bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "teamovr",
		Short: "Fit goal differential against roster ratings",
		Long: `teamovr reads league dumps (data*.json), builds one row per
regular-season team-season from the overall ratings of the players who
played for the team, fits a linear model of goal differential on those
ratings and reports the coefficients and r2.

Examples:
  # Fit the 19-slot model on dumps in the current directory
  teamovr

  # Fit the position-average model and export the table
  teamovr fit --model aggregate --csv table.csv

  # Power rankings for a season
  teamovr ovr --season 2031 --top 10`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file (default $TEAMOVR_CONFIG)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&f.dir, "dir", "", "directory searched for dumps")
	pf.StringVar(&f.pattern, "pattern", "", "glob matched against dump file names")
	pf.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write run metrics in Prometheus text format")

	fit := newFitCmd(f)
	root.Flags().AddFlagSet(fit.Flags())
	root.RunE = fit.RunE

	root.AddCommand(fit, newExtractCmd(f), newOvrCmd(f))
	return root
}

func addFitFlags(cmd *cobra.Command, f *flags) {
	fs := cmd.Flags()
	fs.StringVar(&f.model, "model", "", "model to fit: slots or aggregate")
	fs.StringVar(&f.plot, "plot", "", "hexbin chart path (png, svg, pdf)")
	fs.BoolVar(&f.noPlot, "no-plot", false, "skip the hexbin chart")
	fs.StringVar(&f.csv, "csv", "", "write the feature/target table as CSV")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "solve on unscaled features")
}

func newFitCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the model and print coefficients, r2 and the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}
			svc := service.New(append(service.FromConfig(cfg, log), service.WithOutput(cmd.OutOrStdout()))...)
			return report(ctx, log, svc.Run(ctx))
		},
	}
	addFitFlags(cmd, f)
	return cmd
}

func newExtractCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the feature/target table without fitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}
			svc := service.New(append(service.FromConfig(cfg, log), service.WithOutput(cmd.OutOrStdout()))...)
			return report(ctx, log, svc.RunExtract(ctx))
		},
	}
	cmd.Flags().StringVar(&f.csv, "csv", "", "write the feature/target table as CSV")
	return cmd
}

func newOvrCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ovr",
		Short: "Print team ovr power rankings for a season",
		Long: `Rates every team of the newest dump that played a regular season
in --season with the team ovr formula and prints them best first.

With --fitted the aggregate model is first fitted on all dumps and its
weights replace the shipped ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}
			opts := append(service.FromConfig(cfg, log), service.WithOutput(cmd.OutOrStdout()))

			w := teamovr.DefaultWeights
			if f.fitted {
				// Fit does not print, so the rankings stay the only stdout output.
				res, err := service.New(append(opts, service.WithModel(config.ModelAggregate))...).Fit(ctx)
				if err != nil {
					return report(ctx, log, err)
				}
				w = teamovr.WeightsFrom(res.Model.Intercept, res.Model.Coefficients)
				log.Info(ctx, "using fitted weights",
					logger.Float64("intercept", w.Intercept),
					logger.Float64("r2", res.RSquared),
				)
			}

			return report(ctx, log, service.New(opts...).RunRankings(ctx, f.season, cfg.Top, w))
		},
	}
	cmd.Flags().IntVar(&f.season, "season", 0, "season to rate")
	cmd.Flags().IntVar(&f.top, "top", 0, "number of teams to print, 0 for all (default from config)")
	cmd.Flags().BoolVar(&f.fitted, "fitted", false, "rank with weights fitted on the dumps")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// setup initializes logging and loads configuration, layering explicitly
// set flags over defaults, file and env.
func setup(cmd *cobra.Command, f *flags) (context.Context, *config.Config, logger.Logger, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to load config: %v\n", err)
		return nil, nil, nil, err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid config: %v\n", err)
		return nil, nil, nil, err
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to initialize logging: %v\n", err)
		return nil, nil, nil, err
	}
	log := logger.Named("teamovr")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return ctx, cfg, log, nil
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("dir") {
		cfg.DataDir = f.dir
	}
	if changed("pattern") {
		cfg.Pattern = f.pattern
	}
	if changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("plot") {
		cfg.PlotPath = f.plot
	}
	if changed("no-plot") && f.noPlot {
		cfg.PlotPath = ""
	}
	if changed("csv") {
		cfg.CSVPath = f.csv
	}
	if changed("no-normalize") && f.noNormalize {
		cfg.Normalize = false
	}
	if changed("top") {
		cfg.Top = f.top
	}
}

// report logs a failed run; the error is passed through for the exit code.
func report(ctx context.Context, log logger.Logger, err error) error {
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
	}
	return err
}
