// Package config defines teamovr configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file, and TEAMOVR_* env vars.
//   - Errors are wrapped with this package's sentinel kinds.
package config

// Model names accepted by the "model" key.
const (
	ModelSlots     = "slots"
	ModelAggregate = "aggregate"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// DataDir is searched for dump files.
	DataDir string `koanf:"data_dir"`

	// Pattern is the glob matched against file names in DataDir.
	Pattern string `koanf:"pattern"`

	// LoadWorkers bounds how many dumps are decoded concurrently; 1 reads them one by one.
	LoadWorkers int `koanf:"load_workers"`

	// DefaultOvr fills feature slots that have no qualifying player.
	DefaultOvr float64 `koanf:"default_ovr"`

	// Model is "slots" (19 features) or "aggregate" (4 position averages).
	Model string `koanf:"model"`

	// Normalize scales features before solving; predictions are unaffected.
	Normalize bool `koanf:"normalize"`

	// StatsTidsFilter skips players whose statsTids lacks the team.
	StatsTidsFilter bool `koanf:"stats_tids_filter"`

	// RequireGamesPlayed ignores player stat rows with gp == 0.
	RequireGamesPlayed bool `koanf:"require_games_played"`

	// PlotPath is where the hexbin PNG is written; empty disables plotting.
	PlotPath string `koanf:"plot_path"`

	// PlotGridSize is the number of hexagons across the x axis.
	PlotGridSize int `koanf:"plot_grid_size"`

	// PlotWidthIn and PlotHeightIn size the image in inches.
	PlotWidthIn  float64 `koanf:"plot_width_in"`
	PlotHeightIn float64 `koanf:"plot_height_in"`

	// CSVPath, when set, receives the feature/target table as CSV.
	CSVPath string `koanf:"csv_path"`

	// MetricsTextfile, when set, receives the run metrics in Prometheus text format.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// Top caps the number of rows printed by the ovr command.
	Top int `koanf:"top"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		DataDir:         ".",
		Pattern:         "data*.json",
		LoadWorkers:     1,
		DefaultOvr:      20,
		Model:           ModelSlots,
		Normalize:       true,
		StatsTidsFilter: true,
		PlotPath:        "hexbin.png",
		PlotGridSize:    20,
		PlotWidthIn:     8,
		PlotHeightIn:    6,
		Top:             50,
	}
}
