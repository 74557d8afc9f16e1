// Package metrics provides Prometheus metrics for teamovr runs.
//
// teamovr is a batch job, so nothing is scraped: the registry is written to a
// node_exporter textfile at the end of a run when configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used as the "stage" label.
const (
	StageLoad    = "load"
	StageExtract = "extract"
	StageFit     = "fit"
	StageReport  = "report"
	StagePlot    = "plot"
)

// Manager manages all Prometheus metrics for a run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Input
	filesLoaded    prometheus.Counter
	bytesLoaded    prometheus.Counter
	playersScanned prometheus.Counter

	// Extraction
	teamSeasonsExtracted prometheus.Counter
	teamSeasonsSkipped   *prometheus.CounterVec
	integrityErrors      *prometheus.CounterVec

	// Fit
	samples    prometheus.Gauge
	features   prometheus.Gauge
	rSquared   prometheus.Gauge
	fitsTotal  *prometheus.CounterVec
	lastRunSec prometheus.Gauge

	stageDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teamovr",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.filesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "files_loaded_total",
		Help:        "Total number of dump files decoded",
		ConstLabels: labels,
	})

	m.bytesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "bytes_loaded_total",
		Help:        "Total number of dump bytes read",
		ConstLabels: labels,
	})

	m.playersScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_scanned_total",
		Help:        "Player records scanned while building feature vectors",
		ConstLabels: labels,
	})

	m.teamSeasonsExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_seasons_extracted_total",
		Help:        "Team-seasons turned into table rows",
		ConstLabels: labels,
	})

	m.teamSeasonsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "team_seasons_skipped_total",
			Help:        "Team-season records left out of the table, by reason",
			ConstLabels: labels,
		},
		[]string{"reason"},
	)

	m.integrityErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "integrity_errors_total",
			Help:        "Fatal data-integrity errors found in dumps, by kind",
			ConstLabels: labels,
		},
		[]string{"kind"},
	)

	m.samples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fit_samples",
		Help:        "Number of rows used by the last fit",
		ConstLabels: labels,
	})

	m.features = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fit_features",
		Help:        "Number of feature columns used by the last fit",
		ConstLabels: labels,
	})

	m.rSquared = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fit_r_squared",
		Help:        "Coefficient of determination of the last fit on its training data",
		ConstLabels: labels,
	})

	m.fitsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "fits_total",
			Help:        "Regression fits by model",
			ConstLabels: labels,
		},
		[]string{"model"},
	)

	m.lastRunSec = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: labels,
	})

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "stage_duration_seconds",
			Help:        "Wall time spent per pipeline stage",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"stage"},
	)
}

// RecordFileLoaded counts one decoded dump of the given size.
func RecordFileLoaded(bytes int) {
	globalManager.filesLoaded.Inc()
	globalManager.bytesLoaded.Add(float64(bytes))
}

// RecordPlayersScanned adds n to the scanned players counter.
func RecordPlayersScanned(n int) {
	globalManager.playersScanned.Add(float64(n))
}

// RecordTeamSeasonExtracted counts one table row.
func RecordTeamSeasonExtracted() {
	globalManager.teamSeasonsExtracted.Inc()
}

// RecordTeamSeasonSkipped counts a team-season left out for reason.
func RecordTeamSeasonSkipped(reason string) {
	globalManager.teamSeasonsSkipped.WithLabelValues(reason).Inc()
}

// RecordIntegrityError counts a fatal data-integrity error of kind.
func RecordIntegrityError(kind string) {
	globalManager.integrityErrors.WithLabelValues(kind).Inc()
}

// RecordFit stores the outcome of a regression fit.
func RecordFit(model string, samples, features int, r2 float64) {
	globalManager.fitsTotal.WithLabelValues(model).Inc()
	globalManager.samples.Set(float64(samples))
	globalManager.features.Set(float64(features))
	globalManager.rSquared.Set(r2)
}

// ObserveStage records how long a pipeline stage took, in seconds.
func ObserveStage(stage string, seconds float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// MarkSuccess stamps the last successful run time.
func MarkSuccess() {
	globalManager.lastRunSec.SetToCurrentTime()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
