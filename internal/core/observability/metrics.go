package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcode_operations_total",
			Help: "Grid code operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	operationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridcode_operation_duration_seconds",
			Help:    "Duration of grid code operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs to ~4s
		},
		[]string{"op"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridcode_cache_results_total",
			Help: "Decode cache results by outcome.",
		},
		[]string{"cache", "outcome"},
	)

	coverCells = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridcode_cover_cells",
			Help:    "Number of cells returned by coverage queries.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"shape"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gridcode_build_info",
			Help: "Build information for the library.",
		},
		[]string{"version"},
	)
)

// Outcome maps an operation error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, griderr.ErrLength):
		return "length_error"
	case errors.Is(err, griderr.ErrRange):
		return "range_error"
	case errors.Is(err, griderr.ErrFormat):
		return "format_error"
	case errors.Is(err, griderr.ErrOutOfWindow):
		return "out_of_window"
	case errors.Is(err, griderr.ErrUnrepresentable):
		return "unrepresentable"
	default:
		return "error"
	}
}

func ObserveOp(op string, err error, durationSeconds float64) {
	operationsTotal.WithLabelValues(op, Outcome(err)).Inc()
	operationDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncCacheHit(cache string) {
	cacheResults.WithLabelValues(cache, "hit").Inc()
}

func IncCacheMiss(cache string) {
	cacheResults.WithLabelValues(cache, "miss").Inc()
}

func ObserveCoverCells(shape string, n int) {
	coverCells.WithLabelValues(shape).Observe(float64(n))
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
