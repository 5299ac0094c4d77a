// Package gridcode is the entry point for applications: a Service bundles
// the planar, elevation and 3D codecs with configuration, logging, metrics,
// decode caches and the coverage mappers.
package gridcode

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/beidou-grid/internal/cache/codecache"
	"github.com/mohammed-shakir/beidou-grid/internal/core/config"
	"github.com/mohammed-shakir/beidou-grid/internal/core/observability"
	"github.com/mohammed-shakir/beidou-grid/internal/logger"
	gridmapper "github.com/mohammed-shakir/beidou-grid/internal/mapper/grid"
	h3mapper "github.com/mohammed-shakir/beidou-grid/internal/mapper/h3"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
)

// Version is reported through the gridcode_build_info metric.
var Version = "dev"

// Config is the service configuration. See DefaultConfig and ConfigFromEnv.
type Config = config.Config

// LogConfig configures the service logger.
type LogConfig = config.LogCfg

func DefaultConfig() Config { return config.Default() }

// ConfigFromEnv reads LOG_*, GRID_* and H3_RES variables over the defaults.
func ConfigFromEnv() Config { return config.FromEnv() }

type Option func(*options)

type options struct {
	out    io.Writer
	logger *zerolog.Logger
}

// WithLogOutput sends the service's own logger to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLogger uses l as is and ignores the logging part of Config.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// Service is safe for concurrent use.
type Service struct {
	cfg     Config
	log     zerolog.Logger
	grid    *gridmapper.Mapper
	h3      *h3mapper.Mapper
	decoded *codecache.Cache[grid2d.Coordinate]
	heights *codecache.Cache[float64]
}

func New(cfg Config, opts ...Option) *Service {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	def := config.Default()
	if cfg.ReferenceRadius <= 0 {
		cfg.ReferenceRadius = def.ReferenceRadius
	}
	if cfg.ReferSeparator == "" {
		cfg.ReferSeparator = def.ReferSeparator
	}
	if cfg.DefaultLevel < 0 || cfg.DefaultLevel > grid2d.MaxLevel {
		cfg.DefaultLevel = def.DefaultLevel
	}

	var log zerolog.Logger
	if o.logger != nil {
		log = *o.logger
	} else {
		log = logger.Build(logger.Config{
			Level:     cfg.Log.Level,
			Console:   cfg.Log.Console,
			SampleN:   cfg.Log.SampleN,
			Component: "gridcode",
		}, o.out)
	}

	s := &Service{
		cfg:     cfg,
		log:     log,
		grid:    gridmapper.New(cfg.CoverMaxCells),
		h3:      h3mapper.New(),
		decoded: codecache.New[grid2d.Coordinate]("planar", cfg.CacheSize),
		heights: codecache.New[float64]("elevation", cfg.CacheSize),
	}
	observability.ExposeBuildInfo(Version)
	s.log.Info().
		Int("default_level", cfg.DefaultLevel).
		Float64("reference_radius", cfg.ReferenceRadius).
		Int("cache_size", cfg.CacheSize).
		Int("cover_max_cells", s.grid.MaxCells).
		Int("h3_res", cfg.H3Res).
		Msg("grid code service ready")
	return s
}

func NewFromEnv(opts ...Option) *Service {
	return New(config.FromEnv(), opts...)
}

func (s *Service) Config() Config { return s.cfg }

// Logger returns the service logger.
func (s *Service) Logger() *zerolog.Logger { return &s.log }

// Slog exposes the service logger through log/slog.
func (s *Service) Slog() *slog.Logger { return logger.NewSlog(&s.log) }

func radiusVariant(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}
