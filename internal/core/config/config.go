package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	maxGridLevel = 10
	maxH3Res     = 15
)

type LogCfg struct {
	Level   string
	Console bool
	SampleN int
}

type Config struct {
	Log             LogCfg
	ReferenceRadius float64
	ReferSeparator  string
	DefaultLevel    int
	CacheSize       int
	CoverMaxCells   int
	H3Res           int
}

// Default is the configuration FromEnv returns with no variables set.
func Default() Config {
	return Config{
		Log:             LogCfg{Level: "info"},
		ReferenceRadius: 6378137.0,
		ReferSeparator:  "-",
		DefaultLevel:    maxGridLevel,
		CacheSize:       4096,
		CoverMaxCells:   100000,
		H3Res:           9,
	}
}

func FromEnv() Config {
	def := Default()

	radius := getfloat("GRID_REFERENCE_RADIUS", def.ReferenceRadius)
	if radius <= 0 {
		radius = def.ReferenceRadius
	}
	cacheSize := getint("GRID_CACHE_SIZE", def.CacheSize)
	if cacheSize < 0 {
		cacheSize = 0
	}
	maxCells := getint("GRID_COVER_MAX_CELLS", def.CoverMaxCells)
	if maxCells <= 0 {
		maxCells = def.CoverMaxCells
	}

	return Config{
		Log: LogCfg{
			Level:   getenv("LOG_LEVEL", def.Log.Level),
			Console: getbool("LOG_CONSOLE", false),
			SampleN: getint("LOG_SAMPLE_N", 0),
		},
		ReferenceRadius: radius,
		ReferSeparator:  getenv("GRID_REFER_SEPARATOR", def.ReferSeparator),
		DefaultLevel:    clamp(getint("GRID_DEFAULT_LEVEL", def.DefaultLevel), 0, maxGridLevel),
		CacheSize:       cacheSize,
		CoverMaxCells:   maxCells,
		H3Res:           clamp(getint("H3_RES", def.H3Res), 0, maxH3Res),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
