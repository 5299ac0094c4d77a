package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid3d"
	"github.com/mohammed-shakir/beidou-grid/pkg/gridcode"
)

type Config struct {
	Concurrency     int
	Duration        time.Duration
	ZipfS           float64
	ZipfV           float64
	PointCount      int
	Ops             string
	OutputPrefix    string
	AppendTimestamp bool
	WriteSamples    bool
	Seed            int64
}

func loadConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("gridbench", flag.ContinueOnError)
	fs.IntVar(&cfg.Concurrency, "concurrency", 8, "Concurrent workers")
	fs.DurationVar(&cfg.Duration, "duration", 10*time.Second, "Run duration")
	fs.Float64Var(&cfg.ZipfS, "zipf-s", 1.3, "Zipf parameter s (>1)")
	fs.Float64Var(&cfg.ZipfV, "zipf-v", 1.0, "Zipf parameter v (>=1)")
	fs.IntVar(&cfg.PointCount, "points", 1024, "Distinct points in pool")
	fs.StringVar(&cfg.Ops, "ops", "encode,decode,refer,neighbors,elevation,cover", "Comma separated operations to mix")
	fs.StringVar(&cfg.OutputPrefix, "out", "results/gridbench", "Output file prefix (JSON/CSV)")
	fs.BoolVar(&cfg.AppendTimestamp, "append-ts", true, "Append timestamp to output prefix")
	fs.BoolVar(&cfg.WriteSamples, "samples", false, "Write every sample to a CSV file")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Workload seed (0 picks one from the clock)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Concurrency <= 0 || cfg.PointCount <= 0 {
		return cfg, fmt.Errorf("concurrency and points must be positive")
	}
	if cfg.ZipfS <= 1 || cfg.ZipfV < 1 {
		return cfg, fmt.Errorf("zipf needs s > 1 and v >= 1")
	}
	return cfg, nil
}

// point is one workload location with its precomputed code.
type point struct {
	Coord  grid3d.CoordinateWithElevation
	Code   string
	Height string
}

// creates a mix of "hot" points around a few cities and "cold" points
// anywhere outside the polar caps.
func makePoints(count int, r *rand.Rand) []grid3d.CoordinateWithElevation {
	centers := [][2]float64{
		{116.3913, 39.9075},  // Beijing
		{121.4737, 31.2304},  // Shanghai
		{-74.0060, 40.7128},  // New York
		{151.2093, -33.8688}, // Sydney
	}
	out := make([]grid3d.CoordinateWithElevation, 0, count)
	hot := int(math.Max(8, float64(count/4)))
	for i := 0; i < hot && len(out) < count; i++ {
		c := centers[i%len(centers)]
		lng := c[0] + (r.Float64()-0.5)*0.2
		lat := c[1] + (r.Float64()-0.5)*0.2
		out = append(out, grid3d.CoordinateWithElevation{
			Coordinate: grid2d.FromDecimal(lng, lat),
			Elevation:  r.Float64() * 500,
		})
	}
	for len(out) < count {
		out = append(out, grid3d.CoordinateWithElevation{
			Coordinate: grid2d.FromDecimal(-180+r.Float64()*360, -87+r.Float64()*174),
			Elevation:  -1000 + r.Float64()*10000,
		})
	}
	return out
}

func prepare(svc *gridcode.Service, coords []grid3d.CoordinateWithElevation) ([]point, error) {
	pts := make([]point, 0, len(coords))
	for _, c := range coords {
		code, err := svc.EncodeLevel(c.Coordinate, grid2d.MaxLevel)
		if err != nil {
			return nil, fmt.Errorf("encode %+v: %w", c.Coordinate, err)
		}
		h, err := svc.EncodeElevation(c.Elevation)
		if err != nil {
			return nil, fmt.Errorf("encode elevation %v: %w", c.Elevation, err)
		}
		pts = append(pts, point{Coord: c, Code: code, Height: h})
	}
	return pts, nil
}

// runOp performs one named operation on p.
func runOp(svc *gridcode.Service, op string, p point) error {
	var err error
	switch op {
	case "encode":
		_, err = svc.Encode3D(p.Coord)
	case "decode":
		_, err = svc.Decode3D(p.Code+p.Height, grid2d.FormDecimal)
	case "refer":
		var ref, rc string
		if ref, err = svc.ToParent(p.Code, grid2d.MinReferLevel+2); err == nil {
			if rc, err = svc.Refer(p.Code, ref); err == nil {
				_, err = svc.DeRefer(rc)
			}
		}
	case "neighbors":
		_, err = svc.Neighbors(p.Code)
	case "elevation":
		_, err = svc.ElevationNeighbor(p.Height, 1)
	case "cover":
		lng, lat := p.Coord.Decimal()
		_, err = svc.CellsForBBox(gridcode.BBox{X1: lng - 0.01, Y1: lat - 0.01, X2: lng + 0.01, Y2: lat + 0.01}, 4)
	default:
		err = fmt.Errorf("unknown op %q", op)
	}
	return err
}

// one result per operation
type sample struct {
	Timestamp time.Time
	Latency   time.Duration
	Op        string
	ErrorMsg  string
	Index     int
}

type opSummary struct {
	Total  int64   `json:"total"`
	Errors int64   `json:"errors"`
	P50Us  float64 `json:"p50_us"`
	P95Us  float64 `json:"p95_us"`
	P99Us  float64 `json:"p99_us"`
}

type summary struct {
	StartTime   time.Time            `json:"start"`
	EndTime     time.Time            `json:"end"`
	DurationSec float64              `json:"duration_sec"`
	Total       int64                `json:"total"`
	Errors      int64                `json:"errors"`
	Throughput  float64              `json:"throughput_ops"`
	Concurrency int                  `json:"concurrency"`
	ZipfS       float64              `json:"zipf_s"`
	ZipfV       float64              `json:"zipf_v"`
	Points      int                  `json:"points"`
	Seed        int64                `json:"seed"`
	Ops         map[string]opSummary `json:"ops"`
}

type aggregate struct {
	total, errors int64
	latUs         []float64
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	svc := gridcode.NewFromEnv(gridcode.WithLogOutput(os.Stderr))
	log := svc.Logger()

	if err := run(context.Background(), cfg, svc); err != nil {
		log.Fatal().Err(err).Msg("gridbench failed")
	}
}

func run(ctx context.Context, cfg Config, svc *gridcode.Service) error {
	log := svc.Logger()
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPrefix), 0o750); err != nil {
		return fmt.Errorf("mkdir results: %w", err)
	}
	prefix := cfg.OutputPrefix
	if cfg.AppendTimestamp {
		prefix = fmt.Sprintf("%s_%s", prefix, time.Now().UTC().Format("20060102_150405Z"))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ops := splitOps(cfg.Ops)
	if len(ops) == 0 {
		return fmt.Errorf("no operations selected")
	}
	pts, err := prepare(svc, makePoints(cfg.PointCount, rand.New(rand.NewSource(seed))))
	if err != nil {
		return err
	}
	imax := uint64(len(pts)) - 1

	var csvWriter *csv.Writer
	if cfg.WriteSamples {
		f, err := os.Create(filepath.Clean(prefix + "_samples.csv"))
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer func() { _ = f.Close() }()
		csvWriter = csv.NewWriter(f)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	// collects results asynchronously
	samplesChan := make(chan sample, 4096)
	resultsChan := make(chan map[string]*aggregate, 1)
	go func() {
		if csvWriter != nil {
			_ = csvWriter.Write([]string{"timestamp", "latency_us", "op", "error", "point_idx"})
		}
		agg := map[string]*aggregate{}
		for s := range samplesChan {
			a := agg[s.Op]
			if a == nil {
				a = &aggregate{}
				agg[s.Op] = a
			}
			a.total++
			if s.ErrorMsg == "" {
				a.latUs = append(a.latUs, float64(s.Latency.Nanoseconds())/1000.0)
			} else {
				a.errors++
			}
			if csvWriter != nil {
				_ = csvWriter.Write([]string{
					s.Timestamp.UTC().Format(time.RFC3339Nano),
					fmt.Sprintf("%.3f", float64(s.Latency.Nanoseconds())/1000.0),
					s.Op,
					s.ErrorMsg,
					fmt.Sprintf("%d", s.Index),
				})
			}
		}
		if csvWriter != nil {
			csvWriter.Flush()
			if err := csvWriter.Error(); err != nil {
				log.Warn().Err(err).Msg("csv flush error")
			}
		}
		resultsChan <- agg
	}()

	startTime := time.Now()
	log.Info().
		Dur("duration", cfg.Duration).
		Int("concurrency", cfg.Concurrency).
		Float64("zipf_s", cfg.ZipfS).
		Float64("zipf_v", cfg.ZipfV).
		Int("points", len(pts)).
		Strs("ops", ops).
		Msg("gridbench start")

	var wg sync.WaitGroup
	wg.Add(cfg.Concurrency)
	for workerID := 0; workerID < cfg.Concurrency; workerID++ {
		go func(id int) {
			defer wg.Done()
			rWorker := rand.New(rand.NewSource(seed + int64(id) + 1))
			zipfDist := rand.NewZipf(rWorker, cfg.ZipfS, cfg.ZipfV, imax)
			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				idx := int(zipfDist.Uint64())
				op := ops[(id+n)%len(ops)]

				start := time.Now()
				err := runOp(svc, op, pts[idx])
				s := sample{Timestamp: start, Latency: time.Since(start), Op: op, Index: idx}
				if err != nil {
					s.ErrorMsg = err.Error()
				}
				select {
				case samplesChan <- s:
				case <-ctx.Done():
					return
				}
			}
		}(workerID)
	}

	// close samples channel
	go func() {
		<-ctx.Done()
		wg.Wait()
		close(samplesChan)
	}()

	agg := <-resultsChan
	endTime := time.Now()
	res := summarize(agg, startTime, endTime)
	res.Concurrency, res.ZipfS, res.ZipfV, res.Points, res.Seed = cfg.Concurrency, cfg.ZipfS, cfg.ZipfV, len(pts), seed

	jsonPath := prefix + "_summary.json"
	jsonFile, err := os.Create(filepath.Clean(jsonPath))
	if err != nil {
		return fmt.Errorf("open summary: %w", err)
	}
	enc := json.NewEncoder(jsonFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		_ = jsonFile.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err := jsonFile.Close(); err != nil {
		return fmt.Errorf("close summary: %w", err)
	}

	log.Info().
		Int64("total", res.Total).
		Int64("errors", res.Errors).
		Float64("throughput_ops", res.Throughput).
		Str("summary", jsonPath).
		Msg("gridbench done")
	return nil
}

func splitOps(s string) []string {
	var out []string
	for _, op := range strings.Split(s, ",") {
		if op = strings.TrimSpace(op); op != "" {
			out = append(out, op)
		}
	}
	return out
}

func summarize(agg map[string]*aggregate, start, end time.Time) summary {
	elapsed := end.Sub(start).Seconds()
	res := summary{
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		DurationSec: elapsed,
		Ops:         map[string]opSummary{},
	}
	for op, a := range agg {
		o := opSummary{Total: a.total, Errors: a.errors}
		// json cannot carry the NaN percentile of an empty set
		if len(a.latUs) > 0 {
			sort.Float64s(a.latUs)
			o.P50Us = percentile(a.latUs, 50)
			o.P95Us = percentile(a.latUs, 95)
			o.P99Us = percentile(a.latUs, 99)
		}
		res.Ops[op] = o
		res.Total += a.total
		res.Errors += a.errors
	}
	if elapsed > 0 {
		res.Throughput = float64(res.Total) / elapsed
	}
	return res
}

func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sortedValues[0]
	}
	if p >= 100 {
		return sortedValues[len(sortedValues)-1]
	}
	k := (p / 100.0) * float64(len(sortedValues)-1)
	f := math.Floor(k)
	i := int(f)
	if i >= len(sortedValues)-1 {
		return sortedValues[len(sortedValues)-1]
	}
	d := k - f
	return sortedValues[i]*(1-d) + sortedValues[i+1]*d
}
