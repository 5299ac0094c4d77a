// Package gridmapper covers bounding boxes, polygons and lines with planar
// grid codes.
package gridmapper

import (
	"fmt"
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"

	"github.com/mohammed-shakir/beidou-grid/internal/core/model"
	"github.com/mohammed-shakir/beidou-grid/internal/mapper"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const (
	polarLimit     = 88.0
	defaultMaxCell = 100000
)

var _ mapper.Interface = (*Mapper)(nil)

// Mapper enumerates grid cells. MaxCells bounds every result.
type Mapper struct {
	MaxCells int
}

func New(maxCells int) *Mapper {
	if maxCells <= 0 {
		maxCells = defaultMaxCell
	}
	return &Mapper{MaxCells: maxCells}
}

// CellsForBBox returns every cell at level that intersects bb. The box is
// clipped to the polar exclusion; a box lying wholly inside it is a range
// error.
func (m *Mapper) CellsForBBox(bb model.BBox, level int) (model.Cells, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	if !bb.Valid() {
		return nil, fmt.Errorf("bbox %s: %w", bb, griderr.ErrRange)
	}
	if level == 0 {
		return hemispheres(bb.Y1, bb.Y2)
	}
	var out []string
	err := m.walk(bb.X1, bb.Y1, bb.X2, bb.Y2, level, func(lng, lat float64) error {
		code, err := grid2d.Encode(grid2d.FromDecimal(lng, lat), level)
		if err != nil {
			return err
		}
		out = append(out, code)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finish(out), nil
}

// CellsForPolygon returns the cells at level whose centres lie inside a
// GeoJSON Polygon or MultiPolygon, holes excluded. A polygon too small to
// hold any centre is covered by the cell of its first vertex.
func (m *Mapper) CellsForPolygon(poly model.Polygon, level int) (model.Cells, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	g, err := parse(poly.GeoJSON)
	if err != nil {
		return nil, err
	}
	var polys []*geom.Polygon
	switch p := g.(type) {
	case *geom.Polygon:
		polys = []*geom.Polygon{p}
	case *geom.MultiPolygon:
		for i := 0; i < p.NumPolygons(); i++ {
			polys = append(polys, p.Polygon(i))
		}
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %T: %w", g, griderr.ErrFormat)
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("empty multipolygon: %w", griderr.ErrFormat)
	}
	for i, p := range polys {
		if p.NumLinearRings() == 0 {
			return nil, fmt.Errorf("polygon %d is empty: %w", i, griderr.ErrFormat)
		}
		for r := 0; r < p.NumLinearRings(); r++ {
			if p.LinearRing(r).NumCoords() < 4 {
				return nil, fmt.Errorf("polygon %d ring %d has < 4 vertices: %w", i, r, griderr.ErrFormat)
			}
		}
	}

	// hemispheres are resolved from level-1 cells
	walkLevel := max(level, 1)
	var out []string
	for _, p := range polys {
		b := p.Bounds()
		err := m.walk(b.Min(0), b.Min(1), b.Max(0), b.Max(1), walkLevel, func(lng, lat float64) error {
			if !inPolygon(p, geom.Coord{lng, lat}) {
				return nil
			}
			code, err := grid2d.Encode(grid2d.FromDecimal(lng, lat), level)
			if err != nil {
				return err
			}
			out = append(out, code)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		first := polys[0].LinearRing(0).Coord(0)
		code, err := grid2d.Encode(grid2d.FromDecimal(first.X(), first.Y()), level)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return finish(out), nil
}

func inPolygon(p *geom.Polygon, c geom.Coord) bool {
	layout := p.Layout()
	if !xy.IsPointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for r := 1; r < p.NumLinearRings(); r++ {
		if xy.IsPointInRing(layout, c, p.LinearRing(r).FlatCoords()) {
			return false
		}
	}
	return true
}

// CellsForLine returns the cells at level crossed by a GeoJSON LineString or
// MultiLineString, found by sampling each segment at half the cell size.
func (m *Mapper) CellsForLine(line model.LineString, level int) (model.Cells, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	parts, err := lineParts(line)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	err = m.sample(parts, max(level, 1), nil, func(c geom.Coord) error {
		code, err := grid2d.Encode(grid2d.FromDecimal(c.X(), c.Y()), level)
		if err != nil {
			return err
		}
		if _, ok := seen[code]; ok {
			return nil
		}
		if len(seen) >= m.MaxCells {
			return fmt.Errorf("line covers more than %d cells: %w", m.MaxCells, griderr.ErrRange)
		}
		seen[code] = struct{}{}
		out = append(out, code)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finish(out), nil
}

// ToParent returns the ancestor of code at a coarser or equal level.
func (m *Mapper) ToParent(code string, level int) (string, error) {
	if err := validateLevel(level); err != nil {
		return "", err
	}
	cur, err := grid2d.Level(code)
	if err != nil {
		return "", err
	}
	if level > cur {
		return "", fmt.Errorf("parent level %d finer than code level %d: %w", level, cur, griderr.ErrRange)
	}
	return grid2d.Shorten(code, level)
}

// ToChildren returns the descendants of code at a finer or equal level,
// sorted.
func (m *Mapper) ToChildren(code string, level int) (model.Cells, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	cur, err := grid2d.Level(code)
	if err != nil {
		return nil, err
	}
	if level < cur {
		return nil, fmt.Errorf("child level %d coarser than code level %d: %w", level, cur, griderr.ErrRange)
	}
	b, err := grid2d.CellBounds(code)
	if err != nil {
		return nil, err
	}
	if level == cur {
		s, err := grid2d.Shorten(code, cur)
		if err != nil {
			return nil, err
		}
		return model.Cells{s}, nil
	}
	// pull the box a quarter cell inside the parent so rounding in the
	// degree bounds cannot reach a neighbour
	lngSec, latSec, _ := grid2d.CellSize(level)
	qLng, qLat := lngSec/3600/4, latSec/3600/4
	var out []string
	err = m.walk(b.MinLng+qLng, b.MinLat+qLat, b.MaxLng-qLng, b.MaxLat-qLat, level, func(lng, lat float64) error {
		c, err := grid2d.Encode(grid2d.FromDecimal(lng, lat), level)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finish(out), nil
}

// walk calls fn with the centre of every level cell meeting the box, clipped
// to the polar exclusion. It refuses boxes with more than MaxCells cells
// before calling fn.
func (m *Mapper) walk(minLng, minLat, maxLng, maxLat float64, level int, fn func(lng, lat float64) error) error {
	lngSec, latSec, err := grid2d.CellSize(level)
	if err != nil {
		return err
	}
	minLng, maxLng = math.Max(minLng, -180), math.Min(maxLng, 180)
	minLat, maxLat = math.Max(minLat, -polarLimit), math.Min(maxLat, polarLimit)
	if minLat > maxLat || minLat >= polarLimit || maxLat <= -polarLimit {
		return fmt.Errorf("box lies in the polar exclusion: %w", griderr.ErrRange)
	}

	i0, i1 := cellSpan(minLng*3600, maxLng*3600, lngSec)
	j0, j1 := cellSpan(minLat*3600, maxLat*3600, latSec)
	// a box touching +180 would spill into the column past the antimeridian
	if lim := int64(math.Round(180*3600/lngSec)) - 1; i1 > lim {
		i1 = lim
	}
	if lim := int64(math.Round(polarLimit*3600/latSec)) - 1; j1 > lim {
		j1 = lim
	}
	if lim := -int64(math.Round(polarLimit * 3600 / latSec)); j0 < lim {
		j0 = lim
	}
	n := (i1 - i0 + 1) * (j1 - j0 + 1)
	if n > int64(m.MaxCells) {
		return fmt.Errorf("box spans %d cells at level %d, limit %d: %w", n, level, m.MaxCells, griderr.ErrRange)
	}
	for j := j0; j <= j1; j++ {
		lat := (float64(j) + 0.5) * latSec / 3600
		for i := i0; i <= i1; i++ {
			lng := (float64(i) + 0.5) * lngSec / 3600
			if err := fn(lng, lat); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellSpan returns the first and last cell index meeting [lo, hi]. A far
// edge exactly on a boundary does not pull in the next cell.
func cellSpan(lo, hi, size float64) (first, last int64) {
	first = int64(math.Floor(lo / size))
	last = int64(math.Ceil(hi/size)) - 1
	if last < first {
		last = first
	}
	return first, last
}

func hemispheres(minLat, maxLat float64) (model.Cells, error) {
	if minLat >= polarLimit || maxLat <= -polarLimit {
		return nil, fmt.Errorf("box lies in the polar exclusion: %w", griderr.ErrRange)
	}
	var out model.Cells
	if maxLat >= 0 {
		out = append(out, "N")
	}
	if minLat < 0 {
		out = append(out, "S")
	}
	return out, nil
}

func parse(doc string) (geom.T, error) {
	var g geom.T
	if err := geojson.Unmarshal([]byte(doc), &g); err != nil {
		return nil, fmt.Errorf("parse geojson: %w: %w", err, griderr.ErrFormat)
	}
	if g == nil {
		return nil, fmt.Errorf("empty geojson geometry: %w", griderr.ErrFormat)
	}
	return g, nil
}

func lineParts(line model.LineString) ([]*geom.LineString, error) {
	g, err := parse(line.GeoJSON)
	if err != nil {
		return nil, err
	}
	var parts []*geom.LineString
	switch l := g.(type) {
	case *geom.LineString:
		parts = []*geom.LineString{l}
	case *geom.MultiLineString:
		for i := 0; i < l.NumLineStrings(); i++ {
			parts = append(parts, l.LineString(i))
		}
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %T: %w", g, griderr.ErrFormat)
	}
	for i, p := range parts {
		if p.NumCoords() == 0 {
			return nil, fmt.Errorf("line %d is empty: %w", i, griderr.ErrFormat)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty multilinestring: %w", griderr.ErrFormat)
	}
	return parts, nil
}

// sample calls fn at every vertex and at points along each segment no
// further apart than half a level cell. density may ask for more points per
// segment. Extra ordinates (such as Z) are interpolated along with X and Y.
func (m *Mapper) sample(parts []*geom.LineString, level int, density func(a, b geom.Coord) int64, fn func(geom.Coord) error) error {
	lngSec, latSec, err := grid2d.CellSize(level)
	if err != nil {
		return err
	}
	step := math.Min(lngSec, latSec) / 3600 / 2
	budget := 8 * int64(m.MaxCells)

	for _, p := range parts {
		prev := p.Coord(0)
		if err := fn(prev); err != nil {
			return err
		}
		for k := 1; k < p.NumCoords(); k++ {
			next := p.Coord(k)
			d := math.Max(math.Abs(next.X()-prev.X()), math.Abs(next.Y()-prev.Y()))
			n := int64(math.Ceil(d / step))
			if density != nil {
				n = max(n, density(prev, next))
			}
			if budget -= n; budget < 0 {
				return fmt.Errorf("line needs too many samples at level %d: %w", level, griderr.ErrRange)
			}
			for s := int64(1); s <= n; s++ {
				t := float64(s) / float64(n)
				c := make(geom.Coord, len(prev))
				for o := range c {
					c[o] = prev[o] + (next[o]-prev[o])*t
				}
				if err := fn(c); err != nil {
					return err
				}
			}
			prev = next
		}
	}
	return nil
}

func validateLevel(level int) error {
	if level < 0 || level > grid2d.MaxLevel {
		return fmt.Errorf("grid level %d not in 0..%d: %w", level, grid2d.MaxLevel, griderr.ErrRange)
	}
	return nil
}

// finish sorts and de-duplicates a cell list.
func finish(cells []string) model.Cells {
	sort.Strings(cells)
	out := cells[:0]
	for _, c := range cells {
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}
