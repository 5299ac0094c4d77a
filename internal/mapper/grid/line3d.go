package gridmapper

import (
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/mohammed-shakir/beidou-grid/internal/core/model"
	"github.com/mohammed-shakir/beidou-grid/pkg/elevation"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

// Cell3D is a planar code and an elevation code of the same level.
type Cell3D struct {
	Planar    string
	Elevation string
}

// Cells3DForLine returns the 3D cells at level crossed by a GeoJSON line
// whose third ordinate is height in metres above radius. Lines without
// heights are taken to lie on the reference surface. Segments are sampled
// densely enough to visit every elevation cell between their ends.
func (m *Mapper) Cells3DForLine(line model.LineString, level int, radius float64) ([]Cell3D, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	parts, err := lineParts(line)
	if err != nil {
		return nil, err
	}
	span, err := elevation.CellSpan(level)
	if err != nil {
		return nil, err
	}

	var ferr error
	density := func(a, b geom.Coord) int64 {
		ia, err := elevation.Index(height(a), radius)
		if err != nil {
			ferr = err
			return 0
		}
		ib, err := elevation.Index(height(b), radius)
		if err != nil {
			ferr = err
			return 0
		}
		d := ia/span - ib/span
		if d < 0 {
			d = -d
		}
		return 2 * d
	}

	seen := map[Cell3D]struct{}{}
	var out []Cell3D
	err = m.sample(parts, max(level, 1), density, func(c geom.Coord) error {
		if ferr != nil {
			return ferr
		}
		planar, err := grid2d.Encode(grid2d.FromDecimal(c.X(), c.Y()), level)
		if err != nil {
			return err
		}
		ele, err := elevation.EncodeLevel(height(c), radius, level)
		if err != nil {
			return err
		}
		cell := Cell3D{Planar: planar, Elevation: ele}
		if _, ok := seen[cell]; ok {
			return nil
		}
		if len(seen) >= m.MaxCells {
			return fmt.Errorf("line covers more than %d cells: %w", m.MaxCells, griderr.ErrRange)
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
		return nil
	})
	if err == nil {
		err = ferr
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Planar != out[j].Planar {
			return out[i].Planar < out[j].Planar
		}
		return out[i].Elevation < out[j].Elevation
	})
	return out, nil
}

func height(c geom.Coord) float64 {
	if len(c) < 3 {
		return 0
	}
	return c[2]
}
