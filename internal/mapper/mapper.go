// Package mapper turns shapes into the grid cells that cover them.
package mapper

import (
	"github.com/mohammed-shakir/beidou-grid/internal/core/model"
)

// Interface is implemented by the planar grid mapper. Levels are planar grid
// levels; out-of-range levels are range errors.
type Interface interface {
	CellsForBBox(bb model.BBox, level int) (model.Cells, error)
	CellsForPolygon(poly model.Polygon, level int) (model.Cells, error)
	CellsForLine(line model.LineString, level int) (model.Cells, error)
	ToParent(code string, level int) (string, error)
	ToChildren(code string, level int) (model.Cells, error)
}
