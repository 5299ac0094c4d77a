package gridcode

import (
	"time"

	"github.com/mohammed-shakir/beidou-grid/internal/core/model"
	"github.com/mohammed-shakir/beidou-grid/internal/core/observability"
	gridmapper "github.com/mohammed-shakir/beidou-grid/internal/mapper/grid"
)

type (
	BBox       = model.BBox
	Polygon    = model.Polygon
	LineString = model.LineString
	Cells      = model.Cells
	Cell3D     = gridmapper.Cell3D
)

func (s *Service) observeCover(op, shape string, start time.Time, n int, err error) {
	s.observe(op, "", start, err)
	if err == nil {
		observability.ObserveCoverCells(shape, n)
	}
}

// CellsForBBox returns the sorted cells at level meeting bb.
func (s *Service) CellsForBBox(bb BBox, level int) (out Cells, err error) {
	defer func(start time.Time) { s.observeCover(opCoverBBox, "bbox", start, len(out), err) }(time.Now())
	return s.grid.CellsForBBox(bb, level)
}

// CellsForPolygon returns the sorted cells at level whose centres fall in a
// GeoJSON Polygon or MultiPolygon.
func (s *Service) CellsForPolygon(poly Polygon, level int) (out Cells, err error) {
	defer func(start time.Time) { s.observeCover(opCoverPolygon, "polygon", start, len(out), err) }(time.Now())
	return s.grid.CellsForPolygon(poly, level)
}

// CellsForLine returns the sorted cells at level crossed by a GeoJSON line.
func (s *Service) CellsForLine(line LineString, level int) (out Cells, err error) {
	defer func(start time.Time) { s.observeCover(opCoverLine, "line", start, len(out), err) }(time.Now())
	return s.grid.CellsForLine(line, level)
}

// Cells3DForLine returns the planar and elevation cells at level crossed by
// a GeoJSON line carrying heights as its third ordinate.
func (s *Service) Cells3DForLine(line LineString, level int) (out []Cell3D, err error) {
	defer func(start time.Time) { s.observeCover(opCoverLine3D, "line_3d", start, len(out), err) }(time.Now())
	return s.grid.Cells3DForLine(line, level, s.cfg.ReferenceRadius)
}

func (s *Service) ToParent(code string, level int) (out string, err error) {
	defer func(start time.Time) { s.observe(opParent, code, start, err) }(time.Now())
	return s.grid.ToParent(code, level)
}

func (s *Service) ToChildren(code string, level int) (out Cells, err error) {
	defer func(start time.Time) { s.observe(opChildren, code, start, err) }(time.Now())
	return s.grid.ToChildren(code, level)
}

// ToH3 returns the H3 cell at the configured resolution holding a cell's
// centre.
func (s *Service) ToH3(code string) (string, error) {
	return s.ToH3Res(code, s.cfg.H3Res)
}

func (s *Service) ToH3Res(code string, res int) (out string, err error) {
	defer func(start time.Time) { s.observe(opToH3, code, start, err) }(time.Now())
	return s.h3.ToH3(code, res)
}

// FromH3 returns the grid code at level holding an H3 cell's centre.
func (s *Service) FromH3(cell string, level int) (out string, err error) {
	defer func(start time.Time) { s.observe(opFromH3, cell, start, err) }(time.Now())
	return s.h3.FromH3(cell, level)
}

// CoverH3 returns the H3 cells at the configured resolution inside a grid
// cell.
func (s *Service) CoverH3(code string) (out Cells, err error) {
	defer func(start time.Time) { s.observeCover(opCoverH3, "h3", start, len(out), err) }(time.Now())
	return s.h3.CoverCell(code, s.cfg.H3Res)
}
