// Package grid3d joins a level-10 planar code and a full elevation code into
// one 32-character spatial code.
package grid3d

import (
	"fmt"

	"github.com/mohammed-shakir/beidou-grid/pkg/elevation"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const (
	planarLength = 20
	// Length is the length of a combined code.
	Length = planarLength + elevation.Length
)

// CoordinateWithElevation is a planar coordinate plus a height in metres
// above the reference radius.
type CoordinateWithElevation struct {
	grid2d.Coordinate
	Elevation float64
}

// Box is the extent of one 3D cell. MinElevation is inclusive and
// MaxElevation exclusive.
type Box struct {
	grid2d.Bounds
	MinElevation float64
	MaxElevation float64
}

// Encode returns the 32-character code of c against radius r.
func Encode(c CoordinateWithElevation, r float64) (string, error) {
	planar, err := grid2d.Encode(c.Coordinate, grid2d.MaxLevel)
	if err != nil {
		return "", err
	}
	ele, err := elevation.Encode(c.Elevation, r)
	if err != nil {
		return "", err
	}
	return planar + ele, nil
}

// Decode splits a combined code and decodes both halves.
func Decode(code string, form grid2d.Form, r float64) (CoordinateWithElevation, error) {
	planar, ele, err := Split(code)
	if err != nil {
		return CoordinateWithElevation{}, err
	}
	c, err := grid2d.Decode(planar, form)
	if err != nil {
		return CoordinateWithElevation{}, err
	}
	h, err := elevation.Decode(ele, r)
	if err != nil {
		return CoordinateWithElevation{}, err
	}
	return CoordinateWithElevation{Coordinate: c, Elevation: h}, nil
}

// Split returns the planar and elevation halves of a combined code.
func Split(code string) (planar, ele string, err error) {
	if len(code) != Length {
		return "", "", fmt.Errorf("3d code %q has length %d, want %d: %w", code, len(code), Length, griderr.ErrLength)
	}
	return code[:planarLength], code[planarLength:], nil
}

// CellBox returns the extent of a combined code's cell against radius r.
func CellBox(code string, r float64) (Box, error) {
	planar, ele, err := Split(code)
	if err != nil {
		return Box{}, err
	}
	b, err := grid2d.CellBounds(planar)
	if err != nil {
		return Box{}, err
	}
	lo, hi, err := ElevationRange(ele, r)
	if err != nil {
		return Box{}, err
	}
	return Box{Bounds: b, MinElevation: lo, MaxElevation: hi}, nil
}

// ElevationRange returns the lower and upper face heights of an elevation
// cell of any level. Below ground the magnitude grows downward, so a code
// with sign 1 and magnitude m covers indices -(m+span-1) through -m.
func ElevationRange(ele string, r float64) (lo, hi float64, err error) {
	if !(r > 0) {
		return 0, 0, fmt.Errorf("radius %v: %w", r, griderr.ErrRange)
	}
	n, err := elevation.CodeIndex(ele)
	if err != nil {
		return 0, 0, err
	}
	level, _ := elevation.Level(ele)
	span, err := elevation.CellSpan(level)
	if err != nil {
		return 0, 0, err
	}
	first, last := n, n+span-1
	if ele[0] == '1' {
		first, last = n-span+1, n
	}
	return elevation.Height(first, r), elevation.Height(last+1, r), nil
}

// Neighbors returns the 27 codes of the 3x3x3 block centred on code. Planar
// neighbours vary slowest and elevation fastest (-1, 0, +1), so the input
// code sits at index 13. Elevation steps that cannot be represented are
// reported as an error.
func Neighbors(code string) ([]string, error) {
	planar, ele, err := Split(code)
	if err != nil {
		return nil, err
	}
	ring, err := grid2d.GetNeighbors(planar)
	if err != nil {
		return nil, err
	}
	column := make([]string, 0, 3)
	for _, step := range []int{-1, 0, 1} {
		e := ele
		if step != 0 {
			if e, err = elevation.Neighbor(ele, step); err != nil {
				return nil, err
			}
		}
		column = append(column, e)
	}
	out := make([]string, 0, len(ring)*len(column))
	for _, p := range ring {
		for _, e := range column {
			out = append(out, p+e)
		}
	}
	return out, nil
}
