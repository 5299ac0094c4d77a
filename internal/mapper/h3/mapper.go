// Package h3mapper cross-indexes planar grid codes with H3 cells.
package h3mapper

import (
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/beidou-grid/internal/core/model"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

type Mapper struct{}

func New() *Mapper { return &Mapper{} }

// ToH3 returns the H3 cell at res holding the centre of a grid cell.
func (m *Mapper) ToH3(code string, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	lng, lat, err := grid2d.Center(code)
	if err != nil {
		return "", err
	}
	c, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lng}, res)
	if err != nil {
		return "", fmt.Errorf("h3 index of %q: %w", code, err)
	}
	return c.String(), nil
}

// FromH3 returns the grid code at level holding the centre of an H3 cell.
func (m *Mapper) FromH3(cell string, level int) (string, error) {
	c, err := parseCell(cell)
	if err != nil {
		return "", err
	}
	ll, err := h3.CellToLatLng(c)
	if err != nil {
		return "", fmt.Errorf("h3 centre of %q: %w", cell, err)
	}
	return grid2d.Encode(grid2d.FromDecimal(ll.Lng, ll.Lat), level)
}

// CoverCell returns the H3 cells at res whose centres lie in a grid cell,
// sorted. A grid cell smaller than an H3 cell yields the one H3 cell holding
// its centre.
func (m *Mapper) CoverCell(code string, res int) (model.Cells, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	b, err := grid2d.CellBounds(code)
	if err != nil {
		return nil, err
	}
	outer := h3.GeoLoop{
		{Lat: b.MinLat, Lng: b.MinLng},
		{Lat: b.MinLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MinLng},
	}
	cells, err := polyfill(outer, res)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		c, err := m.ToH3(code, res)
		if err != nil {
			return nil, err
		}
		cells = model.Cells{c}
	}
	return cells, nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15): %w", res, griderr.ErrRange)
	}
	return nil
}

func parseCell(s string) (h3.Cell, error) {
	var c h3.Cell
	if err := c.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parse h3 cell %q: %w: %w", s, err, griderr.ErrFormat)
	}
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid h3 cell %q: %w", s, griderr.ErrFormat)
	}
	return c, nil
}

// polyfill computes unique cells and returns them sorted for determinism.
func polyfill(outer h3.GeoLoop, res int) (model.Cells, error) {
	indexes, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: outer}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	out := make([]string, 0, len(indexes))
	seen := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
