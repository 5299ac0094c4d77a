package gridcode

import (
	"time"

	"github.com/mohammed-shakir/beidou-grid/pkg/elevation"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid3d"
)

// EncodeElevation returns the 12-character code of height h against the
// configured reference radius.
func (s *Service) EncodeElevation(h float64) (code string, err error) {
	defer func(start time.Time) { s.observe(opEncodeHeight, "", start, err) }(time.Now())
	return elevation.Encode(h, s.cfg.ReferenceRadius)
}

// DecodeElevation returns the lower face height of an elevation code.
// Results are cached per code and radius.
func (s *Service) DecodeElevation(code string) (h float64, err error) {
	defer func(start time.Time) { s.observe(opDecodeHeight, code, start, err) }(time.Now())
	return s.decodeHeight(code)
}

func (s *Service) decodeHeight(code string) (float64, error) {
	r := s.cfg.ReferenceRadius
	return s.heights.GetOrLoad(opDecodeHeight, radiusVariant(r), code, func() (float64, error) {
		return elevation.Decode(code, r)
	})
}

// ElevationNeighbor moves an elevation code by offset cells of its own level.
func (s *Service) ElevationNeighbor(code string, offset int) (out string, err error) {
	defer func(start time.Time) { s.observe(opHeightStep, code, start, err) }(time.Now())
	return elevation.Neighbor(code, offset)
}

// ElevationNeighborAt moves an elevation code by offset cells of level.
func (s *Service) ElevationNeighborAt(code string, offset, level int) (out string, err error) {
	defer func(start time.Time) { s.observe(opHeightStep, code, start, err) }(time.Now())
	return elevation.NeighborAt(code, offset, level)
}

func (s *Service) Encode3D(c grid3d.CoordinateWithElevation) (code string, err error) {
	defer func(start time.Time) { s.observe(opEncode3D, "", start, err) }(time.Now())
	return grid3d.Encode(c, s.cfg.ReferenceRadius)
}

// Decode3D decodes both halves of a 32-character code through the decode
// caches. Only decode_3d is recorded.
func (s *Service) Decode3D(code string, form grid2d.Form) (c grid3d.CoordinateWithElevation, err error) {
	defer func(start time.Time) { s.observe(opDecode3D, code, start, err) }(time.Now())
	planar, ele, err := grid3d.Split(code)
	if err != nil {
		return c, err
	}
	pc, err := s.decodePlanar(planar, form)
	if err != nil {
		return c, err
	}
	h, err := s.decodeHeight(ele)
	if err != nil {
		return c, err
	}
	return grid3d.CoordinateWithElevation{Coordinate: pc, Elevation: h}, nil
}

func (s *Service) Box3D(code string) (b grid3d.Box, err error) {
	defer func(start time.Time) { s.observe(opBox3D, code, start, err) }(time.Now())
	return grid3d.CellBox(code, s.cfg.ReferenceRadius)
}

func (s *Service) Neighbors3D(code string) (out []string, err error) {
	defer func(start time.Time) { s.observe(opNeighbors3D, code, start, err) }(time.Now())
	return grid3d.Neighbors(code)
}
