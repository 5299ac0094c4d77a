package gridcode

import (
	"time"

	"github.com/mohammed-shakir/beidou-grid/internal/core/observability"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
)

const (
	opEncode       = "encode"
	opDecode       = "decode"
	opBounds       = "bounds"
	opRefer        = "refer"
	opReferRange   = "refer_range"
	opDeRefer      = "derefer"
	opNeighbors    = "neighbors"
	opRelative     = "relative_grid"
	opOffset       = "offset"
	opEncode3D     = "encode_3d"
	opDecode3D     = "decode_3d"
	opNeighbors3D  = "neighbors_3d"
	opBox3D        = "box_3d"
	opEncodeHeight = "encode_elevation"
	opDecodeHeight = "decode_elevation"
	opHeightStep   = "elevation_neighbor"
	opCoverBBox    = "cover_bbox"
	opCoverPolygon = "cover_polygon"
	opCoverLine    = "cover_line"
	opCoverLine3D  = "cover_line_3d"
	opParent       = "parent"
	opChildren     = "children"
	opToH3         = "to_h3"
	opFromH3       = "from_h3"
	opCoverH3      = "cover_h3"
)

// observe records an operation's outcome and latency, and logs failures.
func (s *Service) observe(op, subject string, start time.Time, err error) {
	observability.ObserveOp(op, err, time.Since(start).Seconds())
	if err != nil {
		s.log.Debug().Str("op", op).Str("code", subject).Err(err).Msg("grid operation failed")
	}
}

// Encode returns the code of c at the configured default level.
func (s *Service) Encode(c grid2d.Coordinate) (string, error) {
	return s.EncodeLevel(c, s.cfg.DefaultLevel)
}

func (s *Service) EncodeLevel(c grid2d.Coordinate, level int) (code string, err error) {
	defer func(start time.Time) { s.observe(opEncode, "", start, err) }(time.Now())
	return grid2d.Encode(c, level)
}

// Decode returns the cell corner nearest the origin. Results are cached per
// code and form.
func (s *Service) Decode(code string, form grid2d.Form) (c grid2d.Coordinate, err error) {
	defer func(start time.Time) { s.observe(opDecode, code, start, err) }(time.Now())
	return s.decodePlanar(code, form)
}

func (s *Service) decodePlanar(code string, form grid2d.Form) (grid2d.Coordinate, error) {
	return s.decoded.GetOrLoad(opDecode, formVariant(form), code, func() (grid2d.Coordinate, error) {
		return grid2d.Decode(code, form)
	})
}

func formVariant(f grid2d.Form) string {
	if f == grid2d.FormDMS {
		return "dms"
	}
	return "decimal"
}

// Bounds returns a cell's extent in decimal degrees.
func (s *Service) Bounds(code string) (b grid2d.Bounds, err error) {
	defer func(start time.Time) { s.observe(opBounds, code, start, err) }(time.Now())
	return grid2d.CellBounds(code)
}

// Refer writes target relative to reference with the configured separator.
func (s *Service) Refer(target, reference string) (code string, err error) {
	defer func(start time.Time) { s.observe(opRefer, target, start, err) }(time.Now())
	return grid2d.Refer(target, reference, s.cfg.ReferSeparator)
}

// ReferCoordinate encodes c at level 10 and writes it relative to reference.
func (s *Service) ReferCoordinate(c grid2d.Coordinate, reference string) (code string, err error) {
	defer func(start time.Time) { s.observe(opRefer, reference, start, err) }(time.Now())
	return grid2d.ReferCoordinate(c, reference, s.cfg.ReferSeparator)
}

func (s *Service) DeRefer(code string) (out string, err error) {
	defer func(start time.Time) { s.observe(opDeRefer, code, start, err) }(time.Now())
	return grid2d.DeRefer(code, s.cfg.ReferSeparator)
}

// ReferRange returns the area a reference cell can address.
func (s *Service) ReferRange(reference string) (b grid2d.Bounds, err error) {
	defer func(start time.Time) { s.observe(opReferRange, reference, start, err) }(time.Now())
	return grid2d.ReferRange(reference)
}

func (s *Service) Neighbors(code string) (out []string, err error) {
	defer func(start time.Time) { s.observe(opNeighbors, code, start, err) }(time.Now())
	return grid2d.GetNeighbors(code)
}

func (s *Service) RelativeGrid(code string, dx, dy int) (out string, err error) {
	defer func(start time.Time) { s.observe(opRelative, code, start, err) }(time.Now())
	return grid2d.GetRelativeGrid(code, dx, dy)
}

func (s *Service) Offset(reference, target string) (dx, dy int, err error) {
	defer func(start time.Time) { s.observe(opOffset, target, start, err) }(time.Now())
	return grid2d.GetOffset(reference, target)
}
