package grid2d

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

type Direction string

const (
	East  Direction = "E"
	West  Direction = "W"
	North Direction = "N"
	South Direction = "S"
)

// Form selects how Decode spells the coordinate.
type Form int

const (
	// FormDecimal yields signed decimal degrees in LngDegree/LatDegree.
	FormDecimal Form = iota
	// FormDMS yields non-negative degree/minute/second parts plus directions.
	FormDMS
)

// Coordinate is a longitude/latitude pair. Minutes and seconds default to
// zero. When a direction is empty the sign of the degree field decides the
// hemisphere; otherwise the direction does and the degree is taken as a
// magnitude.
type Coordinate struct {
	LngDegree    float64
	LngMinute    float64
	LngSecond    float64
	LngDirection Direction

	LatDegree    float64
	LatMinute    float64
	LatSecond    float64
	LatDirection Direction
}

// FromDecimal builds a coordinate from signed decimal degrees.
func FromDecimal(lng, lat float64) Coordinate {
	return Coordinate{LngDegree: lng, LatDegree: lat}
}

// ArcSeconds returns the signed totals of both axes in arc-seconds.
func (c Coordinate) ArcSeconds() (lng, lat float64) {
	lng = axisSeconds(c.LngDegree, c.LngMinute, c.LngSecond, c.LngDirection, West)
	lat = axisSeconds(c.LatDegree, c.LatMinute, c.LatSecond, c.LatDirection, South)
	return lng, lat
}

// Decimal returns signed decimal degrees.
func (c Coordinate) Decimal() (lng, lat float64) {
	lng, lat = c.ArcSeconds()
	return lng / 3600, lat / 3600
}

func (c Coordinate) validate() error {
	switch Direction(strings.ToUpper(string(c.LngDirection))) {
	case "", East, West:
	default:
		return fmt.Errorf("longitude direction %q: %w", c.LngDirection, griderr.ErrFormat)
	}
	switch Direction(strings.ToUpper(string(c.LatDirection))) {
	case "", North, South:
	default:
		return fmt.Errorf("latitude direction %q: %w", c.LatDirection, griderr.ErrFormat)
	}
	return nil
}

func axisSeconds(deg, minute, second float64, dir, negative Direction) float64 {
	mag := math.Abs(deg)*3600 + minute*60 + second
	d := Direction(strings.ToUpper(string(dir)))
	switch {
	case d == negative:
		return -mag
	case d == "" && math.Signbit(deg):
		return -mag
	}
	return mag
}
