// Package grid2d implements the planar grid location code: a hemisphere
// flag followed by up to ten levels of subdivision, each level spelled in its
// own digit grammar.
//
// From level 2 on both axes are mirrored into the north-east quadrant, so a
// cell's digits are magnitudes measured away from the equator and the prime
// meridian. Only the hemisphere letter and the level-1 column code carry the
// sign.
package grid2d

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

// cell is a parsed planar code.
type cell struct {
	code    string // upper case
	level   int
	lngSign int
	latSign int
	lng     int64 // corner magnitude nearest the origin, in ticks
	lat     int64
}

// Level returns the level of a code, which depends only on its length.
func Level(code string) (int, error) {
	for n, l := range codeLengths {
		if len(code) == l {
			return n, nil
		}
	}
	return -1, fmt.Errorf("code %q has length %d: %w", code, len(code), griderr.ErrLength)
}

func parse(code string) (cell, error) {
	code = strings.ToUpper(code)
	level, err := Level(code)
	if err != nil {
		return cell{}, err
	}
	c := cell{code: code, level: level, lngSign: 1, latSign: 1}
	switch code[0] {
	case 'N':
	case 'S':
		c.latSign = -1
	default:
		return cell{}, fmt.Errorf("code %q hemisphere %q: %w", code, code[0], griderr.ErrFormat)
	}
	for n := 1; n <= level; n++ {
		col, row, err := parseFragment(fragment(code, n), n)
		if err != nil {
			return cell{}, fmt.Errorf("code %q: %w", code, err)
		}
		if n == 1 {
			if col >= eastBase {
				col -= eastBase
			} else {
				c.lngSign = -1
				col = eastBase - 1 - col
			}
		}
		c.lng += int64(col) * levels[n].lng
		c.lat += int64(row) * levels[n].lat
	}
	return c, nil
}

// Encode returns the code of the level-`level` cell containing c.
func Encode(c Coordinate, level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	if err := c.validate(); err != nil {
		return "", err
	}
	lng, lat := c.ArcSeconds()
	return encodeSeconds(lng, lat, level)
}

func encodeSeconds(lng, lat float64, level int) (string, error) {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.Abs(lng) > 180*3600 {
		return "", fmt.Errorf("longitude %v: %w", lng/3600, griderr.ErrRange)
	}
	if math.Abs(lat) >= polarLimit {
		return "", fmt.Errorf("latitude %v inside polar exclusion: %w", lat/3600, griderr.ErrRange)
	}
	if lng == 180*3600 {
		lng = -lng
	}

	buf := make([]byte, 0, codeLengths[level])
	if lat >= 0 {
		buf = append(buf, 'N')
	} else {
		buf = append(buf, 'S')
	}
	east := lng >= 0
	// mirrored into the north-east quadrant from here on
	lngT := int64(math.Floor(math.Abs(lng) * ticksPerSecond))
	latT := int64(math.Floor(math.Abs(lat) * ticksPerSecond))

	var err error
	for n := 1; n <= level; n++ {
		s := levels[n]
		col, row := lngT/s.lng, latT/s.lat
		lngT -= col * s.lng
		latT -= row * s.lat
		if n == 1 {
			if east {
				col = eastBase + col
			} else {
				col = eastBase - 1 - col
			}
		}
		if buf, err = appendFragment(buf, n, int(col), int(row)); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

// Decode returns the corner of the cell nearest the origin, that is the
// south-west corner in the north-east quadrant and its mirror elsewhere.
func Decode(code string, form Form) (Coordinate, error) {
	c, err := parse(code)
	if err != nil {
		return Coordinate{}, err
	}
	return c.coordinate(form), nil
}

func (c cell) coordinate(form Form) Coordinate {
	if form == FormDecimal {
		return Coordinate{
			LngDegree: float64(int64(c.lngSign)*c.lng) / ticksPerDegree,
			LatDegree: float64(int64(c.latSign)*c.lat) / ticksPerDegree,
		}
	}
	out := Coordinate{LngDirection: East, LatDirection: North}
	if c.lngSign < 0 {
		out.LngDirection = West
	}
	if c.latSign < 0 {
		out.LatDirection = South
	}
	out.LngDegree, out.LngMinute, out.LngSecond = splitDMS(c.lng)
	out.LatDegree, out.LatMinute, out.LatSecond = splitDMS(c.lat)
	return out
}

func splitDMS(t int64) (deg, minute, second float64) {
	deg = float64(t / ticksPerDegree)
	t %= ticksPerDegree
	minute = float64(t / ticksPerMinute)
	t %= ticksPerMinute
	return deg, minute, float64(t) / ticksPerSecond
}

// Shorten truncates a code to level. Codes at or above that level come back
// unchanged (upper-cased).
func Shorten(code string, level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	c, err := parse(code)
	if err != nil {
		return "", err
	}
	if c.level <= level {
		return c.code, nil
	}
	return c.code[:codeLengths[level]], nil
}

// Bounds is a cell extent in signed decimal degrees.
type Bounds struct {
	MinLng, MinLat float64
	MaxLng, MaxLat float64
}

// Center returns the midpoint.
func (b Bounds) Center() (lng, lat float64) {
	return (b.MinLng + b.MaxLng) / 2, (b.MinLat + b.MaxLat) / 2
}

// Contains reports whether (lng,lat) lies inside or on the edge of b.
func (b Bounds) Contains(lng, lat float64) bool {
	return lng >= b.MinLng && lng <= b.MaxLng && lat >= b.MinLat && lat <= b.MaxLat
}

// CellBounds returns the extent of a code's cell. A level-0 code covers its
// whole hemisphere up to the polar exclusion.
func CellBounds(code string) (Bounds, error) {
	c, err := parse(code)
	if err != nil {
		return Bounds{}, err
	}
	return c.bounds(), nil
}

func (c cell) bounds() Bounds {
	if c.level == 0 {
		b := Bounds{MinLng: -180, MaxLng: 180, MaxLat: polarLimit / 3600}
		if c.latSign < 0 {
			b.MinLat, b.MaxLat = -b.MaxLat, 0
		}
		return b
	}
	s := levels[c.level]
	minLng, maxLng := axisRange(c.lng, s.lng, c.lngSign)
	minLat, maxLat := axisRange(c.lat, s.lat, c.latSign)
	return Bounds{MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat}
}

func axisRange(corner, size int64, sign int) (lo, hi float64) {
	lo = float64(corner) / ticksPerDegree
	hi = float64(corner+size) / ticksPerDegree
	if sign < 0 {
		return -hi, -lo
	}
	return lo, hi
}

// Center returns the centre of a code's cell in signed decimal degrees.
func Center(code string) (lng, lat float64, err error) {
	b, err := CellBounds(code)
	if err != nil {
		return 0, 0, err
	}
	lng, lat = b.Center()
	return lng, lat, nil
}
