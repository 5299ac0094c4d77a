package grid2d

import (
	"fmt"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const fullTurn int64 = 360 * ticksPerDegree

// GetOffset returns how many cells target lies from reference at the
// reference's level, along the reference's hemisphere-oriented axes: positive
// x points away from the prime meridian and positive y away from the equator.
// A finer target is first shortened to the reference level.
func GetOffset(reference, target string) (dx, dy int, err error) {
	ref, err := parse(reference)
	if err != nil {
		return 0, 0, err
	}
	tgt, err := parse(target)
	if err != nil {
		return 0, 0, err
	}
	if ref.level == 0 {
		return 0, 0, fmt.Errorf("offset of hemisphere code %q: %w", ref.code, griderr.ErrRange)
	}
	if tgt.level < ref.level {
		return 0, 0, fmt.Errorf("target %q coarser than reference %q: %w", tgt.code, ref.code, griderr.ErrRange)
	}
	if tgt.level > ref.level {
		if tgt, err = parse(tgt.code[:codeLengths[ref.level]]); err != nil {
			return 0, 0, err
		}
	}
	n := ref.level

	// same parent: plain digit subtraction
	if n >= 2 && ref.code[:codeLengths[n-1]] == tgt.code[:codeLengths[n-1]] {
		rc, rr, _ := parseFragment(fragment(ref.code, n), n)
		tc, tr, _ := parseFragment(fragment(tgt.code, n), n)
		return tc - rc, tr - rr, nil
	}

	// different parents: compare signed cell centres
	s := levels[n]
	dLng := tgt.centerLng2() - ref.centerLng2()
	switch {
	case dLng > fullTurn:
		dLng -= 2 * fullTurn
	case dLng < -fullTurn:
		dLng += 2 * fullTurn
	}
	dLat := tgt.centerLat2() - ref.centerLat2()
	dx = int(floorDiv(dLng, 2*s.lng)) * ref.lngSign
	dy = int(floorDiv(dLat, 2*s.lat)) * ref.latSign
	return dx, dy, nil
}

// centre coordinates are kept doubled so half a level-10 cell stays integral
func (c cell) centerLng2() int64 {
	return int64(c.lngSign) * (2*c.lng + levels[c.level].lng)
}

func (c cell) centerLat2() int64 {
	return int64(c.latSign) * (2*c.lat + levels[c.level].lat)
}

// GetRelativeGrid returns the same-level cell offset from code by (dx,dy)
// along the code's hemisphere-oriented axes. Moves that stay inside the
// parent cell are digit arithmetic; anything else goes through the shifted
// cell centre, which lets the result cross parents, hemispheres and the
// antimeridian.
func GetRelativeGrid(code string, dx, dy int) (string, error) {
	c, err := parse(code)
	if err != nil {
		return "", err
	}
	if dx == 0 && dy == 0 {
		return c.code, nil
	}
	if c.level == 0 {
		return "", fmt.Errorf("relative grid of hemisphere code %q: %w", c.code, griderr.ErrRange)
	}
	n := c.level
	s := levels[n]

	if n >= 2 {
		col, row, _ := parseFragment(fragment(c.code, n), n)
		nc, nr := col+dx, row+dy
		if checkCell(n, nc, nr) == nil {
			buf := []byte(c.code[:codeLengths[n-1]])
			if buf, err = appendFragment(buf, n, nc, nr); err != nil {
				return "", err
			}
			return string(buf), nil
		}
	}

	lng2 := int64(c.lngSign) * (2*c.lng + s.lng + 2*int64(dx)*s.lng)
	lat2 := int64(c.latSign) * (2*c.lat + s.lat + 2*int64(dy)*s.lat)
	lng2 = wrapLng2(lng2)
	out, err := encodeSeconds(float64(lng2)/(2*ticksPerSecond), float64(lat2)/(2*ticksPerSecond), n)
	if err != nil {
		return "", fmt.Errorf("relative grid of %q by (%d,%d): %w", c.code, dx, dy, err)
	}
	return out, nil
}

// GetNeighbors returns the 3x3 block around code, including code itself at
// index 4. Entries are ordered by dx then dy, each running -1, 0, 1.
func GetNeighbors(code string) ([]string, error) {
	out := make([]string, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			g, err := GetRelativeGrid(code, dx, dy)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
	}
	return out, nil
}

// wrapLng2 folds a doubled longitude into [-180°, 180°).
func wrapLng2(v int64) int64 {
	half := fullTurn // 180° doubled
	v = (v + half) % (2 * fullTurn)
	if v < 0 {
		v += 2 * fullTurn
	}
	return v - half
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
