package elevation

import (
	"fmt"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

// Neighbor moves a code by offset cells at its own level (taken from its
// length). See NeighborAt.
func Neighbor(code string, offset int) (string, error) {
	level, err := Level(code)
	if err != nil {
		return "", err
	}
	return NeighborAt(code, offset, level)
}

// NeighborAt moves a code by offset cells of the given level. Offsets act on
// the magnitude, so positive moves away from the reference radius on either
// side of it. Overflow and underflow carry into coarser levels; a borrow out
// of level 1 crosses the ground and mirrors the magnitude onto the other sign.
// Digits finer than level are left as they are.
//
// The result is as long as the input, or as long as a level-`level` code if
// that is longer.
func NeighborAt(code string, offset, level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	d, err := parseDigits(code)
	if err != nil {
		return "", err
	}
	out := max(len(code), codeLengths[level])

	if level == 0 {
		v := d[0] + offset
		if v < 0 || v > 1 {
			return "", fmt.Errorf("elevation %q sign moved to %d: %w", code, v, griderr.ErrUnrepresentable)
		}
		d[0] = v
		return d.format(out), nil
	}

	carry := offset
	for i := level; i >= 1 && carry != 0; i-- {
		radix := levels[i].max() + 1
		v := d[i] + carry
		carry = floorDiv(v, radix)
		d[i] = v - carry*radix
	}
	switch {
	case carry == 0:
	case carry == -1:
		// the borrow passed the ground: mirror the magnitude onto the other side
		for i := 1; i <= level; i++ {
			d[i] = levels[i].max() - d[i]
		}
		d[0] = 1 - d[0]
	default:
		return "", fmt.Errorf("elevation %q moved by %d at level %d: %w", code, offset, level, griderr.ErrUnrepresentable)
	}
	return d.format(out), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
