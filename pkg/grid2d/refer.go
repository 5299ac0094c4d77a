package grid2d

import (
	"fmt"
	"strings"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const (
	// MinReferLevel is the coarsest level a reference code may have.
	MinReferLevel = 5
	// MaxReferOffset is the largest offset a reference token can express.
	MaxReferOffset = 7
	// DefaultSeparator joins reference tokens.
	DefaultSeparator = "-"
)

// Refer expresses target relative to reference:
//
//	<reference><sep><dx dy><sep><level+1 pair>...<sep><target level pair>
//
// Every token is two characters in geographic direction (east and north
// positive): '0'..'7' for non-negative values and 'A'..'G' for -1..-7. The
// first token is the cell offset at the reference level, the rest are the
// target's own digits below it.
func Refer(target, reference, sep string) (string, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	ref, err := parse(reference)
	if err != nil {
		return "", err
	}
	if ref.level < MinReferLevel {
		return "", fmt.Errorf("reference %q below level %d: %w", ref.code, MinReferLevel, griderr.ErrRange)
	}
	tgt, err := parse(target)
	if err != nil {
		return "", err
	}
	if tgt.level < ref.level {
		return "", fmt.Errorf("target %q coarser than reference %q: %w", tgt.code, ref.code, griderr.ErrRange)
	}
	dx, dy, err := GetOffset(ref.code, tgt.code)
	if err != nil {
		return "", err
	}
	dx *= ref.lngSign
	dy *= ref.latSign
	if abs(dx) > MaxReferOffset || abs(dy) > MaxReferOffset {
		return "", fmt.Errorf("target %q is (%d,%d) cells from %q: %w", tgt.code, dx, dy, ref.code, griderr.ErrOutOfWindow)
	}

	var b strings.Builder
	b.Grow(len(ref.code) + (tgt.level-ref.level+1)*(len(sep)+2))
	b.WriteString(ref.code)
	b.WriteString(sep)
	b.WriteByte(tokenChar(dx))
	b.WriteByte(tokenChar(dy))
	for n := ref.level + 1; n <= tgt.level; n++ {
		col, row, _ := parseFragment(fragment(tgt.code, n), n)
		b.WriteString(sep)
		b.WriteByte(tokenChar(col * ref.lngSign))
		b.WriteByte(tokenChar(row * ref.latSign))
	}
	return b.String(), nil
}

// ReferCoordinate encodes c at the finest level and refers it to reference.
func ReferCoordinate(c Coordinate, reference, sep string) (string, error) {
	code, err := Encode(c, MaxLevel)
	if err != nil {
		return "", err
	}
	return Refer(code, reference, sep)
}

// DeRefer expands a reference code back into the target code. Input without
// a separator is returned unchanged.
func DeRefer(code, sep string) (string, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := strings.Split(code, sep)
	if len(parts) == 1 {
		return code, nil
	}
	ref, err := parse(parts[0])
	if err != nil {
		return "", err
	}
	if ref.level < MinReferLevel {
		return "", fmt.Errorf("reference %q below level %d: %w", ref.code, MinReferLevel, griderr.ErrRange)
	}
	if level := ref.level + len(parts) - 2; level > MaxLevel {
		return "", fmt.Errorf("reference code %q resolves to level %d: %w", code, level, griderr.ErrLength)
	}

	dx, dy, err := parseToken(parts[1])
	if err != nil {
		return "", err
	}
	base, err := GetRelativeGrid(ref.code, dx*ref.lngSign, dy*ref.latSign)
	if err != nil {
		return "", err
	}
	buf := []byte(base)
	for i, tok := range parts[2:] {
		col, row, err := parseToken(tok)
		if err != nil {
			return "", err
		}
		if buf, err = appendFragment(buf, ref.level+1+i, col*ref.lngSign, row*ref.latSign); err != nil {
			return "", fmt.Errorf("token %q: %w", tok, err)
		}
	}
	return string(buf), nil
}

// ReferRange returns the area whose finest-level codes Refer can express
// against reference.
func ReferRange(reference string) (Bounds, error) {
	ref, err := parse(reference)
	if err != nil {
		return Bounds{}, err
	}
	if ref.level < MinReferLevel {
		return Bounds{}, fmt.Errorf("reference %q below level %d: %w", ref.code, MinReferLevel, griderr.ErrRange)
	}
	s := levels[ref.level]
	padLng := float64(MaxReferOffset*s.lng) / ticksPerDegree
	padLat := float64(MaxReferOffset*s.lat) / ticksPerDegree
	b := ref.bounds()
	b.MinLng -= padLng
	b.MaxLng += padLng
	b.MinLat -= padLat
	b.MaxLat += padLat
	return b, nil
}

func tokenChar(v int) byte {
	if v >= 0 {
		return byte('0' + v)
	}
	return byte('A' - 1 - v)
}

func parseToken(tok string) (x, y int, err error) {
	if len(tok) != 2 {
		return 0, 0, fmt.Errorf("reference token %q: %w", tok, griderr.ErrFormat)
	}
	if x, err = tokenValue(tok[0]); err != nil {
		return 0, 0, err
	}
	if y, err = tokenValue(tok[1]); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func tokenValue(c byte) (int, error) {
	switch {
	case c >= '0' && c <= '7':
		return int(c - '0'), nil
	case c >= 'A' && c <= 'G':
		return -int(c-'A') - 1, nil
	}
	return 0, fmt.Errorf("reference character %q not in 0-7 or A-G: %w", c, griderr.ErrFormat)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
