// Package elevation implements the 12-character elevation code. Heights map
// to a signed grid index on a geometric scale anchored at a reference radius,
// so cells grow with altitude. The index magnitude is split into fixed bit
// groups, one per level, each written in that level's radix.
package elevation

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

// digits holds one value per level; index 0 is the sign (1 means below the
// reference radius) and index 1 is the combined 0..63 level-1 field.
type digits [MaxLevel + 1]int

// Encode returns the full elevation code of height h metres above radius r.
func Encode(h, r float64) (string, error) {
	return EncodeLevel(h, r, MaxLevel)
}

// EncodeLevel returns the elevation code of h truncated to level.
func EncodeLevel(h, r float64, level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	n, err := Index(h, r)
	if err != nil {
		return "", err
	}
	code, err := FromIndex(n)
	if err != nil {
		return "", err
	}
	return code[:codeLengths[level]], nil
}

// Index returns the signed grid index of height h above radius r.
func Index(h, r float64) (int64, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) || !(r > 0) || h+r <= 0 {
		return 0, fmt.Errorf("height %v at radius %v: %w", h, r, griderr.ErrRange)
	}
	n := math.Floor(theta0 / theta * math.Log((h+r)/r) / logBase)
	if math.Abs(n) > 1<<magnitudeBits-1 {
		return 0, fmt.Errorf("height %v needs index %v: %w", h, n, griderr.ErrRange)
	}
	return int64(n), nil
}

// Height inverts Index: the height of the lower face of cell n.
func Height(n int64, r float64) float64 {
	return r*math.Pow(1+theta0*math.Pi/180, float64(n)*theta/theta0) - r
}

// FromIndex returns the full code of grid index n.
func FromIndex(n int64) (string, error) {
	var d digits
	if n < 0 {
		d[0] = 1
		n = -n
	}
	if n > 1<<magnitudeBits-1 {
		return "", fmt.Errorf("index %d exceeds %d bits: %w", n, magnitudeBits, griderr.ErrRange)
	}
	shift := uint(magnitudeBits)
	for i := 1; i <= MaxLevel; i++ {
		s := levels[i]
		shift -= s.bits
		d[i] = int(n>>shift) & s.max()
	}
	return d.format(Length), nil
}

// Decode returns the height of the lower face of a code's cell. Short codes
// are read as if their missing levels were zero.
func Decode(code string, r float64) (float64, error) {
	if !(r > 0) {
		return 0, fmt.Errorf("radius %v: %w", r, griderr.ErrRange)
	}
	n, err := CodeIndex(code)
	if err != nil {
		return 0, err
	}
	return Height(n, r), nil
}

// CodeIndex returns the signed grid index a code spells.
func CodeIndex(code string) (int64, error) {
	d, err := parseDigits(code)
	if err != nil {
		return 0, err
	}
	return d.index(), nil
}

func (d digits) index() int64 {
	var n int64
	for i := 1; i <= MaxLevel; i++ {
		n = n<<levels[i].bits | int64(d[i])
	}
	if d[0] == 1 {
		return -n
	}
	return n
}

func parseDigits(code string) (digits, error) {
	var d digits
	if _, err := Level(code); err != nil {
		return d, err
	}
	code = strings.ToUpper(code) + strings.Repeat("0", Length-len(code))

	switch code[0] {
	case '0', '1':
		d[0] = int(code[0] - '0')
	default:
		return d, fmt.Errorf("elevation sign %q: %w", code[0], griderr.ErrFormat)
	}
	hi, ok0 := digitValue(code[1], 10)
	lo, ok1 := digitValue(code[2], 10)
	if !ok0 || !ok1 {
		return d, fmt.Errorf("elevation level 1 field %q: %w", code[1:3], griderr.ErrFormat)
	}
	if d[1] = hi*10 + lo; d[1] > levels[1].max() {
		return d, fmt.Errorf("elevation level 1 field %d above %d: %w", d[1], levels[1].max(), griderr.ErrRange)
	}
	for i := 2; i <= MaxLevel; i++ {
		v, ok := digitValue(code[i+1], levels[i].radix)
		if !ok {
			return d, fmt.Errorf("elevation level %d digit %q not base %d: %w", i, code[i+1], levels[i].radix, griderr.ErrFormat)
		}
		d[i] = v
	}
	return d, nil
}

func (d digits) format(length int) string {
	var b strings.Builder
	b.Grow(Length)
	b.WriteByte(byte('0' + d[0]))
	b.WriteByte(byte('0' + d[1]/10))
	b.WriteByte(byte('0' + d[1]%10))
	for i := 2; i <= MaxLevel; i++ {
		b.WriteByte("0123456789ABCDEF"[d[i]])
	}
	return b.String()[:length]
}

func digitValue(c byte, radix int) (int, bool) {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'A' && c <= 'F':
		v = int(c-'A') + 10
	default:
		return 0, false
	}
	return v, v < radix
}
