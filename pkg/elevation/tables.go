package elevation

import (
	"fmt"
	"math"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const (
	// Length is the length of a full elevation code.
	Length = 12
	// MaxLevel is the finest elevation level.
	MaxLevel = 10
	// DefaultRadius is the reference radius in metres.
	DefaultRadius = 6378137.0

	magnitudeBits = 31
)

// Grid model: θ is the finest angular step (1/2048″) and θ0 one degree.
const (
	theta  = 1.0 / (2048 * 3600)
	theta0 = 1.0
)

var logBase = math.Log(1 + theta0*math.Pi/180)

// levelSpec is a slice of the magnitude's bits and the radix it is written in.
// Level 0 is the sign digit and carries no magnitude bits.
type levelSpec struct {
	bits  uint
	radix int
	width int
}

func (s levelSpec) max() int { return 1<<s.bits - 1 }

var levels = [MaxLevel + 1]levelSpec{
	{bits: 1, radix: 2, width: 1},
	{bits: 6, radix: 10, width: 2},
	{bits: 3, radix: 8, width: 1},
	{bits: 1, radix: 2, width: 1},
	{bits: 4, radix: 16, width: 1},
	{bits: 4, radix: 16, width: 1},
	{bits: 1, radix: 2, width: 1},
	{bits: 3, radix: 8, width: 1},
	{bits: 3, radix: 8, width: 1},
	{bits: 3, radix: 8, width: 1},
	{bits: 3, radix: 8, width: 1},
}

// codeLengths[n] is the length of a level-n elevation code.
var codeLengths = [MaxLevel + 1]int{1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// Level returns the level of an elevation code from its length.
func Level(code string) (int, error) {
	for n, l := range codeLengths {
		if len(code) == l {
			return n, nil
		}
	}
	return -1, fmt.Errorf("elevation code %q has length %d: %w", code, len(code), griderr.ErrLength)
}

func checkLevel(level int) error {
	if level < 0 || level > MaxLevel {
		return fmt.Errorf("elevation level %d not in 0..%d: %w", level, MaxLevel, griderr.ErrRange)
	}
	return nil
}

// CellSpan returns how many level-10 indices one cell of level covers.
func CellSpan(level int) (int64, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	var bits uint
	for i := level + 1; i <= MaxLevel; i++ {
		bits += levels[i].bits
	}
	return 1 << bits, nil
}
