package grid2d

import (
	"fmt"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

// MaxLevel is the finest planar level.
const MaxLevel = 10

// A tick is one level-10 cell edge, 1/2048 of an arc-second. Every coarser
// cell size is a whole number of ticks, so cell arithmetic stays in int64.
const ticksPerSecond = 2048

const (
	ticksPerMinute = 60 * ticksPerSecond
	ticksPerDegree = 3600 * ticksPerSecond
)

// grammar is how a level's (column,row) pair is spelled in the code.
type grammar uint8

const (
	hemisphere grammar = iota // 'N' or 'S'
	sheet                     // two decimal column digits and a row letter
	hexPair                   // one base-16 digit each for column and row
	packedPair                // one decimal digit holding row*2+column
)

type levelSpec struct {
	grammar  grammar
	lng, lat int64 // cell size in ticks
	cols     int   // valid columns are [0,cols)
	rows     int   // valid rows are [0,rows)
}

var levels = [MaxLevel + 1]levelSpec{
	{grammar: hemisphere, cols: 1, rows: 1},
	// level-1 columns are the offset code 0..60, not the magnitude
	{grammar: sheet, lng: 21600 * ticksPerSecond, lat: 14400 * ticksPerSecond, cols: 61, rows: 22},
	{grammar: hexPair, lng: 1800 * ticksPerSecond, lat: 1800 * ticksPerSecond, cols: 12, rows: 8},
	{grammar: packedPair, lng: 900 * ticksPerSecond, lat: 600 * ticksPerSecond, cols: 2, rows: 3},
	{grammar: hexPair, lng: 60 * ticksPerSecond, lat: 60 * ticksPerSecond, cols: 15, rows: 10},
	{grammar: hexPair, lng: 4 * ticksPerSecond, lat: 4 * ticksPerSecond, cols: 15, rows: 15},
	{grammar: packedPair, lng: 2 * ticksPerSecond, lat: 2 * ticksPerSecond, cols: 2, rows: 2},
	{grammar: hexPair, lng: ticksPerSecond / 4, lat: ticksPerSecond / 4, cols: 8, rows: 8},
	{grammar: hexPair, lng: ticksPerSecond / 32, lat: ticksPerSecond / 32, cols: 8, rows: 8},
	{grammar: hexPair, lng: ticksPerSecond / 256, lat: ticksPerSecond / 256, cols: 8, rows: 8},
	{grammar: hexPair, lng: 1, lat: 1, cols: 8, rows: 8},
}

// codeLengths[n] is the length of a level-n code.
var codeLengths = [MaxLevel + 1]int{1, 4, 6, 7, 9, 11, 12, 14, 16, 18, 20}

// level-1 column codes at or above eastBase are east of Greenwich.
const eastBase = 31

// polarLimit is the first excluded latitude, in arc-seconds.
const polarLimit = 88 * 3600

// CellSize returns the cell edge lengths of a level in arc-seconds.
// Level 0 has no extent and reports zero.
func CellSize(level int) (lng, lat float64, err error) {
	if err := checkLevel(level); err != nil {
		return 0, 0, err
	}
	s := levels[level]
	return float64(s.lng) / ticksPerSecond, float64(s.lat) / ticksPerSecond, nil
}

// CodeLength returns the length of a code at the given level.
func CodeLength(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return codeLengths[level], nil
}

func checkLevel(level int) error {
	if level < 0 || level > MaxLevel {
		return fmt.Errorf("level %d not in 0..%d: %w", level, MaxLevel, griderr.ErrRange)
	}
	return nil
}
