package grid2d

import (
	"fmt"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

const hexDigits = "0123456789ABCDEF"

// fragment returns the characters that belong to level n of an upper-case
// code already known to reach that level.
func fragment(code string, n int) string {
	if n == 0 {
		return code[:1]
	}
	return code[codeLengths[n-1]:codeLengths[n]]
}

// Fragment returns the digits a code carries for one level.
func Fragment(code string, level int) (string, error) {
	c, err := parse(code)
	if err != nil {
		return "", err
	}
	if level < 0 || level > c.level {
		return "", fmt.Errorf("code %q has no level %d: %w", c.code, level, griderr.ErrRange)
	}
	return fragment(c.code, level), nil
}

// parseFragment reads the raw (column,row) of level n. Level-1 columns are the
// offset code, not the magnitude. Hemisphere fragments report (0,0).
func parseFragment(frag string, n int) (col, row int, err error) {
	s := levels[n]
	switch s.grammar {
	case hemisphere:
		if frag != "N" && frag != "S" {
			return 0, 0, fmt.Errorf("hemisphere %q: %w", frag, griderr.ErrFormat)
		}
		return 0, 0, nil
	case sheet:
		d0, ok0 := decimalValue(frag[0])
		d1, ok1 := decimalValue(frag[1])
		if !ok0 || !ok1 || frag[2] < 'A' || frag[2] > 'Z' {
			return 0, 0, fmt.Errorf("level 1 fragment %q: %w", frag, griderr.ErrFormat)
		}
		col, row = d0*10+d1, int(frag[2]-'A')
	case hexPair:
		var ok0, ok1 bool
		col, ok0 = hexValue(frag[0])
		row, ok1 = hexValue(frag[1])
		if !ok0 || !ok1 {
			return 0, 0, fmt.Errorf("level %d fragment %q: %w", n, frag, griderr.ErrFormat)
		}
	case packedPair:
		v, ok := decimalValue(frag[0])
		if !ok {
			return 0, 0, fmt.Errorf("level %d fragment %q: %w", n, frag, griderr.ErrFormat)
		}
		col, row = v%2, v/2
	}
	if err := checkCell(n, col, row); err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// appendFragment spells (col,row) in the grammar of level n. Level-1 columns
// must already be the offset code.
func appendFragment(dst []byte, n, col, row int) ([]byte, error) {
	if n < 1 || n > MaxLevel {
		return dst, fmt.Errorf("fragment level %d: %w", n, griderr.ErrRange)
	}
	if err := checkCell(n, col, row); err != nil {
		return dst, err
	}
	switch levels[n].grammar {
	case sheet:
		dst = append(dst, byte('0'+col/10), byte('0'+col%10), byte('A'+row))
	case hexPair:
		dst = append(dst, hexDigits[col], hexDigits[row])
	case packedPair:
		dst = append(dst, byte('0'+row*2+col))
	}
	return dst, nil
}

func checkCell(n, col, row int) error {
	s := levels[n]
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return fmt.Errorf("level %d cell (%d,%d) outside %dx%d: %w", n, col, row, s.cols, s.rows, griderr.ErrRange)
	}
	return nil
}

func decimalValue(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
