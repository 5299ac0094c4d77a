// Package griderr holds the failure classes shared by the grid codecs.
//
// Every error returned by grid2d, elevation and grid3d wraps exactly one of
// these sentinels, so callers branch with errors.Is.
package griderr

import "errors"

var (
	// ErrLength: a code whose length matches no level.
	ErrLength = errors.New("invalid code length")
	// ErrRange: a digit, level or coordinate outside its valid bounds.
	ErrRange = errors.New("value out of range")
	// ErrFormat: a character that is not part of the code grammar.
	ErrFormat = errors.New("malformed code")
	// ErrOutOfWindow: a reference offset larger than 7 cells.
	ErrOutOfWindow = errors.New("target outside reference window")
	// ErrUnrepresentable: an elevation carry past the sign level.
	ErrUnrepresentable = errors.New("no representable neighbour")
)
