// Package keys builds the lookup keys of the decode caches.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Key returns "op:variant:CODE:h=<hex64>". The code is trimmed and upper
// cased so spellings that decode identically share a key; the hash covers
// the normalised variant and code so Sum can shard on it.
func Key(op, variant, code string) string {
	opNorm := sanitize(strings.ToLower(strings.TrimSpace(op)))
	variantNorm := sanitize(strings.ToLower(strings.TrimSpace(variant)))
	codeNorm := sanitize(strings.ToUpper(strings.TrimSpace(code)))

	const maxCodeTextLen = 64
	if len(codeNorm) > maxCodeTextLen {
		codeNorm = codeNorm[:maxCodeTextLen]
	}

	sum := Sum(op, variant, code)
	return fmt.Sprintf("%s:%s:%s:h=%016x", opNorm, variantNorm, codeNorm, sum)
}

// Sum is the xxhash of the normalised key parts.
func Sum(op, variant, code string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strings.ToLower(strings.TrimSpace(op)))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.ToLower(strings.TrimSpace(variant)))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.ToUpper(strings.TrimSpace(code)))
	return d.Sum64()
}

func sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '.':
			out = r
		default:
			// Any other rune (including non-ASCII and ':') becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r < unicode.MaxASCII && unicode.IsDigit(r))
}
