// Package encoding provides the fixed-width text field helpers used by the
// CAP record layouts.
package encoding

import (
	"strings"
	"unicode/utf8"
)

// ASCII drops every rune outside the 7-bit ASCII range.
func ASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PadASCII returns s as exactly n ASCII bytes: non-ASCII runes are dropped,
// longer values are truncated and shorter ones are padded with spaces.
func PadASCII(s string, n int) []byte {
	out := make([]byte, n)
	PutASCII(out, s)
	return out
}

// PutASCII fills dst with s the way PadASCII does, using len(dst) as width.
func PutASCII(dst []byte, s string) {
	a := ASCII(s)
	k := copy(dst, a)
	for i := k; i < len(dst); i++ {
		dst[i] = ' '
	}
}

// TrimField decodes a fixed-width field, removing trailing spaces and NULs.
func TrimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
