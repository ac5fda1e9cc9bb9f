// Package coerce converts loosely typed form input into scalar values.
//
// Form submissions arrive as strings that are frequently empty, padded or
// only partly numeric. The helpers here never fail: input that cannot be
// interpreted collapses to the zero value.
package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Truthy reports whether a submitted value counts as set.
// Both "" and "0" are false, everything else is true.
func Truthy(s string) bool {
	return s != "" && s != "0"
}

// Intval parses the leading integer of s.
// Leading whitespace and a single sign are accepted, parsing stops at the
// first non-digit, and values outside the int64 range saturate.
func Intval(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil || n > math.MaxInt64 {
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	if neg {
		return -int64(n)
	}
	return int64(n)
}

// Absint returns the absolute value of Intval(s).
func Absint(s string) uint64 {
	n := Intval(s)
	if n == math.MinInt64 {
		return uint64(math.MaxInt64) + 1
	}
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

// Zeroise left-pads n with zeros to at least width digits.
func Zeroise(n uint64, width int) string {
	s := strconv.FormatUint(n, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// AddSlashes backslash-escapes quotes, backslashes and NUL bytes.
func AddSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// StripSlashes reverses AddSlashes. A backslash escapes the byte after it,
// `\0` becomes NUL and a trailing lone backslash is dropped.
func StripSlashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		if s[i] == '0' {
			b.WriteByte(0)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
