// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting, unquoting, and validation of JSON string
// escape sequences.
package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

// Len reports the length in bytes of the escape sequence at the front of src,
// which must begin with a backslash. It returns 0 if src does not begin with
// a complete, valid escape: a backslash followed by one of " \ / b f n r t,
// or by u and exactly four hexadecimal digits.
func Len(src mem.RO) int {
	if src.Len() < 2 || src.At(0) != '\\' {
		return 0
	}
	switch src.At(1) {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2
	case 'u':
		if src.Len() < 6 {
			return 0
		}
		if _, ok := parseHex(src.Slice(2, 6)); !ok {
			return 0
		}
		return 6
	}
	return 0
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes are replaced by the Unicode replacement rune. Unquote reports an
// error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}
		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			v, ok := parseHex(src.SliceTo(4))
			if !ok {
				v = utf8.RuneError
			}
			dec = utf8.AppendRune(dec, v)
			src = src.SliceFrom(4)
		default:
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}
	}
}

// parseHex decodes data as a hexadecimal value.
func parseHex(data mem.RO) (rune, bool) {
	var v rune
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += rune(b - '0')
		case 'a' <= b && b <= 'f':
			v += rune(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += rune(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}
