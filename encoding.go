// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfsm

import (
	"errors"

	"github.com/creachadair/jfsm/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	buf := make([]byte, 0, len(src)+2)
	buf = append(buf, '"')
	buf = append(buf, escape.Quote(mem.S(src))...)
	return string(append(buf, '"'))
}

// Unquote decodes a JSON string value, such as the text of a String token.
// Double quotation marks are removed, and escape sequences are replaced with
// their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	n := src.Len()
	if n < 2 || src.At(0) != '"' || src.At(n-1) != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(src.Slice(1, n-1))
}
