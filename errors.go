// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfsm

import "fmt"

// LexicalError describes why the scanner produced an Invalid token.
// The scanner does not return it; use Scanner.Err to recover it.
type LexicalError struct {
	Offset   int     // byte offset of the offending input, 0-based
	Location LineCol // line and column of Offset
	Err      error
}

// Error satisfies the error interface.
func (e *LexicalError) Error() string {
	return fmt.Sprintf("at %s: %v (offset %d)", e.Location, e.Err, e.Offset)
}

// Unwrap supports error wrapping.
func (e *LexicalError) Unwrap() error { return e.Err }

// SyntaxError is the concrete type of errors reported by the parser when its
// input is not a complete, well-formed JSON document.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// NewSyntaxError constructs a SyntaxError at loc with a formatted message.
// If cause is not nil, the result wraps it.
func NewSyntaxError(loc LineCol, cause error, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Location: loc, Message: fmt.Sprintf(msg, args...), err: cause}
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
