// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfsm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/jfsm/internal/escape"
	"go4.org/mem"
)

// A Scanner reads lexical tokens from an input text. Each call to Next
// returns the next token. The input is scanned once, left to right.
//
// At the end of the input the scanner returns an End token. If no valid token
// can be scanned at the current position, it returns an Invalid token. Both
// are sticky: once either has been returned, every later call to Next returns
// the same token again.
type Scanner struct {
	src  mem.RO
	pos  int // offset of the next unread byte
	line int // 0-based line of pos
	col  int // 0-based byte column of pos

	halt *Token // sticky sentinel, once reached
	err  *LexicalError
}

// NewScanner constructs a new lexical scanner that consumes text.
// Tokens returned by the scanner are views of text.
func NewScanner(text mem.RO) *Scanner { return &Scanner{src: text} }

// Tokenize scans all of text and returns the resulting tokens. The result is
// never empty, and its last element is either End or Invalid.
func Tokenize(text string) []Token { return NewScanner(mem.S(text)).All() }

// Err returns a description of the Invalid token most recently returned by
// Next, or nil if the scanner has not produced an Invalid token.
func (s *Scanner) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Next advances s to the next token of the input and returns it.
func (s *Scanner) Next() Token {
	if s.halt != nil {
		return *s.halt
	}
	s.skipSpace()
	if s.pos >= s.src.Len() {
		return s.stop(End, s.pos, nil)
	}

	// Handle punctuation.
	ch := s.src.At(s.pos)
	if k, ok := selfDelim(ch); ok {
		return s.emit(k, s.pos+1)
	}

	var kind Kind
	var end int
	var err error
	switch {
	case ch == '"':
		kind = String
		end, err = scanString(s.src, s.pos)
	case isNumStart(ch):
		kind = Number
		end, err = scanNumber(s.src, s.pos)
	case ch == 't':
		kind = True
		end, err = scanConstant(s.src, s.pos, "true")
	case ch == 'f':
		kind = False
		end, err = scanConstant(s.src, s.pos, "false")
	case ch == 'n':
		kind = Null
		end, err = scanConstant(s.src, s.pos, "null")
	default:
		end, err = s.pos, fmt.Errorf("unexpected %q", ch)
	}
	if err != nil {
		return s.stop(Invalid, end, err)
	}
	return s.emit(kind, end)
}

// All scans the remainder of the input and returns the tokens, ending with
// exactly one End or Invalid token.
func (s *Scanner) All() []Token {
	var out []Token
	for {
		tok := s.Next()
		out = append(out, tok)
		if tok.Kind.IsSentinel() {
			return out
		}
	}
}

func (s *Scanner) skipSpace() {
	for s.pos < s.src.Len() {
		switch s.src.At(s.pos) {
		case '\n':
			s.line++
			s.col = 0
		case ' ', '\t', '\r', '\v', '\f':
			s.col++
		default:
			return
		}
		s.pos++
	}
}

// emit returns a token of the given kind spanning from the current position
// to end, and advances past it. Tokens do not contain newlines.
func (s *Scanner) emit(kind Kind, end int) Token {
	tok := Token{
		Kind:  kind,
		Text:  s.src.Slice(s.pos, end),
		Span:  Span{Pos: s.pos, End: end},
		Start: LineCol{Line: s.line + 1, Column: s.col},
	}
	s.col += end - s.pos
	s.pos = end
	return tok
}

// stop emits a sentinel token and makes it sticky. For an Invalid token, end
// is the offset of the offending input and err says what was wrong with it.
func (s *Scanner) stop(kind Kind, end int, err error) Token {
	if err != nil {
		s.err = &LexicalError{
			Offset:   end,
			Location: LineCol{Line: s.line + 1, Column: s.col + end - s.pos},
			Err:      err,
		}
		end = min(end+1, s.src.Len())
	}
	tok := s.emit(kind, end)
	s.halt = &tok
	return tok
}

// scanString scans a quoted string starting at src[i], which must be a
// double quotation mark. It returns the offset just past the closing quote.
// In case of error, it returns the offset of the offending byte.
func scanString(src mem.RO, i int) (int, error) {
	i++ // skip the opening quote
	for i < src.Len() {
		switch ch := src.At(i); {
		case ch == '"':
			return i + 1, nil
		case ch == '\\':
			n := escape.Len(src.SliceFrom(i))
			if n == 0 {
				return i, errors.New("invalid escape sequence")
			}
			i += n
		case isControl(ch):
			return i, fmt.Errorf("unescaped control %q", ch)
		default:
			i++
		}
	}
	return i, errors.New("unterminated string")
}

// scanNumber scans a number starting at src[i], which must be a minus sign
// or a digit. It returns the offset just past the end of the number.
// In case of error, it returns the offset of the offending byte.
//
// A decimal point not followed by digits is consumed and ignored.
func scanNumber(src mem.RO, i int) (int, error) {
	if src.At(i) == '-' {
		i++
		if i >= src.Len() || !isDigit(src.At(i)) {
			return i, errors.New("missing digit after sign")
		}
	}

	// Check for extra leading zeroes, which RFC 8259 disallows.
	// That is: 0.12 is OK, 01.2 and 00 are not.
	if src.At(i) == '0' {
		i++
		if i < src.Len() && isDigit(src.At(i)) {
			return i, errors.New("extra leading zeroes")
		}
	} else {
		i = skipDigits(src, i)
	}

	if i < src.Len() && src.At(i) == '.' {
		i = skipDigits(src, i+1)
	}

	if i < src.Len() && (src.At(i) == 'e' || src.At(i) == 'E') {
		i++
		if i < src.Len() && (src.At(i) == '+' || src.At(i) == '-') {
			i++
		}
		j := skipDigits(src, i)
		if j == i {
			return i, errors.New("missing exponent digits")
		}
		i = j
	}
	return i, nil
}

// scanConstant scans the literal word starting at src[i].
// In case of error, it returns the offset of the first mismatched byte.
func scanConstant(src mem.RO, i int, word string) (int, error) {
	rest := src.SliceFrom(i)
	if mem.HasPrefix(rest, mem.S(word)) {
		return i + len(word), nil
	}
	n := 0
	for n < rest.Len() && n < len(word) && rest.At(n) == word[n] {
		n++
	}
	return i + n, fmt.Errorf("unknown constant, want %q", word)
}

func skipDigits(src mem.RO, i int) int {
	for i < src.Len() && isDigit(src.At(i)) {
		i++
	}
	return i
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isControl(ch byte) bool  { return ch < ' ' || ch == 0x7f }

var self = [...]Kind{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Kind, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
