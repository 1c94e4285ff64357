// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"strconv"

	"github.com/creachadair/jfsm"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// DefaultMaxDepth is the maximum nesting depth of objects and arrays accepted
// by a Parser that does not set its own limit.
var DefaultMaxDepth = 10000

// Parse parses text as a single JSON value. The input is scanned completely
// before any of it is parsed. In case of error, the returned error has type
// [*jfsm.SyntaxError] and no value is returned.
func Parse(text string) (Value, error) { return new(Parser).Parse(mem.S(text)) }

// ParseLazy parses text as a single JSON value, scanning one token at a time
// as the parser consumes them. It accepts exactly the same inputs as Parse
// and produces the same results.
func ParseLazy(text string) (Value, error) { return new(Parser).ParseLazy(mem.S(text)) }

// A Parser is a finite-state machine that consumes JSON tokens and builds a
// value tree. A zero Parser is ready for use with default settings.
//
// A Parser may be reused for any number of inputs, but must not be used by
// multiple goroutines concurrently. Each parse starts from a fresh state and
// returns a tree that shares nothing with earlier results.
type Parser struct {
	maxDepth int
	jwcc     bool

	state state
	root  Value
	stk   []Value  // open containers, innermost last
	keys  []string // object keys awaiting their values
	err   error
}

// SetMaxDepth sets the maximum nesting depth of objects and arrays that p
// will accept. If n <= 0, DefaultMaxDepth is used.
func (p *Parser) SetMaxDepth(n int) { p.maxDepth = n }

// AllowJWCC configures the parser to accept (true) or reject (false) JSON
// With Commas and Comments. If enabled, comments and trailing commas are
// blanked out before scanning, so token locations are unaffected.
func (p *Parser) AllowJWCC(ok bool) { p.jwcc = ok }

// Parse parses text as a single JSON value. The input is scanned completely
// before any of it is parsed. In case of error, the returned error has type
// [*jfsm.SyntaxError] and no value is returned.
func (p *Parser) Parse(text mem.RO) (Value, error) {
	s := p.begin(text)
	for _, tok := range s.All() {
		if !p.feed(s, tok) {
			break
		}
	}
	return p.finish()
}

// ParseLazy parses text as a single JSON value, pulling tokens from the
// scanner one at a time. It does not materialize the token sequence.
func (p *Parser) ParseLazy(text mem.RO) (Value, error) {
	s := p.begin(text)
	for p.feed(s, s.Next()) {
	}
	return p.finish()
}

// begin resets the state of p and returns a scanner for text.
func (p *Parser) begin(text mem.RO) *jfsm.Scanner {
	p.state = stInitial
	p.root = nil
	p.stk = p.stk[:0]
	p.keys = p.keys[:0]
	p.err = nil

	if p.jwcc {
		// Standardize works in place, so it gets a copy. If it fails, the input
		// is not valid JSON either, and the parser will report where.
		if std, err := hujson.Standardize(mem.Append(nil, text)); err == nil {
			text = mem.B(std)
		}
	}
	return jfsm.NewScanner(text)
}

// feed delivers tok to the state machine, and reports whether the parser is
// willing to accept more input.
func (p *Parser) feed(s *jfsm.Scanner, tok jfsm.Token) bool {
	if tok.Kind == jfsm.Invalid {
		p.lexicalError(s, tok)
		return false
	}
	p.consume(tok)
	return p.state != stError && tok.Kind != jfsm.End
}

// finish returns the completed value, or the error that stopped the parse.
func (p *Parser) finish() (Value, error) {
	root, err := p.root, p.err
	p.root = nil
	clear(p.stk)
	p.stk = p.stk[:0]
	p.keys = p.keys[:0]
	if err != nil {
		return nil, err
	} else if p.state != stEnd {
		return nil, jfsm.NewSyntaxError(jfsm.LineCol{}, nil, "incomplete value")
	}
	return root, nil
}

// consume performs the state transition for tok.
func (p *Parser) consume(tok jfsm.Token) {
	switch p.state {
	case stInitial, stObjectColon, stArrayComma:
		p.value(tok)
		return

	case stArray:
		if tok.Kind == jfsm.RSquare {
			p.close()
		} else {
			p.value(tok)
		}
		return

	case stObject:
		switch tok.Kind {
		case jfsm.RBrace:
			p.close()
			return
		case jfsm.String:
			p.key(tok)
			return
		}

	case stObjectKey:
		if tok.Kind == jfsm.Colon {
			p.state = stObjectColon
			return
		}

	case stObjectValue:
		switch tok.Kind {
		case jfsm.Comma:
			p.state = stObjectComma
			return
		case jfsm.RBrace:
			p.close()
			return
		}

	case stObjectComma:
		if tok.Kind == jfsm.String {
			p.key(tok)
			return
		}

	case stArrayValue:
		switch tok.Kind {
		case jfsm.Comma:
			p.state = stArrayComma
			return
		case jfsm.RSquare:
			p.close()
			return
		}

	case stEnd:
		if tok.Kind == jfsm.End {
			return
		}
	}
	p.unexpected(tok)
}

// value handles a token that must begin a value.
func (p *Parser) value(tok jfsm.Token) {
	var v Value
	switch tok.Kind {
	case jfsm.True, jfsm.False:
		v = Bool(tok.Kind == jfsm.True)
	case jfsm.Null:
		v = Null{}
	case jfsm.String:
		v = String(stripQuotes(tok.Text))
	case jfsm.Number:
		f, err := mem.ParseFloat(tok.Text, 64)
		if err == nil && f == 0 && nonzeroMantissa(tok.Text) {
			// The literal underflowed.
			err = &strconv.NumError{Func: "ParseFloat", Num: tok.Text.StringCopy(), Err: strconv.ErrRange}
		}
		if err != nil {
			p.fail(tok.Start, err, "invalid number %s", tok.Text.StringCopy())
			return
		}
		v = Number(f)
	case jfsm.LBrace:
		p.open(tok, NewObject(), stObject)
		return
	case jfsm.LSquare:
		p.open(tok, new(Array), stArray)
		return
	default:
		p.unexpected(tok)
		return
	}
	p.attach(v)
	p.state = p.resume()
}

// key pushes the object key in tok.
func (p *Parser) key(tok jfsm.Token) {
	p.keys = append(p.keys, stripQuotes(tok.Text))
	p.state = stObjectKey
}

// open attaches a new empty container to the value under construction and
// makes it the target for subsequent values.
func (p *Parser) open(tok jfsm.Token, c Value, next state) {
	if len(p.stk) >= p.depthLimit() {
		p.fail(tok.Start, nil, "nesting depth exceeds %d", p.depthLimit())
		return
	}
	p.attach(c)
	p.stk = append(p.stk, c)
	p.state = next
}

// close pops the innermost open container.
func (p *Parser) close() {
	p.stk[len(p.stk)-1] = nil
	p.stk = p.stk[:len(p.stk)-1]
	p.state = p.resume()
}

// attach adds v to the innermost open container, or makes it the root if no
// container is open.
func (p *Parser) attach(v Value) {
	if len(p.stk) == 0 {
		p.root = v
		return
	}
	switch c := p.stk[len(p.stk)-1].(type) {
	case *Object:
		last := len(p.keys) - 1
		c.Set(p.keys[last], v)
		p.keys = p.keys[:last]
	case *Array:
		c.Values = append(c.Values, v)
	}
}

// resume returns the state following a complete value, which depends on the
// innermost open container, if any.
func (p *Parser) resume() state {
	if len(p.stk) == 0 {
		return stEnd
	} else if _, ok := p.stk[len(p.stk)-1].(*Object); ok {
		return stObjectValue
	}
	return stArrayValue
}

func (p *Parser) depthLimit() int {
	if p.maxDepth > 0 {
		return p.maxDepth
	}
	return DefaultMaxDepth
}

func (p *Parser) unexpected(tok jfsm.Token) {
	p.fail(tok.Start, nil, "unexpected %v %s", tok.Kind, p.state)
}

func (p *Parser) lexicalError(s *jfsm.Scanner, tok jfsm.Token) {
	if err, ok := s.Err().(*jfsm.LexicalError); ok {
		p.fail(err.Location, err, "invalid token: %v", err.Err)
		return
	}
	p.fail(tok.Start, nil, "invalid token")
}

func (p *Parser) fail(loc jfsm.LineCol, cause error, msg string, args ...any) {
	p.state = stError
	p.err = jfsm.NewSyntaxError(loc, cause, msg, args...)
}

// nonzeroMantissa reports whether any digit of the number in text before its
// exponent is nonzero.
func nonzeroMantissa(text mem.RO) bool {
	for i := 0; i < text.Len(); i++ {
		switch c := text.At(i); {
		case c == 'e' || c == 'E':
			return false
		case '1' <= c && c <= '9':
			return true
		}
	}
	return false
}

// stripQuotes returns a copy of text without its first and last bytes.
func stripQuotes(text mem.RO) string { return text.Slice(1, text.Len()-1).StringCopy() }

// state is a state of the parser's finite-state machine.
type state byte

const (
	stInitial     state = iota // before any value
	stObject                   // after "{"
	stObjectKey                // after an object key
	stObjectColon              // after the colon following a key
	stObjectValue              // after a member value
	stObjectComma              // after a comma in an object
	stArray                    // after "["
	stArrayValue               // after an array element
	stArrayComma               // after a comma in an array
	stEnd                      // after a complete value (accepting)
	stError                    // after an error (terminal)
)

var stateStr = [...]string{
	stInitial:     "at start of input",
	stObject:      `after "{"`,
	stObjectKey:   "after object key",
	stObjectColon: "after colon",
	stObjectValue: "after object member",
	stObjectComma: "after comma in object",
	stArray:       `after "["`,
	stArrayValue:  "after array element",
	stArrayComma:  "after comma in array",
	stEnd:         "after end of value",
	stError:       "after error",
}

func (s state) String() string { return stateStr[s] }
