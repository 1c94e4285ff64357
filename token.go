// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfsm

import (
	"fmt"

	"go4.org/mem"
)

// Kind is the lexical category of a token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // no valid token could be scanned here
	True                // constant: true
	False               // constant: false
	Null                // constant: null
	LBrace              // left brace "{"
	RBrace              // right brace "}"
	LSquare             // left square bracket "["
	RSquare             // right square bracket "]"
	Comma               // comma ","
	Colon               // colon ":"
	String              // quoted string
	Number              // number
	End                 // input exhausted
)

var kindStr = [...]string{
	Invalid: "invalid token",
	True:    "true",
	False:   "false",
	Null:    "null",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	String:  "string",
	Number:  "number",
	End:     "end of input",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

var kindName = [...]string{
	Invalid: "Invalid",
	True:    "KeywordTrue",
	False:   "KeywordFalse",
	Null:    "KeywordNull",
	LBrace:  "LeftBrace",
	RBrace:  "RightBrace",
	LSquare: "LeftBracket",
	RSquare: "RightBracket",
	Comma:   "Comma",
	Colon:   "Colon",
	String:  "String",
	Number:  "Number",
	End:     "End",
}

// Name returns the symbolic name of k, for example "LeftBrace".
func (k Kind) Name() string {
	if int(k) >= len(kindName) {
		return kindName[Invalid]
	}
	return kindName[k]
}

// IsSentinel reports whether k is one of the sentinels Invalid or End.
func (k Kind) IsSentinel() bool { return k == Invalid || k == End }

// A Token is a single lexical token scanned from an input.
//
// Text is a view of the exact source bytes the token was scanned from,
// including the quotation marks of a string. It aliases the scanner input, so
// it remains valid as long as that input is not modified.
type Token struct {
	Kind  Kind
	Text  mem.RO
	Span  Span
	Start LineCol // where the token begins
}

// Location returns the complete location of t. Tokens never span lines.
func (t Token) Location() Location {
	return Location{
		Span:  t.Span,
		First: t.Start,
		Last:  LineCol{Line: t.Start.Line, Column: t.Start.Column + t.Text.Len()},
	}
}

// String renders t for display, for example Token(type=Number, value=`12`).
func (t Token) String() string {
	return fmt.Sprintf("Token(type=%s, value=`%s`)", t.Kind.Name(), t.Text.StringCopy())
}
