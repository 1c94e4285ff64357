// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jfsm implements a JSON scanner. The companion package ast builds
// value trees from the tokens using a finite-state parser.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a scanner
// from a read-only view of the input and call its Next method to iterate over
// the tokens:
//
//	s := jfsm.NewScanner(mem.S(input))
//	for tok := s.Next(); !tok.Kind.IsSentinel(); tok = s.Next() {
//	   log.Printf("Next token: %v", tok)
//	}
//
// The scanner does not report errors. When the input is exhausted it returns
// a token of kind End; when the input at the current position cannot be
// scanned it returns a token of kind Invalid. Both are sticky. Use the Err
// method to find out why a token was Invalid:
//
//	if tok.Kind == jfsm.Invalid {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// To scan a whole input at once, use Tokenize or the All method. The result
// always ends with exactly one End or Invalid token.
//
// # Tokens
//
// The text of a token is a view of the exact input it was scanned from.
// Strings keep their quotation marks and escape sequences; use Unquote to
// decode them. Escapes are validated but never decoded by the scanner.
//
//	Kind      | Name          | Text
//	--------- | ------------- | ---------------------------------
//	True      | KeywordTrue   | true
//	False     | KeywordFalse  | false
//	Null      | KeywordNull   | null
//	LBrace    | LeftBrace     | {
//	RBrace    | RightBrace    | }
//	LSquare   | LeftBracket   | [
//	RSquare   | RightBracket  | ]
//	Comma     | Comma         | ,
//	Colon     | Colon         | :
//	String    | String        | "quoted \"text\""
//	Number    | Number        | -1.5e3
//	End       | End           | (empty)
//	Invalid   | Invalid       | the input up to the offending byte
package jfsm
