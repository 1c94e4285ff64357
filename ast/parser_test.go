// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/creachadair/jfsm"
	"github.com/creachadair/jfsm/ast"
	"github.com/creachadair/jfsm/ast/cursor"
	"github.com/creachadair/jfsm/internal/testutil"
	"github.com/creachadair/mds/mtest"
	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go4.org/mem"
)

// parsers are the entry points that must agree on every input.
var parsers = []struct {
	name  string
	parse func(string) (ast.Value, error)
}{
	{"Eager", ast.Parse},
	{"Lazy", ast.ParseLazy},
}

func TestParse(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"null", "null"},
		{"true", "true"},
		{" false\n", "false"},
		{"0", "0"},
		{"-12.5e2", "-1250"},
		{"0.5E-1", "0.05"},
		{"1.", "1"},
		{"7.e2", "700"},
		{"0e-400", "0"},
		{"-0.000e-999", "-0"},
		{"5e-324", "5e-324"},
		{`""`, `""`},
		{`"a\nb"`, `"a\nb"`},
		{`"é\"x"`, `"é\"x"`},
		{"[]", "[]"},
		{"{}", "{}"},
		{"[1, [2, [3]], {}]", "[1,[2,[3]],{}]"},
		{`{"b": 1, "a": [true, null]}`, `{"a":[true,null],"b":1}`},
		{`{"a": 1, "a": 2}`, `{"a":2}`},
		{"\t{\r\n\"k\" :\n\"v\"  }\n", `{"k":"v"}`},
		{"\f[1,\v2]\v\f", "[1,2]"},
	}
	for _, tc := range tests {
		for _, p := range parsers {
			t.Run(p.name, func(t *testing.T) {
				v, err := p.parse(tc.input)
				if err != nil {
					t.Fatalf("Parse %q: unexpected error: %v", tc.input, err)
				}
				if got := v.JSON(); got != tc.want {
					t.Errorf("Parse %q: got %#q, want %#q", tc.input, got, tc.want)
				}
			})
		}
	}
}

func TestParse_structure(t *testing.T) {
	const input = `{"outerKey": {"innerKey": [1, "two", false]}, "other": null}`

	v, err := ast.Parse(input)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	root, err := ast.AsObject(v)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if diff := cmp.Diff([]string{"other", "outerKey"}, keysOf(root)); diff != "" {
		t.Errorf("Root keys (-want, +got):\n%s", diff)
	}

	outer, ok := root.Find("outerKey")
	if !ok {
		t.Fatal(`Key "outerKey" not found`)
	}
	inner, err := ast.AsObject(outer)
	if err != nil {
		t.Fatalf("Outer: %v", err)
	}
	iv, ok := inner.Find("innerKey")
	if !ok {
		t.Fatal(`Key "innerKey" not found`)
	}
	arr, err := ast.AsArray(iv)
	if err != nil {
		t.Fatalf("Inner: %v", err)
	}
	if arr.Len() != 3 {
		t.Fatalf("Inner array: got %d elements, want 3", arr.Len())
	}
	if n, err := ast.AsNumber(arr.Values[0]); err != nil || n != 1 {
		t.Errorf("Element 0: got %v, %v; want 1", n, err)
	}
	if s, err := ast.AsString(arr.Values[1]); err != nil || s != "two" {
		t.Errorf("Element 1: got %q, %v; want two", s, err)
	}
	if b, err := ast.AsBool(arr.Values[2]); err != nil || b {
		t.Errorf("Element 2: got %v, %v; want false", b, err)
	}
	if other, ok := root.Find("other"); !ok || !ast.IsNull(other) {
		t.Errorf(`Key "other": got %v, %v; want null`, other, ok)
	}
}

func TestParse_nestedArrays(t *testing.T) {
	const input = `{"outerKey": {"innerKey": [[1, {}], [2, {}]]}}`

	for _, p := range parsers {
		t.Run(p.name, func(t *testing.T) {
			v, err := p.parse(input)
			if err != nil {
				t.Fatalf("Parse: unexpected error: %v", err)
			}
			arr, err := cursor.Path[*ast.Array](v, "outerKey", "innerKey")
			if err != nil {
				t.Fatalf("Path: %v", err)
			}
			if arr.Len() != 2 {
				t.Fatalf("Outer array: got %d elements, want 2", arr.Len())
			}
			for i, elt := range arr.Values {
				pair, err := ast.AsArray(elt)
				if err != nil {
					t.Fatalf("Element %d: %v", i, err)
				}
				if pair.Len() != 2 {
					t.Fatalf("Element %d: got %d values, want 2", i, pair.Len())
				}
				if n, err := ast.AsNumber(pair.Values[0]); err != nil || n != float64(i+1) {
					t.Errorf("Element %d number: got %v, %v; want %d", i, n, err, i+1)
				}
				if o, err := ast.AsObject(pair.Values[1]); err != nil {
					t.Errorf("Element %d object: %v", i, err)
				} else if o.Len() != 0 {
					t.Errorf("Element %d object: got %d members, want 0", i, o.Len())
				}
			}
		})
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		input string
		want  string // error text
	}{
		{"", `at 1:0: unexpected end of input at start of input`},
		{"  \n ", `at 2:1: unexpected end of input at start of input`},
		{"{", `at 1:1: unexpected end of input after "{"`},
		{"[", `at 1:1: unexpected end of input after "["`},
		{"]", `at 1:0: unexpected "]" at start of input`},
		{"[1,]", `at 1:3: unexpected "]" after comma in array`},
		{"[1 2]", `at 1:3: unexpected number after array element`},
		{"[1,2", `at 1:4: unexpected end of input after array element`},
		{`{1: 2}`, `at 1:1: unexpected number after "{"`},
		{`{"a" 1}`, `at 1:5: unexpected number after object key`},
		{`{"a":}`, `at 1:5: unexpected "}" after colon`},
		{`{"a":1 "b":2}`, `at 1:7: unexpected string after object member`},
		{`{"a":1,}`, `at 1:7: unexpected "}" after comma in object`},
		{`{"a":1,,}`, `at 1:7: unexpected "," after comma in object`},
		{`{"a":1]`, `at 1:6: unexpected "]" after object member`},
		{`[1}`, `at 1:2: unexpected "}" after array element`},
		{"1 2", `at 1:2: unexpected number after end of value`},
		{"{}{}", `at 1:2: unexpected "{" after end of value`},
		{`:`, `at 1:0: unexpected ":" at start of input`},
		{"1e400", `at 1:0: invalid number 1e400`},
		{"[1e-400]", `at 1:1: invalid number 1e-400`},
		{"-0.00025e-999", `at 1:0: invalid number -0.00025e-999`},
		{"tru", `at 1:3: invalid token: unknown constant, want "true"`},
		{"[true, nul]", `at 1:10: invalid token: unknown constant, want "null"`},
		{`"abc`, `at 1:4: invalid token: unterminated string`},
		{`["a\x"]`, `at 1:3: invalid token: invalid escape sequence`},
		{"01", `at 1:1: invalid token: extra leading zeroes`},
		{"-", `at 1:1: invalid token: missing digit after sign`},
		{"[1e+]", `at 1:4: invalid token: missing exponent digits`},
		{"/* no */ 1", `at 1:0: invalid token: unexpected '/'`},
		{"[\"a\x7f\"]", `at 1:3: invalid token: unescaped control '\x7f'`},
		{"\f\n\v{\f", `at 2:3: unexpected end of input after "{"`},
	}
	for _, tc := range tests {
		for _, p := range parsers {
			t.Run(p.name, func(t *testing.T) {
				v, err := p.parse(tc.input)
				if err == nil {
					t.Fatalf("Parse %q: got %v, want error", tc.input, v.JSON())
				}
				t.Logf("Parse %q: got expected error: %v", tc.input, err)
				if v != nil {
					t.Errorf("Parse %q: got value %v with error", tc.input, v)
				}
				if got := err.Error(); got != tc.want {
					t.Errorf("Parse %q: error is %q, want %q", tc.input, got, tc.want)
				}

				var serr *jfsm.SyntaxError
				if !errors.As(err, &serr) {
					t.Errorf("Parse %q: error is %T, want *SyntaxError", tc.input, err)
				}
			})
		}
	}
}

func TestParse_errorCauses(t *testing.T) {
	t.Run("Lexical", func(t *testing.T) {
		_, err := ast.Parse("[1, 00]")
		var lerr *jfsm.LexicalError
		if !errors.As(err, &lerr) {
			t.Fatalf("Parse: got error %v, want *LexicalError", err)
		}
		if lerr.Offset != 5 {
			t.Errorf("Offset: got %d, want 5", lerr.Offset)
		}
		if got := lerr.Location.String(); got != "1:5" {
			t.Errorf("Location: got %q, want 1:5", got)
		}
	})
	t.Run("Number", func(t *testing.T) {
		_, err := ast.ParseLazy("[-1e999]")
		if !errors.Is(err, strconv.ErrRange) {
			t.Errorf("Parse: got error %v, want %v", err, strconv.ErrRange)
		}
	})
	t.Run("Underflow", func(t *testing.T) {
		_, err := ast.Parse("2.5e-400")
		if !errors.Is(err, strconv.ErrRange) {
			t.Errorf("Parse: got error %v, want %v", err, strconv.ErrRange)
		}
	})
	t.Run("Grammar", func(t *testing.T) {
		_, err := ast.Parse("[,]")
		if u := errors.Unwrap(err); u != nil {
			t.Errorf("Parse: got cause %v, want nil", u)
		}
	})
}

func TestParse_equivalence(t *testing.T) {
	inputs := []string{
		"", " ", "null", "[", "[[[]]]", `{"a":{"b":{"c":[1,2,3]}}}`,
		`{"a":1}x`, `[1,2,3,]`, "nullx", `"\u12"`, `{"a":[{"b":"c"`,
		"[1e400]", "{} ", "[0, -0, 0.0, -0.0e0]",
		"\f1", "[1,\v2]", "\"a\x7fb\"", "[\"\x7f\"]",
	}
	for _, input := range inputs {
		ev, eerr := ast.Parse(input)
		lv, lerr := ast.ParseLazy(input)
		if (eerr == nil) != (lerr == nil) {
			t.Errorf("Input %q: eager error %v, lazy error %v", input, eerr, lerr)
			continue
		}
		if eerr != nil {
			if eerr.Error() != lerr.Error() {
				t.Errorf("Input %q: eager error %q, lazy error %q", input, eerr, lerr)
			}
		} else if !ast.Equal(ev, lv) {
			t.Errorf("Input %q: eager %s, lazy %s", input, ev.JSON(), lv.JSON())
		}
	}
}

func TestParse_roundTrip(t *testing.T) {
	for seed := range int64(40) {
		f := gofakeit.New(seed)
		want := testutil.RandomValue(f, 4)

		t.Run("JSON", func(t *testing.T) {
			text := want.JSON()
			for _, p := range parsers {
				got, err := p.parse(text)
				if err != nil {
					t.Fatalf("%s: parse %#q: %v", p.name, text, err)
				}
				if !ast.Equal(got, want) {
					t.Errorf("%s: round trip failed:\n got %s\nwant %s", p.name, got.JSON(), text)
				}
			}
		})
		t.Run("Format", func(t *testing.T) {
			text := ast.FormatToString(want)
			got, err := ast.Parse(text)
			if err != nil {
				t.Fatalf("Parse formatted text: %v\n%s", err, text)
			}
			if !ast.Equal(got, want) {
				t.Errorf("Round trip failed:\n got %s\nwant %s", got.JSON(), want.JSON())
			}
		})
	}
}

func TestParse_idempotent(t *testing.T) {
	const input = `{"list": [1, 2], "obj": {"k": "v"}}`

	var p ast.Parser
	v1, err := p.Parse(mem.S(input))
	if err != nil {
		t.Fatalf("Parse 1: %v", err)
	}
	if _, err := p.Parse(mem.S(`{"broken": [}`)); err == nil {
		t.Fatal("Parse 2: got nil, want error")
	}
	v2, err := p.ParseLazy(mem.S(input))
	if err != nil {
		t.Fatalf("Parse 3: %v", err)
	}
	if !ast.Equal(v1, v2) {
		t.Fatalf("Results differ: %s vs. %s", v1.JSON(), v2.JSON())
	}

	// The trees must not share containers.
	o1 := v1.(*ast.Object)
	l1, _ := o1.Find("list")
	l1.(*ast.Array).Values = append(l1.(*ast.Array).Values, ast.Null{})
	o1.Set("extra", ast.Bool(true))

	if got, want := v2.JSON(), `{"list":[1,2],"obj":{"k":"v"}}`; got != want {
		t.Errorf("Second tree changed: got %#q, want %#q", got, want)
	}
}

func TestParse_textIsCopied(t *testing.T) {
	buf := []byte(`{"key": "value"}`)
	v, err := new(ast.Parser).Parse(mem.B(buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := range buf {
		buf[i] = 'x'
	}
	if got, want := v.JSON(), `{"key":"value"}`; got != want {
		t.Errorf("After overwriting input: got %#q, want %#q", got, want)
	}
}

func nested(depth int) string {
	return strings.Repeat("[", depth) + strings.Repeat("]", depth)
}

func TestParse_maxDepth(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		mtest.Swap(t, &ast.DefaultMaxDepth, 5)

		if _, err := ast.Parse(nested(5)); err != nil {
			t.Errorf("Depth 5: unexpected error: %v", err)
		}
		_, err := ast.ParseLazy(nested(6))
		if err == nil {
			t.Fatal("Depth 6: got nil, want error")
		}
		t.Logf("Depth 6: got expected error: %v", err)
		if got, want := err.Error(), "at 1:5: nesting depth exceeds 5"; got != want {
			t.Errorf("Depth 6: error is %q, want %q", got, want)
		}
	})

	t.Run("Parser", func(t *testing.T) {
		var p ast.Parser
		p.SetMaxDepth(2)
		if _, err := p.Parse(mem.S(`{"a": [1]}`)); err != nil {
			t.Errorf("Depth 2: unexpected error: %v", err)
		}
		if _, err := p.Parse(mem.S(`{"a": [{}]}`)); err == nil {
			t.Error("Depth 3: got nil, want error")
		} else {
			t.Logf("Depth 3: got expected error: %v", err)
		}

		p.SetMaxDepth(0) // restore the default
		if _, err := p.Parse(mem.S(nested(100))); err != nil {
			t.Errorf("Depth 100: unexpected error: %v", err)
		}
	})

	t.Run("Deep", func(t *testing.T) {
		v, err := ast.ParseLazy(nested(ast.DefaultMaxDepth))
		if err != nil {
			t.Fatalf("Depth %d: unexpected error: %v", ast.DefaultMaxDepth, err)
		}
		depth := 0
		for {
			a, ok := v.(*ast.Array)
			if !ok {
				break
			}
			depth++
			if a.Len() == 0 {
				break
			}
			v = a.Values[0]
		}
		if depth != ast.DefaultMaxDepth {
			t.Errorf("Got depth %d, want %d", depth, ast.DefaultMaxDepth)
		}
	})
}

func TestParse_JWCC(t *testing.T) {
	const input = `// Leading comment.
{
  "a": [1, 2, 3,], /* trailing commas */
  "b": {"c": true,},
}
`
	if _, err := ast.Parse(input); err == nil {
		t.Error("Parse without JWCC: got nil, want error")
	} else {
		t.Logf("Parse without JWCC: got expected error: %v", err)
	}

	var p ast.Parser
	p.AllowJWCC(true)
	for _, parse := range []func(mem.RO) (ast.Value, error){p.Parse, p.ParseLazy} {
		v, err := parse(mem.S(input))
		if err != nil {
			t.Fatalf("Parse with JWCC: unexpected error: %v", err)
		}
		if got, want := v.JSON(), `{"a":[1,2,3],"b":{"c":true}}`; got != want {
			t.Errorf("Parse with JWCC: got %#q, want %#q", got, want)
		}
	}

	// Errors are reported at their original positions.
	_, err := p.Parse(mem.S("/* one */ [1,\n  1e400,]"))
	if err == nil {
		t.Fatal("Parse with JWCC: got nil, want error")
	}
	if got, want := err.Error(), "at 2:2: invalid number 1e400"; got != want {
		t.Errorf("Parse with JWCC: error is %q, want %q", got, want)
	}
}

func TestParse_decoder(t *testing.T) {
	// Check that the trees agree with a conventional JSON decoder.
	inputs := []string{
		`null`,
		`[true, false, null]`,
		`{"name": "Ada", "tags": ["x", "y"], "age": 36}`,
		`{"s": "tab\there \"quoted\" \\ slash\/ éA"}`,
		`[0, -1, 1.5, -0.25, 2e3, 1E-2, 123456789]`,
		`{"nested": {"deeper": {"deepest": [[], {}, [{}]]}}}`,
		`{"k\n": 1, "dup": 1, "dup": 2}`,
		`"😀 emoji"`,
	}
	for _, input := range inputs {
		var want any
		if err := json.Unmarshal([]byte(input), &want); err != nil {
			t.Fatalf("Decoder %q: %v", input, err)
		}
		v, err := ast.Parse(input)
		if err != nil {
			t.Fatalf("Parse %q: %v", input, err)
		}
		got, err := toAny(v)
		if err != nil {
			t.Fatalf("Convert %q: %v", input, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse %q (-want, +got):\n%s", input, diff)
		}
	}
}

// toAny converts v to the representation used by a conventional decoder.
func toAny(v ast.Value) (any, error) {
	switch t := v.(type) {
	case ast.Null:
		return nil, nil
	case ast.Bool:
		return bool(t), nil
	case ast.Number:
		return float64(t), nil
	case ast.String:
		return t.Unescape()
	case *ast.Array:
		out := make([]any, len(t.Values))
		for i, elt := range t.Values {
			w, err := toAny(elt)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case *ast.Object:
		out := make(map[string]any)
		for key, val := range t.All() {
			k, err := ast.String(key).Unescape()
			if err != nil {
				return nil, err
			}
			w, err := toAny(val)
			if err != nil {
				return nil, err
			}
			out[k] = w
		}
		return out, nil
	}
	return nil, errors.New("unknown value type")
}

func keysOf(o *ast.Object) []string {
	var keys []string
	for key := range o.Keys() {
		keys = append(keys, key)
	}
	return keys
}
