// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a tree of JSON values, and a finite-state parser that
// constructs trees from JSON source.
//
// A Value is one of the concrete types Null, Number, String, Bool, *Object,
// or *Array. Objects and arrays own their children; a tree never shares
// nodes with another tree.
package ast

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/creachadair/jfsm/internal/escape"
	"github.com/creachadair/mds/omap"
	"go4.org/mem"
)

// Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind Kind = iota
	NumberKind
	StringKind
	BoolKind
	ObjectKind
	ArrayKind
)

var kindStr = [...]string{
	NullKind:   "null",
	NumberKind: "number",
	StringKind: "string",
	BoolKind:   "bool",
	ObjectKind: "object",
	ArrayKind:  "array",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindStr[k]
}

// A Value is an arbitrary JSON value.
type Value interface {
	// Kind reports which concrete type the value has.
	Kind() Kind

	// JSON renders the value as compact JSON text.
	JSON() string
}

// KindOf returns the kind of v. A nil Value is treated as null.
func KindOf(v Value) Kind {
	if v == nil {
		return NullKind
	}
	return v.Kind()
}

// Null represents the null constant.
type Null struct{}

func (Null) Kind() Kind   { return NullKind }
func (Null) JSON() string { return "null" }

// A Number is a numeric value. Number literals are normalized to float64;
// their source formatting is not preserved.
type Number float64

func (Number) Kind() Kind { return NumberKind }

func (n Number) JSON() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// A String is a string value. Its contents are the raw text between the
// quotation marks of the source: escape sequences are kept as written, so a
// source \n is stored as a backslash followed by n. Use Unescape to decode.
type String string

// StringOf returns a String holding the JSON encoding of s.
func StringOf(s string) String { return String(escape.Quote(mem.S(s))) }

func (String) Kind() Kind { return StringKind }

func (s String) JSON() string { return `"` + string(s) + `"` }

// Unescape decodes the escape sequences in s.
func (s String) Unescape() (string, error) {
	dec, err := escape.Unquote(mem.S(string(s)))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) Kind() Kind { return BoolKind }

func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// An Object is a collection of key-value members. Keys are unique within an
// object and are kept in lexicographic order; setting an existing key
// replaces its value. A zero Object is empty and ready for use.
//
// Keys are raw string contents, with escape sequences as written in the
// source.
type Object struct {
	members omap.Map[string, Value]
	ready   bool
}

// NewObject constructs a new empty object.
func NewObject() *Object { return new(Object) }

func (*Object) Kind() Kind { return ObjectKind }

func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	i := 0
	for key, val := range o.All() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(String(key).JSON())
		sb.WriteByte(':')
		sb.WriteString(val.JSON())
		i++
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", o.Len()) }

// Len reports the number of members in o.
func (o *Object) Len() int {
	if o == nil || !o.ready {
		return 0
	}
	return o.members.Len()
}

// Find returns the value of the member of o with the given key, and reports
// whether the key was found.
func (o *Object) Find(key string) (Value, bool) {
	if o == nil || !o.ready {
		return nil, false
	}
	return o.members.GetOK(key)
}

// Set sets the value of the member of o with the given key, replacing any
// previous value for that key.
func (o *Object) Set(key string, v Value) {
	if !o.ready {
		o.members = omap.New[string, Value]()
		o.ready = true
	}
	o.members.Set(key, v)
}

// All returns an iterator over the members of o in key order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil || !o.ready {
			return
		}
		for key, val := range o.members.All() {
			if !yield(key, val) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of o in order.
func (o *Object) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for key := range o.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// NewArray constructs an array containing the given values.
func NewArray(vs ...Value) *Array { return &Array{Values: vs} }

func (*Array) Kind() Kind { return ArrayKind }

func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range a.Len() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.At(i).JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) String() string { return fmt.Sprintf("Array(len=%d)", a.Len()) }

// Len reports the number of elements in a.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Values)
}

// At returns the element of a at index i.
func (a *Array) At(i int) Value { return a.Values[i] }

// TypeMismatchError is reported by the typed accessors when a value does not
// have the requested kind.
type TypeMismatchError struct {
	Want, Got Kind
}

// Error satisfies the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: got %v, want %v", e.Got, e.Want)
}

// As returns v as concrete type T, or reports a *TypeMismatchError if v does
// not have that type.
func As[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Want: zero.Kind(), Got: KindOf(v)}
	}
	return t, nil
}

// AsNumber returns the numeric value of v, which must be a Number.
func AsNumber(v Value) (float64, error) {
	n, err := As[Number](v)
	return float64(n), err
}

// AsString returns the raw contents of v, which must be a String.
func AsString(v Value) (string, error) {
	s, err := As[String](v)
	return string(s), err
}

// AsBool returns the truth value of v, which must be a Bool.
func AsBool(v Value) (bool, error) {
	b, err := As[Bool](v)
	return bool(b), err
}

// AsObject returns v as an *Object.
func AsObject(v Value) (*Object, error) { return As[*Object](v) }

// AsArray returns v as an *Array.
func AsArray(v Value) (*Array, error) { return As[*Array](v) }

// IsNull reports whether v is null.
func IsNull(v Value) bool { return KindOf(v) == NullKind }

// Equal reports whether a and b are structurally equal: they have the same
// kind, and equal contents.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch t := a.(type) {
	case *Object:
		u := b.(*Object)
		if t.Len() != u.Len() {
			return false
		}
		for key, av := range t.All() {
			bv, ok := u.Find(key)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case *Array:
		u := b.(*Array)
		if t.Len() != u.Len() {
			return false
		}
		for i := range t.Len() {
			if !Equal(t.At(i), u.At(i)) {
				return false
			}
		}
		return true
	case nil, Null:
		return true
	default:
		return a == b
	}
}
