// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"
)

// A Formatter carries the settings for pretty-printing values.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the text used for each level of indentation.
	// If empty, two spaces are used.
	Indent string

	// MaxLineItems is the largest number of elements an array may have and
	// still be rendered on a single line. If zero, 3 is used.
	MaxLineItems int
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

func (f Formatter) maxLineItems() int {
	if f.MaxLineItems <= 0 {
		return 3
	}
	return f.MaxLineItems
}

// Format renders a pretty-printed representation of v to w with default
// settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// Format renders a pretty-printed representation of v to w using the settings
// from f. The output ends with a newline.
func (f Formatter) Format(w io.Writer, v Value) error {
	tw := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	f.formatValue(tw, v, "", "")
	io.WriteString(tw, "\n")
	return tw.Flush()
}

type writeFlusher interface {
	io.Writer
	Flush() error
}

// formatValue writes a representation of v to w. The first line is prefixed
// by init, and subsequent lines are indented by indent.
func (f Formatter) formatValue(w writeFlusher, v Value, init, indent string) {
	switch t := v.(type) {
	case *Array:
		f.formatArray(w, t, init, indent)
	case *Object:
		f.formatObject(w, t, init, indent)
	case nil:
		fmt.Fprint(w, init, Null{}.JSON())
	default:
		fmt.Fprint(w, init, t.JSON())
	}
}

func (f Formatter) formatArray(w writeFlusher, a *Array, init, indent string) {
	if f.isBoring(a) {
		fmt.Fprint(w, init, "[")
		for i := range a.Len() {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			f.formatValue(w, a.At(i), "", "")
		}
		io.WriteString(w, "]")
		return
	}

	fmt.Fprint(w, init, "[\n")
	adent := indent + f.indent()
	for i := range a.Len() {
		f.formatValue(w, a.At(i), adent, adent)
		io.WriteString(w, f.sep(i, a.Len()))
	}
	w.Flush()
	fmt.Fprint(w, indent, "]")
}

func (f Formatter) formatObject(w writeFlusher, o *Object, init, indent string) {
	if f.isBoring(o) {
		fmt.Fprint(w, init, "{")
		for key, v := range o.All() {
			fmt.Fprint(w, String(key).JSON(), ": ")
			f.formatValue(w, v, "", "")
		}
		io.WriteString(w, "}")
		return
	}

	fmt.Fprint(w, init, "{\n")
	mdent := indent + f.indent()
	prevBoring, curBoring := true, true
	i, n := 0, o.Len()
	for key, v := range o.All() {
		// Leave extra space before the next member if either it or its
		// predecessor was non-boring.
		prevBoring, curBoring = curBoring, f.isBoring(v)
		if i != 0 && !(prevBoring && curBoring) {
			io.WriteString(w, "\n")
		}

		fmt.Fprint(w, mdent, String(key).JSON(), f.objSep(v))
		f.formatValue(w, v, "", mdent)
		io.WriteString(w, f.sep(i, n))
		i++
	}
	w.Flush()
	fmt.Fprint(w, indent, "}")
}

// sep returns the separator following element i of n.
func (Formatter) sep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

// objSep returns a key-value separator for the given value.
// Boring values get indented so they line up in columns;
// non-boring values are stapled directly to the key.
func (f Formatter) objSep(v Value) string {
	if f.isBoring(v) {
		return ":\t"
	}
	return ": "
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Value) bool {
	switch t := v.(type) {
	case *Array:
		for i := range t.Len() {
			if !f.isBoring(t.At(i)) || i >= f.maxLineItems() {
				return false
			}
		}
		return true
	case *Object:
		if t.Len() == 1 {
			for _, v := range t.All() {
				return f.isBoring(v)
			}
		}
		return t.Len() == 0
	default:
		return true
	}
}
