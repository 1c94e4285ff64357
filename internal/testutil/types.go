// Package testutil defines support code for unit tests.
package testutil

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/creachadair/jfsm/ast"
)

// RandomValue returns a pseudo-random value drawn from f, nested no more than
// depth levels deep. Strings may contain characters that need escaping.
func RandomValue(f *gofakeit.Faker, depth int) ast.Value {
	kinds := 4
	if depth > 0 {
		kinds = 6 // allow containers
	}
	switch f.Number(0, kinds-1) {
	case 0:
		return ast.Null{}
	case 1:
		return ast.Bool(f.Bool())
	case 2:
		if f.Bool() {
			return ast.Number(f.Number(-1000000, 1000000))
		}
		return ast.Number(f.Float64Range(-1e12, 1e12))
	case 3:
		return RandomString(f)
	case 4:
		arr := new(ast.Array)
		for range f.Number(0, 5) {
			arr.Values = append(arr.Values, RandomValue(f, depth-1))
		}
		return arr
	default:
		obj := ast.NewObject()
		for range f.Number(0, 5) {
			obj.Set(string(RandomString(f)), RandomValue(f, depth-1))
		}
		return obj
	}
}

// RandomString returns a pseudo-random string value drawn from f.
func RandomString(f *gofakeit.Faker) ast.String {
	switch f.Number(0, 3) {
	case 0:
		return ast.StringOf("")
	case 1:
		return ast.StringOf(f.Word())
	case 2:
		return ast.StringOf(f.Sentence(f.Number(1, 6)))
	default:
		// Quotes, backslashes, control characters, and non-ASCII text.
		return ast.StringOf(f.Word() + "\t\"" + f.Emoji() + `\` + "\n" + f.Name())
	}
}
