// Package evaluator implements the Lox tree-walking evaluator.
package evaluator

import (
	"math"
	"strconv"

	"github.com/thomasrohde/lox/pkg/ast"
)

// Value is the interface for all Lox runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	loxValue() // sealed marker
}

// Nil represents the nil value.
type Nil struct{}

func (Nil) loxValue() {}

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) loxValue() {}

// Number represents a numeric value (IEEE-754 double).
type Number struct {
	Value float64
}

func (Number) loxValue() {}

// String represents an immutable string value.
type String struct {
	Value string
}

func (String) loxValue() {}

// Function is a closure: the function literal paired with the environment
// that was active when the literal was evaluated. The environment is held
// by reference, not copied, so closures defined in the same scope share it.
type Function struct {
	Decl    *ast.FunctionLiteral
	Closure *Env
}

func (*Function) loxValue() {}

// NativeFn is the host-side implementation of a native function. It
// receives the already-evaluated argument values.
type NativeFn func(args []Value) (Value, error)

// NativeFunction wraps a host callback bound into the global environment.
type NativeFunction struct {
	Name string
	Call NativeFn
}

func (*NativeFunction) loxValue() {}

// NewNil creates a nil value.
func NewNil() Value {
	return Nil{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// Truthiness returns the boolean interpretation of a Lox value.
// Only false and nil are falsy; everything else, including 0 and "",
// is truthy.
func Truthiness(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return val.Value
	default:
		return true
	}
}

// Display returns the user-visible form of a value, as written by print.
func Display(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if val.Value {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(val.Value)
	case String:
		return val.Value
	case *Function:
		if val.Decl.Name == "" {
			return "<fn>"
		}
		return "<fn " + val.Decl.Name + ">"
	case *NativeFunction:
		return "<native fn>"
	default:
		return "<unknown>"
	}
}

// FormatNumber renders a number in its shortest decimal form: integral
// values print without a fractional part.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Equal implements Lox value equality: numbers, strings, and booleans
// compare by value, nil equals only nil, and any other cross-kind pair is
// never equal. Functions compare unequal even to themselves.
func Equal(left, right Value) bool {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return l.Value == r.Value
		}
	case String:
		if r, ok := right.(String); ok {
			return l.Value == r.Value
		}
	case Bool:
		if r, ok := right.(Bool); ok {
			return l.Value == r.Value
		}
	case Nil:
		_, ok := right.(Nil)
		return ok
	}
	return false
}
