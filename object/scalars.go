package object

import (
	"math"
	"strconv"
	"strings"
)

// NilType is the type of the null value. There is a single instance, Nil.
type NilType struct{}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) Inspect() string {
	return "null"
}

func (n *NilType) String() string {
	return "null"
}

func (n *NilType) Interface() any {
	return nil
}

func (n *NilType) Equals(other Object) bool {
	_, ok := other.(*NilType)
	return ok
}

func (n *NilType) IsTruthy() bool {
	return false
}

func (n *NilType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool wraps a bool. Use NewBool, True or False to obtain one.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o.value == b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

// Int wraps int64.
type Int struct {
	value int64
}

func NewInt(value int64) *Int {
	return &Int{value: value}
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Interface() any {
	return i.value
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	default:
		return false
	}
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

func (i *Int) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Int:
		return compareInts(i.value, other.value), nil
	case *Float:
		return compareFloats(float64(i.value), other.value), nil
	default:
		return 0, typeErrorf("unable to compare int and %s", other.Type())
	}
}

// Float wraps float64.
type Float struct {
	value float64
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Inspect() string {
	switch {
	case math.IsInf(f.value, 1):
		return "inf"
	case math.IsInf(f.value, -1):
		return "-inf"
	case math.IsNaN(f.value):
		return "nan"
	}
	return formatFloat(f.value)
}

// formatFloat renders a float so it always reads as one: integral values
// keep a ".0" suffix, and very large or small magnitudes use an exponent.
func formatFloat(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Interface() any {
	return f.value
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	default:
		return false
	}
}

func (f *Float) IsTruthy() bool {
	return f.value != 0
}

func (f *Float) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Float:
		return compareFloats(f.value, other.value), nil
	case *Int:
		return compareFloats(f.value, float64(other.value)), nil
	default:
		return 0, typeErrorf("unable to compare float and %s", other.Type())
	}
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
