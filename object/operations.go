package object

import (
	"math"
	"strings"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/op"
)

// Compare two objects using the given comparison operator. Equality is
// structural; ordering requires two numbers or two strings.
func Compare(opType op.CompareOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), nil
	case op.NotEqual:
		return NewBool(!a.Equals(b)), nil
	}

	comparable, ok := a.(Comparable)
	if !ok {
		return nil, typeErrorf("unsupported operand types for %s: %s and %s", opType, a.Type(), b.Type())
	}
	value, err := comparable.Compare(b)
	if err != nil {
		return nil, typeErrorf("unsupported operand types for %s: %s and %s", opType, a.Type(), b.Type())
	}

	switch opType {
	case op.LessThan:
		return NewBool(value < 0), nil
	case op.LessThanOrEqual:
		return NewBool(value <= 0), nil
	case op.GreaterThan:
		return NewBool(value > 0), nil
	case op.GreaterThanOrEqual:
		return NewBool(value >= 0), nil
	default:
		return nil, errors.Newf(errors.OperatorError, "unknown comparison operator: %d", opType)
	}
}

// BinaryOp performs a binary operation on two objects, given an operator.
// The tree-walking evaluator and the VM both route arithmetic through here.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Add:
		return add(a, b)
	case op.Subtract, op.Multiply, op.Divide, op.Modulo, op.Power:
		if result, ok := arithmetic(opType, a, b); ok {
			return result, nil
		}
		if opType == op.Multiply {
			if result, ok, err := repeat(a, b); ok {
				return result, err
			}
		}
	case op.Xor, op.LShift, op.RShift, op.BitwiseAnd, op.BitwiseOr:
		return bitwise(opType, a, b)
	default:
		return nil, errors.Newf(errors.OperatorError, "unknown binary operator: %d", opType)
	}
	return nil, unsupported(opType, a, b)
}

func unsupported(opType op.BinaryOpType, a, b Object) error {
	return typeErrorf("unsupported operand types for %s: %s and %s", opType, a.Type(), b.Type())
}

func add(a, b Object) (Object, error) {
	if result, ok := arithmetic(op.Add, a, b); ok {
		return result, nil
	}
	switch a := a.(type) {
	case *String:
		if b, ok := b.(*String); ok {
			return NewString(a.value + b.value), nil
		}
	case *List:
		if b, ok := b.(*List); ok {
			items := make([]Object, 0, len(a.items)+len(b.items))
			items = append(items, a.items...)
			items = append(items, b.items...)
			return NewList(items), nil
		}
	}
	return nil, unsupported(op.Add, a, b)
}

// arithmetic handles operations where both operands are numbers. Two ints
// stay ints except for division, which always produces a float.
func arithmetic(opType op.BinaryOpType, a, b Object) (Object, bool) {
	ai, aIsInt := a.(*Int)
	bi, bIsInt := b.(*Int)
	if aIsInt && bIsInt {
		return intOp(opType, ai.value, bi.value), true
	}
	af, ok := toFloat(a)
	if !ok {
		return nil, false
	}
	bf, ok := toFloat(b)
	if !ok {
		return nil, false
	}
	return floatOp(opType, af, bf), true
}

func toFloat(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case *Int:
		return float64(obj.value), true
	case *Float:
		return obj.value, true
	default:
		return 0, false
	}
}

// intOp applies an arithmetic operator to two ints. Results that do not fit
// in an int64 are computed as floats instead of wrapping.
func intOp(opType op.BinaryOpType, a, b int64) Object {
	switch opType {
	case op.Add:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			break
		}
		return NewInt(a + b)
	case op.Subtract:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			break
		}
		return NewInt(a - b)
	case op.Multiply:
		if product, ok := mulInt(a, b); ok {
			return NewInt(product)
		}
	case op.Modulo:
		if b == 0 {
			return NewInt(0)
		}
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return NewInt(r)
	case op.Power:
		if b >= 0 {
			if result, ok := intPow(a, b); ok {
				return NewInt(result)
			}
		}
	}
	return floatOp(opType, float64(a), float64(b))
}

func floatOp(opType op.BinaryOpType, a, b float64) Object {
	switch opType {
	case op.Add:
		return NewFloat(a + b)
	case op.Subtract:
		return NewFloat(a - b)
	case op.Multiply:
		return NewFloat(a * b)
	case op.Divide:
		if b == 0 {
			return NewFloat(math.Inf(1))
		}
		return NewFloat(a / b)
	case op.Modulo:
		if b == 0 {
			return NewInt(0)
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return NewFloat(r)
	default: // op.Power
		return NewFloat(math.Pow(a, b))
	}
}

// mulInt multiplies two ints, reporting false on overflow.
func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

// intPow raises base to a non-negative power, reporting false on overflow.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, ok := mulInt(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp > 0 {
			b, ok := mulInt(base, base)
			if !ok {
				return 0, false
			}
			base = b
		}
	}
	return result, true
}

// MaxRepeatLength is the largest string (in bytes) or list (in items) that
// repetition with * may produce.
const MaxRepeatLength = 1 << 26

// repeat implements string * int and list * int, in either order. The
// boolean reports whether the operands have those types.
func repeat(a, b Object) (Object, bool, error) {
	if _, ok := a.(*Int); ok {
		a, b = b, a
	}
	n, ok := b.(*Int)
	if !ok {
		return nil, false, nil
	}
	count := max(n.value, 0)
	var size int64
	switch a := a.(type) {
	case *String:
		size = int64(len(a.value))
	case *List:
		size = int64(len(a.items))
	default:
		return nil, false, nil
	}
	if size == 0 {
		count = 0
	} else if count > MaxRepeatLength/size {
		return nil, true, errors.Newf(errors.ValueError,
			"repeated %s would exceed %d elements", a.Type(), MaxRepeatLength)
	}
	switch a := a.(type) {
	case *String:
		return NewString(strings.Repeat(a.value, int(count))), true, nil
	case *List:
		items := make([]Object, 0, len(a.items)*int(count))
		for i := int64(0); i < count; i++ {
			items = append(items, a.items...)
		}
		return NewList(items), true, nil
	}
	return nil, false, nil
}

// toInt coerces an operand of a bitwise operator. Floats are truncated.
func toInt(obj Object) (int64, bool) {
	switch obj := obj.(type) {
	case *Int:
		return obj.value, true
	case *Float:
		return int64(obj.value), true
	case *Bool:
		if obj.value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func bitwise(opType op.BinaryOpType, a, b Object) (Object, error) {
	ai, ok := toInt(a)
	if !ok {
		return nil, unsupported(opType, a, b)
	}
	bi, ok := toInt(b)
	if !ok {
		return nil, unsupported(opType, a, b)
	}
	switch opType {
	case op.Xor:
		return NewInt(ai ^ bi), nil
	case op.BitwiseAnd:
		return NewInt(ai & bi), nil
	case op.BitwiseOr:
		return NewInt(ai | bi), nil
	}
	if bi < 0 {
		return nil, errors.Newf(errors.ValueError, "negative shift count: %d", bi)
	}
	if opType == op.LShift {
		return NewInt(ai << uint64(bi)), nil
	}
	return NewInt(ai >> uint64(bi)), nil
}

// Negate implements unary minus.
func Negate(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int:
		return NewInt(-obj.value), nil
	case *Float:
		return NewFloat(-obj.value), nil
	default:
		return nil, typeErrorf("bad operand type for unary -: %s", obj.Type())
	}
}

// BitwiseNot implements unary ~.
func BitwiseNot(obj Object) (Object, error) {
	value, ok := toInt(obj)
	if !ok {
		return nil, typeErrorf("bad operand type for unary ~: %s", obj.Type())
	}
	return NewInt(^value), nil
}
