package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/op"
)

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		name     string
		opType   op.BinaryOpType
		left     Object
		right    Object
		expected Object
	}{
		{"int add", op.Add, NewInt(1), NewInt(2), NewInt(3)},
		{"mixed add", op.Add, NewInt(1), NewFloat(0.5), NewFloat(1.5)},
		{"string concat", op.Add, NewString("ab"), NewString("cd"), NewString("abcd")},
		{"list concat", op.Add, NewList([]Object{NewInt(1)}), NewList([]Object{NewInt(2)}),
			NewList([]Object{NewInt(1), NewInt(2)})},
		{"int subtract", op.Subtract, NewInt(5), NewInt(7), NewInt(-2)},
		{"int multiply", op.Multiply, NewInt(6), NewInt(7), NewInt(42)},
		{"true division", op.Divide, NewInt(7), NewInt(2), NewFloat(3.5)},
		{"even division is float", op.Divide, NewInt(4), NewInt(2), NewFloat(2)},
		{"modulo", op.Modulo, NewInt(7), NewInt(3), NewInt(1)},
		{"modulo follows divisor sign", op.Modulo, NewInt(-7), NewInt(3), NewInt(2)},
		{"negative divisor", op.Modulo, NewInt(7), NewInt(-3), NewInt(-2)},
		{"float modulo", op.Modulo, NewFloat(-1.5), NewInt(1), NewFloat(0.5)},
		{"modulo by zero", op.Modulo, NewInt(5), NewInt(0), NewInt(0)},
		{"float modulo by zero", op.Modulo, NewFloat(5.5), NewInt(0), NewInt(0)},
		{"int power", op.Power, NewInt(2), NewInt(10), NewInt(1024)},
		{"negative exponent", op.Power, NewInt(2), NewInt(-1), NewFloat(0.5)},
		{"float power", op.Power, NewFloat(4), NewFloat(0.5), NewFloat(2)},
		{"string repeat", op.Multiply, NewString("ab"), NewInt(3), NewString("ababab")},
		{"repeat reversed", op.Multiply, NewInt(2), NewString("x"), NewString("xx")},
		{"negative repeat", op.Multiply, NewString("x"), NewInt(-1), NewString("")},
		{"list repeat", op.Multiply, NewList([]Object{NewInt(0)}), NewInt(2),
			NewList([]Object{NewInt(0), NewInt(0)})},
		{"bitwise and", op.BitwiseAnd, NewInt(6), NewInt(3), NewInt(2)},
		{"bitwise or", op.BitwiseOr, NewInt(6), NewInt(3), NewInt(7)},
		{"xor", op.Xor, NewInt(6), NewInt(3), NewInt(5)},
		{"shift left", op.LShift, NewInt(1), NewInt(4), NewInt(16)},
		{"shift right", op.RShift, NewInt(16), NewInt(2), NewInt(4)},
		{"bitwise coerces floats", op.BitwiseOr, NewFloat(2.9), True, NewInt(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BinaryOp(tt.opType, tt.left, tt.right)
			require.Nil(t, err)
			require.Equal(t, tt.expected.Type(), result.Type())
			require.True(t, tt.expected.Equals(result), "got %s", result.Inspect())
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, left := range []Object{NewInt(5), NewInt(-5), NewFloat(2.5)} {
		result, err := BinaryOp(op.Divide, left, NewInt(0))
		require.Nil(t, err)
		require.True(t, math.IsInf(result.(*Float).Value(), 1))
	}
}

func TestIntOverflowBecomesFloat(t *testing.T) {
	tests := []struct {
		name     string
		opType   op.BinaryOpType
		left     int64
		right    int64
		expected float64
	}{
		{"add", op.Add, math.MaxInt64, 1, float64(math.MaxInt64) + 1},
		{"subtract", op.Subtract, math.MinInt64, 1, float64(math.MinInt64) - 1},
		{"multiply", op.Multiply, math.MaxInt64, 2, float64(math.MaxInt64) * 2},
		{"multiply min by -1", op.Multiply, math.MinInt64, -1, -float64(math.MinInt64)},
		{"power", op.Power, 2, 63, math.Pow(2, 63)},
		{"large power", op.Power, 10, 30, math.Pow(10, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BinaryOp(tt.opType, NewInt(tt.left), NewInt(tt.right))
			require.Nil(t, err)
			f, ok := result.(*Float)
			require.True(t, ok, "got %s", result.Inspect())
			require.Equal(t, tt.expected, f.Value())
		})
	}

	result, err := BinaryOp(op.Power, NewInt(2), NewInt(62))
	require.Nil(t, err)
	require.Equal(t, NewInt(1<<62), result)
	result, err = BinaryOp(op.Power, NewInt(-2), NewInt(63))
	require.Nil(t, err)
	require.Equal(t, NewInt(math.MinInt64), result)
}

func TestRepeatLimit(t *testing.T) {
	_, err := BinaryOp(op.Multiply, NewList([]Object{NewInt(1), NewInt(2)}), NewInt(math.MaxInt64))
	require.ErrorIs(t, err, errors.ValueError)
	require.Contains(t, errors.Message(err), "would exceed")

	_, err = BinaryOp(op.Multiply, NewInt(math.MaxInt64), NewString("ab"))
	require.ErrorIs(t, err, errors.ValueError)

	result, err := BinaryOp(op.Multiply, NewList(nil), NewInt(math.MaxInt64))
	require.Nil(t, err)
	require.Equal(t, 0, result.(*List).Len())
}

func TestBinaryOpErrors(t *testing.T) {
	tests := []struct {
		opType op.BinaryOpType
		left   Object
		right  Object
		msg    string
	}{
		{op.Add, NewString("a"), NewInt(1), "unsupported operand types for +: string and int"},
		{op.Subtract, NewString("a"), NewString("b"), "unsupported operand types for -: string and string"},
		{op.Divide, Nil, NewInt(1), "unsupported operand types for /: null and int"},
		{op.BitwiseAnd, NewString("a"), NewInt(1), "unsupported operand types for &: string and int"},
		{op.LShift, NewInt(1), NewInt(-1), "negative shift count: -1"},
	}
	for _, tt := range tests {
		_, err := BinaryOp(tt.opType, tt.left, tt.right)
		require.Error(t, err)
		require.Equal(t, tt.msg, errors.Message(err))
	}
	_, err := BinaryOp(op.Add, NewString("a"), NewInt(1))
	require.ErrorIs(t, err, errors.TypeError)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		opType   op.CompareOpType
		left     Object
		right    Object
		expected bool
	}{
		{op.Equal, NewInt(1), NewFloat(1), true},
		{op.Equal, NewString("a"), NewString("a"), true},
		{op.Equal, NewList([]Object{NewInt(1)}), NewList([]Object{NewInt(1)}), true},
		{op.NotEqual, NewString("a"), NewInt(1), true},
		{op.Equal, Nil, Nil, true},
		{op.Equal, Nil, False, false},
		{op.LessThan, NewInt(1), NewInt(2), true},
		{op.LessThanOrEqual, NewFloat(2), NewInt(2), true},
		{op.GreaterThan, NewString("b"), NewString("a"), true},
		{op.GreaterThanOrEqual, NewInt(1), NewFloat(1.5), false},
	}
	for _, tt := range tests {
		result, err := Compare(tt.opType, tt.left, tt.right)
		require.Nil(t, err)
		require.Equal(t, NewBool(tt.expected), result, "%s %s %s", tt.left.Inspect(), tt.opType, tt.right.Inspect())
	}

	_, err := Compare(op.LessThan, NewString("a"), NewInt(1))
	require.Error(t, err)
	require.Equal(t, "unsupported operand types for <: string and int", errors.Message(err))

	_, err = Compare(op.GreaterThan, Nil, NewInt(1))
	require.Error(t, err)
}

func TestUnaryOps(t *testing.T) {
	result, err := Negate(NewInt(3))
	require.Nil(t, err)
	require.Equal(t, NewInt(-3), result)

	result, err = Negate(NewFloat(1.5))
	require.Nil(t, err)
	require.Equal(t, NewFloat(-1.5), result)

	_, err = Negate(NewString("x"))
	require.Error(t, err)

	result, err = BitwiseNot(NewInt(5))
	require.Nil(t, err)
	require.Equal(t, NewInt(-6), result)

	require.Equal(t, True, Not(Nil))
	require.Equal(t, False, Not(NewString("x")))
}

func TestTruthiness(t *testing.T) {
	falsy := []Object{Nil, False, NewInt(0), NewFloat(0), NewString(""), NewList(nil), NewMap()}
	for _, obj := range falsy {
		require.False(t, obj.IsTruthy(), obj.Inspect())
	}
	truthy := []Object{True, NewInt(-1), NewFloat(0.1), NewString("0"),
		NewList([]Object{Nil}), NewMapFrom(map[string]Object{"a": Nil})}
	for _, obj := range truthy {
		require.True(t, obj.IsTruthy(), obj.Inspect())
	}
}
