package builtins

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

func call(t *testing.T, fn object.BuiltinFunction, args ...object.Object) object.Object {
	t.Helper()
	result, err := fn(context.Background(), args...)
	require.Nil(t, err)
	return result
}

func ints(values ...int64) *object.List {
	items := make([]object.Object, 0, len(values))
	for _, v := range values {
		items = append(items, object.NewInt(v))
	}
	return object.NewList(items)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	b := Builtins(&buf)
	_, err := b["print"].(*object.Builtin).Call(context.Background(),
		object.NewString("a"), object.NewInt(1), object.Nil, ints(1, 2))
	require.Nil(t, err)
	_, err = b["say"].(*object.Builtin).Call(context.Background(), object.True)
	require.Nil(t, err)
	require.Equal(t, "a 1 null [1, 2]\ntrue\n", buf.String())
}

func TestLen(t *testing.T) {
	require.Equal(t, object.NewInt(2), call(t, Len, object.NewString("hé")))
	require.Equal(t, object.NewInt(3), call(t, Len, ints(1, 2, 3)))
	require.Equal(t, object.NewInt(0), call(t, Len, object.NewMap()))
	_, err := Len(context.Background(), object.NewInt(1))
	require.ErrorIs(t, err, errors.TypeError)
	_, err = Len(context.Background())
	require.ErrorIs(t, err, errors.CallError)
}

func TestRange(t *testing.T) {
	require.Equal(t, "[0, 1, 2]", call(t, Range, object.NewInt(3)).Inspect())
	require.Equal(t, "[2, 3, 4]", call(t, Range, object.NewInt(2), object.NewInt(5)).Inspect())
	require.Equal(t, "[10, 7, 4]", call(t, Range, object.NewInt(10), object.NewInt(2), object.NewInt(-3)).Inspect())
	require.Equal(t, "[]", call(t, Range, object.NewInt(-1)).Inspect())
	_, err := Range(context.Background(), object.NewInt(1), object.NewInt(2), object.NewInt(0))
	require.ErrorIs(t, err, errors.ValueError)
}

func TestConversions(t *testing.T) {
	require.Equal(t, object.NewString("1.5"), call(t, Str, object.NewFloat(1.5)))
	require.Equal(t, object.NewString("x"), call(t, Str, object.NewString("x")))
	require.Equal(t, object.NewInt(3), call(t, Int, object.NewFloat(3.9)))
	require.Equal(t, object.NewInt(-3), call(t, Int, object.NewFloat(-3.9)))
	require.Equal(t, object.NewInt(42), call(t, Int, object.NewString(" 42 ")))
	require.Equal(t, object.NewFloat(2.5), call(t, Float, object.NewString("2.5")))
	require.Equal(t, object.NewFloat(1), call(t, Float, object.True))
	require.Equal(t, object.True, call(t, Bool, object.NewString("x")))
	require.Equal(t, object.False, call(t, Bool, object.NewList(nil)))

	_, err := Int(context.Background(), object.NewString("3.5"))
	require.ErrorIs(t, err, errors.ValueError)
	require.Equal(t, `invalid literal for int(): "3.5"`, errors.Message(err))
}

func TestListAndDict(t *testing.T) {
	require.Equal(t, `["a", "b"]`, call(t, List, object.NewString("ab")).Inspect())
	require.Equal(t, "[]", call(t, List).Inspect())

	original := ints(1)
	copied := call(t, List, original).(*object.List)
	copied.Append(object.NewInt(2))
	require.Equal(t, 1, original.Len())

	pairs := object.NewList([]object.Object{
		object.NewList([]object.Object{object.NewString("a"), object.NewInt(1)}),
		object.NewList([]object.Object{object.NewString("b"), object.NewInt(2)}),
	})
	m := call(t, Dict, pairs)
	require.Equal(t, `{"a": 1, "b": 2}`, m.Inspect())
	require.Equal(t, `["a", "b"]`, call(t, List, m).Inspect())
	require.Equal(t, `["a", "b"]`, call(t, Keys, m).Inspect())
	require.Equal(t, `[1, 2]`, call(t, Values, m).Inspect())
	require.Equal(t, "{}", call(t, Dict).Inspect())

	_, err := Dict(context.Background(), ints(1))
	require.ErrorIs(t, err, errors.ValueError)
}

func TestNumericHelpers(t *testing.T) {
	require.Equal(t, object.NewInt(5), call(t, Abs, object.NewInt(-5)))
	require.Equal(t, object.NewFloat(2.5), call(t, Abs, object.NewFloat(-2.5)))
	require.Equal(t, object.NewInt(1), call(t, Min, object.NewInt(3), object.NewInt(1), object.NewInt(2)))
	require.Equal(t, object.NewInt(3), call(t, Max, ints(3, 1, 2)))
	require.Equal(t, object.Nil, call(t, Max))
	require.Equal(t, object.NewString("b"), call(t, Max, object.NewString("a"), object.NewString("b")))
	require.Equal(t, object.NewInt(6), call(t, Sum, ints(1, 2, 3)))
	require.Equal(t, object.NewFloat(1.5), call(t, Sum, object.NewList([]object.Object{object.NewInt(1), object.NewFloat(0.5)})))
	require.Equal(t, object.NewInt(2), call(t, Round, object.NewFloat(2.5)))
	require.Equal(t, object.NewInt(4), call(t, Round, object.NewFloat(3.5)))
	require.Equal(t, object.NewFloat(3.14), call(t, Round, object.NewFloat(3.14159), object.NewInt(2)))
	require.Equal(t, object.NewInt(7), call(t, Round, object.NewInt(7)))

	_, err := Min(context.Background(), object.NewInt(1), object.NewString("a"))
	require.ErrorIs(t, err, errors.TypeError)
}

func TestType(t *testing.T) {
	tests := map[object.Object]string{
		object.NewInt(1):     "int",
		object.NewFloat(1):   "float",
		object.NewString(""): "string",
		object.Nil:           "null",
		object.True:          "bool",
		ints():               "list",
		object.NewMap():      "map",
	}
	for obj, expected := range tests {
		require.Equal(t, object.NewString(expected), call(t, Type, obj))
	}
}

func TestError(t *testing.T) {
	_, err := Error(context.Background(), object.NewString("boom"))
	require.ErrorIs(t, err, errors.ThrownError)
	require.Equal(t, "boom", err.Error())
	require.Equal(t, object.NewString("boom"), err.(*errors.RuntimeError).Value)
}

type frame map[string]object.Object

func (f frame) Lookup(name string) (object.Object, bool) {
	v, ok := f[name]
	return v, ok
}

func (f frame) Assign(name string, value object.Object) error {
	f[name] = value
	return nil
}

func TestGlobal(t *testing.T) {
	root := frame{}
	g := Global(root).(*object.Namespace)
	require.Nil(t, g.SetAttr("x", object.NewInt(1)))
	require.Equal(t, object.NewInt(1), root["x"])
}

func TestDocsCoverBuiltins(t *testing.T) {
	documented := map[string]bool{}
	for _, spec := range Docs() {
		require.NotEmpty(t, spec.Doc, spec.Name)
		documented[spec.Name] = true
	}
	for name := range Builtins(&bytes.Buffer{}) {
		require.True(t, documented[name], "builtin %s has no docs", name)
	}
	require.True(t, documented["global"])
	require.Len(t, documented, len(Builtins(&bytes.Buffer{}))+1)
}
