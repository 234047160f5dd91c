// Package builtins defines the default set of built-in functions.
package builtins

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/op"
)

func argsError(name string, expected string, got int) error {
	return errors.Newf(errors.CallError, "%s: expected %s, got %d", name, expected, got)
}

// Print returns the print builtin, which writes its arguments separated by
// spaces to w.
func Print(w io.Writer) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, arg.String())
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return nil, err
		}
		return object.Nil, nil
	}
}

func Len(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("len", "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *object.String:
		return object.NewInt(int64(arg.Len())), nil
	case *object.List:
		return object.NewInt(int64(arg.Len())), nil
	case *object.Map:
		return object.NewInt(int64(arg.Len())), nil
	default:
		return nil, errors.Newf(errors.TypeError, "len() unsupported argument (%s given)", args[0].Type())
	}
}

// Range returns a list of ints: range(stop), range(start, stop) or
// range(start, stop, step).
func Range(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, argsError("range", "1-3 arguments", len(args))
	}
	bounds := make([]int64, len(args))
	for i, arg := range args {
		n, err := object.AsInt(arg)
		if err != nil {
			return nil, err
		}
		bounds[i] = n
	}
	start, stop, step := int64(0), bounds[0], int64(1)
	if len(bounds) > 1 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) > 2 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, errors.Newf(errors.ValueError, "range() step must not be zero")
	}
	var items []object.Object
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items = append(items, object.NewInt(i))
	}
	return object.NewList(items), nil
}

func Str(ctx context.Context, args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.NewString(""), nil
	case 1:
		return object.NewString(args[0].String()), nil
	default:
		return nil, argsError("str", "0 or 1 arguments", len(args))
	}
}

func Int(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("int", "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return arg, nil
	case *object.Float:
		return object.NewInt(int64(arg.Value())), nil
	case *object.Bool:
		if arg.Value() {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case *object.String:
		n, err := strconv.ParseInt(strings.TrimSpace(arg.Value()), 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.ValueError, "invalid literal for int(): %s", arg.Inspect())
		}
		return object.NewInt(n), nil
	default:
		return nil, errors.Newf(errors.TypeError, "int() unsupported argument (%s given)", arg.Type())
	}
}

func Float(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("float", "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return object.NewFloat(float64(arg.Value())), nil
	case *object.Float:
		return arg, nil
	case *object.Bool:
		if arg.Value() {
			return object.NewFloat(1), nil
		}
		return object.NewFloat(0), nil
	case *object.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(arg.Value()), 64)
		if err != nil {
			return nil, errors.Newf(errors.ValueError, "could not convert string to float: %s", arg.Inspect())
		}
		return object.NewFloat(f), nil
	default:
		return nil, errors.Newf(errors.TypeError, "float() unsupported argument (%s given)", arg.Type())
	}
}

func Bool(ctx context.Context, args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.False, nil
	case 1:
		return object.NewBool(args[0].IsTruthy()), nil
	default:
		return nil, argsError("bool", "0 or 1 arguments", len(args))
	}
}

func List(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, argsError("list", "0 or 1 arguments", len(args))
	}
	if len(args) == 0 || args[0] == object.Nil {
		return object.NewList(nil), nil
	}
	switch arg := args[0].(type) {
	case *object.List:
		return object.NewList(arg.Items()), nil
	case *object.String:
		var items []object.Object
		for _, r := range arg.Value() {
			items = append(items, object.NewString(string(r)))
		}
		return object.NewList(items), nil
	case *object.Map:
		return keysOf(arg), nil
	default:
		return nil, errors.Newf(errors.TypeError, "list() unsupported argument (%s given)", arg.Type())
	}
}

// Dict copies a map or builds one from a list of [key, value] pairs.
func Dict(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, argsError("dict", "0 or 1 arguments", len(args))
	}
	result := object.NewMap()
	if len(args) == 0 || args[0] == object.Nil {
		return result, nil
	}
	switch arg := args[0].(type) {
	case *object.Map:
		arg.Each(func(key string, value object.Object) bool {
			result.Set(key, value)
			return true
		})
	case *object.List:
		for _, item := range arg.Items() {
			pair, ok := item.(*object.List)
			if !ok || pair.Len() != 2 {
				return nil, errors.Newf(errors.ValueError, "dict() expects [key, value] pairs")
			}
			items := pair.Items()
			result.Set(items[0].String(), items[1])
		}
	default:
		return nil, errors.Newf(errors.TypeError, "dict() unsupported argument (%s given)", arg.Type())
	}
	return result, nil
}

func Type(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("type", "1 argument", len(args))
	}
	return object.NewString(string(args[0].Type())), nil
}

func Abs(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("abs", "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		if arg.Value() < 0 {
			return object.NewInt(-arg.Value()), nil
		}
		return arg, nil
	case *object.Float:
		return object.NewFloat(math.Abs(arg.Value())), nil
	default:
		return nil, errors.Newf(errors.TypeError, "abs() unsupported argument (%s given)", arg.Type())
	}
}

// extremum implements min and max. A single list argument is searched
// itself; no arguments yield null.
func extremum(want op.CompareOpType, args []object.Object) (object.Object, error) {
	if len(args) == 1 {
		if list, ok := args[0].(*object.List); ok {
			args = list.Items()
		}
	}
	if len(args) == 0 {
		return object.Nil, nil
	}
	best := args[0]
	for _, arg := range args[1:] {
		better, err := object.Compare(want, arg, best)
		if err != nil {
			return nil, err
		}
		if better.IsTruthy() {
			best = arg
		}
	}
	return best, nil
}

func Min(ctx context.Context, args ...object.Object) (object.Object, error) {
	return extremum(op.LessThan, args)
}

func Max(ctx context.Context, args ...object.Object) (object.Object, error) {
	return extremum(op.GreaterThan, args)
}

func Sum(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("sum", "1 argument", len(args))
	}
	list, err := object.AsList(args[0])
	if err != nil {
		return nil, err
	}
	var total object.Object = object.NewInt(0)
	for _, item := range list.Items() {
		if total, err = object.BinaryOp(op.Add, total, item); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Round rounds half to even. Without a digits argument the result is an
// int; with one it is a float.
func Round(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, argsError("round", "1 or 2 arguments", len(args))
	}
	if i, ok := args[0].(*object.Int); ok && len(args) == 1 {
		return i, nil
	}
	x, err := object.AsFloat(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return object.NewInt(int64(math.RoundToEven(x))), nil
	}
	digits, err := object.AsInt(args[1])
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, float64(digits))
	return object.NewFloat(math.RoundToEven(x*scale) / scale), nil
}

// Error raises an error with the given message.
func Error(ctx context.Context, args ...object.Object) (object.Object, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.String())
	}
	err := errors.Newf(errors.ThrownError, "%s", strings.Join(parts, " "))
	if len(args) == 1 {
		err.Value = args[0]
	}
	return nil, err
}

func keysOf(m *object.Map) *object.List {
	keys := m.Keys()
	items := make([]object.Object, 0, len(keys))
	for _, k := range keys {
		items = append(items, object.NewString(k))
	}
	return object.NewList(items)
}

func Keys(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("keys", "1 argument", len(args))
	}
	m, err := mapArg(args[0])
	if err != nil {
		return nil, err
	}
	return keysOf(m), nil
}

func Values(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, argsError("values", "1 argument", len(args))
	}
	m, err := mapArg(args[0])
	if err != nil {
		return nil, err
	}
	return object.NewList(m.Values()), nil
}

func mapArg(obj object.Object) (*object.Map, error) {
	if module, ok := obj.(*object.Module); ok {
		return module.Exports(), nil
	}
	return object.AsMap(obj)
}

// Builtins returns the default builtins. Output of print and say goes to
// stdout.
func Builtins(stdout io.Writer) map[string]object.Object {
	printFn := Print(stdout)
	return map[string]object.Object{
		"abs":    object.NewBuiltin("abs", Abs),
		"bool":   object.NewBuiltin("bool", Bool),
		"dict":   object.NewBuiltin("dict", Dict),
		"error":  object.NewBuiltin("error", Error),
		"float":  object.NewBuiltin("float", Float),
		"int":    object.NewBuiltin("int", Int),
		"keys":   object.NewBuiltin("keys", Keys),
		"len":    object.NewBuiltin("len", Len),
		"list":   object.NewBuiltin("list", List),
		"max":    object.NewBuiltin("max", Max),
		"min":    object.NewBuiltin("min", Min),
		"print":  object.NewBuiltin("print", printFn),
		"range":  object.NewBuiltin("range", Range),
		"round":  object.NewBuiltin("round", Round),
		"say":    object.NewBuiltin("say", printFn),
		"str":    object.NewBuiltin("str", Str),
		"sum":    object.NewBuiltin("sum", Sum),
		"type":   object.NewBuiltin("type", Type),
		"values": object.NewBuiltin("values", Values),
	}
}

// Global returns the value bound to "global": a namespace over the root
// frame of the program.
func Global(root object.Frame) object.Object {
	return object.NewNamespace("global", root)
}
