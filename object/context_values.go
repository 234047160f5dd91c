package object

import (
	"context"

	"github.com/hexza-lang/hexza/errors"
)

type contextKey string

// CallFunc is a type signature for a function that can call a script
// function or any other callable value.
type CallFunc func(ctx context.Context, fn Object, args []Object) (Object, error)

const callFuncKey = contextKey("hexza:call")

// WithCallFunc adds a CallFunc to the context, which can be used by
// objects to call a Hexza function at runtime.
func WithCallFunc(ctx context.Context, fn CallFunc) context.Context {
	return context.WithValue(ctx, callFuncKey, fn)
}

// GetCallFunc returns the CallFunc from the context, if it exists.
func GetCallFunc(ctx context.Context) (CallFunc, bool) {
	if fn, ok := ctx.Value(callFuncKey).(CallFunc); ok {
		if fn != nil {
			return fn, ok
		}
	}
	return nil, false
}

// Call invokes fn with args. Callable values are invoked directly. Other
// values are handed to the CallFunc in the context, if any.
func Call(ctx context.Context, fn Object, args ...Object) (Object, error) {
	if callFn, ok := GetCallFunc(ctx); ok {
		return callFn(ctx, fn, args)
	}
	if callable, ok := fn.(Callable); ok {
		return callable.Call(ctx, args...)
	}
	return nil, errors.Newf(errors.CallError, "%s is not callable", fn.Type())
}
