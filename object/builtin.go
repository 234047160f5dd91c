package object

import (
	"context"
	"fmt"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin wraps a Go function and implements the Object interface.
type Builtin struct {
	fn   BuiltinFunction
	name string
}

// NewBuiltin returns a new Builtin with the given name and implementation.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	result, err := b.fn(ctx, args...)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return Nil, nil
	}
	return result, nil
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Interface() any {
	return b.fn
}

func (b *Builtin) Equals(other Object) bool {
	return b == other
}

func (b *Builtin) IsTruthy() bool {
	return true
}
