package object

import (
	"context"
	"fmt"
	"slices"

	"github.com/hexza-lang/hexza/errors"
)

// MethodSpec describes a method for introspection and tooling.
type MethodSpec struct {
	Name    string
	Doc     string
	Args    []string
	Returns string
}

// MethodDef combines a method's specification with its implementation.
type MethodDef[T any] struct {
	Spec MethodSpec
	Impl func(self T, ctx context.Context, args ...Object) (Object, error)
}

// MethodRegistry holds all methods for a given object type.
type MethodRegistry[T any] struct {
	typeName string
	methods  map[string]MethodDef[T]
	specs    []MethodSpec
}

// MethodBuilder provides a fluent API for defining a single method.
type MethodBuilder[T any] struct {
	registry *MethodRegistry[T]
	name     string
	doc      string
	args     []string
	returns  string
}

// NewMethodRegistry creates a registry for the given type name.
func NewMethodRegistry[T any](typeName string) *MethodRegistry[T] {
	return &MethodRegistry[T]{
		typeName: typeName,
		methods:  make(map[string]MethodDef[T]),
	}
}

// Define starts building a new method definition.
func (r *MethodRegistry[T]) Define(name string) *MethodBuilder[T] {
	return &MethodBuilder[T]{
		registry: r,
		name:     name,
	}
}

// Specs returns a copy of all registered method specifications in
// registration order.
func (r *MethodRegistry[T]) Specs() []MethodSpec {
	return slices.Clone(r.specs)
}

// GetAttr returns a Builtin for the named method bound to self.
func (r *MethodRegistry[T]) GetAttr(self T, name string) (Object, bool) {
	m, ok := r.methods[name]
	if !ok {
		return nil, false
	}
	expectedArgs := len(m.Spec.Args)
	fullName := r.typeName + "." + name
	return NewBuiltin(fullName, func(ctx context.Context, args ...Object) (Object, error) {
		if len(args) != expectedArgs {
			return nil, argsError(fullName, expectedArgs, len(args))
		}
		return m.Impl(self, ctx, args...)
	}), true
}

// Doc sets the method's documentation string.
func (b *MethodBuilder[T]) Doc(doc string) *MethodBuilder[T] {
	b.doc = doc
	return b
}

// Arg adds a required argument by name.
func (b *MethodBuilder[T]) Arg(name string) *MethodBuilder[T] {
	b.args = append(b.args, name)
	return b
}

// Returns sets the return type (for documentation/tooling).
func (b *MethodBuilder[T]) Returns(typ string) *MethodBuilder[T] {
	b.returns = typ
	return b
}

// Impl sets the implementation and registers the method.
// Panics if a method with the same name is already registered.
func (b *MethodBuilder[T]) Impl(fn func(T, context.Context, ...Object) (Object, error)) {
	r := b.registry
	if _, exists := r.methods[b.name]; exists {
		panic(fmt.Sprintf("%s: method %q already registered", r.typeName, b.name))
	}
	spec := MethodSpec{
		Name:    b.name,
		Doc:     b.doc,
		Args:    b.args,
		Returns: b.returns,
	}
	r.methods[b.name] = MethodDef[T]{Spec: spec, Impl: fn}
	r.specs = append(r.specs, spec)
}

// argsError returns a grammatically correct argument count error.
func argsError(methodName string, expected, got int) error {
	if expected == 1 {
		return errors.Newf(errors.CallError, "%s: expected 1 argument, got %d", methodName, got)
	}
	return errors.Newf(errors.CallError, "%s: expected %d arguments, got %d", methodName, expected, got)
}
