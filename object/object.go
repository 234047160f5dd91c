// Package object provides the standard set of Hexza value types.
//
// For external users of Hexza, often an object.Object interface
// will be type asserted to a specific object type, such as *object.Float.
//
// For example:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Float:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get a string
// name of the object type, such as "string" or "float".
package object

import (
	"context"

	"github.com/hexza-lang/hexza/errors"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL      Type = "bool"
	BUILTIN   Type = "builtin"
	CLASS     Type = "class"
	FLOAT     Type = "float"
	FUNCTION  Type = "function"
	INSTANCE  Type = "instance"
	INT       Type = "int"
	LIST      Type = "list"
	MAP       Type = "map"
	MODULE    Type = "module"
	NAMESPACE Type = "namespace"
	NIL       Type = "null"
	PROXY     Type = "proxy"
	STRING    Type = "string"
	TASK      Type = "task"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all object types in Hexza must implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a representation of the object as it would appear in
	// source code. Strings are quoted.
	Inspect() string

	// String returns the form used by print and str(). Strings are not
	// quoted.
	String() string

	// Interface converts the given object to a native Go value.
	Interface() any

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool
}

// Callable is an interface for objects that can be invoked as functions.
// Builtins call straight into Go; script functions are called through the
// CallFunc stored in the context by the evaluator.
type Callable interface {
	// Call invokes the callable with the given arguments and returns the result.
	Call(ctx context.Context, args ...Object) (Object, error)
}

// AttrGetter is implemented by objects that support member access.
type AttrGetter interface {
	GetAttr(name string) (Object, bool)
}

// AttrSetter is implemented by objects that support member assignment.
type AttrSetter interface {
	SetAttr(name string, value Object) error
}

// ItemGetter is implemented by objects that support index reads, as in x[i].
type ItemGetter interface {
	GetItem(key Object) (Object, error)
}

// ItemSetter is implemented by objects that support index writes.
type ItemSetter interface {
	SetItem(key, value Object) error
}

// Comparable is an interface used to compare two objects.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// NewBool returns the shared True or False object.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Not returns the boolean negation of the object's truthiness.
func Not(obj Object) *Bool {
	return NewBool(!obj.IsTruthy())
}

func typeErrorf(format string, args ...any) *errors.RuntimeError {
	return errors.Newf(errors.TypeError, format, args...)
}

func indexErrorf(format string, args ...any) *errors.RuntimeError {
	return errors.Newf(errors.IndexError, format, args...)
}
