package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

var (
	_ object.Callable   = (*Function)(nil)
	_ object.Callable   = (*Class)(nil)
	_ object.AttrGetter = (*Instance)(nil)
	_ object.AttrSetter = (*Instance)(nil)
)

// Function is a user defined function, method or lambda. It captures the
// frame active at its definition; each call runs in a child of that frame.
type Function struct {
	name    string
	params  []*ast.Param
	body    *ast.Block
	expr    ast.Expr
	closure *scope.Scope
	async   bool
	this    object.Object
	owner   *Interpreter
}

func (e *Interpreter) newFunction(node *ast.Func, closure *scope.Scope) *Function {
	return &Function{
		name:    node.Name.Name,
		params:  node.Params,
		body:    node.Body,
		closure: closure,
		async:   node.Async,
		owner:   e,
	}
}

func (e *Interpreter) newLambda(node *ast.Lambda, closure *scope.Scope) *Function {
	return &Function{
		name:    "lambda",
		params:  node.Params,
		expr:    node.Body,
		closure: closure,
		owner:   e,
	}
}

func (f *Function) Type() object.Type {
	return object.FUNCTION
}

func (f *Function) Name() string {
	return f.name
}

// Params returns the parameter names.
func (f *Function) Params() []string {
	names := make([]string, 0, len(f.params))
	for _, p := range f.params {
		names = append(names, p.Name.Name)
	}
	return names
}

func (f *Function) IsAsync() bool {
	return f.async
}

// Bind returns a copy of the function with this bound to the given value.
func (f *Function) Bind(this object.Object) *Function {
	bound := *f
	bound.this = this
	return &bound
}

// Call runs the function. Calling an async function returns a *Task.
func (f *Function) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	return f.owner.callFunction(ctx, f, args)
}

func (f *Function) Inspect() string {
	prefix := "func "
	if f.async {
		prefix = "async func "
	}
	if f.expr != nil {
		prefix = ""
	}
	return fmt.Sprintf("%s%s(%s)", prefix, f.name, strings.Join(f.Params(), ", "))
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() any {
	return nil
}

func (f *Function) Equals(other object.Object) bool {
	o, ok := other.(*Function)
	if !ok {
		return false
	}
	return o == f || (o.body == f.body && o.expr == f.expr && o.closure == f.closure && o.this == f.this)
}

func (f *Function) IsTruthy() bool {
	return true
}

// frame creates the call frame: a child of the closure holding this and the
// parameters. Missing arguments are null and extra ones are ignored.
func (f *Function) frame(args []object.Object) (*scope.Scope, error) {
	s := scope.New(f.closure)
	if f.this != nil {
		if err := s.Declare("this", f.this); err != nil {
			return nil, err
		}
	}
	for i, p := range f.params {
		var value object.Object = object.Nil
		if i < len(args) {
			value = args[i]
		}
		if err := s.Declare(p.Name.Name, value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Class is a user defined class with at most one base class.
type Class struct {
	name    string
	base    *Class
	methods map[string]*Function
	owner   *Interpreter
}

func (c *Class) Type() object.Type {
	return object.CLASS
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) Base() *Class {
	return c.base
}

// FindMethod looks up a method on the class and then up the base chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.base {
		if m, ok := cls.methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// constructor returns the most derived init (or __init__) method.
func (c *Class) constructor() (*Function, bool) {
	for cls := c; cls != nil; cls = cls.base {
		if m, ok := cls.methods["init"]; ok {
			return m, true
		}
		if m, ok := cls.methods["__init__"]; ok {
			return m, true
		}
	}
	return nil, false
}

// Call constructs an instance, as new does.
func (c *Class) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	return c.owner.construct(ctx, c, args)
}

func (c *Class) GetAttr(name string) (object.Object, bool) {
	m, ok := c.FindMethod(name)
	if !ok {
		return nil, false
	}
	return m, true
}

func (c *Class) Inspect() string {
	return fmt.Sprintf("class %s", c.name)
}

func (c *Class) String() string {
	return c.Inspect()
}

func (c *Class) Interface() any {
	return nil
}

func (c *Class) Equals(other object.Object) bool {
	return c == other
}

func (c *Class) IsTruthy() bool {
	return true
}

// Instance is an object created from a class. Fields keep the order in
// which they were first assigned.
type Instance struct {
	class  *Class
	fields *object.Map
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: object.NewMap()}
}

func (i *Instance) Type() object.Type {
	return object.INSTANCE
}

func (i *Instance) Class() *Class {
	return i.class
}

func (i *Instance) Fields() *object.Map {
	return i.fields
}

// GetAttr returns a field, or else a method bound to the instance.
func (i *Instance) GetAttr(name string) (object.Object, bool) {
	if value, ok := i.fields.Get(name); ok {
		return value, true
	}
	if m, ok := i.class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

func (i *Instance) SetAttr(name string, value object.Object) error {
	i.fields.Set(name, value)
	return nil
}

func (i *Instance) Inspect() string {
	return fmt.Sprintf("%s %s", i.class.name, i.fields.Inspect())
}

func (i *Instance) String() string {
	return i.Inspect()
}

func (i *Instance) Interface() any {
	return i.fields.Interface()
}

func (i *Instance) Equals(other object.Object) bool {
	return i == other
}

func (i *Instance) IsTruthy() bool {
	return true
}

func (i *Instance) MarshalJSON() ([]byte, error) {
	return i.fields.MarshalJSON()
}
