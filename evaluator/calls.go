package evaluator

import (
	"context"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

func (e *Interpreter) evalCall(ctx context.Context, node *ast.Call, s *scope.Scope) (object.Object, error) {
	fn, err := e.eval(ctx, node.Fun, s)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExprs(ctx, node.Args, s)
	if err != nil {
		return nil, err
	}
	if !isCallable(fn) {
		return nil, errors.Newf(errors.CallError, "%s is not callable (%s)", node.Fun, fn.Type())
	}
	result, err := e.callValue(ctx, fn, args)
	if err != nil {
		if f, ok := fn.(*Function); ok {
			if re, ok := err.(*errors.RuntimeError); ok {
				re.Stack = append(re.Stack, errors.StackFrame{
					Function: f.name,
					Location: e.location(node),
				})
			}
		}
		return nil, err
	}
	return result, nil
}

func isCallable(value object.Object) bool {
	_, ok := value.(object.Callable)
	return ok
}

// callValue calls a function, constructs a class or invokes a builtin.
func (e *Interpreter) callValue(ctx context.Context, fn object.Object, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *Function:
		return fn.owner.callFunction(ctx, fn, args)
	case *Class:
		return fn.owner.construct(ctx, fn, args)
	case object.Callable:
		return fn.Call(ctx, args...)
	default:
		return nil, errors.Newf(errors.CallError, "%s is not callable", fn.Type())
	}
}

// callFunction runs a function to completion. Calling an async function
// creates a task instead; its body runs when the task is awaited.
func (e *Interpreter) callFunction(ctx context.Context, fn *Function, args []object.Object) (object.Object, error) {
	if fn.async {
		return e.newTask(fn, args)
	}
	value, _, err := e.run(ctx, fn, args)
	return value, err
}

// run executes the body of fn and reports whether it ended with a return.
// The result of a body that does not return is its last statement's value.
func (e *Interpreter) run(ctx context.Context, fn *Function, args []object.Object) (object.Object, bool, error) {
	if e.depth >= e.maxDepth {
		return nil, false, errors.Newf(errors.CallError, "maximum call depth exceeded (%d)", e.maxDepth)
	}
	e.depth++
	defer func() { e.depth-- }()

	frame, err := fn.frame(args)
	if err != nil {
		return nil, false, err
	}
	ctx = e.withCallFunc(ctx)
	if fn.expr != nil {
		value, err := e.eval(ctx, fn.expr, frame)
		return value, true, err
	}
	c, err := e.execBlock(ctx, fn.body.Stmts, frame)
	if err != nil {
		return nil, false, err
	}
	switch c.kind {
	case completionBreak, completionContinue:
		return nil, false, e.controlError(c)
	case completionReturn:
		return c.value, true, nil
	}
	return c.value, false, nil
}

func (e *Interpreter) evalNew(ctx context.Context, node *ast.New, s *scope.Scope) (object.Object, error) {
	value, err := s.Get(node.Class.Name)
	if err != nil {
		return nil, e.errorAt(node.Class, err)
	}
	class, ok := value.(*Class)
	if !ok {
		return nil, errors.Newf(errors.TypeError, "%s is not a class (%s)", node.Class.Name, value.Type())
	}
	args, err := e.evalExprs(ctx, node.Args, s)
	if err != nil {
		return nil, err
	}
	return e.construct(ctx, class, args)
}

// construct creates an instance and runs the most derived constructor with
// this bound to it. Constructor errors propagate.
func (e *Interpreter) construct(ctx context.Context, class *Class, args []object.Object) (object.Object, error) {
	instance := NewInstance(class)
	init, ok := class.constructor()
	if !ok {
		return instance, nil
	}
	result, err := e.callValue(ctx, init.Bind(instance), args)
	if err != nil {
		return nil, err
	}
	if task, ok := result.(*Task); ok {
		if _, err := task.Await(ctx); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
