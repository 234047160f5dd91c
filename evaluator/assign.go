package evaluator

import (
	"context"
	"strings"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/op"
	"github.com/hexza-lang/hexza/scope"
)

// ref is an assignable location: a variable, an index or a member.
type ref interface {
	Get() (object.Object, error)
	Set(value object.Object) error
}

type nameRef struct {
	scope *scope.Scope
	name  string
}

func (r nameRef) Get() (object.Object, error) {
	return r.scope.Get(r.name)
}

func (r nameRef) Set(value object.Object) error {
	return r.scope.Assign(r.name, value)
}

type indexRef struct {
	container object.Object
	key       object.Object
}

func (r indexRef) Get() (object.Object, error) {
	return getItem(r.container, r.key)
}

func (r indexRef) Set(value object.Object) error {
	setter, ok := r.container.(object.ItemSetter)
	if !ok {
		return errors.Newf(errors.TypeError, "%s does not support item assignment", r.container.Type())
	}
	return setter.SetItem(r.key, value)
}

type memberRef struct {
	target object.Object
	name   string
}

func (r memberRef) Get() (object.Object, error) {
	return getAttr(r.target, r.name), nil
}

func (r memberRef) Set(value object.Object) error {
	setter, ok := r.target.(object.AttrSetter)
	if !ok {
		return errors.Newf(errors.AssignmentError, "cannot set attribute %q on %s", r.name, r.target.Type())
	}
	return setter.SetAttr(r.name, value)
}

// resolveRef evaluates the parts of an assignment target. Containers and
// keys are evaluated once, so compound assignment has a single evaluation.
func (e *Interpreter) resolveRef(ctx context.Context, target ast.Expr, s *scope.Scope) (ref, error) {
	switch target := target.(type) {
	case *ast.Ident:
		return nameRef{scope: s, name: target.Name}, nil
	case *ast.Index:
		container, err := e.eval(ctx, target.X, s)
		if err != nil {
			return nil, err
		}
		key, err := e.eval(ctx, target.Index, s)
		if err != nil {
			return nil, err
		}
		return indexRef{container: container, key: key}, nil
	case *ast.Member:
		value, err := e.eval(ctx, target.X, s)
		if err != nil {
			return nil, err
		}
		return memberRef{target: value, name: target.Name.Name}, nil
	default:
		return nil, errors.Newf(errors.AssignmentError, "invalid assignment target: %s", target)
	}
}

func (e *Interpreter) evalAssign(ctx context.Context, node *ast.Assign, s *scope.Scope) (object.Object, error) {
	r, err := e.resolveRef(ctx, node.Target, s)
	if err != nil {
		return nil, err
	}
	if node.Op == "=" {
		value, err := e.eval(ctx, node.Value, s)
		if err != nil {
			return nil, err
		}
		return value, r.Set(value)
	}
	bop, ok := op.LookupBinaryOp(strings.TrimSuffix(node.Op, "="))
	if !ok {
		return nil, errors.Newf(errors.OperatorError, "unknown assignment operator: %s", node.Op)
	}
	current, err := r.Get()
	if err != nil {
		return nil, err
	}
	operand, err := e.eval(ctx, node.Value, s)
	if err != nil {
		return nil, err
	}
	result, err := object.BinaryOp(bop, current, operand)
	if err != nil {
		return nil, err
	}
	return result, r.Set(result)
}

// evalPostfix implements x++ and x--. The result is the value before the
// update.
func (e *Interpreter) evalPostfix(ctx context.Context, node *ast.Postfix, s *scope.Scope) (object.Object, error) {
	r, err := e.resolveRef(ctx, node.X, s)
	if err != nil {
		return nil, err
	}
	current, err := r.Get()
	if err != nil {
		return nil, err
	}
	bop := op.Add
	if node.Op == "--" {
		bop = op.Subtract
	}
	updated, err := object.BinaryOp(bop, current, object.NewInt(1))
	if err != nil {
		return nil, err
	}
	return current, r.Set(updated)
}
