package evaluator

import (
	"context"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/op"
	"github.com/hexza-lang/hexza/scope"
)

// eval evaluates an expression. Errors are located at the innermost node
// that has a position.
func (e *Interpreter) eval(ctx context.Context, expr ast.Expr, s *scope.Scope) (object.Object, error) {
	value, err := e.evalExpr(ctx, expr, s)
	if err != nil {
		return nil, e.errorAt(expr, err)
	}
	return value, nil
}

func (e *Interpreter) evalExpr(ctx context.Context, expr ast.Expr, s *scope.Scope) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Int:
		return object.NewInt(node.Value), nil
	case *ast.Float:
		return object.NewFloat(node.Value), nil
	case *ast.String:
		return object.NewString(node.Value), nil
	case *ast.Bool:
		return object.NewBool(node.Value), nil
	case *ast.Null:
		return object.Nil, nil
	case *ast.Ident:
		return s.Get(node.Name)
	case *ast.This:
		if this, ok := s.Lookup("this"); ok {
			return this, nil
		}
		return nil, errors.Newf(errors.NameError, "%s used outside of a method", node.Literal)
	case *ast.List:
		items, err := e.evalExprs(ctx, node.Items, s)
		if err != nil {
			return nil, err
		}
		return object.NewList(items), nil
	case *ast.Map:
		m := object.NewMap()
		for _, item := range node.Items {
			value, err := e.eval(ctx, item.Value, s)
			if err != nil {
				return nil, err
			}
			m.Set(item.Key, value)
		}
		return m, nil
	case *ast.Prefix:
		return e.evalPrefix(ctx, node, s)
	case *ast.Infix:
		return e.evalInfix(ctx, node, s)
	case *ast.Ternary:
		cond, err := e.eval(ctx, node.Cond, s)
		if err != nil {
			return nil, err
		}
		if cond.IsTruthy() {
			return e.eval(ctx, node.IfTrue, s)
		}
		return e.eval(ctx, node.IfFalse, s)
	case *ast.Index:
		container, err := e.eval(ctx, node.X, s)
		if err != nil {
			return nil, err
		}
		key, err := e.eval(ctx, node.Index, s)
		if err != nil {
			return nil, err
		}
		return getItem(container, key)
	case *ast.Member:
		target, err := e.eval(ctx, node.X, s)
		if err != nil {
			return nil, err
		}
		return getAttr(target, node.Name.Name), nil
	case *ast.Assign:
		return e.evalAssign(ctx, node, s)
	case *ast.Postfix:
		return e.evalPostfix(ctx, node, s)
	case *ast.Call:
		return e.evalCall(ctx, node, s)
	case *ast.New:
		return e.evalNew(ctx, node, s)
	case *ast.Lambda:
		return e.newLambda(node, s), nil
	case *ast.Await:
		value, err := e.eval(ctx, node.X, s)
		if err != nil {
			return nil, err
		}
		if task, ok := value.(*Task); ok {
			return task.Await(ctx)
		}
		return value, nil
	default:
		return nil, errors.Newf(errors.InternalError, "unknown expression type: %T", expr)
	}
}

func (e *Interpreter) evalExprs(ctx context.Context, exprs []ast.Expr, s *scope.Scope) ([]object.Object, error) {
	values := make([]object.Object, 0, len(exprs))
	for _, expr := range exprs {
		value, err := e.eval(ctx, expr, s)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func (e *Interpreter) evalPrefix(ctx context.Context, node *ast.Prefix, s *scope.Scope) (object.Object, error) {
	operand, err := e.eval(ctx, node.X, s)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "-":
		return object.Negate(operand)
	case "!", "not":
		return object.Not(operand), nil
	case "~":
		return object.BitwiseNot(operand)
	default:
		return nil, errors.Newf(errors.OperatorError, "unknown operator: %s", node.Op)
	}
}

// evalInfix evaluates binary operators. and/or short-circuit and return the
// operand that decided the result.
func (e *Interpreter) evalInfix(ctx context.Context, node *ast.Infix, s *scope.Scope) (object.Object, error) {
	left, err := e.eval(ctx, node.X, s)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "and", "&&":
		if !left.IsTruthy() {
			return left, nil
		}
		return e.eval(ctx, node.Y, s)
	case "or", "||":
		if left.IsTruthy() {
			return left, nil
		}
		return e.eval(ctx, node.Y, s)
	}
	right, err := e.eval(ctx, node.Y, s)
	if err != nil {
		return nil, err
	}
	if cmp, ok := op.LookupCompareOp(node.Op); ok {
		return object.Compare(cmp, left, right)
	}
	if bop, ok := op.LookupBinaryOp(node.Op); ok {
		return object.BinaryOp(bop, left, right)
	}
	return nil, errors.Newf(errors.OperatorError, "unknown operator: %s", node.Op)
}

func getItem(container, key object.Object) (object.Object, error) {
	getter, ok := container.(object.ItemGetter)
	if !ok {
		return nil, errors.Newf(errors.TypeError, "%s is not indexable", container.Type())
	}
	return getter.GetItem(key)
}

// getAttr reads a member. Unknown members, and members of values that have
// none, read as null.
func getAttr(target object.Object, name string) object.Object {
	if getter, ok := target.(object.AttrGetter); ok {
		if value, ok := getter.GetAttr(name); ok {
			return value
		}
	}
	return object.Nil
}
