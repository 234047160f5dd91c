package evaluator

import (
	"context"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

func (e *Interpreter) execStmt(ctx context.Context, stmt ast.Stmt, s *scope.Scope) (completion, error) {
	switch node := stmt.(type) {
	case *ast.ExprStmt:
		value, err := e.eval(ctx, node.X, s)
		if err != nil {
			return done, err
		}
		return normal(value), nil
	case *ast.Var:
		return done, e.execVar(ctx, node, s)
	case *ast.Block:
		return e.execBlock(ctx, node.Stmts, s)
	case *ast.If:
		return e.execIf(ctx, node, s)
	case *ast.While:
		return e.execWhile(ctx, node, s)
	case *ast.For:
		return e.execFor(ctx, node, s)
	case *ast.ForIn:
		return e.execForIn(ctx, node, s)
	case *ast.Func:
		fn := e.newFunction(node, s)
		return done, e.errorAt(node, s.Declare(fn.name, fn))
	case *ast.Class:
		return done, e.execClass(node, s)
	case *ast.Return:
		var value object.Object = object.Nil
		if node.Value != nil {
			var err error
			if value, err = e.eval(ctx, node.Value, s); err != nil {
				return done, err
			}
		}
		return completion{kind: completionReturn, value: value, node: node}, nil
	case *ast.Break:
		return completion{kind: completionBreak, value: object.Nil, node: node}, nil
	case *ast.Continue:
		return completion{kind: completionContinue, value: object.Nil, node: node}, nil
	case *ast.Import:
		return done, e.execImport(ctx, node, s)
	case *ast.Export:
		return e.execExport(ctx, node, s)
	case *ast.Try:
		return e.execTry(ctx, node, s)
	case *ast.Throw:
		return done, e.execThrow(ctx, node, s)
	case *ast.API:
		return done, e.execAPI(node, s)
	default:
		return done, e.errorAt(stmt, errors.Newf(errors.InternalError, "unknown statement type: %T", stmt))
	}
}

// execBlock runs statements in order in the given frame. Blocks do not open
// a new frame. The value of a block is the value of its last statement.
func (e *Interpreter) execBlock(ctx context.Context, stmts []ast.Stmt, s *scope.Scope) (completion, error) {
	result := done
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		c, err := e.execStmt(ctx, stmt, s)
		if err != nil {
			return done, err
		}
		if c.kind != completionNormal {
			return c, nil
		}
		result = c
	}
	return result, nil
}

func (e *Interpreter) execVar(ctx context.Context, node *ast.Var, s *scope.Scope) error {
	var value object.Object = object.Nil
	if node.Value != nil {
		var err error
		if value, err = e.eval(ctx, node.Value, s); err != nil {
			return err
		}
	}
	var err error
	if node.Kind == ast.Const {
		err = s.DeclareConst(node.Name.Name, value)
	} else {
		err = s.Declare(node.Name.Name, value)
	}
	return e.errorAt(node, err)
}

func (e *Interpreter) execIf(ctx context.Context, node *ast.If, s *scope.Scope) (completion, error) {
	cond, err := e.eval(ctx, node.Cond, s)
	if err != nil {
		return done, err
	}
	if cond.IsTruthy() {
		return e.execBlock(ctx, node.Consequence.Stmts, s)
	}
	if node.Alternative != nil {
		return e.execStmt(ctx, node.Alternative, s)
	}
	return done, nil
}

// iteration runs one loop body and reports whether the loop should stop.
// A continue ends the iteration early; a break or return ends the loop.
func (e *Interpreter) iteration(ctx context.Context, body *ast.Block, s *scope.Scope) (completion, bool, error) {
	if err := ctx.Err(); err != nil {
		return done, true, err
	}
	c, err := e.execBlock(ctx, body.Stmts, s)
	if err != nil {
		return done, true, err
	}
	switch c.kind {
	case completionBreak:
		return done, true, nil
	case completionReturn:
		return c, true, nil
	}
	return done, false, nil
}

func (e *Interpreter) execWhile(ctx context.Context, node *ast.While, s *scope.Scope) (completion, error) {
	for {
		cond, err := e.eval(ctx, node.Cond, s)
		if err != nil {
			return done, err
		}
		if !cond.IsTruthy() {
			return done, nil
		}
		c, stop, err := e.iteration(ctx, node.Body, s)
		if stop || err != nil {
			return c, err
		}
	}
}

func (e *Interpreter) execFor(ctx context.Context, node *ast.For, s *scope.Scope) (completion, error) {
	if node.Init != nil {
		if _, err := e.execStmt(ctx, node.Init, s); err != nil {
			return done, err
		}
	}
	for {
		if node.Cond != nil {
			cond, err := e.eval(ctx, node.Cond, s)
			if err != nil {
				return done, err
			}
			if !cond.IsTruthy() {
				return done, nil
			}
		}
		c, stop, err := e.iteration(ctx, node.Body, s)
		if stop || err != nil {
			return c, err
		}
		if node.Post != nil {
			if _, err := e.eval(ctx, node.Post, s); err != nil {
				return done, err
			}
		}
	}
}

// execForIn iterates list items, mapping keys or the characters of a
// string. The loop variable is bound in the enclosing frame.
func (e *Interpreter) execForIn(ctx context.Context, node *ast.ForIn, s *scope.Scope) (completion, error) {
	iterable, err := e.eval(ctx, node.Iterable, s)
	if err != nil {
		return done, err
	}
	var items []object.Object
	switch iterable := iterable.(type) {
	case *object.List:
		items = iterable.Items()
	case *object.Map:
		for _, key := range iterable.Keys() {
			items = append(items, object.NewString(key))
		}
	case *object.String:
		for _, ch := range iterable.Value() {
			items = append(items, object.NewString(string(ch)))
		}
	default:
		return done, e.errorAt(node.Iterable, errors.Newf(errors.TypeError, "%s is not iterable", iterable.Type()))
	}
	for _, item := range items {
		if err := s.Declare(node.Name.Name, item); err != nil {
			return done, e.errorAt(node.Name, err)
		}
		c, stop, err := e.iteration(ctx, node.Body, s)
		if stop || err != nil {
			return c, err
		}
	}
	return done, nil
}

func (e *Interpreter) execClass(node *ast.Class, s *scope.Scope) error {
	class := &Class{
		name:    node.Name.Name,
		methods: make(map[string]*Function, len(node.Methods)),
		owner:   e,
	}
	if node.Base != nil {
		value, err := s.Get(node.Base.Name)
		if err != nil {
			return e.errorAt(node.Base, err)
		}
		base, ok := value.(*Class)
		if !ok {
			return e.errorAt(node.Base, errors.Newf(errors.TypeError,
				"base of class %s must be a class (%s given)", class.name, value.Type()))
		}
		class.base = base
	}
	for _, method := range node.Methods {
		class.methods[method.Name.Name] = e.newFunction(method, s)
	}
	return e.errorAt(node, s.Declare(class.name, class))
}

func (e *Interpreter) execThrow(ctx context.Context, node *ast.Throw, s *scope.Scope) error {
	value, err := e.eval(ctx, node.Value, s)
	if err != nil {
		return err
	}
	return e.errorAt(node, &errors.RuntimeError{
		Kind:    errors.ThrownError,
		Message: value.String(),
		Value:   value,
	})
}

// execTry runs the body and, if it fails, the catch block with the error
// message bound to the catch name. Cancellation is never caught. The
// finally block always runs; an error or a return, break or continue from
// it replaces the outcome of the body and catch blocks.
func (e *Interpreter) execTry(ctx context.Context, node *ast.Try, s *scope.Scope) (completion, error) {
	c, err := e.execBlock(ctx, node.Body.Stmts, s)
	if err != nil && node.CatchBlock != nil && catchable(ctx, err) {
		message := object.NewString(errors.Message(err))
		c, err = done, nil
		if node.CatchIdent != nil {
			err = e.errorAt(node.CatchIdent, s.Declare(node.CatchIdent.Name, message))
		}
		if err == nil {
			c, err = e.execBlock(ctx, node.CatchBlock.Stmts, s)
		}
	}
	if node.FinallyBlock != nil {
		fc, ferr := e.execBlock(ctx, node.FinallyBlock.Stmts, s)
		if ferr != nil {
			return done, ferr
		}
		if fc.kind != completionNormal {
			return fc, nil
		}
	}
	return c, err
}

func catchable(ctx context.Context, err error) bool {
	return ctx.Err() == nil && !isContextError(err)
}
