package evaluator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/importer"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
	"github.com/hexza-lang/hexza/scope"
)

// execImport binds the alias to the imported module: a module object for
// Hexza sources, or a proxy for foreign modules.
func (e *Interpreter) execImport(ctx context.Context, node *ast.Import, s *scope.Scope) error {
	resolved, err := e.importer.Resolve(node.Path.Value, node.Ext)
	if err != nil {
		return e.errorAt(node, err)
	}
	var value object.Object
	switch resolved.Kind {
	case importer.Source:
		value, err = e.loadModule(ctx, resolved.Path, node.Alias.Name)
		if err != nil {
			return e.errorAt(node, err)
		}
	case importer.Foreign:
		value = e.importer.Proxy(resolved)
	default:
		return e.errorAt(node, errors.Newf(errors.ImportError, "unsupported module kind %q", resolved.Kind))
	}
	e.logger.Debug().
		Str("path", node.Path.Value).
		Str("resolved", resolved.Path).
		Str("kind", string(resolved.Kind)).
		Str("alias", node.Alias.Name).
		Msg("imported module")
	return e.errorAt(node, s.Declare(node.Alias.Name, value))
}

// loadModule evaluates a source module once and caches its exports.
func (e *Interpreter) loadModule(ctx context.Context, path, name string) (*object.Module, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	e.shared.mu.Lock()
	if mod, ok := e.shared.modules[key]; ok {
		e.shared.mu.Unlock()
		return mod, nil
	}
	if e.shared.loading[key] {
		e.shared.mu.Unlock()
		return nil, errors.Newf(errors.ImportError, "circular import of %q", path)
	}
	e.shared.loading[key] = true
	e.shared.mu.Unlock()
	defer func() {
		e.shared.mu.Lock()
		delete(e.shared.loading, key)
		e.shared.mu.Unlock()
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ImportError, "cannot read module %q: %v", path, err)
	}
	source := string(data)
	program, err := parser.Parse(ctx, source, parser.WithFilename(path), parser.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	child := e.child(path, source)
	if _, err := child.Eval(ctx, program); err != nil {
		return nil, err
	}
	mod := object.NewModule(name, path, child.Exports())

	e.shared.mu.Lock()
	e.shared.modules[key] = mod
	e.shared.mu.Unlock()
	return mod, nil
}

// execExport runs the exported declaration and records its name.
func (e *Interpreter) execExport(ctx context.Context, node *ast.Export, s *scope.Scope) (completion, error) {
	c, err := e.execStmt(ctx, node.Stmt, s)
	if err != nil {
		return c, err
	}
	var name string
	switch stmt := node.Stmt.(type) {
	case *ast.Func:
		name = stmt.Name.Name
	case *ast.Class:
		name = stmt.Name.Name
	case *ast.Var:
		name = stmt.Name.Name
	default:
		return c, e.errorAt(node, errors.Newf(errors.ImportError, "cannot export %s", node.Stmt))
	}
	if value, ok := s.Lookup(name); ok {
		e.exports.Set(name, value)
	}
	return c, nil
}
