// Package evaluator executes Hexza programs by walking the syntax tree.
package evaluator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/builtins"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/importer"
	"github.com/hexza-lang/hexza/internal/lexer"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

// MaxCallDepth is the default limit on nested function calls.
const MaxCallDepth = 1024

// Importer resolves import paths and creates proxies for foreign modules.
// *importer.Resolver satisfies it.
type Importer interface {
	Resolve(path, extHint string) (importer.Resolved, error)
	Proxy(resolved importer.Resolved) object.Object
}

// RouteRegistrar receives the routes declared by api blocks.
type RouteRegistrar interface {
	Register(method, path string, handler *Function) error
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets the writer used by print.
func WithStdout(w io.Writer) Option {
	return func(e *Interpreter) {
		e.stdout = w
	}
}

// WithLogger sets the logger used to trace imports, routes and tasks.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Interpreter) {
		e.logger = logger
	}
}

// WithImporter sets the module importer. By default imports are resolved
// relative to the directory of the program file.
func WithImporter(imp Importer) Option {
	return func(e *Interpreter) {
		e.importer = imp
	}
}

// WithRouteRegistrar sets the factory for the route registrar. The factory
// is called the first time an api block registers a route.
func WithRouteRegistrar(factory func() (RouteRegistrar, error)) Option {
	return func(e *Interpreter) {
		e.shared.newRegistrar = factory
	}
}

// WithFilename sets the file name reported in error locations.
func WithFilename(filename string) Option {
	return func(e *Interpreter) {
		e.filename = filename
	}
}

// WithSource sets the program text, used to show the offending line in
// error messages.
func WithSource(source string) Option {
	return func(e *Interpreter) {
		e.source = source
	}
}

// WithGlobals adds bindings to the global frame.
func WithGlobals(globals map[string]object.Object) Option {
	return func(e *Interpreter) {
		for name, value := range globals {
			e.extra[name] = value
		}
	}
}

// WithScope makes the interpreter use an existing global frame instead of
// creating one. Builtins are not added to it.
func WithScope(s *scope.Scope) Option {
	return func(e *Interpreter) {
		e.globals = s
	}
}

// WithMaxCallDepth limits the depth of nested function calls.
func WithMaxCallDepth(depth int) Option {
	return func(e *Interpreter) {
		e.maxDepth = depth
	}
}

// shared is the state common to an interpreter and the interpreters it
// creates for imported modules.
type shared struct {
	mu           sync.Mutex
	invokeMu     sync.Mutex
	modules      map[string]*object.Module
	loading      map[string]bool
	newRegistrar func() (RouteRegistrar, error)
	registrar    RouteRegistrar
	routes       []Route
}

// Interpreter evaluates programs against a global frame. An Interpreter is
// not safe for concurrent use, except through Invoke.
type Interpreter struct {
	globals  *scope.Scope
	extra    map[string]object.Object
	stdout   io.Writer
	logger   zerolog.Logger
	importer Importer
	filename string
	source   string
	exports  *object.Map
	shared   *shared
	depth    int
	maxDepth int
}

// New returns an Interpreter configured with the given options.
func New(opts ...Option) *Interpreter {
	e := &Interpreter{
		extra:    map[string]object.Object{},
		stdout:   os.Stdout,
		logger:   zerolog.Nop(),
		exports:  object.NewMap(),
		maxDepth: MaxCallDepth,
		shared: &shared{
			modules: map[string]*object.Module{},
			loading: map[string]bool{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.globals == nil {
		e.globals = scope.NewRoot(builtins.Builtins(e.stdout))
		e.globals.Declare("global", builtins.Global(e.globals))
	}
	for name, value := range e.extra {
		e.globals.Declare(name, value)
	}
	if e.importer == nil {
		e.importer = importer.NewResolver(
			importer.WithBaseDir(baseDir(e.filename)),
			importer.WithLogger(e.logger),
		)
	}
	return e
}

// child returns an interpreter for a module loaded by e. It shares the
// output, importer, module cache and route registrar of e.
func (e *Interpreter) child(filename, source string) *Interpreter {
	c := &Interpreter{
		extra:    map[string]object.Object{},
		stdout:   e.stdout,
		logger:   e.logger,
		importer: e.importer,
		filename: filename,
		source:   source,
		exports:  object.NewMap(),
		shared:   e.shared,
		maxDepth: e.maxDepth,
	}
	c.globals = scope.NewRoot(builtins.Builtins(c.stdout))
	c.globals.Declare("global", builtins.Global(c.globals))
	return c
}

func baseDir(filename string) string {
	if filename == "" {
		return "."
	}
	return filepath.Dir(filename)
}

// Globals returns the global frame.
func (e *Interpreter) Globals() *scope.Scope {
	return e.globals
}

// Exports returns the names exported by the program with their current
// values.
func (e *Interpreter) Exports() *object.Map {
	for _, name := range e.exports.Keys() {
		if value, ok := e.globals.Lookup(name); ok {
			e.exports.Set(name, value)
		}
	}
	return e.exports
}

// Routes returns the routes registered by api blocks so far.
func (e *Interpreter) Routes() []Route {
	e.shared.mu.Lock()
	defer e.shared.mu.Unlock()
	return append([]Route(nil), e.shared.routes...)
}

// Eval runs the program. The result is the value of the last statement, or
// the value given to a top level return.
func (e *Interpreter) Eval(ctx context.Context, program *ast.Program) (object.Object, error) {
	ctx = e.withCallFunc(ctx)
	var result object.Object = object.Nil
	for _, stmt := range program.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := e.execStmt(ctx, stmt, e.globals)
		if err != nil {
			return nil, err
		}
		switch c.kind {
		case completionReturn:
			return c.value, nil
		case completionBreak, completionContinue:
			return nil, e.controlError(c)
		}
		result = c.value
	}
	return result, nil
}

// Call invokes any callable value with the given arguments.
func (e *Interpreter) Call(ctx context.Context, fn object.Object, args ...object.Object) (object.Object, error) {
	return e.callValue(e.withCallFunc(ctx), fn, args)
}

func (e *Interpreter) withCallFunc(ctx context.Context) context.Context {
	if _, ok := object.GetCallFunc(ctx); ok {
		return ctx
	}
	return object.WithCallFunc(ctx, e.callValue)
}

// location returns the source location of a node.
func (e *Interpreter) location(node ast.Node) errors.SourceLocation {
	pos := node.Pos()
	filename := e.filename
	if filename == "" {
		filename = pos.File
	}
	loc := errors.SourceLocation{
		Filename: filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
	if e.source != "" {
		loc.Source = lexer.LineText(e.source, pos)
	}
	return loc
}

// errorAt converts err to a runtime error located at node, unless a more
// precise location was already recorded. Context errors and syntax errors
// from imported modules pass through.
func (e *Interpreter) errorAt(node ast.Node, err error) error {
	if err == nil || isContextError(err) {
		return err
	}
	re, ok := err.(*errors.RuntimeError)
	if !ok {
		if _, formattable := err.(errors.FormattableError); formattable {
			return err
		}
		re = errors.Wrap(err)
	}
	return re.WithLocation(e.location(node))
}

func (e *Interpreter) controlError(c completion) error {
	word := "break"
	if c.kind == completionContinue {
		word = "continue"
	}
	return e.errorAt(c.node, errors.Newf(errors.ControlError, "%s outside of a loop", word))
}
