package hexza

import (
	"io"
	"maps"
	"os"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/builtins"
	"github.com/hexza-lang/hexza/compiler"
	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
	"github.com/hexza-lang/hexza/scope"
	"github.com/hexza-lang/hexza/syntax"
	"github.com/hexza-lang/hexza/vm"
)

// Option configures a Hexza compilation or execution.
type Option func(*options)

type options struct {
	globals      map[string]any
	filename     string
	stdout       io.Writer
	logger       zerolog.Logger
	importer     evaluator.Importer
	newRegistrar func() (evaluator.RouteRegistrar, error)
	scope        *scope.Scope
	observer     vm.Observer
	strict       bool
	validators   []syntax.Validator
	transformers []syntax.Transformer
}

func collectOptions(opts ...Option) *options {
	o := &options{
		globals: map[string]any{},
		stdout:  os.Stdout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithGlobals provides global variables that are made available to Hexza
// programs. Values are converted with object.FromGo. This option is
// additive; if the same key is supplied more than once, the last value wins.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.globals, globals)
	}
}

// WithFilename sets the filename for the source code being evaluated.
// This is used for error messages and to resolve relative imports.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithStdout sets the writer used by print. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogger sets the logger passed to the parser, evaluator, compiler
// and VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithImporter supplies the importer used to execute import statements.
func WithImporter(imp evaluator.Importer) Option {
	return func(o *options) {
		o.importer = imp
	}
}

// WithRouteRegistrar supplies the factory for the registrar that receives
// routes declared by api blocks.
func WithRouteRegistrar(factory func() (evaluator.RouteRegistrar, error)) Option {
	return func(o *options) {
		o.newRegistrar = factory
	}
}

// WithScope runs programs against an existing global frame. Eval and Run
// given the same scope see each other's bindings.
func WithScope(s *scope.Scope) Option {
	return func(o *options) {
		o.scope = s
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithStrict makes Compile fail on statements the bytecode compiler does not
// support instead of skipping them.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithSyntax rejects programs that use features the config disallows. All
// violations are reported together before anything runs.
func WithSyntax(config syntax.SyntaxConfig) Option {
	return WithValidator(syntax.NewSyntaxValidator(config))
}

// WithValidator adds a validator that runs after parsing and after any
// transformers. This option is additive.
func WithValidator(v syntax.Validator) Option {
	return func(o *options) {
		o.validators = append(o.validators, v)
	}
}

// WithTransformer adds a transformer that rewrites the program after
// parsing. Transformers run in the order given.
func WithTransformer(t syntax.Transformer) Option {
	return func(o *options) {
		o.transformers = append(o.transformers, t)
	}
}

// prepare applies the transformers and validators to a parsed program.
func (o *options) prepare(program *ast.Program, source string) (*ast.Program, error) {
	for _, t := range o.transformers {
		var err error
		if program, err = t.Transform(program); err != nil {
			return nil, err
		}
	}
	var violations []syntax.ValidationError
	for _, v := range o.validators {
		violations = append(violations, v.Validate(program)...)
	}
	if len(violations) > 0 {
		errs := syntax.NewValidationErrors(violations)
		errs.Source = source
		return nil, errs
	}
	return program, nil
}

func (o *options) convertGlobals() (map[string]object.Object, error) {
	converted := make(map[string]object.Object, len(o.globals))
	for name, value := range o.globals {
		obj, err := object.FromGo(value)
		if err != nil {
			return nil, err
		}
		converted[name] = obj
	}
	return converted, nil
}

func (o *options) parserOpts() []parser.Option {
	opts := []parser.Option{parser.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) evaluatorOpts(source string) ([]evaluator.Option, error) {
	globals, err := o.convertGlobals()
	if err != nil {
		return nil, err
	}
	opts := []evaluator.Option{
		evaluator.WithStdout(o.stdout),
		evaluator.WithLogger(o.logger),
		evaluator.WithFilename(o.filename),
		evaluator.WithSource(source),
		evaluator.WithGlobals(globals),
	}
	if o.importer != nil {
		opts = append(opts, evaluator.WithImporter(o.importer))
	}
	if o.newRegistrar != nil {
		opts = append(opts, evaluator.WithRouteRegistrar(o.newRegistrar))
	}
	if o.scope != nil {
		opts = append(opts, evaluator.WithScope(o.scope))
	}
	return opts, nil
}

func (o *options) compilerOpts(source string) []compiler.Option {
	opts := []compiler.Option{
		compiler.WithSource(source),
		compiler.WithLogger(o.logger),
	}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	if o.strict {
		opts = append(opts, compiler.WithStrict())
	}
	return opts
}

func (o *options) vmOpts() ([]vm.Option, error) {
	globals := o.scope
	if globals == nil {
		globals = scope.NewRoot(builtins.Builtins(o.stdout))
		globals.Declare("global", builtins.Global(globals))
	}
	extra, err := o.convertGlobals()
	if err != nil {
		return nil, err
	}
	for name, value := range extra {
		if err := globals.Declare(name, value); err != nil {
			return nil, err
		}
	}
	opts := []vm.Option{vm.WithGlobals(globals), vm.WithLogger(o.logger)}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts, nil
}
