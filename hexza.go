// Package hexza embeds the Hexza scripting language in Go programs.
//
// Eval runs source code with the tree-walking evaluator, which supports the
// whole language. Compile and Run use the bytecode compiler and VM, which
// support a smaller subset. Both accept the same options:
//
//	result, err := hexza.Eval(ctx, `let x = 2; x * 21`)
//
//	code, err := hexza.Compile(ctx, `print("hi")`)
//	result, err := hexza.Run(ctx, code)
package hexza

import (
	"context"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/compiler"
	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
	"github.com/hexza-lang/hexza/vm"
)

// Eval parses and evaluates source code and returns the result as a native
// Go value.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	result, err := EvalObject(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return toGo(result), nil
}

// EvalObject is like Eval but returns the result as a Hexza object.
func EvalObject(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	program, err := o.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	evalOpts, err := o.evaluatorOpts(source)
	if err != nil {
		return nil, err
	}
	return evaluator.New(evalOpts...).Eval(ctx, program)
}

// Compile parses and compiles source code into bytecode. Statements outside
// the compiler's subset are skipped unless WithStrict is given. The returned
// Code is immutable and safe for concurrent use.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	program, err := o.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(program, o.compilerOpts(source)...)
}

// Run executes compiled bytecode and returns the result as a native Go
// value. Each call creates fresh runtime state unless WithScope is given.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) (any, error) {
	o := collectOptions(opts...)
	vmOpts, err := o.vmOpts()
	if err != nil {
		return nil, err
	}
	result, err := vm.Run(ctx, code, vmOpts...)
	if err != nil {
		return nil, err
	}
	return toGo(result), nil
}

func (o *options) parse(ctx context.Context, source string) (*ast.Program, error) {
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return o.prepare(program, source)
}

// toGo converts a result to a Go value. Objects without a Go equivalent,
// such as functions and classes, are returned as their string form.
func toGo(result object.Object) any {
	if result == nil || result == object.Nil {
		return nil
	}
	if value := result.Interface(); value != nil {
		return value
	}
	return result.Inspect()
}
