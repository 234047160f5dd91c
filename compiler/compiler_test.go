package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/op"
	"github.com/hexza-lang/hexza/parser"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.Nil(t, err)
	return program
}

func instructions(code *bytecode.Code) []bytecode.Instruction {
	var result []bytecode.Instruction
	for i := 0; i < code.InstructionCount(); i++ {
		result = append(result, code.InstructionAt(i))
	}
	return result
}

func TestCompileSubset(t *testing.T) {
	source := "let x = 1 + 2.5\nprint(x, \"a\")"
	code, err := Compile(parse(t, source), WithFilename("main.hx"), WithSource(source))
	require.Nil(t, err)

	require.Equal(t, []bytecode.Instruction{
		{Op: op.LoadConst, Operand: 0},
		{Op: op.LoadConst, Operand: 1},
		{Op: op.BinaryOp, Operand: int(op.Add)},
		{Op: op.DeclareName, Operand: 0},
		{Op: op.LoadName, Operand: 1},
		{Op: op.LoadName, Operand: 0},
		{Op: op.LoadConst, Operand: 2},
		{Op: op.Call, Operand: 2},
		{Op: op.PopTop},
	}, instructions(code))
	require.Equal(t, 3, code.ConstantCount())
	require.Equal(t, int64(1), code.ConstantAt(0))
	require.Equal(t, 2.5, code.ConstantAt(1))
	require.Equal(t, "a", code.ConstantAt(2))
	require.Equal(t, "main.hx", code.Filename())
	require.Equal(t, source, code.Source())
	require.Equal(t, bytecode.SourceLocation{Line: 2, Column: 1}, code.LocationAt(4))
}

func TestConstantsAndNamesAreDeduplicated(t *testing.T) {
	code, err := Compile(parse(t, "let a = 1\nlet b = 1 + a\na = 'x'\nb = 'x'\n1.0"))
	require.Nil(t, err)
	// int 1 and float 1.0 are distinct constants.
	require.Equal(t, 3, code.ConstantCount())
	require.Equal(t, 2, code.NameCount())
	require.Equal(t, "a", code.NameAt(0))
	require.Equal(t, "b", code.NameAt(1))
}

func TestDeclarationKinds(t *testing.T) {
	code, err := Compile(parse(t, "const A = 1\nvar B = 2\nA = B"))
	require.Nil(t, err)
	require.Equal(t, []bytecode.Instruction{
		{Op: op.LoadConst, Operand: 0},
		{Op: op.DeclareConst, Operand: 0},
		{Op: op.LoadConst, Operand: 1},
		{Op: op.DeclareName, Operand: 1},
		{Op: op.LoadName, Operand: 1},
		{Op: op.StoreName, Operand: 0},
	}, instructions(code))
}

func TestUnsupportedStatementsAreSkipped(t *testing.T) {
	source := `let x = 1
if (x) { x = 2 }
x += 1
let y = [1]
let z
x.field = 3
print(x == 1)
print(-x)
func f() { return 1 }
x = 4
`
	c := New()
	code, err := c.Compile(parse(t, source))
	require.Nil(t, err)

	skipped := c.Skipped()
	var reasons []string
	for _, s := range skipped {
		reasons = append(reasons, s.Reason)
	}
	require.Equal(t, []string{
		"if statement is not supported",
		`operator "+=" is not supported`,
		"list expression is not supported",
		"let without an initializer is not supported",
		"assignment to x.field is not supported",
		`operator "==" is not supported`,
		"unary expression is not supported",
		"func statement is not supported",
	}, reasons)
	require.Equal(t, 2, skipped[0].Pos().LineNumber())
	require.Equal(t, "2:1: if statement is not supported", skipped[0].String())

	// Only "let x = 1" and "x = 4" were compiled.
	require.Equal(t, []bytecode.Instruction{
		{Op: op.LoadConst, Operand: 0},
		{Op: op.DeclareName, Operand: 0},
		{Op: op.LoadConst, Operand: 1},
		{Op: op.StoreName, Operand: 0},
	}, instructions(code))
}

func TestStrictMode(t *testing.T) {
	source := "let x = 1\nwhile (x) { x = 0 }"
	_, err := Compile(parse(t, source), WithStrict(), WithFilename("loop.hx"), WithSource(source))
	require.Error(t, err)
	ce, ok := err.(*errors.CompileError)
	require.True(t, ok, "got %T", err)
	require.Equal(t, errors.E2001, ce.Code)
	require.Equal(t, "while statement is not supported", ce.Message)
	require.Equal(t, 2, ce.Line)
	require.Equal(t, 1, ce.Column)
	require.Equal(t, "while (x) { x = 0 }", ce.SourceLine)
	require.Contains(t, ce.FriendlyErrorMessage(), "loop.hx:2:1")

	_, err = Compile(parse(t, "[1]\n{a: 1}"), WithStrict())
	errs, ok := err.(*errors.CompileErrors)
	require.True(t, ok, "got %T", err)
	require.Len(t, errs.Errors, 2)
	require.Contains(t, errs.Error(), "and 1 more errors")

	_, err = Compile(parse(t, "let x = 1"), WithStrict())
	require.Nil(t, err)
}
