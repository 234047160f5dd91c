package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/internal/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.Nil(t, err)
	return program
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	program := parse(t, input)
	require.Len(t, program.Stmts, 1)
	stmt, ok := program.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", program.Stmts[0])
	return stmt.X
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "((-2) ** 2)"},
		{"2 ** 3 * 4", "((2 ** 3) * 4)"},
		{"a or b and c", "(a or (b and c))"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b < c", "(a == (b < c))"},
		{"x & 1 + 2", "(x & (1 + 2))"},
		{"x << 1 | y", "((x << 1) | y)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"10 - 4 - 3", "((10 - 4) - 3)"},
		{"7 % 3 * 2", "((7 % 3) * 2)"},
		{"not a == b", "((not a) == b)"},
		{"!ok", "(!ok)"},
		{"~mask & 7", "((~mask) & 7)"},
		{"-a.b()", "(-a.b())"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"a or b ? 1 : 2", "((a or b) ? 1 : 2)"},
		{"f(1)[0].g", "(f(1)[0]).g"},
		{"await fetch(url)", "await fetch(url)"},
		{"x = y = 3", "x = y = 3"},
		{"total += n * 2", "total += (n * 2)"},
		{"count++", "(count++)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, parseExpr(t, tt.input).String())
		})
	}
}

func TestLiterals(t *testing.T) {
	list := parseExpr(t, "[1, 2.5, 'three', true, null,]").(*ast.List)
	require.Len(t, list.Items, 5)
	require.Equal(t, int64(1), list.Items[0].(*ast.Int).Value)
	require.Equal(t, 2.5, list.Items[1].(*ast.Float).Value)
	require.Equal(t, "three", list.Items[2].(*ast.String).Value)
	require.True(t, list.Items[3].(*ast.Bool).Value)
	require.IsType(t, &ast.Null{}, list.Items[4])

	m := parseExpr(t, `{name: "hexza", "version": 2, default: 1,}`).(*ast.Map)
	require.Len(t, m.Items, 3)
	require.Equal(t, "name", m.Items[0].Key)
	require.Equal(t, "version", m.Items[1].Key)
	require.Equal(t, "default", m.Items[2].Key)

	empty := parseExpr(t, "{}").(*ast.Map)
	require.Len(t, empty.Items, 0)

	str := parseExpr(t, "\"\"\"raw\\n text\"\"\"").(*ast.String)
	require.True(t, str.Multiline)
	require.Equal(t, `raw\n text`, str.Value)
}

func TestLargeIntegerBecomesFloat(t *testing.T) {
	f := parseExpr(t, "99999999999999999999").(*ast.Float)
	require.Equal(t, 1e20, f.Value)
}

func TestLambda(t *testing.T) {
	lambda := parseExpr(t, "lambda (x, y) -> x * y").(*ast.Lambda)
	require.Len(t, lambda.Params, 2)
	require.Equal(t, "(x * y)", lambda.Body.String())

	noParams := parseExpr(t, "lambda -> 42").(*ast.Lambda)
	require.Len(t, noParams.Params, 0)

	call := parseExpr(t, "apply(lambda (n) -> n + 1, 2)").(*ast.Call)
	require.Len(t, call.Args, 2)
}

func TestNewExpression(t *testing.T) {
	expr := parseExpr(t, "new B().greet()")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	member := call.Fun.(*ast.Member)
	require.Equal(t, "greet", member.Name.Name)
	n := member.X.(*ast.New)
	require.Equal(t, "B", n.Class.Name)
	require.Len(t, n.Args, 0)
}

func TestVarDeclarations(t *testing.T) {
	program := parse(t, "let x: int = 5; var y; const PI = 3.14")
	require.Len(t, program.Stmts, 3)

	x := program.Stmts[0].(*ast.Var)
	require.Equal(t, ast.Let, x.Kind)
	require.Equal(t, "int", x.Type.Name)
	require.Equal(t, int64(5), x.Value.(*ast.Int).Value)

	y := program.Stmts[1].(*ast.Var)
	require.Equal(t, ast.VarKw, y.Kind)
	require.Nil(t, y.Value)

	pi := program.Stmts[2].(*ast.Var)
	require.Equal(t, ast.Const, pi.Kind)
}

func TestConstWithoutValue(t *testing.T) {
	program := parse(t, "const X;")
	decl := program.Stmts[0].(*ast.Var)
	require.Equal(t, ast.Const, decl.Kind)
	require.Equal(t, "X", decl.Name.Name)
	require.Nil(t, decl.Value)
}

func TestFunctionDeclaration(t *testing.T) {
	program := parse(t, `
async func load(path: string, retries: int) -> list[] {
	return await read(path);
}
func noop() {}
`)
	require.Len(t, program.Stmts, 2)
	fn := program.Stmts[0].(*ast.Func)
	require.True(t, fn.Async)
	require.Equal(t, "load", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "string", fn.Params[0].Type.Name)
	require.Equal(t, "list[]", fn.ReturnType.Name)
	require.Len(t, fn.Body.Stmts, 1)

	noop := program.Stmts[1].(*ast.Func)
	require.False(t, noop.Async)
	require.Len(t, noop.Body.Stmts, 0)
}

func TestClassDeclaration(t *testing.T) {
	program := parse(t, `
class Animal {
	func init(name) { this.name = name; }
	func speak() { return "..."; }
}
class Dog < Animal {
	async func fetch() { return self.name; }
}`)
	require.Len(t, program.Stmts, 2)
	animal := program.Stmts[0].(*ast.Class)
	require.Nil(t, animal.Base)
	require.Len(t, animal.Methods, 2)

	dog := program.Stmts[1].(*ast.Class)
	require.Equal(t, "Animal", dog.Base.Name)
	require.True(t, dog.Methods[0].Async)
}

func TestClassBodyRejectsStatements(t *testing.T) {
	_, err := Parse(context.Background(), "class A { let x = 1 }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected method")
}

func TestIfChains(t *testing.T) {
	program := parse(t, `
if (x > 1) { a() } elseif (x > 0) { b() } else { c() }
if x { a() } else if y { b() }
`)
	first := program.Stmts[0].(*ast.If)
	second := first.Alternative.(*ast.If)
	require.Equal(t, "(x > 0)", second.Cond.String())
	require.IsType(t, &ast.Block{}, second.Alternative)

	other := program.Stmts[1].(*ast.If)
	require.IsType(t, &ast.If{}, other.Alternative)
	require.Nil(t, other.Alternative.(*ast.If).Alternative)
}

func TestForLoops(t *testing.T) {
	program := parse(t, `
for (let i = 0; i < 10; i = i + 1) { print(i) }
for (;;) { break }
for (x in items) { continue }
for (i = f(a, (b)); i < 3; i++) { }
for (let key in {a: 1}) { }
`)
	require.Len(t, program.Stmts, 5)

	c := program.Stmts[0].(*ast.For)
	require.IsType(t, &ast.Var{}, c.Init)
	require.Equal(t, "(i < 10)", c.Cond.String())
	require.Equal(t, "i = (i + 1)", c.Post.String())

	empty := program.Stmts[1].(*ast.For)
	require.Nil(t, empty.Init)
	require.Nil(t, empty.Cond)
	require.Nil(t, empty.Post)

	in := program.Stmts[2].(*ast.ForIn)
	require.Equal(t, "x", in.Name.Name)
	require.Equal(t, "items", in.Iterable.String())

	nested := program.Stmts[3].(*ast.For)
	require.IsType(t, &ast.ExprStmt{}, nested.Init)
	require.Equal(t, "(i++)", nested.Post.String())

	require.IsType(t, &ast.ForIn{}, program.Stmts[4])
}

func TestForInLookahead(t *testing.T) {
	tests := []struct {
		input string
		forIn bool
	}{
		{"for (x in xs) {}", true},
		{"for (f(x in y); ;) {}", false},
		{"for ([a in b]; ;) {}", false},
		{"for (i = 0; i in xs; i++) {}", false},
		{"for (k in (m)) {}", true},
	}
	for _, tt := range tests {
		tokens, err := lexer.Tokenize(tt.input)
		require.Nil(t, err)
		p := New(tokens)
		p.nextToken() // "("
		require.Equal(t, tt.forIn, p.isForIn(), tt.input)
	}
}

func TestReturnForms(t *testing.T) {
	program := parse(t, "func f() { return; } func g() { return } func h() { return 1 + 2 }")
	require.Nil(t, program.Stmts[0].(*ast.Func).Body.Stmts[0].(*ast.Return).Value)
	require.Nil(t, program.Stmts[1].(*ast.Func).Body.Stmts[0].(*ast.Return).Value)
	require.Equal(t, "(1 + 2)", program.Stmts[2].(*ast.Func).Body.Stmts[0].(*ast.Return).Value.String())
}

func TestImport(t *testing.T) {
	program := parse(t, `
import "lib/math_utils.hx"
import "./helpers", js as h
import "vendor/left-pad.js"
`)
	first := program.Stmts[0].(*ast.Import)
	require.Equal(t, "lib/math_utils.hx", first.Path.Value)
	require.Equal(t, "math_utils", first.Alias.Name)

	second := program.Stmts[1].(*ast.Import)
	require.Equal(t, "js", second.Ext)
	require.Equal(t, "h", second.Alias.Name)

	third := program.Stmts[2].(*ast.Import)
	require.Equal(t, "left_pad", third.Alias.Name)
}

func TestModuleStem(t *testing.T) {
	require.Equal(t, "utils", ModuleStem("a/b/utils.hxza"))
	require.Equal(t, "pkg", ModuleStem("pkg/"))
	require.Equal(t, "_3d", ModuleStem("3d.js"))
}

func TestExport(t *testing.T) {
	program := parse(t, "export func add(a, b) { return a + b } export let version = 1")
	require.IsType(t, &ast.Func{}, program.Stmts[0].(*ast.Export).Stmt)
	require.IsType(t, &ast.Var{}, program.Stmts[1].(*ast.Export).Stmt)
}

func TestTryCatchFinally(t *testing.T) {
	program := parse(t, `
try { risky() } catch (e) { print(e) } finally { done() }
try { risky() } catch { recover() }
try { risky() } finally { done() }
`)
	full := program.Stmts[0].(*ast.Try)
	require.Equal(t, "e", full.CatchIdent.Name)
	require.NotNil(t, full.CatchBlock)
	require.NotNil(t, full.FinallyBlock)

	noIdent := program.Stmts[1].(*ast.Try)
	require.Nil(t, noIdent.CatchIdent)
	require.Nil(t, noIdent.FinallyBlock)

	onlyFinally := program.Stmts[2].(*ast.Try)
	require.Nil(t, onlyFinally.CatchBlock)

	_, err := Parse(context.Background(), "try { x() }")
	require.Error(t, err)
}

func TestThrow(t *testing.T) {
	program := parse(t, `throw "bad input"`)
	require.Equal(t, `"bad input"`, program.Stmts[0].(*ast.Throw).Value.String())
}

func TestAPI(t *testing.T) {
	program := parse(t, `
api Users {
	GET "/users" -> listUsers
	post "/users" -> createUser;
	DELETE "/users/1" -> removeUser,
}`)
	api := program.Stmts[0].(*ast.API)
	require.Equal(t, "Users", api.Name.Name)
	require.Len(t, api.Routes, 3)
	require.Equal(t, "POST", api.Routes[1].Method)
	require.Equal(t, "/users", api.Routes[1].Path)
	require.Equal(t, "removeUser", api.Routes[2].Handler.Name)

	_, err := Parse(context.Background(), `api X { FETCH "/" -> h }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected HTTP method")
}

func TestOptionalSemicolons(t *testing.T) {
	program := parse(t, ";;let a = 1;; let b = 2 print(a + b);")
	require.Len(t, program.Stmts, 3)
}

func TestAssignmentTargetsAreNotValidatedByParser(t *testing.T) {
	assign := parseExpr(t, "1 = 2").(*ast.Assign)
	require.IsType(t, &ast.Int{}, assign.Target)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"let = 5", `unexpected "=" while parsing let statement (expected identifier)`},
		{"print(1, ", "unexpected end of input"},
		{"func f( { }", `unexpected "{" while parsing function parameters`},
		{"x = )", `invalid syntax (unexpected ")")`},
		{"while (true) { ", `expected "}"`},
		{"a.+", "while parsing member access"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, err := Parse(context.Background(), tt.input)
			require.Nil(t, program)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.message)
			_, ok := err.(*SyntaxError)
			require.True(t, ok)
		})
	}
}

func TestSyntaxErrorLocation(t *testing.T) {
	_, err := Parse(context.Background(), "let a = 1\nlet b = )\n", WithFilename("main.hx"))
	require.Error(t, err)
	pe, ok := err.(ParserError)
	require.True(t, ok)
	require.Equal(t, "main.hx", pe.File())
	require.Equal(t, 2, pe.StartPosition().LineNumber())
	require.Equal(t, 9, pe.StartPosition().ColumnNumber())
	require.Equal(t, "let b = )", pe.SourceCode())

	formatted := pe.FriendlyErrorMessage()
	require.Contains(t, formatted, "--> main.hx:2:9")
	require.Contains(t, formatted, " 2 | let b = )")
}

func TestLexerErrorsAreSyntaxErrors(t *testing.T) {
	_, err := Parse(context.Background(), `x = "unterminated`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated string literal")

	_, err = Parse(context.Background(), "x = 1 # 2", WithStrictLexing())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected character")

	program, err := Parse(context.Background(), "x = 1 # 2")
	require.Nil(t, err)
	require.Len(t, program.Stmts, 1)
}

func TestParseFromTokens(t *testing.T) {
	tokens, err := lexer.Tokenize("let total = 1 + 2")
	require.Nil(t, err)
	program, err := New(tokens).Parse(context.Background())
	require.Nil(t, err)
	require.Equal(t, "let total = (1 + 2)", program.String())
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600)
	_, err := Parse(context.Background(), input)
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth")

	_, err = Parse(context.Background(), input, WithMaxDepth(1000))
	require.Nil(t, err)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "let x = 1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatementPositions(t *testing.T) {
	program := parse(t, "\nlet x = 5;\nlet y = 10;")
	stmt1 := program.Stmts[0].(*ast.Var)
	stmt2 := program.Stmts[1].(*ast.Var)
	require.Equal(t, 2, stmt1.Pos().LineNumber())
	require.Equal(t, 1, stmt1.Pos().ColumnNumber())
	require.Equal(t, 10, stmt1.End().ColumnNumber())
	require.Equal(t, 3, stmt2.Pos().LineNumber())
	require.Equal(t, 11, stmt2.End().ColumnNumber())
}
