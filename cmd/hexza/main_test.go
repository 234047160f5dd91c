package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/syntax"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)
	cmd := a.rootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.hx", `print("hi", 1 + 2);`)
	res := execute(t, "", script)
	require.NoError(t, res.err)
	require.Equal(t, "hi 3\n", res.stdout)
}

func TestRunCodeFlagWithPrint(t *testing.T) {
	res := execute(t, "", "-c", `[1, "two"]`, "--print")
	require.NoError(t, res.err)
	require.Equal(t, "[\n  1,\n  \"two\"\n]\n", res.stdout)
}

func TestRunStdin(t *testing.T) {
	res := execute(t, `print("from stdin");`)
	require.NoError(t, res.err)
	require.Equal(t, "from stdin\n", res.stdout)
}

func TestRunMultipleSources(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.hx", `1`)
	res := execute(t, "", script, "-c", "2")
	require.EqualError(t, res.err, "multiple input sources specified")
}

func TestRunBytecode(t *testing.T) {
	res := execute(t, "", "--bytecode", "-c", "let x = 6;\nprint(x * 7);")
	require.NoError(t, res.err)
	require.Equal(t, "42\n", res.stdout)
}

func TestRunBytecodeStrict(t *testing.T) {
	res := execute(t, "", "--bytecode", "--strict", "-c", "let x = 1;\nif (x) { print(x); }")
	require.Error(t, res.err)
	var ce *errors.CompileError
	require.ErrorAs(t, res.err, &ce)
	require.Equal(t, 2, ce.Line)
}

func TestRunRuntimeError(t *testing.T) {
	res := execute(t, "", "-c", "let total = 1;\nprint(totl);")
	require.ErrorIs(t, res.err, errors.NameError)

	var buf bytes.Buffer
	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &buf)
	a.printError(res.err)
	require.Contains(t, buf.String(), "undefined variable")
	require.Contains(t, buf.String(), "print(totl);")
}

func TestRunImportFromRegistry(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "registry")
	lib := writeFile(t, dir, "greet.hx", `export func greet(name) { return "hello " + name; }`)

	res := execute(t, "", "--registry", registry, "pkg", "add", "greeter", lib)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "added greeter (source)")

	script := writeFile(t, t.TempDir(), "main.hx", "import \"greeter\" as g;\nprint(g.greet(\"world\"));")
	res = execute(t, "", "--registry", registry, script)
	require.NoError(t, res.err)
	require.Equal(t, "hello world\n", res.stdout)
}

func TestRunSyntaxPreset(t *testing.T) {
	res := execute(t, "", "-c", "1 + 2", "--syntax", "expression", "--print")
	require.NoError(t, res.err)
	require.Equal(t, "3\n", res.stdout)

	res = execute(t, "", "-c", "let x = 1;\nx = 2;", "--syntax", "expression")
	require.Error(t, res.err)
	var verrs *syntax.ValidationErrors
	require.ErrorAs(t, res.err, &verrs)
	require.Len(t, verrs.Errors, 2)

	res = execute(t, "", "-c", "1", "--syntax", "tiny")
	require.EqualError(t, res.err, `unknown syntax preset "tiny" (want full, basic, expression or sandboxed)`)
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ugly.hx", "func f() {\nreturn 1;   \n}\n")
	want := "func f() {\n    return 1;\n}\n"

	res := execute(t, "", "fmt", path)
	require.NoError(t, res.err)
	require.Equal(t, want, res.stdout)

	res = execute(t, "", "fmt", "--check", path)
	require.EqualError(t, res.err, path+" is not formatted")

	res = execute(t, "", "fmt", "-w", path)
	require.NoError(t, res.err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, string(data))

	res = execute(t, "", "fmt", "--check", path)
	require.NoError(t, res.err)
}

func TestPkg(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "registry")
	lib := writeFile(t, dir, "util.js", `module.exports = {};`)

	res := execute(t, "", "--registry", registry, "pkg", "list")
	require.NoError(t, res.err)
	require.Equal(t, "no packages installed\n", res.stdout)

	res = execute(t, "", "--registry", registry, "pkg", "add", "util", lib)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "added util (foreign)")

	res = execute(t, "", "--registry", registry, "pkg", "list")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "NAME")
	require.Contains(t, res.stdout, "util")
	require.Contains(t, res.stdout, "foreign")

	res = execute(t, "", "--registry", registry, "pkg", "list", "--json")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"name": "util"`)
	require.Contains(t, res.stdout, `"kind": "foreign"`)
	require.Contains(t, res.stdout, `"ext": ".js"`)

	res = execute(t, "", "--registry", registry, "pkg", "check")
	require.NoError(t, res.err)
	require.Equal(t, "1 packages ok\n", res.stdout)

	res = execute(t, "", "--registry", registry, "pkg", "remove", "util")
	require.NoError(t, res.err)

	res = execute(t, "", "--registry", registry, "pkg", "remove", "util")
	require.EqualError(t, res.err, `package "util" is not installed`)

	res = execute(t, "", "--registry", registry, "pkg", "add", "missing", filepath.Join(dir, "nope.hx"))
	require.Error(t, res.err)
}

func TestCompileAndRunCompiled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.hx", "let x = 40;\nif (x) { x = 0; }\nprint(x + 2);\n")
	out := filepath.Join(dir, "prog.hxc")

	res := execute(t, "", "compile", path, "-o", out)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "wrote "+out)
	require.Contains(t, res.stderr, "if statement is not supported (skipped)")

	res = execute(t, "", out)
	require.NoError(t, res.err)
	require.Equal(t, "42\n", res.stdout)

	res = execute(t, "", "compile", "--strict", path)
	require.Error(t, res.err)
}

func TestDis(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.hx", "print(1 + 2);\n")
	res := execute(t, "", "dis", path)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "LOAD_NAME")
	require.Contains(t, res.stdout, "print")
	require.Contains(t, res.stdout, "BINARY_OP")
	require.Contains(t, res.stdout, "CALL")
}

func TestDocs(t *testing.T) {
	res := execute(t, "", "docs")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"syntax_quick_ref"`)

	res = execute(t, "", "docs", "len")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"name": "len"`)

	res = execute(t, "", "docs", "--category", "errors")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"patterns"`)

	res = execute(t, "", "docs", "nothing")
	require.EqualError(t, res.err, `no documentation for "nothing"`)
}

func TestVersion(t *testing.T) {
	res := execute(t, "", "version")
	require.NoError(t, res.err)
	require.Equal(t, version+"\n", res.stdout)

	res = execute(t, "", "version", "--json")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"version": "`+version+`"`)
}

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math_test.hx", `
func test_add(t) { t.assert_eq(1 + 2, 3); }
func test_sub(t) { t.assert_eq(5 - 2, 3); }
`)
	res := execute(t, "", "test", dir)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "--- PASS: test_add")
	require.Contains(t, res.stdout, "PASS\n2 passed\n")

	res = execute(t, "", "test", dir, "--run", "sub")
	require.NoError(t, res.err)
	require.NotContains(t, res.stdout, "test_add")

	writeFile(t, dir, "bad_test.hx", `func test_bad(t) { t.fail("nope"); }`)
	res = execute(t, "", "test", dir)
	require.EqualError(t, res.err, "tests failed")
	require.Contains(t, res.stdout, "--- FAIL: test_bad")
	require.Contains(t, res.stdout, "nope")

	res = execute(t, "", "test", t.TempDir())
	require.NoError(t, res.err)
	require.Equal(t, "no test files found\n", res.stdout)
}

func TestRepl(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	session, err := hexza.NewSession(hexza.WithStdout(&out))
	require.NoError(t, err)
	r := newRepl(session, &out, false)

	prompt, quit := r.feed(ctx, "let x = 1;")
	require.Equal(t, primaryPrompt, prompt)
	require.False(t, quit)
	require.Empty(t, out.String())

	prompt, _ = r.feed(ctx, "func next() {")
	require.Equal(t, continuationPrompt, prompt)
	prompt, _ = r.feed(ctx, "    return x + 1;")
	require.Equal(t, continuationPrompt, prompt)
	prompt, _ = r.feed(ctx, "}")
	require.Equal(t, primaryPrompt, prompt)

	r.feed(ctx, "next()")
	require.Equal(t, "2\n", out.String())

	out.Reset()
	r.feed(ctx, `:type "s"`)
	require.Equal(t, "string\n", out.String())

	out.Reset()
	r.feed(ctx, "missing_name")
	require.Contains(t, out.String(), "undefined variable")

	out.Reset()
	r.feed(ctx, ":env")
	require.Contains(t, out.String(), "next")

	_, quit = r.feed(ctx, ":quit")
	require.True(t, quit)
}

func TestReplInterruptClearsBuffer(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	session, err := hexza.NewSession(hexza.WithStdout(&out))
	require.NoError(t, err)
	r := newRepl(session, &out, false)

	prompt, _ := r.feed(ctx, "print(")
	require.Equal(t, continuationPrompt, prompt)
	require.True(t, r.pending())
	r.reset()
	require.False(t, r.pending())

	r.feed(ctx, `print("ok")`)
	require.Equal(t, "ok\n", out.String())
}

func TestIsIncomplete(t *testing.T) {
	ctx := context.Background()
	session, err := hexza.NewSession()
	require.NoError(t, err)
	for _, src := range []string{"print(", "func f() {", "let s = \"\"\"abc", "[1, 2"} {
		_, err := session.Eval(ctx, src)
		require.Error(t, err, src)
		require.True(t, isIncomplete(err), src)
	}
	_, err = session.Eval(ctx, "let x = ;")
	require.Error(t, err)
	require.False(t, isIncomplete(err))
}
