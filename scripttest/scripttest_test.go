package scripttest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
)

func call(t *testing.T, tc *TestContext, method string, args ...object.Object) error {
	t.Helper()
	attr, ok := tc.GetAttr(method)
	require.True(t, ok, method)
	_, err := attr.(*object.Builtin).Call(context.Background(), args...)
	return err
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "PASS", StatusPassed.String())
	require.Equal(t, "FAIL", StatusFailed.String())
	require.Equal(t, "SKIP", StatusSkipped.String())
	require.Equal(t, "ERROR", StatusError.String())
}

func TestContextName(t *testing.T) {
	tc := NewTestContext("test_example", "example_test.hx")
	require.Equal(t, "test_example", tc.Name())
	name, ok := tc.GetAttr("name")
	require.True(t, ok)
	require.Equal(t, "test_example", name.String())
	_, ok = tc.GetAttr("missing")
	require.False(t, ok)
}

func TestAssertions(t *testing.T) {
	tc := NewTestContext("test", "a_test.hx")
	require.NoError(t, call(t, tc, "assert", object.True))
	require.NoError(t, call(t, tc, "assert_eq", object.NewInt(1), object.NewInt(1)))
	require.NoError(t, call(t, tc, "assert_ne", object.NewInt(1), object.NewInt(2)))
	require.NoError(t, call(t, tc, "assert_null", object.Nil))
	require.False(t, tc.Failed())

	require.NoError(t, call(t, tc, "assert", object.False))
	require.NoError(t, call(t, tc, "assert_eq", object.NewInt(1), object.NewInt(2), object.NewString("sum")))
	require.True(t, tc.Failed())

	failures := tc.Failures()
	require.Len(t, failures, 2)
	require.Equal(t, "assertion failed", failures[0].Message)
	require.Equal(t, "sum", failures[1].Message)
	require.Equal(t, object.NewInt(1), failures[1].Got)
	require.Equal(t, object.NewInt(2), failures[1].Want)
	require.Equal(t, "a_test.hx", failures[1].File)
}

func TestArgumentCount(t *testing.T) {
	tc := NewTestContext("test", "a_test.hx")
	err := call(t, tc, "assert_eq", object.NewInt(1))
	require.EqualError(t, err, "call error: t.assert_eq: expected 2-3 arguments, got 1")
}

func TestSkipAndLog(t *testing.T) {
	tc := NewTestContext("test", "a_test.hx")
	require.NoError(t, call(t, tc, "log", object.NewString("value"), object.NewInt(3)))
	require.NoError(t, call(t, tc, "skip", object.NewString("not yet")))
	require.True(t, tc.Skipped())
	require.Equal(t, "not yet", tc.SkipReason())
	require.Equal(t, []string{"value 3"}, tc.Logs())
}

func TestDiscoverTestFunctions(t *testing.T) {
	program, err := parser.Parse(context.Background(), `
func helper() {}
func test_b(t) {}
export func test_a(t) {}
let test_value = 1;
`)
	require.NoError(t, err)
	require.Equal(t, []string{"test_b", "test_a"}, DiscoverTestFunctions(program))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_test.hx"), "")
	writeFile(t, filepath.Join(dir, "b.hx"), "")
	writeFile(t, filepath.Join(dir, "sub", "c_test.hxza"), "")

	files, err := DiscoverTestFiles([]string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a_test.hx")}, files)

	files, err = DiscoverTestFiles([]string{dir + "/..."})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a_test.hx"),
		filepath.Join(dir, "sub", "c_test.hxza"),
	}, files)

	_, err = DiscoverTestFiles([]string{filepath.Join(dir, "nope")})
	require.Error(t, err)
}

const mathTests = `
let base = 10;

func add(a, b) { return a + b; }

func test_add(t) {
    t.assert_eq(add(2, 3), 5);
}

func test_state_is_fresh(t) {
    base = base + 1;
    t.assert_eq(base, 11);
}

func test_wrong(t) {
    t.log("checking", base);
    t.assert_eq(add(1, 1), 3, "one plus one");
}

func test_skip(t) {
    t.skip("later");
}

func test_raises(t) {
    t.assert_error(lambda -> error("boom"));
}

func test_broken(t) {
    undefined_call();
}
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math_test.hx"), mathTests)
	writeFile(t, filepath.Join(dir, "bad_test.hx"), "func test_x(t) {")

	var stdout bytes.Buffer
	summary, err := Run(context.Background(), Config{Patterns: []string{dir}, Stdout: &stdout})
	require.NoError(t, err)
	require.Len(t, summary.Files, 2)
	require.Equal(t, 3, summary.Passed)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 1, summary.Errors)
	require.Equal(t, 6, summary.TotalTests())
	require.False(t, summary.Success())

	var bad, math *FileResult
	for _, f := range summary.Files {
		if filepath.Base(f.Filename) == "bad_test.hx" {
			bad = f
		} else {
			math = f
		}
	}
	require.Error(t, bad.LoadErr)
	require.Len(t, math.Tests, 6)

	wrong := math.Tests[2]
	require.Equal(t, "test_wrong", wrong.Name)
	require.Equal(t, StatusFailed, wrong.Status)
	require.Equal(t, []string{"checking 10"}, wrong.Logs)

	var out bytes.Buffer
	NewOutput(&out, false, false).PrintResults(summary)
	text := out.String()
	require.Contains(t, text, "LOAD ERROR:")
	require.Contains(t, text, "=== RUN   test_add\n--- PASS: test_add")
	require.Contains(t, text, "--- FAIL: test_wrong")
	require.Contains(t, text, "one plus one")
	require.Contains(t, text, "        got:  2\n        want: 3\n")
	require.Contains(t, text, "--- SKIP: test_skip")
	require.Contains(t, text, "--- ERROR: test_broken")
	require.Contains(t, text, "FAIL\n3 passed, 1 failed, 1 skipped, 1 errors\n")
}

func TestRunPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math_test.hx"), mathTests)
	summary, err := Run(context.Background(), Config{Patterns: []string{dir}, RunPattern: "add$"})
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalTests())
	require.True(t, summary.Success())

	_, err = Run(context.Background(), Config{Patterns: []string{dir}, RunPattern: "("})
	require.Error(t, err)
}
