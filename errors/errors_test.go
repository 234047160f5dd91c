package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuntimeErrorIs(t *testing.T) {
	err := Newf(ConstError, "cannot reassign constant %q", "PI")
	require.True(t, stderrors.Is(err, ConstError))
	require.False(t, stderrors.Is(err, NameError))
	require.Equal(t, `constant error: cannot reassign constant "PI"`, err.Error())
	require.Equal(t, `cannot reassign constant "PI"`, Message(err))
}

func TestWrapKeepsCause(t *testing.T) {
	host := fmt.Errorf("disk full")
	err := Wrap(host)
	require.True(t, stderrors.Is(err, host))
	require.True(t, stderrors.Is(err, ThrownError))
	require.Equal(t, "disk full", err.Error())
	require.Same(t, err, Wrap(err))
}

func TestWithLocationKeepsFirst(t *testing.T) {
	err := Newf(NameError, "undefined variable: x")
	err.WithLocation(SourceLocation{Line: 2, Column: 5})
	err.WithLocation(SourceLocation{Line: 9, Column: 1})
	require.Equal(t, 2, err.Location.Line)
}

func TestFormatRuntimeError(t *testing.T) {
	err := Newf(NameError, "undefined variable: totl")
	err.Location = SourceLocation{Filename: "main.hx", Line: 3, Column: 7, Source: "print(totl)"}
	err.Hint = DidYouMean(SuggestSimilar("totl", []string{"total", "print", "tot"}))

	out := NewFormatter(false).Format(err.ToFormatted())
	expected := `runtime error[E3002]: name error: undefined variable: totl
  --> main.hx:3:7
   |
 3 | print(totl)
   |       ^
   = hint: did you mean one of: 'tot', 'total'?
`
	require.Equal(t, expected, out)
}

func TestFormatPlainError(t *testing.T) {
	out := NewFormatter(false).FormatError(fmt.Errorf("boom"))
	require.Equal(t, "error: boom\n", out)
}

func TestSuggestSimilar(t *testing.T) {
	require.Equal(t, []string{"length"}, SuggestSimilar("lenght", []string{"length", "append", "pop"}))
	require.Nil(t, SuggestSimilar("zzz", []string{"append"}))
	require.Equal(t, "", DidYouMean(nil))
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatMultiple(nil))

	single := f.FormatMultiple([]*FormattedError{{Message: "only"}})
	require.NotContains(t, single, "[1/1]")

	out := f.FormatMultiple([]*FormattedError{
		{Kind: "compile error", Message: "first"},
		{Kind: "compile error", Message: "second"},
	})
	require.Contains(t, out, "[1/2] compile error: first")
	require.Contains(t, out, "[2/2] compile error: second")
	require.Contains(t, out, "found 2 errors")
}

func TestCompileErrors(t *testing.T) {
	var errs CompileErrors
	require.Nil(t, errs.ToError())

	errs.Add(&CompileError{Code: E2001, Message: "if statement is not supported", Filename: "a.hx", Line: 2, Column: 1})
	single := errs.ToError()
	require.IsType(t, &CompileError{}, single)
	require.Equal(t, "compile error: if statement is not supported (a.hx:2:1)", single.Error())

	errs.Add(&CompileError{Code: E2001, Message: "while statement is not supported", Line: 5, Column: 3, SourceLine: "while (x) {}"})
	multi := errs.ToError()
	require.Equal(t, "compile error: if statement is not supported (a.hx:2:1) (and 1 more errors)", multi.Error())

	out := NewFormatter(false).FormatError(multi)
	require.Contains(t, out, "[1/2]")
	require.Contains(t, out, "while (x) {}")
	require.Contains(t, out, "found 2 errors")
	require.Equal(t, out, errs.FriendlyErrorMessage())
}
