package scripttest

import (
	"context"
	"fmt"
	"strings"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

// TestContext is the "t" value passed to test functions.
type TestContext struct {
	name       string
	filename   string
	failed     bool
	skipped    bool
	skipReason string
	logs       []string
	failures   []AssertionError
	attrs      map[string]object.Object
}

var _ object.AttrGetter = (*TestContext)(nil)

// NewTestContext returns the context for one test function.
func NewTestContext(name, filename string) *TestContext {
	t := &TestContext{name: name, filename: filename}
	t.attrs = map[string]object.Object{
		"assert":       t.method("assert", 1, 2, t.assert),
		"assert_eq":    t.method("assert_eq", 2, 3, t.assertEq),
		"assert_ne":    t.method("assert_ne", 2, 3, t.assertNe),
		"assert_null":  t.method("assert_null", 1, 2, t.assertNull),
		"assert_error": t.method("assert_error", 1, 2, t.assertError),
		"skip":         t.method("skip", 0, 1, t.skip),
		"fail":         t.method("fail", 0, 1, t.fail),
		"log":          t.method("log", 0, -1, t.log),
	}
	return t
}

type methodFunc func(ctx context.Context, args []object.Object) error

// method wraps fn as a builtin that checks its argument count. A max of -1
// means any number.
func (t *TestContext) method(name string, min, max int, fn methodFunc) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) < min || (max >= 0 && len(args) > max) {
			want := fmt.Sprintf("%d-%d arguments", min, max)
			if min == max {
				want = fmt.Sprintf("%d arguments", min)
			}
			return nil, errors.Newf(errors.CallError, "t.%s: expected %s, got %d", name, want, len(args))
		}
		if err := fn(ctx, args); err != nil {
			return nil, err
		}
		return object.Nil, nil
	})
}

func (t *TestContext) Type() object.Type {
	return "test_context"
}

func (t *TestContext) Inspect() string {
	return fmt.Sprintf("test_context(%s)", t.name)
}

func (t *TestContext) String() string {
	return t.Inspect()
}

func (t *TestContext) Interface() any {
	return nil
}

func (t *TestContext) Equals(other object.Object) bool {
	return t == other
}

func (t *TestContext) IsTruthy() bool {
	return true
}

func (t *TestContext) GetAttr(name string) (object.Object, bool) {
	if name == "name" {
		return object.NewString(t.name), true
	}
	attr, ok := t.attrs[name]
	return attr, ok
}

// Name returns the test name.
func (t *TestContext) Name() string { return t.name }

// Failed reports whether any assertion failed.
func (t *TestContext) Failed() bool { return t.failed }

// Skipped reports whether the test called t.skip.
func (t *TestContext) Skipped() bool { return t.skipped }

// SkipReason returns the argument given to t.skip.
func (t *TestContext) SkipReason() string { return t.skipReason }

// Logs returns the messages recorded by t.log.
func (t *TestContext) Logs() []string { return t.logs }

// Failures returns the failed assertions.
func (t *TestContext) Failures() []AssertionError { return t.failures }

func (t *TestContext) assert(_ context.Context, args []object.Object) error {
	if !args[0].IsTruthy() {
		t.addFailure(message(args, 1, "assertion failed"), args[0], nil)
	}
	return nil
}

func (t *TestContext) assertEq(_ context.Context, args []object.Object) error {
	if got, want := args[0], args[1]; !got.Equals(want) {
		t.addFailure(message(args, 2, "values are not equal"), got, want)
	}
	return nil
}

func (t *TestContext) assertNe(_ context.Context, args []object.Object) error {
	if got, want := args[0], args[1]; got.Equals(want) {
		t.addFailure(message(args, 2, "values should not be equal"), got, want)
	}
	return nil
}

func (t *TestContext) assertNull(_ context.Context, args []object.Object) error {
	if args[0] != object.Nil {
		t.addFailure(message(args, 1, "expected null"), args[0], object.Nil)
	}
	return nil
}

// assertError calls its first argument and fails unless the call raises.
func (t *TestContext) assertError(ctx context.Context, args []object.Object) error {
	call, ok := object.GetCallFunc(ctx)
	if !ok {
		return errors.Newf(errors.InternalError, "t.assert_error: no call function in context")
	}
	result, err := call(ctx, args[0], nil)
	if err == nil {
		t.addFailure(message(args, 1, "expected an error"), result, nil)
	}
	return nil
}

func (t *TestContext) skip(_ context.Context, args []object.Object) error {
	t.skipped = true
	t.skipReason = message(args, 0, "")
	return nil
}

func (t *TestContext) fail(_ context.Context, args []object.Object) error {
	t.addFailure(message(args, 0, "test failed"), nil, nil)
	return nil
}

func (t *TestContext) log(_ context.Context, args []object.Object) error {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	t.logs = append(t.logs, strings.Join(parts, " "))
	return nil
}

func (t *TestContext) addFailure(msg string, got, want object.Object) {
	t.failed = true
	t.failures = append(t.failures, AssertionError{
		Message: msg,
		File:    t.filename,
		Got:     got,
		Want:    want,
	})
}

// message returns args[i] as text, or fallback when it is absent.
func message(args []object.Object, i int, fallback string) string {
	if i >= len(args) {
		return fallback
	}
	return args[i].String()
}
