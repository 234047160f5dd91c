package evaluator

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
)

type result struct {
	value  object.Object
	stdout string
	interp *Interpreter
}

func eval(t *testing.T, source string, opts ...Option) (result, error) {
	t.Helper()
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("test.hx"))
	require.Nil(t, err)
	var out bytes.Buffer
	opts = append([]Option{WithStdout(&out), WithSource(source), WithFilename("test.hx")}, opts...)
	e := New(opts...)
	value, err := e.Eval(context.Background(), program)
	return result{value: value, stdout: out.String(), interp: e}, err
}

func mustEval(t *testing.T, source string, opts ...Option) result {
	t.Helper()
	res, err := eval(t, source, opts...)
	require.Nil(t, err)
	return res
}

func global(t *testing.T, res result, name string) object.Object {
	t.Helper()
	value, ok := res.interp.Globals().Lookup(name)
	require.True(t, ok, "global %q is not defined", name)
	return value
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"1 + 2 * 3", object.NewInt(7)},
		{"2 ** 3 ** 2", object.NewInt(512)},
		{"(1 + 2) * 3", object.NewInt(9)},
		{"7 / 2", object.NewFloat(3.5)},
		{"-7 % 3", object.NewInt(2)},
		{"1 < 2 and 2 < 3", object.True},
		{"0 or 5", object.NewInt(5)},
		{"'' and crash()", object.NewString("")},
		{"null || 'x'", object.NewString("x")},
		{"not true", object.False},
		{"!0", object.True},
		{"~5", object.NewInt(-6)},
		{"6 & 3 | 8", object.NewInt(10)},
		{"1 << 4", object.NewInt(16)},
		{"'ab' + 'cd'", object.NewString("abcd")},
		{"'ab' * 2", object.NewString("abab")},
		{"[1] + [2]", object.NewList([]object.Object{object.NewInt(1), object.NewInt(2)})},
		{"[1, 2] == [1, 2]", object.True},
		{"{a: 1} == {a: 1.0}", object.True},
		{"1 > 2 ? 'yes' : 'no'", object.NewString("no")},
		{"[10, 20, 30][-1]", object.NewInt(30)},
		{"{'a b': 1}['a b']", object.NewInt(1)},
		{"'héllo'[1]", object.NewString("é")},
		{"[1, 2, 3].length", object.NewInt(3)},
		{"'abc'.length", object.NewInt(3)},
		{"{x: 1}.x", object.NewInt(1)},
		{"{x: 1}.missing", object.Nil},
		{"(5).anything", object.Nil},
		{"(lambda (x) -> x * 2)(21)", object.NewInt(42)},
		{"len(range(5))", object.NewInt(5)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := mustEval(t, tt.input)
			require.True(t, tt.expected.Equals(res.value), "got %s", res.value.Inspect())
			require.Equal(t, tt.expected.Type(), res.value.Type())
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	res := mustEval(t, "5 / 0")
	require.True(t, math.IsInf(res.value.(*object.Float).Value(), 1))

	res = mustEval(t, "5 % 0")
	require.Equal(t, object.NewInt(0), res.value)
}

func TestAssignmentUpdatesOuterName(t *testing.T) {
	res := mustEval(t, `
func f() { x = x + 1; }
let x = 0;
f();
f();
`)
	require.Equal(t, object.NewInt(2), global(t, res, "x"))
}

func TestAssignmentDeclaresLocally(t *testing.T) {
	res := mustEval(t, `
func f() { y = 5; return y; }
let r = f();
`)
	require.Equal(t, object.NewInt(5), global(t, res, "r"))
	_, ok := res.interp.Globals().Lookup("y")
	require.False(t, ok)
}

func TestLetShadowsInFunction(t *testing.T) {
	res := mustEval(t, `
let x = 1;
func f() { let x = 10; x = x + 1; return x; }
let inner = f();
`)
	require.Equal(t, object.NewInt(11), global(t, res, "inner"))
	require.Equal(t, object.NewInt(1), global(t, res, "x"))
}

func TestConstants(t *testing.T) {
	_, err := eval(t, "const PI = 3.14\nPI = 1")
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ConstError)
	re := err.(*errors.RuntimeError)
	require.Equal(t, 2, re.Location.Line)
	require.Equal(t, "PI = 1", re.Location.Source)

	_, err = eval(t, "const PI = 3.14\nconst PI = 3")
	require.ErrorIs(t, err, errors.ConstError)

	_, err = eval(t, "const PI = 3.14\nfunc f() { PI = 1 }\nf()")
	require.ErrorIs(t, err, errors.ConstError)

	res := mustEval(t, "const K;\nK")
	require.Equal(t, object.Nil, res.value)
	_, err = eval(t, "const K;\nK = 1")
	require.ErrorIs(t, err, errors.ConstError)

	res = mustEval(t, "let PI = 3.14\nPI = 1\nvar E = 2.7\nE = 3")
	require.Equal(t, object.NewInt(1), global(t, res, "PI"))
	require.Equal(t, object.NewInt(3), global(t, res, "E"))

	// A function may shadow a constant with its own binding.
	res = mustEval(t, "const N = 1\nfunc f() { let N = 2; return N }\nlet got = f()")
	require.Equal(t, object.NewInt(2), global(t, res, "got"))
}

func TestUndefinedVariable(t *testing.T) {
	_, err := eval(t, "let total = 1\nprint(totl)")
	require.ErrorIs(t, err, errors.NameError)
	re := err.(*errors.RuntimeError)
	require.Equal(t, `undefined variable "totl"`, re.Message)
	require.Contains(t, re.Hint, "'total'")
	require.Equal(t, errors.SourceLocation{Filename: "test.hx", Line: 2, Column: 7, Source: "print(totl)"}, re.Location)
}

func TestInheritance(t *testing.T) {
	res := mustEval(t, `
class A { func greet() { return "A"; } }
class B < A { }
new B().greet()
`)
	require.Equal(t, object.NewString("A"), res.value)
}

func TestClasses(t *testing.T) {
	res := mustEval(t, `
class Animal {
    func init(name) { this.name = name; }
    func speak() { return this.name + " makes a sound"; }
    func describe() { return "I am " + this.name; }
}
class Dog < Animal {
    func speak() { return self.name + " barks"; }
}
let d = new Dog("Rex");
let a = new Animal("Cat");
let results = [d.speak(), d.describe(), a.speak(), d.name];
d.name = "Max";
let renamed = d.describe();
let ctor = Dog("Fido").name;
`)
	require.Equal(t, `["Rex barks", "I am Rex", "Cat makes a sound", "Rex"]`, global(t, res, "results").Inspect())
	require.Equal(t, object.NewString("I am Max"), global(t, res, "renamed"))
	require.Equal(t, object.NewString("Fido"), global(t, res, "ctor"))

	d := global(t, res, "d").(*Instance)
	require.Equal(t, "Dog", d.Class().Name())
	require.Equal(t, `Dog {"name": "Max"}`, d.Inspect())
}

func TestConstructorErrorsPropagate(t *testing.T) {
	_, err := eval(t, `
class Broken { func __init__() { throw "bad init"; } }
new Broken()
`)
	require.ErrorIs(t, err, errors.ThrownError)
	require.Equal(t, "bad init", errors.Message(err))
}

func TestBaseMustBeClass(t *testing.T) {
	_, err := eval(t, "let A = 1\nclass B < A { }")
	require.ErrorIs(t, err, errors.TypeError)
}

func TestLoopControl(t *testing.T) {
	res := mustEval(t, `
let pairs = [];
for (let i = 0; i < 3; i++) {
    for (let j = 0; j < 3; j++) {
        if (j == 1) { break; }
        pairs.append([i, j]);
    }
}
let visited = [];
let increments = 0;
for (let k = 0; k < 5; k++) {
    increments = k;
    if (k % 2 == 0) { continue; }
    visited.append(k);
}
let n = 0;
let evens = [];
while (n < 6) {
    n += 1;
    if (n % 2 == 1) { continue; }
    evens.append(n);
}
`)
	require.Equal(t, "[[0, 0], [1, 0], [2, 0]]", global(t, res, "pairs").Inspect())
	require.Equal(t, "[1, 3]", global(t, res, "visited").Inspect())
	require.Equal(t, object.NewInt(4), global(t, res, "increments"))
	require.Equal(t, object.NewInt(5), global(t, res, "k"))
	require.Equal(t, "[2, 4, 6]", global(t, res, "evens").Inspect())
}

func TestForIn(t *testing.T) {
	res := mustEval(t, `
let total = 0;
for (x in [1, 2, 3]) { total += x; }
let keys = [];
for (k in {b: 1, a: 2}) { keys.append(k); }
let chars = [];
for (c in "hé") { chars.append(c); }
`)
	require.Equal(t, object.NewInt(6), global(t, res, "total"))
	require.Equal(t, object.NewInt(3), global(t, res, "x"))
	require.Equal(t, `["b", "a"]`, global(t, res, "keys").Inspect())
	require.Equal(t, `["h", "é"]`, global(t, res, "chars").Inspect())

	_, err := eval(t, "for (x in 5) { }")
	require.ErrorIs(t, err, errors.TypeError)
}

func TestControlOutsideLoop(t *testing.T) {
	_, err := eval(t, "break")
	require.ErrorIs(t, err, errors.ControlError)

	_, err = eval(t, "func f() { continue; }\nf()")
	require.ErrorIs(t, err, errors.ControlError)
	require.Equal(t, "continue outside of a loop", errors.Message(err))
}

func TestTopLevelReturn(t *testing.T) {
	res := mustEval(t, "print(1)\nreturn 5\nprint(2)")
	require.Equal(t, object.NewInt(5), res.value)
	require.Equal(t, "1\n", res.stdout)
}

func TestFunctions(t *testing.T) {
	res := mustEval(t, `
func add(a, b) { return a + b; }
func implicit(a) { a * 10 }
func missing(a, b) { return b; }
func counter() {
    let count = 0;
    func next() { count = count + 1; return count; }
    return next;
}
let c = counter();
c();
c();
let results = [add(1, 2, 99), implicit(4), missing(1), c()];
`)
	require.Equal(t, "[3, 40, null, 3]", global(t, res, "results").Inspect())
}

func TestNestedClosures(t *testing.T) {
	res := mustEval(t, `
func outer() {
    let x = "outer";
    func middle() {
        func inner() { return x; }
        return inner();
    }
    return middle();
}
let got = outer();
`)
	require.Equal(t, object.NewString("outer"), global(t, res, "got"))
}

func TestRecursion(t *testing.T) {
	res := mustEval(t, `
func fib(n) { if (n < 2) { return n; } return fib(n - 1) + fib(n - 2); }
fib(15)
`)
	require.Equal(t, object.NewInt(610), res.value)

	_, err := eval(t, "func f(n) { return f(n + 1) }\nf(0)", WithMaxCallDepth(50))
	require.ErrorIs(t, err, errors.CallError)
	require.Contains(t, errors.Message(err), "maximum call depth")
}

func TestAsyncRecursionDepth(t *testing.T) {
	_, err := eval(t, "async func f(n) { return await f(n + 1) }\nawait f(0)", WithMaxCallDepth(50))
	require.ErrorIs(t, err, errors.CallError)
	require.Contains(t, errors.Message(err), "maximum call depth")

	res := mustEval(t, `
async func down(n) { return await down(n + 1) }
let msg = ""
try { await down(0) } catch (e) { msg = e }
msg
`, WithMaxCallDepth(50))
	require.Contains(t, res.value.Inspect(), "maximum call depth")
}

func TestCallErrors(t *testing.T) {
	_, err := eval(t, "let x = 5\nx()")
	require.ErrorIs(t, err, errors.CallError)
	require.Equal(t, "x is not callable (int)", errors.Message(err))

	_, err = eval(t, "new Missing()")
	require.ErrorIs(t, err, errors.NameError)

	_, err = eval(t, "let NotAClass = 1\nnew NotAClass()")
	require.ErrorIs(t, err, errors.TypeError)
}

func TestStackTrace(t *testing.T) {
	_, err := eval(t, "func inner() { return 1 + 'a'; }\nfunc outer() { return inner(); }\nouter()")
	require.ErrorIs(t, err, errors.TypeError)
	re := err.(*errors.RuntimeError)
	require.Equal(t, 1, re.Location.Line)
	require.Len(t, re.Stack, 2)
	require.Equal(t, "inner", re.Stack[0].Function)
	require.Equal(t, 2, re.Stack[0].Location.Line)
	require.Equal(t, "outer", re.Stack[1].Function)
	require.Equal(t, 3, re.Stack[1].Location.Line)
}

func TestCompoundAssignment(t *testing.T) {
	res := mustEval(t, `
let n = 10;
n += 5; n -= 3; n *= 2; n /= 4;
let items = [1, 2];
items[0] += 10;
items[-1]++;
let m = {count: 1};
m.count += 1;
m["count"] *= 10;
let old = m.count--;
class Box { func init() { this.v = 1; } }
let b = new Box();
b.v += 41;
`)
	require.Equal(t, object.NewFloat(6), global(t, res, "n"))
	require.Equal(t, "[11, 3]", global(t, res, "items").Inspect())
	require.Equal(t, `{"count": 19}`, global(t, res, "m").Inspect())
	require.Equal(t, object.NewInt(20), global(t, res, "old"))
	require.Equal(t, object.NewInt(42), getAttr(global(t, res, "b"), "v"))
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, err := eval(t, "1 = 2")
	require.ErrorIs(t, err, errors.AssignmentError)

	_, err = eval(t, "let s = 'abc'\ns[0] = 'x'")
	require.ErrorIs(t, err, errors.TypeError)

	_, err = eval(t, "let n = 1\nn.x = 2")
	require.ErrorIs(t, err, errors.AssignmentError)
}

func TestAsync(t *testing.T) {
	res := mustEval(t, `
let log = [];
async func f() { log.append("body"); return 42; }
let task = f();
log.append("called");
let v = await task;
let again = await task;
let plain = await 7;
`)
	require.Equal(t, `["called", "body"]`, global(t, res, "log").Inspect())
	require.Equal(t, object.NewInt(42), global(t, res, "v"))
	require.Equal(t, object.NewInt(42), global(t, res, "again"))
	require.Equal(t, object.NewInt(7), global(t, res, "plain"))

	task := global(t, res, "task").(*Task)
	require.Equal(t, TaskDone, task.State())
	require.Equal(t, object.TASK, task.Type())
}

func TestAwaitInline(t *testing.T) {
	res := mustEval(t, "async func f() { return 42 }\nawait f()")
	require.Equal(t, object.NewInt(42), res.value)
}

func TestAsyncError(t *testing.T) {
	_, err := eval(t, `
async func f() { throw "async boom" }
let t = f();
try { await t; } catch (e) { print("caught " + e); }
await t
`)
	require.ErrorIs(t, err, errors.ThrownError)
	require.Equal(t, "async boom", errors.Message(err))
}

func TestRunTasksInterleaves(t *testing.T) {
	res := mustEval(t, `
let log = [];
async func a() { log.append("a1"); log.append("a2"); log.append("a3"); }
async func b() { log.append("b1"); log.append("b2"); }
let ta = a();
let tb = b();
`)
	ta := global(t, res, "ta").(*Task)
	tb := global(t, res, "tb").(*Task)
	require.Equal(t, TaskPending, ta.State())
	require.Nil(t, RunTasks(context.Background(), ta, tb))
	require.Equal(t, `["a1", "b1", "a2", "b2", "a3"]`, global(t, res, "log").Inspect())
	require.True(t, ta.Done())
	require.True(t, tb.Done())
}

func TestRunTasksAggregatesErrors(t *testing.T) {
	res := mustEval(t, `
async func bad(msg) { throw msg; }
let t1 = bad("first");
let t2 = bad("second");
`)
	err := RunTasks(context.Background(), global(t, res, "t1").(*Task), global(t, res, "t2").(*Task))
	require.Error(t, err)
	require.Contains(t, err.Error(), "first")
	require.Contains(t, err.Error(), "second")
}

func TestTryCatchFinally(t *testing.T) {
	res := mustEval(t, `
let order = [];
try {
    order.append("try");
    throw "boom";
    order.append("unreachable");
} catch (e) {
    order.append("catch " + e);
} finally {
    order.append("finally");
}
try { order.append("ok"); } finally { order.append("always"); }
try { error("via builtin"); } catch (e) { order.append(e); }
try { undefined_name; } catch { order.append("no binding"); }
`)
	require.Equal(t, `["try", "catch boom", "finally", "ok", "always", "via builtin", "no binding"]`,
		global(t, res, "order").Inspect())
}

func TestFinallyErrorSurfaces(t *testing.T) {
	res, err := eval(t, `
let order = [];
try {
    throw "first";
} catch (e) {
    order.append("caught");
} finally {
    order.append("finally");
    throw "from finally";
}
`)
	require.ErrorIs(t, err, errors.ThrownError)
	require.Equal(t, "from finally", errors.Message(err))
	require.Equal(t, `["caught", "finally"]`, global(t, res, "order").Inspect())
}

func TestFinallyReturnWins(t *testing.T) {
	res := mustEval(t, `
func f() {
    try { return "try"; } finally { return "finally"; }
}
func g() {
    try { throw "lost"; } finally { return "recovered"; }
}
[f(), g()]
`)
	require.Equal(t, `["finally", "recovered"]`, res.value.Inspect())
}

func TestThrowValues(t *testing.T) {
	_, err := eval(t, "throw {code: 7}")
	require.ErrorIs(t, err, errors.ThrownError)
	re := err.(*errors.RuntimeError)
	require.Equal(t, `{"code": 7}`, re.Message)
	require.Equal(t, 1, re.Location.Line)
	thrown := re.Value.(*object.Map)
	code, _ := thrown.Get("code")
	require.Equal(t, object.NewInt(7), code)
}

func TestCancellation(t *testing.T) {
	program, err := parser.Parse(context.Background(), "let i = 0\nwhile (true) { try { i++ } catch (e) { } }")
	require.Nil(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = New().Eval(ctx, program)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGlobalNamespace(t *testing.T) {
	res := mustEval(t, `
let x = 1;
func f() { let x = 5; global.x = x + 1; return global.x; }
let got = f();
`)
	require.Equal(t, object.NewInt(6), global(t, res, "x"))
	require.Equal(t, object.NewInt(6), global(t, res, "got"))
}

func TestPrint(t *testing.T) {
	res := mustEval(t, `print("a", 1, 2.5, true, null, [1, "b"], {k: "v"}); say("hi")`)
	require.Equal(t, "a 1 2.5 true null [1, \"b\"] {\"k\": \"v\"}\nhi\n", res.stdout)
}

func TestListCallbacksCallScriptFunctions(t *testing.T) {
	res := mustEval(t, `
func isBig(x) { return x > 3; }
let doubled = [1, 2, 3].map(lambda (x) -> x * 2);
let big = [1, 5, 10].filter(isBig);
`)
	require.Equal(t, "[2, 4, 6]", global(t, res, "doubled").Inspect())
	require.Equal(t, "[5, 10]", global(t, res, "big").Inspect())
}

func TestWithGlobals(t *testing.T) {
	res := mustEval(t, "let y = base * 2", WithGlobals(map[string]object.Object{"base": object.NewInt(21)}))
	require.Equal(t, object.NewInt(42), global(t, res, "y"))
}

func TestInterpreterCall(t *testing.T) {
	res := mustEval(t, "func add(a, b) { return a + b }")
	value, err := res.interp.Call(context.Background(), global(t, res, "add"), object.NewInt(2), object.NewInt(3))
	require.Nil(t, err)
	require.Equal(t, object.NewInt(5), value)

	_, err = res.interp.Call(context.Background(), object.NewInt(1))
	require.ErrorIs(t, err, errors.CallError)
}
