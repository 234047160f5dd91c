package hexza

import (
	"context"

	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/object"
)

// Session provides stateful evaluation for an interactive prompt. Unlike
// Eval, which starts from fresh state on each call, a Session keeps its
// global frame, so variables and functions defined by one Eval call remain
// visible to the next.
type Session struct {
	interp *evaluator.Interpreter
	opts   *options
}

// NewSession creates a Session with the given options.
func NewSession(opts ...Option) (*Session, error) {
	o := collectOptions(opts...)
	evalOpts, err := o.evaluatorOpts("")
	if err != nil {
		return nil, err
	}
	return &Session{interp: evaluator.New(evalOpts...), opts: o}, nil
}

// Eval evaluates source code within this session and returns the result as
// a Hexza object.
func (s *Session) Eval(ctx context.Context, source string) (object.Object, error) {
	program, err := s.opts.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.interp.Eval(ctx, program)
}

// Call calls the global function with the given name.
func (s *Session) Call(ctx context.Context, name string, args ...object.Object) (object.Object, error) {
	fn, err := s.interp.Globals().Get(name)
	if err != nil {
		return nil, err
	}
	return s.interp.Call(ctx, fn, args...)
}

// Globals returns the names bound in the session's global frame. The
// builtins live in the same frame and are included.
func (s *Session) Globals() []string {
	return s.interp.Globals().Names()
}

// Interpreter returns the interpreter behind the session.
func (s *Session) Interpreter() *evaluator.Interpreter {
	return s.interp
}
