// Package errors defines Hexza error types with source locations and the
// diagnostic formatter used to report them.
package errors

import (
	"fmt"
	"strings"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	Location SourceLocation
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	if f.Function != "" {
		return fmt.Sprintf("at %s (%s)", f.Function, f.Location.String())
	}
	return fmt.Sprintf("at %s", f.Location.String())
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the diagnostic formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// Kind classifies a runtime error. Kinds are themselves errors so callers
// can test for them with errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	NameError       Kind = "name error"
	ConstError      Kind = "constant error"
	AssignmentError Kind = "assignment error"
	OperatorError   Kind = "operator error"
	TypeError       Kind = "type error"
	CallError       Kind = "call error"
	ValueError      Kind = "value error"
	IndexError      Kind = "index error"
	ThrownError     Kind = "error"
	ImportError     Kind = "import error"
	ControlError    Kind = "control error"
	InternalError   Kind = "internal error"
)

// RuntimeError is raised while evaluating a program.
type RuntimeError struct {
	Kind     Kind
	Message  string
	Location SourceLocation
	Hint     string
	Note     string
	Stack    []StackFrame
	// Value holds the thrown value for errors raised by throw.
	Value any
	// Cause is the host error this error wraps, if any.
	Cause error
}

// Newf returns a RuntimeError of the given kind.
func Newf(kind Kind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap converts a host error into a RuntimeError. Errors that already are
// runtime errors are returned unchanged.
func Wrap(err error) *RuntimeError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RuntimeError); ok {
		return re
	}
	return &RuntimeError{Kind: ThrownError, Message: err.Error(), Cause: err}
}

func (e *RuntimeError) Error() string {
	if e.Kind == ThrownError {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the wrapped host error to errors.Is.
func (e *RuntimeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// WithLocation sets the location if none has been recorded yet.
func (e *RuntimeError) WithLocation(loc SourceLocation) *RuntimeError {
	if e.Location.IsZero() {
		e.Location = loc
	}
	return e
}

// FriendlyErrorMessage renders the error without colors.
func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the runtime error to a FormattedError for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     kindCodes[e.Kind],
		Kind:     "runtime error",
		Message:  e.Error(),
		Filename: e.Location.Filename,
		Line:     e.Location.Line,
		Column:   e.Location.Column,
		Hint:     e.Hint,
		Note:     e.Note,
		Stack:    e.Stack,
	}
	if e.Location.Source != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Location.Line, Text: e.Location.Source, IsMain: true},
		}
	}
	return fe
}

// Message returns the user facing message of an error. This is the string
// bound to a catch variable.
func Message(err error) string {
	if re, ok := err.(*RuntimeError); ok {
		return re.Message
	}
	return err.Error()
}
