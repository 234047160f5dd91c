package syntax

import (
	"fmt"
	"strings"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/internal/token"
)

// ValidationError is one use of a disallowed feature.
type ValidationError struct {
	Message  string
	Node     ast.Node
	Position token.Position
}

func (e *ValidationError) Error() string {
	pos := e.Position
	if pos.File != "" {
		return fmt.Sprintf("%s at %s:%d:%d", e.Message, pos.File, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, pos.LineNumber(), pos.ColumnNumber())
}

// ValidationErrors holds every violation found in a program.
type ValidationErrors struct {
	Errors []ValidationError
	// Source is used to show the offending lines when formatting.
	Source string
}

var _ errors.MultiFormattableError = (*ValidationErrors)(nil)

// NewValidationErrors creates a ValidationErrors from a slice of errors.
func NewValidationErrors(errs []ValidationError) *ValidationErrors {
	return &ValidationErrors{Errors: errs}
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
		for _, err := range e.Errors {
			fmt.Fprintf(&b, "  - %s\n", err.Error())
		}
		return b.String()
	}
}

// Unwrap returns the first error for errors.Is and errors.As.
func (e *ValidationErrors) Unwrap() error {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}
	return nil
}

// ToFormattedMultiple converts each violation for display.
func (e *ValidationErrors) ToFormattedMultiple() []*errors.FormattedError {
	out := make([]*errors.FormattedError, 0, len(e.Errors))
	for _, v := range e.Errors {
		fe := &errors.FormattedError{
			Code:     errors.E1005,
			Kind:     "syntax error",
			Message:  v.Message,
			Filename: v.Position.File,
			Line:     v.Position.LineNumber(),
			Column:   v.Position.ColumnNumber(),
		}
		if line := sourceLine(e.Source, v.Position.LineNumber()); line != "" {
			fe.SourceLines = []errors.SourceLineEntry{{Number: fe.Line, Text: line, IsMain: true}}
		}
		out = append(out, fe)
	}
	return out
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// Validator inspects a program and returns every violation it finds.
// Validators must not modify the program.
type Validator interface {
	Validate(program *ast.Program) []ValidationError
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(*ast.Program) []ValidationError

func (f ValidatorFunc) Validate(p *ast.Program) []ValidationError {
	return f(p)
}

// Transformer rewrites a program before it runs. It may modify the program
// in place or return a new one.
type Transformer interface {
	Transform(program *ast.Program) (*ast.Program, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(*ast.Program) (*ast.Program, error)

func (f TransformerFunc) Transform(p *ast.Program) (*ast.Program, error) {
	return f(p)
}
