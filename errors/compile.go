package errors

import (
	"fmt"
	"strings"
)

// CompileError reports a statement the bytecode compiler could not lower.
type CompileError struct {
	Code       ErrorCode
	Message    string
	Filename   string
	Line       int
	Column     int
	SourceLine string
	Note       string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Line > 0 {
		b.WriteString(" (")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d)", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     "compile error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Note:     e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	return fe
}

// CompileErrors holds multiple compile errors.
type CompileErrors struct {
	Errors []*CompileError
}

func (e *CompileErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// FriendlyErrorMessage renders every error in the collection.
func (e *CompileErrors) FriendlyErrorMessage() string {
	return NewFormatter(false).FormatMultiple(e.ToFormattedMultiple())
}

// ToFormattedMultiple converts each error for display.
func (e *CompileErrors) ToFormattedMultiple() []*FormattedError {
	result := make([]*FormattedError, 0, len(e.Errors))
	for _, err := range e.Errors {
		result = append(result, err.ToFormatted())
	}
	return result
}

// Add adds a compile error to the collection.
func (e *CompileErrors) Add(err *CompileError) {
	e.Errors = append(e.Errors, err)
}

// ToError returns the errors as a single error, or nil if empty.
func (e *CompileErrors) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return e
}
