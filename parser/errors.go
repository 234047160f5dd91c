package parser

import (
	"fmt"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	ErrType       string
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// ParserError is an interface that all parser errors implement.
type ParserError interface {
	Type() string
	Message() string
	Cause() error
	File() string
	StartPosition() token.Position
	EndPosition() token.Position
	SourceCode() string
	Error() string
	errors.FriendlyError
	errors.FormattableError
}

// NewParserError returns a new BaseParserError populated with
// the given error data.
func NewParserError(opts ErrorOpts) *BaseParserError {
	return &BaseParserError{
		errType:       opts.ErrType,
		code:          opts.Code,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
	}
}

// BaseParserError is the simplest implementation of ParserError.
type BaseParserError struct {
	// Type of the error, e.g. "syntax error"
	errType string
	code    errors.ErrorCode
	// The error message
	message string
	// The wrapped error
	cause error
	// File where the error occurred
	file string
	// Start position of the error in the input string
	startPosition token.Position
	// End position of the error in the input string
	endPosition token.Position
	// Relevant line of source code text
	sourceCode string
}

func (e *BaseParserError) Error() string {
	msg := e.message
	if e.cause != nil {
		msg = e.cause.Error()
	}
	if e.errType != "" {
		msg = fmt.Sprintf("%s: %s", e.errType, msg)
	}
	if e.startPosition.IsValid() || e.file != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.location())
	}
	return msg
}

func (e *BaseParserError) location() string {
	loc := fmt.Sprintf("%d:%d", e.startPosition.LineNumber(), e.startPosition.ColumnNumber())
	if e.file != "" {
		return e.file + ":" + loc
	}
	return loc
}

func (e *BaseParserError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *BaseParserError) ToFormatted() *errors.FormattedError {
	start := e.StartPosition()
	end := e.EndPosition()

	message := e.message
	if e.cause != nil {
		message = e.cause.Error()
	}
	fe := &errors.FormattedError{
		Code:     e.code,
		Kind:     e.errType,
		Message:  message,
		Filename: e.file,
		Line:     start.LineNumber(),
		Column:   start.ColumnNumber(),
	}
	if end.Line == start.Line {
		fe.EndColumn = end.ColumnNumber()
	}
	if e.sourceCode != "" {
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: start.LineNumber(), Text: e.sourceCode, IsMain: true},
		}
	}
	return fe
}

func (e *BaseParserError) Cause() error { return e.cause }

func (e *BaseParserError) Message() string { return e.message }

func (e *BaseParserError) StartPosition() token.Position { return e.startPosition }

func (e *BaseParserError) EndPosition() token.Position { return e.endPosition }

func (e *BaseParserError) File() string { return e.file }

func (e *BaseParserError) SourceCode() string { return e.sourceCode }

func (e *BaseParserError) Unwrap() error { return e.cause }

func (e *BaseParserError) Type() string { return e.errType }

func (e *BaseParserError) Code() errors.ErrorCode { return e.code }

// SyntaxError reports malformed input. Parsing stops at the first one.
type SyntaxError struct {
	*BaseParserError
}

// NewSyntaxError returns a new SyntaxError populated with the given error data
func NewSyntaxError(opts ErrorOpts) *SyntaxError {
	opts.ErrType = "syntax error"
	if opts.Code == "" {
		opts.Code = errors.E1001
	}
	return &SyntaxError{BaseParserError: NewParserError(opts)}
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return "identifier"
	case token.NUMBER:
		return "number"
	case token.STRING, token.MULTILINE:
		return "string"
	default:
		return fmt.Sprintf("%q", string(t))
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.STRING, token.MULTILINE:
		return "string"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}
