package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors as compiler-style diagnostics.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for error formatting
var (
	colorError     = color.New(color.FgRed)
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorLineNum   = color.New(color.FgHiBlack)
	colorSource    = color.New(color.FgWhite)
	colorCaret     = color.New(color.FgHiRed, color.Bold)
	colorHint      = color.New(color.FgHiYellow)
	colorNote      = color.New(color.FgHiBlue)
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "syntax error", "runtime error", etc.
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int // For multi-character underlines
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
	Stack       []StackFrame
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats the error as a string.
//
//	syntax error[E1001]: unexpected "}" while parsing call arguments
//	  --> main.hx:3:9
//	   |
//	 3 | print(1, }
//	   |          ^
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder

	lineNumWidth := 2
	if err.Line >= 100 {
		lineNumWidth = len(fmt.Sprintf("%d", err.Line))
	}
	padding := strings.Repeat(" ", lineNumWidth)

	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	b.WriteString(f.paint(colorErrorBold, label))
	if err.Code != "" {
		b.WriteString(f.paint(colorCode, "["+string(err.Code)+"]"))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Line > 0 || err.Filename != "" {
		loc := err.Filename
		if err.Line > 0 {
			if loc != "" {
				loc += ":"
			}
			loc += fmt.Sprintf("%d:%d", err.Line, err.Column)
		}
		b.WriteString(padding)
		b.WriteString(f.paint(colorLocation, "-->"))
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation, loc))
		b.WriteString("\n")
	}

	if len(err.SourceLines) > 0 {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " |"))
		b.WriteString("\n")
		for _, line := range err.SourceLines {
			b.WriteString(f.paint(colorLineNum, fmt.Sprintf("%*d | ", lineNumWidth, line.Number)))
			b.WriteString(f.paint(colorSource, line.Text))
			b.WriteString("\n")
			if !line.IsMain || err.Column <= 0 {
				continue
			}
			caretLen := 1
			if err.EndColumn > err.Column {
				caretLen = err.EndColumn - err.Column + 1
			}
			b.WriteString(padding)
			b.WriteString(f.paint(colorLineNum, " | "))
			b.WriteString(caretPadding(line.Text, err.Column-1))
			b.WriteString(f.paint(colorCaret, strings.Repeat("^", caretLen)))
			b.WriteString("\n")
		}
	}

	if err.Hint != "" {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	if len(err.Stack) > 0 {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLineNum, " = "))
		b.WriteString(f.paint(colorNote, "stack trace:"))
		b.WriteString("\n")
		for _, frame := range err.Stack {
			b.WriteString(padding)
			b.WriteString("     ")
			b.WriteString(frame.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

// caretPadding returns whitespace that lines the caret up with the given
// column, keeping tabs from the source line so terminals align them.
func caretPadding(line string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// FormatError renders any error. Errors that carry source context are shown
// as full diagnostics; others as a single "error: message" line.
func (f *Formatter) FormatError(err error) string {
	if multi, ok := err.(MultiFormattableError); ok {
		return f.FormatMultiple(multi.ToFormattedMultiple())
	}
	if fe, ok := err.(FormattableError); ok {
		return f.Format(fe.ToFormatted())
	}
	return f.Format(&FormattedError{Message: err.Error()})
}

// MultiFormattableError is implemented by errors that carry several
// diagnostics.
type MultiFormattableError interface {
	error
	ToFormattedMultiple() []*FormattedError
}

// FormatMultiple renders several diagnostics. With more than one, each is
// numbered and a summary line follows.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.paint(color.New(color.Faint), fmt.Sprintf("[%d/%d] ", i+1, len(errs))))
		b.WriteString(strings.TrimRight(f.Format(err), "\n"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n", f.paint(color.New(color.FgRed, color.Bold),
		fmt.Sprintf("found %d errors", len(errs))))
	return b.String()
}
