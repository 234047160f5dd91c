package scripttest

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	colorPass = color.New(color.FgGreen)
	colorFail = color.New(color.FgRed)
	colorSkip = color.New(color.FgYellow)
)

// Output prints results in the style of go test.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput returns an Output writing to w. Verbose shows t.log messages of
// passing tests too.
func NewOutput(w io.Writer, verbose, useColor bool) *Output {
	return &Output{w: w, verbose: verbose, useColor: useColor}
}

func (o *Output) paint(c *color.Color, s string) string {
	if !o.useColor {
		return s
	}
	return c.Sprint(s)
}

// EndTest prints the result of one test.
func (o *Output) EndTest(result *TestResult) {
	var label string
	switch result.Status {
	case StatusPassed:
		label = o.paint(colorPass, "--- PASS:")
	case StatusFailed:
		label = o.paint(colorFail, "--- FAIL:")
	case StatusSkipped:
		label = o.paint(colorSkip, "--- SKIP:")
	default:
		label = o.paint(colorFail, "--- ERROR:")
	}
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", label, result.Name, result.Duration.Seconds())

	if result.Status == StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(o.w, "    %s\n", result.SkipReason)
	}
	if result.Status == StatusError && result.Error != nil {
		fmt.Fprintf(o.w, "    %s\n", result.Error)
	}
	for _, f := range result.Failures {
		o.printFailure(f)
	}
	if o.verbose || result.Status == StatusFailed {
		for _, line := range result.Logs {
			fmt.Fprintf(o.w, "    %s\n", line)
		}
	}
}

func (o *Output) printFailure(f AssertionError) {
	loc := ""
	if f.File != "" {
		loc = f.File + ": "
	}
	fmt.Fprintf(o.w, "    %s%s\n", loc, f.Message)
	if f.Got != nil {
		fmt.Fprintf(o.w, "        %s:  %s\n", o.paint(colorFail, "got"), f.Got.Inspect())
	}
	if f.Want != nil {
		fmt.Fprintf(o.w, "        %s: %s\n", o.paint(colorPass, "want"), f.Want.Inspect())
	}
}

// Summary prints the overall result and counts.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)
	if summary.Success() {
		fmt.Fprintln(o.w, o.paint(colorPass, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.paint(colorFail, "FAIL"))
	}
	var parts []string
	if summary.Passed > 0 {
		parts = append(parts, o.paint(colorPass, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.paint(colorFail, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.paint(colorSkip, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.paint(colorFail, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

// PrintResults prints load errors, then every test, then the summary.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		if file.LoadErr != nil {
			fmt.Fprintf(o.w, "%s %s\n    %s\n", o.paint(colorFail, "LOAD ERROR:"), file.Filename, file.LoadErr)
		}
	}
	for _, file := range summary.Files {
		for _, test := range file.Tests {
			fmt.Fprintf(o.w, "=== RUN   %s\n", test.Name)
			o.EndTest(test)
		}
	}
	o.Summary(summary)
}
