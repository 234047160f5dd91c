// Package scripttest runs tests written in Hexza.
//
// A test file is a script whose name ends in _test.hx (or _test.hxza). Every
// top level function whose name starts with test_ is a test. Each test runs
// in a fresh interpreter: the file is evaluated, then the test function is
// called with a test context "t" offering assertions:
//
//	func test_add(t) {
//	    t.assert_eq(1 + 2, 3);
//	}
package scripttest

import (
	"time"

	"github.com/hexza-lang/hexza/object"
)

// Status represents the outcome of a test.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AssertionError is one failed assertion.
type AssertionError struct {
	Message string
	File    string
	Got     object.Object // may be nil
	Want    object.Object // may be nil
}

// TestResult holds the outcome of a single test function.
type TestResult struct {
	Name       string
	Status     Status
	Duration   time.Duration
	Failures   []AssertionError
	Logs       []string
	SkipReason string
	Error      error // set when Status is StatusError
}

// FileResult holds the results of all tests in one file.
type FileResult struct {
	Filename string
	Tests    []*TestResult
	// LoadErr is set when the file could not be read or parsed.
	LoadErr error
}

func (f *FileResult) count(status Status) int {
	n := 0
	for _, t := range f.Tests {
		if t.Status == status {
			n++
		}
	}
	return n
}

// Summary aggregates results across files.
type Summary struct {
	Files    []*FileResult
	Passed   int
	Failed   int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// TotalTests returns the number of tests run.
func (s *Summary) TotalTests() int {
	return s.Passed + s.Failed + s.Skipped + s.Errors
}

// Success reports whether no test failed or errored and every file loaded.
func (s *Summary) Success() bool {
	if s.Failed > 0 || s.Errors > 0 {
		return false
	}
	for _, f := range s.Files {
		if f.LoadErr != nil {
			return false
		}
	}
	return true
}

// ComputeTotals recalculates the counts from the file results.
func (s *Summary) ComputeTotals() {
	s.Passed, s.Failed, s.Skipped, s.Errors = 0, 0, 0, 0
	for _, f := range s.Files {
		s.Passed += f.count(StatusPassed)
		s.Failed += f.count(StatusFailed)
		s.Skipped += f.count(StatusSkipped)
		s.Errors += f.count(StatusError)
	}
}
