package scripttest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza"
	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/parser"
)

// TestPrefix starts the name of every test function.
const TestPrefix = "test_"

var testSuffixes = []string{"_test.hx", "_test.hxza"}

// Config holds configuration for running tests.
type Config struct {
	// Patterns names files or directories to search. A trailing "/..."
	// searches recursively. The default is the current directory.
	Patterns []string

	// RunPattern filters tests by name.
	RunPattern string

	// Stdout receives output printed by test scripts. Nil discards it.
	Stdout io.Writer

	// Logger receives debug entries per test. Nil disables logging.
	Logger *zerolog.Logger
}

// runConfig is Config with defaults applied.
type runConfig struct {
	stdout io.Writer
	logger zerolog.Logger
}

// DiscoverTestFiles finds the test files matching the given patterns.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		recursive := strings.HasSuffix(pattern, "...")
		dir := pattern
		if recursive {
			dir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if dir == "" {
				dir = "."
			}
		}
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", dir)
		}
		if err != nil {
			return nil, err
		}
		switch {
		case !info.IsDir():
			add(dir)
		case recursive:
			err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(dir, e.Name()))
				}
			}
		}
	}
	return files, nil
}

func isTestFile(path string) bool {
	for _, suffix := range testSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// DiscoverTestFunctions returns the names of the top level test functions
// in source order. Exported test functions count too.
func DiscoverTestFunctions(program *ast.Program) []string {
	var names []string
	for _, stmt := range program.Stmts {
		if export, ok := stmt.(*ast.Export); ok {
			stmt = export.Stmt
		}
		if fn, ok := stmt.(*ast.Func); ok && strings.HasPrefix(fn.Name.Name, TestPrefix) {
			names = append(names, fn.Name.Name)
		}
	}
	return names
}

// Run discovers and executes tests.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		if runRe, err = regexp.Compile(cfg.RunPattern); err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}
	rc := runConfig{stdout: cfg.Stdout, logger: zerolog.Nop()}
	if rc.stdout == nil {
		rc.stdout = io.Discard
	}
	if cfg.Logger != nil {
		rc.logger = *cfg.Logger
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, runTestFile(ctx, rc, file, runRe))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

func runTestFile(ctx context.Context, cfg runConfig, filename string, runRe *regexp.Regexp) *FileResult {
	result := &FileResult{Filename: filename}
	data, err := os.ReadFile(filename)
	if err != nil {
		result.LoadErr = err
		return result
	}
	source := string(data)
	program, err := parser.Parse(ctx, source, parser.WithFilename(filename), parser.WithLogger(cfg.logger))
	if err != nil {
		result.LoadErr = err
		return result
	}
	for _, name := range DiscoverTestFunctions(program) {
		if runRe != nil && !runRe.MatchString(name) {
			continue
		}
		cfg.logger.Debug().Str("file", filename).Str("test", name).Msg("running test")
		result.Tests = append(result.Tests, runSingleTest(ctx, cfg, program, source, filename, name))
	}
	return result
}

// runSingleTest evaluates the file in a fresh session and calls one test.
func runSingleTest(ctx context.Context, cfg runConfig, program *ast.Program, source, filename, name string) *TestResult {
	result := &TestResult{Name: name}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	fail := func(err error) *TestResult {
		result.Status = StatusError
		result.Error = err
		return result
	}

	session, err := hexza.NewSession(
		hexza.WithFilename(filename),
		hexza.WithStdout(cfg.stdout),
		hexza.WithLogger(cfg.logger),
	)
	if err != nil {
		return fail(err)
	}
	interp := session.Interpreter()
	if _, err := interp.Eval(ctx, program); err != nil {
		return fail(err)
	}
	fn, err := interp.Globals().Get(name)
	if err != nil {
		return fail(err)
	}
	if _, ok := fn.(*evaluator.Function); !ok {
		return fail(fmt.Errorf("%s is not a function (got %s)", name, fn.Type()))
	}

	t := NewTestContext(name, filename)
	if _, err := interp.Call(ctx, fn, object.Object(t)); err != nil {
		return fail(err)
	}
	result.Logs = t.Logs()
	result.Failures = t.Failures()
	switch {
	case t.Failed():
		result.Status = StatusFailed
	case t.Skipped():
		result.Status = StatusSkipped
		result.SkipReason = t.SkipReason()
	default:
		result.Status = StatusPassed
	}
	return result
}
