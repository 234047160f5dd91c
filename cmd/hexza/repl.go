package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/hexza-lang/hexza"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

const (
	primaryPrompt      = ">>> "
	continuationPrompt = "... "
)

// repl evaluates lines typed at the prompt in one session. Input that ends
// in the middle of a construct is buffered until it is complete.
type repl struct {
	session   *hexza.Session
	out       io.Writer
	formatter *errors.Formatter
	buf       []string
	useColor  bool
}

func (a *app) runRepl(ctx context.Context) error {
	logger := a.logger()
	imp, err := a.importer("", logger)
	if err != nil {
		return err
	}
	session, err := hexza.NewSession(
		hexza.WithStdout(a.stdout),
		hexza.WithLogger(logger),
		hexza.WithImporter(imp),
		hexza.WithFilename("<repl>"),
	)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          primaryPrompt,
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(a.stdin),
		Stdout:          a.stdout,
		Stderr:          a.stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	useColor := a.useColor(a.stdout)
	r := newRepl(session, rl.Stdout(), useColor)
	fmt.Fprintf(rl.Stdout(), "Hexza %s. Type :help for commands, Ctrl-D to exit.\n", version)
	for {
		line, err := rl.Readline()
		if goerrors.Is(err, readline.ErrInterrupt) {
			if r.pending() {
				r.reset()
				rl.SetPrompt(primaryPrompt)
				continue
			}
			return nil
		}
		if goerrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		prompt, quit := r.feed(ctx, line)
		if quit {
			return nil
		}
		rl.SetPrompt(prompt)
	}
}

func newRepl(session *hexza.Session, out io.Writer, useColor bool) *repl {
	return &repl{
		session:   session,
		out:       out,
		formatter: errors.NewFormatter(useColor),
		useColor:  useColor,
	}
}

func (r *repl) pending() bool {
	return len(r.buf) > 0
}

func (r *repl) reset() {
	r.buf = nil
}

// feed handles one line of input and returns the prompt for the next line.
func (r *repl) feed(ctx context.Context, line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !r.pending() {
		if trimmed == "" {
			return primaryPrompt, false
		}
		if strings.HasPrefix(trimmed, ":") {
			return primaryPrompt, r.command(ctx, trimmed)
		}
	}
	r.buf = append(r.buf, line)
	source := strings.Join(r.buf, "\n")
	result, err := r.session.Eval(ctx, source)
	if err != nil && isIncomplete(err) {
		return continuationPrompt, false
	}
	r.reset()
	if err != nil {
		fmt.Fprint(r.out, r.formatter.FormatError(err))
		return primaryPrompt, false
	}
	r.printResult(result)
	return primaryPrompt, false
}

// isIncomplete reports whether err means the input stopped before a
// construct was closed, so more lines should be read.
func isIncomplete(err error) bool {
	var coded interface{ Code() errors.ErrorCode }
	if goerrors.As(err, &coded) && coded.Code() == errors.E1004 {
		return true
	}
	return strings.Contains(err.Error(), "unterminated multiline string")
}

func (r *repl) command(ctx context.Context, input string) bool {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case ":quit", ":exit", ":q":
		return true
	case ":help", ":h", ":?":
		fmt.Fprint(r.out, replHelp)
	case ":env":
		fmt.Fprintln(r.out, strings.Join(r.session.Globals(), ", "))
	case ":type", ":t":
		if rest == "" {
			fmt.Fprintln(r.out, "usage: :type <expression>")
			return false
		}
		value, err := r.session.Eval(ctx, rest)
		if err != nil {
			fmt.Fprint(r.out, r.formatter.FormatError(err))
			return false
		}
		fmt.Fprintln(r.out, value.Type())
	default:
		fmt.Fprintf(r.out, "unknown command: %s\n", name)
	}
	return false
}

const replHelp = `  :help, :h, :?     show this help
  :type, :t <expr>  show the type of an expression
  :env              list global names
  :quit, :q         exit the prompt
`

func (r *repl) printResult(result object.Object) {
	if result == nil || result == object.Nil {
		return
	}
	text := result.Inspect()
	if r.useColor {
		switch result.(type) {
		case *object.Int, *object.Float:
			text = color.YellowString(text)
		case *object.String:
			text = color.GreenString(text)
		case *object.Bool:
			text = color.MagentaString(text)
		}
	}
	fmt.Fprintln(r.out, text)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hexza_history")
}
