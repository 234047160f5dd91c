package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/hexza-lang/hexza/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		a.printError(err)
		stop()
		os.Exit(1)
	}
}

// printError renders err as a diagnostic on stderr.
func (a *app) printError(err error) {
	useColor := a.useColor(a.stderr)
	msg := errors.NewFormatter(useColor).FormatError(err)
	if _, ok := err.(errors.FormattableError); !ok && useColor {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprint(a.stderr, msg)
}

// useColor reports whether output to w should be colored.
func (a *app) useColor(w io.Writer) bool {
	if a.v.GetBool("no-color") {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
