package main

import (
	goerrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza/scripttest"
)

func (a *app) testCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run tests written in Hexza",
		Long: "Runs the test_ functions of every *_test.hx file matched by the\n" +
			"patterns. A pattern ending in /... matches files recursively.\n" +
			"The default pattern is the current directory.",
		RunE: a.testHandler,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Show log output of passing tests")
	cmd.Flags().String("run", "", "Only run tests whose name matches this regular expression")
	return cmd
}

func (a *app) testHandler(cmd *cobra.Command, args []string) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	runPattern, _ := cmd.Flags().GetString("run")
	logger := a.logger()

	summary, err := scripttest.Run(cmd.Context(), scripttest.Config{
		Patterns:   patterns,
		RunPattern: runPattern,
		Stdout:     a.stdout,
		Logger:     &logger,
	})
	if err != nil {
		return err
	}
	if len(summary.Files) == 0 {
		fmt.Fprintln(a.stdout, "no test files found")
		return nil
	}
	scripttest.NewOutput(a.stdout, verbose, a.useColor(a.stdout)).PrintResults(summary)
	if !summary.Success() {
		return goerrors.New("tests failed")
	}
	return nil
}
