package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/compiler"
	"github.com/hexza-lang/hexza/parser"
)

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a script to bytecode",
		Long: "Compile writes the bytecode for a script. Statements outside the\n" +
			"compiler's subset are skipped with a warning unless --strict is given.\n" +
			"Run the output with: hexza out" + compiledExt,
		Args: cobra.ExactArgs(1),
		RunE: a.compileHandler,
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default <file>"+compiledExt+")")
	cmd.Flags().Bool("strict", false, "Fail on statements the compiler cannot lower")
	return cmd
}

func (a *app) compileHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	strict, _ := cmd.Flags().GetBool("strict")
	code, err := a.compileFile(cmd, path, strict)
	if err != nil {
		return err
	}
	data, err := bytecode.Marshal(code)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + compiledExt
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	stats := code.Stats()
	_, err = fmt.Fprintf(a.stdout, "wrote %s (%d instructions, %d constants, %d names)\n",
		out, stats.InstructionCount, stats.ConstantCount, stats.NameCount)
	return err
}

// compileFile parses and compiles a source file, reporting skipped
// statements on stderr.
func (a *app) compileFile(cmd *cobra.Command, path string, strict bool) (*bytecode.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(data)
	logger := a.logger()
	program, err := parser.Parse(cmd.Context(), source,
		parser.WithFilename(path), parser.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithFilename(path),
		compiler.WithSource(source),
		compiler.WithLogger(logger),
	}
	if strict {
		opts = append(opts, compiler.WithStrict())
	}
	c := compiler.New(opts...)
	code, err := c.Compile(program)
	if err != nil {
		return nil, err
	}
	for _, skip := range c.Skipped() {
		fmt.Fprintf(a.stderr, "warning: %s:%s (skipped)\n", path, skip)
	}
	return code, nil
}
