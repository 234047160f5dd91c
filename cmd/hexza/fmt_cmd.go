package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza/format"
)

func (a *app) fmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Format Hexza source code",
		Long: "Format re-indents a file by brace depth and strips trailing whitespace.\n" +
			"The result is printed unless --write or --check is given.",
		Args: cobra.ExactArgs(1),
		RunE: a.fmtHandler,
	}
	cmd.Flags().Bool("check", false, "Exit with an error if the file is not formatted")
	cmd.Flags().BoolP("write", "w", false, "Write the result to the source file")
	return cmd
}

func (a *app) fmtHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	source := string(data)
	formatted := format.Source(source)

	check, _ := cmd.Flags().GetBool("check")
	write, _ := cmd.Flags().GetBool("write")
	switch {
	case check:
		if formatted != source {
			return fmt.Errorf("%s is not formatted", path)
		}
		return nil
	case write:
		if formatted == source {
			return nil
		}
		return os.WriteFile(path, []byte(formatted), 0o644)
	default:
		_, err := fmt.Fprint(a.stdout, formatted)
		return err
	}
}
