package main

import (
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza"
)

func (a *app) docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show language documentation as JSON",
		Long: "Prints the quick reference, a category (--category builtins, types,\n" +
			"syntax or errors), everything (--all) or one builtin or type.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []hexza.DocsOption
			if all, _ := cmd.Flags().GetBool("all"); all {
				opts = append(opts, hexza.DocsAll())
			}
			if category, _ := cmd.Flags().GetString("category"); category != "" {
				opts = append(opts, hexza.DocsCategory(category))
			}
			if len(args) > 0 {
				opts = append(opts, hexza.DocsTopic(args[0]))
			}
			docs := hexza.Docs(opts...)
			if !docs.Found() {
				return fmt.Errorf("no documentation for %q", docsSubject(cmd, args))
			}
			out := docs.JSON()
			if a.useColor(a.stdout) {
				if colored, err := prettyjson.Format([]byte(out)); err == nil {
					out = string(colored)
				}
			}
			_, err := fmt.Fprintln(a.stdout, out)
			return err
		},
	}
	cmd.Flags().String("category", "", "Category to show (builtins, types, syntax, errors)")
	cmd.Flags().Bool("all", false, "Show all documentation")
	return cmd
}

func docsSubject(cmd *cobra.Command, args []string) string {
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		return category
	}
	return args[0]
}
