package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/dis"
)

func (a *app) disCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dis <file>",
		Short: "Disassemble a script or compiled bytecode",
		Args:  cobra.ExactArgs(1),
		RunE:  a.disHandler,
	}
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	var code *bytecode.Code
	if filepath.Ext(path) == compiledExt {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if code, err = bytecode.Unmarshal(data); err != nil {
			return err
		}
	} else {
		var err error
		if code, err = a.compileFile(cmd, path, false); err != nil {
			return err
		}
	}
	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}
	return dis.Printer{UseColor: a.useColor(a.stdout)}.Print(instructions, a.stdout)
}
