package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza/importer"
	"github.com/hexza-lang/hexza/internal/table"
)

func (a *app) pkgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkg",
		Short: "Manage the local package registry",
		Long: "Packages are local Hexza or JavaScript files registered under a name.\n" +
			"Scripts import them with: import \"name\" as alias;",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered packages",
		Args:  cobra.NoArgs,
		RunE:  a.pkgListHandler,
	}
	list.Flags().Bool("json", false, "Print the registry as JSON")

	add := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a package",
		Args:  cobra.ExactArgs(2),
		RunE:  a.pkgAddHandler,
	}

	remove := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a package",
		Args:    cobra.ExactArgs(1),
		RunE:    a.pkgRemoveHandler,
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Verify that every registered path exists",
		Args:  cobra.NoArgs,
		RunE:  a.pkgCheckHandler,
	}

	cmd.AddCommand(list, add, remove, check)
	return cmd
}

type packageJSON struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        string    `json:"kind"`
	Ext         string    `json:"ext"`
	InstalledAt time.Time `json:"installed_at"`
}

func (a *app) pkgListHandler(cmd *cobra.Command, args []string) error {
	registry, err := a.registry()
	if err != nil {
		return err
	}
	entries := registry.List()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		records := make([]packageJSON, 0, len(entries))
		for _, e := range entries {
			records = append(records, packageJSON{
				Name:        e.Name,
				Path:        e.Path,
				Kind:        string(e.Kind),
				Ext:         e.Ext,
				InstalledAt: e.InstalledAt,
			})
		}
		var data []byte
		if a.useColor(a.stdout) {
			data, err = prettyjson.Marshal(records)
		} else {
			data, err = json.MarshalIndent(records, "", "  ")
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, string(data))
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(a.stdout, "no packages installed")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, string(e.Kind), e.Path, e.InstalledAt.Format(time.RFC3339)})
	}
	return table.NewTable(a.stdout).
		WithHeader([]string{"NAME", "KIND", "PATH", "INSTALLED"}).
		WithRows(rows).
		Render()
}

func (a *app) pkgAddHandler(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	registry, err := a.registry()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	if err := registry.Add(name, importer.Package{Path: abs}); err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return err
	}
	pkg, _ := registry.Lookup(name)
	_, err = fmt.Fprintf(a.stdout, "added %s (%s) -> %s\n", name, pkg.Kind, pkg.Path)
	return err
}

func (a *app) pkgRemoveHandler(cmd *cobra.Command, args []string) error {
	registry, err := a.registry()
	if err != nil {
		return err
	}
	if err := registry.Remove(args[0]); err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "removed %s\n", args[0])
	return err
}

func (a *app) pkgCheckHandler(cmd *cobra.Command, args []string) error {
	registry, err := a.registry()
	if err != nil {
		return err
	}
	if err := registry.Validate(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%d packages ok\n", len(registry.Names()))
	return err
}
