package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hokaccha/go-prettyjson"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hexza-lang/hexza"
	"github.com/hexza-lang/hexza/bytecode"
	"github.com/hexza-lang/hexza/evaluator"
	"github.com/hexza-lang/hexza/httpapi"
	"github.com/hexza-lang/hexza/importer"
	"github.com/hexza-lang/hexza/syntax"
	"github.com/hexza-lang/hexza/vm"
)

// compiledExt is the extension of files written by "hexza compile".
const compiledExt = ".hxc"

var syntaxPresets = map[string]syntax.SyntaxConfig{
	"full":       syntax.FullLanguage,
	"basic":      syntax.BasicScripting,
	"expression": syntax.ExpressionOnly,
	"sandboxed":  syntax.Sandboxed,
}

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 0 && a.v.GetString("code") == "" && isTerminal(a.stdin) {
		return a.runRepl(ctx)
	}
	logger := a.logger()

	if len(args) > 0 && filepath.Ext(args[0]) == compiledExt {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		code, err := bytecode.Unmarshal(data)
		if err != nil {
			return err
		}
		result, err := hexza.Run(ctx, code, a.vmOptions(logger)...)
		if err != nil {
			return err
		}
		return a.printResult(result)
	}

	source, filename, err := a.readSource(args)
	if err != nil {
		return err
	}
	opts := []hexza.Option{
		hexza.WithStdout(a.stdout),
		hexza.WithLogger(logger),
	}
	if filename != "" {
		opts = append(opts, hexza.WithFilename(filename))
	}
	if name := a.v.GetString("syntax"); name != "" {
		config, ok := syntaxPresets[name]
		if !ok {
			return fmt.Errorf("unknown syntax preset %q (want full, basic, expression or sandboxed)", name)
		}
		opts = append(opts, hexza.WithSyntax(config))
	}

	if a.v.GetBool("bytecode") {
		if a.v.GetBool("strict") {
			opts = append(opts, hexza.WithStrict())
		}
		code, err := hexza.Compile(ctx, source, opts...)
		if err != nil {
			return err
		}
		result, err := hexza.Run(ctx, code, append(opts, a.vmOptions(logger)...)...)
		if err != nil {
			return err
		}
		return a.printResult(result)
	}

	imp, err := a.importer(filename, logger)
	if err != nil {
		return err
	}
	opts = append(opts, hexza.WithImporter(imp))

	var server *httpapi.Server
	if a.v.GetBool("web") {
		server = httpapi.New(httpapi.WithLogger(logger))
		opts = append(opts, hexza.WithRouteRegistrar(func() (evaluator.RouteRegistrar, error) {
			return server, nil
		}))
	}

	result, err := hexza.Eval(ctx, source, opts...)
	if err != nil {
		return err
	}
	if err := a.printResult(result); err != nil {
		return err
	}
	if server == nil {
		return nil
	}
	return a.serve(ctx, server, logger)
}

func (a *app) vmOptions(logger zerolog.Logger) []hexza.Option {
	opts := []hexza.Option{hexza.WithStdout(a.stdout), hexza.WithLogger(logger)}
	if a.v.GetBool("trace") {
		opts = append(opts, hexza.WithObserver(vm.TraceObserver{Logger: logger}))
	}
	return opts
}

// importer builds a resolver that consults the package registry and
// resolves relative imports against the script's directory.
func (a *app) importer(filename string, logger zerolog.Logger) (*importer.Resolver, error) {
	registry, err := a.registry()
	if err != nil {
		return nil, err
	}
	dir := "."
	if filename != "" && filename != "<stdin>" {
		dir = filepath.Dir(filename)
	}
	return importer.NewResolver(
		importer.WithRegistry(registry),
		importer.WithBaseDir(dir),
		importer.WithLogger(logger),
	), nil
}

func (a *app) serve(ctx context.Context, server *httpapi.Server, logger zerolog.Logger) error {
	routes := server.Routes()
	if len(routes) == 0 {
		logger.Warn().Msg("no routes registered; serving 404 for every request")
	}
	addr := net.JoinHostPort(a.v.GetString("host"), strconv.Itoa(a.v.GetInt("port")))
	logger.Info().Str("addr", addr).Strs("routes", routes).Msg("serving")
	fmt.Fprintf(a.stderr, "Serving on http://%s\n", addr)
	return server.ListenAndServe(ctx, addr)
}

// printResult writes the script result as JSON when --print is set. Values
// that do not marshal are printed with fmt.
func (a *app) printResult(result any) error {
	if !a.v.GetBool("print") {
		return nil
	}
	var (
		data []byte
		err  error
	)
	if a.useColor(a.stdout) {
		data, err = prettyjson.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		_, err = fmt.Fprintln(a.stdout, result)
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}
