package main

import (
	goerrors "errors"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hexza-lang/hexza/importer"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{v: viper.New(), stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hexza [script]",
		Short: "Run Hexza scripts",
		Long: "Hexza runs the given script, or starts an interactive prompt when no\n" +
			"script is given and the terminal is interactive.",
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runHandler,
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.String("registry", importer.DefaultRegistryDir, "Package registry directory")
	pf.String("config", "", "Config file (default ./hexza.toml)")

	f := cmd.Flags()
	f.StringP("code", "c", "", "Code to evaluate")
	f.Bool("web", false, "Serve the routes registered by api blocks")
	f.String("host", "127.0.0.1", "Host to listen on with --web")
	f.Int("port", 5000, "Port to listen on with --web")
	f.Bool("bytecode", false, "Run through the bytecode compiler and VM")
	f.Bool("strict", false, "Fail on statements the bytecode compiler skips")
	f.Bool("trace", false, "Log every VM instruction at trace level")
	f.Bool("print", false, "Pretty-print the result of the script")
	f.String("syntax", "", "Restrict the language (full, basic, expression, sandboxed)")

	a.v.BindPFlags(pf)
	a.v.BindPFlags(f)

	cmd.AddCommand(
		a.fmtCmd(),
		a.pkgCmd(),
		a.compileCmd(),
		a.disCmd(),
		a.docsCmd(),
		a.testCmd(),
		a.versionCmd(),
	)
	return cmd
}

// initConfig loads hexza.toml and HEXZA_* environment variables. Flags given
// on the command line take precedence over both.
func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	a.v.BindPFlags(cmd.Flags())
	a.v.SetEnvPrefix("HEXZA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName("hexza")
		a.v.SetConfigType("toml")
		a.v.AddConfigPath(".")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !goerrors.As(err, &notFound) {
			return err
		}
	}
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}

// logger builds the console logger for this invocation.
func (a *app) logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: a.stderr, NoColor: !a.useColor(a.stderr)}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// registry opens the package registry named by --registry.
func (a *app) registry() (*importer.Registry, error) {
	return importer.Open(a.v.GetString("registry"))
}

// readSource returns the script to run and its filename. With no argument
// and no --code it reads standard input.
func (a *app) readSource(args []string) (string, string, error) {
	code := a.v.GetString("code")
	if len(args) > 0 && code != "" {
		return "", "", goerrors.New("multiple input sources specified")
	}
	if code != "" {
		return code, "", nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", "", err
	}
	return string(data), "<stdin>", nil
}
