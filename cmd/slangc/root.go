package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/slang-lang/slang"
	"github.com/slang-lang/slang/internal/config"
	"github.com/slang-lang/slang/internal/diag"
)

// errReported marks a failure whose diagnostic was already written.
var errReported = errors.New("reported")

// app holds the state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool
	color   string

	cfg    *config.Config
	logger *slog.Logger
	diag   *diag.Printer
}

// run executes slangc with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		if a.diag != nil {
			a.diag.Error(err, "", "")
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slangc",
		Short: "SLang shading language front end",
		Long: `slangc scans and parses SLang shader sources.

Commands:
  tokens   - print the token stream of a file
  parse    - parse a file and print its syntax tree
  check    - check files for scan and parse errors
  version  - print tool and language versions

Settings are read from slang.toml, slang.yaml or slang.yml in the
working directory unless --config names a file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./slang.toml, ./slang.yaml or ./slang.yml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug records to stderr")
	root.PersistentFlags().StringVar(&a.color, "color", "", "color diagnostics: auto, always or never (default from config)")

	root.AddCommand(a.tokensCmd(), a.parseCmd(), a.checkCmd(), a.versionCmd())
	return root
}

// setup loads the configuration and builds the logger and the diagnostic
// printer. Flags override config values.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("color") {
		a.cfg.Output.Color = a.color
	}
	a.diag, err = diag.New(a.stderr, a.cfg.Output.Color)
	if err != nil {
		return err
	}

	level, err := a.cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	if a.cfg.Path != "" {
		a.logger.Debug("loaded config", "path", a.cfg.Path)
	}
	return nil
}

// readSource reads path for one of the file commands.
func (a *app) readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

// options returns the facade options for path.
func (a *app) options(path string) []slang.Option {
	return []slang.Option{slang.WithFilename(path), slang.WithLogger(a.logger)}
}

// report writes the diagnostic for a failure in path and returns
// errReported.
func (a *app) report(err error, path, source string) error {
	a.diag.Error(err, path, source)
	return errReported
}
