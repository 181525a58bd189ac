package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/slang-lang/slang"
	"github.com/slang-lang/slang/internal/config"
	"github.com/slang-lang/slang/syntax"
)

func (a *app) parseCmd() *cobra.Command {
	var emit string
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("emit") {
				emit = a.cfg.Output.Emit
			}
			if !slices.Contains(config.EmitModes, emit) {
				return fmt.Errorf("unknown emit format %q (want %s)", emit, strings.Join(config.EmitModes, ", "))
			}

			path := args[0]
			source, err := a.readSource(path)
			if err != nil {
				return err
			}
			module, err := slang.Parse(source, a.options(path)...)
			if err != nil {
				return a.report(err, path, source)
			}
			return emitTree(cmd.OutOrStdout(), module, emit)
		},
	}
	cmd.Flags().StringVar(&emit, "emit", "text", "tree format: text, yaml or json (default from config)")
	return cmd
}

// emitTree writes module in the named format.
func emitTree(w io.Writer, module *syntax.Module, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(syntax.ToMap(module)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		return syntax.FprintJSON(w, module)
	default:
		syntax.Fprint(w, module)
		return nil
	}
}
