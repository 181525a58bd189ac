package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/slang-lang/slang/syntax"
)

// Version is the slangc release, set with -ldflags at build time.
var Version = "0.1.0-dev"

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tool and language versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "slangc version %s\n", Version)
			fmt.Fprintf(out, "  Language:   SLang %s\n", syntax.LanguageVersion)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
