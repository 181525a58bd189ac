package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slang-lang/slang"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file",
		Long: `Print one token per line as "line:col KIND lexeme". Keywords and
punctuation print their spelling only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := a.readSource(path)
			if err != nil {
				return err
			}
			tokens, err := slang.Tokenize(source, a.options(path)...)
			if err != nil {
				return a.report(err, path, source)
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%s %s\n", tok.Span.Start, tok)
			}
			return nil
		},
	}
}
