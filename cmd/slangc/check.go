package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slang-lang/slang"
	"github.com/slang-lang/slang/internal/watch"
)

func (a *app) checkCmd() *cobra.Command {
	var watchFiles bool
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check files for scan and parse errors",
		Long: `Check every file and print "FILE: ok" for each one that parses.
With --watch, keep running and re-check a file whenever it is saved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watchFiles {
				failed := 0
				for _, path := range args {
					if !a.check(cmd, path) {
						failed++
					}
				}
				if failed > 0 {
					return errReported
				}
				return nil
			}

			debounce, err := a.cfg.Watch.Interval()
			if err != nil {
				return err
			}
			// Watch before the first pass so no save in between is missed.
			w, err := watch.New(args)
			if err != nil {
				return err
			}
			for _, path := range args {
				a.check(cmd, path)
			}
			a.logger.Info("watching", "files", len(args), "debounce", debounce)
			return w.Run(cmd.Context(), debounce, func(path string) {
				a.check(cmd, path)
			})
		},
	}
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "re-check files when they change")
	return cmd
}

// check parses one file and reports the outcome. It returns false if the
// file could not be read or parsed.
func (a *app) check(cmd *cobra.Command, path string) bool {
	source, err := a.readSource(path)
	if err != nil {
		a.diag.Error(err, path, "")
		return false
	}
	if _, err := slang.Parse(source, a.options(path)...); err != nil {
		a.report(err, path, source)
		return false
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	return true
}
