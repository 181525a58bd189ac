// Command slangc is the SLang front end CLI.
//
// Usage:
//
//	slangc <command> [flags] <input>...
//
// Examples:
//
//	slangc tokens shader.sl              # Print the token stream
//	slangc parse shader.sl               # Parse and print the syntax tree
//	slangc parse --emit json shader.sl   # Dump the tree as JSON
//	slangc check --watch a.sl b.sl       # Re-check on every save
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
