// Package slang provides a Pure Go front end for the SLang shading language.
//
// slang scans SLang source into tokens and parses them into an abstract
// syntax tree with a predictive LL(1) parser. Semantic analysis and code
// generation are left to later phases, which consume the tree.
//
// The package provides a simple, high-level API as well as lower-level
// access through the syntax package.
//
// Example usage:
//
//	source := `
//	vertex entry fn main(p: vec2) -> vec4 {
//	    return vec4(p[0], p[1], 0, 1);
//	}
//	`
//	module, err := slang.Parse(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Errors wrap a *syntax.ScanError or a *syntax.ParseError; recover them with
// errors.As, or convert them for display with syntax.AsSourceError.
package slang

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/slang-lang/slang/syntax"
)

// Options configures parsing.
type Options struct {
	// Filename prefixes error messages and log records.
	Filename string

	// Logger receives debug records about each stage. Nil discards them.
	Logger *slog.Logger
}

// Option sets a field of Options.
type Option func(*Options)

// WithFilename sets Options.Filename.
func WithFilename(name string) Option {
	return func(o *Options) { o.Filename = name }
}

// WithLogger sets Options.Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Filename != "" {
		o.Logger = o.Logger.With("file", o.Filename)
	}
	return o
}

// wrap adds the failing stage and, if set, the filename to err.
func (o Options) wrap(stage string, err error) error {
	if o.Filename == "" {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %s: %w", o.Filename, stage, err)
}

// Tokenize scans SLang source into tokens terminated by a single EOF token.
func Tokenize(source string, opts ...Option) ([]syntax.Token, error) {
	o := buildOptions(opts)
	return tokenize(source, o)
}

func tokenize(source string, o Options) ([]syntax.Token, error) {
	tokens, err := syntax.NewLexer(source).Tokenize()
	if err != nil {
		o.Logger.Debug("tokenization failed", "err", err)
		return nil, o.wrap("tokenization error", err)
	}
	o.Logger.Debug("tokenized", "bytes", len(source), "tokens", len(tokens))
	return tokens, nil
}

// Parse parses SLang source to AST (Abstract Syntax Tree).
//
// The whole source is scanned before parsing starts. Both stages stop at
// the first error.
func Parse(source string, opts ...Option) (*syntax.Module, error) {
	o := buildOptions(opts)

	tokens, err := tokenize(source, o)
	if err != nil {
		return nil, err
	}

	module, err := syntax.NewParser(tokens).Parse()
	if err != nil {
		o.Logger.Debug("parse failed", "err", err)
		return nil, o.wrap("parse error", err)
	}

	o.Logger.Debug("parsed",
		"functions", len(module.Functions()),
		"globals", len(module.Globals()))
	return module, nil
}

// ParseFile reads the file at path in full and parses it. The path is used
// as the filename unless WithFilename overrides it.
func ParseFile(path string, opts ...Option) (*syntax.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	opts = append([]Option{WithFilename(path)}, opts...)
	return Parse(string(data), opts...)
}

// ParseExpr parses source as a single expression.
func ParseExpr(source string, opts ...Option) (syntax.Expr, error) {
	o := buildOptions(opts)

	tokens, err := tokenize(source, o)
	if err != nil {
		return nil, err
	}

	expr, err := syntax.NewParser(tokens).ParseExpr()
	if err != nil {
		o.Logger.Debug("parse failed", "err", err)
		return nil, o.wrap("parse error", err)
	}
	return expr, nil
}
