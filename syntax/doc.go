// Package syntax provides SLang lexing and parsing.
//
// SLang is a small shading language with vertex and fragment entry points,
// vector base types and fixed-length arrays.
//
// # Components
//
// The syntax package consists of several components:
//
//   - Lexer: Tokenizes SLang source code into tokens
//   - Grammar: LL(1) tables derived once from the declared productions
//   - Parser: Parses tokens into an AST (Abstract Syntax Tree)
//   - AST: Type definitions for the abstract syntax tree
//
// # Usage
//
// To parse a SLang program:
//
//	source := `
//	vertex entry fn main(p: vec2) -> vec4 {
//	    return vec4(p[0], p[1], 0, 1);
//	}
//	`
//
//	lexer := syntax.NewLexer(source)
//	tokens, err := lexer.Tokenize()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	parser := syntax.NewParser(tokens)
//	module, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Scanning stops at the first unrecognized character with a *ScanError.
// Parsing stops at the first token the grammar cannot accept with a
// *ParseError that lists every token kind that would have been accepted.
// There is no recovery.
//
// # Associativity
//
// All binary operators nest to the right: a - b - c parses as a - (b - c).
package syntax

// LanguageVersion is the version of the SLang grammar this package accepts.
const LanguageVersion = "0.1.0"
