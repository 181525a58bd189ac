package syntax

import "fmt"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent  // ID
	TokenNumber // NUM_LIT

	// Operators
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenPercent      // %
	TokenAmpersand    // &
	TokenPipe         // |
	TokenEqual        // =
	TokenLess         // <
	TokenGreater      // >
	TokenComma        // ,
	TokenColon        // :
	TokenSemicolon    // ;
	TokenArrow        // ->
	TokenEqualEqual   // ==
	TokenBangEqual    // !=
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Keywords
	TokenVertex
	TokenFragment
	TokenEntry
	TokenFn
	TokenLet
	TokenConst
	TokenIn
	TokenOut
	TokenLoc
	TokenReturn
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse

	// Type keywords
	TokenVec2
	TokenVec3
	TokenVec4
	TokenVoid

	tokenKindCount
)

var tokenNames = [tokenKindCount]string{
	TokenEOF:    "EOF",
	TokenIdent:  "ID",
	TokenNumber: "NUM_LIT",

	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenAmpersand:    "&",
	TokenPipe:         "|",
	TokenEqual:        "=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenComma:        ",",
	TokenColon:        ":",
	TokenSemicolon:    ";",
	TokenArrow:        "->",
	TokenEqualEqual:   "==",
	TokenBangEqual:    "!=",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",

	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",

	TokenVertex:   "vertex",
	TokenFragment: "fragment",
	TokenEntry:    "entry",
	TokenFn:       "fn",
	TokenLet:      "let",
	TokenConst:    "const",
	TokenIn:       "in",
	TokenOut:      "out",
	TokenLoc:      "loc",
	TokenReturn:   "return",
	TokenAnd:      "and",
	TokenOr:       "or",
	TokenNot:      "not",
	TokenTrue:     "true",
	TokenFalse:    "false",

	TokenVec2: "vec2",
	TokenVec3: "vec3",
	TokenVec4: "vec4",
	TokenVoid: "void",
}

// String returns the string representation of the token kind: "ID",
// "NUM_LIT", "EOF", or the literal spelling of a keyword or operator.
func (k TokenKind) String() string {
	if k < tokenKindCount {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// IsKeyword reports whether k is spelled as a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenVertex && k < tokenKindCount
}

// keywords maps reserved words to their kinds.
var keywords = func() map[string]TokenKind {
	m := make(map[string]TokenKind)
	for k := TokenVertex; k < tokenKindCount; k++ {
		m[tokenNames[k]] = k
	}
	return m
}()

// LookupKeyword returns the keyword kind for text, or TokenIdent.
func LookupKeyword(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return TokenIdent
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Span   Span
}

// String returns "KIND lexeme" for identifiers and literals and the
// spelling alone for everything else.
func (t Token) String() string {
	switch t.Kind {
	case TokenIdent, TokenNumber:
		return t.Kind.String() + " " + t.Lexeme
	default:
		return t.Kind.String()
	}
}

// Span represents a source code location span. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// String returns "line:col".
func (s Span) String() string {
	return s.Start.String()
}

// Position represents a position in source code.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Offset int // 0-based byte offset
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
