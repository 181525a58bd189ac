package syntax

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes SLang source code.
//
// A Lexer makes a single left-to-right pass over its source. Once Tokenize
// has returned, further calls return the same result.
type Lexer struct {
	source string
	pos    int
	line   int
	column int

	start      int
	startLine  int
	startCol   int
	tokens     []Token
	done       bool
	err        error
	lastResult []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Estimate ~1 token per 4 characters of source.
	estTokens := len(source) / 4
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, terminated by a single EOF
// token. The first unrecognized character aborts the pass with a
// *ScanError; no partial token list is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	if l.done {
		return l.lastResult, l.err
	}
	l.done = true

	for !l.isAtEnd() {
		l.mark()
		if err := l.scanToken(); err != nil {
			l.err = err
			return nil, err
		}
	}

	l.mark()
	l.tokens = append(l.tokens, Token{
		Kind: TokenEOF,
		Span: Span{Start: l.position(), End: l.position()},
	})
	l.lastResult = l.tokens

	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '+':
		l.addToken(TokenPlus)
	case '*':
		l.addToken(TokenStar)
	case '%':
		l.addToken(TokenPercent)
	case '&':
		l.addToken(TokenAmpersand)
	case '|':
		l.addToken(TokenPipe)

	// Operators that could be one or two characters
	case '-':
		if l.match('>') {
			l.addToken(TokenArrow)
		} else {
			l.addToken(TokenMinus)
		}
	case '=':
		if l.match('=') {
			l.addToken(TokenEqualEqual)
		} else {
			l.addToken(TokenEqual)
		}
	case '<':
		if l.match('=') {
			l.addToken(TokenLessEqual)
		} else {
			l.addToken(TokenLess)
		}
	case '>':
		if l.match('=') {
			l.addToken(TokenGreaterEqual)
		} else {
			l.addToken(TokenGreater)
		}
	case '!':
		if err := l.expect('='); err != nil {
			return err
		}
		l.addToken(TokenBangEqual)
	case '/':
		if l.match('/') {
			// Line comment
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(TokenSlash)
		}

	case '\n':
		l.line++
		l.column = 1

	default:
		switch {
		case unicode.IsSpace(r):
			// Ignore whitespace
		case isDigit(r):
			return l.number()
		case isAlpha(r) || r == '_':
			l.identifier()
		default:
			return l.errorAt(ScanUnexpectedChar, r, l.startPosition())
		}
	}

	return nil
}

// number scans digits, optionally followed by '.' and at least one more digit.
func (l *Lexer) number() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' {
		l.advance()
		if l.isAtEnd() {
			return l.errorAt(ScanUnexpectedEOF, 0, l.position())
		}
		if !isDigit(l.peek()) {
			return l.errorAt(ScanUnexpectedChar, l.peek(), l.position())
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	l.addToken(TokenNumber)
	return nil
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	text := l.source[l.start:l.pos]
	l.addToken(LookupKeyword(text))
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Span:   Span{Start: l.startPosition(), End: l.position()},
	})
}

func (l *Lexer) mark() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.column
}

func (l *Lexer) startPosition() Position {
	return Position{Line: l.startLine, Column: l.startCol, Offset: l.start}
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) errorAt(kind ScanErrorKind, r rune, pos Position) *ScanError {
	err := &ScanError{Kind: kind, Char: r, Pos: pos}
	if r == utf8.RuneError && pos.Offset < len(l.source) {
		// A literal U+FFFD decodes with size 3; only a lone byte is invalid.
		if _, size := utf8.DecodeRuneInString(l.source[pos.Offset:]); size == 1 {
			err.Byte = l.source[pos.Offset]
		}
	}
	return err
}

// expect consumes the expected rune or fails with a scan error.
func (l *Lexer) expect(expected rune) error {
	if l.isAtEnd() {
		return l.errorAt(ScanUnexpectedEOF, 0, l.position())
	}
	if r := l.peek(); r != expected {
		return l.errorAt(ScanUnexpectedChar, r, l.position())
	}
	l.advance()
	return nil
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
