package syntax

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// parseSource parses source and checks that every token, EOF included,
// was consumed.
func parseSource(t *testing.T, source string) *Module {
	t.Helper()
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	parser := NewParser(tokens)
	module, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	if parser.current != len(tokens) {
		t.Fatalf("Parse(%q) consumed %d of %d tokens", source, parser.current, len(tokens))
	}
	return module
}

func parseExpr(t *testing.T, source string) Expr {
	t.Helper()
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	parser := NewParser(tokens)
	expr, err := parser.ParseExpr()
	if err != nil {
		t.Fatalf("ParseExpr(%q) failed: %v", source, err)
	}
	if parser.current != len(tokens) {
		t.Fatalf("ParseExpr(%q) consumed %d of %d tokens", source, parser.current, len(tokens))
	}
	return expr
}

func parseError(t *testing.T, source string) *ParseError {
	t.Helper()
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	_, err = NewParser(tokens).Parse()
	if err == nil {
		t.Fatalf("Parse(%q): expected error", source)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse(%q): expected *ParseError, got %T", source, err)
	}
	return parseErr
}

// sexpr renders an expression in prefix form so tree shapes can be compared
// as strings.
func sexpr(e Expr) string {
	switch n := e.(type) {
	case *Ident:
		return n.Name()
	case *NumberLit:
		return n.Token.Lexeme
	case *BoolLit:
		return n.Token.Lexeme
	case *UnaryExpr:
		return "(" + n.Op.Lexeme + " " + sexpr(n.Operand) + ")"
	case *BinaryExpr:
		return "(" + n.Op.Lexeme + " " + sexpr(n.Left) + " " + sexpr(n.Right) + ")"
	case *IndexExpr:
		return "(index " + sexpr(n.Array) + " " + sexpr(n.Index) + ")"
	case *CallExpr:
		parts := []string{"call", n.Callee.Name()}
		for _, a := range n.Args {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ArrayLit:
		parts := []string{"array"}
		for _, el := range n.Elems {
			parts = append(parts, sexpr(el))
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}

func TestParseAcceptedPrograms(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"typed global array", "let x : vec2[4] = [1,2,3,4];"},
		{"param returned", "fn f ( x : void ) -> void { return x; }"},
		{"entry", "entry fn f() -> void {}"},
		{"fragment", "fragment fn f() -> void {}"},
		{"vertex entry", "vertex entry fn f() -> void {}"},
		{"fragment entry", "fragment entry fn f() -> vec4 { return vec4(0, 0, 0, 1); }"},
		{"attributes", "in loc(0) let pos : vec4; out loc(1) let color : vec4;"},
		{"global const", "const scale : vec2 = vec2(2, 2);"},
		{"global without init", "let v : vec3;"},
		{"multiple params", "fn add(a: vec2, b: vec2) -> vec2 { return a + b; }"},
		{"locals", "fn f() -> void { let a : vec2; let b : vec2 = a; const c = b; a = c; }"},
		{"empty call", "fn f() -> void { return g(); }"},
		{"index", "fn f(a: vec4[3]) -> vec4 { return a[2]; }"},
		{"logic", "fn f() -> void { x = not a and b or c != d; }"},
		{"comments", "// header\nfn f() -> void { // body\n return 1; }\n"},
		{"nested groups", "fn f() -> void { return ((a)) * -(b - c); }"},
		{"all comparisons", "fn f() -> void { x = a == b != c < d <= e > f >= g & h | i; }"},
		{"arithmetic", "fn f() -> void { x = a + b - c * d / e % f; }"},
		{"nested arrays", "fn f() -> void { x = [[1, 2], [3, 4]]; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module := parseSource(t, tt.source)
			if len(module.Decls) == 0 {
				t.Error("expected at least one declaration")
			}
		})
	}
}

func TestParseFunctionAttributes(t *testing.T) {
	tests := []struct {
		source string
		stage  Stage
		entry  bool
	}{
		{"fn f() -> void {}", StageNone, false},
		{"entry fn f() -> void {}", StageNone, true},
		{"vertex fn f() -> void {}", StageVertex, false},
		{"fragment fn f() -> void {}", StageFragment, false},
		{"vertex entry fn f() -> void {}", StageVertex, true},
	}

	for _, tt := range tests {
		module := parseSource(t, tt.source)
		fns := module.Functions()
		if len(fns) != 1 {
			t.Fatalf("%q: expected 1 function, got %d", tt.source, len(fns))
		}
		if fns[0].Stage != tt.stage {
			t.Errorf("%q: stage = %v, want %v", tt.source, fns[0].Stage, tt.stage)
		}
		if fns[0].Entry != tt.entry {
			t.Errorf("%q: entry = %v, want %v", tt.source, fns[0].Entry, tt.entry)
		}
	}
}

func TestParseFunctionSignature(t *testing.T) {
	module := parseSource(t, "vertex entry fn main(pos: vec2, data: vec4[8]) -> vec4 { return vec4(pos[0], pos[1], 0, 1); }")

	fn := module.Functions()[0]
	if fn.Name.Lexeme != "main" {
		t.Errorf("Expected function name 'main', got '%s'", fn.Name.Lexeme)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("Expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name.Lexeme != "pos" || fn.Params[0].Type.String() != "vec2" {
		t.Errorf("param 0 = %s %s", fn.Params[0].Name.Lexeme, fn.Params[0].Type)
	}
	if fn.Params[1].Name.Lexeme != "data" || fn.Params[1].Type.String() != "vec4[8]" || !fn.Params[1].Type.IsArray() {
		t.Errorf("param 1 = %s %s", fn.Params[1].Name.Lexeme, fn.Params[1].Type)
	}
	if fn.Result.String() != "vec4" {
		t.Errorf("result = %s, want vec4", fn.Result)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("Expected *ReturnStmt, got %T", fn.Body.Statements[0])
	}
	if got, want := sexpr(ret.Value), "(call vec4 (index pos 0) (index pos 1) 0 1)"; got != want {
		t.Errorf("return value = %s, want %s", got, want)
	}
}

func TestParseGlobalVariable(t *testing.T) {
	module := parseSource(t, "in out loc(3) const v : vec3[2] = [vec3(1, 2, 3), vec3(4, 5, 6)];")

	globals := module.Globals()
	if len(globals) != 1 {
		t.Fatalf("Expected 1 global, got %d", len(globals))
	}
	g := globals[0]
	if g.Name.Lexeme != "v" {
		t.Errorf("Expected name 'v', got '%s'", g.Name.Lexeme)
	}
	if !g.IsConst() {
		t.Error("Expected const binding")
	}
	if len(g.Attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(g.Attrs))
	}
	if g.Attrs[0].Kind != AttrIn || g.Attrs[1].Kind != AttrOut || g.Attrs[2].Kind != AttrLoc {
		t.Errorf("attribute kinds = %v %v %v", g.Attrs[0].Kind, g.Attrs[1].Kind, g.Attrs[2].Kind)
	}
	if g.Attrs[2].Location.Lexeme != "3" {
		t.Errorf("loc = %q, want 3", g.Attrs[2].Location.Lexeme)
	}
	if g.Type.String() != "vec3[2]" {
		t.Errorf("type = %s, want vec3[2]", g.Type)
	}
	if got, want := sexpr(g.Init), "(array (call vec3 1 2 3) (call vec3 4 5 6))"; got != want {
		t.Errorf("init = %s, want %s", got, want)
	}
}

func TestParseLocalDeclarations(t *testing.T) {
	module := parseSource(t, "fn f() -> void { let a : vec2; let b : vec2 = a; const c = b; }")
	stmts := module.Functions()[0].Body.Statements
	if len(stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(stmts))
	}

	tests := []struct {
		name    string
		typ     string
		init    string
		isConst bool
	}{
		{"a", "vec2", "", false},
		{"b", "vec2", "a", false},
		{"c", "", "b", true},
	}
	for i, tt := range tests {
		decl, ok := stmts[i].(*VarDecl)
		if !ok {
			t.Fatalf("statement %d: expected *VarDecl, got %T", i, stmts[i])
		}
		if decl.Name.Lexeme != tt.name {
			t.Errorf("statement %d: name = %s, want %s", i, decl.Name.Lexeme, tt.name)
		}
		var typ string
		if decl.Type != nil {
			typ = decl.Type.String()
		}
		if typ != tt.typ {
			t.Errorf("statement %d: type = %q, want %q", i, typ, tt.typ)
		}
		var init string
		if decl.Init != nil {
			init = sexpr(decl.Init)
		}
		if init != tt.init {
			t.Errorf("statement %d: init = %q, want %q", i, init, tt.init)
		}
		if decl.IsConst() != tt.isConst {
			t.Errorf("statement %d: IsConst = %v", i, decl.IsConst())
		}
	}
}

func TestParseAssignment(t *testing.T) {
	module := parseSource(t, "fn f() -> void { x = y + 1; }")
	assign, ok := module.Functions()[0].Body.Statements[0].(*AssignStmt)
	if !ok {
		t.Fatalf("Expected *AssignStmt, got %T", module.Functions()[0].Body.Statements[0])
	}
	if assign.Target.Name() != "x" {
		t.Errorf("target = %s, want x", assign.Target.Name())
	}
	if got := sexpr(assign.Value); got != "(+ y 1)" {
		t.Errorf("value = %s", got)
	}
}

func TestParseExpressionShapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		// Equal-precedence runs nest to the right.
		{"a - b - c", "(- a (- b c))"},
		{"a / b / c", "(/ a (/ b c))"},
		{"a and b and c", "(and a (and b c))"},
		{"a or b or c", "(or a (or b c))"},
		{"a < b < c", "(< a (< b c))"},
		{"a + b - c + d", "(+ a (- b (+ c d)))"},

		// Precedence.
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a or b and c", "(or a (and b c))"},
		{"a and b == c", "(and a (== b c))"},
		{"a == b + c", "(== a (+ b c))"},
		{"a & b | c", "(& a (| b c))"},
		{"-a * b", "(* (- a) b)"},
		{"not not x", "(not (not x))"},
		{"- - 1", "(- (- 1))"},
		{"a - -b", "(- a (- b))"},

		// Grouping overrides both.
		{"(a - b) - c", "(- (- a b) c)"},
		{"(a or b) and c", "(and (or a b) c)"},

		// Primaries.
		{"x", "x"},
		{"1.25", "1.25"},
		{"true", "true"},
		{"false", "false"},
		{"a[i + 1]", "(index a (+ i 1))"},
		{"f(x)", "(call f x)"},
		{"f(1, g(2))", "(call f 1 (call g 2))"},
		{"vec2(1, 2)", "(call vec2 1 2)"},
		{"void(0)", "(call void 0)"},
		{"[1, 2, 3]", "(array 1 2 3)"},
		{"[a[0]]", "(array (index a 0))"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := sexpr(parseExpr(t, tt.source)); got != tt.want {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.source, got, tt.want)
			}
		})
	}
}

func TestParseConstructorFlag(t *testing.T) {
	ctor, ok := parseExpr(t, "vec3(1, 2, 3)").(*CallExpr)
	if !ok || !ctor.IsConstructor() {
		t.Errorf("vec3(...) should be a constructor call")
	}
	call, ok := parseExpr(t, "f(1)").(*CallExpr)
	if !ok || call.IsConstructor() {
		t.Errorf("f(...) should not be a constructor call")
	}
}

func TestParseExprSpans(t *testing.T) {
	expr := parseExpr(t, "a + b * c")
	bin, ok := expr.(*BinaryExpr)
	if !ok {
		t.Fatalf("Expected *BinaryExpr, got %T", expr)
	}
	if bin.Span.Start != (Position{1, 1, 0}) || bin.Span.End != (Position{1, 10, 9}) {
		t.Errorf("outer span = %+v", bin.Span)
	}
	inner := bin.Right.(*BinaryExpr)
	if inner.Span.Start != (Position{1, 5, 4}) || inner.Span.End != (Position{1, 10, 9}) {
		t.Errorf("inner span = %+v", inner.Span)
	}
}

func TestParseDeclSpans(t *testing.T) {
	source := "fn f() -> void {\n  return 1;\n}\nlet g : vec2;"
	module := parseSource(t, source)

	fn := module.Functions()[0]
	if fn.Span.Start != (Position{1, 1, 0}) || fn.Span.End.Line != 3 || fn.Span.End.Column != 2 {
		t.Errorf("function span = %+v", fn.Span)
	}
	ret := fn.Body.Statements[0]
	if got := ret.Pos().String(); got != "2:3" {
		t.Errorf("return at %s, want 2:3", got)
	}
	g := module.Globals()[0]
	if got := source[g.Span.Start.Offset:g.Span.End.Offset]; got != "let g : vec2;" {
		t.Errorf("global span covers %q", got)
	}
}

func TestParseErrorScenario(t *testing.T) {
	err := parseError(t, "fn f() -> void { x = 1 +; }")

	if err.Token.Kind != TokenSemicolon {
		t.Fatalf("error token = %v, want ';'", err.Token)
	}
	if err.Token.Span.Start != (Position{1, 25, 24}) {
		t.Errorf("error position = %+v", err.Token.Span.Start)
	}

	want := []TokenKind{
		TokenLeftParen, TokenMinus, TokenIdent, TokenNumber, TokenLeftBracket,
		TokenFalse, TokenNot, TokenTrue, TokenVec2, TokenVec3, TokenVec4, TokenVoid,
	}
	if !slices.Equal(err.Expected, want) {
		t.Errorf("expected set = %v, want %v", err.Expected, want)
	}

	msg := "1:25: unexpected token ';', expected one of: ( - ID NUM_LIT [ false not true vec2 vec3 vec4 void"
	if err.Error() != msg {
		t.Errorf("Error() = %q\nwant      %q", err.Error(), msg)
	}
}

func TestParseErrors(t *testing.T) {
	exprStart := []TokenKind{
		TokenLeftParen, TokenMinus, TokenIdent, TokenNumber, TokenLeftBracket,
		TokenFalse, TokenNot, TokenTrue, TokenVec2, TokenVec3, TokenVec4, TokenVoid,
	}
	tests := []struct {
		name     string
		source   string
		token    TokenKind
		expected []TokenKind // exact when non-nil
		contains []TokenKind
		excludes []TokenKind
	}{
		{
			name:     "empty program",
			source:   "",
			token:    TokenEOF,
			expected: []TokenKind{TokenConst, TokenEntry, TokenFn, TokenFragment, TokenIn, TokenLet, TokenLoc, TokenOut, TokenVertex},
		},
		{
			name:     "missing arrow",
			source:   "fn f() void {}",
			token:    TokenVoid,
			expected: []TokenKind{TokenArrow},
		},
		{
			name:     "global without type",
			source:   "let x = 1;",
			token:    TokenEqual,
			expected: []TokenKind{TokenColon},
		},
		{
			name:     "local without tail",
			source:   "fn f() -> void { let x; }",
			token:    TokenSemicolon,
			expected: []TokenKind{TokenColon, TokenEqual},
		},
		{
			name:     "array length must be a number",
			source:   "fn f() -> vec2[n] {}",
			token:    TokenIdent,
			expected: []TokenKind{TokenNumber},
		},
		{
			name:     "missing semicolon",
			source:   "fn f() -> void { return 1 }",
			token:    TokenRightBrace,
			contains: []TokenKind{TokenSemicolon, TokenStar, TokenPlus, TokenLess, TokenAnd, TokenOr},
			excludes: []TokenKind{TokenEOF, TokenRightBrace},
		},
		{
			name:     "trailing garbage",
			source:   "fn f() -> void {} extra",
			token:    TokenIdent,
			contains: []TokenKind{TokenEOF, TokenFn, TokenLet, TokenIn},
		},
		{
			name:     "empty array literal",
			source:   "fn f() -> void { x = []; }",
			token:    TokenRightBracket,
			contains: []TokenKind{TokenIdent, TokenNumber, TokenLeftBracket},
		},
		{
			name:     "expression statement",
			source:   "fn f() -> void { f(); }",
			token:    TokenLeftParen,
			expected: []TokenKind{TokenEqual},
		},
		{
			name:     "empty call arguments",
			source:   "fn f() -> void { x = g(); }",
			token:    TokenRightParen,
			expected: exprStart,
		},
		{
			name:     "unclosed call arguments",
			source:   "fn f() -> void { x = g(; }",
			token:    TokenSemicolon,
			expected: exprStart,
		},
		{
			name:     "empty constructor arguments",
			source:   "fn f() -> void { x = vec2(); }",
			token:    TokenRightParen,
			expected: exprStart,
		},
		{
			name:     "unknown statement start",
			source:   "fn f() -> void { 1; }",
			token:    TokenNumber,
			expected: []TokenKind{TokenIdent, TokenConst, TokenLet, TokenReturn, TokenRightBrace},
		},
		{
			name:     "bad attribute",
			source:   "loc 0 let x : vec2;",
			token:    TokenNumber,
			expected: []TokenKind{TokenLeftParen},
		},
		{
			name:     "index on call not allowed",
			source:   "fn f() -> void { x = g(1)[0]; }",
			token:    TokenLeftBracket,
			excludes: []TokenKind{TokenLeftBracket},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(t, tt.source)
			if err.Token.Kind != tt.token {
				t.Errorf("error token = %v, want %v", err.Token.Kind, tt.token)
			}
			if tt.expected != nil && !slices.Equal(err.Expected, tt.expected) {
				t.Errorf("expected set = %v, want %v", err.Expected, tt.expected)
			}
			for _, k := range tt.contains {
				if !err.Expects(k) {
					t.Errorf("expected set %v lacks %v", err.Expected, k)
				}
			}
			for _, k := range tt.excludes {
				if err.Expects(k) {
					t.Errorf("expected set %v should not contain %v", err.Expected, k)
				}
			}
		})
	}
}

func TestParseExpectedSetsAreSortedAndUnique(t *testing.T) {
	err := parseError(t, "fn f() -> void { return 1 }")
	for i := 1; i < len(err.Expected); i++ {
		if err.Expected[i-1].String() >= err.Expected[i].String() {
			t.Errorf("expected set not strictly sorted at %d: %v", i, err.Expected)
		}
	}
}

func TestParseErrorDoesNotAliasTable(t *testing.T) {
	first := parseError(t, "")
	first.Expected[0] = TokenVoid
	second := parseError(t, "")
	if second.Expected[0] == TokenVoid {
		t.Error("mutating one error's expected set changed another's")
	}
}

func TestParseExprFollowSets(t *testing.T) {
	// A lone expression ends at EOF, an expression inside a statement at ';'.
	tokens, _ := NewLexer("a b").Tokenize()
	_, err := NewParser(tokens).ParseExpr()
	var exprErr *ParseError
	if !errors.As(err, &exprErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !exprErr.Expects(TokenEOF) || exprErr.Expects(TokenSemicolon) {
		t.Errorf("lone expression expected set = %v", exprErr.Expected)
	}

	stmtErr := parseError(t, "fn f() -> void { return a b; }")
	if !stmtErr.Expects(TokenSemicolon) || stmtErr.Expects(TokenEOF) {
		t.Errorf("statement expected set = %v", stmtErr.Expected)
	}
}

func TestParseExprIncomplete(t *testing.T) {
	tokens, _ := NewLexer("1 +").Tokenize()
	_, err := NewParser(tokens).ParseExpr()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Token.Kind != TokenEOF {
		t.Errorf("error token = %v, want EOF", parseErr.Token)
	}
	if !strings.Contains(parseErr.Error(), "unexpected end of input") {
		t.Errorf("Error() = %q", parseErr.Error())
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 10000

	groups := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	if got := sexpr(parseExpr(t, groups)); got != "1" {
		t.Errorf("nested groups = %s, want 1", got)
	}

	negations := strings.Repeat("- ", depth) + "x"
	expr := parseExpr(t, negations)
	for i := 0; i < depth; i++ {
		u, ok := expr.(*UnaryExpr)
		if !ok {
			t.Fatalf("level %d: expected *UnaryExpr, got %T", i, expr)
		}
		expr = u.Operand
	}

	chain := strings.Repeat("a + ", depth) + "a"
	expr = parseExpr(t, chain)
	for i := 0; i < depth; i++ {
		b, ok := expr.(*BinaryExpr)
		if !ok {
			t.Fatalf("level %d: expected *BinaryExpr, got %T", i, expr)
		}
		expr = b.Right
	}

	arrays := strings.Repeat("[", depth) + "0" + strings.Repeat("]", depth)
	parseExpr(t, arrays)
}

func TestParseNestingLimit(t *testing.T) {
	const n = MaxNesting + 10
	tests := []struct {
		name   string
		source string
		token  TokenKind
	}{
		{"groups", strings.Repeat("(", n) + "1" + strings.Repeat(")", n), TokenLeftParen},
		{"negations", strings.Repeat("- ", n) + "x", TokenMinus},
		{"chain", strings.Repeat("a + ", n) + "a", TokenIdent},
		{"arrays", strings.Repeat("[", n) + "0" + strings.Repeat("]", n), TokenLeftBracket},
		{"call arguments", strings.Repeat("f(", n) + "0" + strings.Repeat(")", n), TokenIdent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.source).Tokenize()
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewParser(tokens).ParseExpr()
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			if parseErr.Limit != MaxNesting {
				t.Errorf("Limit = %d, want %d", parseErr.Limit, MaxNesting)
			}
			if parseErr.Token.Kind != tt.token {
				t.Errorf("error token = %v, want %v", parseErr.Token.Kind, tt.token)
			}
			if len(parseErr.Expected) != 0 {
				t.Errorf("expected set = %v, want none", parseErr.Expected)
			}
			if !strings.Contains(err.Error(), "expression nested deeper than") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}

	// Exactly at the limit still parses: the outer expression plus
	// MaxNesting-1 groups.
	groups := strings.Repeat("(", MaxNesting-1) + "1" + strings.Repeat(")", MaxNesting-1)
	if got := sexpr(parseExpr(t, groups)); got != "1" {
		t.Errorf("groups at the limit = %s, want 1", got)
	}
}

func TestParseNestingLimitInFunction(t *testing.T) {
	body := strings.Repeat("(", MaxNesting) + "1" + strings.Repeat(")", MaxNesting)
	err := parseError(t, "fn f() -> void { x = "+body+"; }")
	if err.Limit != MaxNesting {
		t.Errorf("Limit = %d, want %d", err.Limit, MaxNesting)
	}
}

func TestNewParserAddsEOF(t *testing.T) {
	tokens, err := NewLexer("a + b").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	withoutEOF := tokens[:len(tokens)-1]

	expr, err := NewParser(withoutEOF).ParseExpr()
	if err != nil {
		t.Fatalf("ParseExpr failed: %v", err)
	}
	if got := sexpr(expr); got != "(+ a b)" {
		t.Errorf("got %s", got)
	}
}

func TestParseConsumesEOF(t *testing.T) {
	tokens, err := NewLexer("fn f() -> void {}").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	parser := NewParser(tokens)
	if _, err := parser.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parser.current != len(tokens) {
		t.Errorf("consumed %d of %d tokens", parser.current, len(tokens))
	}
}

func TestParseEmptyTokens(t *testing.T) {
	if _, err := NewParser(nil).Parse(); err == nil {
		t.Error("expected error for an empty token slice")
	}
}

func TestModuleAccessors(t *testing.T) {
	module := parseSource(t, "let a : vec2; fn f() -> void {} const b : vec3; fn g() -> void {}")
	if len(module.Decls) != 4 {
		t.Fatalf("Expected 4 decls, got %d", len(module.Decls))
	}
	if fns := module.Functions(); len(fns) != 2 || fns[0].Name.Lexeme != "f" || fns[1].Name.Lexeme != "g" {
		t.Errorf("Functions() = %v", fns)
	}
	if globals := module.Globals(); len(globals) != 2 || globals[0].Name.Lexeme != "a" || globals[1].Name.Lexeme != "b" {
		t.Errorf("Globals() = %v", globals)
	}
}
