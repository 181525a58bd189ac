package syntax

// MaxNesting bounds how deeply expressions may nest through groups,
// arguments, indexes, array literals, unary operators and operator chains.
// Deeper input fails with a *ParseError instead of exhausting the stack.
const MaxNesting = 20000

// Parser parses SLang tokens into an AST.
//
// The parser is predictive: every nonterminal looks up the current token's
// kind in the prediction table and either follows the production found
// there or fails with the nonterminal's complete expected set. There is no
// backtracking and no recovery; the first mismatch ends the parse.
type Parser struct {
	tokens  []Token
	current int
	depth   int
	grammar *grammar
}

// NewParser creates a new parser for the given tokens. A missing trailing
// EOF token is supplied.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		var end Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Span.End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{
			Kind: TokenEOF,
			Span: Span{Start: end, End: end},
		})
	}
	return &Parser{
		tokens:  tokens,
		current: 0,
	}
}

// Parse parses the tokens as a complete program and returns a Module AST.
// The returned error is always a *ParseError.
func (p *Parser) Parse() (*Module, error) {
	p.grammar = sourceGrammar

	if _, err := p.predict(ntSource); err != nil {
		return nil, err
	}
	module, err := p.program()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}
	return module, nil
}

// ParseExpr parses the tokens as a single expression.
// The returned error is always a *ParseError.
func (p *Parser) ParseExpr() (Expr, error) {
	p.grammar = exprGrammar

	if _, err := p.predict(ntExprUnit); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// program parses one or more global statements.
func (p *Parser) program() (*Module, *ParseError) {
	if _, err := p.predict(ntProgram); err != nil {
		return nil, err
	}

	module := &Module{}
	decl, err := p.globalStmt()
	if err != nil {
		return nil, err
	}
	module.Decls = append(module.Decls, decl)

	for {
		prod, err := p.predict(ntGlobalStmtList)
		if err != nil {
			return nil, err
		}
		if prod == prodGlobalEnd {
			return module, nil
		}
		decl, err := p.globalStmt()
		if err != nil {
			return nil, err
		}
		module.Decls = append(module.Decls, decl)
	}
}

// globalStmt parses a function or a module-scoped variable.
func (p *Parser) globalStmt() (Decl, *ParseError) {
	prod, err := p.predict(ntGlobalStmt)
	if err != nil {
		return nil, err
	}
	if prod == prodGlobalFunction {
		return p.function()
	}
	return p.globalVarDecl()
}

// function parses a function header and its body.
func (p *Parser) function() (*FunctionDecl, *ParseError) {
	if _, err := p.predict(ntFunction); err != nil {
		return nil, err
	}
	fn, err := p.functionDef()
	if err != nil {
		return nil, err
	}
	body, err := p.compoundStmt()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	fn.Span = spanOf(fn.Span, body.Span)
	return fn, nil
}

// functionDef parses [vertex|fragment] [entry] fn ID (params) -> type.
func (p *Parser) functionDef() (*FunctionDecl, *ParseError) {
	if _, err := p.predict(ntFunctionDef); err != nil {
		return nil, err
	}
	start := p.peek()
	fn := &FunctionDecl{}

	prod, err := p.predict(ntStageAttr)
	if err != nil {
		return nil, err
	}
	if prod == prodStage {
		if p.advance().Kind == TokenVertex {
			fn.Stage = StageVertex
		} else {
			fn.Stage = StageFragment
		}
	}

	prod, err = p.predict(ntEntryAttr)
	if err != nil {
		return nil, err
	}
	if prod == prodEntry {
		p.advance()
		fn.Entry = true
	}

	if _, err := p.expect(TokenFn); err != nil {
		return nil, err
	}
	if fn.Name, err = p.expect(TokenIdent); err != nil {
		return nil, err
	}
	if fn.Params, err = p.parameters(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}
	if fn.Result, err = p.types(); err != nil {
		return nil, err
	}

	fn.Span = spanOf(start.Span, fn.Result.Span)
	return fn, nil
}

// parameters parses a parenthesized, possibly empty parameter list.
func (p *Parser) parameters() ([]*Param, *ParseError) {
	if _, err := p.predict(ntParameters); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	params := make([]*Param, 0, 4) // most functions have few params
	prod, err := p.predict(ntParamList)
	if err != nil {
		return nil, err
	}
	if prod == prodParamsSome {
		for {
			param, err := p.param()
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			prod, err := p.predict(ntParamListTail)
			if err != nil {
				return nil, err
			}
			if prod == prodParamEnd {
				break
			}
			p.advance() // ,
		}
	}

	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return params, nil
}

// param parses ID ':' type.
func (p *Parser) param() (*Param, *ParseError) {
	if _, err := p.predict(ntParam); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	typ, err := p.types()
	if err != nil {
		return nil, err
	}
	return &Param{
		Name: name,
		Type: typ,
		Span: spanOf(name.Span, typ.Span),
	}, nil
}

// globalVarDecl parses attrs* binding ID ':' type ('=' expr)? ';'.
func (p *Parser) globalVarDecl() (*VarDecl, *ParseError) {
	if _, err := p.predict(ntGlobalVarDecl); err != nil {
		return nil, err
	}
	start := p.peek()
	decl := &VarDecl{}

	for {
		prod, err := p.predict(ntAttrList)
		if err != nil {
			return nil, err
		}
		if prod == prodAttrEnd {
			break
		}
		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}
		decl.Attrs = append(decl.Attrs, attr)
	}

	var err *ParseError
	if decl.Binding, err = p.binding(); err != nil {
		return nil, err
	}
	if decl.Name, err = p.expect(TokenIdent); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	if decl.Type, err = p.types(); err != nil {
		return nil, err
	}
	if decl.Init, err = p.optInit(); err != nil {
		return nil, err
	}
	semi, err := p.expect(TokenSemicolon)
	if err != nil {
		return nil, err
	}

	decl.Span = spanOf(start.Span, semi.Span)
	return decl, nil
}

// attribute parses in, out or loc(NUM_LIT).
func (p *Parser) attribute() (Attribute, *ParseError) {
	prod, err := p.predict(ntAttr)
	if err != nil {
		return Attribute{}, err
	}

	tok := p.advance()
	if prod == prodAttrFlag {
		kind := AttrIn
		if tok.Kind == TokenOut {
			kind = AttrOut
		}
		return Attribute{Kind: kind, Span: tok.Span}, nil
	}

	if _, err := p.expect(TokenLeftParen); err != nil {
		return Attribute{}, err
	}
	loc, err := p.expect(TokenNumber)
	if err != nil {
		return Attribute{}, err
	}
	rparen, err := p.expect(TokenRightParen)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{
		Kind:     AttrLoc,
		Location: loc,
		Span:     spanOf(tok.Span, rparen.Span),
	}, nil
}

// binding parses let or const.
func (p *Parser) binding() (Token, *ParseError) {
	if _, err := p.predict(ntBinding); err != nil {
		return Token{}, err
	}
	return p.advance(), nil
}

// optInit parses an optional '=' expr.
func (p *Parser) optInit() (Expr, *ParseError) {
	prod, err := p.predict(ntOptInit)
	if err != nil {
		return nil, err
	}
	if prod == prodInitNone {
		return nil, nil
	}
	p.advance() // =
	return p.expression()
}

// compoundStmt parses '{' stmt* '}'.
func (p *Parser) compoundStmt() (*BlockStmt, *ParseError) {
	if _, err := p.predict(ntCompoundStmt); err != nil {
		return nil, err
	}
	lbrace, err := p.expect(TokenLeftBrace)
	if err != nil {
		return nil, err
	}

	block := &BlockStmt{}
	for {
		prod, err := p.predict(ntStmtList)
		if err != nil {
			return nil, err
		}
		if prod == prodStmtEnd {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	rbrace, err := p.expect(TokenRightBrace)
	if err != nil {
		return nil, err
	}
	block.Span = spanOf(lbrace.Span, rbrace.Span)
	return block, nil
}

// statement parses a return, an assignment or a local declaration.
func (p *Parser) statement() (Stmt, *ParseError) {
	prod, err := p.predict(ntStmt)
	if err != nil {
		return nil, err
	}

	switch prod {
	case prodStmtReturn:
		kw := p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(TokenSemicolon)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: value, Span: spanOf(kw.Span, semi.Span)}, nil

	case prodStmtAssign:
		target := &Ident{Token: p.advance()}
		if _, err := p.expect(TokenEqual); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(TokenSemicolon)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: target, Value: value, Span: spanOf(target.Pos(), semi.Span)}, nil

	default:
		decl, err := p.localVarDecl()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(TokenSemicolon)
		if err != nil {
			return nil, err
		}
		decl.Span = spanOf(decl.Span, semi.Span)
		return decl, nil
	}
}

// localVarDecl parses binding ID (':' type ('=' expr)? | '=' expr).
func (p *Parser) localVarDecl() (*VarDecl, *ParseError) {
	if _, err := p.predict(ntLocalVarDecl); err != nil {
		return nil, err
	}

	decl := &VarDecl{}
	var err *ParseError
	if decl.Binding, err = p.binding(); err != nil {
		return nil, err
	}
	if decl.Name, err = p.expect(TokenIdent); err != nil {
		return nil, err
	}

	prod, err := p.predict(ntLocalVarTail)
	if err != nil {
		return nil, err
	}
	end := decl.Name.Span
	if prod == prodLocalTyped {
		p.advance() // :
		if decl.Type, err = p.types(); err != nil {
			return nil, err
		}
		end = decl.Type.Span
		if decl.Init, err = p.optInit(); err != nil {
			return nil, err
		}
	} else {
		p.advance() // =
		if decl.Init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if decl.Init != nil {
		end = decl.Init.Pos()
	}

	decl.Span = spanOf(decl.Binding.Span, end)
	return decl, nil
}

// Expressions

// binaryLevel describes one precedence level: the level's nonterminal, its
// optional operator tail and the operator the tail starts with.
type binaryLevel struct {
	expr nonterminal
	tail nonterminal
	op   symbol
}

// binaryLevels lists the binary levels from lowest to highest binding power.
var binaryLevels = []binaryLevel{
	{ntExpr, ntOrTail, term(TokenOr)},
	{ntAndExpr, ntAndTail, term(TokenAnd)},
	{ntCompExpr, ntCompTail, nonterm(ntCompOp)},
	{ntAddExpr, ntAddTail, nonterm(ntAddOp)},
	{ntMulExpr, ntMulTail, nonterm(ntMulOp)},
}

// expression parses an expression.
func (p *Parser) expression() (Expr, *ParseError) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()
	return p.binary(0)
}

// binary parses one operand of the next level, then optionally an operator
// of this level followed by this same level again. The recursion makes
// a - b - c parse as a - (b - c).
func (p *Parser) binary(level int) (Expr, *ParseError) {
	lv := binaryLevels[level]
	if _, err := p.predict(lv.expr); err != nil {
		return nil, err
	}

	left, err := p.operand(level + 1)
	if err != nil {
		return nil, err
	}

	prod, err := p.predict(lv.tail)
	if err != nil {
		return nil, err
	}
	if prod == prodBinaryEnd {
		return left, nil
	}

	op, err := p.operator(lv.op)
	if err != nil {
		return nil, err
	}
	if err := p.nest(); err != nil {
		return nil, err
	}
	right, err := p.binary(level)
	p.unnest()
	if err != nil {
		return nil, err
	}

	return &BinaryExpr{
		Op:    op,
		Left:  left,
		Right: right,
		Span:  spanOf(left.Pos(), right.Pos()),
	}, nil
}

func (p *Parser) operand(level int) (Expr, *ParseError) {
	if level < len(binaryLevels) {
		return p.binary(level)
	}
	return p.unary()
}

// operator consumes a terminal operator or one alternative of an operator
// nonterminal.
func (p *Parser) operator(op symbol) (Token, *ParseError) {
	if !op.isNT {
		return p.expect(op.term)
	}
	if _, err := p.predict(op.nt); err != nil {
		return Token{}, err
	}
	return p.advance(), nil
}

// unary parses (- | not)* base_expr.
func (p *Parser) unary() (Expr, *ParseError) {
	prod, err := p.predict(ntUnaryExpr)
	if err != nil {
		return nil, err
	}
	if prod == prodUnaryBase {
		return p.primary()
	}

	op, err := p.operator(nonterm(ntUnaryOp))
	if err != nil {
		return nil, err
	}
	if err := p.nest(); err != nil {
		return nil, err
	}
	operand, err := p.unary()
	p.unnest()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{
		Op:      op,
		Operand: operand,
		Span:    spanOf(op.Span, operand.Pos()),
	}, nil
}

// primary parses base_expr.
func (p *Parser) primary() (Expr, *ParseError) {
	prod, err := p.predict(ntBaseExpr)
	if err != nil {
		return nil, err
	}

	switch prod {
	case prodBaseCtor:
		return p.typeConstructor()
	case prodBaseID:
		return p.identExpr()
	case prodBaseArray:
		return p.arrayLiteral()
	case prodBaseNumber:
		return &NumberLit{Token: p.advance()}, nil
	case prodBaseTrue:
		return &BoolLit{Token: p.advance(), Value: true}, nil
	case prodBaseFalse:
		return &BoolLit{Token: p.advance(), Value: false}, nil
	default:
		p.advance() // (
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return expr, nil
	}
}

// typeConstructor parses vec2(...) and friends as calls on the type name.
func (p *Parser) typeConstructor() (Expr, *ParseError) {
	if _, err := p.predict(ntTypeCtor); err != nil {
		return nil, err
	}
	name, err := p.baseType()
	if err != nil {
		return nil, err
	}
	args, rparen, err := p.callArgs()
	if err != nil {
		return nil, err
	}
	return &CallExpr{
		Callee: &Ident{Token: name},
		Args:   args,
		Span:   spanOf(name.Span, rparen.Span),
	}, nil
}

// identExpr parses an identifier with at most one index or call tail.
func (p *Parser) identExpr() (Expr, *ParseError) {
	if _, err := p.predict(ntIdExpr); err != nil {
		return nil, err
	}
	id := &Ident{Token: p.advance()}

	prod, err := p.predict(ntIdTail)
	if err != nil {
		return nil, err
	}

	switch prod {
	case prodIDIndex:
		p.advance() // [
		index, err := p.expression()
		if err != nil {
			return nil, err
		}
		rbracket, err := p.expect(TokenRightBracket)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{
			Array: id,
			Index: index,
			Span:  spanOf(id.Pos(), rbracket.Span),
		}, nil

	case prodIDCall:
		args, rparen, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		return &CallExpr{
			Callee: id,
			Args:   args,
			Span:   spanOf(id.Pos(), rparen.Span),
		}, nil

	default:
		return id, nil
	}
}

// arrayLiteral parses '[' expr (',' expr)* ']'.
func (p *Parser) arrayLiteral() (Expr, *ParseError) {
	if _, err := p.predict(ntArrayLit); err != nil {
		return nil, err
	}
	lbracket := p.advance()
	elems, err := p.exprList()
	if err != nil {
		return nil, err
	}
	rbracket, err := p.expect(TokenRightBracket)
	if err != nil {
		return nil, err
	}
	return &ArrayLit{Elems: elems, Span: spanOf(lbracket.Span, rbracket.Span)}, nil
}

// callArgs parses a parenthesized, non-empty argument list and returns the
// closing parenthesis for span computation.
func (p *Parser) callArgs() ([]Expr, Token, *ParseError) {
	if _, err := p.predict(ntCallArgs); err != nil {
		return nil, Token{}, err
	}
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, Token{}, err
	}
	args, err := p.exprList()
	if err != nil {
		return nil, Token{}, err
	}

	rparen, err := p.expect(TokenRightParen)
	if err != nil {
		return nil, Token{}, err
	}
	return args, rparen, nil
}

// exprList parses expr (',' expr)*.
func (p *Parser) exprList() ([]Expr, *ParseError) {
	if _, err := p.predict(ntExprList); err != nil {
		return nil, err
	}

	exprs := make([]Expr, 0, 4)
	for {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		prod, err := p.predict(ntExprListTail)
		if err != nil {
			return nil, err
		}
		if prod == prodExprListEnd {
			return exprs, nil
		}
		p.advance() // ,
	}
}

// Types

// types parses base_type ('[' NUM_LIT ']')?.
func (p *Parser) types() (*TypeRef, *ParseError) {
	if _, err := p.predict(ntTypes); err != nil {
		return nil, err
	}
	base, err := p.baseType()
	if err != nil {
		return nil, err
	}
	typ := &TypeRef{Base: base, Span: base.Span}

	prod, err := p.predict(ntOptArray)
	if err != nil {
		return nil, err
	}
	if prod == prodArraySuffix {
		p.advance() // [
		if typ.Len, err = p.expect(TokenNumber); err != nil {
			return nil, err
		}
		rbracket, err := p.expect(TokenRightBracket)
		if err != nil {
			return nil, err
		}
		typ.Span = spanOf(base.Span, rbracket.Span)
	}
	return typ, nil
}

// baseType parses void, vec2, vec3 or vec4.
func (p *Parser) baseType() (Token, *ParseError) {
	if _, err := p.predict(ntBaseType); err != nil {
		return Token{}, err
	}
	return p.advance(), nil
}

// Helper methods

// predict returns the production nt must follow for the current token, or
// an error listing every kind nt accepts.
func (p *Parser) predict(nt nonterminal) (production, *ParseError) {
	tok := p.peek()
	if prod := p.grammar.predict[nt][tok.Kind]; prod != prodNone {
		return prod, nil
	}
	return prodNone, &ParseError{
		Token:    tok,
		Expected: append([]TokenKind(nil), p.grammar.expected[nt]...),
	}
}

// nest enters one more level of expression nesting.
func (p *Parser) nest() *ParseError {
	if p.depth >= MaxNesting {
		return &ParseError{Token: p.peek(), Limit: MaxNesting}
	}
	p.depth++
	return nil
}

func (p *Parser) unnest() { p.depth-- }

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

// expect consumes a token of the given kind or fails naming only that kind.
func (p *Parser) expect(kind TokenKind) (Token, *ParseError) {
	if tok := p.peek(); tok.Kind == kind {
		return p.advance(), nil
	}
	return Token{}, &ParseError{
		Token:    p.peek(),
		Expected: []TokenKind{kind},
	}
}
