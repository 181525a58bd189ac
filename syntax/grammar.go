package syntax

import (
	"fmt"
	"slices"
	"strings"
)

// The grammar is declared once as data. FIRST, FOLLOW and the LL(1)
// prediction table are derived from it at package initialisation, so the
// parser's dispatch and the expected sets in its errors cannot drift apart.

type nonterminal uint8

const (
	ntSource nonterminal = iota
	ntProgram
	ntGlobalStmtList
	ntGlobalStmt
	ntFunction
	ntFunctionDef
	ntStageAttr
	ntEntryAttr
	ntParameters
	ntParamList
	ntParamListTail
	ntParam
	ntGlobalVarDecl
	ntAttrList
	ntAttr
	ntBinding
	ntOptInit
	ntCompoundStmt
	ntStmtList
	ntStmt
	ntLocalVarDecl
	ntLocalVarTail
	ntExprUnit
	ntExpr
	ntOrTail
	ntAndExpr
	ntAndTail
	ntCompExpr
	ntCompTail
	ntCompOp
	ntAddExpr
	ntAddTail
	ntAddOp
	ntMulExpr
	ntMulTail
	ntMulOp
	ntUnaryExpr
	ntUnaryOp
	ntBaseExpr
	ntTypeCtor
	ntIdExpr
	ntIdTail
	ntArrayLit
	ntCallArgs
	ntExprList
	ntExprListTail
	ntTypes
	ntOptArray
	ntBaseType

	nonterminalCount
)

var nonterminalNames = [nonterminalCount]string{
	ntSource:         "source",
	ntProgram:        "program",
	ntGlobalStmtList: "global_stmt_list",
	ntGlobalStmt:     "global_stmt",
	ntFunction:       "function",
	ntFunctionDef:    "function_def",
	ntStageAttr:      "stage_attr",
	ntEntryAttr:      "entry_attr",
	ntParameters:     "parameters",
	ntParamList:      "param_list",
	ntParamListTail:  "param_list_tail",
	ntParam:          "param",
	ntGlobalVarDecl:  "global_var_decl",
	ntAttrList:       "attr_list",
	ntAttr:           "attr",
	ntBinding:        "binding",
	ntOptInit:        "opt_init",
	ntCompoundStmt:   "compound_stmt",
	ntStmtList:       "stmt_list",
	ntStmt:           "stmt",
	ntLocalVarDecl:   "local_var_decl",
	ntLocalVarTail:   "local_var_tail",
	ntExprUnit:       "expr_unit",
	ntExpr:           "expr",
	ntOrTail:         "or_tail",
	ntAndExpr:        "and_expr",
	ntAndTail:        "and_tail",
	ntCompExpr:       "comp_expr",
	ntCompTail:       "comp_tail",
	ntCompOp:         "comp_op",
	ntAddExpr:        "add_expr",
	ntAddTail:        "add_tail",
	ntAddOp:          "add_op",
	ntMulExpr:        "mul_expr",
	ntMulTail:        "mul_tail",
	ntMulOp:          "mul_op",
	ntUnaryExpr:      "unary_expr",
	ntUnaryOp:        "unary_op",
	ntBaseExpr:       "base_expr",
	ntTypeCtor:       "type_ctor",
	ntIdExpr:         "id_expr",
	ntIdTail:         "id_tail",
	ntArrayLit:       "array_lit",
	ntCallArgs:       "call_args",
	ntExprList:       "expr_list",
	ntExprListTail:   "expr_list_tail",
	ntTypes:          "types",
	ntOptArray:       "opt_array",
	ntBaseType:       "base_type",
}

func (n nonterminal) String() string {
	if n < nonterminalCount {
		return nonterminalNames[n]
	}
	return fmt.Sprintf("nonterminal(%d)", uint8(n))
}

// production identifies the alternative the parser must follow. Several
// rules may share one production when the parser treats them alike, such as
// the alternatives of an operator nonterminal.
type production uint8

const (
	prodNone production = iota

	prodSource
	prodProgram
	prodGlobalMore
	prodGlobalEnd
	prodGlobalFunction
	prodGlobalVar
	prodFunction
	prodFunctionDef
	prodStage
	prodStageNone
	prodEntry
	prodEntryNone
	prodParameters
	prodParamsSome
	prodParamsNone
	prodParamMore
	prodParamEnd
	prodParam
	prodGlobalVarDecl
	prodAttrMore
	prodAttrEnd
	prodAttrFlag
	prodAttrLoc
	prodBinding
	prodInit
	prodInitNone
	prodCompound
	prodStmtMore
	prodStmtEnd
	prodStmtReturn
	prodStmtAssign
	prodStmtLocal
	prodLocalVarDecl
	prodLocalTyped
	prodLocalInferred
	prodExprUnit
	prodBinaryLevel
	prodBinaryTail
	prodBinaryEnd
	prodOperator
	prodUnaryPrefix
	prodUnaryBase
	prodBaseCtor
	prodBaseID
	prodBaseArray
	prodBaseNumber
	prodBaseTrue
	prodBaseFalse
	prodBaseGroup
	prodTypeCtor
	prodIDExpr
	prodIDIndex
	prodIDCall
	prodIDBare
	prodArrayLit
	prodCallArgs
	prodExprList
	prodExprListMore
	prodExprListEnd
	prodTypes
	prodArraySuffix
	prodArraySuffixNone
	prodBaseType
)

// symbol is a grammar symbol: a terminal token kind or a nonterminal.
type symbol struct {
	term TokenKind
	nt   nonterminal
	isNT bool
}

func term(k TokenKind) symbol { return symbol{term: k} }

func nonterm(x nonterminal) symbol { return symbol{nt: x, isNT: true} }

func seq(s ...symbol) []symbol { return s }

func (s symbol) String() string {
	if s.isNT {
		return s.nt.String()
	}
	return "'" + s.term.String() + "'"
}

type rule struct {
	prod production
	lhs  nonterminal
	rhs  []symbol // empty for ε
}

func (r rule) String() string {
	if len(r.rhs) == 0 {
		return r.lhs.String() + " → ε"
	}
	parts := make([]string, len(r.rhs))
	for i, s := range r.rhs {
		parts[i] = s.String()
	}
	return r.lhs.String() + " → " + strings.Join(parts, " ")
}

// alternatives builds one rule per terminal, all sharing prod.
func alternatives(prod production, lhs nonterminal, kinds ...TokenKind) []rule {
	rules := make([]rule, len(kinds))
	for i, k := range kinds {
		rules[i] = rule{prod, lhs, seq(term(k))}
	}
	return rules
}

var comparisonOperators = []TokenKind{
	TokenEqualEqual, TokenBangEqual, TokenLess, TokenLessEqual,
	TokenGreater, TokenGreaterEqual, TokenAmpersand, TokenPipe,
}

var rules = slices.Concat(
	[]rule{
		{prodSource, ntSource, seq(nonterm(ntProgram), term(TokenEOF))},
		{prodProgram, ntProgram, seq(nonterm(ntGlobalStmt), nonterm(ntGlobalStmtList))},
		{prodGlobalMore, ntGlobalStmtList, seq(nonterm(ntGlobalStmt), nonterm(ntGlobalStmtList))},
		{prodGlobalEnd, ntGlobalStmtList, nil},
		{prodGlobalFunction, ntGlobalStmt, seq(nonterm(ntFunction))},
		{prodGlobalVar, ntGlobalStmt, seq(nonterm(ntGlobalVarDecl))},

		// Functions
		{prodFunction, ntFunction, seq(nonterm(ntFunctionDef), nonterm(ntCompoundStmt))},
		{prodFunctionDef, ntFunctionDef, seq(
			nonterm(ntStageAttr), nonterm(ntEntryAttr), term(TokenFn), term(TokenIdent),
			nonterm(ntParameters), term(TokenArrow), nonterm(ntTypes),
		)},
		{prodStage, ntStageAttr, seq(term(TokenVertex))},
		{prodStage, ntStageAttr, seq(term(TokenFragment))},
		{prodStageNone, ntStageAttr, nil},
		{prodEntry, ntEntryAttr, seq(term(TokenEntry))},
		{prodEntryNone, ntEntryAttr, nil},
		{prodParameters, ntParameters, seq(term(TokenLeftParen), nonterm(ntParamList), term(TokenRightParen))},
		{prodParamsSome, ntParamList, seq(nonterm(ntParam), nonterm(ntParamListTail))},
		{prodParamsNone, ntParamList, nil},
		{prodParamMore, ntParamListTail, seq(term(TokenComma), nonterm(ntParam), nonterm(ntParamListTail))},
		{prodParamEnd, ntParamListTail, nil},
		{prodParam, ntParam, seq(term(TokenIdent), term(TokenColon), nonterm(ntTypes))},

		// Global declarations
		{prodGlobalVarDecl, ntGlobalVarDecl, seq(
			nonterm(ntAttrList), nonterm(ntBinding), term(TokenIdent), term(TokenColon),
			nonterm(ntTypes), nonterm(ntOptInit), term(TokenSemicolon),
		)},
		{prodAttrMore, ntAttrList, seq(nonterm(ntAttr), nonterm(ntAttrList))},
		{prodAttrEnd, ntAttrList, nil},
		{prodAttrFlag, ntAttr, seq(term(TokenIn))},
		{prodAttrFlag, ntAttr, seq(term(TokenOut))},
		{prodAttrLoc, ntAttr, seq(term(TokenLoc), term(TokenLeftParen), term(TokenNumber), term(TokenRightParen))},
		{prodBinding, ntBinding, seq(term(TokenLet))},
		{prodBinding, ntBinding, seq(term(TokenConst))},
		{prodInit, ntOptInit, seq(term(TokenEqual), nonterm(ntExpr))},
		{prodInitNone, ntOptInit, nil},

		// Statements
		{prodCompound, ntCompoundStmt, seq(term(TokenLeftBrace), nonterm(ntStmtList), term(TokenRightBrace))},
		{prodStmtMore, ntStmtList, seq(nonterm(ntStmt), nonterm(ntStmtList))},
		{prodStmtEnd, ntStmtList, nil},
		{prodStmtReturn, ntStmt, seq(term(TokenReturn), nonterm(ntExpr), term(TokenSemicolon))},
		{prodStmtAssign, ntStmt, seq(term(TokenIdent), term(TokenEqual), nonterm(ntExpr), term(TokenSemicolon))},
		{prodStmtLocal, ntStmt, seq(nonterm(ntLocalVarDecl), term(TokenSemicolon))},
		{prodLocalVarDecl, ntLocalVarDecl, seq(nonterm(ntBinding), term(TokenIdent), nonterm(ntLocalVarTail))},
		{prodLocalTyped, ntLocalVarTail, seq(term(TokenColon), nonterm(ntTypes), nonterm(ntOptInit))},
		{prodLocalInferred, ntLocalVarTail, seq(term(TokenEqual), nonterm(ntExpr))},

		// Expressions, lowest binding power first. Each tail recurses into
		// its own level, so runs of one operator nest to the right.
		{prodExprUnit, ntExprUnit, seq(nonterm(ntExpr), term(TokenEOF))},
		{prodBinaryLevel, ntExpr, seq(nonterm(ntAndExpr), nonterm(ntOrTail))},
		{prodBinaryTail, ntOrTail, seq(term(TokenOr), nonterm(ntExpr))},
		{prodBinaryEnd, ntOrTail, nil},
		{prodBinaryLevel, ntAndExpr, seq(nonterm(ntCompExpr), nonterm(ntAndTail))},
		{prodBinaryTail, ntAndTail, seq(term(TokenAnd), nonterm(ntAndExpr))},
		{prodBinaryEnd, ntAndTail, nil},
		{prodBinaryLevel, ntCompExpr, seq(nonterm(ntAddExpr), nonterm(ntCompTail))},
		{prodBinaryTail, ntCompTail, seq(nonterm(ntCompOp), nonterm(ntCompExpr))},
		{prodBinaryEnd, ntCompTail, nil},
		{prodBinaryLevel, ntAddExpr, seq(nonterm(ntMulExpr), nonterm(ntAddTail))},
		{prodBinaryTail, ntAddTail, seq(nonterm(ntAddOp), nonterm(ntAddExpr))},
		{prodBinaryEnd, ntAddTail, nil},
		{prodBinaryLevel, ntMulExpr, seq(nonterm(ntUnaryExpr), nonterm(ntMulTail))},
		{prodBinaryTail, ntMulTail, seq(nonterm(ntMulOp), nonterm(ntMulExpr))},
		{prodBinaryEnd, ntMulTail, nil},
		{prodUnaryPrefix, ntUnaryExpr, seq(nonterm(ntUnaryOp), nonterm(ntUnaryExpr))},
		{prodUnaryBase, ntUnaryExpr, seq(nonterm(ntBaseExpr))},

		// Primaries
		{prodBaseCtor, ntBaseExpr, seq(nonterm(ntTypeCtor))},
		{prodBaseID, ntBaseExpr, seq(nonterm(ntIdExpr))},
		{prodBaseArray, ntBaseExpr, seq(nonterm(ntArrayLit))},
		{prodBaseNumber, ntBaseExpr, seq(term(TokenNumber))},
		{prodBaseTrue, ntBaseExpr, seq(term(TokenTrue))},
		{prodBaseFalse, ntBaseExpr, seq(term(TokenFalse))},
		{prodBaseGroup, ntBaseExpr, seq(term(TokenLeftParen), nonterm(ntExpr), term(TokenRightParen))},
		{prodTypeCtor, ntTypeCtor, seq(nonterm(ntBaseType), nonterm(ntCallArgs))},
		{prodIDExpr, ntIdExpr, seq(term(TokenIdent), nonterm(ntIdTail))},
		{prodIDIndex, ntIdTail, seq(term(TokenLeftBracket), nonterm(ntExpr), term(TokenRightBracket))},
		{prodIDCall, ntIdTail, seq(nonterm(ntCallArgs))},
		{prodIDBare, ntIdTail, nil},
		{prodArrayLit, ntArrayLit, seq(term(TokenLeftBracket), nonterm(ntExprList), term(TokenRightBracket))},
		{prodCallArgs, ntCallArgs, seq(term(TokenLeftParen), nonterm(ntExprList), term(TokenRightParen))},
		{prodExprList, ntExprList, seq(nonterm(ntExpr), nonterm(ntExprListTail))},
		{prodExprListMore, ntExprListTail, seq(term(TokenComma), nonterm(ntExpr), nonterm(ntExprListTail))},
		{prodExprListEnd, ntExprListTail, nil},

		// Types
		{prodTypes, ntTypes, seq(nonterm(ntBaseType), nonterm(ntOptArray))},
		{prodArraySuffix, ntOptArray, seq(term(TokenLeftBracket), term(TokenNumber), term(TokenRightBracket))},
		{prodArraySuffixNone, ntOptArray, nil},
	},
	alternatives(prodOperator, ntCompOp, comparisonOperators...),
	alternatives(prodOperator, ntAddOp, TokenPlus, TokenMinus),
	alternatives(prodOperator, ntMulOp, TokenStar, TokenSlash, TokenPercent),
	alternatives(prodOperator, ntUnaryOp, TokenMinus, TokenNot),
	alternatives(prodBaseType, ntBaseType, TokenVoid, TokenVec2, TokenVec3, TokenVec4),
)

// kindSet is a set of token kinds.
type kindSet uint64

// Every token kind must fit in a kindSet.
const _ uint64 = 1 << (tokenKindCount - 1)

func (s kindSet) has(k TokenKind) bool { return s&(1<<k) != 0 }

func (s *kindSet) add(k TokenKind) { *s |= 1 << k }

// union adds o to s and reports whether s grew.
func (s *kindSet) union(o kindSet) bool {
	old := *s
	*s |= o
	return *s != old
}

// kinds returns the members sorted by spelling.
func (s kindSet) kinds() []TokenKind {
	var out []TokenKind
	for k := TokenKind(0); k < tokenKindCount; k++ {
		if s.has(k) {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(a, b TokenKind) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}

// grammar is the analysed form of rules for one start symbol.
type grammar struct {
	start     nonterminal
	reachable [nonterminalCount]bool
	nullable  [nonterminalCount]bool
	first     [nonterminalCount]kindSet
	follow    [nonterminalCount]kindSet
	predict   [nonterminalCount][tokenKindCount]production
	expected  [nonterminalCount][]TokenKind
}

var (
	sourceGrammar = newGrammar(ntSource, rules)
	exprGrammar   = newGrammar(ntExprUnit, rules)
)

// newGrammar is like analyse but panics on a conflict.
func newGrammar(start nonterminal, rules []rule) *grammar {
	g, err := analyse(start, rules)
	if err != nil {
		panic(err)
	}
	return g
}

// analyse computes the sets and the prediction table for the rules
// reachable from start. It fails if two rules predict on the same token,
// i.e. if the grammar is not LL(1).
func analyse(start nonterminal, rules []rule) (*grammar, error) {
	g := &grammar{start: start}
	g.markReachable(start, rules)
	g.computeFirst(rules)
	g.computeFollow(rules)
	if err := g.buildTable(rules); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *grammar) markReachable(start nonterminal, rules []rule) {
	stack := []nonterminal{start}
	g.reachable[start] = true
	for len(stack) > 0 {
		nt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range rules {
			if r.lhs != nt {
				continue
			}
			for _, s := range r.rhs {
				if s.isNT && !g.reachable[s.nt] {
					g.reachable[s.nt] = true
					stack = append(stack, s.nt)
				}
			}
		}
	}
}

// firstOf returns FIRST of a symbol sequence and whether it derives ε.
func (g *grammar) firstOf(syms []symbol) (kindSet, bool) {
	var set kindSet
	for _, s := range syms {
		if !s.isNT {
			set.add(s.term)
			return set, false
		}
		set.union(g.first[s.nt])
		if !g.nullable[s.nt] {
			return set, false
		}
	}
	return set, true
}

func (g *grammar) computeFirst(rules []rule) {
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			if !g.reachable[r.lhs] {
				continue
			}
			set, nullable := g.firstOf(r.rhs)
			if g.first[r.lhs].union(set) {
				changed = true
			}
			if nullable && !g.nullable[r.lhs] {
				g.nullable[r.lhs] = true
				changed = true
			}
		}
	}
}

func (g *grammar) computeFollow(rules []rule) {
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			if !g.reachable[r.lhs] {
				continue
			}
			for i, s := range r.rhs {
				if !s.isNT {
					continue
				}
				rest, nullable := g.firstOf(r.rhs[i+1:])
				if g.follow[s.nt].union(rest) {
					changed = true
				}
				if nullable && g.follow[s.nt].union(g.follow[r.lhs]) {
					changed = true
				}
			}
		}
	}
}

func (g *grammar) buildTable(rules []rule) error {
	var owner [nonterminalCount][tokenKindCount]int
	for i, r := range rules {
		if !g.reachable[r.lhs] {
			continue
		}
		set, nullable := g.firstOf(r.rhs)
		if nullable {
			set.union(g.follow[r.lhs])
		}
		for k := TokenKind(0); k < tokenKindCount; k++ {
			if !set.has(k) {
				continue
			}
			if prev := owner[r.lhs][k]; prev != 0 {
				return fmt.Errorf("syntax: grammar is not LL(1): %s on '%s' predicts both %s and %s",
					r.lhs, k, rules[prev-1], r)
			}
			owner[r.lhs][k] = i + 1
			g.predict[r.lhs][k] = r.prod
		}
	}

	for nt := nonterminal(0); nt < nonterminalCount; nt++ {
		if !g.reachable[nt] {
			continue
		}
		var set kindSet
		for k := TokenKind(0); k < tokenKindCount; k++ {
			if g.predict[nt][k] != prodNone {
				set.add(k)
			}
		}
		g.expected[nt] = set.kinds()
	}
	return nil
}

// Terminals returns every token kind the grammar can match, sorted by
// spelling. The lexer must be able to produce each of them.
func Terminals() []TokenKind {
	var set kindSet
	for _, r := range rules {
		for _, s := range r.rhs {
			if !s.isNT {
				set.add(s.term)
			}
		}
	}
	return set.kinds()
}
