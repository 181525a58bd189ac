package syntax

// Module represents a SLang compilation unit.
type Module struct {
	Decls []Decl // in source order
}

// Pos returns the span from the first to the last declaration.
func (m *Module) Pos() Span {
	if len(m.Decls) == 0 {
		return Span{}
	}
	return spanOf(m.Decls[0].Pos(), m.Decls[len(m.Decls)-1].Pos())
}

// Functions returns the function declarations in source order.
func (m *Module) Functions() []*FunctionDecl {
	var fns []*FunctionDecl
	for _, d := range m.Decls {
		if fn, ok := d.(*FunctionDecl); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Globals returns the module-scoped variable declarations in source order.
func (m *Module) Globals() []*VarDecl {
	var vars []*VarDecl
	for _, d := range m.Decls {
		if v, ok := d.(*VarDecl); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
}

// Decl is the interface for declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is the interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for expressions.
type Expr interface {
	Node
	exprNode()
}

// Stage is the pipeline stage a function is marked for.
type Stage uint8

const (
	StageNone Stage = iota
	StageVertex
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "none"
	}
}

// FunctionDecl represents a function declaration.
type FunctionDecl struct {
	Stage  Stage
	Entry  bool // marked with the entry attribute
	Name   Token
	Params []*Param
	Result *TypeRef
	Body   *BlockStmt
	Span   Span
}

func (f *FunctionDecl) Pos() Span { return f.Span }
func (f *FunctionDecl) declNode() {}

// Param represents a function parameter.
type Param struct {
	Name Token
	Type *TypeRef
	Span Span
}

// AttrKind identifies a variable attribute.
type AttrKind uint8

const (
	AttrIn AttrKind = iota
	AttrOut
	AttrLoc
)

func (k AttrKind) String() string {
	switch k {
	case AttrIn:
		return "in"
	case AttrOut:
		return "out"
	default:
		return "loc"
	}
}

// Attribute represents an attribute on a global variable (in, out, loc(N)).
type Attribute struct {
	Kind     AttrKind
	Location Token // NUM_LIT for loc, zero otherwise
	Span     Span
}

// VarDecl represents a variable binding, global or local.
type VarDecl struct {
	Attrs   []Attribute // globals only
	Binding Token       // let or const
	Name    Token
	Type    *TypeRef // nil when inferred from Init
	Init    Expr     // nil when absent
	Span    Span
}

func (v *VarDecl) Pos() Span { return v.Span }
func (v *VarDecl) declNode() {}
func (v *VarDecl) stmtNode() {}

// IsConst reports whether the binding was introduced with const.
func (v *VarDecl) IsConst() bool { return v.Binding.Kind == TokenConst }

// TypeRef represents a type: a base type with an optional fixed array length.
type TypeRef struct {
	Base Token
	Len  Token // NUM_LIT for arrays, zero otherwise
	Span Span
}

func (t *TypeRef) Pos() Span { return t.Span }

// IsArray reports whether the type has an array suffix.
func (t *TypeRef) IsArray() bool { return t.Len.Kind == TokenNumber }

// String returns the type as written, e.g. "vec2[4]".
func (t *TypeRef) String() string {
	if t.IsArray() {
		return t.Base.Lexeme + "[" + t.Len.Lexeme + "]"
	}
	return t.Base.Lexeme
}

// Statements

// BlockStmt represents a block statement.
type BlockStmt struct {
	Statements []Stmt
	Span       Span
}

func (b *BlockStmt) Pos() Span { return b.Span }
func (b *BlockStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr
	Span  Span
}

func (r *ReturnStmt) Pos() Span { return r.Span }
func (r *ReturnStmt) stmtNode() {}

// AssignStmt represents an assignment to a named variable.
type AssignStmt struct {
	Target *Ident
	Value  Expr
	Span   Span
}

func (a *AssignStmt) Pos() Span { return a.Span }
func (a *AssignStmt) stmtNode() {}

// Expressions

// Ident represents an identifier reference.
type Ident struct {
	Token Token
}

func (i *Ident) Pos() Span { return i.Token.Span }
func (i *Ident) exprNode() {}

// Name returns the identifier's spelling.
func (i *Ident) Name() string { return i.Token.Lexeme }

// IndexExpr represents an array lookup.
type IndexExpr struct {
	Array Expr
	Index Expr
	Span  Span
}

func (i *IndexExpr) Pos() Span { return i.Span }
func (i *IndexExpr) exprNode() {}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op      Token
	Operand Expr
	Span    Span
}

func (u *UnaryExpr) Pos() Span { return u.Span }
func (u *UnaryExpr) exprNode() {}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Op    Token
	Left  Expr
	Right Expr
	Span  Span
}

func (b *BinaryExpr) Pos() Span { return b.Span }
func (b *BinaryExpr) exprNode() {}

// NumberLit represents a numeric literal. The lexeme is kept verbatim.
type NumberLit struct {
	Token Token
}

func (l *NumberLit) Pos() Span { return l.Token.Span }
func (l *NumberLit) exprNode() {}

// BoolLit represents true or false.
type BoolLit struct {
	Token Token
	Value bool
}

func (l *BoolLit) Pos() Span { return l.Token.Span }
func (l *BoolLit) exprNode() {}

// ArrayLit represents a bracketed array literal.
type ArrayLit struct {
	Elems []Expr
	Span  Span
}

func (a *ArrayLit) Pos() Span { return a.Span }
func (a *ArrayLit) exprNode() {}

// CallExpr represents a function call or a type constructor. For type
// constructors the callee is the type name (vec2, vec3, vec4, void).
type CallExpr struct {
	Callee *Ident
	Args   []Expr
	Span   Span
}

func (c *CallExpr) Pos() Span { return c.Span }
func (c *CallExpr) exprNode() {}

// IsConstructor reports whether the callee is a type keyword.
func (c *CallExpr) IsConstructor() bool {
	switch c.Callee.Token.Kind {
	case TokenVec2, TokenVec3, TokenVec4, TokenVoid:
		return true
	}
	return false
}

func spanOf(start, end Span) Span {
	return Span{Start: start.Start, End: end.End}
}
