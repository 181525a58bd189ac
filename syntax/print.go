package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w, one node per
// line, children indented below their parent. Each line ends with the
// node's start position.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// nested prints label and then the nodes one level deeper.
func (p *printer) nested(label string, nodes ...Node) {
	p.printf("%s:\n", label)
	p.indent++
	for _, n := range nodes {
		p.print(n)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Module:
		p.printf("Module\n")
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *FunctionDecl:
		p.printf("FunctionDecl %s %s\n", n.Name.Lexeme, n.Span)
		p.indent++
		if n.Stage != StageNone {
			p.printf("Stage: %s\n", n.Stage)
		}
		if n.Entry {
			p.printf("Entry: true\n")
		}
		if len(n.Params) > 0 {
			p.printf("Params:\n")
			p.indent++
			for _, param := range n.Params {
				p.printf("%s %s\n", param.Name.Lexeme, param.Type)
			}
			p.indent--
		}
		p.printf("Result: %s\n", n.Result)
		if n.Body != nil {
			p.nested("Body", n.Body)
		}
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s %s\n", n.Name.Lexeme, n.Span)
		p.indent++
		p.printf("Binding: %s\n", n.Binding.Kind)
		if len(n.Attrs) > 0 {
			attrs := make([]string, len(n.Attrs))
			for i, a := range n.Attrs {
				attrs[i] = attrString(a)
			}
			p.printf("Attrs: %s\n", strings.Join(attrs, " "))
		}
		if n.Type != nil {
			p.printf("Type: %s\n", n.Type)
		}
		if n.Init != nil {
			p.nested("Init", n.Init)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.Span)
		p.indent++
		for _, s := range n.Statements {
			p.print(s)
		}
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.Span)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s %s\n", n.Target.Name(), n.Span)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *Ident:
		p.printf("Ident %s %s\n", n.Name(), n.Pos())

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.Span)
		p.indent++
		p.print(n.Array)
		p.print(n.Index)
		p.indent--

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", n.Op.Lexeme, n.Span)
		p.indent++
		p.print(n.Operand)
		p.indent--

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", n.Op.Lexeme, n.Span)
		p.indent++
		p.print(n.Left)
		p.print(n.Right)
		p.indent--

	case *NumberLit:
		p.printf("NumberLit %s %s\n", n.Token.Lexeme, n.Pos())

	case *BoolLit:
		p.printf("BoolLit %t %s\n", n.Value, n.Pos())

	case *ArrayLit:
		p.printf("ArrayLit %s\n", n.Span)
		p.indent++
		for _, e := range n.Elems {
			p.print(e)
		}
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.Callee.Name(), n.Span)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	default:
		p.printf("%T %s\n", n, n.Pos())
	}
}

func attrString(a Attribute) string {
	if a.Kind == AttrLoc {
		return "loc(" + a.Location.Lexeme + ")"
	}
	return a.Kind.String()
}
