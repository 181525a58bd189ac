package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToMap(node))
}

// ToMap converts an AST node into nested maps and slices of plain values,
// suitable for any generic encoder. Every map has a "node" key naming the
// node type and a "span" key of the form "line:col-line:col".
func ToMap(node Node) any {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Module:
		return map[string]any{
			"node":  "Module",
			"span":  spanString(n.Pos()),
			"decls": mapNodes(n.Decls),
		}

	case *FunctionDecl:
		m := map[string]any{
			"node":   "FunctionDecl",
			"span":   spanString(n.Span),
			"name":   n.Name.Lexeme,
			"stage":  n.Stage.String(),
			"entry":  n.Entry,
			"result": n.Result.String(),
		}
		params := make([]any, len(n.Params))
		for i, param := range n.Params {
			params[i] = map[string]any{
				"name": param.Name.Lexeme,
				"type": param.Type.String(),
				"span": spanString(param.Span),
			}
		}
		m["params"] = params
		if n.Body != nil {
			m["body"] = ToMap(n.Body)
		}
		return m

	case *VarDecl:
		m := map[string]any{
			"node":    "VarDecl",
			"span":    spanString(n.Span),
			"name":    n.Name.Lexeme,
			"binding": n.Binding.Kind.String(),
		}
		if len(n.Attrs) > 0 {
			attrs := make([]any, len(n.Attrs))
			for i, a := range n.Attrs {
				attrs[i] = attrString(a)
			}
			m["attrs"] = attrs
		}
		if n.Type != nil {
			m["type"] = n.Type.String()
		}
		if n.Init != nil {
			m["init"] = ToMap(n.Init)
		}
		return m

	case *BlockStmt:
		return map[string]any{
			"node":  "BlockStmt",
			"span":  spanString(n.Span),
			"stmts": mapNodes(n.Statements),
		}

	case *ReturnStmt:
		return map[string]any{
			"node":  "ReturnStmt",
			"span":  spanString(n.Span),
			"value": ToMap(n.Value),
		}

	case *AssignStmt:
		return map[string]any{
			"node":   "AssignStmt",
			"span":   spanString(n.Span),
			"target": n.Target.Name(),
			"value":  ToMap(n.Value),
		}

	case *Ident:
		return map[string]any{
			"node": "Ident",
			"span": spanString(n.Pos()),
			"name": n.Name(),
		}

	case *IndexExpr:
		return map[string]any{
			"node":  "IndexExpr",
			"span":  spanString(n.Span),
			"array": ToMap(n.Array),
			"index": ToMap(n.Index),
		}

	case *UnaryExpr:
		return map[string]any{
			"node":    "UnaryExpr",
			"span":    spanString(n.Span),
			"op":      n.Op.Lexeme,
			"operand": ToMap(n.Operand),
		}

	case *BinaryExpr:
		return map[string]any{
			"node":  "BinaryExpr",
			"span":  spanString(n.Span),
			"op":    n.Op.Lexeme,
			"left":  ToMap(n.Left),
			"right": ToMap(n.Right),
		}

	case *NumberLit:
		return map[string]any{
			"node":  "NumberLit",
			"span":  spanString(n.Pos()),
			"value": n.Token.Lexeme,
		}

	case *BoolLit:
		return map[string]any{
			"node":  "BoolLit",
			"span":  spanString(n.Pos()),
			"value": n.Value,
		}

	case *ArrayLit:
		return map[string]any{
			"node":  "ArrayLit",
			"span":  spanString(n.Span),
			"elems": mapNodes(n.Elems),
		}

	case *CallExpr:
		return map[string]any{
			"node":        "CallExpr",
			"span":        spanString(n.Span),
			"callee":      n.Callee.Name(),
			"constructor": n.IsConstructor(),
			"args":        mapNodes(n.Args),
		}

	default:
		return nil
	}
}

func mapNodes[N Node](nodes []N) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToMap(n)
	}
	return out
}

func spanString(s Span) string {
	return s.Start.String() + "-" + s.End.String()
}
