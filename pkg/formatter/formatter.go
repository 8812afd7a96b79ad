// Package formatter renders Lox AST nodes in the parenthesized prefix form
// used by the parse command and by parser tests.
package formatter

import (
	"math"
	"strconv"
	"strings"

	"github.com/thomasrohde/lox/pkg/ast"
)

// Expr renders an expression tree, e.g. `(* (- 1.0) (group 2.0))`.
func Expr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.NilLiteral:
		return "nil"
	case *ast.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.NumberLiteral:
		return formatNumber(n.Value)
	case *ast.StrLiteral:
		return n.Value
	case *ast.Ident:
		return n.Name
	case *ast.Grouping:
		return "(group " + Expr(n.Expr) + ")"
	case *ast.UnaryExpr:
		return "(" + string(n.Op) + " " + Expr(n.Operand) + ")"
	case *ast.BinaryExpr:
		return "(" + string(n.Op) + " " + Expr(n.Left) + " " + Expr(n.Right) + ")"
	case *ast.FunctionLiteral:
		name := n.Name
		if name == "" {
			name = "anon"
		}
		return "(fun " + name + " (" + strings.Join(n.Params, " ") + "))"
	case *ast.CallExpr:
		parts := make([]string, 0, len(n.Args)+2)
		parts = append(parts, "call", Expr(n.Callee))
		for _, arg := range n.Args {
			parts = append(parts, Expr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.PrintExpr:
		return "(print " + Expr(n.Operand) + ")"
	default:
		return "<unknown>"
	}
}

// Stmt renders a statement tree; blocks and loops nest their children.
func Stmt(s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return "(expr " + Expr(n.Expr) + ")"
	case *ast.PrintStmt:
		return "(print " + Expr(n.Operand) + ")"
	case *ast.VarDecl:
		if n.Init == nil {
			return "(var " + n.Name + ")"
		}
		return "(var " + n.Name + " " + Expr(n.Init) + ")"
	case *ast.BlockStmt:
		parts := make([]string, 0, len(n.Statements)+1)
		parts = append(parts, "block")
		for _, stmt := range n.Statements {
			parts = append(parts, Stmt(stmt))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.IfStmt:
		out := "(if " + Expr(n.Cond) + " " + Stmt(n.Then)
		if n.Else != nil {
			out += " " + Stmt(n.Else)
		}
		return out + ")"
	case *ast.WhileStmt:
		cond := "true"
		if n.Cond != nil {
			cond = Expr(n.Cond)
		}
		return "(while " + cond + " " + Stmt(n.Body) + ")"
	case *ast.ReturnStmt:
		if n.Value == nil {
			return "(return)"
		}
		return "(return " + Expr(n.Value) + ")"
	default:
		return "<unknown>"
	}
}

// Program renders each top-level statement on its own line.
func Program(p *ast.Program) string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = Stmt(s)
	}
	return strings.Join(lines, "\n")
}

// formatNumber prints literals with at least one decimal place, the shape
// the tokenize and parse dumps expect: 42 renders as 42.0.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
