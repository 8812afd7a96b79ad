package ast_test

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/ast"
)

func TestExprKinds(t *testing.T) {
	nodes := []ast.Node{
		&ast.NilLiteral{},
		&ast.BoolLiteral{Value: true},
		&ast.NumberLiteral{Value: 3.14},
		&ast.StrLiteral{Value: "hello"},
		&ast.Ident{Name: "x"},
		&ast.Grouping{},
		&ast.UnaryExpr{Op: ast.OpNeg},
		&ast.BinaryExpr{Op: ast.OpAdd},
		&ast.FunctionLiteral{Name: "f"},
		&ast.CallExpr{},
		&ast.PrintExpr{},
	}

	expected := []string{
		"NilLiteral", "BoolLiteral", "NumberLiteral", "StrLiteral",
		"Ident", "Grouping", "UnaryExpr", "BinaryExpr",
		"FunctionLiteral", "CallExpr", "PrintExpr",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
	}
}

func TestStmtKinds(t *testing.T) {
	nodes := []ast.Node{
		&ast.ExprStmt{},
		&ast.PrintStmt{},
		&ast.VarDecl{Name: "x"},
		&ast.BlockStmt{},
		&ast.IfStmt{},
		&ast.WhileStmt{},
		&ast.ReturnStmt{},
	}

	expected := []string{
		"ExprStmt", "PrintStmt", "VarDecl", "BlockStmt",
		"IfStmt", "WhileStmt", "ReturnStmt",
	}

	for i, node := range nodes {
		if got := node.Kind(); got != expected[i] {
			t.Errorf("node %d: got Kind() = %q, want %q", i, got, expected[i])
		}
	}
}

func TestNodeSpan(t *testing.T) {
	span := ast.Span{File: "test.lox", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5}
	n := &ast.Ident{Span: span, Name: "abcd"}
	if got := n.NodeSpan(); got != span {
		t.Errorf("NodeSpan: got %+v, want %+v", got, span)
	}
}
