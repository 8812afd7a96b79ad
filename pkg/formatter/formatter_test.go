package formatter_test

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/formatter"
	"github.com/thomasrohde/lox/pkg/parser"
)

func renderExpr(t *testing.T, src string) string {
	t.Helper()
	expr, diags := parser.ParseExpr(src, "test.lox")
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return formatter.Expr(expr)
}

func renderProgram(t *testing.T, src string) string {
	t.Helper()
	prog, diags := parser.Parse(src, "test.lox")
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return formatter.Program(prog)
}

func TestExpr(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"nil", "nil"},
		{"true", "true"},
		{"false", "false"},
		{"42", "42.0"},
		{"2.5", "2.5"},
		{`"hi"`, "hi"},
		{"x", "x"},
		{"(1)", "(group 1.0)"},
		{"-1", "(- 1.0)"},
		{"!true", "(! true)"},
		{"1 + 2 * 3", "(+ 1.0 (* 2.0 3.0))"},
		{"a and b or c", "(or (and a b) c)"},
		{"a = 1", "(= a 1.0)"},
		{"f(1, 2)", "(call f 1.0 2.0)"},
		{"f()", "(call f)"},
		{"fun (a, b) { return a; }", "(fun anon (a b))"},
		{"print 1", "(print 1.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := renderExpr(t, tt.source); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStmt(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2;", "(expr (+ 1.0 2.0))"},
		{"print 1;", "(print 1.0)"},
		{"var x;", "(var x)"},
		{"var x = 1;", "(var x 1.0)"},
		{"{ print 1; print 2; }", "(block (print 1.0) (print 2.0))"},
		{"if (a) print 1;", "(if a (print 1.0))"},
		{"if (a) print 1; else print 2;", "(if a (print 1.0) (print 2.0))"},
		{"while (a) print 1;", "(while a (print 1.0))"},
		{"fun f(x) { return x; }", "(expr (fun f (x)))"},
		{"return;", "(return)"},
		{"return 1;", "(return 1.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := renderProgram(t, tt.source); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStmt_ForDesugarsToWhile(t *testing.T) {
	got := renderProgram(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(block (var i 0.0) (while (< i 3.0) (block (print i) (expr (= i (+ i 1.0))))))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = renderProgram(t, "for (;;) print 1;")
	want = "(block (while true (print 1.0)))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProgram_OneLinePerStatement(t *testing.T) {
	got := renderProgram(t, "var x = 1; print x;")
	want := "(var x 1.0)\n(print x)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpr_NumberFormatting(t *testing.T) {
	// Integral literals keep one decimal place in tree dumps.
	if got := renderExpr(t, "0"); got != "0.0" {
		t.Errorf("got %q", got)
	}
	if got := renderExpr(t, "1000"); got != "1000.0" {
		t.Errorf("got %q", got)
	}
	if got := renderExpr(t, "0.125"); got != "0.125" {
		t.Errorf("got %q", got)
	}
}
