// Package validator implements static checks over Lox programs. The checks
// flag code that would fail at runtime (unbound names, top-level return)
// or that is well-formed but suspect (unreachable statements), without
// executing anything.
package validator

import (
	"fmt"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
)

// maxParams mirrors the parser's cap on call arguments.
const maxParams = 255

type scope struct {
	bindings map[string]bool
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]bool), parent: parent}
}

func (s *scope) has(name string) bool {
	if s.bindings[name] {
		return true
	}
	if s.parent != nil {
		return s.parent.has(name)
	}
	return false
}

func (s *scope) add(name string) {
	s.bindings[name] = true
}

// pendingFn is a function body whose checking is deferred until the
// enclosing statement list has been fully processed. Deferral is what
// lets a body reference names declared later in the same scope, the way
// mutual recursion does.
type pendingFn struct {
	fn    *ast.FunctionLiteral
	scope *scope
}

type validator struct {
	diags []diagnostics.Diagnostic
}

// Validate performs static analysis on a Lox program. globals names the
// bindings present before the first statement runs, typically the native
// functions.
func Validate(program *ast.Program, globals ...string) []diagnostics.Diagnostic {
	v := &validator{}
	sc := newScope(nil)
	for _, name := range globals {
		sc.add(name)
	}

	v.checkStmts(program.Statements, sc, true)
	return v.diags
}

func (v *validator) addDiag(code, msg string, span *ast.Span) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, span, ""))
}

// checkStmts walks a statement list in order, then checks any function
// bodies collected along the way against the completed scope.
func (v *validator) checkStmts(stmts []ast.Stmt, sc *scope, topLevel bool) {
	var pending []pendingFn

	for i, stmt := range stmts {
		if _, ok := stmt.(*ast.ReturnStmt); ok && i != len(stmts)-1 {
			span := stmts[i+1].NodeSpan()
			v.addDiag(diagnostics.EUnreachable, "unreachable code after return", &span)
		}
		pending = append(pending, v.checkStmt(stmt, sc, topLevel)...)
	}

	for _, p := range pending {
		v.checkFnBody(p.fn, p.scope)
	}
}

func (v *validator) checkStmt(stmt ast.Stmt, sc *scope, topLevel bool) []pendingFn {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return v.checkExpr(s.Expr, sc)

	case *ast.PrintStmt:
		return v.checkExpr(s.Operand, sc)

	case *ast.VarDecl:
		var pending []pendingFn
		if s.Init != nil {
			pending = v.checkExpr(s.Init, sc)
		}
		sc.add(s.Name)
		return pending

	case *ast.BlockStmt:
		// A block does not change return legality: a top-level block's
		// return still escapes to the top level at runtime.
		v.checkStmts(s.Statements, newScope(sc), topLevel)
		return nil

	case *ast.IfStmt:
		pending := v.checkExpr(s.Cond, sc)
		pending = append(pending, v.checkStmt(s.Then, sc, topLevel)...)
		if s.Else != nil {
			pending = append(pending, v.checkStmt(s.Else, sc, topLevel)...)
		}
		return pending

	case *ast.WhileStmt:
		var pending []pendingFn
		if s.Cond != nil {
			pending = v.checkExpr(s.Cond, sc)
		}
		return append(pending, v.checkStmt(s.Body, sc, topLevel)...)

	case *ast.ReturnStmt:
		var pending []pendingFn
		if s.Value != nil {
			pending = v.checkExpr(s.Value, sc)
		}
		if topLevel {
			span := s.NodeSpan()
			v.addDiag(diagnostics.EReturnTopLevel, "return statements can only be in functions", &span)
		}
		return pending

	default:
		return nil
	}
}

// checkExpr checks an expression against the bindings visible so far and
// returns any function literals whose bodies still need checking.
func (v *validator) checkExpr(expr ast.Expr, sc *scope) []pendingFn {
	switch e := expr.(type) {
	case *ast.NilLiteral, *ast.BoolLiteral, *ast.NumberLiteral, *ast.StrLiteral:
		return nil

	case *ast.Ident:
		if !sc.has(e.Name) {
			span := e.Span
			v.addDiag(diagnostics.EUnbound, fmt.Sprintf("unbound variable '%s'", e.Name), &span)
		}
		return nil

	case *ast.Grouping:
		return v.checkExpr(e.Expr, sc)

	case *ast.UnaryExpr:
		return v.checkExpr(e.Operand, sc)

	case *ast.BinaryExpr:
		if e.Op == ast.OpAssign {
			// The parser guarantees the target is an identifier; it must
			// also resolve to an existing declaration.
			if ident, ok := e.Left.(*ast.Ident); ok && !sc.has(ident.Name) {
				span := ident.Span
				v.addDiag(diagnostics.EUnbound, fmt.Sprintf("unbound variable '%s'", ident.Name), &span)
			}
			return v.checkExpr(e.Right, sc)
		}
		pending := v.checkExpr(e.Left, sc)
		return append(pending, v.checkExpr(e.Right, sc)...)

	case *ast.FunctionLiteral:
		v.checkParams(e)
		if e.Name != "" {
			sc.add(e.Name)
		}
		return []pendingFn{{fn: e, scope: sc}}

	case *ast.CallExpr:
		pending := v.checkExpr(e.Callee, sc)
		for _, arg := range e.Args {
			pending = append(pending, v.checkExpr(arg, sc)...)
		}
		return pending

	case *ast.PrintExpr:
		return v.checkExpr(e.Operand, sc)

	default:
		return nil
	}
}

func (v *validator) checkParams(fn *ast.FunctionLiteral) {
	if len(fn.Params) > maxParams {
		span := fn.Span
		v.addDiag(diagnostics.ETooManyArgs,
			fmt.Sprintf("Can't have more than %d parameters.", maxParams), &span)
	}

	seen := make(map[string]bool, len(fn.Params))
	for _, param := range fn.Params {
		if seen[param] {
			span := fn.Span
			v.addDiag(diagnostics.EDupParam,
				fmt.Sprintf("duplicate parameter '%s'", param), &span)
		}
		seen[param] = true
	}
}

func (v *validator) checkFnBody(fn *ast.FunctionLiteral, defScope *scope) {
	bodyScope := newScope(defScope)
	for _, param := range fn.Params {
		bodyScope.add(param)
	}
	v.checkStmts(fn.Body, bodyScope, false)
}
