package evaluator

import (
	"fmt"
	"io"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
)

// RuntimeError represents a runtime error during Lox execution.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// ExecOptions configures program execution.
type ExecOptions struct {
	// Output is the append-only sink that print writes to.
	Output io.Writer
	// Natives are host-provided functions bound into the global
	// environment before the first statement runs.
	Natives map[string]NativeFn
}

// control is the statement-evaluation signal: either fall through to the
// next statement, or unwind with a return value. Return propagates through
// nested blocks, ifs, and loops without host-language panics.
type control struct {
	isReturn bool
	value    Value
}

var fallthru = control{}

// Interp executes programs against one global environment. The environment
// persists across Execute calls, which is what the REPL relies on.
type Interp struct {
	out     io.Writer
	globals *Env
}

// New creates an interpreter with its global environment seeded from the
// native bindings in opts.
func New(opts ExecOptions) *Interp {
	in := &Interp{
		out:     opts.Output,
		globals: NewEnv(nil),
	}
	if in.out == nil {
		in.out = io.Discard
	}
	for name, fn := range opts.Natives {
		in.globals.Define(name, &NativeFunction{Name: name, Call: fn})
	}
	return in
}

// Execute runs a Lox program and returns the first runtime error, if any.
func Execute(program *ast.Program, opts ExecOptions) error {
	return New(opts).Execute(program)
}

// Execute runs the program's statements in order against the global
// environment. The first error aborts the whole run; a return signal
// escaping to the top level is a runtime error.
func (in *Interp) Execute(program *ast.Program) error {
	for _, stmt := range program.Statements {
		ctrl, err := in.execStmt(stmt, in.globals)
		if err != nil {
			return err
		}
		if ctrl.isReturn {
			span := stmt.NodeSpan()
			return &RuntimeError{
				Code:    diagnostics.EReturnTopLevel,
				Message: "return statements can only be in functions",
				Span:    &span,
			}
		}
	}
	return nil
}

// EvalExpr evaluates a single expression against the global environment.
func (in *Interp) EvalExpr(expr ast.Expr) (Value, error) {
	return in.evalExpr(expr, in.globals)
}

// --- Statements ---

func (in *Interp) execStmt(stmt ast.Stmt, env *Env) (control, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if _, err := in.evalExpr(s.Expr, env); err != nil {
			return fallthru, err
		}
		return fallthru, nil

	case *ast.PrintStmt:
		val, err := in.evalExpr(s.Operand, env)
		if err != nil {
			return fallthru, err
		}
		fmt.Fprintln(in.out, Display(val))
		return fallthru, nil

	case *ast.VarDecl:
		var val Value = Nil{}
		if s.Init != nil {
			v, err := in.evalExpr(s.Init, env)
			if err != nil {
				return fallthru, err
			}
			val = v
		}
		env.Define(s.Name, val)
		return fallthru, nil

	case *ast.BlockStmt:
		return in.execBlock(s.Statements, env.Child())

	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond, env)
		if err != nil {
			return fallthru, err
		}
		if Truthiness(cond) {
			return in.execStmt(s.Then, env)
		}
		if s.Else != nil {
			return in.execStmt(s.Else, env)
		}
		return fallthru, nil

	case *ast.WhileStmt:
		for {
			if s.Cond != nil {
				cond, err := in.evalExpr(s.Cond, env)
				if err != nil {
					return fallthru, err
				}
				if !Truthiness(cond) {
					return fallthru, nil
				}
			}
			ctrl, err := in.execStmt(s.Body, env)
			if err != nil {
				return fallthru, err
			}
			if ctrl.isReturn {
				return ctrl, nil
			}
		}

	case *ast.ReturnStmt:
		var val Value = Nil{}
		if s.Value != nil {
			v, err := in.evalExpr(s.Value, env)
			if err != nil {
				return fallthru, err
			}
			val = v
		}
		return control{isReturn: true, value: val}, nil

	default:
		span := stmt.NodeSpan()
		return fallthru, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported statement type: %T", stmt),
			Span:    &span,
		}
	}
}

// execBlock runs statements in order against env, propagating a return
// signal immediately without executing the rest.
func (in *Interp) execBlock(stmts []ast.Stmt, env *Env) (control, error) {
	for _, stmt := range stmts {
		ctrl, err := in.execStmt(stmt, env)
		if err != nil {
			return fallthru, err
		}
		if ctrl.isReturn {
			return ctrl, nil
		}
	}
	return fallthru, nil
}

// --- Expressions ---

func (in *Interp) evalExpr(expr ast.Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *ast.NilLiteral:
		return Nil{}, nil

	case *ast.BoolLiteral:
		return Bool{Value: e.Value}, nil

	case *ast.NumberLiteral:
		return Number{Value: e.Value}, nil

	case *ast.StrLiteral:
		return String{Value: e.Value}, nil

	case *ast.Ident:
		val, ok := env.Get(e.Name)
		if !ok {
			span := e.Span
			return nil, &RuntimeError{
				Code:    diagnostics.EUndefinedVar,
				Message: fmt.Sprintf("undefined variable '%s'", e.Name),
				Span:    &span,
			}
		}
		return val, nil

	case *ast.Grouping:
		return in.evalExpr(e.Expr, env)

	case *ast.UnaryExpr:
		return in.evalUnary(e, env)

	case *ast.BinaryExpr:
		return in.evalBinary(e, env)

	case *ast.FunctionLiteral:
		fn := &Function{Decl: e, Closure: env}
		if e.Name != "" {
			// Immediate self-binding: the name is visible to the body
			// before the surrounding statement list continues, which is
			// what makes local recursion and mutual recursion work.
			env.Define(e.Name, fn)
		}
		return fn, nil

	case *ast.CallExpr:
		return in.evalCall(e, env)

	case *ast.PrintExpr:
		val, err := in.evalExpr(e.Operand, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(in.out, Display(val))
		return Nil{}, nil

	default:
		span := expr.NodeSpan()
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported expression type: %T", expr),
			Span:    &span,
		}
	}
}

func (in *Interp) evalUnary(e *ast.UnaryExpr, env *Env) (Value, error) {
	val, err := in.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpNot:
		return Bool{Value: !Truthiness(val)}, nil
	case ast.OpNeg:
		num, ok := val.(Number)
		if !ok {
			span := e.Span
			return nil, &RuntimeError{
				Code:    diagnostics.EType,
				Message: "Error: Operand must be a number.",
				Span:    &span,
			}
		}
		return Number{Value: -num.Value}, nil
	default:
		span := e.Span
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported unary operator '%s'", e.Op),
			Span:    &span,
		}
	}
}

func (in *Interp) evalBinary(e *ast.BinaryExpr, env *Env) (Value, error) {
	switch e.Op {
	case ast.OpAssign:
		return in.evalAssign(e, env)
	case ast.OpAnd:
		// Short-circuit: the right operand only runs when the left is
		// truthy. This is observable because print is an expression.
		left, err := in.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !Truthiness(left) {
			return left, nil
		}
		return in.evalExpr(e.Right, env)
	case ast.OpOr:
		left, err := in.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthiness(left) {
			return left, nil
		}
		return in.evalExpr(e.Right, env)
	}

	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	span := e.Span

	if lNum, ok := left.(Number); ok {
		if rNum, ok := right.(Number); ok {
			return evalNumericOp(e.Op, lNum.Value, rNum.Value, &span)
		}
	}
	if lStr, ok := left.(String); ok {
		if rStr, ok := right.(String); ok {
			return evalStringOp(e.Op, lStr.Value, rStr.Value, &span)
		}
	}

	switch e.Op {
	case ast.OpEqEq:
		return Bool{Value: Equal(left, right)}, nil
	case ast.OpNeq:
		return Bool{Value: !Equal(left, right)}, nil
	case ast.OpAdd:
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: "Operands must be two numbers or two strings.",
			Span:    &span,
		}
	default:
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: "Error: Operands must be numbers.",
			Span:    &span,
		}
	}
}

func evalNumericOp(op ast.BinaryOp, left, right float64, span *ast.Span) (Value, error) {
	switch op {
	case ast.OpAdd:
		return Number{Value: left + right}, nil
	case ast.OpSub:
		return Number{Value: left - right}, nil
	case ast.OpMul:
		return Number{Value: left * right}, nil
	case ast.OpDiv:
		// Division by zero yields infinity/NaN per IEEE-754; it is not a
		// language-level error.
		return Number{Value: left / right}, nil
	case ast.OpGt:
		return Bool{Value: left > right}, nil
	case ast.OpGtEq:
		return Bool{Value: left >= right}, nil
	case ast.OpLt:
		return Bool{Value: left < right}, nil
	case ast.OpLtEq:
		return Bool{Value: left <= right}, nil
	case ast.OpEqEq:
		return Bool{Value: left == right}, nil
	case ast.OpNeq:
		return Bool{Value: left != right}, nil
	default:
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported operator '%s' on numbers", op),
			Span:    span,
		}
	}
}

func evalStringOp(op ast.BinaryOp, left, right string, span *ast.Span) (Value, error) {
	switch op {
	case ast.OpAdd:
		return String{Value: left + right}, nil
	case ast.OpEqEq:
		return Bool{Value: left == right}, nil
	case ast.OpNeq:
		return Bool{Value: left != right}, nil
	default:
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: "Error: Operands must be numbers.",
			Span:    span,
		}
	}
}

func (in *Interp) evalAssign(e *ast.BinaryExpr, env *Env) (Value, error) {
	ident, ok := e.Left.(*ast.Ident)
	if !ok {
		// The parser rejects non-identifier targets; this is for AST
		// built by hand.
		span := e.Span
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("expected identifier but got %s", e.Left.Kind()),
			Span:    &span,
		}
	}
	val, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}
	if !env.Assign(ident.Name, val) {
		span := ident.Span
		return nil, &RuntimeError{
			Code:    diagnostics.EUndefinedVar,
			Message: fmt.Sprintf("undefined variable '%s'", ident.Name),
			Span:    &span,
		}
	}
	return val, nil
}

func (in *Interp) evalCall(e *ast.CallExpr, env *Env) (Value, error) {
	callee, err := in.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	span := e.Span

	switch fn := callee.(type) {
	case *Function:
		if len(e.Args) != len(fn.Decl.Params) {
			return nil, &RuntimeError{
				Code:    diagnostics.EArity,
				Message: fmt.Sprintf("Expected %d arguments but got %d.", len(fn.Decl.Params), len(e.Args)),
				Span:    &span,
			}
		}

		// Arguments run left-to-right in the caller's environment; the
		// body runs in a fresh scope parented to the *captured*
		// environment, which is what makes scoping lexical.
		callEnv := fn.Closure.Child()
		for i, param := range fn.Decl.Params {
			arg, err := in.evalExpr(e.Args[i], env)
			if err != nil {
				return nil, err
			}
			callEnv.Define(param, arg)
		}

		ctrl, err := in.execBlock(fn.Decl.Body, callEnv)
		if err != nil {
			return nil, err
		}
		if ctrl.isReturn {
			return ctrl.value, nil
		}
		return Nil{}, nil

	case *NativeFunction:
		args := make([]Value, 0, len(e.Args))
		for _, argExpr := range e.Args {
			arg, err := in.evalExpr(argExpr, env)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		result, err := fn.Call(args)
		if err != nil {
			return nil, &RuntimeError{
				Code:    diagnostics.ENative,
				Message: fmt.Sprintf("native '%s' error: %s", fn.Name, err.Error()),
				Span:    &span,
			}
		}
		return result, nil

	default:
		return nil, &RuntimeError{
			Code:    diagnostics.ENotCallable,
			Message: "Callee must be a function.",
			Span:    &span,
		}
	}
}
