// Package runtime provides the top-level Lox runtime orchestrator.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/evaluator"
	"github.com/thomasrohde/lox/pkg/formatter"
	"github.com/thomasrohde/lox/pkg/native"
	"github.com/thomasrohde/lox/pkg/parser"
)

// Runtime wires together all Lox components for program execution. The
// interpreter's global environment is created once and persists across Run
// calls, which is what REPL sessions rely on.
type Runtime struct {
	out     io.Writer
	natives *native.Registry
	interp  *evaluator.Interp
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets the sink print writes to.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithNatives sets the native function registry.
func WithNatives(r *native.Registry) Option {
	return func(rt *Runtime) {
		rt.natives = r
	}
}

// New creates a new Runtime. By default output goes to stdout and the
// default natives (clock) are registered.
func New(opts ...Option) *Runtime {
	nativeReg := native.NewRegistry()
	native.RegisterDefaults(nativeReg)

	rt := &Runtime{
		out:     os.Stdout,
		natives: nativeReg,
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.interp = evaluator.New(evaluator.ExecOptions{
		Output:  rt.out,
		Natives: rt.natives.Bindings(),
	})
	return rt
}

// Run parses and executes a Lox program against the persistent global
// environment. Parse errors come back as *DiagnosticError, runtime errors
// as *evaluator.RuntimeError.
func (rt *Runtime) Run(source, filename string) error {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return &DiagnosticError{Diagnostics: diags}
	}
	return rt.interp.Execute(program)
}

// EvalExpr parses source as a single expression, evaluates it, and returns
// both the value and its display form.
func (rt *Runtime) EvalExpr(source, filename string) (evaluator.Value, string, error) {
	expr, diags := parser.ParseExpr(source, filename)
	if len(diags) > 0 {
		return nil, "", &DiagnosticError{Diagnostics: diags}
	}
	val, err := rt.interp.EvalExpr(expr)
	if err != nil {
		return nil, "", err
	}
	return val, evaluator.Display(val), nil
}

// ParseExprTree parses source as a single expression and renders its tree
// form, for the parse command.
func (rt *Runtime) ParseExprTree(source, filename string) (string, error) {
	expr, diags := parser.ParseExpr(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Expr(expr), nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// ExitCode maps an error returned by Run or EvalExpr to the process exit
// status convention: 65 for syntax-class errors, 70 for runtime errors.
func ExitCode(err error) int {
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		for _, d := range diagErr.Diagnostics {
			return diagnostics.ExitCode(d.Code)
		}
		return diagnostics.ExitSyntaxError
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return diagnostics.ExitCode(rtErr.Code)
	}
	return diagnostics.ExitRuntimeError
}

// IsIncomplete reports whether err is a parse error caused by hitting end
// of input mid-construct. The REPL uses it to keep reading continuation
// lines instead of reporting an error.
func IsIncomplete(err error) bool {
	var diagErr *DiagnosticError
	if !errors.As(err, &diagErr) {
		return false
	}
	for _, d := range diagErr.Diagnostics {
		if d.Code == diagnostics.EIncomplete {
			return true
		}
	}
	return false
}

// IsEmptySource reports whether err is the empty-source parse error, which
// the REPL treats as "nothing to do" rather than a failure.
func IsEmptySource(err error) bool {
	var diagErr *DiagnosticError
	if !errors.As(err, &diagErr) {
		return false
	}
	for _, d := range diagErr.Diagnostics {
		if d.Code == diagnostics.EEmptySource {
			return true
		}
	}
	return false
}
