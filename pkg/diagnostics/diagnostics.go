// Package diagnostics defines Lox diagnostic types for lex/parse/runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/lox/pkg/ast"
)

// Diagnostic code constants.
const (
	ELex            = "E_LEX"
	EEmptySource    = "E_EMPTY_SOURCE"
	EParse          = "E_PARSE"
	EIncomplete     = "E_INCOMPLETE"
	ETooManyArgs    = "E_TOO_MANY_ARGS"
	EAssignTarget   = "E_ASSIGN_TARGET"
	EUndefinedVar   = "E_UNDEFINED_VAR"
	EType           = "E_TYPE"
	EArity          = "E_ARITY"
	ENotCallable    = "E_NOT_CALLABLE"
	EReturnTopLevel = "E_RETURN_TOP_LEVEL"
	ENative         = "E_NATIVE"

	// Static-check codes, produced by the validator only.
	EUnbound     = "E_UNBOUND"
	EDupParam    = "E_DUP_PARAM"
	EUnreachable = "E_UNREACHABLE"
)

// Exit codes expected by callers: syntax-class errors and runtime errors
// must be distinguishable.
const (
	ExitSyntaxError  = 65
	ExitRuntimeError = 70
)

// Diagnostic represents a lex, parse, or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// IsSyntax reports whether the code belongs to the lexical/parse class.
func IsSyntax(code string) bool {
	switch code {
	case ELex, EEmptySource, EParse, EIncomplete, ETooManyArgs, EAssignTarget:
		return true
	}
	return false
}

// ExitCode maps a diagnostic code to the process exit status callers rely
// on: 65 for syntax-class errors, 70 for runtime errors.
func ExitCode(code string) int {
	if IsSyntax(code) {
		return ExitSyntaxError
	}
	return ExitRuntimeError
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	out := fmt.Sprintf("[line %d] %s", lineOf(d), d.Message)
	if d.Span == nil {
		out = d.Message
	}
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n")
}

func lineOf(d Diagnostic) int {
	if d.Span == nil {
		return 0
	}
	return d.Span.StartLine
}
