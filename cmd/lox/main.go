// Command lox is the Lox interpreter CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/lox/pkg/config"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/evaluator"
	"github.com/thomasrohde/lox/pkg/help"
	"github.com/thomasrohde/lox/pkg/lexer"
	"github.com/thomasrohde/lox/pkg/native"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/runtime"
	"github.com/thomasrohde/lox/pkg/validator"
)

const historyFile = ".lox_history"

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	cmd := os.Args[1]
	switch cmd {
	case "tokenize":
		os.Exit(cmdTokenize(os.Args[2:]))
	case "parse":
		os.Exit(cmdParse(os.Args[2:]))
	case "evaluate":
		os.Exit(cmdEvaluate(os.Args[2:]))
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "help", "--help", "-h":
		os.Exit(cmdHelp(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage(os.Stderr)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: lox <command> [options]")
	fmt.Fprintln(w, "commands: tokenize, parse, evaluate, run, check, repl, help")
}

// newRuntime builds the runtime from the working-directory config: natives
// denied by .loxrc.json (or ~/.lox/config.json) are left unbound.
func newRuntime(opts ...runtime.Option) (*runtime.Runtime, *config.Config) {
	cfg, _ := config.Load(".")

	reg := native.NewRegistry()
	native.RegisterDefaults(reg)
	for name := range reg.All() {
		if !cfg.IsAllowed(name) {
			reg.Remove(name)
		}
	}

	opts = append([]runtime.Option{runtime.WithNatives(reg)}, opts...)
	return runtime.New(opts...), cfg
}

func readSource(args []string, cmd string) (string, string, int) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: lox %s <file>\n", cmd)
		return "", "", 1
	}
	filename := args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file %s\n", filename)
		return "", "", 1
	}
	return string(source), filename, 0
}

func cmdTokenize(args []string) int {
	source, filename, code := readSource(args, "tokenize")
	if code != 0 {
		return code
	}

	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		var lexErr *lexer.LexError
		if errors.As(err, &lexErr) {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(lexErr.Diag, true))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return diagnostics.ExitSyntaxError
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	return 0
}

func cmdParse(args []string) int {
	source, filename, code := readSource(args, "parse")
	if code != 0 {
		return code
	}

	rt := runtime.New()
	tree, err := rt.ParseExprTree(source, filename)
	if err != nil {
		reportError(err)
		return runtime.ExitCode(err)
	}
	fmt.Println(tree)
	return 0
}

func cmdEvaluate(args []string) int {
	source, filename, code := readSource(args, "evaluate")
	if code != 0 {
		return code
	}

	rt, _ := newRuntime()
	_, display, err := rt.EvalExpr(source, filename)
	if err != nil {
		reportError(err)
		return runtime.ExitCode(err)
	}
	fmt.Println(display)
	return 0
}

func cmdRun(args []string) int {
	source, filename, code := readSource(args, "run")
	if code != 0 {
		return code
	}

	rt, _ := newRuntime()
	if err := rt.Run(source, filename); err != nil {
		reportError(err)
		return runtime.ExitCode(err)
	}
	return 0
}

func cmdCheck(args []string) int {
	source, filename, code := readSource(args, "check")
	if code != 0 {
		return code
	}

	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, true))
		return diagnostics.ExitSyntaxError
	}

	reg := native.NewRegistry()
	native.RegisterDefaults(reg)
	var globals []string
	for name := range reg.All() {
		globals = append(globals, name)
	}

	findings := validator.Validate(program, globals...)
	if len(findings) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(findings, true))
		return 1
	}
	return 0
}

func cmdHelp(args []string) int {
	if len(args) == 0 {
		fmt.Print(help.QUICKREF)
		return 0
	}
	name, content, err := help.MatchTopic(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	fmt.Printf("%s\n\n%s\n", name, content)
	return 0
}

func reportError(err error) {
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, true))
		return
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		diag := diagnostics.MakeDiag(rtErr.Code, rtErr.Message, rtErr.Span, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, true))
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

// --- repl ---

func historyPath(cfg *config.Config) string {
	if cfg != nil && cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func cmdRepl() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	rt, cfg := newRuntime()

	histPath := historyPath(cfg)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	var buffer strings.Builder
	for {
		prompt := "lox> "
		if buffer.Len() > 0 {
			prompt = ".... "
		}
		input, err := ln.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return 0
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return 1
			}
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(input)
		src := buffer.String()

		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}

		// Parse probe: keep reading continuation lines while the input
		// is incomplete rather than erroring out mid-construct.
		if _, diags := parser.Parse(src, "repl"); len(diags) > 0 {
			probeErr := &runtime.DiagnosticError{Diagnostics: diags}
			if runtime.IsIncomplete(probeErr) {
				// A bare expression also trips the program parser (no
				// semicolon); only keep reading if it is not one.
				if _, exprDiags := parser.ParseExpr(src, "repl"); len(exprDiags) > 0 {
					continue
				}
			}
		}

		buffer.Reset()
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalInput(rt, src)
	}
}

// evalInput runs one REPL input: a bare expression is evaluated and its
// value echoed; anything else executes as program statements against the
// session's persistent globals.
func evalInput(rt *runtime.Runtime, src string) {
	if _, diags := parser.ParseExpr(src, "repl"); len(diags) == 0 {
		_, display, err := rt.EvalExpr(src, "repl")
		if err != nil {
			reportError(err)
			return
		}
		fmt.Println(display)
		return
	}

	if err := rt.Run(src, "repl"); err != nil {
		if runtime.IsEmptySource(err) {
			return
		}
		reportError(err)
	}
}
