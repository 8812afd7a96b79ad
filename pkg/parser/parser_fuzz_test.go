package parser_test

import (
	"testing"

	"github.com/thomasrohde/lox/pkg/parser"
)

// FuzzParse feeds random inputs to the parser to catch panics.
// The parser should never panic — it should return diagnostics for invalid input.
func FuzzParse(f *testing.F) {
	// Seed corpus with valid and edge-case Lox programs
	seeds := []string{
		// Minimal programs
		`print "hello";`,
		`var x = 1;`,
		`1 + 2;`,
		// Expressions
		`print (1 + 2) * 3;`,
		`print -1 / 0;`,
		`print !true == false;`,
		`print a and b or c;`,
		`x = y = 1;`,
		// Control flow
		`if (a) print 1; else print 2;`,
		`while (a < 3) a = a + 1;`,
		`for (var i = 0; i < 3; i = i + 1) print i;`,
		`for (;;) print 1;`,
		// Functions
		`fun add(a, b) { return a + b; }`,
		`var f = fun (x) { return x; };`,
		`print add(1, 2);`,
		`f(1)(2)(3);`,
		`fun outer() { fun inner() { return 1; } return inner; }`,
		// Blocks
		`{ var a = 1; { var a = 2; print a; } }`,
		// Comments and strings
		`// comment only`,
		`print "multi
line";`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`(`,
		`)`,
		`{`,
		`}`,
		`;`,
		`=`,
		`1 + `,
		`fun f() {`,
		`"unterminated`,
		`1 + 2 = 3;`,
		`var = 1;`,
		`print;`,
		`else print 1;`,
		`@`,
		// Deep nesting
		`print ((((((1))))));`,
		`print 1 + 2 + 3 + 4 + 5 + 6 + 7 + 8;`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// parser.Parse should never panic, regardless of input.
		// It may return diagnostics or a nil program, but should not crash.
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("parser.Parse panicked on input %q: %v", input, r)
				}
			}()
			parser.Parse(input, "fuzz.lox")
		}()

		// Same for the single-expression entry point.
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("parser.ParseExpr panicked on input %q: %v", input, r)
				}
			}()
			parser.ParseExpr(input, "fuzz.lox")
		}()
	})
}
