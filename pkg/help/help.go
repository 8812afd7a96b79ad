// Package help provides the in-terminal Lox language reference used by
// the help command and the REPL.
package help

import (
	"fmt"
	"sort"
	"strings"
)

// QUICKREF is the one-screen summary printed by `lox help`.
const QUICKREF = `lox v0.5 — quick reference

A Lox program is a sequence of statements. Values are nil, booleans,
numbers (IEEE-754 doubles), strings, and functions.

  var x = 1;                 declare a variable
  x = x + 1;                 assign (the variable must be declared)
  print x;                   write a value to output
  { ... }                    block with its own scope
  if (cond) ... else ...     conditional
  while (cond) ...           loop
  for (init; cond; incr) ... loop (sugar for while)
  fun name(a, b) { ... }     function declaration
  fun (a) { ... }            anonymous function expression
  return expr;               return from the enclosing function

Topics (lox help <topic>):
  syntax types operators functions scoping builtins errors repl

Commands:
  lox run <file>        execute a program
  lox evaluate <file>   evaluate a single expression
  lox parse <file>      print the expression tree
  lox tokenize <file>   print the token stream
  lox check <file>      static checks without running
  lox repl              interactive session
`

// Topics maps each help topic to its content.
var Topics = map[string]string{
	"syntax": `Statements end with ';'. The one exception is a named function
declaration, whose closing '}' may stand alone:

  fun greet(name) {
    print "Hello, " + name + "!";
  }

Comments run from // to the end of the line. Strings are double-quoted,
may span lines, and have no escape sequences.`,

	"types": `nil       the absence of a value; the default for var without an
          initializer and for functions that fall off the end
boolean   true and false
number    64-bit IEEE-754 double; integral values print without a
          fractional part (3, not 3.0)
string    immutable; compared by content
function  first-class; closes over its defining scope

Only false and nil are falsy. 0 and "" are truthy.`,

	"operators": `Lowest to highest precedence:

  =           assignment (right-associative, target must be a variable)
  or          short-circuit, yields the deciding operand
  and         short-circuit, yields the deciding operand
  == !=       equality; values of different kinds are never equal
  < <= > >=   comparison (numbers only)
  + -         addition also concatenates two strings
  * /         division by zero yields inf or NaN, not an error
  - !         unary negate and logical not
  f(args)     call

Binary operators are left-associative: 1 - 2 - 3 is (1 - 2) - 3.`,

	"functions": `Functions are expressions. A named function literal binds its own
name in the surrounding scope, so recursion works:

  fun fib(n) {
    if (n < 2) return n;
    return fib(n - 1) + fib(n - 2);
  }

Calls check arity before evaluating arguments. A function that falls
off the end of its body returns nil. Closures capture their defining
environment by reference; closures made in the same scope share it.`,

	"scoping": `Scoping is lexical. var declares in the current scope and may
shadow an outer variable; assignment walks outward to the nearest
declaration and fails if none exists. There is no implicit global
creation:

  var a = "global";
  {
    var a = "local";
    print a;           // local
  }
  print a;             // global`,

	"builtins": `Native functions are bound into the global environment before the
first statement runs:

  clock()      seconds since the Unix epoch, as a number
  readFile(p)  contents of the file at path p, as a string
  env(name)    value of the environment variable, or nil if unset

Natives can be disabled per project via .loxrc.json.`,

	"errors": `Syntax errors (exit 65) stop the whole run before any statement
executes. Runtime errors (exit 70) stop at the failing operation:

  undefined variable 'x'
  Operands must be two numbers or two strings.
  Expected 2 arguments but got 4.
  Callee must be a function.
  return statements can only be in functions`,

	"repl": `The REPL keeps one global environment for the whole session. A bare
expression is evaluated and its value echoed; statements execute as
usual. Input that ends mid-construct continues on the next line:

  lox> fun add(a, b) {
  ....   return a + b;
  .... }
  lox> add(1, 2)
  3

History is stored in ~/.lox_history. Ctrl-C clears the current input,
Ctrl-D exits.`,
}

// TopicList is the display order for topics.
var TopicList = []string{
	"syntax", "types", "operators", "functions", "scoping",
	"builtins", "errors", "repl",
}

// MatchTopic resolves a topic name, allowing unambiguous prefixes.
func MatchTopic(query string) (string, string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}

	var matches []string
	for _, name := range TopicList {
		if strings.HasPrefix(name, query) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown topic '%s'; try one of: %s", query, strings.Join(TopicList, ", "))
	default:
		sort.Strings(matches)
		return "", "", fmt.Errorf("ambiguous topic '%s'; matches: %s", query, strings.Join(matches, ", "))
	}
}
