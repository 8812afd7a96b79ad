package validator_test

import (
	"strings"
	"testing"

	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/parser"
	"github.com/thomasrohde/lox/pkg/validator"
)

// helper parses source and validates, returning diagnostics from validation
// only. It fatals on parse errors so test cases focus on validator behavior.
func mustParseAndValidate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	prog, parseErrs := parser.Parse(source, "test.lox")
	if len(parseErrs) > 0 {
		t.Fatalf("unexpected parse error: %s", parseErrs[0].Message)
	}
	return validator.Validate(prog, "clock", "readFile", "env")
}

// assertNoDiags asserts zero diagnostics were produced.
func assertNoDiags(t *testing.T, diags []diagnostics.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.Code+": "+d.Message)
		}
		t.Errorf("expected no diagnostics, got %d:\n  %s", len(diags), strings.Join(msgs, "\n  "))
	}
}

// assertHasCode asserts that at least one diagnostic with the given code exists.
func assertHasCode(t *testing.T, diags []diagnostics.Diagnostic, code string) {
	t.Helper()
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	t.Errorf("expected diagnostic code %s, got codes: %v", code, codes)
}

// ===== Valid programs (zero diagnostics) =====

func TestValid_VarAndPrint(t *testing.T) {
	diags := mustParseAndValidate(t, `
var x = 42;
print x;
`)
	assertNoDiags(t, diags)
}

func TestValid_Shadowing(t *testing.T) {
	diags := mustParseAndValidate(t, `
var a = "global";
{
  var a = "local";
  print a;
}
print a;
`)
	assertNoDiags(t, diags)
}

func TestValid_Assignment(t *testing.T) {
	diags := mustParseAndValidate(t, `
var x = 1;
x = x + 1;
`)
	assertNoDiags(t, diags)
}

func TestValid_FunctionRecursion(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(6);
`)
	assertNoDiags(t, diags)
}

func TestValid_MutualRecursion(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun isEven(n) {
  if (n == 0) return true;
  return isOdd(n - 1);
}
fun isOdd(n) {
  if (n == 0) return false;
  return isEven(n - 1);
}
print isEven(10);
`)
	assertNoDiags(t, diags)
}

func TestValid_FnBodySeesLaterGlobal(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun show() { print limit; }
var limit = 10;
show();
`)
	assertNoDiags(t, diags)
}

func TestValid_Closure(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();
print counter();
`)
	assertNoDiags(t, diags)
}

func TestValid_Natives(t *testing.T) {
	diags := mustParseAndValidate(t, `
print clock();
print env("HOME");
`)
	assertNoDiags(t, diags)
}

func TestValid_ForLoop(t *testing.T) {
	diags := mustParseAndValidate(t, `
for (var i = 0; i < 3; i = i + 1) print i;
`)
	assertNoDiags(t, diags)
}

func TestValid_AnonymousFunction(t *testing.T) {
	diags := mustParseAndValidate(t, `
var twice = fun (x) { return x + x; };
print twice(21);
`)
	assertNoDiags(t, diags)
}

// ===== E_UNBOUND =====

func TestError_UnboundRead(t *testing.T) {
	diags := mustParseAndValidate(t, `print missing;`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

func TestError_UnboundAssign(t *testing.T) {
	diags := mustParseAndValidate(t, `
var a = 1;
b = 2;
`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

func TestError_UnboundInFunctionBody(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun broken() { return nowhere; }
`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

func TestError_BlockLocalDoesNotLeak(t *testing.T) {
	diags := mustParseAndValidate(t, `
{
  var inner = 1;
}
print inner;
`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

func TestError_ParamDoesNotLeak(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun foo(secret) { return secret; }
print secret;
`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

func TestError_UnboundMultiple(t *testing.T) {
	diags := mustParseAndValidate(t, `print x + y + z;`)
	count := 0
	for _, d := range diags {
		if d.Code == diagnostics.EUnbound {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 %s diagnostics, got %d", diagnostics.EUnbound, count)
	}
}

func TestError_VarInitCannotReferenceItself(t *testing.T) {
	// The initializer runs before the name is declared.
	diags := mustParseAndValidate(t, `var a = a;`)
	assertHasCode(t, diags, diagnostics.EUnbound)
}

// ===== E_RETURN_TOP_LEVEL =====

func TestError_TopLevelReturn(t *testing.T) {
	diags := mustParseAndValidate(t, `return 1;`)
	assertHasCode(t, diags, diagnostics.EReturnTopLevel)
}

func TestError_TopLevelReturnInBlock(t *testing.T) {
	// A block does not make a return legal; only a function body does.
	diags := mustParseAndValidate(t, `
{
  return 1;
}
`)
	assertHasCode(t, diags, diagnostics.EReturnTopLevel)
}

func TestValid_ReturnInsideFunction(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f() { return 1; }
`)
	assertNoDiags(t, diags)
}

// ===== E_DUP_PARAM =====

func TestError_DuplicateParam(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f(a, a) { return a; }
`)
	assertHasCode(t, diags, diagnostics.EDupParam)
}

func TestError_DuplicateParamMessage(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f(x, y, x) { return x; }
`)
	for _, d := range diags {
		if d.Code == diagnostics.EDupParam {
			if !strings.Contains(d.Message, "x") {
				t.Errorf("expected message to mention 'x', got: %s", d.Message)
			}
			return
		}
	}
	t.Errorf("no %s diagnostic found", diagnostics.EDupParam)
}

// ===== E_UNREACHABLE =====

func TestError_UnreachableAfterReturn(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f() {
  return 1;
  print "never";
}
`)
	assertHasCode(t, diags, diagnostics.EUnreachable)
}

func TestValid_ReturnLastInBody(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f() {
  print "once";
  return 1;
}
`)
	assertNoDiags(t, diags)
}

func TestValid_EarlyReturnInIf(t *testing.T) {
	// A return inside an if branch does not make the following
	// statements unreachable.
	diags := mustParseAndValidate(t, `
fun f(n) {
  if (n < 0) return 0;
  return n;
}
`)
	assertNoDiags(t, diags)
}

// ===== Combined =====

func TestError_MultipleKinds(t *testing.T) {
	diags := mustParseAndValidate(t, `
fun f(a, a) { return ghost; }
return 1;
`)
	assertHasCode(t, diags, diagnostics.EDupParam)
	assertHasCode(t, diags, diagnostics.EUnbound)
	assertHasCode(t, diags, diagnostics.EReturnTopLevel)
}
