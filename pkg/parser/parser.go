// Package parser implements the Lox precedence-climbing parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
	"github.com/thomasrohde/lox/pkg/lexer"
)

// Binding powers, lowest to highest. An infix operator folds into the
// left-hand side only while its power strictly exceeds the current minimum.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
)

// maxCallArgs is the hard cap on call-expression argument lists.
const maxCallArgs = 255

type parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into a program. Parsing stops at the
// first error; there is no recovery. A source containing no tokens besides
// EOF is itself an error, not an empty program.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	p, diags := fromSource(source, filename)
	if diags != nil {
		return nil, diags
	}

	prog := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

// ParseExpr tokenizes source and parses it as a single expression spanning
// the whole input.
func ParseExpr(source, filename string) (ast.Expr, []diagnostics.Diagnostic) {
	p, diags := fromSource(source, filename)
	if diags != nil {
		return nil, diags
	}

	expr := p.parseExpression(precLowest)
	if expr != nil && p.peek() != lexer.TokEOF {
		tok := p.current()
		p.addError(fmt.Sprintf("expected end of file, got '%s'", tok.Lexeme), &tok.Span)
		expr = nil
	}
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return expr, nil
}

func fromSource(source, filename string) (*parser, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, "")}
	}
	if len(tokens) == 1 { // just EOF
		span := tokens[0].Span
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EEmptySource, "empty source", &span, "")}
	}
	return &parser{tokens: tokens, pos: 0}, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ lexer.TokenType) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type != typ {
		p.addError(fmt.Sprintf("expected %s, got '%s'", tokenName(typ), describe(tok)), &tok.Span)
		return tok, false
	}
	return p.advance(), true
}

// addError records a diagnostic and, by convention, the caller bails out
// immediately, so at most one diagnostic is ever produced per parse.
func (p *parser) addError(msg string, span *ast.Span) {
	code := diagnostics.EParse
	if p.peek() == lexer.TokEOF {
		// Hitting EOF mid-construct: the REPL uses this to keep reading.
		code = diagnostics.EIncomplete
	}
	p.diags = append(p.diags, diagnostics.MakeDiag(code, msg, span, ""))
}

func (p *parser) addErrorCode(code, msg string, span *ast.Span) {
	p.diags = append(p.diags, diagnostics.MakeDiag(code, msg, span, ""))
}

func (p *parser) spanFrom(start ast.Span) ast.Span {
	cur := p.current().Span
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   cur.StartLine,
		EndCol:    cur.StartCol,
	}
}

func (p *parser) spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.TokEOF {
		return "end of file"
	}
	return tok.Lexeme
}

func tokenName(t lexer.TokenType) string {
	switch t {
	case lexer.TokLBrace:
		return "'{'"
	case lexer.TokRBrace:
		return "'}'"
	case lexer.TokLParen:
		return "'('"
	case lexer.TokRParen:
		return "')'"
	case lexer.TokComma:
		return "','"
	case lexer.TokSemicolon:
		return "';'"
	case lexer.TokEqual:
		return "'='"
	case lexer.TokIdent:
		return "identifier"
	case lexer.TokNumber:
		return "number"
	case lexer.TokString:
		return "string"
	case lexer.TokEOF:
		return "end of file"
	default:
		return fmt.Sprintf("token(%d)", t)
	}
}

// --- Program ---

func (p *parser) parseProgram() *ast.Program {
	startSpan := p.current().Span

	var stmts []ast.Stmt
	for p.peek() != lexer.TokEOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Program{
		Span:       p.spanFrom(startSpan),
		Statements: stmts,
	}
}

// --- Statements ---

func (p *parser) parseStmt() ast.Stmt {
	switch p.peek() {
	case lexer.TokVar:
		return p.parseVarDecl()
	case lexer.TokPrint:
		return p.parsePrintStmt()
	case lexer.TokLBrace:
		return p.parseBlockStmt()
	case lexer.TokIf:
		return p.parseIfStmt()
	case lexer.TokWhile:
		return p.parseWhileStmt()
	case lexer.TokFor:
		return p.parseForStmt()
	case lexer.TokReturn:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseVarDecl() ast.Stmt {
	start := p.advance() // consume 'var'
	nameTok, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}

	var init ast.Expr
	if p.peek() == lexer.TokEqual {
		p.advance() // consume '='
		init = p.parseExpression(precLowest)
		if init == nil {
			return nil
		}
	}
	end, ok := p.expect(lexer.TokSemicolon)
	if !ok {
		return nil
	}
	return &ast.VarDecl{
		Span: p.spanFromTo(start.Span, end.Span),
		Name: nameTok.Value,
		Init: init,
	}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	start := p.advance() // consume 'print'
	operand := p.parseExpression(precLowest)
	if operand == nil {
		return nil
	}
	end, ok := p.expect(lexer.TokSemicolon)
	if !ok {
		return nil
	}
	return &ast.PrintStmt{
		Span:    p.spanFromTo(start.Span, end.Span),
		Operand: operand,
	}
}

func (p *parser) parseBlockStmt() ast.Stmt {
	start, ok := p.expect(lexer.TokLBrace)
	if !ok {
		return nil
	}
	stmts, ok := p.statementsUntilRBrace()
	if !ok {
		return nil
	}
	end, ok := p.expect(lexer.TokRBrace)
	if !ok {
		return nil
	}
	return &ast.BlockStmt{
		Span:       p.spanFromTo(start.Span, end.Span),
		Statements: stmts,
	}
}

// statementsUntilRBrace parses the statement list shared by block
// statements and function bodies. It stops before the closing brace: block
// statements and function literals each consume their own braces.
func (p *parser) statementsUntilRBrace() ([]ast.Stmt, bool) {
	var stmts []ast.Stmt
	for p.peek() != lexer.TokRBrace && p.peek() != lexer.TokEOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil, false
		}
		stmts = append(stmts, stmt)
	}
	return stmts, true
}

func (p *parser) parseIfStmt() ast.Stmt {
	start := p.advance() // consume 'if'
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	cond := p.parseExpression(precLowest)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}

	then := p.parseStmt()
	if then == nil {
		return nil
	}

	var elseStmt ast.Stmt
	endSpan := then.NodeSpan()
	if p.peek() == lexer.TokElse {
		p.advance() // consume 'else'
		elseStmt = p.parseStmt()
		if elseStmt == nil {
			return nil
		}
		endSpan = elseStmt.NodeSpan()
	}

	return &ast.IfStmt{
		Span: p.spanFromTo(start.Span, endSpan),
		Cond: cond,
		Then: then,
		Else: elseStmt,
	}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	start := p.advance() // consume 'while'
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	cond := p.parseExpression(precLowest)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}
	body := p.parseStmt()
	if body == nil {
		return nil
	}
	return &ast.WhileStmt{
		Span: p.spanFromTo(start.Span, body.NodeSpan()),
		Cond: cond,
		Body: body,
	}
}

// parseForStmt desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr } }`. All three clauses are optional;
// a missing condition means the loop condition is always true.
func (p *parser) parseForStmt() ast.Stmt {
	start := p.advance() // consume 'for'
	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}

	// Init clause, terminated by ';'. Either a var declaration or an
	// expression statement; both consume their own semicolon.
	var init ast.Stmt
	switch p.peek() {
	case lexer.TokSemicolon:
		p.advance()
	case lexer.TokVar:
		init = p.parseVarDecl()
		if init == nil {
			return nil
		}
	default:
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil
		}
		end, ok := p.expect(lexer.TokSemicolon)
		if !ok {
			return nil
		}
		init = &ast.ExprStmt{Span: p.spanFromTo(expr.NodeSpan(), end.Span), Expr: expr}
	}

	// Condition clause, terminated by ';'.
	var cond ast.Expr
	if p.peek() != lexer.TokSemicolon {
		cond = p.parseExpression(precLowest)
		if cond == nil {
			return nil
		}
	}
	if _, ok := p.expect(lexer.TokSemicolon); !ok {
		return nil
	}

	// Increment clause, terminated by ')'.
	var incr ast.Expr
	if p.peek() != lexer.TokRParen {
		incr = p.parseExpression(precLowest)
		if incr == nil {
			return nil
		}
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}

	body := p.parseStmt()
	if body == nil {
		return nil
	}

	span := p.spanFromTo(start.Span, body.NodeSpan())

	loopBody := body
	if incr != nil {
		loopBody = &ast.BlockStmt{
			Span:       span,
			Statements: []ast.Stmt{body, &ast.ExprStmt{Span: incr.NodeSpan(), Expr: incr}},
		}
	}
	loop := &ast.WhileStmt{Span: span, Cond: cond, Body: loopBody}

	stmts := []ast.Stmt{}
	if init != nil {
		stmts = append(stmts, init)
	}
	stmts = append(stmts, loop)
	return &ast.BlockStmt{Span: span, Statements: stmts}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	start := p.advance() // consume 'return'

	var value ast.Expr
	if p.peek() != lexer.TokSemicolon {
		value = p.parseExpression(precLowest)
		if value == nil {
			return nil
		}
	}
	end, ok := p.expect(lexer.TokSemicolon)
	if !ok {
		return nil
	}
	return &ast.ReturnStmt{
		Span:  p.spanFromTo(start.Span, end.Span),
		Value: value,
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}

	endSpan := expr.NodeSpan()
	if p.peek() == lexer.TokSemicolon {
		end := p.advance()
		endSpan = end.Span
	} else if _, isFn := expr.(*ast.FunctionLiteral); !isFn {
		// Function declarations are the only expression statements that
		// may omit the terminating semicolon.
		if _, ok := p.expect(lexer.TokSemicolon); !ok {
			return nil
		}
	}

	return &ast.ExprStmt{
		Span: p.spanFromTo(expr.NodeSpan(), endSpan),
		Expr: expr,
	}
}

// --- Expressions: precedence climbing ---

func infixPrecedence(t lexer.TokenType) int {
	switch t {
	case lexer.TokEqual:
		return precAssign
	case lexer.TokOr:
		return precOr
	case lexer.TokAnd:
		return precAnd
	case lexer.TokEqualEqual, lexer.TokBangEqual:
		return precEquality
	case lexer.TokGreater, lexer.TokGreaterEqual, lexer.TokLess, lexer.TokLessEqual:
		return precComparison
	case lexer.TokPlus, lexer.TokMinus:
		return precTerm
	case lexer.TokStar, lexer.TokSlash:
		return precFactor
	case lexer.TokLParen:
		return precCall
	default:
		return precLowest
	}
}

func binaryOpFor(t lexer.TokenType) ast.BinaryOp {
	switch t {
	case lexer.TokPlus:
		return ast.OpAdd
	case lexer.TokMinus:
		return ast.OpSub
	case lexer.TokStar:
		return ast.OpMul
	case lexer.TokSlash:
		return ast.OpDiv
	case lexer.TokGreater:
		return ast.OpGt
	case lexer.TokGreaterEqual:
		return ast.OpGtEq
	case lexer.TokLess:
		return ast.OpLt
	case lexer.TokLessEqual:
		return ast.OpLtEq
	case lexer.TokEqualEqual:
		return ast.OpEqEq
	case lexer.TokBangEqual:
		return ast.OpNeq
	case lexer.TokAnd:
		return ast.OpAnd
	case lexer.TokOr:
		return ast.OpOr
	default:
		return ast.OpAssign
	}
}

// parseExpression returns the next expression whose outermost operator
// binds at least as tightly as minPrec.
func (p *parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.peek())
		if prec <= minPrec {
			return left
		}

		switch p.peek() {
		case lexer.TokEqual:
			eq := p.advance()
			if _, ok := left.(*ast.Ident); !ok {
				span := eq.Span
				p.addErrorCode(diagnostics.EAssignTarget, "Invalid assignment target.", &span)
				return nil
			}
			// Right-associative: recurse one level below '=' itself.
			right := p.parseExpression(prec - 1)
			if right == nil {
				return nil
			}
			left = &ast.BinaryExpr{
				Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
				Op:    ast.OpAssign,
				Left:  left,
				Right: right,
			}

		case lexer.TokLParen:
			call := p.parseCall(left)
			if call == nil {
				return nil
			}
			left = call

		default:
			opTok := p.advance()
			right := p.parseExpression(prec)
			if right == nil {
				return nil
			}
			left = &ast.BinaryExpr{
				Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
				Op:    binaryOpFor(opTok.Type),
				Left:  left,
				Right: right,
			}
		}
	}
}

func (p *parser) parseCall(callee ast.Expr) ast.Expr {
	p.advance() // consume '('

	var args []ast.Expr
	if p.peek() != lexer.TokRParen {
		for {
			if len(args) >= maxCallArgs {
				tok := p.current()
				span := tok.Span
				p.addErrorCode(diagnostics.ETooManyArgs,
					fmt.Sprintf("Can't have more than %d arguments at '%s'.", maxCallArgs, tok.Lexeme), &span)
				return nil
			}
			arg := p.parseExpression(precLowest)
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.peek() != lexer.TokComma {
				break
			}
			p.advance() // consume ','
		}
	}

	end, ok := p.expect(lexer.TokRParen)
	if !ok {
		return nil
	}

	return &ast.CallExpr{
		Span:   p.spanFromTo(callee.NodeSpan(), end.Span),
		Callee: callee,
		Args:   args,
	}
}

func (p *parser) parsePrefix() ast.Expr {
	switch p.peek() {
	case lexer.TokNil:
		tok := p.advance()
		return &ast.NilLiteral{Span: tok.Span}

	case lexer.TokTrue:
		tok := p.advance()
		return &ast.BoolLiteral{Span: tok.Span, Value: true}

	case lexer.TokFalse:
		tok := p.advance()
		return &ast.BoolLiteral{Span: tok.Span, Value: false}

	case lexer.TokNumber:
		tok := p.advance()
		val, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.NumberLiteral{Span: tok.Span, Value: val}

	case lexer.TokString:
		tok := p.advance()
		return &ast.StrLiteral{Span: tok.Span, Value: tok.Value}

	case lexer.TokIdent:
		tok := p.advance()
		return &ast.Ident{Span: tok.Span, Name: tok.Value}

	case lexer.TokLParen:
		start := p.advance()
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil
		}
		end, ok := p.expect(lexer.TokRParen)
		if !ok {
			return nil
		}
		return &ast.Grouping{Span: p.spanFromTo(start.Span, end.Span), Expr: expr}

	case lexer.TokMinus, lexer.TokBang:
		tok := p.advance()
		operand := p.parseExpression(precUnary)
		if operand == nil {
			return nil
		}
		op := ast.OpNeg
		if tok.Type == lexer.TokBang {
			op = ast.OpNot
		}
		return &ast.UnaryExpr{
			Span:    p.spanFromTo(tok.Span, operand.NodeSpan()),
			Op:      op,
			Operand: operand,
		}

	case lexer.TokFun:
		return p.parseFunctionLiteral()

	case lexer.TokPrint:
		start := p.advance()
		operand := p.parseExpression(precLowest)
		if operand == nil {
			return nil
		}
		return &ast.PrintExpr{
			Span:    p.spanFromTo(start.Span, operand.NodeSpan()),
			Operand: operand,
		}

	default:
		tok := p.current()
		span := tok.Span
		p.addError(fmt.Sprintf("expected expression, got '%s'", describe(tok)), &span)
		return nil
	}
}

// parseFunctionLiteral parses `fun name?(params) { body }`. The braces
// around the body belong to the function literal, not to a block statement:
// the body shares the statement-list loop with blocks but the closing brace
// is consumed here.
func (p *parser) parseFunctionLiteral() ast.Expr {
	start := p.advance() // consume 'fun'

	name := ""
	if p.peek() == lexer.TokIdent {
		name = p.advance().Value
	}

	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	var params []string
	if p.peek() != lexer.TokRParen {
		for {
			paramTok, ok := p.expect(lexer.TokIdent)
			if !ok {
				return nil
			}
			params = append(params, paramTok.Value)
			if p.peek() != lexer.TokComma {
				break
			}
			p.advance() // consume ','
		}
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokLBrace); !ok {
		return nil
	}
	body, ok := p.statementsUntilRBrace()
	if !ok {
		return nil
	}
	end, ok := p.expect(lexer.TokRBrace)
	if !ok {
		return nil
	}

	return &ast.FunctionLiteral{
		Span:   p.spanFromTo(start.Span, end.Span),
		Name:   name,
		Params: params,
		Body:   body,
	}
}
