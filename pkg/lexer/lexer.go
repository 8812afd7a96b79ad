// Package lexer implements the Lox tokenizer.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thomasrohde/lox/pkg/ast"
	"github.com/thomasrohde/lox/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Keywords
	TokAnd TokenType = iota
	TokOr
	TokTrue
	TokFalse
	TokNil
	TokVar
	TokFun
	TokIf
	TokElse
	TokWhile
	TokFor
	TokPrint
	TokReturn

	// Literals
	TokNumber
	TokString

	// Identifiers
	TokIdent

	// Punctuation
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
	TokComma     // ,
	TokDot       // .
	TokSemicolon // ;

	// Operators
	TokPlus         // +
	TokMinus        // -
	TokStar         // *
	TokSlash        // /
	TokBang         // !
	TokBangEqual    // !=
	TokEqual        // =
	TokEqualEqual   // ==
	TokGreater      // >
	TokGreaterEqual // >=
	TokLess         // <
	TokLessEqual    // <=

	// Special
	TokEOF
)

// Token represents a single lexer token. Value carries the decoded string
// for string literals and the raw lexeme otherwise.
type Token struct {
	Type   TokenType
	Lexeme string
	Value  string
	Span   ast.Span
}

var keywords = map[string]TokenType{
	"and":    TokAnd,
	"or":     TokOr,
	"true":   TokTrue,
	"false":  TokFalse,
	"nil":    TokNil,
	"var":    TokVar,
	"fun":    TokFun,
	"if":     TokIf,
	"else":   TokElse,
	"while":  TokWhile,
	"for":    TokFor,
	"print":  TokPrint,
	"return": TokReturn,
}

var tokenNames = map[TokenType]string{
	TokAnd:          "AND",
	TokOr:           "OR",
	TokTrue:         "TRUE",
	TokFalse:        "FALSE",
	TokNil:          "NIL",
	TokVar:          "VAR",
	TokFun:          "FUN",
	TokIf:           "IF",
	TokElse:         "ELSE",
	TokWhile:        "WHILE",
	TokFor:          "FOR",
	TokPrint:        "PRINT",
	TokReturn:       "RETURN",
	TokNumber:       "NUMBER",
	TokString:       "STRING",
	TokIdent:        "IDENTIFIER",
	TokLParen:       "LEFT_PAREN",
	TokRParen:       "RIGHT_PAREN",
	TokLBrace:       "LEFT_BRACE",
	TokRBrace:       "RIGHT_BRACE",
	TokComma:        "COMMA",
	TokDot:          "DOT",
	TokSemicolon:    "SEMICOLON",
	TokPlus:         "PLUS",
	TokMinus:        "MINUS",
	TokStar:         "STAR",
	TokSlash:        "SLASH",
	TokBang:         "BANG",
	TokBangEqual:    "BANG_EQUAL",
	TokEqual:        "EQUAL",
	TokEqualEqual:   "EQUAL_EQUAL",
	TokGreater:      "GREATER",
	TokGreaterEqual: "GREATER_EQUAL",
	TokLess:         "LESS",
	TokLessEqual:    "LESS_EQUAL",
	TokEOF:          "EOF",
}

// String renders the token in the scanner dump shape used by the tokenize
// command: TYPE lexeme literal, where literal is "null" except for number
// and string literals.
func (t Token) String() string {
	literal := "null"
	switch t.Type {
	case TokNumber:
		val, _ := strconv.ParseFloat(t.Lexeme, 64)
		literal = strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(literal, ".") {
			literal += ".0"
		}
	case TokString:
		literal = t.Value
	}
	return fmt.Sprintf("%s %s %s", tokenNames[t.Type], t.Lexeme, literal)
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans source into a token slice terminated by an EOF token.
// The first lexical error aborts scanning.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token
	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			return tokens, nil
		}
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else if ch == '/' && s.peekAt(1) == '/' {
			// Skip comment to end of line
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

// scanString scans a double-quoted string literal. Lox strings have no
// escape sequences and may span multiple lines; the bytes between the
// quotes are kept verbatim.
func (s *scanner) scanString() (Token, error) {
	startLine, startCol := s.line, s.col
	s.advance() // consume opening "
	startPos := s.pos

	for !s.atEnd() {
		if s.peek() == '"' {
			value := s.source[startPos:s.pos]
			s.advance() // consume closing "
			return Token{
				Type:   TokString,
				Lexeme: `"` + value + `"`,
				Value:  value,
				Span:   s.span(startLine, startCol),
			}, nil
		}
		s.advance()
	}
	return Token{}, s.lexError(startLine, startCol, "Error: Unterminated string.")
}

func (s *scanner) scanNumber() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	// Optional fractional part; a bare trailing '.' is a DOT token, not
	// part of the number.
	if !s.atEnd() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // consume '.'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	text := s.source[startPos:s.pos]
	return Token{
		Type:   TokNumber,
		Lexeme: text,
		Value:  text,
		Span:   s.span(startLine, startCol),
	}
}

func (s *scanner) scanIdentOrKeyword() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[startPos:s.pos]
	if tokType, ok := keywords[text]; ok {
		return Token{
			Type:   tokType,
			Lexeme: text,
			Value:  text,
			Span:   s.span(startLine, startCol),
		}
	}

	return Token{
		Type:   TokIdent,
		Lexeme: text,
		Value:  text,
		Span:   s.span(startLine, startCol),
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&ast.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1},
		"",
	)
	return &LexError{Diag: diag}
}

func (s *scanner) punct(tokType TokenType, lexeme string) Token {
	startLine, startCol := s.line, s.col
	for range lexeme {
		s.advance()
	}
	return Token{Type: tokType, Lexeme: lexeme, Value: lexeme, Span: s.span(startLine, startCol)}
}

func (s *scanner) nextToken() (Token, error) {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		return Token{
			Type: TokEOF,
			Span: s.span(s.line, s.col),
		}, nil
	}

	ch := s.peek()

	switch ch {
	case '(':
		return s.punct(TokLParen, "("), nil
	case ')':
		return s.punct(TokRParen, ")"), nil
	case '{':
		return s.punct(TokLBrace, "{"), nil
	case '}':
		return s.punct(TokRBrace, "}"), nil
	case ',':
		return s.punct(TokComma, ","), nil
	case '.':
		return s.punct(TokDot, "."), nil
	case ';':
		return s.punct(TokSemicolon, ";"), nil
	case '+':
		return s.punct(TokPlus, "+"), nil
	case '-':
		return s.punct(TokMinus, "-"), nil
	case '*':
		return s.punct(TokStar, "*"), nil
	case '/':
		return s.punct(TokSlash, "/"), nil
	case '!':
		if s.peekAt(1) == '=' {
			return s.punct(TokBangEqual, "!="), nil
		}
		return s.punct(TokBang, "!"), nil
	case '=':
		if s.peekAt(1) == '=' {
			return s.punct(TokEqualEqual, "=="), nil
		}
		return s.punct(TokEqual, "="), nil
	case '>':
		if s.peekAt(1) == '=' {
			return s.punct(TokGreaterEqual, ">="), nil
		}
		return s.punct(TokGreater, ">"), nil
	case '<':
		if s.peekAt(1) == '=' {
			return s.punct(TokLessEqual, "<="), nil
		}
		return s.punct(TokLess, "<"), nil
	case '"':
		return s.scanString()
	}

	if isDigit(ch) {
		return s.scanNumber(), nil
	}
	if isAlpha(ch) {
		return s.scanIdentOrKeyword(), nil
	}

	startLine, startCol := s.line, s.col
	s.advance()
	return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("Error: Unexpected character: %c", ch))
}
