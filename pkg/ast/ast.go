// Package ast defines the Lox language AST node types.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// BinaryOp represents a binary operator. Assignment and the short-circuit
// logical operators are represented as infix nodes and handled specially by
// the evaluator.
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpGt     BinaryOp = ">"
	OpLt     BinaryOp = "<"
	OpGtEq   BinaryOp = ">="
	OpLtEq   BinaryOp = "<="
	OpEqEq   BinaryOp = "=="
	OpNeq    BinaryOp = "!="
	OpAssign BinaryOp = "="
	OpAnd    BinaryOp = "and"
	OpOr     BinaryOp = "or"
)

// UnaryOp represents a prefix operator.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Span       Span
	Statements []Stmt
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }

// --- Literal Expressions ---

type NilLiteral struct {
	Span Span
}

func (n *NilLiteral) Kind() string   { return "NilLiteral" }
func (n *NilLiteral) NodeSpan() Span { return n.Span }
func (n *NilLiteral) exprNode()      {}

type BoolLiteral struct {
	Span  Span
	Value bool
}

func (n *BoolLiteral) Kind() string   { return "BoolLiteral" }
func (n *BoolLiteral) NodeSpan() Span { return n.Span }
func (n *BoolLiteral) exprNode()      {}

type NumberLiteral struct {
	Span  Span
	Value float64
}

func (n *NumberLiteral) Kind() string   { return "NumberLiteral" }
func (n *NumberLiteral) NodeSpan() Span { return n.Span }
func (n *NumberLiteral) exprNode()      {}

type StrLiteral struct {
	Span  Span
	Value string
}

func (n *StrLiteral) Kind() string   { return "StrLiteral" }
func (n *StrLiteral) NodeSpan() Span { return n.Span }
func (n *StrLiteral) exprNode()      {}

// --- Identifiers ---

type Ident struct {
	Span Span
	Name string
}

func (n *Ident) Kind() string   { return "Ident" }
func (n *Ident) NodeSpan() Span { return n.Span }
func (n *Ident) exprNode()      {}

// --- Compound Expressions ---

// Grouping is a parenthesized expression. It exists only to force
// precedence during parsing; the evaluator looks straight through it.
type Grouping struct {
	Span Span
	Expr Expr
}

func (n *Grouping) Kind() string   { return "Grouping" }
func (n *Grouping) NodeSpan() Span { return n.Span }
func (n *Grouping) exprNode()      {}

type UnaryExpr struct {
	Span    Span
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryExpr) Kind() string   { return "UnaryExpr" }
func (n *UnaryExpr) NodeSpan() Span { return n.Span }
func (n *UnaryExpr) exprNode()      {}

type BinaryExpr struct {
	Span  Span
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Kind() string   { return "BinaryExpr" }
func (n *BinaryExpr) NodeSpan() Span { return n.Span }
func (n *BinaryExpr) exprNode()      {}

// FunctionLiteral is a function expression. Name is empty for anonymous
// functions; a named literal also binds itself in the environment where it
// is evaluated, which is what makes local recursion work.
type FunctionLiteral struct {
	Span   Span
	Name   string
	Params []string
	Body   []Stmt
}

func (n *FunctionLiteral) Kind() string   { return "FunctionLiteral" }
func (n *FunctionLiteral) NodeSpan() Span { return n.Span }
func (n *FunctionLiteral) exprNode()      {}

type CallExpr struct {
	Span   Span
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) Kind() string   { return "CallExpr" }
func (n *CallExpr) NodeSpan() Span { return n.Span }
func (n *CallExpr) exprNode()      {}

// PrintExpr is the expression form of print. It is distinct from PrintStmt
// because print may appear as the right operand of `and`/`or`.
type PrintExpr struct {
	Span    Span
	Operand Expr
}

func (n *PrintExpr) Kind() string   { return "PrintExpr" }
func (n *PrintExpr) NodeSpan() Span { return n.Span }
func (n *PrintExpr) exprNode()      {}

// --- Statements ---

type ExprStmt struct {
	Span Span
	Expr Expr
}

func (n *ExprStmt) Kind() string   { return "ExprStmt" }
func (n *ExprStmt) NodeSpan() Span { return n.Span }
func (n *ExprStmt) stmtNode()      {}

type PrintStmt struct {
	Span    Span
	Operand Expr
}

func (n *PrintStmt) Kind() string   { return "PrintStmt" }
func (n *PrintStmt) NodeSpan() Span { return n.Span }
func (n *PrintStmt) stmtNode()      {}

// VarDecl declares (or re-declares, shadowing) a name in the current scope.
// Init may be nil, in which case the variable is bound to nil.
type VarDecl struct {
	Span Span
	Name string
	Init Expr
}

func (n *VarDecl) Kind() string   { return "VarDecl" }
func (n *VarDecl) NodeSpan() Span { return n.Span }
func (n *VarDecl) stmtNode()      {}

type BlockStmt struct {
	Span       Span
	Statements []Stmt
}

func (n *BlockStmt) Kind() string   { return "BlockStmt" }
func (n *BlockStmt) NodeSpan() Span { return n.Span }
func (n *BlockStmt) stmtNode()      {}

type IfStmt struct {
	Span Span
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

func (n *IfStmt) Kind() string   { return "IfStmt" }
func (n *IfStmt) NodeSpan() Span { return n.Span }
func (n *IfStmt) stmtNode()      {}

// WhileStmt loops while Cond is truthy. A nil Cond means "true"; the parser
// produces that form when desugaring a `for` with an empty condition clause.
type WhileStmt struct {
	Span Span
	Cond Expr
	Body Stmt
}

func (n *WhileStmt) Kind() string   { return "WhileStmt" }
func (n *WhileStmt) NodeSpan() Span { return n.Span }
func (n *WhileStmt) stmtNode()      {}

type ReturnStmt struct {
	Span  Span
	Value Expr
}

func (n *ReturnStmt) Kind() string   { return "ReturnStmt" }
func (n *ReturnStmt) NodeSpan() Span { return n.Span }
func (n *ReturnStmt) stmtNode()      {}
