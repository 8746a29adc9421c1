package sun

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// Statement is a node executed for its effect.
type Statement interface {
	Node
	acceptStmt(stmtVisitor) (signal, error)
}

// Expression is a node evaluated to a Value.
type Expression interface {
	Node
	acceptExpr(exprVisitor) (Value, error)
}

// exprVisitor has one method per expression kind; a new kind must be handled
// here before it can satisfy Expression.
type exprVisitor interface {
	visitNumber(*NumberLiteral) (Value, error)
	visitText(*TextLiteral) (Value, error)
	visitBoolean(*BooleanLiteral) (Value, error)
	visitVariable(*Variable) (Value, error)
	visitUnary(*UnaryExpr) (Value, error)
	visitBinary(*BinaryExpr) (Value, error)
	visitAssign(*AssignExpr) (Value, error)
	visitCall(*CallExpr) (Value, error)
}

// Program is the ordered top-level statement list of a source file.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

type NumberLiteral struct {
	Value    float64
	position Position
}

func (e *NumberLiteral) Pos() Position { return e.position }
func (e *NumberLiteral) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitNumber(e)
}

type TextLiteral struct {
	Value    string
	position Position
}

func (e *TextLiteral) Pos() Position { return e.position }
func (e *TextLiteral) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitText(e)
}

type BooleanLiteral struct {
	Value    bool
	position Position
}

func (e *BooleanLiteral) Pos() Position { return e.position }
func (e *BooleanLiteral) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitBoolean(e)
}

// Variable references a named variable, optionally addressing an array
// element through one or more index expressions.
type Variable struct {
	Name     string
	Indices  []Expression
	position Position
}

func (e *Variable) Pos() Position { return e.position }
func (e *Variable) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitVariable(e)
}

// Indexed reports whether the reference addresses an array element.
func (e *Variable) Indexed() bool { return len(e.Indices) > 0 }

type UnaryExpr struct {
	Op       OpTag
	Operand  Expression
	position Position
}

func (e *UnaryExpr) Pos() Position { return e.position }
func (e *UnaryExpr) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitUnary(e)
}

type BinaryExpr struct {
	Op       OpTag
	Left     Expression
	Right    Expression
	position Position
}

func (e *BinaryExpr) Pos() Position { return e.position }
func (e *BinaryExpr) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitBinary(e)
}

// AssignExpr stores Value into Target and yields the stored value.
type AssignExpr struct {
	Target   *Variable
	Value    Expression
	position Position
}

func (e *AssignExpr) Pos() Position { return e.position }
func (e *AssignExpr) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitAssign(e)
}

type CallExpr struct {
	Name     string
	Args     []Expression
	position Position
}

func (e *CallExpr) Pos() Position { return e.position }
func (e *CallExpr) acceptExpr(v exprVisitor) (Value, error) {
	return v.visitCall(e)
}
