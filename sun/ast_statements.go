package sun

type stmtVisitor interface {
	visitExprStmt(*ExprStmt) (signal, error)
	visitKeyword(*KeywordStmt) (signal, error)
	visitIf(*IfStmt) (signal, error)
	visitLoop(*LoopStmt) (signal, error)
	visitWhile(*WhileStmt) (signal, error)
	visitFunction(*FunctionStmt) (signal, error)
	visitReturn(*ReturnStmt) (signal, error)
}

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) Pos() Position { return s.position }
func (s *ExprStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitExprStmt(s)
}

// Keyword names the built-in statement actions.
type Keyword string

const (
	KeywordPrint Keyword = "Print"
	KeywordEnter Keyword = "Enter"
)

type KeywordStmt struct {
	Keyword  Keyword
	Operand  Expression
	position Position
}

func (s *KeywordStmt) Pos() Position { return s.position }
func (s *KeywordStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitKeyword(s)
}

type IfStmt struct {
	Condition Expression
	Then      []Statement
	Else      []Statement
	position  Position
}

func (s *IfStmt) Pos() Position { return s.position }
func (s *IfStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitIf(s)
}

// LoopStmt counts Var from Start to Stop inclusive in steps of one.
type LoopStmt struct {
	Var      string
	Start    Expression
	Stop     Expression
	Body     []Statement
	position Position
}

func (s *LoopStmt) Pos() Position { return s.position }
func (s *LoopStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitLoop(s)
}

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	position  Position
}

func (s *WhileStmt) Pos() Position { return s.position }
func (s *WhileStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitWhile(s)
}

// Param is a declared function parameter. ByRef parameters alias the
// caller's variable instead of receiving a copy.
type Param struct {
	Name  string
	ByRef bool
}

type FunctionStmt struct {
	Name     string
	Params   []Param
	Body     []Statement
	position Position
}

func (s *FunctionStmt) Pos() Position { return s.position }
func (s *FunctionStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitFunction(s)
}

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) Pos() Position { return s.position }
func (s *ReturnStmt) acceptStmt(v stmtVisitor) (signal, error) {
	return v.visitReturn(s)
}
