package sun

import "slices"

// EqualNodes compares two trees structurally, ignoring source positions.
func EqualNodes(a, b Node) bool {
	if isNilNode(a) || isNilNode(b) {
		return isNilNode(a) && isNilNode(b)
	}
	switch x := a.(type) {
	case *Program:
		y, ok := b.(*Program)
		return ok && equalStatements(x.Statements, y.Statements)
	case *NumberLiteral:
		y, ok := b.(*NumberLiteral)
		return ok && x.Value == y.Value
	case *TextLiteral:
		y, ok := b.(*TextLiteral)
		return ok && x.Value == y.Value
	case *BooleanLiteral:
		y, ok := b.(*BooleanLiteral)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name && equalExpressions(x.Indices, y.Indices)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && EqualNodes(x.Operand, y.Operand)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && EqualNodes(x.Left, y.Left) && EqualNodes(x.Right, y.Right)
	case *AssignExpr:
		y, ok := b.(*AssignExpr)
		return ok && EqualNodes(x.Target, y.Target) && EqualNodes(x.Value, y.Value)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		return ok && x.Name == y.Name && equalExpressions(x.Args, y.Args)
	case *ExprStmt:
		y, ok := b.(*ExprStmt)
		return ok && EqualNodes(x.Expr, y.Expr)
	case *KeywordStmt:
		y, ok := b.(*KeywordStmt)
		return ok && x.Keyword == y.Keyword && EqualNodes(x.Operand, y.Operand)
	case *IfStmt:
		y, ok := b.(*IfStmt)
		return ok && EqualNodes(x.Condition, y.Condition) &&
			equalStatements(x.Then, y.Then) && equalStatements(x.Else, y.Else)
	case *LoopStmt:
		y, ok := b.(*LoopStmt)
		return ok && x.Var == y.Var && EqualNodes(x.Start, y.Start) &&
			EqualNodes(x.Stop, y.Stop) && equalStatements(x.Body, y.Body)
	case *WhileStmt:
		y, ok := b.(*WhileStmt)
		return ok && EqualNodes(x.Condition, y.Condition) && equalStatements(x.Body, y.Body)
	case *FunctionStmt:
		y, ok := b.(*FunctionStmt)
		return ok && x.Name == y.Name && slices.Equal(x.Params, y.Params) && equalStatements(x.Body, y.Body)
	case *ReturnStmt:
		y, ok := b.(*ReturnStmt)
		return ok && EqualNodes(x.Value, y.Value)
	default:
		return false
	}
}

// isNilNode treats typed nil pointers inside the interface as nil.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Variable:
		return v == nil
	case *Program:
		return v == nil
	}
	return false
}

func equalExpressions(a, b []Expression) bool {
	return slices.EqualFunc(a, b, func(x, y Expression) bool { return EqualNodes(x, y) })
}

func equalStatements(a, b []Statement) bool {
	return slices.EqualFunc(a, b, func(x, y Statement) bool { return EqualNodes(x, y) })
}
