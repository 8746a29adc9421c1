package sun

func (exec *execution) visitNumber(e *NumberLiteral) (Value, error) {
	return NewNumber(e.Value), nil
}

func (exec *execution) visitText(e *TextLiteral) (Value, error) {
	return NewText(e.Value), nil
}

func (exec *execution) visitBoolean(e *BooleanLiteral) (Value, error) {
	return NewBoolean(e.Value), nil
}

func (exec *execution) visitVariable(e *Variable) (Value, error) {
	return exec.getVariable(e)
}

func (exec *execution) visitUnary(e *UnaryExpr) (Value, error) {
	operand, err := exec.eval(e.Operand)
	if err != nil {
		return Value{}, err
	}
	return Apply(e.Op, operand)
}

// visitBinary evaluates both sides before applying the operation, AND and OR
// included.
func (exec *execution) visitBinary(e *BinaryExpr) (Value, error) {
	left, err := exec.eval(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := exec.eval(e.Right)
	if err != nil {
		return Value{}, err
	}
	return Apply(e.Op, left, right)
}

func (exec *execution) visitAssign(e *AssignExpr) (Value, error) {
	val, err := exec.eval(e.Value)
	if err != nil {
		return Value{}, err
	}
	if err := exec.setVariable(e.Target, val); err != nil {
		return Value{}, err
	}
	return val, nil
}

func (exec *execution) visitCall(e *CallExpr) (Value, error) {
	val, ok, err := exec.invoke(e)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{}, newError(TypeMismatchError, "%s did not return a value", e.Name)
	}
	return val, nil
}
