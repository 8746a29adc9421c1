package sun

import (
	"math"
	"strconv"
	"strings"
)

func (exec *execution) visitExprStmt(s *ExprStmt) (signal, error) {
	// A bare call may come from a function without Return.
	if call, ok := s.Expr.(*CallExpr); ok {
		val, _, err := exec.invoke(call)
		if err != nil {
			return signal{}, exec.locate(err, call.Pos())
		}
		return signal{value: val}, nil
	}
	val, err := exec.eval(s.Expr)
	if err != nil {
		return signal{}, err
	}
	return signal{value: val}, nil
}

func (exec *execution) visitKeyword(s *KeywordStmt) (signal, error) {
	switch s.Keyword {
	case KeywordPrint:
		val, err := exec.eval(s.Operand)
		if err != nil {
			return signal{}, err
		}
		return signal{}, exec.interp.emit(val)
	case KeywordEnter:
		return signal{}, exec.enter(s.Operand)
	default:
		return signal{}, newError(ParseError, "unknown keyword %s", s.Keyword)
	}
}

// enter reads a line into a plain variable. Text that parses as a finite
// decimal number is stored as a Number.
func (exec *execution) enter(operand Expression) error {
	target, ok := operand.(*Variable)
	if !ok || target.Indexed() {
		return newError(TypeMismatchError, "Enter needs a plain variable")
	}
	line, err := exec.interp.config.Reader.ReadLine(target.Name)
	if err != nil {
		return newError(InputError, "reading %s: %v", target.Name, err)
	}
	return exec.setVariable(target, parseInput(line))
}

func parseInput(line string) Value {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if strings.ContainsAny(trimmed, "xX_") {
		return NewText(line)
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NewNumber(n)
	}
	return NewText(line)
}

func (exec *execution) visitIf(s *IfStmt) (signal, error) {
	cond, err := exec.eval(s.Condition)
	if err != nil {
		return signal{}, err
	}
	if cond.Truthy() {
		return exec.execBlock(s.Then)
	}
	return exec.execBlock(s.Else)
}

func (exec *execution) visitLoop(s *LoopStmt) (signal, error) {
	start, err := exec.eval(s.Start)
	if err != nil {
		return signal{}, err
	}
	if start.kind != KindNumber {
		return signal{}, exec.locate(newError(TypeMismatchError, "loop start must be a number, got %s", start.kind), s.Start.Pos())
	}
	stop, err := exec.eval(s.Stop)
	if err != nil {
		return signal{}, err
	}
	if stop.kind != KindNumber {
		return signal{}, exec.locate(newError(TypeMismatchError, "loop stop must be a number, got %s", stop.kind), s.Stop.Pos())
	}

	counter := &Variable{Name: s.Var, position: s.position}
	if err := exec.setVariable(counter, start); err != nil {
		return signal{}, err
	}
	cell, _ := exec.current().lookup(s.Var)

	for cell.value.Number() <= stop.Number() {
		if err := exec.step(); err != nil {
			return signal{}, err
		}
		sig, err := exec.execBlock(s.Body)
		if err != nil || sig.kind == signalReturn {
			return sig, err
		}
		if cell.value.kind != KindNumber {
			return signal{}, exec.locate(newError(TypeMismatchError, "loop variable %s is no longer a number", s.Var), s.position)
		}
		cell.value = NewNumber(cell.value.Number() + 1)
	}
	return signal{}, nil
}

func (exec *execution) visitWhile(s *WhileStmt) (signal, error) {
	for {
		if err := exec.step(); err != nil {
			return signal{}, err
		}
		cond, err := exec.eval(s.Condition)
		if err != nil {
			return signal{}, err
		}
		if !cond.Truthy() {
			return signal{}, nil
		}
		sig, err := exec.execBlock(s.Body)
		if err != nil || sig.kind == signalReturn {
			return sig, err
		}
	}
}

// visitFunction registers s, replacing any earlier definition of the name.
func (exec *execution) visitFunction(s *FunctionStmt) (signal, error) {
	exec.interp.functions[s.Name] = s
	return signal{}, nil
}

func (exec *execution) visitReturn(s *ReturnStmt) (signal, error) {
	val, err := exec.eval(s.Value)
	if err != nil {
		return signal{}, err
	}
	return signal{kind: signalReturn, value: val}, nil
}
