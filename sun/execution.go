package sun

import (
	"context"
	"errors"
)

type signalKind int

const (
	signalContinue signalKind = iota
	signalReturn
)

// signal tells a block whether to keep going. A Return carries its value
// out through every enclosing block of the same invocation.
type signal struct {
	kind  signalKind
	value Value
}

var (
	_ exprVisitor = (*execution)(nil)
	_ stmtVisitor = (*execution)(nil)
)

type callFrame struct {
	function string
	pos      Position
	context  *Context
}

// execution walks one parsed program. Each active call owns a frame whose
// context is isolated from every other frame, recursive calls included.
type execution struct {
	interp    *Interpreter
	ctx       context.Context
	source    string
	callStack []callFrame
}

func (in *Interpreter) execute(ctx context.Context, source string, program *Program) (Value, bool, error) {
	exec := &execution{interp: in, ctx: ctx, source: source}

	var rest []Statement
	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*FunctionStmt); ok {
			if _, err := exec.visitFunction(fn); err != nil {
				return Value{}, false, err
			}
			continue
		}
		rest = append(rest, stmt)
	}

	var (
		last    Value
		hasLast bool
	)
	for _, stmt := range rest {
		if err := exec.step(); err != nil {
			return Value{}, false, err
		}
		sig, err := stmt.acceptStmt(exec)
		if err != nil {
			return Value{}, false, exec.locate(err, stmt.Pos())
		}
		_, isExpr := stmt.(*ExprStmt)
		last, hasLast = sig.value, isExpr && !sig.value.IsNothing()
	}
	return last, hasLast, nil
}

func (exec *execution) step() error {
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

// current returns the context of the innermost call, or the global context.
func (exec *execution) current() *Context {
	if n := len(exec.callStack); n > 0 {
		return exec.callStack[n-1].context
	}
	return exec.interp.global
}

func (exec *execution) pushFrame(function string, pos Position, ctx *Context) error {
	if limit := exec.interp.config.RecursionLimit; limit > 0 && len(exec.callStack) >= limit {
		return newError(RecursionLimitError, "call depth exceeded %d calling %s", limit, function)
	}
	exec.callStack = append(exec.callStack, callFrame{function: function, pos: pos, context: ctx})
	return nil
}

func (exec *execution) popFrame() {
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// locate attaches position, code frame and call frames to an error raised
// beneath pos. Errors that already carry a position pass through untouched.
func (exec *execution) locate(err error, pos Position) error {
	var located *Error
	if !errors.As(err, &located) || located.Pos.Line > 0 {
		return err
	}
	located.Pos = pos
	located.CodeFrame = formatCodeFrame(exec.source, pos)
	if n := len(exec.callStack); n > 0 {
		frames := make([]StackFrame, 0, n+1)
		frames = append(frames, StackFrame{Function: exec.callStack[n-1].function, Pos: pos})
		for i := n - 1; i >= 0; i-- {
			caller := "<main>"
			if i > 0 {
				caller = exec.callStack[i-1].function
			}
			frames = append(frames, StackFrame{Function: caller, Pos: exec.callStack[i].pos})
		}
		located.Frames = frames
	}
	return located
}

func (exec *execution) execBlock(stmts []Statement) (signal, error) {
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return signal{}, err
		}
		sig, err := stmt.acceptStmt(exec)
		if err != nil {
			return signal{}, exec.locate(err, stmt.Pos())
		}
		if sig.kind == signalReturn {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (exec *execution) eval(expr Expression) (Value, error) {
	val, err := expr.acceptExpr(exec)
	if err != nil {
		return Value{}, exec.locate(err, expr.Pos())
	}
	return val, nil
}
