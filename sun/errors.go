package sun

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies interpreter failures. Every kind is itself an error so
// callers can match with errors.Is(err, sun.DivisionByZeroError).
type ErrorKind int

const (
	LexError ErrorKind = iota + 1
	ParseError
	UndeclaredVariableError
	UndeclaredFunctionError
	ArityMismatchError
	TypeMismatchError
	DivisionByZeroError
	IndexNotFoundError
	RecursionLimitError
	InputError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case UndeclaredVariableError:
		return "UndeclaredVariableError"
	case UndeclaredFunctionError:
		return "UndeclaredFunctionError"
	case ArityMismatchError:
		return "ArityMismatchError"
	case TypeMismatchError:
		return "TypeMismatchError"
	case DivisionByZeroError:
		return "DivisionByZeroError"
	case IndexNotFoundError:
		return "IndexNotFoundError"
	case RecursionLimitError:
		return "RecursionLimitError"
	case InputError:
		return "InputError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) Error() string {
	return k.String()
}

// StackFrame names a function invocation that was active when an error was raised.
type StackFrame struct {
	Function string
	Pos      Position
}

// Error is the single error type produced by lexing, parsing and evaluation.
type Error struct {
	Kind      ErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, "%s at %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	}
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Unwrap exposes the kind so errors.Is can match on it.
func (e *Error) Unwrap() error {
	return e.Kind
}

// newError builds an unlocated error. The evaluator attaches position and
// frames when the error crosses a node boundary.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// formatCodeFrame renders the offending source line with a caret under the
// reported column. It returns "" when the position falls outside source.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[pos.Line-1], "\r")
	width := utf8.RuneCountInString(text)
	column := min(max(pos.Column, 1), width+1)

	label := strconv.Itoa(pos.Line)
	return fmt.Sprintf("  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line, column,
		label, text,
		strings.Repeat(" ", len(label)), strings.Repeat(" ", column-1))
}
