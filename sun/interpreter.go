package sun

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/oarkflow/log"
)

// Printer receives every value a program prints.
type Printer interface {
	Emit(Value) error
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(Value) error

func (f PrinterFunc) Emit(v Value) error { return f(v) }

// Reader supplies a line of input for Enter. name is the variable being read
// so hosts can prompt for it.
type Reader interface {
	ReadLine(name string) (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(name string) (string, error)

func (f ReaderFunc) ReadLine(name string) (string, error) { return f(name) }

// Config controls how an Interpreter talks to its host.
type Config struct {
	// Capture buffers printed values for Output and keeps state after Run.
	// Without it Run prints errors instead of returning them and discards
	// state when it finishes.
	Capture bool

	Printer Printer
	Reader  Reader
	Logger  *log.Logger

	// RecursionLimit caps active function invocations. Zero means no cap.
	RecursionLimit int
	Rand           *rand.Rand
}

// Interpreter owns the function table, the global context and the output
// buffer for one program at a time. It is not safe for concurrent use.
type Interpreter struct {
	config    Config
	functions map[string]*FunctionStmt
	natives   map[string]native
	global    *Context
	output    []Value
}

// New constructs an Interpreter, filling unset hooks with stdout and stdin.
func New(cfg Config) *Interpreter {
	if cfg.Printer == nil {
		cfg.Printer = PrinterFunc(func(v Value) error {
			_, err := fmt.Fprintln(os.Stdout, v.String())
			return err
		})
	}
	if cfg.Reader == nil {
		cfg.Reader = newLineReader(bufio.NewReader(os.Stdin))
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.RecursionLimit < 0 {
		cfg.RecursionLimit = 0
	}

	in := &Interpreter{
		config:  cfg,
		natives: make(map[string]native),
	}
	in.Reset()
	registerNatives(in)
	return in
}

// Run executes source from a fresh state. In capture mode the first error is
// returned and state stays inspectable; otherwise the error text goes to the
// Printer and state is discarded.
func (in *Interpreter) Run(ctx context.Context, source string) error {
	in.Reset()
	_, _, err := in.evaluate(ctx, source)
	if in.config.Capture {
		return err
	}

	defer in.Reset()
	if err != nil {
		return in.config.Printer.Emit(NewText(err.Error()))
	}
	return nil
}

// Eval executes source against the state left by earlier calls and returns
// the value of a trailing expression statement, if there is one. Errors are
// always returned.
func (in *Interpreter) Eval(ctx context.Context, source string) (Value, bool, error) {
	return in.evaluate(ctx, source)
}

func (in *Interpreter) evaluate(ctx context.Context, source string) (Value, bool, error) {
	runID := uuid.NewString()
	if logger := in.config.Logger; logger != nil {
		logger.Debug().Str("run_id", runID).Int("bytes", len(source)).Msg("run started")
	}

	program, err := Parse(source)
	var (
		last    Value
		hasLast bool
	)
	if err == nil {
		last, hasLast, err = in.execute(ctx, source, program)
	}

	if logger := in.config.Logger; logger != nil {
		if err != nil {
			logger.Error().Str("run_id", runID).Err(err).Msg("run failed")
		} else {
			logger.Debug().Str("run_id", runID).Int("output", len(in.output)).Msg("run finished")
		}
	}
	return last, hasLast, err
}

// Reset discards functions, variables and buffered output.
func (in *Interpreter) Reset() {
	in.functions = make(map[string]*FunctionStmt)
	in.global = newContext()
	in.output = nil
}

// Output returns the values printed in capture mode.
func (in *Interpreter) Output() []Value {
	return append([]Value(nil), in.output...)
}

// Globals returns a copy of the global variables.
func (in *Interpreter) Globals() map[string]Value {
	return in.global.Snapshot()
}

// Global exposes the global context for inspection.
func (in *Interpreter) Global() *Context {
	return in.global
}

// Lookup returns a global variable's value.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	return in.global.Get(name)
}

// Function returns the registered definition for name.
func (in *Interpreter) Function(name string) (*FunctionStmt, bool) {
	fn, ok := in.functions[name]
	return fn, ok
}

func (in *Interpreter) emit(v Value) error {
	if in.config.Capture {
		in.output = append(in.output, v)
		return nil
	}
	return in.config.Printer.Emit(v)
}

type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r *bufio.Reader) *lineReader {
	return &lineReader{r: r}
}

func (l *lineReader) ReadLine(string) (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
