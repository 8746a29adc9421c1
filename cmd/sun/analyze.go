package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/mgomes/sunscript/sun"
)

const mainFunction = "<main>"

type lintWarning struct {
	Function string
	Pos      sun.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("sun analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	program, err := sun.Parse(string(input))
	if err != nil {
		return fmt.Errorf("analysis parse failed: %w", err)
	}

	warnings := analyzeProgram(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

type linter struct {
	functions map[string]*sun.FunctionStmt
	natives   []string
	warnings  []lintWarning
}

func analyzeProgram(program *sun.Program) []lintWarning {
	l := &linter{
		functions: make(map[string]*sun.FunctionStmt),
		natives:   sun.NativeNames(),
		warnings:  make([]lintWarning, 0),
	}
	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*sun.FunctionStmt); ok {
			l.functions[fn.Name] = fn
		}
	}

	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*sun.FunctionStmt); ok {
			l.statements(fn.Name, fn.Body)
			continue
		}
		l.statements(mainFunction, []sun.Statement{stmt})
	}

	warnings := l.warnings
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

func (l *linter) warn(function string, pos sun.Position, format string, args ...any) {
	l.warnings = append(l.warnings, lintWarning{
		Function: function,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// statements reports whether the block always ends in Return.
func (l *linter) statements(function string, statements []sun.Statement) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			l.warn(function, stmt.Pos(), "unreachable statement")
			continue
		}
		if l.statementTerminates(function, stmt) {
			terminated = true
		}
	}
	return terminated
}

func (l *linter) statementTerminates(function string, stmt sun.Statement) bool {
	switch typed := stmt.(type) {
	case *sun.ReturnStmt:
		l.expression(function, typed.Value)
		return true
	case *sun.IfStmt:
		l.expression(function, typed.Condition)
		thenTerminated := l.statements(function, typed.Then)
		if len(typed.Else) == 0 {
			return false
		}
		elseTerminated := l.statements(function, typed.Else)
		return thenTerminated && elseTerminated
	case *sun.LoopStmt:
		l.expression(function, typed.Start)
		l.expression(function, typed.Stop)
		l.statements(function, typed.Body)
		return false
	case *sun.WhileStmt:
		l.expression(function, typed.Condition)
		l.statements(function, typed.Body)
		return false
	case *sun.KeywordStmt:
		if typed.Keyword == sun.KeywordEnter {
			if v, ok := typed.Operand.(*sun.Variable); !ok || v.Indexed() {
				l.warn(function, typed.Operand.Pos(), "Enter needs a plain variable")
			}
		}
		l.expression(function, typed.Operand)
		return false
	case *sun.ExprStmt:
		l.expression(function, typed.Expr)
		return false
	default:
		return false
	}
}

func (l *linter) expression(function string, expr sun.Expression) {
	switch e := expr.(type) {
	case *sun.Variable:
		for _, index := range e.Indices {
			l.expression(function, index)
		}
	case *sun.UnaryExpr:
		l.expression(function, e.Operand)
	case *sun.BinaryExpr:
		l.expression(function, e.Left)
		l.expression(function, e.Right)
	case *sun.AssignExpr:
		l.expression(function, e.Target)
		l.expression(function, e.Value)
	case *sun.CallExpr:
		l.call(function, e)
		for _, arg := range e.Args {
			l.expression(function, arg)
		}
	}
}

func (l *linter) call(function string, call *sun.CallExpr) {
	fn, ok := l.functions[call.Name]
	if !ok {
		if !slices.Contains(l.natives, call.Name) {
			l.warn(function, call.Pos(), "call to undefined function %s", call.Name)
		}
		return
	}
	if len(call.Args) != len(fn.Params) {
		l.warn(function, call.Pos(), "%s expects %d argument(s), got %d", call.Name, len(fn.Params), len(call.Args))
		return
	}
	for i, param := range fn.Params {
		if !param.ByRef {
			continue
		}
		if v, ok := call.Args[i].(*sun.Variable); !ok || v.Indexed() {
			l.warn(function, call.Args[i].Pos(), "reference parameter %s of %s needs a plain variable", param.Name, call.Name)
		}
	}
}
