package sun

import (
	"errors"
	"strings"
	"testing"
)

func num(n float64) Expression {
	return &NumberLiteral{Value: n}
}

func text(s string) Expression {
	return &TextLiteral{Value: s}
}

func boolean(b bool) Expression {
	return &BooleanLiteral{Value: b}
}

func ref(name string, idx ...Expression) *Variable {
	return &Variable{Name: name, Indices: idx}
}

func bin(op OpTag, l, r Expression) Expression {
	return &BinaryExpr{Op: op, Left: l, Right: r}
}

func unary(op OpTag, e Expression) Expression {
	return &UnaryExpr{Op: op, Operand: e}
}

func call(name string, args ...Expression) *CallExpr {
	return &CallExpr{Name: name, Args: args}
}

func assign(target *Variable, value Expression) Statement {
	return &ExprStmt{Expr: &AssignExpr{Target: target, Value: value}}
}

func parseProgram(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return program
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   Statement
	}{
		{
			name:   "product binds tighter than sum",
			source: "x = 1 + 2 * 3",
			want:   assign(ref("x"), bin(OpAddition, num(1), bin(OpMultiplication, num(2), num(3)))),
		},
		{
			name:   "subtraction is left associative",
			source: "x = 1 - 2 - 3",
			want:   assign(ref("x"), bin(OpSubtraction, bin(OpSubtraction, num(1), num(2)), num(3))),
		},
		{
			name:   "power is right associative",
			source: "x = 2 ^ 3 ^ 2",
			want:   assign(ref("x"), bin(OpExponentiation, num(2), bin(OpExponentiation, num(3), num(2)))),
		},
		{
			name:   "unary binds tighter than power",
			source: "x = -2 ^ 2",
			want:   assign(ref("x"), bin(OpExponentiation, unary(OpNegation, num(2)), num(2))),
		},
		{
			name:   "power binds tighter than product",
			source: "x = 2 * 3 ^ 2 % 4",
			want:   assign(ref("x"), bin(OpModulo, bin(OpMultiplication, num(2), bin(OpExponentiation, num(3), num(2))), num(4))),
		},
		{
			name:   "AND binds tighter than OR",
			source: "x = a OR b AND c",
			want:   assign(ref("x"), bin(OpDisjunction, ref("a"), bin(OpConjunction, ref("b"), ref("c")))),
		},
		{
			name:   "comparison and equality share a level",
			source: "x = 1 < 2 == True",
			want:   assign(ref("x"), bin(OpEqual, bin(OpLess, num(1), num(2)), boolean(true))),
		},
		{
			name:   "comparison binds tighter than AND",
			source: "x = a >= 1 AND b != 'z'",
			want:   assign(ref("x"), bin(OpConjunction, bin(OpGreaterEqual, ref("a"), num(1)), bin(OpInequal, ref("b"), text("z")))),
		},
		{
			name:   "assignment is right associative",
			source: "x = y = 3",
			want: &ExprStmt{Expr: &AssignExpr{
				Target: ref("x"),
				Value:  &AssignExpr{Target: ref("y"), Value: num(3)},
			}},
		},
		{
			name:   "grouping overrides precedence",
			source: "x = (1 + 2) * 3",
			want:   assign(ref("x"), bin(OpMultiplication, bin(OpAddition, num(1), num(2)), num(3))),
		},
		{
			name:   "inversion",
			source: "x = !a",
			want:   assign(ref("x"), unary(OpInversion, ref("a"))),
		},
		{
			name:   "indexed variables and calls",
			source: "A[i][2] = Add(1, B[0])",
			want:   assign(ref("A", ref("i"), num(2)), call("Add", num(1), ref("B", num(0)))),
		},
		{
			name:   "call without arguments",
			source: "x = rand()",
			want:   assign(ref("x"), call("rand")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parseProgram(t, tt.source)
			if len(program.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(program.Statements))
			}
			if !EqualNodes(program.Statements[0], tt.want) {
				t.Fatalf("parsed tree mismatch for %q", tt.source)
			}
		})
	}
}

func TestParseStructuredStatements(t *testing.T) {
	source := `
Function Swap(*a, *b)
  t = a
  a = b
  b = t
End

Loop:i=1 to n
  If i % 2 == 0 Then
    Print i
  Else
    Enter x
  EndIf
EndLoop:i

While i > 0
  i = i - 1
WhileEnd
`
	want := &Program{Statements: []Statement{
		&FunctionStmt{
			Name:   "Swap",
			Params: []Param{{Name: "a", ByRef: true}, {Name: "b", ByRef: true}},
			Body: []Statement{
				assign(ref("t"), ref("a")),
				assign(ref("a"), ref("b")),
				assign(ref("b"), ref("t")),
			},
		},
		&LoopStmt{
			Var:   "i",
			Start: num(1),
			Stop:  ref("n"),
			Body: []Statement{
				&IfStmt{
					Condition: bin(OpEqual, bin(OpModulo, ref("i"), num(2)), num(0)),
					Then:      []Statement{&KeywordStmt{Keyword: KeywordPrint, Operand: ref("i")}},
					Else:      []Statement{&KeywordStmt{Keyword: KeywordEnter, Operand: ref("x")}},
				},
			},
		},
		&WhileStmt{
			Condition: bin(OpGreater, ref("i"), num(0)),
			Body:      []Statement{assign(ref("i"), bin(OpSubtraction, ref("i"), num(1)))},
		},
	}}

	program := parseProgram(t, source)
	if !EqualNodes(program, want) {
		t.Fatalf("parsed program does not match expected tree")
	}
}

func TestParseFunctionWithReturn(t *testing.T) {
	program := parseProgram(t, "Function Add(a, b)\n  Return a + b\nEnd")
	want := &FunctionStmt{
		Name:   "Add",
		Params: []Param{{Name: "a"}, {Name: "b"}},
		Body:   []Statement{&ReturnStmt{Value: bin(OpAddition, ref("a"), ref("b"))}},
	}
	if !EqualNodes(program.Statements[0], want) {
		t.Fatalf("unexpected function tree")
	}
}

func TestParseLeadingMinusStartsNewStatement(t *testing.T) {
	program := parseProgram(t, "y = x\n-1")
	want := &Program{Statements: []Statement{
		assign(ref("y"), ref("x")),
		&ExprStmt{Expr: unary(OpNegation, num(1))},
	}}
	if !EqualNodes(program, want) {
		t.Fatalf("a leading minus should not continue the previous line")
	}

	program = parseProgram(t, "y = x -\n  1\nz = (x\n  - 1)")
	want = &Program{Statements: []Statement{
		assign(ref("y"), bin(OpSubtraction, ref("x"), num(1))),
		assign(ref("z"), bin(OpSubtraction, ref("x"), num(1))),
	}}
	if !EqualNodes(program, want) {
		t.Fatalf("a trailing minus should still continue onto the next line")
	}
}

func TestParseStartBlockInlinesStatements(t *testing.T) {
	program := parseProgram(t, "Function F()\n  Print 1\nEnd\nStart\n  F()\n  x = 2\nEnd")
	if len(program.Statements) != 3 {
		t.Fatalf("expected function plus two main statements, got %d", len(program.Statements))
	}
	if !EqualNodes(program.Statements[1], &ExprStmt{Expr: call("F")}) {
		t.Fatalf("unexpected first main statement")
	}
}

func TestEqualNodesIgnoresPositions(t *testing.T) {
	a := parseProgram(t, "x = 1 + 2")
	b := parseProgram(t, "\n\n   x   =   1+2")
	if !EqualNodes(a, b) {
		t.Fatalf("expected trees to be equal regardless of layout")
	}
	c := parseProgram(t, "x = 1 + 3")
	if EqualNodes(a, c) {
		t.Fatalf("expected trees with different literals to differ")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{name: "assignment to literal", source: "1 = 2", message: "left side of assignment must be a variable"},
		{name: "empty index", source: "A[] = 1", message: "empty index on A"},
		{name: "return outside function", source: "Return 1", message: "Return is only allowed inside a function"},
		{name: "loop variable mismatch", source: "Loop:i=1 to 2\n  Print i\nEndLoop:j", message: "loop over i closed with j"},
		{name: "loop without to", source: "Loop:i=1 till 2\nEndLoop:i", message: "expected 'to'"},
		{name: "missing EndIf", source: "If 1 Then\n  x = 1", message: "expected 'EndIf'"},
		{name: "missing Then", source: "If 1\n  x = 1\nEndIf", message: "expected 'Then'"},
		{name: "missing EndWhile", source: "While 1\n  x = 1", message: "expected 'EndWhile'"},
		{name: "missing End", source: "Function F()\n  x = 1", message: "expected 'End'"},
		{name: "nested function", source: "If 1 Then\n  Function F()\n  End\nEndIf", message: "functions can only be defined at the top level"},
		{name: "statement beside Start", source: "Start\n  x = 1\nEnd\nPrint x", message: "statements outside the Start block are not allowed"},
		{name: "two Start blocks", source: "Start\nEnd\nStart\nEnd", message: "only one Start block is allowed"},
		{name: "unclosed group", source: "Print (1 + 2", message: "expected \")\""},
		{name: "duplicate parameter", source: "Function F(a, a)\nEnd", message: "duplicate parameter a"},
		{name: "bad parameter", source: "Function F(1)\nEnd", message: "expected parameter name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			if err == nil {
				t.Fatalf("expected parse error")
			}
			if !errors.Is(err, ParseError) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.message)
			}
		})
	}
}

func TestParseErrorCarriesCodeFrame(t *testing.T) {
	_, err := Parse("x = 1\nReturn x")
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if parseErr.Pos.Line != 2 {
		t.Fatalf("expected error on line 2, got %+v", parseErr.Pos)
	}
	if !strings.Contains(parseErr.CodeFrame, "Return x") {
		t.Fatalf("code frame missing source line: %q", parseErr.CodeFrame)
	}
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	_, err := Parse("Return 1\nx = 2\nReturn 3")
	if err == nil {
		t.Fatalf("expected errors")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined errors, got %T", err)
	}
	if got := len(joined.Unwrap()); got != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", got, err)
	}
	if !errors.Is(err, ParseError) {
		t.Fatalf("expected ParseError in %v", err)
	}
}

func TestParseLexErrorIsReturnedDirectly(t *testing.T) {
	_, err := Parse("x = 1 @")
	if !errors.Is(err, LexError) {
		t.Fatalf("expected LexError, got %v", err)
	}
}
