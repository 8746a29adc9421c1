package sun

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

func expectRunError(t *testing.T, source string, kind ErrorKind, message string) *Interpreter {
	t.Helper()
	in, err := runCapture(t, source, Config{})
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	if message != "" && !strings.Contains(err.Error(), message) {
		t.Fatalf("error %q does not mention %q", err.Error(), message)
	}
	return in
}

func TestReferenceParametersAliasCallerStorage(t *testing.T) {
	in := mustRun(t, `Function Swap(*a, *b)
  t = a
  a = b
  b = t
End
x = 1
y = 2
Swap(x, y)
Print x
Print y`)
	expectOutput(t, in, "2", "1")
	if _, ok := in.Lookup("t"); ok {
		t.Fatalf("function local leaked into the global context")
	}
}

func TestValueParametersAreCopies(t *testing.T) {
	in := mustRun(t, `Function Bump(n)
  n = n + 1
  Return n
End
Function Fill(A)
  A[0] = 99
End
x = 1
y = Bump(x)
B[0] = 1
Fill(B)
Print x
Print y
Print B[0]`)
	expectOutput(t, in, "1", "2", "1")
}

func TestReferenceArrayParameter(t *testing.T) {
	in := mustRun(t, `Function Fill(*A)
  A[1] = 'b'
End
A[0] = 'a'
Fill(A)
Print A`)
	expectOutput(t, in, `{[0]: "a", [1]: "b"}`)
}

func TestRecursionKeepsFramesIsolated(t *testing.T) {
	in := mustRun(t, `Function Sum(n)
  If n == 0 Then
    Return 0
  EndIf
  local = n
  rest = Sum(n - 1)
  Return local + rest
End
Print Sum(4)`)
	expectOutput(t, in, "10")
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	in := mustRun(t, `Function FirstOver(limit)
  Loop:i=1 to 100
    If i * i > limit Then
      Return i
    EndIf
  EndLoop:i
  Return 0
End
Print FirstOver(50)
Print FirstOver(20000)`)
	expectOutput(t, in, "8", "0")
}

func TestLoopCounter(t *testing.T) {
	in := mustRun(t, "Loop:i=1 to 3\n  Print i\nLoopEnd:i\nPrint i")
	expectOutput(t, in, "1", "2", "3", "4")

	in = mustRun(t, "Loop:i=5 to 1\n  Print i\nLoop-End:i")
	expectOutput(t, in)
	if i, _ := in.Lookup("i"); i.Number() != 5 {
		t.Fatalf("i = %v after an empty loop, want 5", i)
	}

	expectRunError(t, "Loop:i='a' to 3\n  Print i\nEndLoop:i", TypeMismatchError, "loop start must be a number, got text")
	expectRunError(t, "Loop:i=1 to True\n  Print i\nEndLoop:i", TypeMismatchError, "loop stop must be a number, got boolean")
}

func TestRecursionLimit(t *testing.T) {
	_, err := runCapture(t, "Function F(n)\n  Return F(n + 1)\nEnd\nx = F(0)", Config{RecursionLimit: 10})
	if !errors.Is(err, RecursionLimitError) {
		t.Fatalf("expected RecursionLimitError, got %v", err)
	}
	if !strings.Contains(err.Error(), "call depth exceeded 10 calling F") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestFunctionWithoutReturn(t *testing.T) {
	in := expectRunError(t, "Function F()\n  Print 1\nEnd\nF()\nx = F()", TypeMismatchError, "F did not return a value")
	expectOutput(t, in, "1", "1")
}

func TestReferenceArgumentErrors(t *testing.T) {
	fn := "Function F(*a)\n  a = 1\nEnd\n"
	expectRunError(t, fn+"F(1)", TypeMismatchError, "reference parameter a of F needs a plain variable")
	expectRunError(t, fn+"A[0] = 1\nF(A[0])", TypeMismatchError, "needs a plain variable")
	expectRunError(t, fn+"F(missing)", UndeclaredVariableError, "variable missing is used before it is assigned")
}

func TestEnter(t *testing.T) {
	inputs := []string{" 41 ", "hello"}
	var asked []string
	reader := ReaderFunc(func(name string) (string, error) {
		asked = append(asked, name)
		line := inputs[0]
		inputs = inputs[1:]
		return line, nil
	})

	in, err := runCapture(t, "Enter n\nEnter s\nPrint n + 1\nPrint s", Config{Reader: reader})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	expectOutput(t, in, "42", "hello")
	if len(asked) != 2 || asked[0] != "n" || asked[1] != "s" {
		t.Fatalf("reader asked for %v", asked)
	}

	expectRunError(t, "A[0] = 1\nEnter A[0]", TypeMismatchError, "Enter needs a plain variable")

	broken := ReaderFunc(func(string) (string, error) { return "", errors.New("no terminal") })
	_, err = runCapture(t, "Enter x", Config{Reader: broken})
	if !errors.Is(err, InputError) || !strings.Contains(err.Error(), "reading x: no terminal") {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		kind    ErrorKind
		message string
	}{
		{"scalar kind is fixed", "x = 1\nx = 'a'", TypeMismatchError, "cannot assign a text to x, which holds a number"},
		{"index into scalar on write", "x = 1\nx[0] = 2", TypeMismatchError, "cannot index x, which holds a number"},
		{"index into scalar on read", "x = 1\nPrint x[0]", TypeMismatchError, "x holds a number, not an array"},
		{"missing element", "A[0] = 1\nPrint A[1]", IndexNotFoundError, "there is no element at A[1]"},
		{"missing nested element", "A[0][1] = 1\nPrint A[1][0]", IndexNotFoundError, "there is no element at A[1][0]"},
		{"distinct huge indices", "A[10^300] = 1\nPrint A[10^301]", IndexNotFoundError, "there is no element at A[1"},
		{"index past int64", "A[10^300] = 1\nPrint A[2^63]", IndexNotFoundError, "there is no element at A[9223372036854775808]"},
		{"fractional index", "A[0.5] = 1", TypeMismatchError, "array index must be an integer, got 0.5"},
		{"text index", "A['a'] = 1", TypeMismatchError, `array index must be an integer, got "a"`},
		{"undeclared variable", "Print y", UndeclaredVariableError, "variable y is used before it is assigned"},
		{"undeclared function", "Print G(1)", UndeclaredFunctionError, "function G is not declared"},
		{"native arity", "x = rand(1)", ArityMismatchError, "too many arguments to rand: expected 0, got 1"},
		{"too few arguments", "Function F(a)\n  Return a\nEnd\nx = F()", ArityMismatchError, "too few arguments to F: expected 1, got 0"},
		{"ordering across kinds", "Print 1 < 'a'", TypeMismatchError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRunError(t, tt.source, tt.kind, tt.message)
		})
	}
}

func TestLargeIndicesAddressDistinctElements(t *testing.T) {
	in := mustRun(t, "A[2^64] = 2\nA[2^63] = 1\nA[-0] = 3\nPrint A[2^63]\nPrint A[2^64]\nPrint A[0]")
	expectOutput(t, in, "1", "2", "3")

	arr, ok := in.Lookup("A")
	if !ok || arr.Kind() != KindArray {
		t.Fatalf("A not stored as an array: %v", arr)
	}
	want := []string{"0", "9223372036854775808", "18446744073709551616"}
	if got := arr.Array().Keys(); !slices.Equal(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestEnterKeepsNonDecimalInputAsText(t *testing.T) {
	tests := []struct {
		input string
		kind  ValueKind
	}{
		{input: "nan", kind: KindText},
		{input: "inf", kind: KindText},
		{input: "-Infinity", kind: KindText},
		{input: "0x10", kind: KindText},
		{input: "1_000", kind: KindText},
		{input: "1e400", kind: KindText},
		{input: "2.5e1", kind: KindNumber},
		{input: " -3 ", kind: KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			reader := ReaderFunc(func(string) (string, error) { return tt.input, nil })
			in, err := runCapture(t, "Enter x", Config{Reader: reader})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			x, _ := in.Lookup("x")
			if x.Kind() != tt.kind {
				t.Fatalf("Enter %q stored %s %v, want %s", tt.input, x.Kind(), x, tt.kind)
			}
			if x.Kind() == KindText && x.Text() != tt.input {
				t.Fatalf("Enter %q stored text %q", tt.input, x.Text())
			}
		})
	}
}

func TestLineStartingWithMinusIsItsOwnStatement(t *testing.T) {
	in := mustRun(t, "x = 5\ny = x\n-1\nPrint y\nz = (x\n  - 1)\nPrint z")
	expectOutput(t, in, "5", "4")
}

func TestScalarMayReplaceArray(t *testing.T) {
	in := mustRun(t, "A[0] = 1\nA = 5\nPrint A")
	expectOutput(t, in, "5")
}

func TestAssignmentSharesArrays(t *testing.T) {
	in := mustRun(t, "A[0] = 1\nB = A\nB[0] = 2\nPrint A[0]")
	expectOutput(t, in, "2")
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	in := mustRun(t, `Function Note(v)
  Print v
  Return v
End
x = Note(0) AND Note(1)
y = Note(1) OR Note(0)`)
	expectOutput(t, in, "0", "1", "1", "0")
	x, _ := in.Lookup("x")
	y, _ := in.Lookup("y")
	if x.Boolean() || !y.Boolean() {
		t.Fatalf("x = %v, y = %v", x, y)
	}
}

func TestTextAndBooleanValues(t *testing.T) {
	in := mustRun(t, "Print 'apple' < 'banana'\nPrint \"a\" == 'a'\nPrint !0\nPrint 'it\\'s'")
	expectOutput(t, in, "True", "True", "True", "it's")
}

func TestFunctionRedefinitionOverwrites(t *testing.T) {
	in := mustRun(t, "Function F()\n  Return 1\nEnd\nFunction F()\n  Return 2\nEnd\nPrint F()")
	expectOutput(t, in, "2")
}

func TestFunctionsAreHoisted(t *testing.T) {
	in := mustRun(t, "Print Double(21)\nFunction Double(n)\n  Return n * 2\nEnd")
	expectOutput(t, in, "42")
}

func TestRuntimeErrorLocation(t *testing.T) {
	_, err := runCapture(t, `Function F(n)
  Return n / 0
End
x = 1
y = F(x)`, Config{})
	var runtimeErr *Error
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if runtimeErr.Kind != DivisionByZeroError || runtimeErr.Pos.Line != 2 {
		t.Fatalf("unexpected error %+v", runtimeErr)
	}
	if !strings.Contains(runtimeErr.CodeFrame, "Return n / 0") {
		t.Fatalf("code frame missing source: %q", runtimeErr.CodeFrame)
	}
	if len(runtimeErr.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %+v", runtimeErr.Frames)
	}
	if runtimeErr.Frames[0].Function != "F" || runtimeErr.Frames[1].Function != "<main>" || runtimeErr.Frames[1].Pos.Line != 5 {
		t.Fatalf("unexpected frames %+v", runtimeErr.Frames)
	}
	if !strings.Contains(err.Error(), "at <main> (5:") {
		t.Fatalf("rendered error missing caller frame: %s", err)
	}
}

func TestRandNative(t *testing.T) {
	in, err := runCapture(t, "x = rand()", Config{Rand: rand.New(rand.NewPCG(1, 2))})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := rand.New(rand.NewPCG(1, 2)).Float64()
	x, _ := in.Lookup("x")
	if x.Number() != want || x.Number() < 0 || x.Number() >= 1 {
		t.Fatalf("rand() = %v, want %v", x, want)
	}

	in = mustRun(t, "Function rand()\n  Return 7\nEnd\nPrint rand()")
	expectOutput(t, in, "7")
}

func TestRegisterNative(t *testing.T) {
	in := New(Config{Capture: true})
	in.RegisterNative("twice", 1, func(args []Value) (Value, error) {
		if args[0].Kind() != KindNumber {
			return Value{}, newError(TypeMismatchError, "twice needs a number")
		}
		return NewNumber(args[0].Number() * 2), nil
	})
	if !in.IsNative("twice") || in.IsNative("Twice") {
		t.Fatalf("IsNative mismatch")
	}
	if err := in.Run(t.Context(), "Print twice(4)"); err != nil {
		t.Fatalf("run: %v", err)
	}
	expectOutput(t, in, "8")

	err := in.Run(t.Context(), "x = 1\nPrint twice('a')")
	var runtimeErr *Error
	if !errors.As(err, &runtimeErr) || runtimeErr.Pos.Line != 2 {
		t.Fatalf("expected located native error, got %v", err)
	}
}
