package sun

import (
	"cmp"
	"math"
)

// OpTag names an operation in the dispatch table.
type OpTag string

const (
	OpAddition       OpTag = "addition"
	OpSubtraction    OpTag = "subtraction"
	OpMultiplication OpTag = "multiplication"
	OpDivision       OpTag = "division"
	OpModulo         OpTag = "modulo"
	OpExponentiation OpTag = "exponentiation"
	OpNegation       OpTag = "negation"
	OpInversion      OpTag = "inversion"
	OpEqual          OpTag = "equal"
	OpInequal        OpTag = "inequal"
	OpGreater        OpTag = "gt"
	OpLess           OpTag = "lt"
	OpGreaterEqual   OpTag = "gte"
	OpLessEqual      OpTag = "lte"
	OpConjunction    OpTag = "conjunction"
	OpDisjunction    OpTag = "disjunction"
)

type unaryFunc func(Value) (Value, error)

type binaryFunc func(Value, Value) (Value, error)

type operation struct {
	arity  int
	unary  unaryFunc
	binary binaryFunc
}

var operations = map[OpTag]operation{
	OpAddition:       numeric(OpAddition, func(a, b float64) (float64, error) { return a + b, nil }),
	OpSubtraction:    numeric(OpSubtraction, func(a, b float64) (float64, error) { return a - b, nil }),
	OpMultiplication: numeric(OpMultiplication, func(a, b float64) (float64, error) { return a * b, nil }),
	OpDivision: numeric(OpDivision, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, newError(DivisionByZeroError, "division by zero")
		}
		return a / b, nil
	}),
	OpModulo: numeric(OpModulo, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, newError(DivisionByZeroError, "modulo by zero")
		}
		return math.Mod(a, b), nil
	}),
	OpExponentiation: numeric(OpExponentiation, func(a, b float64) (float64, error) { return math.Pow(a, b), nil }),

	OpNegation: {arity: 1, unary: func(v Value) (Value, error) {
		if v.kind != KindNumber {
			return Value{}, operandError(OpNegation, "operand", v)
		}
		return NewNumber(-v.Number()), nil
	}},
	OpInversion: {arity: 1, unary: func(v Value) (Value, error) {
		return NewBoolean(!v.Truthy()), nil
	}},

	OpEqual: {arity: 2, binary: func(a, b Value) (Value, error) {
		return NewBoolean(a.Equal(b)), nil
	}},
	OpInequal: {arity: 2, binary: func(a, b Value) (Value, error) {
		return NewBoolean(!a.Equal(b)), nil
	}},
	OpGreater: ordering(OpGreater,
		func(a, b float64) bool { return a > b },
		func(c int) bool { return c > 0 }),
	OpLess: ordering(OpLess,
		func(a, b float64) bool { return a < b },
		func(c int) bool { return c < 0 }),
	OpGreaterEqual: ordering(OpGreaterEqual,
		func(a, b float64) bool { return a >= b },
		func(c int) bool { return c >= 0 }),
	OpLessEqual: ordering(OpLessEqual,
		func(a, b float64) bool { return a <= b },
		func(c int) bool { return c <= 0 }),

	OpConjunction: {arity: 2, binary: func(a, b Value) (Value, error) {
		return NewBoolean(a.Truthy() && b.Truthy()), nil
	}},
	OpDisjunction: {arity: 2, binary: func(a, b Value) (Value, error) {
		return NewBoolean(a.Truthy() || b.Truthy()), nil
	}},
}

func numeric(tag OpTag, fn func(a, b float64) (float64, error)) operation {
	return operation{arity: 2, binary: func(a, b Value) (Value, error) {
		if a.kind != KindNumber {
			return Value{}, operandError(tag, "left operand", a)
		}
		if b.kind != KindNumber {
			return Value{}, operandError(tag, "right operand", b)
		}
		n, err := fn(a.Number(), b.Number())
		if err != nil {
			return Value{}, err
		}
		return NewNumber(n), nil
	}}
}

// ordering compares Numbers with the float operator itself, so any
// comparison involving NaN is False.
func ordering(tag OpTag, numbers func(a, b float64) bool, accept func(int) bool) operation {
	return operation{arity: 2, binary: func(a, b Value) (Value, error) {
		if a.kind == KindNumber && b.kind == KindNumber {
			return NewBoolean(numbers(a.Number(), b.Number())), nil
		}
		c, err := compareValues(tag, a, b)
		if err != nil {
			return Value{}, err
		}
		return NewBoolean(accept(c)), nil
	}}
}

// compareValues orders two Texts or two Booleans. False sorts before True.
func compareValues(tag OpTag, a, b Value) (int, error) {
	if a.kind != b.kind {
		return 0, newError(TypeMismatchError, "cannot compare %s with %s in %s", a.kind, b.kind, tag)
	}
	switch a.kind {
	case KindText:
		return cmp.Compare(a.Text(), b.Text()), nil
	case KindBoolean:
		return cmp.Compare(boolRank(a.Boolean()), boolRank(b.Boolean())), nil
	default:
		return 0, newError(TypeMismatchError, "%s values cannot be ordered in %s", a.kind, tag)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func operandError(tag OpTag, which string, v Value) *Error {
	return newError(TypeMismatchError, "%s %s of %s is not a number", which, describe(v), tag)
}

// Arity returns the operand count of tag, or 0 for an unknown tag.
func Arity(tag OpTag) int {
	return operations[tag].arity
}

// Apply runs the operation named by tag over operands.
func Apply(tag OpTag, operands ...Value) (Value, error) {
	op, ok := operations[tag]
	if !ok {
		return Value{}, newError(TypeMismatchError, "unknown operation %q", tag)
	}
	if len(operands) != op.arity {
		return Value{}, newError(ArityMismatchError, "%s takes %d operands, got %d", tag, op.arity, len(operands))
	}
	if op.arity == 1 {
		return op.unary(operands[0])
	}
	return op.binary(operands[0], operands[1])
}
