package sun

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNumber ValueKind = iota + 1
	KindText
	KindBoolean
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	default:
		return "nothing"
	}
}

// Value is a runtime value. The zero Value holds nothing and is only seen
// as the result of a function that finished without Return.
type Value struct {
	kind ValueKind
	data any
}

// Array is a sparse collection keyed by composite index keys such as "0,2".
// Elements may hold values of any kind.
type Array struct {
	elements map[string]Value
}

func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }
func NewText(s string) Value    { return Value{kind: KindText, data: s} }
func NewBoolean(b bool) Value   { return Value{kind: KindBoolean, data: b} }
func NewArray(a *Array) Value   { return Value{kind: KindArray, data: a} }

func newEmptyArray() Value {
	return NewArray(&Array{elements: map[string]Value{}})
}

func (v Value) Kind() ValueKind { return v.kind }

// IsNothing reports whether v is the zero Value.
func (v Value) IsNothing() bool { return v.kind == 0 }

func (v Value) Number() float64 {
	if n, ok := v.data.(float64); ok {
		return n
	}
	return 0
}

func (v Value) Text() string {
	if s, ok := v.data.(string); ok {
		return s
	}
	return ""
}

func (v Value) Boolean() bool {
	if b, ok := v.data.(bool); ok {
		return b
	}
	return false
}

func (v Value) Array() *Array {
	if a, ok := v.data.(*Array); ok {
		return a
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case KindText:
		return v.Text()
	case KindBoolean:
		if v.Boolean() {
			return "True"
		}
		return "False"
	case KindArray:
		return v.Array().String()
	default:
		return ""
	}
}

// Truthy follows the language rules: non-zero numbers, non-empty text and
// every array are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.Number() != 0
	case KindText:
		return v.Text() != ""
	case KindBoolean:
		return v.Boolean()
	case KindArray:
		return true
	default:
		return false
	}
}

// Equal reports whether two values are the same kind and hold the same
// scalar. Arrays are equal only to themselves.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.Number() == other.Number()
	case KindText:
		return v.Text() == other.Text()
	case KindBoolean:
		return v.Boolean() == other.Boolean()
	case KindArray:
		return v.Array() == other.Array()
	default:
		return true
	}
}

// clone copies arrays element by element so the copy shares no storage.
func (v Value) clone() Value {
	if v.kind != KindArray {
		return v
	}
	src := v.Array()
	dst := &Array{elements: make(map[string]Value, len(src.elements))}
	for key, elem := range src.elements {
		dst.elements[key] = elem.clone()
	}
	return NewArray(dst)
}

func (a *Array) Len() int { return len(a.elements) }

// Get returns the element stored under the composite key.
func (a *Array) Get(key string) (Value, bool) {
	v, ok := a.elements[key]
	return v, ok
}

func (a *Array) set(key string, v Value) {
	a.elements[key] = v
}

// Keys returns the composite keys ordered index by index numerically.
func (a *Array) Keys() []string {
	keys := make([]string, 0, len(a.elements))
	for key := range a.elements {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range a.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		b.WriteString(key)
		b.WriteString("]: ")
		elem := a.elements[key]
		if elem.kind == KindText {
			b.WriteString(strconv.Quote(elem.Text()))
		} else {
			b.WriteString(elem.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

func compareKeys(a, b string) int {
	as := strings.Split(a, ",")
	bs := strings.Split(b, ",")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, aerr := strconv.ParseFloat(as[i], 64)
		bi, berr := strconv.ParseFloat(bs[i], 64)
		if aerr != nil || berr != nil {
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
			continue
		}
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(as), len(bs))
}
