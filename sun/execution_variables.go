package sun

import (
	"math"
	"strconv"
	"strings"
)

func (exec *execution) getVariable(v *Variable) (Value, error) {
	cell, ok := exec.current().lookup(v.Name)
	if !ok {
		return Value{}, newError(UndeclaredVariableError, "variable %s is used before it is assigned", v.Name)
	}
	if !v.Indexed() {
		return cell.value, nil
	}
	if cell.value.kind != KindArray {
		return Value{}, newError(TypeMismatchError, "%s holds a %s, not an array", v.Name, cell.value.kind)
	}

	key, err := exec.compositeKey(v)
	if err != nil {
		return Value{}, err
	}
	elem, ok := cell.value.Array().Get(key)
	if !ok {
		return Value{}, newError(IndexNotFoundError, "there is no element at %s%s", v.Name, renderIndices(key))
	}
	return elem, nil
}

// setVariable writes val to target in the active context. A scalar keeps its
// kind for life; an indexed write creates the array on first use.
func (exec *execution) setVariable(target *Variable, val Value) error {
	ctx := exec.current()
	cell, exists := ctx.lookup(target.Name)

	if !target.Indexed() {
		if exists && cell.value.kind != KindArray && cell.value.kind != val.kind {
			return newError(TypeMismatchError, "cannot assign a %s to %s, which holds a %s", val.kind, target.Name, cell.value.kind)
		}
		ctx.store(target.Name, val)
		return nil
	}

	if exists && cell.value.kind != KindArray {
		return newError(TypeMismatchError, "cannot index %s, which holds a %s", target.Name, cell.value.kind)
	}
	key, err := exec.compositeKey(target)
	if err != nil {
		return err
	}
	if !exists {
		ctx.store(target.Name, newEmptyArray())
		cell, _ = ctx.lookup(target.Name)
	}
	cell.value.Array().set(key, val)
	return nil
}

// compositeKey evaluates every index and joins them with commas, so A[0][2]
// addresses key "0,2".
func (exec *execution) compositeKey(v *Variable) (string, error) {
	parts := make([]string, 0, len(v.Indices))
	for _, index := range v.Indices {
		val, err := exec.eval(index)
		if err != nil {
			return "", err
		}
		n := val.Number()
		if val.kind != KindNumber || math.IsInf(n, 0) || n != math.Trunc(n) {
			return "", exec.locate(newError(TypeMismatchError, "array index must be an integer, got %s", describe(val)), index.Pos())
		}
		if n == 0 {
			n = 0 // -0 and 0 address the same element
		}
		parts = append(parts, strconv.FormatFloat(n, 'f', -1, 64))
	}
	return strings.Join(parts, ","), nil
}

func renderIndices(key string) string {
	return "[" + strings.ReplaceAll(key, ",", "][") + "]"
}

func describe(v Value) string {
	if v.kind == KindText {
		return strconv.Quote(v.Text())
	}
	return v.String()
}
