package sun

// NativeFunc implements a built-in function. args are already evaluated and
// their count matches the registered arity.
type NativeFunc func(args []Value) (Value, error)

type native struct {
	arity int
	fn    NativeFunc
}

// RegisterNative adds a built-in that is called when no user function of the
// same name is defined.
func (in *Interpreter) RegisterNative(name string, arity int, fn NativeFunc) {
	in.natives[name] = native{arity: arity, fn: fn}
}

func registerNatives(in *Interpreter) {
	in.RegisterNative("rand", 0, func([]Value) (Value, error) {
		return NewNumber(in.config.Rand.Float64()), nil
	})
}

// IsNative reports whether name is a registered built-in.
func (in *Interpreter) IsNative(name string) bool {
	_, ok := in.natives[name]
	return ok
}

// NativeNames lists the names every Interpreter registers.
func NativeNames() []string {
	return []string{"rand"}
}
