package sun

// invoke calls a user function, falling back to natives. ok is false when the
// function finished without Return.
func (exec *execution) invoke(call *CallExpr) (Value, bool, error) {
	fn, found := exec.interp.functions[call.Name]
	if !found {
		return exec.invokeNative(call)
	}

	if err := checkArity(call.Name, len(fn.Params), len(call.Args)); err != nil {
		return Value{}, false, err
	}

	frame := newContext()
	for i, param := range fn.Params {
		arg := call.Args[i]
		if param.ByRef {
			cell, err := exec.referenceCell(call.Name, param.Name, arg)
			if err != nil {
				return Value{}, false, err
			}
			frame.alias(param.Name, cell)
			continue
		}
		val, err := exec.eval(arg)
		if err != nil {
			return Value{}, false, err
		}
		frame.store(param.Name, val.clone())
	}

	if err := exec.pushFrame(call.Name, call.Pos(), frame); err != nil {
		return Value{}, false, err
	}
	defer exec.popFrame()

	sig, err := exec.execBlock(fn.Body)
	if err != nil {
		return Value{}, false, err
	}
	if sig.kind != signalReturn {
		return Value{}, false, nil
	}
	return sig.value, true, nil
}

func (exec *execution) invokeNative(call *CallExpr) (Value, bool, error) {
	nat, found := exec.interp.natives[call.Name]
	if !found {
		return Value{}, false, newError(UndeclaredFunctionError, "function %s is not declared", call.Name)
	}
	if err := checkArity(call.Name, nat.arity, len(call.Args)); err != nil {
		return Value{}, false, err
	}
	args := make([]Value, 0, len(call.Args))
	for _, arg := range call.Args {
		val, err := exec.eval(arg)
		if err != nil {
			return Value{}, false, err
		}
		args = append(args, val)
	}
	val, err := nat.fn(args)
	if err != nil {
		return Value{}, false, err
	}
	return val, !val.IsNothing(), nil
}

// referenceCell resolves the caller's storage for a reference argument. Only
// a plain, already assigned variable can be passed by reference.
func (exec *execution) referenceCell(function, param string, arg Expression) (*binding, error) {
	variable, ok := arg.(*Variable)
	if !ok || variable.Indexed() {
		return nil, exec.locate(newError(TypeMismatchError, "reference parameter %s of %s needs a plain variable", param, function), arg.Pos())
	}
	cell, ok := exec.current().lookup(variable.Name)
	if !ok {
		return nil, exec.locate(newError(UndeclaredVariableError, "variable %s is used before it is assigned", variable.Name), arg.Pos())
	}
	return cell, nil
}

func checkArity(name string, want, got int) error {
	switch {
	case got < want:
		return newError(ArityMismatchError, "too few arguments to %s: expected %d, got %d", name, want, got)
	case got > want:
		return newError(ArityMismatchError, "too many arguments to %s: expected %d, got %d", name, want, got)
	default:
		return nil
	}
}
