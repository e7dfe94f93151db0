// Package builtins registers the native functions and macros that sit
// outside the core VM: +, -, debug (native functions) and =, if, func,
// _ (macros). These are "external collaborators" in the core's own
// terms — they go through exactly the binding surface user code would
// use (vm.Bind, vm.NewFunc), never a privileged back door — mirroring
// how the original's main() registers them separately from vm_init().
package builtins

import (
	"github.com/kristofer/fibr/pkg/vm"
)

// Register binds +, -, debug, =, if, func, and _ into vm's current
// (top-level) scope. Call this once per VM right after vm.New.
func Register(v *vm.VM) error {
	if err := registerAdd(v); err != nil {
		return err
	}
	if err := registerSub(v); err != nil {
		return err
	}
	if err := registerDebug(v); err != nil {
		return err
	}
	if err := registerEqual(v); err != nil {
		return err
	}
	if err := registerIf(v); err != nil {
		return err
	}
	if err := registerFunc(v); err != nil {
		return err
	}
	if err := registerNop(v); err != nil {
		return err
	}
	return nil
}

func registerAdd(v *vm.VM) error {
	f := v.NewFunc("+", 0, addBody)
	return v.Bind("+", vm.FuncVal(v, f))
}

// addBody pops y, peeks x, and mutates x in place — two pops' worth of
// stack effect realized as one pop plus a peek-and-mutate, net one
// value surviving.
func addBody(self *vm.Func, form *vm.Form, retPC int, v *vm.VM) (int, error) {
	y, err := v.Pop(form)
	if err != nil {
		return 0, err
	}
	x, err := v.Peek(form)
	if err != nil {
		return 0, err
	}
	x.Int += y.Int
	return retPC, nil
}

func registerSub(v *vm.VM) error {
	f := v.NewFunc("-", 0, subBody)
	return v.Bind("-", vm.FuncVal(v, f))
}

func subBody(self *vm.Func, form *vm.Form, retPC int, v *vm.VM) (int, error) {
	y, err := v.Pop(form)
	if err != nil {
		return 0, err
	}
	x, err := v.Peek(form)
	if err != nil {
		return 0, err
	}
	x.Int -= y.Int
	return retPC, nil
}

func registerDebug(v *vm.VM) error {
	f := v.NewFunc("debug", 0, debugBody)
	return v.Bind("debug", vm.FuncVal(v, f))
}

// debugBody toggles the VM's trace flag and pushes the new value —
// the one built-in with an observable host-level side effect.
func debugBody(self *vm.Func, form *vm.Form, retPC int, v *vm.VM) (int, error) {
	v.Debug = !v.Debug
	if err := v.Push(form, vm.BoolVal(v, v.Debug)); err != nil {
		return 0, err
	}
	return retPC, nil
}

func registerEqual(v *vm.VM) error {
	m := &vm.Macro{Name: "=", NArgs: 2, Body: equalBody}
	return v.Bind("=", vm.MacroVal(v, m))
}

// equalBody attempts constant-folding each operand in turn (x then
// y): a literal or a bound name whose type folds to a value is
// captured directly into the EQUAL op; otherwise the form is emitted
// normally and the evaluator pops it at runtime.
func equalBody(self *vm.Macro, form *vm.Form, in *vm.FormList, v *vm.VM) error {
	xForm, _ := in.PopFront()
	yForm, _ := in.PopFront()

	var xVal, yVal vm.Value
	if val, ok := v.FormValue(xForm); ok {
		xVal = val
	} else if err := v.EmitForm(xForm, in); err != nil {
		return err
	}
	if val, ok := v.FormValue(yForm); ok {
		yVal = val
	} else if err := v.EmitForm(yForm, in); err != nil {
		return err
	}

	v.EmitEqual(form, xVal, yVal)
	return nil
}

func registerIf(v *vm.VM) error {
	m := &vm.Macro{Name: "if", NArgs: 3, Body: ifBody}
	return v.Bind("if", vm.MacroVal(v, m))
}

// ifBody: emit(cond); BRANCH(unset); emit(then); JUMP(unset);
// patch BRANCH to land here (start of else); emit(else); patch JUMP
// to land here (rejoin point).
func ifBody(self *vm.Macro, form *vm.Form, in *vm.FormList, v *vm.VM) error {
	condForm, _ := in.PopFront()
	thenForm, _ := in.PopFront()
	elseForm, _ := in.PopFront()

	if err := v.EmitForm(condForm, in); err != nil {
		return err
	}
	branch, _ := v.EmitBranch(form)
	if err := v.EmitForm(thenForm, in); err != nil {
		return err
	}
	jump, _ := v.EmitJump(form)
	v.PatchBranch(branch, v.PC())
	if err := v.EmitForm(elseForm, in); err != nil {
		return err
	}
	v.PatchJump(jump, v.PC())
	return nil
}

func registerNop(v *vm.VM) error {
	m := &vm.Macro{Name: "_", NArgs: 0, Body: nopBody}
	return v.Bind("_", vm.MacroVal(v, m))
}

func nopBody(self *vm.Macro, form *vm.Form, in *vm.FormList, v *vm.VM) error {
	return nil
}
