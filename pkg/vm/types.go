package vm

import (
	"fmt"
	"io"
	"strings"
)

// Func is a callable value: either a native host function or a
// user-defined one compiled by the `func` macro. The call convention
// is unified — Body always returns the *actual* next PC to execute,
// whether that's ret_pc (native: no frame pushed) or the function's
// own start_pc (user-defined: a frame was pushed first). This removes
// any branch at the CALL dispatch site.
type Func struct {
	Name    string
	NArgs   uint8
	StartPC int
	Body    func(self *Func, form *Form, retPC int, vm *VM) (int, error)

	// Params and Rets are the opaque parameter/return forms captured
	// by the `func` macro. They are parsed but never type-checked —
	// preserved laxness, not yet wired to anything.
	Params []*Form
	Rets   []*Form
}

// Macro is a compile-time operator: looking it up by name and emitting
// it consumes NArgs following forms from the form stream and invokes
// Body directly instead of compiling to a runtime call.
type Macro struct {
	Name  string
	NArgs uint8
	Body  func(self *Macro, form *Form, in *FormList, vm *VM) error
}

// dumpString renders a value through its type's Dump method into a
// string, used by debug tracing and PUSH's trace rendering.
func dumpString(v Value) string {
	var b strings.Builder
	if v.Type != nil {
		v.Type.Dump(v, &b)
	}
	return b.String()
}

// emitDefaultPush is the fallback Emit behavior shared by Bool, Int,
// and Meta: compile a reference to this value as "push it."
func emitDefaultPush(v Value, form *Form, vm *VM) error {
	vm.emitPush(form, v)
	return nil
}

// --- Bool ---

type boolType struct{}

func (boolType) Name() string { return "Bool" }

func (boolType) Dump(v Value, w io.Writer) {
	if v.Bool {
		io.WriteString(w, "T")
	} else {
		io.WriteString(w, "F")
	}
}

func (boolType) Emit(v Value, form *Form, in *FormList, vm *VM) error {
	return emitDefaultPush(v, form, vm)
}

func (boolType) Equal(x, y Value) bool { return x.Bool == y.Bool }

func (boolType) IsTrue(v Value) bool { return v.Bool }

func (boolType) Literal(v Value) (Value, bool) { return v, true }

// --- Int ---

type intType struct{}

func (intType) Name() string { return "Int" }

func (intType) Dump(v Value, w io.Writer) {
	fmt.Fprintf(w, "%d", v.Int)
}

func (intType) Emit(v Value, form *Form, in *FormList, vm *VM) error {
	return emitDefaultPush(v, form, vm)
}

func (intType) Equal(x, y Value) bool { return x.Int == y.Int }

// IsTrue: the language has no explicit int truthiness rule beyond
// Bool's; any Int reaching a BRANCH is treated as truthy, matching the
// original's narrow use of is_true (only Bool meaningfully
// distinguishes false).
func (intType) IsTrue(Value) bool { return true }

func (intType) Literal(v Value) (Value, bool) { return v, true }

// --- Meta (the type of types) ---

type metaType struct{}

func (metaType) Name() string { return "Meta" }

func (metaType) Dump(v Value, w io.Writer) {
	if v.Meta != nil {
		io.WriteString(w, v.Meta.Name())
	}
}

func (metaType) Emit(v Value, form *Form, in *FormList, vm *VM) error {
	return emitDefaultPush(v, form, vm)
}

func (metaType) Equal(x, y Value) bool { return x.Meta == y.Meta }

func (metaType) IsTrue(Value) bool { return true }

func (metaType) Literal(v Value) (Value, bool) { return v, true }

// --- Func ---

type funcType struct{}

func (funcType) Name() string { return "Func" }

func (funcType) Dump(v Value, w io.Writer) {
	if v.Func != nil {
		io.WriteString(w, v.Func.Name)
	}
}

// Emit reads the next NArgs forms, emits each in source order so
// arguments accumulate on the stack left-to-right, then emits CALL
// against this function.
func (funcType) Emit(v Value, form *Form, in *FormList, vm *VM) error {
	f := v.Func
	for i := uint8(0); i < f.NArgs; i++ {
		argForm, ok := in.PopFront()
		if !ok {
			return &EmitError{Pos: form.Pos, Msg: fmt.Sprintf("Missing call argument: %s", f.Name)}
		}
		if err := vm.EmitForm(argForm, in); err != nil {
			return err
		}
	}
	op, _ := vm.newOp(OpCall, form)
	op.Func = f
	return nil
}

func (funcType) Equal(x, y Value) bool { return x.Func == y.Func }

func (funcType) IsTrue(Value) bool { return true }

// Literal: functions are never constant-foldable even when named —
// calling one has side effects (a frame push).
func (funcType) Literal(Value) (Value, bool) { return Value{}, false }

// --- Macro ---

type macroType struct{}

func (macroType) Name() string { return "Macro" }

func (macroType) Dump(v Value, w io.Writer) {
	if v.Macro != nil {
		fmt.Fprintf(w, "Macro(%s)", v.Macro.Name)
	}
}

// Emit verifies enough forms remain and invokes the macro body
// directly — macros rewrite the form stream rather than compiling to
// a call.
func (macroType) Emit(v Value, form *Form, in *FormList, vm *VM) error {
	m := v.Macro
	if in.Len() < int(m.NArgs) {
		return &EmitError{Pos: form.Pos, Msg: fmt.Sprintf("Missing macro arguments: %s %d", m.Name, m.NArgs)}
	}
	return m.Body(m, form, in, vm)
}

func (macroType) Equal(x, y Value) bool { return x.Macro == y.Macro }

func (macroType) IsTrue(Value) bool { return true }

// Literal: macros are never constant-foldable.
func (macroType) Literal(Value) (Value, bool) { return Value{}, false }
