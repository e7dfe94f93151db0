package vm

import "io"

// Value is a tagged union of a type reference and one payload. Only
// the field matching Type's declared payload kind is live; reading the
// wrong field is a programmer error the type system can't catch for
// us (Go has no true union), so every caller goes through a Type's
// methods rather than branching on payload fields directly.
//
// Values are plain structs copied by assignment — value semantics, no
// value ever owns heap storage, matching the "freely copied" invariant.
type Value struct {
	Type Type

	Bool  bool
	Int   int32
	Func  *Func
	Macro *Macro
	Meta  Type
	Reg   uint16
}

// BoolVal builds a Bool-typed value.
func BoolVal(vm *VM, b bool) Value { return Value{Type: vm.boolType, Bool: b} }

// IntVal builds an Int-typed value.
func IntVal(vm *VM, n int32) Value { return Value{Type: vm.intType, Int: n} }

// FuncVal builds a Func-typed value referencing f.
func FuncVal(vm *VM, f *Func) Value { return Value{Type: vm.funcType, Func: f} }

// MacroVal builds a Macro-typed value referencing m.
func MacroVal(vm *VM, m *Macro) Value { return Value{Type: vm.macroType, Macro: m} }

// MetaVal builds a Meta-typed value referencing the type t itself.
func MetaVal(vm *VM, t Type) Value { return Value{Type: vm.metaType, Meta: t} }

// RegVal builds a bare register-index value with no Type set. Nothing
// in this package binds one to an identifier.
func RegVal(vm *VM, r uint16) Value { return Value{Reg: r} }

// Type is a named behavior table: the only polymorphism point in the
// data model. Built-in types (Meta, Bool, Int, Func, Macro) are
// process-long-lived singletons; user code cannot define new ones.
type Type interface {
	// Name returns the type's bindable name ("Bool", "Int", ...).
	Name() string
	// Dump prints v in the format the REPL stack dump uses.
	Dump(v Value, w io.Writer)
	// Emit compiles a reference to v (looked up by name at emit time).
	// Default behavior for most types is "push this value"; Func and
	// Macro override it to consume following forms.
	Emit(v Value, form *Form, in *FormList, vm *VM) error
	// Equal compares two values of this type.
	Equal(x, y Value) bool
	// IsTrue reports v's truthiness, used by BRANCH.
	IsTrue(v Value) bool
	// Literal reports whether v is usable as a compile-time constant
	// fold target, returning the foldable value and true if so.
	Literal(v Value) (Value, bool)
}
