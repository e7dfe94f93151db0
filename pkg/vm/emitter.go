package vm

// EmitForms drains in from the front, emitting one op sequence per
// form, until the list is empty. This is the top-level emit routine a
// REPL turn calls once per batch of forms read between semicolons.
func (vm *VM) EmitForms(in *FormList) error {
	for {
		form, ok := in.PopFront()
		if !ok {
			return nil
		}
		if err := vm.EmitForm(form, in); err != nil {
			return vm.recordError(err)
		}
	}
}

// EmitForm compiles one form, consuming further forms from in only
// when a macro or a Func's Emit does so (arguments, macro bodies).
func (vm *VM) EmitForm(form *Form, in *FormList) error {
	switch form.Kind {
	case FormLiteral:
		vm.emitPush(form, form.Val)
		return nil
	case FormGroup:
		children := FormList(form.Group)
		return vm.EmitForms(&children)
	case FormSemi:
		return &EmitError{Pos: form.Pos, Msg: "Semi emit"}
	case FormID:
		return vm.emitID(form, in)
	default:
		return nil
	}
}

func (vm *VM) emitPush(form *Form, v Value) {
	op, _ := vm.newOp(OpPush, form)
	op.PushVal = v
}

// EmitPush is the exported form of emitPush, used by pkg/builtins when
// a macro needs to push a captured value directly (e.g. the `=` macro
// falling back to a runtime push for a non-foldable operand is handled
// by EmitForm instead; EmitPush exists for symmetry and for macros
// that synthesize a literal out of thin air).
func (vm *VM) EmitPush(form *Form, v Value) {
	vm.emitPush(form, v)
}

// EmitBranch appends a BRANCH op with its false-target unset (callers
// back-patch FalsePC once the else-branch's PC is known).
func (vm *VM) EmitBranch(form *Form) (*Op, int) {
	return vm.newOp(OpBranch, form)
}

// EmitJump appends a JUMP op with its target unset.
func (vm *VM) EmitJump(form *Form) (*Op, int) {
	return vm.newOp(OpJump, form)
}

// EmitRet appends a RET op referencing f (diagnostic only).
func (vm *VM) EmitRet(form *Form, f *Func) {
	op, _ := vm.newOp(OpRet, form)
	op.RetFunc = f
}

// EmitCall appends a CALL op referencing f.
func (vm *VM) EmitCall(form *Form, f *Func) {
	op, _ := vm.newOp(OpCall, form)
	op.Func = f
}

// EmitEqual appends an EQUAL op. x/y with a nil Type mean "pop this
// operand from the stack at execute time" rather than a folded
// constant.
func (vm *VM) EmitEqual(form *Form, x, y Value) {
	op, _ := vm.newOp(OpEqual, form)
	op.EqualX = x
	op.EqualY = y
}

// EmitStop appends a STOP op, terminating the eval loop when reached.
func (vm *VM) EmitStop(form *Form) {
	vm.newOp(OpStop, form)
}

// EmitLoad appends a LOAD op against register r: pop the stack top
// into it. EmitStore is its inverse: push register r's value.
//
// No pre-bound macro in this build emits these — same as FuncType's
// argument-consuming loop, the opcode exists in the instruction set
// and the evaluator dispatches it correctly, but nothing in the
// currently registered builtins (+, -, debug, =, if, func, _) reaches
// for a local variable, so the register file sits unused in practice.
// A future "let"-style macro would call AllocReg then these two.
func (vm *VM) EmitLoad(form *Form, r uint16) {
	op, _ := vm.newOp(OpLoad, form)
	op.Reg = r
}

func (vm *VM) EmitStore(form *Form, r uint16) {
	op, _ := vm.newOp(OpStore, form)
	op.Reg = r
}

// AllocReg reserves the next free register in the current top scope.
func (vm *VM) AllocReg() uint16 {
	return vm.allocReg()
}

// PC returns the current write position in the code arena.
func (vm *VM) PC() int { return vm.pc() }

// PatchBranch sets a previously-emitted BRANCH's false target.
func (vm *VM) PatchBranch(op *Op, target int) { op.FalsePC = target }

// PatchJump sets a previously-emitted JUMP's target.
func (vm *VM) PatchJump(op *Op, target int) { op.Target = target }

// FormValue is the constant-folding lookup: for a literal form it's
// the value directly; for an identifier it's that name's binding,
// folded through the bound value's type (Literal method); groups and
// semicolons never fold.
func (vm *VM) FormValue(form *Form) (Value, bool) {
	switch form.Kind {
	case FormLiteral:
		return form.Val, true
	case FormID:
		v, ok := vm.find(form.Id)
		if !ok {
			return Value{}, false
		}
		return v.Type.Literal(v)
	default:
		return Value{}, false
	}
}

// isDropName reports whether name consists exclusively of the letter
// 'd' (one or more) — the reserved stack-drop identifier family. Any
// non-'d' character anywhere disqualifies it, so "d1" is an ordinary
// identifier, not a drop of count 0.
func isDropName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] != 'd' {
			return false
		}
	}
	return true
}

func (vm *VM) emitID(form *Form, in *FormList) error {
	name := form.Id
	if isDropName(name) {
		op, _ := vm.newOp(OpDrop, form)
		op.DropCount = len(name)
		return nil
	}

	v, ok := vm.find(name)
	if !ok {
		return &EmitError{Pos: form.Pos, Msg: "Unknown id: " + name}
	}
	return v.Type.Emit(v, form, in, vm)
}
