package vm

import "testing"

// TestEvalLoadStoreRoundTrip hand-assembles a LOAD/STORE pair: no
// registered builtin emits these (see DESIGN.md's Open Questions), but
// the evaluator must still dispatch them correctly since they're part
// of the required opcode set.
func TestEvalLoadStoreRoundTrip(t *testing.T) {
	vm := New("test")
	form := vm.newForm(FormLiteral, Pos{Source: "test"})

	vm.emitPush(form, IntVal(vm, 9))
	vm.EmitLoad(form, 3)
	vm.EmitStore(form, 3)
	vm.EmitStop(form)

	if err := vm.Eval(0); err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	values := vm.StackValues()
	if len(values) != 1 || values[0].Int != 9 {
		t.Fatalf("got %+v, want a single value 9 round-tripped through register 3", values)
	}
}

func TestEvalStackOverflow(t *testing.T) {
	vm := New("test")
	form := vm.newForm(FormLiteral, Pos{Source: "test"})
	for i := 0; i < MaxStackSize; i++ {
		vm.emitPush(form, IntVal(vm, int32(i)))
	}
	vm.emitPush(form, IntVal(vm, 0))
	vm.EmitStop(form)

	err := vm.Eval(0)
	if err == nil {
		t.Fatal("expected a stack overflow error")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Fatalf("got %T, want *EvalError", err)
	}
}

func TestEvalFrameUnderflowOnBareRet(t *testing.T) {
	vm := New("test")
	form := vm.newForm(FormLiteral, Pos{Source: "test"})
	f := vm.NewFunc("f", 0, nil)
	vm.EmitRet(form, f)

	err := vm.Eval(0)
	if err == nil {
		t.Fatal("expected a frame underflow error")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Fatalf("got %T, want *EvalError", err)
	}
}

func TestEvalBranchBothWays(t *testing.T) {
	run := func(cond bool) int32 {
		vm := New("test")
		form := vm.newForm(FormLiteral, Pos{Source: "test"})
		vm.emitPush(form, BoolVal(vm, cond))
		branch, _ := vm.EmitBranch(form)
		vm.emitPush(form, IntVal(vm, 1))
		jump, _ := vm.EmitJump(form)
		vm.PatchBranch(branch, vm.PC())
		vm.emitPush(form, IntVal(vm, 2))
		vm.PatchJump(jump, vm.PC())
		vm.EmitStop(form)

		if err := vm.Eval(0); err != nil {
			t.Fatalf("Eval error: %v", err)
		}
		values := vm.StackValues()
		if len(values) != 1 {
			t.Fatalf("got %d values, want 1", len(values))
		}
		return values[0].Int
	}

	if got := run(true); got != 1 {
		t.Errorf("true branch = %d, want 1", got)
	}
	if got := run(false); got != 2 {
		t.Errorf("false branch = %d, want 2", got)
	}
}
