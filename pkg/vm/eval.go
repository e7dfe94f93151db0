package vm

// Eval runs operations starting at startPC until it hits STOP, using a
// tight switch-in-a-loop: Go has no computed goto, so this is the
// straightforward "loop { match op }" fallback, kept fast by holding
// the op enum small and contiguous so the switch stays cheap.
//
// When vm.Debug is set, each op is traced (via Op.Trace) before it
// dispatches, mirroring the original's DISPATCH-time debug print.
func (vm *VM) Eval(startPC int) error {
	pc := startPC
	for {
		op := &vm.ops[pc]
		if vm.Debug {
			traceOp(op)
		}

		switch op.Code {
		case OpPush:
			if err := vm.push(op.Form, op.PushVal); err != nil {
				return err
			}
			pc++

		case OpDrop:
			if err := vm.dropN(op.Form, op.DropCount); err != nil {
				return err
			}
			pc++

		case OpLoad:
			v, err := vm.pop(op.Form)
			if err != nil {
				return err
			}
			vm.curState().Regs[op.Reg] = v
			pc++

		case OpStore:
			v := vm.curState().Regs[op.Reg]
			if err := vm.push(op.Form, v); err != nil {
				return err
			}
			pc++

		case OpEqual:
			y := op.EqualY
			if y.Type == nil {
				var err error
				y, err = vm.pop(op.Form)
				if err != nil {
					return err
				}
			}
			x := op.EqualX
			if x.Type == nil {
				var err error
				x, err = vm.pop(op.Form)
				if err != nil {
					return err
				}
			}
			if err := vm.push(op.Form, BoolVal(vm, x.Type.Equal(x, y))); err != nil {
				return err
			}
			pc++

		case OpBranch:
			v, err := vm.pop(op.Form)
			if err != nil {
				return err
			}
			if v.Type.IsTrue(v) {
				pc++
			} else {
				pc = op.FalsePC
			}

		case OpJump:
			pc = op.Target

		case OpCall:
			next, err := op.Func.Body(op.Func, op.Form, pc+1, vm)
			if err != nil {
				return err
			}
			pc = next

		case OpRet:
			if vm.frameCount == 0 {
				return vm.recordError(&EvalError{Pos: op.Form.Pos, Msg: "Frame underflow"})
			}
			retPC := vm.curFrame().RetPC
			vm.popFrame()
			pc = retPC

		case OpNop:
			for pc+1 < vm.opCount && vm.ops[pc+1].Code == OpNop {
				pc++
			}
			pc++

		case OpStop:
			return nil

		default:
			return vm.recordError(&EvalError{Pos: op.Form.Pos, Msg: "Unknown opcode"})
		}
	}
}
