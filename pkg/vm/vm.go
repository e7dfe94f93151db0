package vm

// State is one call frame's register file. The operand stack lives on
// the VM itself, not here: LOAD/STORE name a register in "the current
// state" (frame-local, per the per-opcode table), but PUSH/POP/DROP/
// EQUAL/BRANCH all operate on "the stack" — no frame qualifier — which
// is how a callee's body can keep consuming values the caller left
// there. Scenario: "func inc (x Int) (Int) (1 +) ; 41 inc ;" -> [42]
// only works because inc's "1 +" sees the 41 its caller already pushed;
// every func-defined function's call arity is 0 (see pkg/builtins),
// so the stack is the only channel arguments travel through. This is
// also why the capacity table lists STACK and STATES as two separate
// bounds (64 each) rather than one state embedding its own 64-deep
// stack: STATES bounds nested call depth, STACK bounds live operands.
type State struct {
	Regs [MaxRegCount]Value
}

// Frame pairs an active callee with the instruction pointer to return
// to, plus the fresh State allocated for it.
type Frame struct {
	Func  *Func
	RetPC int
	State *State
}

// VM owns every fixed-capacity arena (ops, states, frames, scopes,
// forms, funcs) plus the built-in type registry and the interactive
// error buffer. One VM per session; no sharing across VMs, no locks —
// matches the single-threaded resource model.
type VM struct {
	boolType  *boolType
	intType   *intType
	metaType  *metaType
	funcType  *funcType
	macroType *macroType

	T, F Value

	forms     [MaxFormCount]Form
	formCount int

	ops      [MaxOpCount]Op
	opCount  int

	scopes     [MaxScopeCount]Scope
	scopeCount int

	funcs     [MaxFuncCount]Func
	funcCount int

	states     [MaxStateCount]State
	stateCount int
	topState   *State

	frames     [MaxFrameCount]Frame
	frameCount int

	// stack is the single operand stack shared by every active frame.
	stack     [MaxStackSize]Value
	stackSize uint8

	// Debug toggles op tracing during Eval; flipped at runtime by the
	// `debug` built-in.
	Debug bool

	// source names the current input stream, used only for error
	// positions constructed outside of any specific form (e.g. a
	// duplicate top-level bind attempted with no form in scope).
	source string

	// lastError mirrors the single-slot error buffer the original
	// keeps on the VM; callers mostly use Go's error return values,
	// but this stays in sync so a host could inspect vm.LastError()
	// the way the C REPL inspects vm->error after a failed call.
	lastError string
}

// New constructs a VM with the built-in types and their singleton
// values pre-bound: Meta, Bool (+ T, F), Func, Int, Macro. This is the
// vm_init-equivalent half of construction; native functions and macros
// (+, -, debug, =, if, func, _) are registered separately by the
// pkg/builtins package against the scope this returns, matching the
// source's split between vm_init() and main()'s own registration code.
func New(source string) *VM {
	if len(source) >= MaxPosSourceLen {
		fatalf("source name exceeds %d bytes: %q", MaxPosSourceLen-1, source)
	}
	vm := &VM{source: source}
	vm.boolType = &boolType{}
	vm.intType = &intType{}
	vm.metaType = &metaType{}
	vm.funcType = &funcType{}
	vm.macroType = &macroType{}

	vm.pushScope()
	vm.topState = &vm.states[0]
	vm.stateCount = 1

	vm.T = BoolVal(vm, true)
	vm.F = BoolVal(vm, false)

	must := func(name string, v Value) {
		if err := vm.Bind(name, v); err != nil {
			fatalf("pre-bound identifier rejected: %s", name)
		}
	}
	must("Meta", MetaVal(vm, vm.metaType))
	must("Bool", MetaVal(vm, vm.boolType))
	must("T", vm.T)
	must("F", vm.F)
	must("Func", MetaVal(vm, vm.funcType))
	must("Int", MetaVal(vm, vm.intType))
	must("Macro", MetaVal(vm, vm.macroType))

	return vm
}

// LastError returns the message of the most recent read/emit/eval
// error recorded against this VM, or "" if none yet.
func (vm *VM) LastError() string { return vm.lastError }

func (vm *VM) recordError(err error) error {
	if err != nil {
		msg := err.Error()
		if len(msg) >= MaxErrorLength {
			msg = msg[:MaxErrorLength-1]
		}
		vm.lastError = msg
	}
	return err
}

// BoolType, IntType, FuncType, MacroType, MetaType expose the
// singleton type values so pkg/builtins can build Values of each kind
// (e.g. FuncVal, MacroVal) without reaching into unexported fields.
func (vm *VM) BoolType() Type  { return vm.boolType }
func (vm *VM) IntType() Type   { return vm.intType }
func (vm *VM) FuncType() Type  { return vm.funcType }
func (vm *VM) MacroType() Type { return vm.macroType }
func (vm *VM) MetaType() Type  { return vm.metaType }

// NewFunc allocates a Func from the bounded function arena.
func (vm *VM) NewFunc(name string, nargs uint8, body func(self *Func, form *Form, retPC int, vm *VM) (int, error)) *Func {
	if vm.funcCount >= MaxFuncCount {
		fatalf("function arena exhausted (capacity %d)", MaxFuncCount)
	}
	f := &vm.funcs[vm.funcCount]
	vm.funcCount++
	*f = Func{Name: name, NArgs: nargs, Body: body}
	return f
}

// curState returns the State the currently executing code runs
// against: the top-level persistent state when no frame is active, or
// the active frame's state otherwise.
func (vm *VM) curState() *State {
	if vm.frameCount == 0 {
		return vm.topState
	}
	return vm.frames[vm.frameCount-1].State
}

func (vm *VM) curFrame() *Frame {
	return &vm.frames[vm.frameCount-1]
}

// PushFrame allocates a fresh State and a Frame referencing it,
// returning an error if either arena is exhausted.
func (vm *VM) PushFrame(form *Form, f *Func, retPC int) (*Frame, error) {
	if vm.frameCount >= MaxFrameCount {
		return nil, vm.recordError(&EvalError{Pos: form.Pos, Msg: "Frame overflow"})
	}
	if vm.stateCount >= MaxStateCount {
		return nil, vm.recordError(&EvalError{Pos: form.Pos, Msg: "State overflow"})
	}
	st := &vm.states[vm.stateCount]
	*st = State{}
	vm.stateCount++

	fr := &vm.frames[vm.frameCount]
	*fr = Frame{Func: f, RetPC: retPC, State: st}
	vm.frameCount++
	return fr, nil
}

func (vm *VM) popFrame() {
	vm.frameCount--
	vm.stateCount--
}

func (vm *VM) push(form *Form, v Value) error {
	if int(vm.stackSize) >= MaxStackSize {
		return vm.recordError(&EvalError{Pos: form.Pos, Msg: "Stack overflow"})
	}
	vm.stack[vm.stackSize] = v
	vm.stackSize++
	return nil
}

func (vm *VM) pop(form *Form) (Value, error) {
	if vm.stackSize == 0 {
		return Value{}, vm.recordError(&EvalError{Pos: form.Pos, Msg: "Not enough values"})
	}
	vm.stackSize--
	return vm.stack[vm.stackSize], nil
}

func (vm *VM) peek(form *Form) (*Value, error) {
	if vm.stackSize == 0 {
		return nil, vm.recordError(&EvalError{Pos: form.Pos, Msg: "Not enough values"})
	}
	return &vm.stack[vm.stackSize-1], nil
}

func (vm *VM) dropN(form *Form, n int) error {
	if int(vm.stackSize) < n {
		return vm.recordError(&EvalError{Pos: form.Pos, Msg: "Not enough values"})
	}
	vm.stackSize -= uint8(n)
	return nil
}

// Push, Pop, and Peek are the operand-stack primitives native function
// bodies (pkg/builtins) use — the same shared stack the evaluator
// itself pushes/pops.
func (vm *VM) Push(form *Form, v Value) error  { return vm.push(form, v) }
func (vm *VM) Pop(form *Form) (Value, error)   { return vm.pop(form) }
func (vm *VM) Peek(form *Form) (*Value, error) { return vm.peek(form) }
func (vm *VM) DropN(form *Form, n int) error   { return vm.dropN(form, n) }

// StackValues returns a copy of the current operand stack, bottom to
// top — used by the REPL driver's dump routine.
func (vm *VM) StackValues() []Value {
	out := make([]Value, vm.stackSize)
	copy(out, vm.stack[:vm.stackSize])
	return out
}

// Dump renders a value through its type's Dump method.
func Dump(v Value) string {
	return dumpString(v)
}
