package builtins

import (
	"fmt"

	"github.com/kristofer/fibr/pkg/vm"
)

func registerFunc(v *vm.VM) error {
	m := &vm.Macro{Name: "func", NArgs: 4, Body: funcMacroBody}
	return v.Bind("func", vm.MacroVal(v, m))
}

// funcMacroBody consumes (name, params, returns, body). Params and
// returns are captured as opaque forms — parsed, never type-checked.
// Every function's call arity is 0 regardless of its declared
// parameter list: arguments are always already sitting on the operand
// stack by the time the function is called (e.g. "41 inc" pushes 41
// before calling inc; inc's body consumes it directly).
func funcMacroBody(self *vm.Macro, form *vm.Form, in *vm.FormList, v *vm.VM) error {
	nameForm, _ := in.PopFront()
	paramsForm, _ := in.PopFront()
	retsForm, _ := in.PopFront()
	bodyForm, _ := in.PopFront()

	if nameForm.Kind != vm.FormID {
		return &vm.EmitError{Pos: form.Pos, Msg: "func: expected a name identifier"}
	}

	var params, rets []*vm.Form
	if paramsForm.Kind == vm.FormGroup {
		params = paramsForm.Group
	}
	if retsForm.Kind == vm.FormGroup {
		rets = retsForm.Group
	}
	if len(params) > vm.MaxFuncArgs {
		return &vm.EmitError{Pos: form.Pos, Msg: fmt.Sprintf("Too many params: %s", nameForm.Id)}
	}
	if len(rets) > vm.MaxFuncRets {
		return &vm.EmitError{Pos: form.Pos, Msg: fmt.Sprintf("Too many returns: %s", nameForm.Id)}
	}

	fn := v.NewFunc(nameForm.Id, 0, userFuncBody)
	fn.Params = params
	fn.Rets = rets

	skip, _ := v.EmitJump(form)
	fn.StartPC = v.PC()
	if err := v.EmitForm(bodyForm, in); err != nil {
		return err
	}
	v.EmitRet(form, fn)
	v.PatchJump(skip, v.PC())

	if nameForm.Id == "_" {
		// Anonymous definition: the PUSH below lands exactly at the
		// skip-jump's target, so running this turn pushes the func
		// value onto the stack instead of binding a name.
		v.EmitPush(form, vm.FuncVal(v, fn))
		return nil
	}
	return v.Bind(nameForm.Id, vm.FuncVal(v, fn))
}

// userFuncBody is the single shared native body every func-macro
// definition gets: push a frame and dispatch to the function's own
// start PC. Native builtins (+, -, debug) never push a frame — they
// mutate the stack directly and return retPC unchanged — so the CALL
// dispatch site never needs to know which kind of function it invoked.
func userFuncBody(self *vm.Func, form *vm.Form, retPC int, v *vm.VM) (int, error) {
	if _, err := v.PushFrame(form, self, retPC); err != nil {
		return 0, err
	}
	return self.StartPC, nil
}
