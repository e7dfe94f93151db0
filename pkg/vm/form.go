package vm

// FormKind tags the variant a Form holds.
type FormKind int

const (
	// FormGroup is an ordered, mutable list of child forms: the body
	// between a matching ( and ).
	FormGroup FormKind = iota
	// FormID is a bare identifier.
	FormID
	// FormLiteral is a captured compile-time value. Only integers
	// arise from the reader; others appear via constant-folding.
	FormLiteral
	// FormSemi is the end-of-statement marker; it carries no payload
	// and is illegal to encounter at emit time.
	FormSemi
)

// Form is a single parsed syntax node, tagged by Kind, always carrying
// the position where it began in the source.
//
// Forms are allocated from the VM's form arena (see VM.newForm) and
// live for one REPL turn; the arena is reset at the start of the next
// turn rather than freed form-by-form, matching the "no per-form free"
// contract.
type Form struct {
	Kind  FormKind
	Pos   Pos
	Id    string  // valid when Kind == FormID
	Val   Value   // valid when Kind == FormLiteral
	Group []*Form // valid when Kind == FormGroup
}

// FormList is the mutable, ordered sequence the emitter consumes from
// the front and macros splice into. A plain slice already gives us
// O(1) pop-front-by-reslicing and arbitrary splice/insert, which is
// what the original's intrusive linked list bought it without the
// pointer-arithmetic bookkeeping.
type FormList []*Form

// PopFront removes and returns the first form, or ok=false if empty.
func (fl *FormList) PopFront() (*Form, bool) {
	if len(*fl) == 0 {
		return nil, false
	}
	f := (*fl)[0]
	*fl = (*fl)[1:]
	return f, true
}

// Len reports the number of forms remaining.
func (fl FormList) Len() int {
	return len(fl)
}

// newForm allocates a Form from the VM's bounded arena.
func (vm *VM) newForm(kind FormKind, pos Pos) *Form {
	if vm.formCount >= MaxFormCount {
		fatalf("form arena exhausted (capacity %d)", MaxFormCount)
	}
	f := &vm.forms[vm.formCount]
	vm.formCount++
	*f = Form{Kind: kind, Pos: pos}
	return f
}

// resetForms releases the previous turn's forms back to the arena.
// Forms are not individually freed; the whole arena is rewound.
func (vm *VM) resetForms() {
	vm.formCount = 0
}

// ResetForms is the exported entry point the REPL driver calls at the
// start of each turn: one turn's forms all come from the same arena
// rewind, so nothing from a prior turn can leak into the next one.
func (vm *VM) ResetForms() {
	vm.resetForms()
}
