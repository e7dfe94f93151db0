package vm

import "testing"

func TestEnvSetMaintainsAlphabeticalOrder(t *testing.T) {
	vm := New("test")
	var e Env
	for _, name := range []string{"zebra", "apple", "mango"} {
		if !e.Set(name, IntVal(vm, 0)) {
			t.Fatalf("Set(%q) reported already bound", name)
		}
	}
	want := []string{"apple", "mango", "zebra"}
	for i, w := range want {
		if e.Items[i].Name != w {
			t.Errorf("Items[%d].Name = %q, want %q", i, e.Items[i].Name, w)
		}
	}
}

func TestEnvSetRejectsDuplicateNames(t *testing.T) {
	vm := New("test")
	var e Env
	if !e.Set("x", IntVal(vm, 1)) {
		t.Fatal("first Set(x) should succeed")
	}
	if e.Set("x", IntVal(vm, 2)) {
		t.Fatal("second Set(x) should report already bound")
	}
	v, ok := e.Get("x")
	if !ok || v.Int != 1 {
		t.Fatalf("Get(x) = (%+v, %v), want the first binding to survive", v, ok)
	}
}

// TestScopeLookupNeverWalksParent covers the preserved limitation: an
// inner scope can't see a binding its parent made, even though Scope
// keeps a Parent pointer (used only to inherit RegCount).
func TestScopeLookupNeverWalksParent(t *testing.T) {
	vm := New("test")
	if err := vm.Bind("outer_name", IntVal(vm, 7)); err != nil {
		t.Fatal(err)
	}
	vm.pushScope()

	if _, ok := vm.find("outer_name"); ok {
		t.Fatal("lookup in the inner scope found a binding owned by the outer scope")
	}
}
