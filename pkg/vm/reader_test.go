package vm

import (
	"strings"
	"testing"
)

func readAll(t *testing.T, src string) FormList {
	t.Helper()
	v := New("test")
	br := NewReader(strings.NewReader(src))
	pos := Pos{Source: "test", Line: 1}
	forms, gotSemi, err := ReadTurn(v, &pos, br)
	if err != nil {
		t.Fatalf("ReadTurn error: %v", err)
	}
	if !gotSemi {
		t.Fatalf("expected a terminating semicolon in %q", src)
	}
	return forms
}

func TestReadIntLiteral(t *testing.T) {
	forms := readAll(t, "42 ;")
	if len(forms) != 1 || forms[0].Kind != FormLiteral || forms[0].Val.Int != 42 {
		t.Fatalf("got %+v, want one literal 42", forms)
	}
}

func TestReadNegativeIntLiteral(t *testing.T) {
	forms := readAll(t, "-7 ;")
	if len(forms) != 1 || forms[0].Val.Int != -7 {
		t.Fatalf("got %+v, want one literal -7", forms)
	}
}

// TestReadLoneMinusIsAnIdentifier covers read_int's pushback case: a
// '-' not immediately followed by a digit is not a negative literal,
// it's the "-" identifier (the subtract builtin), and both bytes must
// be restored to the stream in order.
func TestReadLoneMinusIsAnIdentifier(t *testing.T) {
	forms := readAll(t, "- ;")
	if len(forms) != 1 || forms[0].Kind != FormID || forms[0].Id != "-" {
		t.Fatalf("got %+v, want one identifier \"-\"", forms)
	}
}

func TestReadGroupNesting(t *testing.T) {
	forms := readAll(t, "(1 (2 3)) ;")
	if len(forms) != 1 || forms[0].Kind != FormGroup {
		t.Fatalf("got %+v, want one group", forms)
	}
	children := forms[0].Group
	if len(children) != 2 || children[0].Val.Int != 1 || children[1].Kind != FormGroup {
		t.Fatalf("unexpected group contents: %+v", children)
	}
}

func TestReadUnclosedGroupIsAnError(t *testing.T) {
	v := New("test")
	br := NewReader(strings.NewReader("(1 2"))
	pos := Pos{Source: "test", Line: 1}
	_, _, err := ReadTurn(v, &pos, br)
	if err == nil {
		t.Fatal("expected an error for an unclosed group")
	}
	if _, ok := err.(*ReadError); !ok {
		t.Fatalf("got %T, want *ReadError", err)
	}
}

func TestReadStrayCloseParenIsAnError(t *testing.T) {
	v := New("test")
	br := NewReader(strings.NewReader(") ;"))
	pos := Pos{Source: "test", Line: 1}
	_, _, err := ReadTurn(v, &pos, br)
	if err == nil {
		t.Fatal("expected an error for a stray )")
	}
	readErr, ok := err.(*ReadError)
	if !ok {
		t.Fatalf("got %T, want *ReadError", err)
	}
	if readErr.Msg != "unexpected )" {
		t.Fatalf("got message %q, want \"unexpected )\"", readErr.Msg)
	}
}

// TestReadIDOverLongIdentifierIsFatal covers the NAME capacity: an
// identifier longer than MaxNameLength-1 bytes is a fatal implementation
// error, matching original_source/fibr.c's inline assert while it
// accumulates a name.
func TestReadIDOverLongIdentifierIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an over-long identifier")
		}
	}()
	v := New("test")
	br := NewReader(strings.NewReader(strings.Repeat("a", MaxNameLength+1) + " ;"))
	pos := Pos{Source: "test", Line: 1}
	ReadTurn(v, &pos, br)
}

func TestReadTurnReportsCleanEOFWithoutSemicolon(t *testing.T) {
	v := New("test")
	br := NewReader(strings.NewReader("1 2"))
	pos := Pos{Source: "test", Line: 1}
	_, gotSemi, err := ReadTurn(v, &pos, br)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSemi {
		t.Fatal("expected gotSemi=false at clean EOF")
	}
}

func TestPosAdvanceTracksLineAndColumn(t *testing.T) {
	forms := readAll(t, "1\n22 ;")
	if len(forms) != 2 {
		t.Fatalf("got %d forms, want 2", len(forms))
	}
	if forms[0].Pos.Line != 1 {
		t.Errorf("first literal line = %d, want 1", forms[0].Pos.Line)
	}
	if forms[1].Pos.Line != 2 || forms[1].Pos.Column != 0 {
		t.Errorf("second literal pos = %+v, want line 2 column 0", forms[1].Pos)
	}
}
