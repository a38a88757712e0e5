package ir

import (
	"testing"

	"github.com/kr/pretty"
)

func TestStringTableRoundTrip(t *testing.T) {
	st := newStringTable()
	id := st.Intern([]byte("hello"))
	got, ok := st.Lookup(id)
	if !ok || string(got) != "hello" {
		t.Fatalf("Lookup(%d) = (%q, %v), want (\"hello\", true)", id, got, ok)
	}
}

func TestStringTableDedups(t *testing.T) {
	st := newStringTable()
	a := st.Intern([]byte("same"))
	b := st.Intern([]byte("same"))
	if a != b {
		t.Fatalf("interning equal content twice gave different ids: %d vs %d", a, b)
	}
	if st.Len() != 1 {
		t.Fatalf("got %d entries, want 1", st.Len())
	}
}

func TestEmptyFunctionVerifiesAndHasOneTerminatorPerBlock(t *testing.T) {
	fn := NewFunction("f")
	v := fn.NewVReg(TyI64)
	EmitConst(fn.Block(0), v, 0)
	EmitReturn(fn.Block(0), v, true)
	if err := fn.Verify(); err != nil {
		t.Fatalf("Verify() = %v, want nil\n%s", err, pretty.Sprint(fn))
	}
	b := fn.Block(0)
	if len(b.Instrs) != 2 {
		t.Fatalf("got %d instructions, want 2 (const, return)", len(b.Instrs))
	}
	if b.Instrs[1].Op != OpReturn {
		t.Fatalf("last instruction is %s, want return", b.Instrs[1].Op)
	}
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	fn := NewFunction("f")
	v := fn.NewVReg(TyI64)
	EmitConst(fn.Block(0), v, 0)
	if err := fn.Verify(); err == nil {
		t.Fatal("expected Verify to reject a block with no terminator")
	}
}

func TestVerifyRejectsOutOfRangeJumpTarget(t *testing.T) {
	fn := NewFunction("f")
	EmitJump(fn.Block(0), BlockID(99))
	if err := fn.Verify(); err == nil {
		t.Fatal("expected Verify to reject an out-of-range jump target")
	}
}

func TestCreateBlockReturnsDenseIDsFetchableAfterGrowth(t *testing.T) {
	fn := NewFunction("f")
	var ids []BlockID
	for i := 0; i < 50; i++ {
		ids = append(ids, fn.CreateBlock("b"))
	}
	// Re-fetch every id by number after many CreateBlock calls, the
	// discipline §4.4/§5 require instead of holding block pointers.
	for i, id := range ids {
		b := fn.Block(id)
		if b.ID != id {
			t.Fatalf("block %d has id %d", i, b.ID)
		}
	}
}

func TestModuleVerifyRejectsOutOfRangeGlobalIndex(t *testing.T) {
	m := NewModule("m")
	fn := NewFunction("f")
	v := fn.NewVReg(TyI64)
	EmitLoadGlobal(fn.Block(0), v, 7)
	EmitReturn(fn.Block(0), v, true)
	m.AddFunction(fn)
	if err := m.Verify(); err == nil {
		t.Fatal("expected Verify to reject an out-of-range global index")
	}
}
