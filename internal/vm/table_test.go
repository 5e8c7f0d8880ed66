package vm

import "testing"

func TestTableGetSetDelete(t *testing.T) {
	table := NewTable()
	a := &ObjString{Value: "a", Hash: hashString("a")}
	b := &ObjString{Value: "b", Hash: hashString("b")}

	table.Set(a, Int(1))
	table.Set(b, Int(2))

	if v, ok := table.Get(a); !ok || v.AsInt() != 1 {
		t.Fatalf("got %v, %v", v, ok)
	}
	if !table.Delete(a) {
		t.Fatalf("want Delete to report a was present")
	}
	if _, ok := table.Get(a); ok {
		t.Fatalf("want a gone after Delete")
	}
	if v, ok := table.Get(b); !ok || v.AsInt() != 2 {
		t.Fatalf("b should survive deleting a, got %v, %v", v, ok)
	}
}

func TestTableFindStringMatchesByContentNotIdentity(t *testing.T) {
	table := NewTable()
	s := &ObjString{Value: "hello", Hash: hashString("hello")}
	table.Set(s, Nil())

	found := table.FindString("hello", hashString("hello"))
	if found != s {
		t.Fatalf("want FindString to return the interned instance, got %v", found)
	}
	if table.FindString("goodbye", hashString("goodbye")) != nil {
		t.Fatalf("want nil for a string never interned")
	}
}

func TestTableRemoveWhiteDropsUnmarkedOnly(t *testing.T) {
	table := NewTable()
	kept := &ObjString{Value: "kept", Hash: hashString("kept")}
	dropped := &ObjString{Value: "dropped", Hash: hashString("dropped")}
	table.Set(kept, Nil())
	table.Set(dropped, Nil())

	table.RemoveWhite(func(s *ObjString) bool { return s == kept })

	if table.FindString("kept", hashString("kept")) != kept {
		t.Fatalf("want kept to survive RemoveWhite")
	}
	if table.FindString("dropped", hashString("dropped")) != nil {
		t.Fatalf("want dropped to be gone after RemoveWhite")
	}
}
