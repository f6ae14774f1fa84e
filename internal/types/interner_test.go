package types

import "testing"

func TestBuiltinsAreDistinct(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	ids := []TypeID{b.Any, b.Unknown, b.Never, b.Void, b.Undefined, b.Null, b.String, b.Number, b.Boolean, b.BigInt, b.Symbol, b.Object, b.This}
	seen := map[TypeID]bool{}
	for _, id := range ids {
		if id == NoTypeID {
			t.Fatal("builtin must not be NoTypeID")
		}
		if seen[id] {
			t.Fatalf("duplicate builtin id %d", id)
		}
		seen[id] = true
	}
	if got := in.Intern(Type{Kind: KindString}); got != b.String {
		t.Fatalf("re-interning string: want %d got %d", b.String, got)
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatal("Lookup(NoTypeID) must fail")
	}
}

func TestUnionFlattensAndDedups(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	inner := in.RegisterUnion([]TypeID{b.String, b.Number})
	outer := in.RegisterUnion([]TypeID{inner, b.String, b.Null})

	info, ok := in.UnionInfo(outer)
	if !ok {
		t.Fatal("expected union info")
	}
	want := []TypeID{b.String, b.Number, b.Null}
	if len(info.Members) != len(want) {
		t.Fatalf("members: want %v got %v", want, info.Members)
	}
	for i := range want {
		if info.Members[i] != want[i] {
			t.Fatalf("member %d: want %d got %d", i, want[i], info.Members[i])
		}
	}

	if got := in.RegisterUnion([]TypeID{b.Number, b.Number}); got != b.Number {
		t.Fatalf("single-member union should collapse, got kind %s", in.MustLookup(got).Kind)
	}
	if got := in.RegisterUnion(nil); got != b.Never {
		t.Fatal("empty union should be never")
	}
}

func TestNamedAndLiteral(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	a1 := in.RegisterNamed("Map", DeclExternal, []TypeID{b.String, b.Number})
	a2 := in.RegisterNamed("Map", DeclExternal, []TypeID{b.String, b.Number})
	if a1 != a2 {
		t.Fatal("identical named references should share an id")
	}
	if c := in.RegisterNamed("Map", DeclClass, []TypeID{b.String, b.Number}); c == a1 {
		t.Fatal("different decl kinds must not share an id")
	}
	info, _ := in.NamedInfo(a1)
	if info.Name != "Map" || len(info.Args) != 2 {
		t.Fatalf("unexpected info %+v", info)
	}

	lit := in.Literal(b.String, `"a"`)
	if lit != in.Literal(b.String, `"a"`) {
		t.Fatal("literals should be interned")
	}
	if tt := in.MustLookup(lit); tt.Elem != b.String || tt.Kind != KindLiteral {
		t.Fatalf("literal descriptor: %+v", tt)
	}
}

func TestFnAndRecordSlots(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	fn := in.RegisterFn(FnInfo{
		Params: []Param{{Name: "a", Type: b.Number}, {Name: "rest", Type: in.Intern(MakeArray(b.String)), Rest: true}},
		Result: b.Void,
	})
	info, ok := in.FnInfo(fn)
	if !ok || len(info.Params) != 2 || !info.Params[1].Rest || info.Result != b.Void {
		t.Fatalf("fn info: %+v", info)
	}

	rec := in.RegisterRecord(RecordInfo{Props: []Prop{{Name: "x", Type: b.Number}}})
	rinfo, ok := in.RecordInfo(rec)
	if !ok || len(rinfo.Props) != 1 || rinfo.Props[0].Name != "x" {
		t.Fatalf("record info: %+v", rinfo)
	}
	if _, ok := in.FnInfo(rec); ok {
		t.Fatal("FnInfo on a record must fail")
	}
}
