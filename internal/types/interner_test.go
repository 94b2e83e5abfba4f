package types

import (
	"errors"
	"testing"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.I32 == NoTypeID || b.Void == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	i32, _ := in.Lookup(b.I32)
	if i32.Kind != KindInt || i32.Bits != 32 {
		t.Fatalf("expected i32, got %+v", i32)
	}
	if in.Intern(MakeInt(32)) != b.I32 {
		t.Fatalf("i32 should be deduplicated against the builtin")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().I8
	arr1 := in.Intern(MakeArray(elem, 4))
	arr2 := in.Intern(MakeArray(elem, 4))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	if vec := in.Intern(MakeVector(elem, 4)); vec == arr1 {
		t.Fatalf("vector and array of the same shape must differ")
	}
}

func TestLiteralStructIdentity(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s1 := in.LiteralStruct([]TypeID{b.I8, b.I32}, false)
	s2 := in.LiteralStruct([]TypeID{b.I8, b.I32}, false)
	packed := in.LiteralStruct([]TypeID{b.I8, b.I32}, true)
	if s1 != s2 {
		t.Fatalf("literal structs with equal bodies should be deduplicated")
	}
	if s1 == packed {
		t.Fatalf("packed flag must affect identity")
	}
	if got := in.TypeString(packed); got != "<{ i8, i32 }>" {
		t.Fatalf("unexpected packed struct rendering %q", got)
	}
}

func TestNamedStructForwardReference(t *testing.T) {
	in := NewInterner()
	node := in.NamedStruct("node")
	ptr := in.Intern(MakePointer(node))
	if err := in.SetStructBody(node, []TypeID{in.Builtins().I32, ptr}, false); err != nil {
		t.Fatalf("SetStructBody: %v", err)
	}
	info, ok := in.StructInfo(node)
	if !ok || info.Opaque || len(info.Fields) != 2 {
		t.Fatalf("unexpected struct info %+v", info)
	}
	if got := in.StructBodyString(node); got != "{ i32, %node* }" {
		t.Fatalf("unexpected body %q", got)
	}
	lit := in.LiteralStruct(nil, false)
	if err := in.SetStructBody(lit, nil, true); !errors.Is(err, ErrLiteralBody) {
		t.Fatalf("expected ErrLiteralBody, got %v", err)
	}
}

func TestBaseKindClassification(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fn := in.RegisterFn([]TypeID{b.I32}, b.Void, true)
	cases := []struct {
		id   TypeID
		want BaseKind
	}{
		{b.I1, BaseI1},
		{in.Intern(MakeInt(24)), BaseIVarBit},
		{b.X86FP80, BaseX86FP80},
		{in.Intern(MakePointer(b.I8)), BaseAddress},
		{in.Intern(MakePointer(fn)), BaseFunctionAddress},
		{in.Intern(MakeArray(b.I8, 2)), BaseArray},
		{in.Intern(MakeVector(b.Float, 4)), BaseVector},
		{in.LiteralStruct(nil, false), BaseStruct},
	}
	for _, tc := range cases {
		if got := in.BaseKind(tc.id); got != tc.want {
			t.Fatalf("%s: want %v, got %v", in.TypeString(tc.id), tc.want, got)
		}
	}
	if got := in.TypeString(fn); got != "void (i32, ...)" {
		t.Fatalf("unexpected fn rendering %q", got)
	}
}

func TestSnapshotRoundTripKeepsIdentity(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	named := in.NamedStruct("pair")
	if err := in.SetStructBody(named, []TypeID{b.I32, b.I64}, false); err != nil {
		t.Fatal(err)
	}
	fn := in.RegisterFn([]TypeID{b.I32}, b.I32, false)

	restored, err := FromSnapshot(in.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if id, ok := restored.LookupNamedStruct("pair"); !ok || id != named {
		t.Fatalf("named struct lost: %v %v", id, ok)
	}
	if restored.RegisterFn([]TypeID{b.I32}, b.I32, false) != fn {
		t.Fatalf("fn type identity lost")
	}
	if restored.Builtins() != b {
		t.Fatalf("builtins differ after restore")
	}
}
