package layout_test

import (
	"errors"
	"strings"
	"testing"

	"llnode/internal/layout"
	"llnode/internal/types"
)

func newEngine(t *testing.T) (*layout.Engine, *types.Interner) {
	t.Helper()
	in := types.NewInterner()
	return layout.New(layout.X86_64LinuxGNU(), in), in
}

func TestParseDataLayoutX86_64(t *testing.T) {
	tgt, err := layout.ParseDataLayout(layout.X86_64DataLayout)
	if err != nil {
		t.Fatalf("ParseDataLayout: %v", err)
	}
	if tgt.BigEndian {
		t.Fatalf("expected little endian")
	}
	if tgt.PtrSize != 8 || tgt.PtrAlign != 8 {
		t.Fatalf("pointer layout: got size=%d align=%d", tgt.PtrSize, tgt.PtrAlign)
	}
	if tgt.IntAligns[64] != 8 {
		t.Fatalf("i64 should be overridden to 8-byte alignment, got %d", tgt.IntAligns[64])
	}
	if tgt.FloatAligns[80] != 16 {
		t.Fatalf("f80 alignment: got %d", tgt.FloatAligns[80])
	}
	if tgt.StackAlign != 16 {
		t.Fatalf("stack alignment: got %d", tgt.StackAlign)
	}
	if len(tgt.NativeInts) != 4 {
		t.Fatalf("native ints: %v", tgt.NativeInts)
	}
}

func TestParseDataLayoutRejectsGarbage(t *testing.T) {
	for _, s := range []string{"e-i32", "e-p:64", "e-q1:2", "e-i32:33"} {
		if _, err := layout.ParseDataLayout(s); !errors.Is(err, layout.ErrBadDataLayout) {
			t.Fatalf("%q: expected ErrBadDataLayout, got %v", s, err)
		}
	}
}

func TestDefaultsApplyWithoutLayoutString(t *testing.T) {
	tgt, err := layout.ParseDataLayout("")
	if err != nil {
		t.Fatal(err)
	}
	in := types.NewInterner()
	e := layout.New(tgt, in)
	if got := e.ByteAlignment(in.Builtins().I64); got != 4 {
		t.Fatalf("LLVM default i64 abi alignment is 4, got %d", got)
	}
	if got := e.ByteAlignment(in.Intern(types.MakeInt(128))); got != 4 {
		t.Fatalf("wider ints fall back to the widest entry, got %d", got)
	}
	if got := e.ByteSize(in.Intern(types.MakeInt(24))); got != 4 {
		t.Fatalf("i24 should round up to its i32 alignment, got %d", got)
	}
}

func TestStructPaddingAndPacking(t *testing.T) {
	e, in := newEngine(t)
	b := in.Builtins()
	natural := in.LiteralStruct([]types.TypeID{b.I8, b.I32}, false)
	packed := in.LiteralStruct([]types.TypeID{b.I8, b.I32}, true)

	l, err := e.LayoutOf(natural)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 8 || l.Align != 4 || l.FieldOffsets[0] != 0 || l.FieldOffsets[1] != 4 {
		t.Fatalf("natural struct layout: %+v", l)
	}
	l, err = e.LayoutOf(packed)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 5 || l.Align != 1 || l.FieldOffsets[1] != 1 {
		t.Fatalf("packed struct layout: %+v", l)
	}
}

func TestScalarAndAggregateSizes(t *testing.T) {
	e, in := newEngine(t)
	b := in.Builtins()
	cases := []struct {
		id          types.TypeID
		size, align int
	}{
		{b.I1, 1, 1},
		{b.I64, 8, 8},
		{b.X86FP80, 16, 16},
		{in.Intern(types.MakePointer(b.I8)), 8, 8},
		{in.Intern(types.MakeArray(b.I32, 4)), 16, 4},
		{in.Intern(types.MakeVector(b.Float, 4)), 16, 16},
		{in.Intern(types.MakeVector(b.I8, 3)), 4, 4},
		{in.LiteralStruct(nil, false), 0, 1},
	}
	for _, tc := range cases {
		if got := e.ByteSize(tc.id); got != tc.size {
			t.Fatalf("%s: size want %d got %d", in.TypeString(tc.id), tc.size, got)
		}
		if got := e.ByteAlignment(tc.id); got != tc.align {
			t.Fatalf("%s: align want %d got %d", in.TypeString(tc.id), tc.align, got)
		}
	}
}

func TestIndexQueries(t *testing.T) {
	e, in := newEngine(t)
	b := in.Builtins()
	st := in.LiteralStruct([]types.TypeID{b.I8, b.I32, b.Double}, false)
	arr := in.Intern(types.MakeArray(st, 3))
	ptr := in.Intern(types.MakePointer(arr))

	if got := e.IndexOffset(2, ptr); got != 2*48 {
		t.Fatalf("pointer stride: got %d", got)
	}
	if got := e.IndexedSubType(2, ptr); got != arr {
		t.Fatalf("pointer sub type: got %s", in.TypeString(got))
	}
	if got := e.IndexOffset(1, arr); got != 16 {
		t.Fatalf("array stride: got %d", got)
	}
	if got := e.IndexOffset(2, st); got != 8 {
		t.Fatalf("struct field offset: got %d", got)
	}
	if got := e.IndexedSubType(2, st); got != b.Double {
		t.Fatalf("struct field type: got %s", in.TypeString(got))
	}
	if got := e.IndexedSubType(3, st); got != types.NoTypeID {
		t.Fatalf("out of range field must have no type, got %s", in.TypeString(got))
	}
	if got := e.IndexedSubType(0, b.I32); got != types.NoTypeID {
		t.Fatalf("scalars cannot be indexed")
	}
	if got := e.BytePadding(1, b.I32); got != 3 {
		t.Fatalf("padding: got %d", got)
	}
	if got := e.BytePadding(8, b.I32); got != 0 {
		t.Fatalf("aligned offsets need no padding, got %d", got)
	}
}

func TestRecursiveStructReportsError(t *testing.T) {
	e, in := newEngine(t)
	self := in.NamedStruct("loop")
	if err := in.SetStructBody(self, []types.TypeID{in.Builtins().I32, self}, false); err != nil {
		t.Fatal(err)
	}
	err := e.Validate(self)
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.LayoutError, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.LayoutErrRecursiveUnsized || len(lerr.Cycle) == 0 {
		t.Fatalf("unexpected error %+v", lerr)
	}

	list := in.NamedStruct("list")
	if err := in.SetStructBody(list, []types.TypeID{in.Builtins().I32, in.Intern(types.MakePointer(list))}, false); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	if err := e.Validate(list); err != nil {
		t.Fatalf("self reference through a pointer is sized: %v", err)
	}
	if got := e.ByteSize(list); got != 16 {
		t.Fatalf("list size: got %d", got)
	}
}

func TestFormatTable(t *testing.T) {
	e, in := newEngine(t)
	b := in.Builtins()
	pair := in.LiteralStruct([]types.TypeID{b.I8, b.I32}, false)
	self := in.NamedStruct("loop")
	if err := in.SetStructBody(self, []types.TypeID{b.I32, self}, false); err != nil {
		t.Fatal(err)
	}

	rows := e.Rows([]string{"i32", "café", "loop"}, []types.TypeID{b.I32, pair, self})
	if rows[2].Err == nil {
		t.Fatalf("expected an error row for the recursive struct")
	}
	got := layout.FormatTable(rows[:2])
	want := "type  size  align  offsets\n" +
		"i32      4      4\n" +
		"café     8      4  [0 4]\n"
	if got != want {
		t.Fatalf("table mismatch:\n%q\nwant\n%q", got, want)
	}
	if !strings.Contains(layout.FormatTable(rows), "loop  error: ") {
		t.Fatalf("error row missing:\n%s", layout.FormatTable(rows))
	}
}
