package resolve

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/diag"
	"llnode/internal/layout"
	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

func resolveErr(t *testing.T, f *fixture, id symbols.SymbolID) *Error {
	t.Helper()
	_, err := f.resolver().Resolve(id)
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *resolve.Error, got %v", err)
	}
	return rerr
}

func TestIntegerLiteralWidths(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		typ  types.TypeID
		kind types.BaseKind
	}{
		{f.b.I1, types.BaseI1},
		{f.b.I8, types.BaseI8},
		{f.b.I16, types.BaseI16},
		{f.b.I32, types.BaseI32},
		{f.b.I64, types.BaseI64},
	}
	for _, tc := range cases {
		n := f.resolve(f.intConst(tc.typ, 1))
		be.Equal(t, n.Kind, nodes.KindLiteral)
		be.Equal(t, n.Result, tc.kind)
		be.Equal(t, n.Literal.Int, int64(1))
	}

	i24 := f.in.Intern(types.MakeInt(24))
	odd := f.resolve(f.intConst(i24, -5))
	be.Equal(t, odd.Result, types.BaseIVarBit)
	be.Equal(t, odd.Literal.VarBit.Width, 24)
	be.Equal(t, odd.Literal.VarBit.Signed().Int64(), int64(-5))

	i128 := f.in.Intern(types.MakeInt(128))
	wide := f.resolve(f.add(symbols.BigInteger(i128, "-170141183460469231731687303715884105728")))
	be.Equal(t, wide.Result, types.BaseIVarBit)
	want, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
	be.Equal(t, wide.Literal.VarBit.Signed().Cmp(want), 0)

	allOnes := f.resolve(f.add(symbols.BigInteger(f.b.I64, "18446744073709551615")))
	be.Equal(t, allOnes.Result, types.BaseI64)
	be.Equal(t, allOnes.Literal.Int, int64(-1))

	narrowed := f.resolve(f.intConst(f.b.I8, 255))
	be.Equal(t, narrowed.Literal.Int, int64(-1))
}

func TestEvaluateIntegerConstant(t *testing.T) {
	f := newFixture(t)
	null := f.add(symbols.Null(f.b.I32))
	seven := f.intConst(f.b.I64, 7)
	small := f.add(symbols.BigInteger(f.in.Intern(types.MakeInt(96)), "-12"))
	huge := f.add(symbols.BigInteger(f.in.Intern(types.MakeInt(96)), "1180591620717411303429")) // 2^70 + 5
	dbl := f.add(symbols.Symbol{Kind: symbols.KindFloat, Type: f.b.Double, Float: symbols.FloatConst{Bits: math.Float64bits(2)}})
	local := f.local("x", f.b.I32)

	rep := diag.BagReporter{Bag: f.bag}
	v, ok := EvaluateIntegerConstant(f.in, f.tab, null, rep)
	be.True(t, ok)
	be.Equal(t, v, 0)
	v, ok = EvaluateIntegerConstant(f.in, f.tab, seven, rep)
	be.True(t, ok)
	be.Equal(t, v, 7)
	v, ok = EvaluateIntegerConstant(f.in, f.tab, small, rep)
	be.True(t, ok)
	be.Equal(t, v, -12)
	be.Equal(t, f.bag.Len(), 0)

	v, ok = EvaluateIntegerConstant(f.in, f.tab, huge, rep)
	be.True(t, ok)
	be.Equal(t, v, 5)
	be.Equal(t, f.bag.Len(), 1)
	d := f.bag.Items()[0]
	be.Equal(t, d.Code, diag.ResolvePrecisionLoss)
	be.Equal(t, d.Severity, diag.SevInfo)
	be.Equal(t, d.Primary.Symbol, uint32(huge))

	for _, id := range []symbols.SymbolID{dbl, local, symbols.NoSymbolID} {
		_, ok = EvaluateIntegerConstant(f.in, f.tab, id, rep)
		be.True(t, !ok)
	}
}

func TestEvaluateIntegerConstantSignAtWidth(t *testing.T) {
	f := newFixture(t)
	rep := diag.BagReporter{Bag: f.bag}
	cases := []struct {
		name string
		id   symbols.SymbolID
		want int
	}{
		{"i8 255", f.intConst(f.b.I8, 255), -1},
		{"i8 127", f.intConst(f.b.I8, 127), 127},
		{"i32 4294967295", f.intConst(f.b.I32, 4294967295), -1},
		{"i32 4294967292", f.intConst(f.b.I32, 4294967292), -4},
		{"i64 max as big", f.add(symbols.BigInteger(f.b.I64, "18446744073709551615")), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := EvaluateIntegerConstant(f.in, f.tab, tc.id, rep)
			be.True(t, ok)
			be.Equal(t, v, tc.want)
			// the index agrees with the literal built for the same symbol
			be.Equal(t, f.resolve(tc.id).Literal.Int, int64(tc.want))
		})
	}
	be.Equal(t, f.bag.Len(), 0)
}

func TestArrayOfFourInts(t *testing.T) {
	f := newFixture(t)
	arr := f.in.Intern(types.MakeArray(f.b.I32, 4))
	elems := []symbols.SymbolID{
		f.intConst(f.b.I32, 1), f.intConst(f.b.I32, 2), f.intConst(f.b.I32, 3), f.intConst(f.b.I32, 4),
	}
	n := f.resolve(f.add(symbols.Aggregate(symbols.KindArray, arr, elems...)))

	be.Equal(t, n.Kind, nodes.KindArrayLiteral)
	be.Equal(t, n.Array.Target.Kind, nodes.KindAlloca)
	be.Equal(t, n.Array.Target.Alloca.Size, 16)
	be.Equal(t, n.Array.Target.Alloca.Align, 4)
	be.Equal(t, n.Array.Stride, 4)
	be.Equal(t, n.Array.Store, nodes.StoreI32)
	be.Equal(t, len(n.Array.Values), 4)
	for i, v := range n.Array.Values {
		be.Equal(t, v.Literal.Int, int64(i+1))
	}
}

func TestArraysOfHalfAndFP128(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct {
		kind   types.FloatKind
		store  nodes.StoreKind
		stride int
	}{
		{types.FloatHalf, nodes.StoreHalf, 2},
		{types.FloatFP128, nodes.StoreFP128, 16},
	} {
		elem := f.in.Intern(types.MakeFloat(tc.kind))
		arr := f.in.Intern(types.MakeArray(elem, 3))
		elems := []symbols.SymbolID{f.add(symbols.Null(elem)), f.add(symbols.Null(elem)), f.add(symbols.Undef(elem))}
		n := f.resolve(f.add(symbols.Aggregate(symbols.KindArray, arr, elems...)))
		be.Equal(t, n.Kind, nodes.KindArrayLiteral)
		be.Equal(t, n.Array.Store, tc.store)
		be.Equal(t, n.Array.Stride, tc.stride)
		be.Equal(t, n.Array.Target.Alloca.Size, 3*tc.stride)
	}
}

func TestStructWriteSizesFollowPointerWidth(t *testing.T) {
	for _, tc := range []struct {
		datalayout string
		ptr        int
	}{
		{"e-p:32:32", 4},
		{"e-p:64:64", 8},
	} {
		f := newFixture(t)
		target, err := layout.ParseDataLayout(tc.datalayout)
		be.Err(t, err, nil)
		f.eng = layout.New(target, f.in)

		st := f.in.LiteralStruct([]types.TypeID{f.b.I32, f.ptr(f.b.I8), f.b.X86FP80}, false)
		n := f.resolve(f.add(symbols.Aggregate(symbols.KindStruct, st,
			f.intConst(f.b.I32, 1), f.add(symbols.Null(f.ptr(f.b.I8))), f.add(symbols.Null(f.b.X86FP80)))))
		be.Equal(t, n.Struct.Writes[0].Size, 4)
		be.Equal(t, n.Struct.Writes[1].Store, nodes.StoreAddress)
		be.Equal(t, n.Struct.Writes[1].Size, tc.ptr)
		be.Equal(t, n.Struct.Writes[2].Size, 10)
		be.Equal(t, n.Struct.Offsets[1], tc.ptr)
	}
}

func TestStructLiteralOffsets(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct {
		packed  bool
		offsets []int
		size    int
	}{
		{packed: false, offsets: []int{0, 4}, size: 8},
		{packed: true, offsets: []int{0, 1}, size: 5},
	} {
		st := f.in.LiteralStruct([]types.TypeID{f.b.I8, f.b.I32}, tc.packed)
		n := f.resolve(f.add(symbols.Aggregate(symbols.KindStruct, st, f.intConst(f.b.I8, 1), f.intConst(f.b.I32, 2))))
		be.Equal(t, n.Kind, nodes.KindStructLiteral)
		be.Equal(t, n.Struct.Offsets, tc.offsets)
		be.Equal(t, n.Struct.Target.Alloca.Size, tc.size)
		be.Equal(t, n.Struct.Writes[0].Store, nodes.StoreI8)
		be.Equal(t, n.Struct.Writes[1].Store, nodes.StoreI32)
	}
}

func TestStructOffsetRecurrence(t *testing.T) {
	f := newFixture(t)
	fields := []types.TypeID{
		f.b.I8, f.b.I64, f.b.I16, f.b.Double, f.b.I8,
		f.in.Intern(types.MakeArray(f.b.I8, 3)), f.b.I32, f.b.X86FP80,
	}
	for _, packed := range []bool{false, true} {
		st := f.in.LiteralStruct(fields, packed)
		elems := make([]symbols.SymbolID, len(fields))
		for i, ft := range fields {
			elems[i] = f.add(symbols.Null(ft))
		}
		n := f.resolve(f.add(symbols.Aggregate(symbols.KindStruct, st, elems...)))
		offs := n.Struct.Offsets
		be.Equal(t, offs[0], 0)
		for i := 0; i+1 < len(fields); i++ {
			end := offs[i] + f.eng.ByteSize(fields[i])
			want := end
			if !packed {
				want += f.eng.BytePadding(end, fields[i+1])
			}
			if offs[i+1] != want {
				t.Fatalf("packed=%v: offset[%d]=%d, want %d", packed, i+1, offs[i+1], want)
			}
		}
		be.Equal(t, n.Struct.Writes[5].Store, nodes.StoreCopy)
		be.Equal(t, n.Struct.Writes[5].Size, 3)
		be.Equal(t, n.Struct.Writes[7].Store, nodes.StoreX86FP80)
	}
}

func TestStructNestedAndEmptyMembers(t *testing.T) {
	f := newFixture(t)
	empty := f.in.LiteralStruct(nil, false)
	inner := f.in.LiteralStruct([]types.TypeID{f.b.I8, f.b.I16}, false)
	st := f.in.LiteralStruct([]types.TypeID{f.b.I32, empty, inner}, false)
	n := f.resolve(f.add(symbols.Aggregate(symbols.KindStruct, st,
		f.intConst(f.b.I32, 9), f.add(symbols.Null(empty)), f.add(symbols.Undef(inner)))))

	be.Equal(t, n.Struct.Offsets, []int{0, 4, 4})
	be.Equal(t, n.Struct.Writes[1].Store, nodes.StoreEmpty)
	be.True(t, n.Struct.Writes[1].Value == nil)
	be.Equal(t, n.Struct.Writes[2].Store, nodes.StoreCopy)
	be.Equal(t, n.Struct.Writes[2].Size, 4)
	be.Equal(t, n.Struct.Writes[2].Value.Kind, nodes.KindZeroFill)
	be.Equal(t, n.Struct.Target.Alloca.Size, 8)
}

func TestVectorLiteral(t *testing.T) {
	f := newFixture(t)
	vt := f.in.Intern(types.MakeVector(f.b.I1, 4))
	lanes := []symbols.SymbolID{
		f.intConst(f.b.I1, 1), f.intConst(f.b.I1, 0), f.intConst(f.b.I1, 1), f.intConst(f.b.I1, 1),
	}
	n := f.resolve(f.add(symbols.Aggregate(symbols.KindVector, vt, lanes...)))
	be.Equal(t, n.Kind, nodes.KindVectorLiteral)
	be.Equal(t, n.Vector.Lane, nodes.StoreI1)
	be.Equal(t, len(n.Vector.Values), 4)

	st := f.in.LiteralStruct([]types.TypeID{f.b.I32}, false)
	bad := f.in.Intern(types.MakeVector(st, 2))
	err := resolveErr(t, f, f.add(symbols.Aggregate(symbols.KindVector, bad, f.add(symbols.Null(st)), f.add(symbols.Null(st)))))
	be.Equal(t, err.Kind, ErrInvariant)
}

func TestZeroValues(t *testing.T) {
	f := newFixture(t)
	inner := f.in.LiteralStruct([]types.TypeID{f.b.I16, f.b.Double}, false)

	agg := f.resolve(f.add(symbols.Null(inner)))
	be.Equal(t, agg.Kind, nodes.KindZeroFill)
	be.Equal(t, agg.ZeroFill.Size, 16)
	be.Equal(t, agg.ZeroFill.Target.Alloca.Align, 8)

	be.Equal(t, nodes.String(f.resolve(f.add(symbols.Undef(f.b.I32)))), "(i32 0)")
	be.Equal(t, nodes.String(f.resolve(f.add(symbols.Null(f.ptr(f.b.I8))))), "(address 0x0)")

	fnT := f.in.RegisterFn(nil, f.b.Void, false)
	be.Equal(t, nodes.String(f.resolve(f.add(symbols.Null(f.ptr(fnT))))), "(function null)")

	vec := f.resolve(f.add(symbols.Null(f.in.Intern(types.MakeVector(f.b.Float, 4)))))
	be.Equal(t, vec.Kind, nodes.KindVectorLiteral)
	be.Equal(t, len(vec.Vector.Values), 4)
	be.Equal(t, vec.Vector.Target.Alloca.Size, 16)
}

func TestFloatConstants(t *testing.T) {
	f := newFixture(t)
	d := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindFloat, Type: f.b.Double, Float: symbols.FloatConst{Bits: math.Float64bits(1.5)}}))
	be.Equal(t, nodes.String(d), "(double 1.5)")

	raw := []byte{0, 0, 0, 0, 0, 0, 0, 0x80, 0xff, 0x3f}
	x := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindFloat, Type: f.b.X86FP80, Float: symbols.FloatConst{Raw: raw}}))
	be.Equal(t, x.Result, types.BaseX86FP80)
	be.Equal(t, x.Literal.Raw, raw)

	err := resolveErr(t, f, f.add(symbols.Symbol{Kind: symbols.KindFloat, Type: f.b.X86FP80, Float: symbols.FloatConst{Raw: raw[:9]}}))
	be.Equal(t, err.Kind, ErrInvariant)
}

func TestOperatorConstants(t *testing.T) {
	f := newFixture(t)
	one, two := f.intConst(f.b.I32, 1), f.intConst(f.b.I32, 2)

	add := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindBinary, Type: f.b.I32, Binary: symbols.BinaryConst{Op: symbols.BinAdd, LHS: one, RHS: two}}))
	be.Equal(t, add.Kind, nodes.KindArithmetic)
	be.Equal(t, add.Arith.Op, nodes.ArithAdd)

	shl := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindBinary, Type: f.b.I32, Binary: symbols.BinaryConst{Op: symbols.BinShl, LHS: one, RHS: two}}))
	be.Equal(t, shl.Kind, nodes.KindLogical)

	unwired := resolveErr(t, f, f.add(symbols.Symbol{Kind: symbols.KindBinary, Type: f.b.I32, Binary: symbols.BinaryConst{Op: symbols.BinInvalid, LHS: one, RHS: two}}))
	be.Equal(t, unwired.Kind, ErrInvariant)

	mismatch := resolveErr(t, f, f.add(symbols.Symbol{Kind: symbols.KindBinary, Type: f.b.I32, Binary: symbols.BinaryConst{Op: symbols.BinFAdd, LHS: one, RHS: two}}))
	be.True(t, errors.Is(mismatch, nodes.ErrUnsupported))

	sext := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindCast, Type: f.b.I64, Cast: symbols.CastConst{Op: symbols.CastSExt, Value: one}}))
	be.Equal(t, nodes.String(sext), "(sext i32->i64\n  (i32 1))")

	cmp := f.resolve(f.add(symbols.Symbol{Kind: symbols.KindCompare, Type: f.b.I1, Compare: symbols.CompareConst{Pred: symbols.PredSLT, LHS: one, RHS: two}}))
	be.Equal(t, cmp.Result, types.BaseI1)
	be.Equal(t, cmp.Compare.Op, nodes.CmpSLt)
	be.Equal(t, cmp.Compare.Operand, types.BaseI32)
}

func TestFunctionDescriptorsThroughResolver(t *testing.T) {
	f := newFixture(t)
	fnA := f.in.RegisterFn([]types.TypeID{f.b.I32}, f.b.I32, false)
	fnB := f.in.RegisterFn([]types.TypeID{f.b.I64}, f.b.I32, false)

	first := f.resolve(f.add(symbols.Named(symbols.KindFunction, f.ptr(fnA), "f")))
	second := f.resolve(f.add(symbols.Named(symbols.KindFunction, f.ptr(fnA), "f")))
	other := f.resolve(f.add(symbols.Named(symbols.KindFunction, f.ptr(fnB), "f")))

	be.Equal(t, first.Kind, nodes.KindFunction)
	be.True(t, first.Function == second.Function)
	be.True(t, first.Function != other.Function)
	be.Equal(t, first.Function.Signature(), "i32 @f(i32)")
	be.Equal(t, f.reg.Len(), 2)
}

func TestBindingsGlobalsLabelsMetadata(t *testing.T) {
	f := newFixture(t)
	x := f.local("x", f.b.I32)
	read := f.resolve(x)
	be.Equal(t, read.Kind, nodes.KindFrameRead)
	be.Equal(t, read.Slot.Index, 0)
	be.Equal(t, read.Result, types.BaseI32)

	ghost := f.add(symbols.Named(symbols.KindParam, f.b.I32, "ghost"))
	be.Equal(t, resolveErr(t, f, ghost).Kind, ErrInvariant)

	g, gn := f.global("g", f.b.I32)
	be.True(t, f.resolve(g) == gn)

	fnT := f.in.RegisterFn(nil, f.b.Void, false)
	main := f.add(symbols.Named(symbols.KindFunction, f.ptr(fnT), "main"))
	f.labels[[2]string{"main", "bb2"}] = 7
	ba := f.add(symbols.Symbol{Kind: symbols.KindBlockAddress, Type: f.ptr(f.b.I8), BlockAddr: symbols.BlockAddrConst{Function: main, Block: "bb2"}})
	be.Equal(t, nodes.String(f.resolve(ba)), "(address 0x7)")

	md := f.add(symbols.Symbol{Kind: symbols.KindMetadata, Type: f.b.Metadata, Metadata: symbols.MetadataConst{Value: 42}})
	be.Equal(t, nodes.String(f.resolve(md)), "(i64 42)")

	bad := f.add(symbols.Symbol{Kind: symbols.KindInvalid, Type: f.b.I32})
	be.Equal(t, resolveErr(t, f, bad).Kind, ErrUnsupportedSymbol)
}

func TestResolveIsDeterministic(t *testing.T) {
	f := newFixture(t)
	st := f.in.LiteralStruct([]types.TypeID{f.b.I8, f.b.Double}, false)
	id := f.add(symbols.Aggregate(symbols.KindStruct, st, f.intConst(f.b.I8, 3), f.add(symbols.Null(f.b.Double))))
	a, b := f.resolve(id), f.resolve(id)
	be.Equal(t, nodes.String(a), nodes.String(b))
	be.True(t, a.Struct.Target != b.Struct.Target)
}
