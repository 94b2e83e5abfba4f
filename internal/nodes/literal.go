package nodes

import (
	"llnode/internal/fnreg"
	"llnode/internal/types"
)

// Literal is a scalar constant. Which field carries the value depends on Kind:
// integers and booleans use Int, Half/Float/Double/Address use Bits,
// X86FP80 and FP128 use Raw, arbitrary-width integers use VarBit.
type Literal struct {
	Kind   types.BaseKind
	Int    int64
	Bits   uint64
	Raw    []byte
	VarBit VarBit
}

func literal(l Literal) *Node {
	return &Node{Kind: KindLiteral, Result: l.Kind, Literal: l}
}

// Bool builds an i1 literal.
func Bool(v bool) *Node {
	var x int64
	if v {
		x = 1
	}
	return literal(Literal{Kind: types.BaseI1, Int: x})
}

// Int builds an integer literal of a fixed-width kind. The value is
// truncated to the kind's width.
func Int(kind types.BaseKind, v int64) *Node {
	switch kind {
	case types.BaseI1:
		v &= 1
	case types.BaseI8:
		v = int64(int8(v)) //nolint:gosec // truncation is the point
	case types.BaseI16:
		v = int64(int16(v)) //nolint:gosec // truncation is the point
	case types.BaseI32:
		v = int64(int32(v)) //nolint:gosec // truncation is the point
	}
	return literal(Literal{Kind: kind, Int: v})
}

// Wide builds an arbitrary-width integer literal.
func Wide(v VarBit) *Node {
	return literal(Literal{Kind: types.BaseIVarBit, VarBit: v})
}

// Half builds a half-precision literal from its raw encoding.
func Half(bits uint16) *Node {
	return literal(Literal{Kind: types.BaseHalf, Bits: uint64(bits)})
}

// Float builds a single-precision literal from its raw encoding.
func Float(bits uint32) *Node {
	return literal(Literal{Kind: types.BaseFloat, Bits: uint64(bits)})
}

// Double builds a double-precision literal from its raw encoding.
func Double(bits uint64) *Node {
	return literal(Literal{Kind: types.BaseDouble, Bits: bits})
}

// X86FP80 builds an 80-bit extended literal from its ten little-endian bytes.
func X86FP80(raw []byte) *Node {
	return literal(Literal{Kind: types.BaseX86FP80, Raw: raw})
}

// FP128 builds a quad-precision literal from its sixteen little-endian bytes.
func FP128(raw []byte) *Node {
	return literal(Literal{Kind: types.BaseFP128, Raw: raw})
}

// Address builds a raw address literal.
func Address(v uint64) *Node {
	return literal(Literal{Kind: types.BaseAddress, Bits: v})
}

// NullFunction is the zero function address.
func NullFunction() *Node {
	return literal(Literal{Kind: types.BaseFunctionAddress})
}

// FunctionRef yields a function descriptor value.
func FunctionRef(d *fnreg.Descriptor) *Node {
	return &Node{Kind: KindFunction, Result: types.BaseFunctionAddress, Function: d}
}

// NewFrameRead reads slot index of the given kind.
func NewFrameRead(kind types.BaseKind, index int, name string) *Node {
	return &Node{Kind: KindFrameRead, Result: kind, Slot: SlotRef{Index: index, Name: name}}
}

// NewFrameWrite stores value into slot index.
func NewFrameWrite(index int, name string, value *Node) *Node {
	return &Node{Kind: KindFrameWrite, Result: types.BaseVoid, Slot: SlotRef{Index: index, Name: name, Value: value}}
}

// NewGlobal yields the address of global index.
func NewGlobal(index int, name string) *Node {
	return &Node{Kind: KindGlobal, Result: types.BaseAddress, Global: GlobalRef{Index: index, Name: name}}
}

// NewAlloca reserves size bytes aligned to align.
func NewAlloca(size, align int) *Node {
	return &Node{Kind: KindAlloca, Result: types.BaseAddress, Alloca: Alloca{Size: size, Align: align}}
}

// NewZeroFill clears size bytes at target and yields target.
func NewZeroFill(target *Node, size int) *Node {
	return &Node{Kind: KindZeroFill, Result: types.BaseAddress, ZeroFill: ZeroFill{Target: target, Size: size}}
}

// NewElementPtr yields base + stride*index.
func NewElementPtr(base, index *Node, indexKind types.BaseKind, stride int) *Node {
	return &Node{
		Kind:    KindElementPtr,
		Result:  types.BaseAddress,
		ElemPtr: ElemPtr{Base: base, Index: index, IndexKind: indexKind, Stride: stride},
	}
}

// NewArrayLiteral writes values into target at stride intervals.
func NewArrayLiteral(store StoreKind, values []*Node, stride int, target *Node) *Node {
	return &Node{
		Kind:   KindArrayLiteral,
		Result: types.BaseArray,
		Array:  ArrayLiteral{Store: store, Values: values, Stride: stride, Target: target},
	}
}

// NewStructLiteral writes each field at its offset into target.
func NewStructLiteral(offsets []int, writes []StructWrite, target *Node) *Node {
	return &Node{
		Kind:   KindStructLiteral,
		Result: types.BaseStruct,
		Struct: StructLiteral{Offsets: offsets, Writes: writes, Target: target},
	}
}

// NewVectorLiteral packs lanes into target.
func NewVectorLiteral(lane StoreKind, values []*Node, target *Node) *Node {
	return &Node{
		Kind:   KindVectorLiteral,
		Result: types.BaseVector,
		Vector: VectorLiteral{Lane: lane, Values: values, Target: target},
	}
}

// NewLoad reads a value of kind from address.
func NewLoad(kind types.BaseKind, address *Node, size int) *Node {
	return &Node{Kind: KindLoad, Result: kind, Load: Load{Address: address, Size: size}}
}

// NewStore writes value to address.
func NewStore(store StoreKind, address, value *Node, size int) *Node {
	return &Node{
		Kind:   KindStore,
		Result: types.BaseVoid,
		Store:  Store{Store: store, Address: address, Value: value, Size: size},
	}
}

// NewReturn leaves the function. value may be nil.
func NewReturn(value *Node) *Node {
	res := types.BaseVoid
	if value != nil {
		res = value.Result
	}
	return &Node{Kind: KindReturn, Result: res, Return: Return{Value: value}}
}

// NewJump is an unconditional branch.
func NewJump(target int) *Node {
	return &Node{Kind: KindBranch, Result: types.BaseVoid, Branch: Branch{Then: target, Else: -1}}
}

// NewCondBranch branches on cond.
func NewCondBranch(cond *Node, then, els int) *Node {
	return &Node{Kind: KindBranch, Result: types.BaseVoid, Branch: Branch{Cond: cond, Then: then, Else: els}}
}

// NewUnreachable marks a point control never reaches.
func NewUnreachable() *Node {
	return &Node{Kind: KindUnreachable, Result: types.BaseVoid}
}

// NewBlock wraps stmts under a label.
func NewBlock(label int, name string, stmts []*Node) *Node {
	return &Node{Kind: KindBlock, Result: types.BaseVoid, Block: Block{Label: label, Name: name, Stmts: stmts}}
}
