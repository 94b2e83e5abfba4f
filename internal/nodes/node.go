// Package nodes defines the operation trees produced for a function body.
//
// A Node is a tagged union: Kind selects which payload field is meaningful,
// the others stay zero. Trees are built once per use site and handed to the
// caller; nothing in this package keeps a reference to a node after
// returning it.
package nodes

import (
	"fmt"

	"llnode/internal/fnreg"
	"llnode/internal/types"
)

// Kind enumerates operation node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindLiteral materialises a scalar constant.
	KindLiteral
	// KindFrameRead reads a local or parameter slot.
	KindFrameRead
	// KindFrameWrite stores a value instruction result into its slot.
	KindFrameWrite
	// KindGlobal yields the address of a global value.
	KindGlobal
	// KindFunction yields a function descriptor.
	KindFunction
	// KindAlloca reserves scratch storage.
	KindAlloca
	// KindZeroFill clears storage and yields its address.
	KindZeroFill
	// KindElementPtr adds stride*index to an address.
	KindElementPtr
	KindArrayLiteral
	KindStructLiteral
	KindVectorLiteral
	KindArithmetic
	KindLogical
	KindCompare
	KindCast
	KindLoad
	KindStore
	KindReturn
	KindBranch
	// KindUnreachable traps if control reaches it.
	KindUnreachable
	KindBlock
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindLiteral:       "literal",
	KindFrameRead:     "read",
	KindFrameWrite:    "write-slot",
	KindGlobal:        "global",
	KindFunction:      "function",
	KindAlloca:        "alloca",
	KindZeroFill:      "zero-fill",
	KindElementPtr:    "gep",
	KindArrayLiteral:  "array-literal",
	KindStructLiteral: "struct-literal",
	KindVectorLiteral: "vector-literal",
	KindArithmetic:    "arithmetic",
	KindLogical:       "logical",
	KindCompare:       "compare",
	KindCast:          "cast",
	KindLoad:          "load",
	KindStore:         "store",
	KindReturn:        "ret",
	KindBranch:        "br",
	KindUnreachable:   "unreachable",
	KindBlock:         "block",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Node is one evaluable operation.
type Node struct {
	Kind Kind
	// Result is the primitive kind of the value the node produces.
	Result types.BaseKind

	Literal  Literal
	Slot     SlotRef
	Global   GlobalRef
	Function *fnreg.Descriptor
	Alloca   Alloca
	ZeroFill ZeroFill
	ElemPtr  ElemPtr
	Array    ArrayLiteral
	Struct   StructLiteral
	Vector   VectorLiteral
	Arith    Arith
	Logic    Logic
	Compare  Compare
	Cast     Cast
	Load     Load
	Store    Store
	Return   Return
	Branch   Branch
	Block    Block
}

// SlotRef names a frame slot. FrameWrite nodes carry the stored value.
type SlotRef struct {
	Index int
	Name  string
	Value *Node // FrameWrite only
}

// GlobalRef names a global value by its index in the module's global table.
type GlobalRef struct {
	Index int
	Name  string
}

// Alloca reserves Size bytes aligned to Align.
type Alloca struct {
	Size  int
	Align int
}

// ZeroFill clears Size bytes at Target.
type ZeroFill struct {
	Target *Node
	Size   int
}

// ElemPtr computes Base + Stride*Index.
type ElemPtr struct {
	Base      *Node
	Index     *Node
	IndexKind types.BaseKind
	Stride    int
}

// ArrayLiteral writes Values at Stride intervals into Target.
type ArrayLiteral struct {
	Store  StoreKind
	Values []*Node
	Stride int
	Target *Node
}

// StructLiteral writes each field at its offset into Target.
type StructLiteral struct {
	Offsets []int
	Writes  []StructWrite
	Target  *Node
}

// StructWrite stores one field. Size is set for StoreCopy.
type StructWrite struct {
	Store StoreKind
	Value *Node
	Size  int
}

// VectorLiteral packs lane values into Target.
type VectorLiteral struct {
	Lane   StoreKind
	Values []*Node
	Target *Node
}

// Arith is an arithmetic operation.
type Arith struct {
	Op  ArithOp
	LHS *Node
	RHS *Node
}

// Logic is a bitwise or shift operation.
type Logic struct {
	Op  LogicOp
	LHS *Node
	RHS *Node
}

// Compare evaluates a predicate over two operands of kind Operand.
type Compare struct {
	Op      CompareOp
	Operand types.BaseKind
	LHS     *Node
	RHS     *Node
}

// Cast converts Value from From to the node's Result.
type Cast struct {
	Conv  Conversion
	From  types.BaseKind
	Value *Node
}

// Load reads a value of the node's Result kind from Address.
type Load struct {
	Address *Node
	Size    int
}

// Store writes Value to Address. Size is set for aggregate copies.
type Store struct {
	Store   StoreKind
	Address *Node
	Value   *Node
	Size    int
}

// Return leaves the function, optionally with a value.
type Return struct {
	Value *Node
}

// Branch jumps to Then, or to Then/Else depending on Cond.
type Branch struct {
	Cond *Node
	Then int
	Else int
}

// Block is a labelled statement list.
type Block struct {
	Label int
	Name  string
	Stmts []*Node
}
