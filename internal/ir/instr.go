package ir

import (
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// InstrKind enumerates the value and memory instructions of a block.
type InstrKind uint8

const (
	InstrInvalid InstrKind = iota
	// InstrGEP computes an element address.
	InstrGEP
	// InstrBinary is an arithmetic or bitwise operation.
	InstrBinary
	InstrCast
	InstrCompare
	// InstrAlloca reserves stack memory for one value of Alloca.Type.
	InstrAlloca
	InstrLoad
	InstrStore
)

var instrNames = [...]string{
	InstrInvalid: "invalid",
	InstrGEP:     "gep",
	InstrBinary:  "binop",
	InstrCast:    "cast",
	InstrCompare: "cmp",
	InstrAlloca:  "alloca",
	InstrLoad:    "load",
	InstrStore:   "store",
}

func (k InstrKind) String() string {
	if int(k) < len(instrNames) {
		return instrNames[k]
	}
	return "unknown"
}

// Instr is one instruction. Result is the local symbol naming the produced
// value; it is NoSymbolID for store.
type Instr struct {
	Kind   InstrKind
	Result symbols.SymbolID

	GEP     GEPInstr
	Binary  BinaryInstr
	Cast    CastInstr
	Compare CompareInstr
	Alloca  AllocaInstr
	Load    LoadInstr
	Store   StoreInstr
}

type GEPInstr struct {
	Base     symbols.SymbolID
	Indices  []symbols.SymbolID
	InBounds bool
}

type BinaryInstr struct {
	Op  symbols.BinaryOp
	LHS symbols.SymbolID
	RHS symbols.SymbolID
}

type CastInstr struct {
	Op    symbols.CastOp
	Value symbols.SymbolID
}

type CompareInstr struct {
	Pred symbols.Predicate
	LHS  symbols.SymbolID
	RHS  symbols.SymbolID
}

type AllocaInstr struct {
	Type types.TypeID
}

type LoadInstr struct {
	Address symbols.SymbolID
}

type StoreInstr struct {
	Address symbols.SymbolID
	Value   symbols.SymbolID
}

// TermKind enumerates block terminators.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermJump
	TermCond
	TermUnreachable
)

// Terminator ends a block. Branch targets are block names in the same
// function.
type Terminator struct {
	Kind TermKind

	Return ReturnTerm
	Jump   JumpTerm
	Cond   CondTerm
}

type ReturnTerm struct {
	HasValue bool
	Value    symbols.SymbolID
}

type JumpTerm struct {
	Target string
}

type CondTerm struct {
	Cond symbols.SymbolID
	Then string
	Else string
}
