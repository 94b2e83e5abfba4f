package symbols

import (
	"fmt"
	"math/big"

	"llnode/internal/types"
)

// Kind classifies a decoded symbol. Every kind has exactly one payload
// field in Symbol; consumers switch on Kind exhaustively.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindLocal is the result of a value instruction.
	KindLocal
	KindParam
	KindGlobal
	KindFunction
	KindInteger
	// KindBigInteger is an integer constant too wide for int64.
	KindBigInteger
	KindFloat
	KindNull
	KindUndef
	KindStruct
	KindArray
	KindVector
	KindBinary
	KindCast
	KindCompare
	KindGEP
	KindBlockAddress
	KindMetadata
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindLocal:        "local",
	KindParam:        "param",
	KindGlobal:       "global",
	KindFunction:     "function",
	KindInteger:      "integer",
	KindBigInteger:   "big-integer",
	KindFloat:        "float",
	KindNull:         "null",
	KindUndef:        "undef",
	KindStruct:       "struct",
	KindArray:        "array",
	KindVector:       "vector",
	KindBinary:       "binary",
	KindCast:         "cast",
	KindCompare:      "compare",
	KindGEP:          "gep",
	KindBlockAddress: "blockaddress",
	KindMetadata:     "metadata",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsConstant reports whether k is a constant expression kind.
func (k Kind) IsConstant() bool {
	return k >= KindInteger && k <= KindMetadata
}

// Symbol is a decoded reference to a value, constant, global or function.
type Symbol struct {
	Kind Kind
	Type types.TypeID
	Name string // locals, params, globals and functions

	Int       IntConst
	BigInt    BigIntConst
	Float     FloatConst
	Aggregate AggregateConst
	Binary    BinaryConst
	Cast      CastConst
	Compare   CompareConst
	GEP       GEPConst
	BlockAddr BlockAddrConst
	Metadata  MetadataConst
}

// IntConst holds an integer constant of at most 64 bits.
type IntConst struct {
	Value int64
}

// BigIntConst keeps the decimal text of a wide integer constant.
type BigIntConst struct {
	Text string
}

// Value parses the constant.
func (c BigIntConst) Value() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.Text, 10)
	if !ok {
		return nil, fmt.Errorf("invalid big integer %q", c.Text)
	}
	return v, nil
}

// FloatConst holds the raw encoding of a floating-point constant. Half,
// float and double use the low bits of Bits; x86_fp80 and fp128 use Raw
// (little-endian, 10 and 16 bytes).
type FloatConst struct {
	Bits uint64
	Raw  []byte
}

// AggregateConst lists the element symbols of a struct, array or vector.
type AggregateConst struct {
	Elems []SymbolID
}

// BinaryConst is a constant binary operation.
type BinaryConst struct {
	Op  BinaryOp
	LHS SymbolID
	RHS SymbolID
}

// CastConst is a constant conversion of Value to the symbol's type.
type CastConst struct {
	Op    CastOp
	Value SymbolID
}

// CompareConst is a constant comparison.
type CompareConst struct {
	Pred Predicate
	LHS  SymbolID
	RHS  SymbolID
}

// GEPConst is a constant getelementptr expression. The symbol's type is the
// result pointer type; Base carries the pointer being indexed.
type GEPConst struct {
	Base     SymbolID
	Indices  []SymbolID
	InBounds bool
}

// BlockAddrConst names a basic block inside Function.
type BlockAddrConst struct {
	Function SymbolID
	Block    string
}

// MetadataConst is an opaque metadata reference.
type MetadataConst struct {
	Value int64
}
