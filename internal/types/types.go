package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of IR types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindLabel
	KindMetadata
	KindInt
	KindFloat
	KindPointer
	KindFn
	KindArray
	KindVector
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindLabel:
		return "label"
	case KindMetadata:
		return "metadata"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindFn:
		return "fn"
	case KindArray:
		return "array"
	case KindVector:
		return "vector"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// FloatKind captures the precision of a floating-point type.
type FloatKind uint8

const (
	FloatNone FloatKind = iota
	FloatHalf
	FloatSingle
	FloatDouble
	FloatX86FP80
	FloatFP128
)

func (f FloatKind) String() string {
	switch f {
	case FloatHalf:
		return "half"
	case FloatSingle:
		return "float"
	case FloatDouble:
		return "double"
	case FloatX86FP80:
		return "x86_fp80"
	case FloatFP128:
		return "fp128"
	default:
		return "none"
	}
}

// Bits returns the storage width of the format in bits.
func (f FloatKind) Bits() uint32 {
	switch f {
	case FloatHalf:
		return 16
	case FloatSingle:
		return 32
	case FloatDouble:
		return 64
	case FloatX86FP80:
		return 80
	case FloatFP128:
		return 128
	default:
		return 0
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID    // pointer, array, vector
	Count   uint32    // array, vector
	Bits    uint32    // int
	Float   FloatKind // float
	Payload uint32    // index into struct/fn side tables
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes an integer of the given bit width.
func MakeInt(bits uint32) Type {
	return Type{Kind: KindInt, Bits: bits}
}

// MakeFloat describes a floating-point type.
func MakeFloat(kind FloatKind) Type {
	return Type{Kind: KindFloat, Float: kind}
}

// MakePointer describes a typed pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes [count x elem].
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeVector describes <count x elem>.
func MakeVector(elem TypeID, count uint32) Type {
	return Type{Kind: KindVector, Elem: elem, Count: count}
}
