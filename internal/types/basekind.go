package types

// BaseKind is the primitive classification used to pick node variants.
type BaseKind uint8

const (
	BaseInvalid BaseKind = iota
	BaseVoid
	BaseI1
	BaseI8
	BaseI16
	BaseI32
	BaseI64
	BaseIVarBit
	BaseHalf
	BaseFloat
	BaseDouble
	BaseX86FP80
	BaseFP128
	BaseAddress
	BaseFunctionAddress
	BaseArray
	BaseStruct
	BaseVector
	BaseLabel
	BaseMetadata
)

var baseKindNames = [...]string{
	BaseInvalid:         "invalid",
	BaseVoid:            "void",
	BaseI1:              "i1",
	BaseI8:              "i8",
	BaseI16:             "i16",
	BaseI32:             "i32",
	BaseI64:             "i64",
	BaseIVarBit:         "ivarbit",
	BaseHalf:            "half",
	BaseFloat:           "float",
	BaseDouble:          "double",
	BaseX86FP80:         "x86_fp80",
	BaseFP128:           "fp128",
	BaseAddress:         "address",
	BaseFunctionAddress: "function",
	BaseArray:           "array",
	BaseStruct:          "struct",
	BaseVector:          "vector",
	BaseLabel:           "label",
	BaseMetadata:        "metadata",
}

func (k BaseKind) String() string {
	if int(k) < len(baseKindNames) {
		return baseKindNames[k]
	}
	return "unknown"
}

// IsInteger reports whether k is a scalar integer kind.
func (k BaseKind) IsInteger() bool {
	switch k {
	case BaseI1, BaseI8, BaseI16, BaseI32, BaseI64, BaseIVarBit:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is a scalar floating-point kind.
func (k BaseKind) IsFloat() bool {
	switch k {
	case BaseHalf, BaseFloat, BaseDouble, BaseX86FP80, BaseFP128:
		return true
	default:
		return false
	}
}

// IsAggregate reports whether values of k live in memory rather than in a slot.
func (k BaseKind) IsAggregate() bool {
	return k == BaseArray || k == BaseStruct
}

// BaseKind classifies id. Pointers to functions are function addresses,
// every other pointer is a plain address.
func (in *Interner) BaseKind(id TypeID) BaseKind {
	tt, ok := in.Lookup(id)
	if !ok {
		return BaseInvalid
	}
	switch tt.Kind {
	case KindVoid:
		return BaseVoid
	case KindLabel:
		return BaseLabel
	case KindMetadata:
		return BaseMetadata
	case KindInt:
		switch tt.Bits {
		case 1:
			return BaseI1
		case 8:
			return BaseI8
		case 16:
			return BaseI16
		case 32:
			return BaseI32
		case 64:
			return BaseI64
		default:
			return BaseIVarBit
		}
	case KindFloat:
		switch tt.Float {
		case FloatHalf:
			return BaseHalf
		case FloatSingle:
			return BaseFloat
		case FloatDouble:
			return BaseDouble
		case FloatX86FP80:
			return BaseX86FP80
		case FloatFP128:
			return BaseFP128
		default:
			return BaseInvalid
		}
	case KindPointer:
		if elem, ok := in.Lookup(tt.Elem); ok && elem.Kind == KindFn {
			return BaseFunctionAddress
		}
		return BaseAddress
	case KindFn:
		return BaseFunctionAddress
	case KindArray:
		return BaseArray
	case KindVector:
		return BaseVector
	case KindStruct:
		return BaseStruct
	default:
		return BaseInvalid
	}
}

// IntBits returns the bit width of an integer type.
func (in *Interner) IntBits(id TypeID) (uint32, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindInt {
		return 0, false
	}
	return tt.Bits, true
}
