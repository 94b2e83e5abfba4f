package nodes

import (
	"fmt"

	"llnode/internal/symbols"
	"llnode/internal/types"
)

// Conversion is a cast node operator.
type Conversion uint8

const (
	ConvInvalid Conversion = iota
	ConvTruncate
	ConvZeroExtend
	ConvSignExtend
	ConvFPToUnsigned
	ConvFPToSigned
	ConvUnsignedToFP
	ConvSignedToFP
	ConvFPTruncate
	ConvFPExtend
	ConvPtrToInt
	ConvIntToPtr
	ConvBitcast
	ConvAddrSpace
)

var conversionNames = [...]string{
	ConvInvalid:      "invalid",
	ConvTruncate:     "trunc",
	ConvZeroExtend:   "zext",
	ConvSignExtend:   "sext",
	ConvFPToUnsigned: "fptoui",
	ConvFPToSigned:   "fptosi",
	ConvUnsignedToFP: "uitofp",
	ConvSignedToFP:   "sitofp",
	ConvFPTruncate:   "fptrunc",
	ConvFPExtend:     "fpext",
	ConvPtrToInt:     "ptrtoint",
	ConvIntToPtr:     "inttoptr",
	ConvBitcast:      "bitcast",
	ConvAddrSpace:    "addrspacecast",
}

func (c Conversion) String() string {
	if int(c) < len(conversionNames) {
		return conversionNames[c]
	}
	return fmt.Sprintf("Conversion(%d)", c)
}

type kindClass uint8

const (
	classAny kindClass = iota
	classInt
	classFloat
	classPointer
)

type castEntry struct {
	conv     Conversion
	from, to kindClass
}

var castOps = map[symbols.CastOp]castEntry{
	symbols.CastTrunc:         {ConvTruncate, classInt, classInt},
	symbols.CastZExt:          {ConvZeroExtend, classInt, classInt},
	symbols.CastSExt:          {ConvSignExtend, classInt, classInt},
	symbols.CastFPToUI:        {ConvFPToUnsigned, classFloat, classInt},
	symbols.CastFPToSI:        {ConvFPToSigned, classFloat, classInt},
	symbols.CastUIToFP:        {ConvUnsignedToFP, classInt, classFloat},
	symbols.CastSIToFP:        {ConvSignedToFP, classInt, classFloat},
	symbols.CastFPTrunc:       {ConvFPTruncate, classFloat, classFloat},
	symbols.CastFPExt:         {ConvFPExtend, classFloat, classFloat},
	symbols.CastPtrToInt:      {ConvPtrToInt, classPointer, classInt},
	symbols.CastIntToPtr:      {ConvIntToPtr, classInt, classPointer},
	symbols.CastBitcast:       {ConvBitcast, classAny, classAny},
	symbols.CastAddrSpaceCast: {ConvAddrSpace, classPointer, classPointer},
}

func (c kindClass) admits(k types.BaseKind) bool {
	switch c {
	case classInt:
		return k.IsInteger()
	case classFloat:
		return k.IsFloat()
	case classPointer:
		return k == types.BaseAddress || k == types.BaseFunctionAddress
	default:
		switch k {
		case types.BaseInvalid, types.BaseVoid, types.BaseLabel, types.BaseMetadata:
			return false
		}
		return true
	}
}

// NewCast builds a conversion of value from kind from to kind to. Vector
// conversions are accepted when both sides are vectors.
func NewCast(op symbols.CastOp, from, to types.BaseKind, value *Node) (*Node, error) {
	e, ok := castOps[op]
	if !ok {
		return nil, fmt.Errorf("%w: cast %s", ErrUnsupported, op)
	}
	vec := from == types.BaseVector && to == types.BaseVector
	if !vec && (!e.from.admits(from) || !e.to.admits(to)) {
		return nil, fmt.Errorf("%w: %s from %s to %s", ErrUnsupported, op, from, to)
	}
	return &Node{Kind: KindCast, Result: to, Cast: Cast{Conv: e.conv, From: from, Value: value}}, nil
}
