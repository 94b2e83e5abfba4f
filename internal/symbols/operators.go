package symbols

import "fmt"

// BinaryOp is the opcode of a binary operation constant or instruction.
type BinaryOp uint8

const (
	BinInvalid BinaryOp = iota
	BinAdd
	BinSub
	BinMul
	BinUDiv
	BinSDiv
	BinURem
	BinSRem
	BinFAdd
	BinFSub
	BinFMul
	BinFDiv
	BinFRem
	BinShl
	BinLShr
	BinAShr
	BinAnd
	BinOr
	BinXor
)

var binaryOpNames = [...]string{
	BinInvalid: "invalid",
	BinAdd:     "add",
	BinSub:     "sub",
	BinMul:     "mul",
	BinUDiv:    "udiv",
	BinSDiv:    "sdiv",
	BinURem:    "urem",
	BinSRem:    "srem",
	BinFAdd:    "fadd",
	BinFSub:    "fsub",
	BinFMul:    "fmul",
	BinFDiv:    "fdiv",
	BinFRem:    "frem",
	BinShl:     "shl",
	BinLShr:    "lshr",
	BinAShr:    "ashr",
	BinAnd:     "and",
	BinOr:      "or",
	BinXor:     "xor",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// CastOp is the opcode of a conversion.
type CastOp uint8

const (
	CastInvalid CastOp = iota
	CastTrunc
	CastZExt
	CastSExt
	CastFPToUI
	CastFPToSI
	CastUIToFP
	CastSIToFP
	CastFPTrunc
	CastFPExt
	CastPtrToInt
	CastIntToPtr
	CastBitcast
	CastAddrSpaceCast
)

var castOpNames = [...]string{
	CastInvalid:       "invalid",
	CastTrunc:         "trunc",
	CastZExt:          "zext",
	CastSExt:          "sext",
	CastFPToUI:        "fptoui",
	CastFPToSI:        "fptosi",
	CastUIToFP:        "uitofp",
	CastSIToFP:        "sitofp",
	CastFPTrunc:       "fptrunc",
	CastFPExt:         "fpext",
	CastPtrToInt:      "ptrtoint",
	CastIntToPtr:      "inttoptr",
	CastBitcast:       "bitcast",
	CastAddrSpaceCast: "addrspacecast",
}

func (op CastOp) String() string {
	if int(op) < len(castOpNames) {
		return castOpNames[op]
	}
	return fmt.Sprintf("CastOp(%d)", op)
}

// Predicate is an icmp/fcmp condition code.
type Predicate uint8

const (
	PredInvalid Predicate = iota
	// floating-point predicates
	PredFalse
	PredOEQ
	PredOGT
	PredOGE
	PredOLT
	PredOLE
	PredONE
	PredORD
	PredUNO
	PredUEQ
	PredUGTF
	PredUGEF
	PredULTF
	PredULEF
	PredUNE
	PredTrue
	// integer predicates
	PredEQ
	PredNE
	PredUGT
	PredUGE
	PredULT
	PredULE
	PredSGT
	PredSGE
	PredSLT
	PredSLE
)

var predicateNames = [...]string{
	PredInvalid: "invalid",
	PredFalse:   "false",
	PredOEQ:     "oeq",
	PredOGT:     "ogt",
	PredOGE:     "oge",
	PredOLT:     "olt",
	PredOLE:     "ole",
	PredONE:     "one",
	PredORD:     "ord",
	PredUNO:     "uno",
	PredUEQ:     "ueq",
	PredUGTF:    "ugt",
	PredUGEF:    "uge",
	PredULTF:    "ult",
	PredULEF:    "ule",
	PredUNE:     "une",
	PredTrue:    "true",
	PredEQ:      "eq",
	PredNE:      "ne",
	PredUGT:     "ugt",
	PredUGE:     "uge",
	PredULT:     "ult",
	PredULE:     "ule",
	PredSGT:     "sgt",
	PredSGE:     "sge",
	PredSLT:     "slt",
	PredSLE:     "sle",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return fmt.Sprintf("Predicate(%d)", p)
}

// IsFloat reports whether p is an fcmp predicate.
func (p Predicate) IsFloat() bool {
	return p >= PredFalse && p <= PredTrue
}

// ParseBinaryOp maps an LLVM opcode mnemonic to a BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i := BinAdd; int(i) < len(binaryOpNames); i++ {
		if binaryOpNames[i] == s {
			return i, true
		}
	}
	return BinInvalid, false
}

// ParseCastOp maps an LLVM conversion mnemonic to a CastOp.
func ParseCastOp(s string) (CastOp, bool) {
	for i := CastTrunc; int(i) < len(castOpNames); i++ {
		if castOpNames[i] == s {
			return i, true
		}
	}
	return CastInvalid, false
}

// ParsePredicate maps a condition code to a Predicate. The same mnemonic
// names different predicates for icmp and fcmp, hence the float flag.
func ParsePredicate(s string, float bool) (Predicate, bool) {
	lo, hi := PredEQ, PredSLE
	if float {
		lo, hi = PredFalse, PredTrue
	}
	for p := lo; p <= hi; p++ {
		if predicateNames[p] == s {
			return p, true
		}
	}
	return PredInvalid, false
}
