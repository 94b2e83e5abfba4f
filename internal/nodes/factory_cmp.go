package nodes

import (
	"fmt"

	"llnode/internal/symbols"
	"llnode/internal/types"
)

// CompareOp is a comparison node operator.
type CompareOp uint8

const (
	CmpInvalid CompareOp = iota
	CmpEq
	CmpNe
	CmpUGt
	CmpUGe
	CmpULt
	CmpULe
	CmpSGt
	CmpSGe
	CmpSLt
	CmpSLe
	CmpOEq
	CmpOGt
	CmpOGe
	CmpOLt
	CmpOLe
	CmpONe
	CmpOrd
	CmpUno
	CmpUEq
	CmpUGtF
	CmpUGeF
	CmpULtF
	CmpULeF
	CmpUNe
)

var compareNames = [...]string{
	CmpInvalid: "invalid",
	CmpEq:      "eq",
	CmpNe:      "ne",
	CmpUGt:     "ugt",
	CmpUGe:     "uge",
	CmpULt:     "ult",
	CmpULe:     "ule",
	CmpSGt:     "sgt",
	CmpSGe:     "sge",
	CmpSLt:     "slt",
	CmpSLe:     "sle",
	CmpOEq:     "oeq",
	CmpOGt:     "ogt",
	CmpOGe:     "oge",
	CmpOLt:     "olt",
	CmpOLe:     "ole",
	CmpONe:     "one",
	CmpOrd:     "ord",
	CmpUno:     "uno",
	CmpUEq:     "ueq",
	CmpUGtF:    "ugt",
	CmpUGeF:    "uge",
	CmpULtF:    "ult",
	CmpULeF:    "ule",
	CmpUNe:     "une",
}

func (op CompareOp) String() string {
	if int(op) < len(compareNames) {
		return compareNames[op]
	}
	return fmt.Sprintf("CompareOp(%d)", op)
}

// IsFloat reports whether op compares floating-point operands.
func (op CompareOp) IsFloat() bool {
	return op >= CmpOEq && op <= CmpUNe
}

var compareOps = map[symbols.Predicate]CompareOp{
	symbols.PredEQ:   CmpEq,
	symbols.PredNE:   CmpNe,
	symbols.PredUGT:  CmpUGt,
	symbols.PredUGE:  CmpUGe,
	symbols.PredULT:  CmpULt,
	symbols.PredULE:  CmpULe,
	symbols.PredSGT:  CmpSGt,
	symbols.PredSGE:  CmpSGe,
	symbols.PredSLT:  CmpSLt,
	symbols.PredSLE:  CmpSLe,
	symbols.PredOEQ:  CmpOEq,
	symbols.PredOGT:  CmpOGt,
	symbols.PredOGE:  CmpOGe,
	symbols.PredOLT:  CmpOLt,
	symbols.PredOLE:  CmpOLe,
	symbols.PredONE:  CmpONe,
	symbols.PredORD:  CmpOrd,
	symbols.PredUNO:  CmpUno,
	symbols.PredUEQ:  CmpUEq,
	symbols.PredUGTF: CmpUGtF,
	symbols.PredUGEF: CmpUGeF,
	symbols.PredULTF: CmpULtF,
	symbols.PredULEF: CmpULeF,
	symbols.PredUNE:  CmpUNe,
}

// NewCompare builds a comparison over operands of kind. The constant fcmp
// predicates fold to an i1 literal.
func NewCompare(pred symbols.Predicate, kind types.BaseKind, lhs, rhs *Node) (*Node, error) {
	switch pred {
	case symbols.PredFalse:
		return Bool(false), nil
	case symbols.PredTrue:
		return Bool(true), nil
	}
	op, ok := compareOps[pred]
	if !ok {
		return nil, fmt.Errorf("%w: predicate %s", ErrUnsupported, pred)
	}
	switch {
	case kind == types.BaseVector:
	case op.IsFloat() && kind.IsFloat():
	case !op.IsFloat() && (kind.IsInteger() || kind == types.BaseAddress || kind == types.BaseFunctionAddress):
	default:
		return nil, fmt.Errorf("%w: %s compare on %s", ErrUnsupported, op, kind)
	}
	res := types.BaseI1
	if kind == types.BaseVector {
		res = types.BaseVector
	}
	return &Node{
		Kind:    KindCompare,
		Result:  res,
		Compare: Compare{Op: op, Operand: kind, LHS: lhs, RHS: rhs},
	}, nil
}
