package nodes

import (
	"errors"
	"fmt"

	"llnode/internal/symbols"
	"llnode/internal/types"
)

// ErrUnsupported reports an operator/kind combination no factory handles.
var ErrUnsupported = errors.New("unsupported operation")

// ArithOp is an arithmetic node operator.
type ArithOp uint8

const (
	ArithInvalid ArithOp = iota
	ArithAdd
	ArithSub
	ArithMul
	ArithDiv
	ArithUDiv
	ArithRem
	ArithURem
)

var arithNames = [...]string{
	ArithInvalid: "invalid",
	ArithAdd:     "add",
	ArithSub:     "sub",
	ArithMul:     "mul",
	ArithDiv:     "div",
	ArithUDiv:    "udiv",
	ArithRem:     "rem",
	ArithURem:    "urem",
}

func (op ArithOp) String() string {
	if int(op) < len(arithNames) {
		return arithNames[op]
	}
	return fmt.Sprintf("ArithOp(%d)", op)
}

// LogicOp is a bitwise or shift node operator.
type LogicOp uint8

const (
	LogicInvalid LogicOp = iota
	LogicShl
	LogicLShr
	LogicAShr
	LogicAnd
	LogicOr
	LogicXor
)

var logicNames = [...]string{
	LogicInvalid: "invalid",
	LogicShl:     "shl",
	LogicLShr:    "lshr",
	LogicAShr:    "ashr",
	LogicAnd:     "and",
	LogicOr:      "or",
	LogicXor:     "xor",
}

func (op LogicOp) String() string {
	if int(op) < len(logicNames) {
		return logicNames[op]
	}
	return fmt.Sprintf("LogicOp(%d)", op)
}

type arithEntry struct {
	op    ArithOp
	float bool
}

var arithmeticOps = map[symbols.BinaryOp]arithEntry{
	symbols.BinAdd:  {op: ArithAdd},
	symbols.BinSub:  {op: ArithSub},
	symbols.BinMul:  {op: ArithMul},
	symbols.BinSDiv: {op: ArithDiv},
	symbols.BinUDiv: {op: ArithUDiv},
	symbols.BinSRem: {op: ArithRem},
	symbols.BinURem: {op: ArithURem},
	symbols.BinFAdd: {op: ArithAdd, float: true},
	symbols.BinFSub: {op: ArithSub, float: true},
	symbols.BinFMul: {op: ArithMul, float: true},
	symbols.BinFDiv: {op: ArithDiv, float: true},
	symbols.BinFRem: {op: ArithRem, float: true},
}

var logicalOps = map[symbols.BinaryOp]LogicOp{
	symbols.BinShl:  LogicShl,
	symbols.BinLShr: LogicLShr,
	symbols.BinAShr: LogicAShr,
	symbols.BinAnd:  LogicAnd,
	symbols.BinOr:   LogicOr,
	symbols.BinXor:  LogicXor,
}

// IsArithmetic reports whether op is in the arithmetic table.
func IsArithmetic(op symbols.BinaryOp) bool {
	_, ok := arithmeticOps[op]
	return ok
}

// IsLogical reports whether op is in the logical table.
func IsLogical(op symbols.BinaryOp) bool {
	_, ok := logicalOps[op]
	return ok
}

// NewArithmetic builds an arithmetic node over operands of kind.
func NewArithmetic(op symbols.BinaryOp, kind types.BaseKind, lhs, rhs *Node) (*Node, error) {
	e, ok := arithmeticOps[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not arithmetic", ErrUnsupported, op)
	}
	switch {
	case kind == types.BaseVector:
	case e.float && kind.IsFloat():
	case !e.float && kind.IsInteger():
	default:
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, op, kind)
	}
	return &Node{Kind: KindArithmetic, Result: kind, Arith: Arith{Op: e.op, LHS: lhs, RHS: rhs}}, nil
}

// NewLogical builds a bitwise or shift node over operands of kind.
func NewLogical(op symbols.BinaryOp, kind types.BaseKind, lhs, rhs *Node) (*Node, error) {
	lop, ok := logicalOps[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not logical", ErrUnsupported, op)
	}
	if !kind.IsInteger() && kind != types.BaseVector {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, op, kind)
	}
	return &Node{Kind: KindLogical, Result: kind, Logic: Logic{Op: lop, LHS: lhs, RHS: rhs}}, nil
}
