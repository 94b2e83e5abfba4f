package resolve

import (
	"fmt"
	"math/big"
	"strconv"

	"fortio.org/safecast"

	"llnode/internal/diag"
	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/trace"
	"llnode/internal/types"
)

func (r *Resolver) resolveInteger(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	bits, ok := r.cfg.Types.IntBits(sym.Type)
	if !ok {
		return nil, invariant(id, "integer constant of non-integer type %s", r.cfg.Types.TypeString(sym.Type))
	}
	width, err := safecast.Conv[int](bits)
	if err != nil {
		return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
	}

	var value *big.Int
	if sym.Kind == symbols.KindBigInteger {
		value, err = sym.BigInt.Value()
		if err != nil {
			return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
		}
	} else {
		value = big.NewInt(sym.Int.Value)
	}

	switch kind := r.baseKind(sym.Type); kind {
	case types.BaseI1, types.BaseI8, types.BaseI16, types.BaseI32, types.BaseI64:
		low := nodes.VarBitFromBig(64, value).Signed().Int64()
		return nodes.Int(kind, low), nil
	default:
		return nodes.Wide(nodes.VarBitFromBig(width, value)), nil
	}
}

func (r *Resolver) resolveFloat(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	c := sym.Float
	switch kind := r.baseKind(sym.Type); kind {
	case types.BaseHalf:
		return nodes.Half(uint16(c.Bits)), nil //nolint:gosec // low 16 bits hold the encoding
	case types.BaseFloat:
		return nodes.Float(uint32(c.Bits)), nil //nolint:gosec // low 32 bits hold the encoding
	case types.BaseDouble:
		return nodes.Double(c.Bits), nil
	case types.BaseX86FP80:
		if len(c.Raw) != 10 {
			return nil, invariant(id, "x86_fp80 constant needs 10 bytes, got %d", len(c.Raw))
		}
		return nodes.X86FP80(c.Raw), nil
	case types.BaseFP128:
		if len(c.Raw) != 16 {
			return nil, invariant(id, "fp128 constant needs 16 bytes, got %d", len(c.Raw))
		}
		return nodes.FP128(c.Raw), nil
	default:
		return nil, invariant(id, "float constant of kind %s", kind)
	}
}

// zeroValue builds the all-zero value of type t. Scalars become literals,
// aggregates a zero-filled scratch allocation, vectors a literal of zero lanes.
func (r *Resolver) zeroValue(id symbols.SymbolID, t types.TypeID) (*nodes.Node, error) {
	switch kind := r.baseKind(t); kind {
	case types.BaseI1:
		return nodes.Bool(false), nil
	case types.BaseI8, types.BaseI16, types.BaseI32, types.BaseI64:
		return nodes.Int(kind, 0), nil
	case types.BaseIVarBit:
		bits, _ := r.cfg.Types.IntBits(t)
		return nodes.Wide(nodes.VarBitFromInt64(int(bits), 0)), nil
	case types.BaseHalf:
		return nodes.Half(0), nil
	case types.BaseFloat:
		return nodes.Float(0), nil
	case types.BaseDouble:
		return nodes.Double(0), nil
	case types.BaseX86FP80:
		return nodes.X86FP80(make([]byte, 10)), nil
	case types.BaseFP128:
		return nodes.FP128(make([]byte, 16)), nil
	case types.BaseAddress:
		return nodes.Address(0), nil
	case types.BaseFunctionAddress:
		return nodes.NullFunction(), nil
	case types.BaseArray, types.BaseStruct:
		size := r.cfg.Layout.ByteSize(t)
		target := nodes.NewAlloca(size, r.cfg.Layout.ByteAlignment(t))
		return nodes.NewZeroFill(target, size), nil
	case types.BaseVector:
		tt, _ := r.cfg.Types.Lookup(t)
		lane, ok := nodes.StoreFor(r.baseKind(tt.Elem))
		if !ok || lane.Store == nodes.StoreCopy {
			return nil, invariant(id, "vector of %s", r.cfg.Types.TypeString(tt.Elem))
		}
		count, err := safecast.Conv[int](tt.Count)
		if err != nil {
			return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
		}
		values := make([]*nodes.Node, count)
		for i := range values {
			v, err := r.zeroValue(id, tt.Elem)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		target := nodes.NewAlloca(r.cfg.Layout.ByteSize(t), r.cfg.Layout.ByteAlignment(t))
		return nodes.NewVectorLiteral(lane.Store, values, target), nil
	default:
		return nil, invariant(id, "no zero value for %s", kind)
	}
}

func (r *Resolver) resolveBinary(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	lhs, err := r.Resolve(sym.Binary.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := r.Resolve(sym.Binary.RHS)
	if err != nil {
		return nil, err
	}
	return BinaryOperatorNode(id, sym.Binary.Op, r.baseKind(sym.Type), lhs, rhs)
}

// BinaryOperatorNode looks op up in the arithmetic table, then in the
// logical one. An operator in neither table is an invariant violation.
func BinaryOperatorNode(id symbols.SymbolID, op symbols.BinaryOp, kind types.BaseKind, lhs, rhs *nodes.Node) (*nodes.Node, error) {
	var (
		n   *nodes.Node
		err error
	)
	switch {
	case nodes.IsArithmetic(op):
		n, err = nodes.NewArithmetic(op, kind, lhs, rhs)
	case nodes.IsLogical(op):
		n, err = nodes.NewLogical(op, kind, lhs, rhs)
	default:
		return nil, invariant(id, "operator %s is not wired", op)
	}
	if err != nil {
		return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
	}
	return n, nil
}

func (r *Resolver) resolveCast(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	value, err := r.Resolve(sym.Cast.Value)
	if err != nil {
		return nil, err
	}
	from := r.baseKind(r.typeOf(sym.Cast.Value))
	return CastNode(id, sym.Cast.Op, from, r.baseKind(sym.Type), value)
}

// CastNode builds the conversion of value from one kind to another.
func CastNode(id symbols.SymbolID, op symbols.CastOp, from, to types.BaseKind, value *nodes.Node) (*nodes.Node, error) {
	n, err := nodes.NewCast(op, from, to, value)
	if err != nil {
		return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
	}
	return n, nil
}

func (r *Resolver) resolveCompare(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	lhs, err := r.Resolve(sym.Compare.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := r.Resolve(sym.Compare.RHS)
	if err != nil {
		return nil, err
	}
	return CompareNode(id, sym.Compare.Pred, r.baseKind(r.typeOf(sym.Compare.LHS)), lhs, rhs)
}

// CompareNode builds a comparison of two operands of kind operand.
func CompareNode(id symbols.SymbolID, pred symbols.Predicate, operand types.BaseKind, lhs, rhs *nodes.Node) (*nodes.Node, error) {
	n, err := nodes.NewCompare(pred, operand, lhs, rhs)
	if err != nil {
		return nil, &Error{Kind: ErrInvariant, Symbol: id, Err: err}
	}
	return n, nil
}

// EvaluateIntegerConstant returns the value of a constant usable as an
// element index: 0 for null, the decoded value for integer constants, and
// false for anything else. Integer constants are read as two's complement at
// their type's width, so i8 255 is -1. A value that does not fit the native
// int is narrowed to its low bits and reported as ResolvePrecisionLoss.
func EvaluateIntegerConstant(in *types.Interner, tab *symbols.Table, id symbols.SymbolID, reporter diag.Reporter) (int, bool) {
	v, ok, _ := evaluateIntegerConstant(in, tab, id, reporter, diag.Location{Symbol: uint32(id)})
	return v, ok
}

func (r *Resolver) evaluateIntegerConstant(id symbols.SymbolID) (int, bool) {
	v, ok, narrowed := evaluateIntegerConstant(r.cfg.Types, r.cfg.Symbols, id, r.cfg.Reporter, r.where(id))
	if narrowed {
		trace.SymbolPoint(r.tracer, r.cfg.Where.Function, uint32(id), "precision-loss", fmt.Sprintf("narrowed to %d", v), r.span)
	}
	return v, ok
}

func evaluateIntegerConstant(in *types.Interner, tab *symbols.Table, id symbols.SymbolID, reporter diag.Reporter, at diag.Location) (value int, ok, narrowed bool) {
	sym := tab.Get(id)
	if sym == nil {
		return 0, false, false
	}
	var exact *big.Int
	switch sym.Kind {
	case symbols.KindNull:
		return 0, true, false
	case symbols.KindInteger:
		exact = big.NewInt(sym.Int.Value)
	case symbols.KindBigInteger:
		v, err := sym.BigInt.Value()
		if err != nil {
			return 0, false, false
		}
		exact = v
	default:
		return 0, false, false
	}

	if bits, isInt := in.IntBits(sym.Type); isInt && bits > 0 {
		if width, err := safecast.Conv[int](bits); err == nil {
			exact = nodes.VarBitFromBig(width, exact).Signed()
		}
	}
	if exact.IsInt64() {
		if n, err := safecast.Conv[int](exact.Int64()); err == nil {
			return n, true, false
		}
	}

	low := int(nodes.VarBitFromBig(strconv.IntSize, exact).Signed().Int64())
	if reporter != nil {
		diag.ReportInfo(reporter, diag.ResolvePrecisionLoss, at,
			fmt.Sprintf("index constant %s does not fit a native int, using %d", exact, low)).Emit()
	}
	return low, true, true
}
