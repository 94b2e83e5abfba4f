package irtext

import (
	"fmt"
	"strings"

	"llnode/internal/diag"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// constant returns the symbol of the named constant, building it and the
// constants it refers to on first use.
func (l *loader) constant(name string) (symbols.SymbolID, error) {
	if id, ok := l.constSyms[name]; ok {
		return id, nil
	}
	where := fmt.Sprintf("constants[%s]", name)
	decl, ok := l.consts[name]
	if !ok {
		return symbols.NoSymbolID, l.errorf(diag.LoadUnknownSymbol, "", "unknown constant $%s", name)
	}
	if l.pending[name] {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "$%s refers to itself", name)
	}
	l.pending[name] = true
	defer delete(l.pending, name)

	id, err := l.buildConstant(decl, where)
	if err != nil {
		return symbols.NoSymbolID, err
	}
	l.constSyms[name] = id
	return id, nil
}

func (l *loader) buildConstant(c *constDecl, where string) (symbols.SymbolID, error) {
	switch kind := strings.TrimSpace(c.Kind); kind {
	case "", "value":
		return l.operandText(c.Value, nil, where)
	case "struct", "array", "vector":
		return l.aggregateConstant(c, kind, where)
	case "binary":
		op, ok := symbols.ParseBinaryOp(c.Op)
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadInstruction, where, "unknown binary operator %q", c.Op)
		}
		lhs, rhs, err := l.operandPair(c, where)
		if err != nil {
			return symbols.NoSymbolID, err
		}
		return l.add(symbols.Symbol{Kind: symbols.KindBinary, Type: l.typeOf(lhs), Binary: symbols.BinaryConst{Op: op, LHS: lhs, RHS: rhs}}), nil
	case "cast":
		op, ok := symbols.ParseCastOp(c.Op)
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadInstruction, where, "unknown conversion %q", c.Op)
		}
		value, err := l.operandText(c.Operand, nil, where+".operand")
		if err != nil {
			return symbols.NoSymbolID, err
		}
		to, err := l.typeText(c.Type, where+".type")
		if err != nil {
			return symbols.NoSymbolID, err
		}
		return l.add(symbols.Symbol{Kind: symbols.KindCast, Type: to, Cast: symbols.CastConst{Op: op, Value: value}}), nil
	case "icmp", "fcmp":
		pred, ok := symbols.ParsePredicate(c.Op, kind == "fcmp")
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadInstruction, where, "unknown %s predicate %q", kind, c.Op)
		}
		lhs, rhs, err := l.operandPair(c, where)
		if err != nil {
			return symbols.NoSymbolID, err
		}
		return l.add(symbols.Symbol{Kind: symbols.KindCompare, Type: l.compareType(l.typeOf(lhs)), Compare: symbols.CompareConst{Pred: pred, LHS: lhs, RHS: rhs}}), nil
	case "gep":
		base, err := l.operandText(c.Base, nil, where+".base")
		if err != nil {
			return symbols.NoSymbolID, err
		}
		indices := make([]symbols.SymbolID, len(c.Indices))
		for i, text := range c.Indices {
			if indices[i], err = l.operandText(text, nil, fmt.Sprintf("%s.indices[%d]", where, i)); err != nil {
				return symbols.NoSymbolID, err
			}
		}
		var t types.TypeID
		if strings.TrimSpace(c.Type) != "" {
			t, err = l.typeText(c.Type, where+".type")
		} else {
			t, err = l.gepResultType(l.typeOf(base), indices, where)
		}
		if err != nil {
			return symbols.NoSymbolID, err
		}
		sym := symbols.GEP(t, base, indices...)
		sym.GEP.InBounds = c.InBounds
		return l.add(sym), nil
	case "blockaddress":
		fname := normalizeName(c.Function)
		fd, ok := l.funcDecls[fname]
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadUnknownSymbol, where, "unknown function @%s", fname)
		}
		block := normalizeName(c.Block)
		if !hasBlock(fd, block) {
			return symbols.NoSymbolID, l.errorf(diag.LoadUnknownSymbol, where, "@%s has no block %%%s", fname, block)
		}
		t := l.in.Intern(types.MakePointer(l.in.Builtins().I8))
		return l.add(symbols.Symbol{Kind: symbols.KindBlockAddress, Type: t, BlockAddr: symbols.BlockAddrConst{Function: l.values[fname], Block: block}}), nil
	case "metadata":
		return l.add(symbols.Symbol{Kind: symbols.KindMetadata, Type: l.in.Builtins().Metadata, Metadata: symbols.MetadataConst{Value: c.Metadata}}), nil
	default:
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "unknown constant kind %q", kind)
	}
}

func hasBlock(fd *funcDecl, name string) bool {
	for _, b := range fd.Blocks {
		if normalizeName(b.Name) == name {
			return true
		}
	}
	return false
}

func (l *loader) operandPair(c *constDecl, where string) (lhs, rhs symbols.SymbolID, err error) {
	if lhs, err = l.operandText(c.LHS, nil, where+".lhs"); err != nil {
		return
	}
	if rhs, err = l.operandText(c.RHS, nil, where+".rhs"); err != nil {
		return
	}
	err = l.expectType(rhs, l.typeOf(lhs), where+".rhs")
	return
}

func (l *loader) aggregateConstant(c *constDecl, kind, where string) (symbols.SymbolID, error) {
	t, err := l.typeText(c.Type, where+".type")
	if err != nil {
		return symbols.NoSymbolID, err
	}
	var (
		symKind symbols.Kind
		elemTy  func(i int) types.TypeID
		count   int
	)
	tt, _ := l.in.Lookup(t)
	switch {
	case kind == "struct" && tt.Kind == types.KindStruct:
		info, _ := l.in.StructInfo(t)
		if info == nil || info.Opaque {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadType, where, "struct constant of opaque type %s", l.in.TypeString(t))
		}
		symKind, count = symbols.KindStruct, len(info.Fields)
		elemTy = func(i int) types.TypeID { return info.Fields[i] }
	case kind == "array" && tt.Kind == types.KindArray:
		symKind, count = symbols.KindArray, int(tt.Count)
		elemTy = func(int) types.TypeID { return tt.Elem }
	case kind == "vector" && tt.Kind == types.KindVector:
		symKind, count = symbols.KindVector, int(tt.Count)
		elemTy = func(int) types.TypeID { return tt.Elem }
	default:
		return symbols.NoSymbolID, l.errorf(diag.LoadBadType, where, "%s constant of type %s", kind, l.in.TypeString(t))
	}
	if len(c.Elems) != count {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "%s needs %d elements, got %d", l.in.TypeString(t), count, len(c.Elems))
	}
	elems := make([]symbols.SymbolID, len(c.Elems))
	for i, text := range c.Elems {
		ew := fmt.Sprintf("%s.elems[%d]", where, i)
		if elems[i], err = l.operandText(text, nil, ew); err != nil {
			return symbols.NoSymbolID, err
		}
		if err := l.expectType(elems[i], elemTy(i), ew); err != nil {
			return symbols.NoSymbolID, err
		}
	}
	return l.add(symbols.Aggregate(symKind, t, elems...)), nil
}

// compareType is i1, or a vector of i1 for vector operands.
func (l *loader) compareType(operand types.TypeID) types.TypeID {
	i1 := l.in.Builtins().I1
	if tt, ok := l.in.Lookup(operand); ok && tt.Kind == types.KindVector {
		return l.in.Intern(types.MakeVector(i1, tt.Count))
	}
	return i1
}

// gepResultType walks base through indices and returns a pointer to the
// selected element. Struct members must be selected by constants.
func (l *loader) gepResultType(base types.TypeID, indices []symbols.SymbolID, where string) (types.TypeID, error) {
	tt, ok := l.in.Lookup(base)
	if !ok || tt.Kind != types.KindPointer {
		return types.NoTypeID, l.errorf(diag.LoadBadOperand, where, "gep base of type %s is not a pointer", l.in.TypeString(base))
	}
	if len(indices) == 0 {
		return base, nil
	}
	current := base
	for i, idx := range indices {
		if !l.in.BaseKind(l.typeOf(idx)).IsInteger() {
			return types.NoTypeID, l.errorf(diag.LoadBadOperand, where, "gep index %d is not an integer", i)
		}
		tt, _ := l.in.Lookup(current)
		switch {
		case tt.Kind == types.KindPointer && i == 0, tt.Kind == types.KindArray, tt.Kind == types.KindVector:
			current = tt.Elem
		case tt.Kind == types.KindStruct:
			info, _ := l.in.StructInfo(current)
			v, ok := l.constIndex(idx)
			if !ok {
				return types.NoTypeID, l.errorf(diag.LoadBadOperand, where, "struct member index %d must be a constant", i)
			}
			if info == nil || v < 0 || v >= int64(len(info.Fields)) {
				return types.NoTypeID, l.errorf(diag.LoadBadOperand, where, "%s has no member %d", l.in.TypeString(current), v)
			}
			current = info.Fields[v]
		default:
			return types.NoTypeID, l.errorf(diag.LoadBadOperand, where, "cannot index into %s", l.in.TypeString(current))
		}
	}
	return l.in.Intern(types.MakePointer(current)), nil
}

func (l *loader) constIndex(id symbols.SymbolID) (int64, bool) {
	sym := l.tab.Get(id)
	if sym == nil {
		return 0, false
	}
	switch sym.Kind {
	case symbols.KindInteger:
		return sym.Int.Value, true
	case symbols.KindNull:
		return 0, true
	default:
		return 0, false
	}
}
