package resolve

import (
	"fmt"

	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/trace"
	"llnode/internal/types"
)

// ResolveElementPointer builds the address computation of a getelementptr
// instruction. Steps chain left to right: a constant index adds its byte
// offset scaled by a unit literal (skipped when the offset is zero), a
// runtime index adds stride*value.
func (r *Resolver) ResolveElementPointer(base symbols.SymbolID, indices []symbols.SymbolID) (*nodes.Node, error) {
	address, err := r.Resolve(base)
	if err != nil {
		return nil, err
	}
	current := r.typeOf(base)

	for _, index := range indices {
		indexType := r.typeOf(index)
		indexKind := r.baseKind(indexType)

		if value, ok := r.evaluateIntegerConstant(index); ok {
			offset := r.cfg.Layout.IndexOffset(value, current)
			next, err := r.step(index, current, value)
			if err != nil {
				return nil, err
			}
			if offset != 0 {
				var unit *nodes.Node
				switch indexKind {
				case types.BaseI32, types.BaseI64:
					unit = nodes.Int(indexKind, 1)
				default:
					return nil, invariant(index, "constant index of kind %s", indexKind)
				}
				address = nodes.NewElementPtr(address, unit, indexKind, offset)
			}
			current = next
			continue
		}

		if tt, _ := r.cfg.Types.Lookup(current); tt.Kind == types.KindStruct {
			return nil, &Error{Kind: ErrInvalidIndex, Symbol: base, Index: index, Detail: "struct member index must be constant"}
		}
		stride := r.cfg.Layout.IndexOffset(1, current)
		next, err := r.step(index, current, 1)
		if err != nil {
			return nil, err
		}
		value, err := r.Resolve(index)
		if err != nil {
			return nil, err
		}
		address = nodes.NewElementPtr(address, value, indexKind, stride)
		current = next
	}
	return address, nil
}

// resolveGEPConstant folds a constant getelementptr into one offset. The
// base node is returned unchanged when the offset is zero.
func (r *Resolver) resolveGEPConstant(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	base, err := r.Resolve(sym.GEP.Base)
	if err != nil {
		return nil, err
	}

	current := r.typeOf(sym.GEP.Base)
	parent := types.NoTypeID
	offset := 0
	for _, index := range sym.GEP.Indices {
		value, ok := r.evaluateIntegerConstant(index)
		if !ok {
			return nil, &Error{Kind: ErrInvalidIndex, Symbol: id, Index: index, Detail: "getelementptr constant needs constant indices"}
		}
		offset += r.cfg.Layout.IndexOffset(value, current)
		next, err := r.step(index, current, value)
		if err != nil {
			return nil, err
		}
		parent, current = current, next
	}

	if !r.cfg.Types.IsPacked(parent) {
		offset += r.cfg.Layout.BytePadding(offset, current)
	}
	if offset == 0 {
		return base, nil
	}
	trace.SymbolPoint(r.tracer, r.cfg.Where.Function, uint32(id), "gep-fold", fmt.Sprintf("offset=%d", offset), r.span)
	return nodes.NewElementPtr(base, nodes.Int(types.BaseI32, 1), types.BaseI32, offset), nil
}

func (r *Resolver) step(index symbols.SymbolID, current types.TypeID, value int) (types.TypeID, error) {
	next := r.cfg.Layout.IndexedSubType(value, current)
	if next == types.NoTypeID {
		return types.NoTypeID, invariant(index, "index %d does not select a member of %s", value, r.cfg.Types.TypeString(current))
	}
	return next, nil
}
