package resolve

import (
	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// Aggregate constants are materialised into a fresh scratch allocation.
// Element encodings come from nodes.StoreFor so arrays, structs and vectors
// agree on how each primitive kind is written.

func (r *Resolver) resolveElements(elems []symbols.SymbolID) ([]*nodes.Node, error) {
	values := make([]*nodes.Node, len(elems))
	for i, e := range elems {
		v, err := r.Resolve(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (r *Resolver) resolveArray(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	tt, ok := r.cfg.Types.Lookup(sym.Type)
	if !ok || tt.Kind != types.KindArray {
		return nil, invariant(id, "array constant of type %s", r.cfg.Types.TypeString(sym.Type))
	}
	if int(tt.Count) != len(sym.Aggregate.Elems) {
		return nil, invariant(id, "array of %d elements has %d values", tt.Count, len(sym.Aggregate.Elems))
	}
	store, ok := nodes.StoreFor(r.baseKind(tt.Elem))
	if !ok {
		return nil, invariant(id, "array of %s", r.cfg.Types.TypeString(tt.Elem))
	}

	stride := r.cfg.Layout.ByteSize(tt.Elem)
	target := nodes.NewAlloca(len(sym.Aggregate.Elems)*stride, r.cfg.Layout.ByteAlignment(sym.Type))
	values, err := r.resolveElements(sym.Aggregate.Elems)
	if err != nil {
		return nil, err
	}
	return nodes.NewArrayLiteral(store.Store, values, stride, target), nil
}

func (r *Resolver) resolveStruct(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	info, ok := r.cfg.Types.StructInfo(sym.Type)
	if !ok || info.Opaque {
		return nil, invariant(id, "struct constant of type %s", r.cfg.Types.TypeString(sym.Type))
	}
	if len(info.Fields) != len(sym.Aggregate.Elems) {
		return nil, invariant(id, "struct of %d fields has %d values", len(info.Fields), len(sym.Aggregate.Elems))
	}

	target := nodes.NewAlloca(r.cfg.Layout.ByteSize(sym.Type), r.cfg.Layout.ByteAlignment(sym.Type))
	offsets := make([]int, len(info.Fields))
	writes := make([]nodes.StructWrite, len(info.Fields))
	current := 0
	for i, field := range info.Fields {
		if !info.Packed {
			current += r.cfg.Layout.BytePadding(current, field)
		}
		offsets[i] = current

		store, ok := nodes.StoreFor(r.baseKind(field))
		if !ok {
			return nil, invariant(sym.Aggregate.Elems[i], "struct member of %s", r.cfg.Types.TypeString(field))
		}
		size := r.cfg.Layout.ByteSize(field)
		value, err := r.Resolve(sym.Aggregate.Elems[i])
		if err != nil {
			return nil, err
		}
		switch {
		case store.Store == nodes.StoreCopy && size == 0:
			writes[i] = nodes.StructWrite{Store: nodes.StoreEmpty}
		case store.Store == nodes.StoreCopy:
			writes[i] = nodes.StructWrite{Store: nodes.StoreCopy, Value: value, Size: size}
		default:
			writes[i] = nodes.StructWrite{Store: store.Store, Value: value, Size: store.Bytes(size)}
		}
		current += size
	}
	return nodes.NewStructLiteral(offsets, writes, target), nil
}

func (r *Resolver) resolveVector(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	tt, ok := r.cfg.Types.Lookup(sym.Type)
	if !ok || tt.Kind != types.KindVector {
		return nil, invariant(id, "vector constant of type %s", r.cfg.Types.TypeString(sym.Type))
	}
	lane, ok := nodes.StoreFor(r.baseKind(tt.Elem))
	if !ok || lane.Store == nodes.StoreCopy {
		return nil, invariant(id, "vector of %s", r.cfg.Types.TypeString(tt.Elem))
	}
	if int(tt.Count) != len(sym.Aggregate.Elems) {
		return nil, invariant(id, "vector of %d lanes has %d values", tt.Count, len(sym.Aggregate.Elems))
	}
	values, err := r.resolveElements(sym.Aggregate.Elems)
	if err != nil {
		return nil, err
	}
	target := nodes.NewAlloca(r.cfg.Layout.ByteSize(sym.Type), r.cfg.Layout.ByteAlignment(sym.Type))
	return nodes.NewVectorLiteral(lane.Store, values, target), nil
}
