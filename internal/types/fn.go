package types

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID // Parameter types (in order)
	Result   TypeID   // Return type
	Variadic bool
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID, variadic bool) TypeID {
	key := fnKey(params, result, variadic)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{
		Params:   slices.Clone(params),
		Result:   result,
		Variadic: variadic,
	})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindFn, Payload: slot})
	in.fnIndex[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// FnInfoOf accepts either a function type or a pointer to one.
func (in *Interner) FnInfoOf(id TypeID) (*FnInfo, bool) {
	if info, ok := in.FnInfo(id); ok {
		return info, true
	}
	if elem, ok := in.Elem(id); ok {
		return in.FnInfo(elem)
	}
	return nil, false
}

func fnKey(params []TypeID, result TypeID, variadic bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d(", result)
	writeIDs(&sb, params)
	if variadic {
		sb.WriteString(",...")
	}
	sb.WriteByte(')')
	return sb.String()
}
