package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Snapshot is the serialisable form of an Interner.
type Snapshot struct {
	Types   []Type
	Structs []StructInfo
	Fns     []FnInfo
}

// Snapshot exports the interner's tables.
func (in *Interner) Snapshot() Snapshot {
	return Snapshot{
		Types:   append([]Type(nil), in.types...),
		Structs: append([]StructInfo(nil), in.structs...),
		Fns:     append([]FnInfo(nil), in.fns...),
	}
}

// FromSnapshot rebuilds an interner, including its dedup indexes.
func FromSnapshot(s Snapshot) (*Interner, error) {
	if len(s.Types) == 0 || len(s.Structs) == 0 || len(s.Fns) == 0 {
		return nil, fmt.Errorf("types: empty snapshot")
	}
	in := &Interner{
		types:          append([]Type(nil), s.Types...),
		index:          make(map[typeKey]TypeID, len(s.Types)),
		structs:        append([]StructInfo(nil), s.Structs...),
		literalStructs: make(map[string]TypeID, 16),
		namedStructs:   make(map[string]TypeID, 16),
		fns:            append([]FnInfo(nil), s.Fns...),
		fnIndex:        make(map[string]TypeID, 16),
	}
	for i := 1; i < len(in.types); i++ {
		raw, err := safecast.Conv[uint32](i)
		if err != nil {
			return nil, fmt.Errorf("types: snapshot too large: %w", err)
		}
		id := TypeID(raw)
		tt := in.types[i]
		switch tt.Kind {
		case KindStruct:
			if int(tt.Payload) >= len(in.structs) {
				return nil, fmt.Errorf("types: struct payload %d out of range", tt.Payload)
			}
			info := in.structs[tt.Payload]
			if info.Name != "" {
				in.namedStructs[info.Name] = id
			} else {
				in.literalStructs[structKey(info.Fields, info.Packed)] = id
			}
		case KindFn:
			if int(tt.Payload) >= len(in.fns) {
				return nil, fmt.Errorf("types: fn payload %d out of range", tt.Payload)
			}
			info := in.fns[tt.Payload]
			in.fnIndex[fnKey(info.Params, info.Result, info.Variadic)] = id
		default:
			in.index[keyOf(tt)] = id
		}
	}
	in.seedBuiltins()
	return in, nil
}
