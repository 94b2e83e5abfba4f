package types

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// StructInfo stores the body of a struct type.
type StructInfo struct {
	Name   string   // empty for literal structs
	Fields []TypeID // element types in declaration order
	Packed bool
	Opaque bool // named struct whose body has not been set
}

var (
	// ErrNotStruct is returned when a struct operation targets another kind.
	ErrNotStruct = errors.New("type is not a struct")
	// ErrLiteralBody is returned when trying to replace a literal struct body.
	ErrLiteralBody = errors.New("literal struct bodies are immutable")
)

// LiteralStruct returns the structurally unique struct { fields... }.
func (in *Interner) LiteralStruct(fields []TypeID, packed bool) TypeID {
	key := structKey(fields, packed)
	if id, ok := in.literalStructs[key]; ok {
		return id
	}
	slot := in.appendStructInfo(StructInfo{Fields: fields, Packed: packed})
	id := in.internRaw(Type{Kind: KindStruct, Payload: slot})
	in.literalStructs[key] = id
	return id
}

// NamedStruct returns the struct registered under name, creating an opaque
// one on first use so bodies may reference it before it is defined.
func (in *Interner) NamedStruct(name string) TypeID {
	if id, ok := in.namedStructs[name]; ok {
		return id
	}
	slot := in.appendStructInfo(StructInfo{Name: name, Opaque: true})
	id := in.internRaw(Type{Kind: KindStruct, Payload: slot})
	in.namedStructs[name] = id
	return id
}

// LookupNamedStruct finds a named struct without creating it.
func (in *Interner) LookupNamedStruct(name string) (TypeID, bool) {
	id, ok := in.namedStructs[name]
	return id, ok
}

// SetStructBody defines the fields of a named struct.
func (in *Interner) SetStructBody(id TypeID, fields []TypeID, packed bool) error {
	info, ok := in.StructInfo(id)
	if !ok {
		return fmt.Errorf("type#%d: %w", id, ErrNotStruct)
	}
	if info.Name == "" {
		return fmt.Errorf("type#%d: %w", id, ErrLiteralBody)
	}
	info.Fields = slices.Clone(fields)
	info.Packed = packed
	info.Opaque = false
	return nil
}

// StructInfo retrieves struct metadata by TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// IsPacked reports whether id is a packed struct.
func (in *Interner) IsPacked(id TypeID) bool {
	info, ok := in.StructInfo(id)
	return ok && info.Packed
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	info.Fields = slices.Clone(info.Fields)
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}

func structKey(fields []TypeID, packed bool) string {
	var sb strings.Builder
	if packed {
		sb.WriteString("p:")
	} else {
		sb.WriteString("s:")
	}
	writeIDs(&sb, fields)
	return sb.String()
}

func writeIDs(sb *strings.Builder, ids []TypeID) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
}
