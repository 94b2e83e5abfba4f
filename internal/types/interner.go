package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Void     TypeID
	Label    TypeID
	Metadata TypeID
	I1       TypeID
	I8       TypeID
	I16      TypeID
	I32      TypeID
	I64      TypeID
	Float    TypeID
	Double   TypeID
	X86FP80  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Literal structs and function types are deduplicated structurally, named
// structs by name.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	structs        []StructInfo
	literalStructs map[string]TypeID
	namedStructs   map[string]TypeID

	fns     []FnInfo
	fnIndex map[string]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:          make(map[typeKey]TypeID, 64),
		literalStructs: make(map[string]TypeID, 16),
		namedStructs:   make(map[string]TypeID, 16),
		fnIndex:        make(map[string]TypeID, 16),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.fns = append(in.fns, FnInfo{})
	in.internRaw(Type{Kind: KindInvalid})
	in.seedBuiltins()
	return in
}

func (in *Interner) seedBuiltins() {
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Label = in.Intern(Type{Kind: KindLabel})
	in.builtins.Metadata = in.Intern(Type{Kind: KindMetadata})
	in.builtins.I1 = in.Intern(MakeInt(1))
	in.builtins.I8 = in.Intern(MakeInt(8))
	in.builtins.I16 = in.Intern(MakeInt(16))
	in.builtins.I32 = in.Intern(MakeInt(32))
	in.builtins.I64 = in.Intern(MakeInt(64))
	in.builtins.Float = in.Intern(MakeFloat(FloatSingle))
	in.builtins.Double = in.Intern(MakeFloat(FloatDouble))
	in.builtins.X86FP80 = in.Intern(MakeFloat(FloatX86FP80))
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID. Struct and
// function descriptors must go through LiteralStruct/NamedStruct/RegisterFn.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid || t.Kind == KindStruct || t.Kind == KindFn {
		return NoTypeID
	}
	key := keyOf(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	if t.Kind != KindStruct && t.Kind != KindFn {
		in.index[keyOf(t)] = id
	}
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned descriptors including the invalid sentinel.
func (in *Interner) Len() int {
	if in == nil {
		return 0
	}
	return len(in.types)
}

// Elem returns the pointee/element type for pointers, arrays and vectors.
func (in *Interner) Elem(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID, false
	}
	switch tt.Kind {
	case KindPointer, KindArray, KindVector:
		return tt.Elem, true
	default:
		return NoTypeID, false
	}
}

type typeKey struct {
	Kind  Kind
	Elem  TypeID
	Count uint32
	Bits  uint32
	Float FloatKind
}

func keyOf(t Type) typeKey {
	return typeKey{Kind: t.Kind, Elem: t.Elem, Count: t.Count, Bits: t.Bits, Float: t.Float}
}
