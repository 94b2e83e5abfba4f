package layout

import "llnode/internal/types"

// The methods below answer the resolver's layout queries. They are total:
// a type without a valid layout reports size 0 and alignment 1, so loaders
// call Validate up front to surface LayoutErrors.

// ByteSize returns the allocation size of t.
func (e *Engine) ByteSize(t types.TypeID) int {
	l, _ := e.LayoutOf(t) //nolint:errcheck // see Validate
	return l.Size
}

// ByteAlignment returns the ABI alignment of t.
func (e *Engine) ByteAlignment(t types.TypeID) int {
	l, _ := e.LayoutOf(t) //nolint:errcheck // see Validate
	return max(1, l.Align)
}

// BytePadding returns the bytes needed after offset to align a value of type t.
func (e *Engine) BytePadding(offset int, t types.TypeID) int {
	align := e.ByteAlignment(t)
	return roundUp(offset, align) - offset
}

// IndexOffset returns the byte distance selected by index within t:
// index*size(elem) for pointers, arrays and vectors, the field offset for structs.
func (e *Engine) IndexOffset(index int, t types.TypeID) int {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case types.KindPointer, types.KindArray, types.KindVector:
		return index * e.ByteSize(tt.Elem)
	case types.KindStruct:
		off, err := e.FieldOffset(t, index)
		if err != nil {
			return 0
		}
		return off
	default:
		return 0
	}
}

// IndexedSubType returns the type selected by index within t, or NoTypeID
// when t cannot be indexed.
func (e *Engine) IndexedSubType(index int, t types.TypeID) types.TypeID {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return types.NoTypeID
	}
	switch tt.Kind {
	case types.KindPointer, types.KindArray, types.KindVector:
		return tt.Elem
	case types.KindStruct:
		info, ok := e.Types.StructInfo(t)
		if !ok || index < 0 || index >= len(info.Fields) {
			return types.NoTypeID
		}
		return info.Fields[index]
	default:
		return types.NoTypeID
	}
}
