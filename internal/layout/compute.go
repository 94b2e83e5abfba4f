package layout

import (
	"fortio.org/safecast"

	"llnode/internal/types"
)

func (e *Engine) computeLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	if id == types.NoTypeID || e.Types == nil {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrInvalidType, Type: id}
	}
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrInvalidType, Type: id}
	}

	switch tt.Kind {
	case types.KindVoid, types.KindLabel, types.KindMetadata, types.KindFn:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindInt:
		store := storeBytes(tt.Bits)
		return scalarLayout(store, e.Target.intAlign(tt.Bits)), nil

	case types.KindFloat:
		bits := tt.Float.Bits()
		store := storeBytes(bits)
		return scalarLayout(store, e.Target.floatAlign(bits, store)), nil

	case types.KindPointer:
		return e.ptrLayout(), nil

	case types.KindArray:
		elem, err := e.layoutOf(tt.Elem, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		n, convErr := safecast.Conv[int](tt.Count)
		if convErr != nil {
			return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrLengthConversion, Type: id, Err: convErr}
		}
		return TypeLayout{Size: elem.Size * n, Align: max(1, elem.Align)}, nil

	case types.KindVector:
		return e.vectorLayout(id, tt, state)

	case types.KindStruct:
		return e.structLayout(id, state)

	default:
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrInvalidType, Type: id}
	}
}

func (e *Engine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func storeBytes(bits uint32) int {
	return int((bits + 7) / 8)
}

func scalarLayout(store, align int) TypeLayout {
	if store <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	if align <= 0 {
		align = 1
	}
	return TypeLayout{Size: roundUp(store, align), Align: align}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

// scalarBits is the in-register width of a vector lane.
func (e *Engine) scalarBits(tt types.Type) uint32 {
	switch tt.Kind {
	case types.KindInt:
		return tt.Bits
	case types.KindFloat:
		return tt.Float.Bits()
	case types.KindPointer:
		bits, err := safecast.Conv[uint32](e.ptrLayout().Size * 8)
		if err != nil {
			return 64
		}
		return bits
	default:
		return 0
	}
}

func (e *Engine) vectorLayout(id types.TypeID, tt types.Type, state *layoutState) (TypeLayout, *LayoutError) {
	elemT, ok := e.Types.Lookup(tt.Elem)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrInvalidType, Type: id}
	}
	if _, err := e.layoutOf(tt.Elem, state); err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	totalBits := uint64(e.scalarBits(elemT)) * uint64(tt.Count)
	bits, convErr := safecast.Conv[uint32](totalBits)
	if convErr != nil {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrLengthConversion, Type: id, Err: convErr}
	}
	store := storeBytes(bits)
	return scalarLayout(store, e.Target.vectorAlign(bits, store)), nil
}

func (e *Engine) structLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	info, ok := e.Types.StructInfo(id)
	if !ok || info == nil || info.Opaque || len(info.Fields) == 0 {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	fields := info.Fields
	offsets := make([]int, len(fields))
	aligns := make([]int, len(fields))

	if info.Packed {
		size := 0
		for i, f := range fields {
			fl, err := e.layoutOf(f, state)
			if err != nil {
				return TypeLayout{Size: 0, Align: 1}, err
			}
			offsets[i] = size
			aligns[i] = 1
			size += fl.Size
		}
		return TypeLayout{
			Size:         size,
			Align:        1,
			FieldOffsets: offsets,
			FieldAligns:  aligns,
		}, nil
	}

	size := 0
	align := max(1, e.Target.AggregateAlign)
	for i, f := range fields {
		fl, err := e.layoutOf(f, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		fAlign := max(1, fl.Align)
		size = roundUp(size, fAlign)
		offsets[i] = size
		aligns[i] = fAlign
		size += fl.Size
		align = max(align, fAlign)
	}
	size = roundUp(size, align)
	return TypeLayout{
		Size:         size,
		Align:        align,
		FieldOffsets: offsets,
		FieldAligns:  aligns,
	}, nil
}
