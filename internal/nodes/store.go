package nodes

import (
	"fmt"

	"llnode/internal/types"
)

// StoreKind selects how a value is written into aggregate storage.
type StoreKind uint8

const (
	StoreInvalid StoreKind = iota
	StoreI1
	StoreI8
	StoreI16
	StoreI32
	StoreI64
	StoreHalf
	StoreFloat
	StoreDouble
	StoreX86FP80
	StoreFP128
	StoreAddress
	StoreFunction
	// StoreCopy copies a nested aggregate byte for byte.
	StoreCopy
	// StoreEmpty writes nothing; used for zero-sized members.
	StoreEmpty
)

var storeNames = [...]string{
	StoreInvalid:  "invalid",
	StoreI1:       "i1",
	StoreI8:       "i8",
	StoreI16:      "i16",
	StoreI32:      "i32",
	StoreI64:      "i64",
	StoreHalf:     "half",
	StoreFloat:    "float",
	StoreDouble:   "double",
	StoreX86FP80:  "x86_fp80",
	StoreFP128:    "fp128",
	StoreAddress:  "address",
	StoreFunction: "function",
	StoreCopy:     "copy",
	StoreEmpty:    "empty",
}

func (s StoreKind) String() string {
	if int(s) < len(storeNames) {
		return storeNames[s]
	}
	return fmt.Sprintf("StoreKind(%d)", s)
}

// StoreInfo describes the write used for one element kind. Width is the
// number of bytes written. It is zero when the size depends on the target:
// pointers take the data layout's pointer size and StoreCopy the element's.
type StoreInfo struct {
	Width int
	Store StoreKind
}

// Bytes returns the bytes written for an element whose layout size is
// layoutSize.
func (s StoreInfo) Bytes(layoutSize int) int {
	if s.Width == 0 {
		return layoutSize
	}
	return s.Width
}

var storeTable = map[types.BaseKind]StoreInfo{
	types.BaseI1:              {Width: 1, Store: StoreI1},
	types.BaseI8:              {Width: 1, Store: StoreI8},
	types.BaseI16:             {Width: 2, Store: StoreI16},
	types.BaseI32:             {Width: 4, Store: StoreI32},
	types.BaseI64:             {Width: 8, Store: StoreI64},
	types.BaseHalf:            {Width: 2, Store: StoreHalf},
	types.BaseFloat:           {Width: 4, Store: StoreFloat},
	types.BaseDouble:          {Width: 8, Store: StoreDouble},
	types.BaseX86FP80:         {Width: 10, Store: StoreX86FP80},
	types.BaseFP128:           {Width: 16, Store: StoreFP128},
	types.BaseAddress:         {Store: StoreAddress},
	types.BaseFunctionAddress: {Store: StoreFunction},
	types.BaseArray:           {Store: StoreCopy},
	types.BaseStruct:          {Store: StoreCopy},
	types.BaseVector:          {Store: StoreCopy},
}

// StoreFor returns the write used for elements of kind k. Array, struct and
// vector literals share this table so they agree on element encodings.
func StoreFor(k types.BaseKind) (StoreInfo, bool) {
	info, ok := storeTable[k]
	return info, ok
}
