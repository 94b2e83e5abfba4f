package layout

import "maps"

// Target describes the ABI target triple and the data layout facts the
// engine needs. Alignments are ABI alignments in bytes keyed by bit width.
type Target struct {
	Triple     string // e.g. "x86_64-linux-gnu"
	DataLayout string // the string the target was parsed from, if any
	BigEndian  bool
	PtrSize    int // bytes
	PtrAlign   int // bytes

	IntAligns      map[uint32]int
	FloatAligns    map[uint32]int
	VectorAligns   map[uint32]int
	AggregateAlign int
	StackAlign     int
	NativeInts     []uint32
}

// X86_64DataLayout is the layout string clang emits for x86_64 Linux.
const X86_64DataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"

// defaultTarget carries LLVM's built-in defaults, which a layout string overrides.
func defaultTarget() Target {
	return Target{
		PtrSize:  8,
		PtrAlign: 8,
		IntAligns: map[uint32]int{
			1: 1, 8: 1, 16: 2, 32: 4, 64: 4,
		},
		FloatAligns: map[uint32]int{
			16: 2, 32: 4, 64: 8, 128: 16,
		},
		VectorAligns: map[uint32]int{
			64: 8, 128: 16,
		},
		AggregateAlign: 1,
	}
}

func X86_64LinuxGNU() Target {
	t, err := ParseDataLayout(X86_64DataLayout)
	if err != nil {
		panic(err)
	}
	t.Triple = "x86_64-linux-gnu"
	return t
}

// Clone returns a deep copy so callers may adjust tables safely.
func (t Target) Clone() Target {
	out := t
	out.IntAligns = maps.Clone(t.IntAligns)
	out.FloatAligns = maps.Clone(t.FloatAligns)
	out.VectorAligns = maps.Clone(t.VectorAligns)
	out.NativeInts = append([]uint32(nil), t.NativeInts...)
	return out
}

// intAlign follows LLVM's lookup: exact width, else the smallest wider
// entry, else the widest entry.
func (t *Target) intAlign(bits uint32) int {
	if a, ok := t.IntAligns[bits]; ok {
		return a
	}
	var (
		best      uint32
		bestAlign int
		widest    uint32
		widestA   int
	)
	for w, a := range t.IntAligns {
		if w > bits && (best == 0 || w < best) {
			best, bestAlign = w, a
		}
		if w > widest {
			widest, widestA = w, a
		}
	}
	if best != 0 {
		return bestAlign
	}
	if widestA > 0 {
		return widestA
	}
	return 1
}

func (t *Target) floatAlign(bits uint32, storeSize int) int {
	if a, ok := t.FloatAligns[bits]; ok {
		return a
	}
	return nextPow2(storeSize)
}

func (t *Target) vectorAlign(bits uint32, storeSize int) int {
	if a, ok := t.VectorAligns[bits]; ok {
		return a
	}
	return nextPow2(storeSize)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
