package lower

import "llnode/internal/types"

// Slot is one frame entry.
type Slot struct {
	Index int
	Name  string
	Kind  types.BaseKind
}

// Frame assigns a slot to every parameter and value instruction of a
// function, in declaration order.
type Frame struct {
	byName map[string]int
	slots  []Slot
}

func NewFrame() *Frame {
	return &Frame{byName: make(map[string]int)}
}

// Declare returns the slot of name, adding it on first use.
func (f *Frame) Declare(name string, kind types.BaseKind) int {
	if i, ok := f.byName[name]; ok {
		return i
	}
	i := len(f.slots)
	f.slots = append(f.slots, Slot{Index: i, Name: name, Kind: kind})
	f.byName[name] = i
	return i
}

// FindSlot implements resolve.Bindings.
func (f *Frame) FindSlot(name string) (int, bool) {
	if f == nil {
		return 0, false
	}
	i, ok := f.byName[name]
	return i, ok
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.slots)
}

// Slots returns the slots in index order.
func (f *Frame) Slots() []Slot {
	if f == nil {
		return nil
	}
	return append([]Slot(nil), f.slots...)
}
