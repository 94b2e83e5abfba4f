package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Table stores decoded symbols in a compact arena. Symbols only reference
// symbols added before them, so the reference graph is acyclic.
type Table struct {
	data []Symbol
}

// NewTable creates a symbol arena with optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New allocates a symbol in the arena and returns its ID.
func (t *Table) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	t.data = append(t.data, *sym)
	return id
}

// Get returns the symbol pointer or nil if ID is invalid.
func (t *Table) Get(id SymbolID) *Symbol {
	if t == nil || !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Len reports total number of symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (t *Table) Data() []Symbol {
	if len(t.data) <= 1 {
		return nil
	}
	return t.data[1:]
}

// FromData rebuilds a table from a slice produced by Data.
func FromData(data []Symbol) *Table {
	t := &Table{data: make([]Symbol, 1, len(data)+1)}
	t.data = append(t.data, data...)
	return t
}
