package lower

import (
	"llnode/internal/ir"
	"llnode/internal/nodes"
	"llnode/internal/symbols"
)

// GlobalTable numbers the module's globals and hands out address nodes.
// It is read-only after construction and safe for concurrent use.
type GlobalTable struct {
	index map[symbols.SymbolID]int
	names []string
}

func NewGlobalTable(m *ir.Module) *GlobalTable {
	t := &GlobalTable{index: make(map[symbols.SymbolID]int, len(m.Globals))}
	for i, g := range m.Globals {
		t.index[g.Sym] = i
		t.names = append(t.names, g.Name)
	}
	return t
}

// GlobalAddress implements resolve.Globals. Every call returns a new node.
func (t *GlobalTable) GlobalAddress(id symbols.SymbolID) (*nodes.Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return nodes.NewGlobal(i, t.names[i]), true
}

func (t *GlobalTable) Len() int { return len(t.names) }

type labelKey struct {
	function string
	block    string
}

// LabelTable maps (function, block) to the block's position in its
// function. It covers every definition of the module so block addresses
// of other functions resolve too.
type LabelTable struct {
	ids map[labelKey]int
}

func NewLabelTable(m *ir.Module) *LabelTable {
	t := &LabelTable{ids: make(map[labelKey]int)}
	for _, f := range m.Definitions() {
		for i, b := range f.Blocks {
			t.ids[labelKey{f.Name, b.Name}] = i
		}
	}
	return t
}

// Label implements resolve.Labels.
func (t *LabelTable) Label(function, block string) (int, bool) {
	id, ok := t.ids[labelKey{function, block}]
	return id, ok
}
