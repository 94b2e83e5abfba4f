package resolve

import (
	"context"
	"testing"

	"llnode/internal/diag"
	"llnode/internal/fnreg"
	"llnode/internal/layout"
	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

type slotMap map[string]int

func (m slotMap) FindSlot(name string) (int, bool) {
	i, ok := m[name]
	return i, ok
}

type globalMap map[symbols.SymbolID]*nodes.Node

func (m globalMap) GlobalAddress(id symbols.SymbolID) (*nodes.Node, bool) {
	n, ok := m[id]
	return n, ok
}

type labelMap map[[2]string]int

func (m labelMap) Label(function, block string) (int, bool) {
	l, ok := m[[2]string{function, block}]
	return l, ok
}

type fixture struct {
	t       *testing.T
	in      *types.Interner
	b       types.Builtins
	tab     *symbols.Table
	eng     *layout.Engine
	reg     *fnreg.Registry
	bag     *diag.Bag
	slots   slotMap
	globals globalMap
	labels  labelMap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner()
	return &fixture{
		t:       t,
		in:      in,
		b:       in.Builtins(),
		tab:     symbols.NewTable(0),
		eng:     layout.New(layout.X86_64LinuxGNU(), in),
		reg:     fnreg.NewRegistry(),
		bag:     diag.NewBag(16),
		slots:   slotMap{},
		globals: globalMap{},
		labels:  labelMap{},
	}
}

func (f *fixture) add(s symbols.Symbol) symbols.SymbolID {
	return f.tab.New(&s)
}

func (f *fixture) intConst(t types.TypeID, v int64) symbols.SymbolID {
	return f.add(symbols.Integer(t, v))
}

func (f *fixture) ptr(elem types.TypeID) types.TypeID {
	return f.in.Intern(types.MakePointer(elem))
}

// global adds a global symbol of type ptr(elem) and binds it to a fresh
// address node, which is returned for identity checks.
func (f *fixture) global(name string, elem types.TypeID) (symbols.SymbolID, *nodes.Node) {
	id := f.add(symbols.Named(symbols.KindGlobal, f.ptr(elem), name))
	n := nodes.NewGlobal(len(f.globals), name)
	f.globals[id] = n
	return id, n
}

func (f *fixture) local(name string, t types.TypeID) symbols.SymbolID {
	if _, ok := f.slots[name]; !ok {
		f.slots[name] = len(f.slots)
	}
	return f.add(symbols.Named(symbols.KindLocal, t, name))
}

func (f *fixture) resolver() *Resolver {
	return New(context.Background(), Config{
		Types:     f.in,
		Symbols:   f.tab,
		Layout:    f.eng,
		Bindings:  f.slots,
		Globals:   f.globals,
		Labels:    f.labels,
		Functions: f.reg,
		Reporter:  diag.BagReporter{Bag: f.bag},
		Where:     diag.Location{Module: "test", Function: "f"},
	})
}

func (f *fixture) resolve(id symbols.SymbolID) *nodes.Node {
	f.t.Helper()
	n, err := f.resolver().Resolve(id)
	if err != nil {
		f.t.Fatalf("resolve symbol#%d: %v", id, err)
	}
	return n
}

// chainOffset sums stride*index over a chain of element pointer nodes whose
// indices are literals and returns the innermost base.
func chainOffset(t *testing.T, n *nodes.Node) (int, *nodes.Node) {
	t.Helper()
	total := 0
	for n.Kind == nodes.KindElementPtr {
		idx := n.ElemPtr.Index
		if idx.Kind != nodes.KindLiteral {
			t.Fatalf("non-literal index in chain: %s", nodes.String(idx))
		}
		total += n.ElemPtr.Stride * int(idx.Literal.Int)
		n = n.ElemPtr.Base
	}
	return total, n
}
