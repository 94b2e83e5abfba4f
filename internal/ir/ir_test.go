package ir_test

import (
	"bytes"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/ir"
	"llnode/internal/irtext"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m, err := irtext.Load("../irtext/testdata/demo.toml")
	be.Err(t, err, nil)

	var buf bytes.Buffer
	be.Err(t, ir.Encode(&buf, m), nil)
	got, err := ir.Decode(&buf)
	be.Err(t, err, nil)

	be.Equal(t, got.Name, m.Name)
	be.Equal(t, got.DataLayout, m.DataLayout)
	be.Equal(t, got.Symbols.Len(), m.Symbols.Len())
	be.Equal(t, got.Types.Len(), m.Types.Len())
	be.Equal(t, len(got.Constants), len(m.Constants))
	for i, g := range m.Globals {
		be.Equal(t, got.Globals[i], g)
		be.Equal(t, got.Types.TypeString(got.Globals[i].Type), m.Types.TypeString(g.Type))
	}
	for i, f := range m.Funcs {
		gf := got.Funcs[i]
		be.Equal(t, gf.Name, f.Name)
		be.Equal(t, got.Types.TypeString(gf.Type), m.Types.TypeString(f.Type))
		be.Equal(t, len(gf.Blocks), len(f.Blocks))
		for j := range f.Blocks {
			be.Equal(t, gf.Blocks[j].Name, f.Blocks[j].Name)
			be.Equal(t, len(gf.Blocks[j].Instrs), len(f.Blocks[j].Instrs))
			be.Equal(t, gf.Blocks[j].Term.Kind, f.Blocks[j].Term.Kind)
		}
	}

	// Named structs are found by name again after the round trip.
	s, ok := got.Types.LookupNamedStruct("S")
	be.True(t, ok)
	be.Equal(t, got.Types.StructBodyString(s), "{ i8, [4 x i32], { i16, double } }")
	second, ok := got.Func("second")
	be.True(t, ok)
	be.Equal(t, got.Symbols.Get(second.Params[1].Sym).Name, "i")
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	m, err := irtext.Load("../irtext/testdata/demo.toml")
	be.Err(t, err, nil)
	snap := m.Snapshot()
	snap.Schema = ir.SnapshotSchema + 1
	_, err = snap.Restore()
	be.True(t, err != nil)
}

func TestModuleLookups(t *testing.T) {
	m := &ir.Module{
		Funcs: []*ir.Func{
			{Name: "decl"},
			{Name: "def", Blocks: []ir.Block{{Name: "entry", Term: ir.Terminator{Kind: ir.TermReturn}}}},
		},
		Globals:   []ir.Global{{Name: "g"}},
		Constants: []ir.Constant{{Name: "k", Sym: 3}},
	}
	defs := m.Definitions()
	be.Equal(t, len(defs), 1)
	be.Equal(t, defs[0].Name, "def")
	be.True(t, defs[0].Blocks[0].Terminated())
	_, ok := m.Func("missing")
	be.True(t, !ok)
	g, ok := m.Global("g")
	be.True(t, ok)
	be.Equal(t, g.Name, "g")
	k, ok := m.Constant("k")
	be.True(t, ok)
	be.Equal(t, uint32(k), uint32(3))
}
