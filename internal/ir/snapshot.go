package ir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"llnode/internal/symbols"
	"llnode/internal/types"
)

// SnapshotSchema is bumped whenever Snapshot changes shape.
const SnapshotSchema uint16 = 1

// Snapshot is the serialisable form of a Module.
type Snapshot struct {
	Schema     uint16
	Name       string
	DataLayout string
	Types      types.Snapshot
	Symbols    []symbols.Symbol
	Globals    []Global
	Constants  []Constant
	Funcs      []Func
}

// Snapshot captures m. The result shares no mutable state with m.
func (m *Module) Snapshot() *Snapshot {
	s := &Snapshot{
		Schema:     SnapshotSchema,
		Name:       m.Name,
		DataLayout: m.DataLayout,
		Types:      m.Types.Snapshot(),
		Symbols:    append([]symbols.Symbol(nil), m.Symbols.Data()...),
		Globals:    append([]Global(nil), m.Globals...),
		Constants:  append([]Constant(nil), m.Constants...),
		Funcs:      make([]Func, len(m.Funcs)),
	}
	for i, f := range m.Funcs {
		s.Funcs[i] = *f
	}
	return s
}

// Restore rebuilds a Module from s.
func (s *Snapshot) Restore() (*Module, error) {
	if s == nil {
		return nil, fmt.Errorf("ir: nil snapshot")
	}
	if s.Schema != SnapshotSchema {
		return nil, fmt.Errorf("ir: snapshot schema %d, want %d", s.Schema, SnapshotSchema)
	}
	in, err := types.FromSnapshot(s.Types)
	if err != nil {
		return nil, fmt.Errorf("ir: %w", err)
	}
	m := &Module{
		Name:       s.Name,
		DataLayout: s.DataLayout,
		Types:      in,
		Symbols:    symbols.FromData(s.Symbols),
		Globals:    append([]Global(nil), s.Globals...),
		Constants:  append([]Constant(nil), s.Constants...),
		Funcs:      make([]*Func, len(s.Funcs)),
	}
	for i := range s.Funcs {
		f := s.Funcs[i]
		m.Funcs[i] = &f
	}
	return m, nil
}

// Encode writes m to w in msgpack form.
func Encode(w io.Writer, m *Module) error {
	if m == nil {
		return fmt.Errorf("ir: nil module")
	}
	return msgpack.NewEncoder(w).Encode(m.Snapshot())
}

// Decode reads a module written by Encode.
func Decode(r io.Reader) (*Module, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("ir: decode snapshot: %w", err)
	}
	return s.Restore()
}
