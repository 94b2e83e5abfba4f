// Package ir holds a decoded module: interned types, the symbol arena and
// the globals and function bodies that reference them.
package ir

import (
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// Module is a decoded IR module. Types and Symbols are shared by every
// function body; a Module is read-only once loading finishes.
type Module struct {
	Name       string
	DataLayout string
	Types      *types.Interner
	Symbols    *symbols.Table
	Globals    []Global
	Constants  []Constant
	Funcs      []*Func
}

// Constant is a named module-level constant expression.
type Constant struct {
	Name string
	Sym  symbols.SymbolID
}

// Global is a module-level variable. Sym is the global's address symbol,
// Type the type of the stored value.
type Global struct {
	Sym      symbols.SymbolID
	Name     string
	Type     types.TypeID
	Init     symbols.SymbolID // NoSymbolID for external globals
	Constant bool
}

// Func is a function declaration or definition.
type Func struct {
	Sym    symbols.SymbolID
	Name   string
	Type   types.TypeID // function type
	Params []Param
	Blocks []Block
}

// Param binds a parameter name to its symbol.
type Param struct {
	Sym  symbols.SymbolID
	Name string
	Type types.TypeID
}

// IsDeclaration reports whether f has no body.
func (f *Func) IsDeclaration() bool {
	return f == nil || len(f.Blocks) == 0
}

// Block is a basic block: straight-line instructions and a terminator.
type Block struct {
	Name   string
	Instrs []Instr
	Term   Terminator
}

// Terminated reports whether b ends in a terminator.
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// Func returns the function named name.
func (m *Module) Func(name string) (*Func, bool) {
	if m == nil {
		return nil, false
	}
	for _, f := range m.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Global returns the global named name.
func (m *Module) Global(name string) (*Global, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Globals {
		if m.Globals[i].Name == name {
			return &m.Globals[i], true
		}
	}
	return nil, false
}

// Definitions returns the functions that have a body, in module order.
func (m *Module) Definitions() []*Func {
	if m == nil {
		return nil
	}
	out := make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if !f.IsDeclaration() {
			out = append(out, f)
		}
	}
	return out
}

// Constant returns the named constant.
func (m *Module) Constant(name string) (symbols.SymbolID, bool) {
	if m == nil {
		return symbols.NoSymbolID, false
	}
	for _, c := range m.Constants {
		if c.Name == name {
			return c.Sym, true
		}
	}
	return symbols.NoSymbolID, false
}
