// Package irtext loads a decoded module from its TOML text form.
//
// The document lists named struct types, globals, named constants and
// functions. Types and instructions use LLVM assembly syntax; operands are
// written as "<type> <value>" where value is a literal, null, undef,
// zeroinitializer, %local, @global, $constant or !metadata.
package irtext

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"llnode/internal/diag"
	"llnode/internal/ir"
	"llnode/internal/layout"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// Load reads and decodes the module file at path.
func Load(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Code: diag.LoadReadFailed, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes module text. path is used for the default module name and
// in error messages.
func Parse(path string, data []byte) (*ir.Module, error) {
	var doc document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, &LoadError{Path: path, Code: diag.LoadBadTOML, Msg: "failed to parse TOML", Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &LoadError{Path: path, Code: diag.LoadBadTOML, Msg: fmt.Sprintf("unknown key %q", undecoded[0].String())}
	}
	l := newLoader(path, &doc)
	if err := l.load(); err != nil {
		return nil, err
	}
	return l.mod, nil
}

type loader struct {
	path string
	doc  *document
	mod  *ir.Module
	in   *types.Interner
	tab  *symbols.Table

	// values maps @names to global and function symbols.
	values    map[string]symbols.SymbolID
	funcDecls map[string]*funcDecl
	consts    map[string]*constDecl
	constSyms map[string]symbols.SymbolID
	pending   map[string]bool
}

func newLoader(path string, doc *document) *loader {
	in := types.NewInterner()
	tab := symbols.NewTable(0)
	name := normalizeName(strings.TrimSpace(doc.Name))
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &loader{
		path:      path,
		doc:       doc,
		mod:       &ir.Module{Name: name, DataLayout: doc.DataLayout, Types: in, Symbols: tab},
		in:        in,
		tab:       tab,
		values:    make(map[string]symbols.SymbolID),
		funcDecls: make(map[string]*funcDecl),
		consts:    make(map[string]*constDecl),
		constSyms: make(map[string]symbols.SymbolID),
		pending:   make(map[string]bool),
	}
}

func (l *loader) load() error {
	if _, err := layout.ParseDataLayout(l.doc.DataLayout); err != nil {
		return l.wrap(diag.LoadBadDataLayout, "datalayout", err)
	}
	steps := []func() error{
		l.loadTypes,
		l.declareGlobals,
		l.declareFunctions,
		l.loadConstants,
		l.loadInitializers,
		l.loadBodies,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) loadTypes() error {
	names := make([]string, 0, len(l.doc.Types))
	bodies := make(map[string]string, len(l.doc.Types))
	for raw, body := range l.doc.Types {
		name := normalizeName(raw)
		if _, dup := bodies[name]; dup {
			return l.errorf(diag.LoadStructRedefined, "types", "type %%%s is defined twice", name)
		}
		bodies[name] = body
		names = append(names, name)
	}
	slices.Sort(names)

	ids := make(map[string]types.TypeID, len(names))
	for _, name := range names {
		ids[name] = l.in.NamedStruct(name)
	}
	for _, name := range names {
		where := "types." + name
		body := strings.TrimSpace(bodies[name])
		if body == "opaque" {
			continue
		}
		literal, err := ParseType(l.in, body)
		if err != nil {
			return l.wrap(diag.LoadBadType, where, err)
		}
		info, ok := l.in.StructInfo(literal)
		if !ok || info.Name != "" {
			return l.errorf(diag.LoadBadType, where, "body of %%%s must be a struct literal, got %s", name, l.in.TypeString(literal))
		}
		if err := l.in.SetStructBody(ids[name], info.Fields, info.Packed); err != nil {
			return l.wrap(diag.LoadStructRedefined, where, err)
		}
	}
	return nil
}

func (l *loader) declare(where, name string, sym symbols.Symbol) (symbols.SymbolID, error) {
	if name == "" {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "missing name")
	}
	if _, dup := l.values[name]; dup {
		return symbols.NoSymbolID, l.errorf(diag.LoadDuplicateName, where, "@%s is defined twice", name)
	}
	id := l.tab.New(&sym)
	l.values[name] = id
	return id, nil
}

func (l *loader) declareGlobals() error {
	for i, g := range l.doc.Globals {
		name := normalizeName(g.Name)
		where := fmt.Sprintf("globals[%d]", i)
		t, err := l.typeText(g.Type, where)
		if err != nil {
			return err
		}
		id, err := l.declare(where, name, symbols.Named(symbols.KindGlobal, l.in.Intern(types.MakePointer(t)), name))
		if err != nil {
			return err
		}
		l.mod.Globals = append(l.mod.Globals, ir.Global{Sym: id, Name: name, Type: t, Constant: g.Constant})
	}
	return nil
}

func (l *loader) declareFunctions() error {
	for i := range l.doc.Functions {
		fd := &l.doc.Functions[i]
		name := normalizeName(fd.Name)
		where := fmt.Sprintf("functions[%s]", name)
		t, err := l.typeText(fd.Type, where)
		if err != nil {
			return err
		}
		info, ok := l.in.FnInfo(t)
		if !ok {
			return l.errorf(diag.LoadBadType, where, "%s is not a function type", l.in.TypeString(t))
		}
		if len(fd.Blocks) > 0 && len(fd.Params) != len(info.Params) {
			return l.errorf(diag.LoadBadOperand, where, "%d parameter names for %d parameters", len(fd.Params), len(info.Params))
		}
		id, err := l.declare(where, name, symbols.Named(symbols.KindFunction, l.in.Intern(types.MakePointer(t)), name))
		if err != nil {
			return err
		}
		l.funcDecls[name] = fd
		l.mod.Funcs = append(l.mod.Funcs, &ir.Func{Sym: id, Name: name, Type: t})
	}
	return nil
}

func (l *loader) loadConstants() error {
	for i := range l.doc.Constants {
		c := &l.doc.Constants[i]
		name := normalizeName(c.Name)
		if name == "" {
			return l.errorf(diag.LoadBadOperand, fmt.Sprintf("constants[%d]", i), "missing name")
		}
		if _, dup := l.consts[name]; dup {
			return l.errorf(diag.LoadDuplicateName, fmt.Sprintf("constants[%d]", i), "$%s is defined twice", name)
		}
		l.consts[name] = c
	}
	for i := range l.doc.Constants {
		name := normalizeName(l.doc.Constants[i].Name)
		id, err := l.constant(name)
		if err != nil {
			return err
		}
		l.mod.Constants = append(l.mod.Constants, ir.Constant{Name: name, Sym: id})
	}
	return nil
}

func (l *loader) loadInitializers() error {
	for i, g := range l.doc.Globals {
		if strings.TrimSpace(g.Init) == "" {
			continue
		}
		where := fmt.Sprintf("globals[%s].init", l.mod.Globals[i].Name)
		id, err := l.operandText(g.Init, nil, where)
		if err != nil {
			return err
		}
		if err := l.expectType(id, l.mod.Globals[i].Type, where); err != nil {
			return err
		}
		l.mod.Globals[i].Init = id
	}
	return nil
}

func (l *loader) typeText(text, where string) (types.TypeID, error) {
	t, err := ParseType(l.in, text)
	if err != nil {
		return types.NoTypeID, l.wrap(diag.LoadBadType, where, err)
	}
	return t, nil
}

func (l *loader) typeOf(id symbols.SymbolID) types.TypeID {
	if sym := l.tab.Get(id); sym != nil {
		return sym.Type
	}
	return types.NoTypeID
}

func (l *loader) expectType(id symbols.SymbolID, want types.TypeID, where string) error {
	if got := l.typeOf(id); got != want {
		return l.errorf(diag.LoadBadOperand, where, "operand has type %s, want %s", l.in.TypeString(got), l.in.TypeString(want))
	}
	return nil
}

// operandText parses a complete "<type> <value>" string.
func (l *loader) operandText(text string, fs *funcScope, where string) (symbols.SymbolID, error) {
	sc := newScanner(text)
	id, err := l.operand(sc, fs, where)
	if err != nil {
		return symbols.NoSymbolID, err
	}
	if !sc.eof() {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "unexpected %q after operand", sc.rest())
	}
	return id, nil
}

func (l *loader) operand(sc *scanner, fs *funcScope, where string) (symbols.SymbolID, error) {
	t, err := parseType(l.in, sc)
	if err != nil {
		return symbols.NoSymbolID, l.wrap(diag.LoadBadType, where, err)
	}
	return l.value(sc, t, fs, where)
}

// value parses the value half of an operand whose type is already known.
func (l *loader) value(sc *scanner, t types.TypeID, fs *funcScope, where string) (symbols.SymbolID, error) {
	tok := sc.token()
	if tok == "" {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "missing value after %s", l.in.TypeString(t))
	}

	var ref symbols.SymbolID
	switch tok[0] {
	case '%':
		name := normalizeName(tok[1:])
		id, ok := fs.lookup(name)
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadUnknownSymbol, where, "use of undefined value %%%s", name)
		}
		ref = id
	case '@':
		name := normalizeName(tok[1:])
		id, ok := l.values[name]
		if !ok {
			return symbols.NoSymbolID, l.errorf(diag.LoadUnknownSymbol, where, "unknown global @%s", name)
		}
		ref = id
	case '$':
		id, err := l.constant(normalizeName(tok[1:]))
		if err != nil {
			return symbols.NoSymbolID, err
		}
		ref = id
	case '!':
		if l.in.BaseKind(t) != types.BaseMetadata {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "metadata reference of type %s", l.in.TypeString(t))
		}
		v, ok := new(big.Int).SetString(tok[1:], 10)
		if !ok || !v.IsInt64() {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "bad metadata reference %q", tok)
		}
		return l.add(symbols.Symbol{Kind: symbols.KindMetadata, Type: t, Metadata: symbols.MetadataConst{Value: v.Int64()}}), nil
	}
	if ref != symbols.NoSymbolID {
		if err := l.expectType(ref, t, where); err != nil {
			return symbols.NoSymbolID, err
		}
		return ref, nil
	}

	switch tok {
	case "null", "zeroinitializer":
		return l.add(symbols.Null(t)), nil
	case "undef", "poison":
		return l.add(symbols.Undef(t)), nil
	case "true", "false":
		if l.in.BaseKind(t) != types.BaseI1 {
			return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "%s literal of type %s", tok, l.in.TypeString(t))
		}
		v := int64(0)
		if tok == "true" {
			v = 1
		}
		return l.add(symbols.Integer(t, v)), nil
	}

	kind := l.in.BaseKind(t)
	switch {
	case kind.IsInteger():
		return l.intLiteral(t, tok, where)
	case kind.IsFloat():
		c, err := parseFloatConst(kind, tok)
		if err != nil {
			return symbols.NoSymbolID, l.wrap(diag.LoadBadOperand, where, fmt.Errorf("bad %s literal %q: %w", kind, tok, err))
		}
		return l.add(symbols.Symbol{Kind: symbols.KindFloat, Type: t, Float: c}), nil
	default:
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "no literal form %q for %s", tok, l.in.TypeString(t))
	}
}

func (l *loader) intLiteral(t types.TypeID, tok, where string) (symbols.SymbolID, error) {
	v, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "bad integer literal %q", tok)
	}
	bits, _ := l.in.IntBits(t)
	// Accept anything representable as either signed or unsigned bits.
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	low := new(big.Int).Neg(new(big.Int).Rsh(limit, 1))
	if v.Cmp(low) < 0 || v.Cmp(limit) >= 0 {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "%s does not fit %s", tok, l.in.TypeString(t))
	}
	if v.IsInt64() {
		return l.add(symbols.Integer(t, v.Int64())), nil
	}
	return l.add(symbols.BigInteger(t, v.String())), nil
}

func (l *loader) add(sym symbols.Symbol) symbols.SymbolID {
	return l.tab.New(&sym)
}
