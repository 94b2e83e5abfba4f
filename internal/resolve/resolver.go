// Package resolve turns decoded IR symbols into operation nodes.
//
// A Resolver serves one function body. Resolve dispatches on the symbol
// kind and recurses into operands; aggregate constants and element pointer
// expressions are delegated to aggregate.go and gep.go, arithmetic, logical,
// comparison and cast nodes come from the factories in package nodes.
// Nothing is memoised: every use site gets a fresh tree, and resolving the
// same symbol twice yields trees that dump identically.
package resolve

import (
	"context"

	"llnode/internal/diag"
	"llnode/internal/fnreg"
	"llnode/internal/nodes"
	"llnode/internal/symbols"
	"llnode/internal/trace"
	"llnode/internal/types"
)

// LayoutProvider answers size and offset questions for the target.
type LayoutProvider interface {
	ByteSize(t types.TypeID) int
	ByteAlignment(t types.TypeID) int
	BytePadding(offset int, t types.TypeID) int
	IndexOffset(index int, t types.TypeID) int
	IndexedSubType(index int, t types.TypeID) types.TypeID
}

// Bindings maps local and parameter names to frame slots.
type Bindings interface {
	FindSlot(name string) (int, bool)
}

// Globals maps global symbols to address nodes.
type Globals interface {
	GlobalAddress(id symbols.SymbolID) (*nodes.Node, bool)
}

// Labels maps a (function, block) pair to its label id.
type Labels interface {
	Label(function, block string) (int, bool)
}

// Config wires a Resolver to its collaborators. Bindings, Globals and
// Labels may be nil when the symbols being resolved never need them.
type Config struct {
	Types     *types.Interner
	Symbols   *symbols.Table
	Layout    LayoutProvider
	Bindings  Bindings
	Globals   Globals
	Labels    Labels
	Functions *fnreg.Registry
	Reporter  diag.Reporter

	// Where is attached to diagnostics (module and function names).
	Where diag.Location
}

// Resolver builds operation nodes for symbols of one function body.
type Resolver struct {
	cfg    Config
	tracer trace.Tracer
	span   uint64
}

// New creates a Resolver. The tracer and parent span are taken from ctx.
func New(ctx context.Context, cfg Config) *Resolver {
	if cfg.Reporter == nil {
		cfg.Reporter = diag.NopReporter{}
	}
	return &Resolver{
		cfg:    cfg,
		tracer: trace.FromContext(ctx),
		span:   trace.CurrentSpan(ctx).SpanID,
	}
}

// Resolve builds the node computing the value of symbol id.
func (r *Resolver) Resolve(id symbols.SymbolID) (*nodes.Node, error) {
	sym := r.cfg.Symbols.Get(id)
	if sym == nil {
		return nil, invariant(id, "no such symbol")
	}

	switch sym.Kind {
	case symbols.KindLocal, symbols.KindParam:
		return r.resolveBinding(id, sym)
	case symbols.KindGlobal:
		return r.resolveGlobal(id, sym)
	case symbols.KindFunction:
		return r.resolveFunction(id, sym)
	case symbols.KindInteger, symbols.KindBigInteger:
		return r.resolveInteger(id, sym)
	case symbols.KindFloat:
		return r.resolveFloat(id, sym)
	case symbols.KindNull, symbols.KindUndef:
		return r.zeroValue(id, sym.Type)
	case symbols.KindStruct:
		return r.resolveStruct(id, sym)
	case symbols.KindArray:
		return r.resolveArray(id, sym)
	case symbols.KindVector:
		return r.resolveVector(id, sym)
	case symbols.KindBinary:
		return r.resolveBinary(id, sym)
	case symbols.KindCast:
		return r.resolveCast(id, sym)
	case symbols.KindCompare:
		return r.resolveCompare(id, sym)
	case symbols.KindGEP:
		return r.resolveGEPConstant(id, sym)
	case symbols.KindBlockAddress:
		return r.resolveBlockAddress(id, sym)
	case symbols.KindMetadata:
		// Metadata stays opaque: its id becomes an i64 literal.
		return nodes.Int(types.BaseI64, sym.Metadata.Value), nil
	default:
		return nil, &Error{Kind: ErrUnsupportedSymbol, Symbol: id, Detail: sym.Kind.String()}
	}
}

func (r *Resolver) baseKind(t types.TypeID) types.BaseKind {
	return r.cfg.Types.BaseKind(t)
}

func (r *Resolver) typeOf(id symbols.SymbolID) types.TypeID {
	if sym := r.cfg.Symbols.Get(id); sym != nil {
		return sym.Type
	}
	return types.NoTypeID
}

func (r *Resolver) where(id symbols.SymbolID) diag.Location {
	loc := r.cfg.Where
	loc.Symbol = uint32(id)
	return loc
}

func (r *Resolver) resolveBinding(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	if r.cfg.Bindings == nil {
		return nil, invariant(id, "no frame for %s %%%s", sym.Kind, sym.Name)
	}
	slot, ok := r.cfg.Bindings.FindSlot(sym.Name)
	if !ok {
		return nil, invariant(id, "no slot for %%%s", sym.Name)
	}
	return nodes.NewFrameRead(r.baseKind(sym.Type), slot, sym.Name), nil
}

func (r *Resolver) resolveGlobal(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	if r.cfg.Globals == nil {
		return nil, invariant(id, "no global table for @%s", sym.Name)
	}
	n, ok := r.cfg.Globals.GlobalAddress(id)
	if !ok {
		return nil, invariant(id, "unknown global @%s", sym.Name)
	}
	return n, nil
}

func (r *Resolver) resolveFunction(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	info, ok := r.cfg.Types.FnInfoOf(sym.Type)
	if !ok {
		return nil, invariant(id, "@%s does not have a function type", sym.Name)
	}
	if r.cfg.Functions == nil {
		return nil, invariant(id, "no function registry")
	}
	args := make([]types.BaseKind, len(info.Params))
	for i, p := range info.Params {
		args[i] = r.baseKind(p)
	}
	d := r.cfg.Functions.GetOrCreate(sym.Name, r.baseKind(info.Result), args, info.Variadic)
	return nodes.FunctionRef(d), nil
}

func (r *Resolver) resolveBlockAddress(id symbols.SymbolID, sym *symbols.Symbol) (*nodes.Node, error) {
	fn := r.cfg.Symbols.Get(sym.BlockAddr.Function)
	if fn == nil || fn.Kind != symbols.KindFunction {
		return nil, invariant(id, "blockaddress must name a function")
	}
	if r.cfg.Labels == nil {
		return nil, invariant(id, "no label table")
	}
	label, ok := r.cfg.Labels.Label(fn.Name, sym.BlockAddr.Block)
	if !ok {
		return nil, invariant(id, "unknown block %%%s in @%s", sym.BlockAddr.Block, fn.Name)
	}
	return nodes.Address(uint64(label)), nil //nolint:gosec // label ids are non-negative
}
