// Package lower turns the function bodies of a decoded module into
// operation trees. Operands go through package resolve; lower adds the
// frame, the instruction statements and the block terminators.
package lower

import (
	"context"
	"fmt"

	"llnode/internal/diag"
	"llnode/internal/fnreg"
	"llnode/internal/ir"
	"llnode/internal/nodes"
	"llnode/internal/resolve"
	"llnode/internal/symbols"
	"llnode/internal/trace"
	"llnode/internal/types"
)

// Env is shared by every function of one module. All fields except
// Reporter are read-only during a build; Functions is safe for concurrent
// use and Reporter must be when bodies are built in parallel.
type Env struct {
	Module    *ir.Module
	Layout    resolve.LayoutProvider
	Globals   *GlobalTable
	Labels    *LabelTable
	Functions *fnreg.Registry
	Reporter  diag.Reporter
}

// NewEnv derives the global and label tables from m.
func NewEnv(m *ir.Module, lp resolve.LayoutProvider, fns *fnreg.Registry, reporter diag.Reporter) *Env {
	if fns == nil {
		fns = fnreg.NewRegistry()
	}
	return &Env{
		Module:    m,
		Layout:    lp,
		Globals:   NewGlobalTable(m),
		Labels:    NewLabelTable(m),
		Functions: fns,
		Reporter:  reporter,
	}
}

// Resolver returns a resolver for module-level symbols: constants and
// global initializers. It has no frame.
func (e *Env) Resolver(ctx context.Context) *resolve.Resolver {
	return resolve.New(ctx, e.config(nil, ""))
}

func (e *Env) config(frame *Frame, function string) resolve.Config {
	cfg := resolve.Config{
		Types:     e.Module.Types,
		Symbols:   e.Module.Symbols,
		Layout:    e.Layout,
		Globals:   e.Globals,
		Labels:    e.Labels,
		Functions: e.Functions,
		Reporter:  e.Reporter,
		Where:     diag.Location{Module: e.Module.Name, Function: function},
	}
	if frame != nil {
		cfg.Bindings = frame
	}
	return cfg
}

// Body is the lowered form of one function.
type Body struct {
	Name   string
	Frame  *Frame
	Blocks []*nodes.Node
}

// String renders the frame size and every block tree.
func (b *Body) String() string {
	out := fmt.Sprintf("define @%s slots=%d\n", b.Name, b.Frame.Len())
	for _, blk := range b.Blocks {
		out += nodes.String(blk) + "\n"
	}
	return out
}

type builder struct {
	env   *Env
	fn    *ir.Func
	frame *Frame
	r     *resolve.Resolver
}

// BuildFunction lowers fn. The first error aborts the body.
func BuildFunction(ctx context.Context, env *Env, fn *ir.Func) (*Body, error) {
	if fn.IsDeclaration() {
		return nil, fmt.Errorf("@%s has no body", fn.Name)
	}
	span := trace.BeginFunction(trace.FromContext(ctx), fn.Name, trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpan(ctx, span)

	b := &builder{env: env, fn: fn, frame: NewFrame()}
	b.declare()
	b.r = resolve.New(ctx, env.config(b.frame, fn.Name))

	body := &Body{Name: fn.Name, Frame: b.frame, Blocks: make([]*nodes.Node, 0, len(fn.Blocks))}
	for i := range fn.Blocks {
		blk, err := b.block(i, &fn.Blocks[i])
		if err != nil {
			span.End("error")
			return nil, err
		}
		body.Blocks = append(body.Blocks, blk)
	}
	span.WithExtra("slots", fmt.Sprint(b.frame.Len())).End(fmt.Sprintf("%d blocks", len(body.Blocks)))
	return body, nil
}

// declare gives parameters the first slots, then every value instruction
// in program order.
func (b *builder) declare() {
	for _, p := range b.fn.Params {
		b.frame.Declare(p.Name, b.kind(p.Type))
	}
	for _, blk := range b.fn.Blocks {
		for _, in := range blk.Instrs {
			if !in.Result.IsValid() {
				continue
			}
			if sym := b.sym(in.Result); sym != nil {
				b.frame.Declare(sym.Name, b.kind(sym.Type))
			}
		}
	}
}

func (b *builder) block(index int, blk *ir.Block) (*nodes.Node, error) {
	stmts := make([]*nodes.Node, 0, len(blk.Instrs)+1)
	for i := range blk.Instrs {
		in := &blk.Instrs[i]
		n, err := b.instr(in)
		if err != nil {
			return nil, fmt.Errorf("%%%s: %s: %w", blk.Name, in.Kind, err)
		}
		stmts = append(stmts, n)
	}
	term, err := b.term(&blk.Term)
	if err != nil {
		return nil, fmt.Errorf("%%%s: terminator: %w", blk.Name, err)
	}
	stmts = append(stmts, term)
	return nodes.NewBlock(index, blk.Name, stmts), nil
}

func (b *builder) instr(in *ir.Instr) (*nodes.Node, error) {
	var (
		value *nodes.Node
		err   error
	)
	switch in.Kind {
	case ir.InstrGEP:
		value, err = b.r.ResolveElementPointer(in.GEP.Base, in.GEP.Indices)
	case ir.InstrBinary:
		value, err = b.binary(in)
	case ir.InstrCast:
		value, err = b.cast(in)
	case ir.InstrCompare:
		value, err = b.compare(in)
	case ir.InstrAlloca:
		value = nodes.NewAlloca(b.env.Layout.ByteSize(in.Alloca.Type), b.env.Layout.ByteAlignment(in.Alloca.Type))
	case ir.InstrLoad:
		value, err = b.load(in)
	case ir.InstrStore:
		return b.store(in)
	default:
		return nil, fmt.Errorf("unsupported instruction %s", in.Kind)
	}
	if err != nil {
		return nil, err
	}
	return b.write(in.Result, value)
}

func (b *builder) write(result symbols.SymbolID, value *nodes.Node) (*nodes.Node, error) {
	sym := b.sym(result)
	if sym == nil {
		return nil, fmt.Errorf("instruction without a result")
	}
	slot, ok := b.frame.FindSlot(sym.Name)
	if !ok {
		return nil, fmt.Errorf("no slot for %%%s", sym.Name)
	}
	return nodes.NewFrameWrite(slot, sym.Name, value), nil
}

func (b *builder) operands(lhs, rhs symbols.SymbolID) (l, r *nodes.Node, err error) {
	if l, err = b.r.Resolve(lhs); err != nil {
		return nil, nil, err
	}
	if r, err = b.r.Resolve(rhs); err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (b *builder) binary(in *ir.Instr) (*nodes.Node, error) {
	lhs, rhs, err := b.operands(in.Binary.LHS, in.Binary.RHS)
	if err != nil {
		return nil, err
	}
	return resolve.BinaryOperatorNode(in.Result, in.Binary.Op, b.kindOf(in.Result), lhs, rhs)
}

func (b *builder) cast(in *ir.Instr) (*nodes.Node, error) {
	value, err := b.r.Resolve(in.Cast.Value)
	if err != nil {
		return nil, err
	}
	return resolve.CastNode(in.Result, in.Cast.Op, b.kindOf(in.Cast.Value), b.kindOf(in.Result), value)
}

func (b *builder) compare(in *ir.Instr) (*nodes.Node, error) {
	lhs, rhs, err := b.operands(in.Compare.LHS, in.Compare.RHS)
	if err != nil {
		return nil, err
	}
	return resolve.CompareNode(in.Result, in.Compare.Pred, b.kindOf(in.Compare.LHS), lhs, rhs)
}

func (b *builder) load(in *ir.Instr) (*nodes.Node, error) {
	address, err := b.r.Resolve(in.Load.Address)
	if err != nil {
		return nil, err
	}
	sym := b.sym(in.Result)
	if sym == nil {
		return nil, fmt.Errorf("load without a result")
	}
	return nodes.NewLoad(b.kind(sym.Type), address, b.aggregateSize(sym.Type)), nil
}

func (b *builder) store(in *ir.Instr) (*nodes.Node, error) {
	address, value, err := b.operands(in.Store.Address, in.Store.Value)
	if err != nil {
		return nil, err
	}
	t := b.typeOf(in.Store.Value)
	info, ok := nodes.StoreFor(b.kind(t))
	if !ok {
		return nil, fmt.Errorf("cannot store a value of type %s", b.env.Module.Types.TypeString(t))
	}
	if info.Store != nodes.StoreCopy {
		return nodes.NewStore(info.Store, address, value, info.Bytes(b.env.Layout.ByteSize(t))), nil
	}
	size := b.aggregateSize(t)
	if size == 0 {
		return nodes.NewStore(nodes.StoreEmpty, address, value, 0), nil
	}
	return nodes.NewStore(nodes.StoreCopy, address, value, size), nil
}

func (b *builder) term(t *ir.Terminator) (*nodes.Node, error) {
	switch t.Kind {
	case ir.TermReturn:
		if !t.Return.HasValue {
			return nodes.NewReturn(nil), nil
		}
		value, err := b.r.Resolve(t.Return.Value)
		if err != nil {
			return nil, err
		}
		return nodes.NewReturn(value), nil
	case ir.TermJump:
		target, err := b.target(t.Jump.Target)
		if err != nil {
			return nil, err
		}
		return nodes.NewJump(target), nil
	case ir.TermCond:
		cond, err := b.r.Resolve(t.Cond.Cond)
		if err != nil {
			return nil, err
		}
		then, err := b.target(t.Cond.Then)
		if err != nil {
			return nil, err
		}
		els, err := b.target(t.Cond.Else)
		if err != nil {
			return nil, err
		}
		return nodes.NewCondBranch(cond, then, els), nil
	case ir.TermUnreachable:
		return nodes.NewUnreachable(), nil
	default:
		return nil, fmt.Errorf("block is not terminated")
	}
}

func (b *builder) target(name string) (int, error) {
	if id, ok := b.env.Labels.Label(b.fn.Name, name); ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown block %%%s", name)
}

// aggregateSize is the byte size for struct, array and vector values and
// zero for scalars, whose width follows from their kind.
func (b *builder) aggregateSize(t types.TypeID) int {
	switch b.kind(t) {
	case types.BaseStruct, types.BaseArray, types.BaseVector:
		return b.env.Layout.ByteSize(t)
	default:
		return 0
	}
}

func (b *builder) sym(id symbols.SymbolID) *symbols.Symbol {
	return b.env.Module.Symbols.Get(id)
}

func (b *builder) typeOf(id symbols.SymbolID) types.TypeID {
	if sym := b.sym(id); sym != nil {
		return sym.Type
	}
	return types.NoTypeID
}

func (b *builder) kind(t types.TypeID) types.BaseKind {
	return b.env.Module.Types.BaseKind(t)
}

func (b *builder) kindOf(id symbols.SymbolID) types.BaseKind {
	return b.kind(b.typeOf(id))
}
