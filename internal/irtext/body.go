package irtext

import (
	"fmt"
	"strings"

	"llnode/internal/diag"
	"llnode/internal/ir"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

// funcScope holds the local names of one function body. A value must be
// defined textually before it is used.
type funcScope struct {
	fn     *ir.Func
	result types.TypeID
	locals map[string]symbols.SymbolID
	blocks map[string]bool
}

func (fs *funcScope) lookup(name string) (symbols.SymbolID, bool) {
	if fs == nil {
		return symbols.NoSymbolID, false
	}
	id, ok := fs.locals[name]
	return id, ok
}

func (l *loader) loadBodies() error {
	for _, fn := range l.mod.Funcs {
		fd := l.funcDecls[fn.Name]
		if len(fd.Blocks) == 0 {
			continue
		}
		if err := l.loadBody(fn, fd); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) loadBody(fn *ir.Func, fd *funcDecl) error {
	info, _ := l.in.FnInfo(fn.Type)
	fs := &funcScope{
		fn:     fn,
		result: info.Result,
		locals: make(map[string]symbols.SymbolID),
		blocks: make(map[string]bool, len(fd.Blocks)),
	}
	where := fmt.Sprintf("functions[%s]", fn.Name)

	for i, raw := range fd.Params {
		name := normalizeName(strings.TrimPrefix(raw, "%"))
		id, err := l.defineLocal(fs, symbols.KindParam, name, info.Params[i], fmt.Sprintf("%s.params[%d]", where, i))
		if err != nil {
			return err
		}
		fn.Params = append(fn.Params, ir.Param{Sym: id, Name: name, Type: info.Params[i]})
	}
	for i, b := range fd.Blocks {
		name := normalizeName(b.Name)
		if name == "" {
			return l.errorf(diag.LoadBadInstruction, fmt.Sprintf("%s.blocks[%d]", where, i), "block without a name")
		}
		if fs.blocks[name] {
			return l.errorf(diag.LoadDuplicateName, fmt.Sprintf("%s.blocks[%d]", where, i), "block %%%s is defined twice", name)
		}
		fs.blocks[name] = true
	}

	fn.Blocks = make([]ir.Block, 0, len(fd.Blocks))
	for _, b := range fd.Blocks {
		block := ir.Block{Name: normalizeName(b.Name)}
		bw := fmt.Sprintf("%s.blocks[%s]", where, block.Name)
		for i, text := range b.Instrs {
			in, err := l.instr(fs, text, fmt.Sprintf("%s.instrs[%d]", bw, i))
			if err != nil {
				return err
			}
			block.Instrs = append(block.Instrs, in)
		}
		if strings.TrimSpace(b.Term) == "" {
			return l.errorf(diag.LoadBadInstruction, bw, "block has no terminator")
		}
		term, err := l.term(fs, b.Term, bw+".term")
		if err != nil {
			return err
		}
		block.Term = term
		fn.Blocks = append(fn.Blocks, block)
	}
	return nil
}

func (l *loader) defineLocal(fs *funcScope, kind symbols.Kind, name string, t types.TypeID, where string) (symbols.SymbolID, error) {
	if name == "" {
		return symbols.NoSymbolID, l.errorf(diag.LoadBadOperand, where, "missing value name")
	}
	if _, dup := fs.locals[name]; dup {
		return symbols.NoSymbolID, l.errorf(diag.LoadDuplicateName, where, "%%%s is defined twice", name)
	}
	id := l.add(symbols.Named(kind, t, name))
	fs.locals[name] = id
	return id, nil
}

// instr parses one instruction line, e.g. "%x = add i32 %a, 1".
func (l *loader) instr(fs *funcScope, text, where string) (ir.Instr, error) {
	sc := newScanner(text)
	result := ""
	if sc.accept("%") {
		result = normalizeName(sc.word())
		if !sc.accept("=") {
			return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "expected '=' after %%%s", result)
		}
	}

	var (
		in         ir.Instr
		resultType types.TypeID
		err        error
	)
	op := sc.word()
	switch op {
	case "gep", "getelementptr":
		in.Kind = ir.InstrGEP
		in.GEP.InBounds = sc.acceptWord("inbounds")
		if in.GEP.Base, err = l.operand(sc, fs, where); err != nil {
			return ir.Instr{}, err
		}
		for sc.accept(",") {
			idx, err := l.operand(sc, fs, where)
			if err != nil {
				return ir.Instr{}, err
			}
			in.GEP.Indices = append(in.GEP.Indices, idx)
		}
		resultType, err = l.gepResultType(l.typeOf(in.GEP.Base), in.GEP.Indices, where)
	case "alloca":
		in.Kind = ir.InstrAlloca
		if in.Alloca.Type, err = parseType(l.in, sc); err != nil {
			return ir.Instr{}, l.wrap(diag.LoadBadType, where, err)
		}
		resultType = l.in.Intern(types.MakePointer(in.Alloca.Type))
	case "load":
		in.Kind = ir.InstrLoad
		if resultType, err = parseType(l.in, sc); err != nil {
			return ir.Instr{}, l.wrap(diag.LoadBadType, where, err)
		}
		if !sc.accept(",") {
			return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "expected ',' after load type")
		}
		if in.Load.Address, err = l.operand(sc, fs, where); err != nil {
			return ir.Instr{}, err
		}
		err = l.expectType(in.Load.Address, l.in.Intern(types.MakePointer(resultType)), where)
	case "store":
		in.Kind = ir.InstrStore
		if in.Store.Value, err = l.operand(sc, fs, where); err != nil {
			return ir.Instr{}, err
		}
		if !sc.accept(",") {
			return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "expected ',' after stored value")
		}
		if in.Store.Address, err = l.operand(sc, fs, where); err != nil {
			return ir.Instr{}, err
		}
		err = l.expectType(in.Store.Address, l.in.Intern(types.MakePointer(l.typeOf(in.Store.Value))), where)
	case "icmp", "fcmp":
		in.Kind = ir.InstrCompare
		pred, ok := symbols.ParsePredicate(sc.word(), op == "fcmp")
		if !ok {
			return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "unknown %s predicate", op)
		}
		in.Compare.Pred = pred
		var t types.TypeID
		if in.Compare.LHS, in.Compare.RHS, t, err = l.valuePair(sc, fs, where); err != nil {
			return ir.Instr{}, err
		}
		resultType = l.compareType(t)
	default:
		if bop, ok := symbols.ParseBinaryOp(op); ok {
			in.Kind = ir.InstrBinary
			in.Binary.Op = bop
			if in.Binary.LHS, in.Binary.RHS, resultType, err = l.valuePair(sc, fs, where); err != nil {
				return ir.Instr{}, err
			}
			break
		}
		if cop, ok := symbols.ParseCastOp(op); ok {
			in.Kind = ir.InstrCast
			in.Cast.Op = cop
			if in.Cast.Value, err = l.operand(sc, fs, where); err != nil {
				return ir.Instr{}, err
			}
			if !sc.acceptWord("to") {
				return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "expected 'to' in %s", op)
			}
			if resultType, err = parseType(l.in, sc); err != nil {
				return ir.Instr{}, l.wrap(diag.LoadBadType, where, err)
			}
			break
		}
		return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "unknown instruction %q", op)
	}
	if err != nil {
		return ir.Instr{}, err
	}
	if !sc.eof() {
		return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "unexpected %q", sc.rest())
	}

	switch {
	case in.Kind == ir.InstrStore && result != "":
		return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "store does not produce a value")
	case in.Kind != ir.InstrStore && result == "":
		return ir.Instr{}, l.errorf(diag.LoadBadInstruction, where, "%s needs a result name", in.Kind)
	case in.Kind != ir.InstrStore:
		if in.Result, err = l.defineLocal(fs, symbols.KindLocal, result, resultType, where); err != nil {
			return ir.Instr{}, err
		}
	}
	return in, nil
}

// valuePair reads "<type> <lhs>, <rhs>".
func (l *loader) valuePair(sc *scanner, fs *funcScope, where string) (lhs, rhs symbols.SymbolID, t types.TypeID, err error) {
	if t, err = parseType(l.in, sc); err != nil {
		return 0, 0, 0, l.wrap(diag.LoadBadType, where, err)
	}
	if lhs, err = l.value(sc, t, fs, where); err != nil {
		return 0, 0, 0, err
	}
	if !sc.accept(",") {
		return 0, 0, 0, l.errorf(diag.LoadBadInstruction, where, "expected ',' between operands")
	}
	if rhs, err = l.value(sc, t, fs, where); err != nil {
		return 0, 0, 0, err
	}
	return lhs, rhs, t, nil
}

func (l *loader) term(fs *funcScope, text, where string) (ir.Terminator, error) {
	sc := newScanner(text)
	var term ir.Terminator
	switch op := sc.word(); op {
	case "ret":
		term.Kind = ir.TermReturn
		if sc.acceptWord("void") {
			if l.in.BaseKind(fs.result) != types.BaseVoid {
				return term, l.errorf(diag.LoadBadInstruction, where, "ret void in function returning %s", l.in.TypeString(fs.result))
			}
			break
		}
		v, err := l.operand(sc, fs, where)
		if err != nil {
			return term, err
		}
		if err := l.expectType(v, fs.result, where); err != nil {
			return term, err
		}
		term.Return = ir.ReturnTerm{HasValue: true, Value: v}
	case "br":
		if sc.acceptWord("label") {
			target, err := l.label(sc, fs, where)
			if err != nil {
				return term, err
			}
			term.Kind = ir.TermJump
			term.Jump.Target = target
			break
		}
		cond, err := l.operand(sc, fs, where)
		if err != nil {
			return term, err
		}
		if err := l.expectType(cond, l.in.Builtins().I1, where); err != nil {
			return term, err
		}
		var targets [2]string
		for i := range targets {
			if !sc.accept(",") || !sc.acceptWord("label") {
				return term, l.errorf(diag.LoadBadInstruction, where, "expected ', label %%block'")
			}
			if targets[i], err = l.label(sc, fs, where); err != nil {
				return term, err
			}
		}
		term.Kind = ir.TermCond
		term.Cond = ir.CondTerm{Cond: cond, Then: targets[0], Else: targets[1]}
	case "unreachable":
		term.Kind = ir.TermUnreachable
	default:
		return term, l.errorf(diag.LoadBadInstruction, where, "unknown terminator %q", op)
	}
	if !sc.eof() {
		return ir.Terminator{}, l.errorf(diag.LoadBadInstruction, where, "unexpected %q", sc.rest())
	}
	return term, nil
}

func (l *loader) label(sc *scanner, fs *funcScope, where string) (string, error) {
	if !sc.accept("%") {
		return "", l.errorf(diag.LoadBadInstruction, where, "expected %%block after label")
	}
	name := normalizeName(sc.word())
	if !fs.blocks[name] {
		return "", l.errorf(diag.LoadUnknownSymbol, where, "unknown block %%%s", name)
	}
	return name, nil
}
