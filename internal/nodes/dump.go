package nodes

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"llnode/internal/types"
)

// Dump writes n as an indented S-expression. Output is deterministic so it
// can be compared in tests and golden files.
func Dump(w io.Writer, n *Node) error {
	if w == nil {
		return nil
	}
	var sb strings.Builder
	writeNode(&sb, n, 0)
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders n the way Dump does, without the trailing newline.
func String(n *Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		sb.WriteString("(nil)")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(header(n))
	for _, c := range children(n) {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth+1))
		writeNode(sb, c, depth+1)
	}
	sb.WriteByte(')')
}

func header(n *Node) string {
	switch n.Kind {
	case KindLiteral:
		return literalString(n.Literal)
	case KindFrameRead:
		return fmt.Sprintf("read %s %%%s slot=%d", n.Result, n.Slot.Name, n.Slot.Index)
	case KindFrameWrite:
		return fmt.Sprintf("write-slot %%%s slot=%d", n.Slot.Name, n.Slot.Index)
	case KindGlobal:
		return fmt.Sprintf("global @%s #%d", n.Global.Name, n.Global.Index)
	case KindFunction:
		if n.Function == nil {
			return "function <nil>"
		}
		return fmt.Sprintf("function #%d %s", n.Function.ID, n.Function.Signature())
	case KindAlloca:
		return fmt.Sprintf("alloca size=%d align=%d", n.Alloca.Size, n.Alloca.Align)
	case KindZeroFill:
		return fmt.Sprintf("zero-fill size=%d", n.ZeroFill.Size)
	case KindElementPtr:
		return fmt.Sprintf("gep stride=%d index=%s", n.ElemPtr.Stride, n.ElemPtr.IndexKind)
	case KindArrayLiteral:
		return fmt.Sprintf("array-literal %s stride=%d", n.Array.Store, n.Array.Stride)
	case KindStructLiteral:
		var sb strings.Builder
		sb.WriteString("struct-literal offsets=[")
		for i, off := range n.Struct.Offsets {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", off)
		}
		sb.WriteString("] stores=[")
		for i, w := range n.Struct.Writes {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(w.Store.String())
			if w.Store == StoreCopy {
				fmt.Fprintf(&sb, ":%d", w.Size)
			}
		}
		sb.WriteByte(']')
		return sb.String()
	case KindVectorLiteral:
		return fmt.Sprintf("vector-literal %s lanes=%d", n.Vector.Lane, len(n.Vector.Values))
	case KindArithmetic:
		return fmt.Sprintf("%s %s", n.Arith.Op, n.Result)
	case KindLogical:
		return fmt.Sprintf("%s %s", n.Logic.Op, n.Result)
	case KindCompare:
		prefix := "icmp"
		if n.Compare.Op.IsFloat() {
			prefix = "fcmp"
		}
		return fmt.Sprintf("%s %s %s", prefix, n.Compare.Op, n.Compare.Operand)
	case KindCast:
		return fmt.Sprintf("%s %s->%s", n.Cast.Conv, n.Cast.From, n.Result)
	case KindLoad:
		if n.Load.Size > 0 {
			return fmt.Sprintf("load %s size=%d", n.Result, n.Load.Size)
		}
		return fmt.Sprintf("load %s", n.Result)
	case KindStore:
		if n.Store.Store == StoreCopy {
			return fmt.Sprintf("store copy size=%d", n.Store.Size)
		}
		return fmt.Sprintf("store %s", n.Store.Store)
	case KindReturn:
		if n.Return.Value == nil {
			return "ret void"
		}
		return "ret"
	case KindBranch:
		if n.Branch.Cond == nil {
			return fmt.Sprintf("br #%d", n.Branch.Then)
		}
		return fmt.Sprintf("br #%d #%d", n.Branch.Then, n.Branch.Else)
	case KindBlock:
		return fmt.Sprintf("block #%d %%%s", n.Block.Label, n.Block.Name)
	default:
		return n.Kind.String()
	}
}

func children(n *Node) []*Node {
	switch n.Kind {
	case KindFrameWrite:
		return []*Node{n.Slot.Value}
	case KindZeroFill:
		return []*Node{n.ZeroFill.Target}
	case KindElementPtr:
		return []*Node{n.ElemPtr.Base, n.ElemPtr.Index}
	case KindArrayLiteral:
		return append([]*Node{n.Array.Target}, n.Array.Values...)
	case KindStructLiteral:
		out := []*Node{n.Struct.Target}
		for _, w := range n.Struct.Writes {
			if w.Value != nil {
				out = append(out, w.Value)
			}
		}
		return out
	case KindVectorLiteral:
		return append([]*Node{n.Vector.Target}, n.Vector.Values...)
	case KindArithmetic:
		return []*Node{n.Arith.LHS, n.Arith.RHS}
	case KindLogical:
		return []*Node{n.Logic.LHS, n.Logic.RHS}
	case KindCompare:
		return []*Node{n.Compare.LHS, n.Compare.RHS}
	case KindCast:
		return []*Node{n.Cast.Value}
	case KindLoad:
		return []*Node{n.Load.Address}
	case KindStore:
		return []*Node{n.Store.Address, n.Store.Value}
	case KindReturn:
		if n.Return.Value != nil {
			return []*Node{n.Return.Value}
		}
	case KindBranch:
		if n.Branch.Cond != nil {
			return []*Node{n.Branch.Cond}
		}
	case KindBlock:
		return n.Block.Stmts
	}
	return nil
}

func literalString(l Literal) string {
	switch l.Kind {
	case types.BaseI1:
		return fmt.Sprintf("i1 %t", l.Int != 0)
	case types.BaseI8, types.BaseI16, types.BaseI32, types.BaseI64:
		return fmt.Sprintf("%s %d", l.Kind, l.Int)
	case types.BaseIVarBit:
		return l.VarBit.String()
	case types.BaseHalf:
		return fmt.Sprintf("half 0x%04x", l.Bits)
	case types.BaseFloat:
		return fmt.Sprintf("float %g", math.Float32frombits(uint32(l.Bits))) //nolint:gosec // float bits fit
	case types.BaseDouble:
		return fmt.Sprintf("double %g", math.Float64frombits(l.Bits))
	case types.BaseX86FP80, types.BaseFP128:
		be := slices.Clone(l.Raw)
		slices.Reverse(be)
		return fmt.Sprintf("%s 0x%s", l.Kind, hex.EncodeToString(be))
	case types.BaseAddress:
		return fmt.Sprintf("address 0x%x", l.Bits)
	case types.BaseFunctionAddress:
		return "function null"
	default:
		return fmt.Sprintf("%s ?", l.Kind)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range children(n) {
		total += Count(c)
	}
	return total
}
