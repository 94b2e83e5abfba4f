package types

import (
	"strconv"
	"strings"
)

// TypeString renders id in LLVM assembly syntax. Named structs print as %name.
func (in *Interner) TypeString(id TypeID) string {
	var sb strings.Builder
	in.writeType(&sb, id, 0)
	return sb.String()
}

func (in *Interner) writeType(sb *strings.Builder, id TypeID, depth int) {
	tt, ok := in.Lookup(id)
	if !ok || depth > 32 {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindVoid:
		sb.WriteString("void")
	case KindLabel:
		sb.WriteString("label")
	case KindMetadata:
		sb.WriteString("metadata")
	case KindInt:
		sb.WriteByte('i')
		sb.WriteString(strconv.FormatUint(uint64(tt.Bits), 10))
	case KindFloat:
		sb.WriteString(tt.Float.String())
	case KindPointer:
		in.writeType(sb, tt.Elem, depth+1)
		sb.WriteByte('*')
	case KindArray:
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatUint(uint64(tt.Count), 10))
		sb.WriteString(" x ")
		in.writeType(sb, tt.Elem, depth+1)
		sb.WriteByte(']')
	case KindVector:
		sb.WriteByte('<')
		sb.WriteString(strconv.FormatUint(uint64(tt.Count), 10))
		sb.WriteString(" x ")
		in.writeType(sb, tt.Elem, depth+1)
		sb.WriteByte('>')
	case KindStruct:
		info, _ := in.StructInfo(id)
		if info == nil {
			sb.WriteString("<invalid>")
			return
		}
		if info.Name != "" {
			sb.WriteByte('%')
			sb.WriteString(info.Name)
			return
		}
		in.writeStructBody(sb, info, depth)
	case KindFn:
		info, _ := in.FnInfo(id)
		if info == nil {
			sb.WriteString("<invalid>")
			return
		}
		in.writeType(sb, info.Result, depth+1)
		sb.WriteString(" (")
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.writeType(sb, p, depth+1)
		}
		if info.Variadic {
			if len(info.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("<invalid>")
	}
}

// StructBodyString renders the body of a struct, expanding named structs.
func (in *Interner) StructBodyString(id TypeID) string {
	info, ok := in.StructInfo(id)
	if !ok {
		return in.TypeString(id)
	}
	if info.Opaque {
		return "opaque"
	}
	var sb strings.Builder
	in.writeStructBody(&sb, info, 0)
	return sb.String()
}

func (in *Interner) writeStructBody(sb *strings.Builder, info *StructInfo, depth int) {
	if info.Packed {
		sb.WriteByte('<')
	}
	if len(info.Fields) == 0 {
		sb.WriteString("{}")
		if info.Packed {
			sb.WriteByte('>')
		}
		return
	}
	sb.WriteString("{ ")
	for i, f := range info.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		in.writeType(sb, f, depth+1)
	}
	sb.WriteString(" }")
	if info.Packed {
		sb.WriteByte('>')
	}
}
