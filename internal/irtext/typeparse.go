package irtext

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"llnode/internal/types"
)

// ParseType parses an LLVM type expression such as "[4 x i32]",
// "<{ i8, i32 }>", "%node*" or "i32 (i8*, ...)*". Named structs must
// already be registered with in.
func ParseType(in *types.Interner, text string) (types.TypeID, error) {
	sc := newScanner(text)
	t, err := parseType(in, sc)
	if err != nil {
		return types.NoTypeID, err
	}
	if !sc.eof() {
		return types.NoTypeID, fmt.Errorf("unexpected %q after type", sc.rest())
	}
	return t, nil
}

func parseType(in *types.Interner, sc *scanner) (types.TypeID, error) {
	t, err := parseBaseType(in, sc)
	if err != nil {
		return types.NoTypeID, err
	}
	for {
		switch sc.peek() {
		case '*':
			sc.accept("*")
			t = in.Intern(types.MakePointer(t))
		case '(':
			sc.accept("(")
			params, variadic, err := parseParamTypes(in, sc)
			if err != nil {
				return types.NoTypeID, err
			}
			t = in.RegisterFn(params, t, variadic)
		default:
			return t, nil
		}
	}
}

func parseParamTypes(in *types.Interner, sc *scanner) ([]types.TypeID, bool, error) {
	var params []types.TypeID
	if sc.accept(")") {
		return nil, false, nil
	}
	for {
		if sc.accept("...") {
			if !sc.accept(")") {
				return nil, false, fmt.Errorf("'...' must be the last parameter")
			}
			return params, true, nil
		}
		p, err := parseType(in, sc)
		if err != nil {
			return nil, false, err
		}
		params = append(params, p)
		if sc.accept(")") {
			return params, false, nil
		}
		if !sc.accept(",") {
			return nil, false, fmt.Errorf("expected ',' or ')' in parameter list, found %q", sc.rest())
		}
	}
}

func parseBaseType(in *types.Interner, sc *scanner) (types.TypeID, error) {
	b := in.Builtins()
	switch {
	case sc.accept("<{"):
		fields, err := parseFields(in, sc, "}>")
		if err != nil {
			return types.NoTypeID, err
		}
		return in.LiteralStruct(fields, true), nil
	case sc.accept("{"):
		fields, err := parseFields(in, sc, "}")
		if err != nil {
			return types.NoTypeID, err
		}
		return in.LiteralStruct(fields, false), nil
	case sc.accept("["):
		n, elem, err := parseSequence(in, sc, "]")
		if err != nil {
			return types.NoTypeID, err
		}
		return in.Intern(types.MakeArray(elem, n)), nil
	case sc.accept("<"):
		n, elem, err := parseSequence(in, sc, ">")
		if err != nil {
			return types.NoTypeID, err
		}
		if n == 0 {
			return types.NoTypeID, fmt.Errorf("vector of zero lanes")
		}
		return in.Intern(types.MakeVector(elem, n)), nil
	case sc.accept("%"):
		name := normalizeName(sc.word())
		if name == "" {
			return types.NoTypeID, fmt.Errorf("missing struct name after '%%'")
		}
		id, ok := in.LookupNamedStruct(name)
		if !ok {
			return types.NoTypeID, fmt.Errorf("unknown type %%%s", name)
		}
		return id, nil
	}

	word := sc.word()
	switch word {
	case "":
		return types.NoTypeID, fmt.Errorf("expected type, found %q", sc.rest())
	case "void":
		return b.Void, nil
	case "label":
		return b.Label, nil
	case "metadata":
		return b.Metadata, nil
	case "half":
		return in.Intern(types.MakeFloat(types.FloatHalf)), nil
	case "float":
		return b.Float, nil
	case "double":
		return b.Double, nil
	case "x86_fp80":
		return b.X86FP80, nil
	case "fp128":
		return in.Intern(types.MakeFloat(types.FloatFP128)), nil
	case "ptr":
		return in.Intern(types.MakePointer(b.I8)), nil
	}
	if strings.HasPrefix(word, "i") {
		bits, err := strconv.ParseUint(word[1:], 10, 32)
		if err == nil && bits > 0 && bits <= 1<<23 {
			return in.Intern(types.MakeInt(uint32(bits))), nil
		}
	}
	return types.NoTypeID, fmt.Errorf("unknown type %q", word)
}

// parseSequence reads "N x T" followed by closer.
func parseSequence(in *types.Interner, sc *scanner, closer string) (uint32, types.TypeID, error) {
	count, err := strconv.ParseUint(sc.word(), 10, 32)
	if err != nil {
		return 0, types.NoTypeID, fmt.Errorf("bad element count: %w", err)
	}
	if !sc.acceptWord("x") {
		return 0, types.NoTypeID, fmt.Errorf("expected 'x' after element count")
	}
	elem, err := parseType(in, sc)
	if err != nil {
		return 0, types.NoTypeID, err
	}
	if !sc.accept(closer) {
		return 0, types.NoTypeID, fmt.Errorf("expected %q, found %q", closer, sc.rest())
	}
	return uint32(count), elem, nil
}

func parseFields(in *types.Interner, sc *scanner, closer string) ([]types.TypeID, error) {
	if sc.accept(closer) {
		return nil, nil
	}
	var fields []types.TypeID
	for {
		f, err := parseType(in, sc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if sc.accept(closer) {
			return fields, nil
		}
		if !sc.accept(",") {
			return nil, fmt.Errorf("expected ',' or %q in struct body, found %q", closer, sc.rest())
		}
	}
}

// normalizeName puts identifiers in NFC so that differently composed
// spellings of a name refer to the same symbol.
func normalizeName(s string) string {
	return norm.NFC.String(s)
}
