package irtext

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/diag"
	"llnode/internal/ir"
	"llnode/internal/symbols"
	"llnode/internal/types"
)

func TestParseTypeRoundTrip(t *testing.T) {
	cases := []struct{ in, want string }{
		{"i32", "i32"},
		{"i1", "i1"},
		{"i24", "i24"},
		{"x86_fp80", "x86_fp80"},
		{"[4 x i32]", "[4 x i32]"},
		{"[2 x [3 x i8]]", "[2 x [3 x i8]]"},
		{"<4 x float>", "<4 x float>"},
		{"{ i8, i32 }", "{ i8, i32 }"},
		{"<{ i8,i32 }>", "<{ i8, i32 }>"},
		{"{}", "{}"},
		{"i32 (i8*, ...)*", "i32 (i8*, ...)*"},
		{"void ()", "void ()"},
		{"ptr", "i8*"},
		{"i8**", "i8**"},
	}
	in := types.NewInterner()
	for _, tc := range cases {
		id, err := ParseType(in, tc.in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tc.in, err)
		}
		if got := in.TypeString(id); got != tc.want {
			t.Fatalf("ParseType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	in := types.NewInterner()
	for _, text := range []string{"", "i0", "[4 i32]", "[4 x i32", "%missing", "<0 x i32>", "i32 i32", "{ i8, }", "bogus"} {
		if _, err := ParseType(in, text); err == nil {
			t.Fatalf("ParseType(%q): expected error", text)
		}
	}
}

func TestParseFloatConst(t *testing.T) {
	one80 := []byte{0, 0, 0, 0, 0, 0, 0, 0x80, 0xff, 0x3f}
	c, err := parseFloatConst(types.BaseX86FP80, "1.0")
	be.Err(t, err, nil)
	be.Equal(t, c.Raw, one80)
	c, err = parseFloatConst(types.BaseX86FP80, "0xK3FFF8000000000000000")
	be.Err(t, err, nil)
	be.Equal(t, c.Raw, one80)

	c, err = parseFloatConst(types.BaseX86FP80, "-2.0")
	be.Err(t, err, nil)
	be.Equal(t, c.Raw, []byte{0, 0, 0, 0, 0, 0, 0, 0x80, 0x00, 0xc0})

	c, err = parseFloatConst(types.BaseFP128, "1.0")
	be.Err(t, err, nil)
	be.Equal(t, c.Raw, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0x3f})
	c, err = parseFloatConst(types.BaseFP128, "0xL00000000000000003FFF000000000000")
	be.Err(t, err, nil)
	be.Equal(t, c.Raw[14:], []byte{0xff, 0x3f})

	c, err = parseFloatConst(types.BaseFloat, "0x3FF0000000000000")
	be.Err(t, err, nil)
	be.Equal(t, c.Bits, uint64(0x3f800000))

	c, err = parseFloatConst(types.BaseHalf, "0xH3C00")
	be.Err(t, err, nil)
	be.Equal(t, c.Bits, uint64(0x3c00))

	_, err = parseFloatConst(types.BaseHalf, "1.0")
	be.True(t, err != nil)
	_, err = parseFloatConst(types.BaseDouble, "0xK3FFF8000000000000000")
	be.True(t, err != nil)
}

func TestLoadDemoModule(t *testing.T) {
	m, err := Load("testdata/demo.toml")
	be.Err(t, err, nil)
	be.Equal(t, m.Name, "demo")
	be.Equal(t, len(m.Globals), 3)
	be.Equal(t, len(m.Funcs), 3)
	be.Equal(t, len(m.Definitions()), 2)
	be.Equal(t, len(m.Constants), 9)

	ext, ok := m.Func("ext")
	be.True(t, ok)
	be.True(t, ext.IsDeclaration())

	g, ok := m.Global("g")
	be.True(t, ok)
	be.Equal(t, m.Types.TypeString(g.Type), "%S")
	init := m.Symbols.Get(g.Init)
	be.Equal(t, init.Kind, symbols.KindStruct)
	be.Equal(t, len(init.Aggregate.Elems), 3)

	handle, ok := m.Types.LookupNamedStruct("handle")
	be.True(t, ok)
	info, _ := m.Types.StructInfo(handle)
	be.True(t, info.Opaque)
	node, _ := m.Types.LookupNamedStruct("node")
	be.Equal(t, m.Types.StructBodyString(node), "{ i32, %node* }")

	field, ok := m.Constant("field")
	be.True(t, ok)
	fsym := m.Symbols.Get(field)
	be.Equal(t, fsym.Kind, symbols.KindGEP)
	be.Equal(t, m.Types.TypeString(fsym.Type), "double*")
	be.True(t, fsym.GEP.InBounds)

	less, _ := m.Constant("less")
	be.Equal(t, m.Symbols.Get(less).Compare.Pred, symbols.PredSLT)

	wide, _ := m.Constant("wide")
	be.Equal(t, m.Types.TypeString(m.Symbols.Get(wide).Type), "i64")

	second, _ := m.Func("second")
	be.Equal(t, len(second.Params), 2)
	entry := second.Blocks[0]
	be.Equal(t, len(entry.Instrs), 4)
	gep := entry.Instrs[0]
	be.Equal(t, gep.Kind, ir.InstrGEP)
	be.Equal(t, m.Types.TypeString(m.Symbols.Get(gep.Result).Type), "i32*")
	be.Equal(t, entry.Instrs[3].Kind, ir.InstrStore)
	be.Equal(t, entry.Instrs[3].Result, symbols.NoSymbolID)
	be.Equal(t, entry.Term.Kind, ir.TermReturn)

	walk, _ := m.Func("walk")
	be.Equal(t, walk.Blocks[0].Term.Kind, ir.TermCond)
	be.Equal(t, walk.Blocks[0].Term.Cond.Then, "exit")
	be.Equal(t, walk.Blocks[0].Term.Cond.Else, "loop")
	be.Equal(t, walk.Blocks[1].Term.Jump.Target, "exit")
}

func TestLiteralOperands(t *testing.T) {
	src := `
[[constants]]
name = "big"
value = "i128 -170141183460469231731687303715884105728"

[[constants]]
name = "u64"
value = "i64 18446744073709551615"

[[constants]]
name = "b"
value = "i1 true"

[[constants]]
name = "md"
value = "metadata !7"

[[constants]]
name = "np"
value = "i8* null"
`
	m, err := Parse("lits.toml", []byte(src))
	be.Err(t, err, nil)
	be.Equal(t, m.Name, "lits")

	get := func(name string) *symbols.Symbol {
		id, ok := m.Constant(name)
		if !ok {
			t.Fatalf("missing constant %s", name)
		}
		return m.Symbols.Get(id)
	}
	be.Equal(t, get("big").Kind, symbols.KindBigInteger)
	be.Equal(t, get("u64").Kind, symbols.KindBigInteger)
	be.Equal(t, get("b").Int.Value, int64(1))
	be.Equal(t, get("md").Metadata.Value, int64(7))
	be.Equal(t, get("np").Kind, symbols.KindNull)
}

func TestNamesAreNormalized(t *testing.T) {
	// The global is declared decomposed and referenced precomposed.
	src := "[[globals]]\nname = \"cafe\u0301\"\ntype = \"i32\"\n\n" +
		"[[constants]]\nname = \"addr\"\nvalue = \"i32* @caf\u00e9\"\n"
	m, err := Parse("nfc.toml", []byte(src))
	be.Err(t, err, nil)
	g, ok := m.Global("caf\u00e9")
	be.True(t, ok)
	addr, _ := m.Constant("addr")
	be.Equal(t, addr, g.Sym)
}

func TestLoadErrors(t *testing.T) {
	body := func(instrs, term string) string {
		return "[[functions]]\nname = \"f\"\ntype = \"i32 (i32)\"\nparams = [\"a\"]\n\n" +
			"[[functions.blocks]]\nname = \"entry\"\ninstrs = [" + instrs + "]\nterm = \"" + term + "\"\n"
	}
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"toml syntax", "name = ", diag.LoadBadTOML},
		{"unknown key", "nmae = \"x\"", diag.LoadBadTOML},
		{"datalayout", "datalayout = \"i64:abc\"", diag.LoadBadDataLayout},
		{"bad type", "[[globals]]\nname = \"g\"\ntype = \"i32 x\"", diag.LoadBadType},
		{"unknown struct", "[[globals]]\nname = \"g\"\ntype = \"%T\"", diag.LoadBadType},
		{"struct body", "[types]\nT = \"i32\"", diag.LoadBadType},
		{"duplicate global", "[[globals]]\nname = \"g\"\ntype = \"i32\"\n[[globals]]\nname = \"g\"\ntype = \"i8\"", diag.LoadDuplicateName},
		{"init type", "[[globals]]\nname = \"g\"\ntype = \"i32\"\ninit = \"i8 1\"", diag.LoadBadOperand},
		{"out of range", "[[constants]]\nname = \"c\"\nvalue = \"i8 256\"", diag.LoadBadOperand},
		{"self reference", "[[constants]]\nname = \"c\"\nkind = \"binary\"\nop = \"add\"\nlhs = \"i32 $c\"\nrhs = \"i32 1\"", diag.LoadBadOperand},
		{"unknown constant", "[[constants]]\nname = \"c\"\nvalue = \"i32 $d\"", diag.LoadUnknownSymbol},
		{"array length", "[[constants]]\nname = \"c\"\nkind = \"array\"\ntype = \"[2 x i8]\"\nelems = [\"i8 1\"]", diag.LoadBadOperand},
		{"undefined value", body(`"%x = add i32 %y, 1"`, "ret i32 %x"), diag.LoadUnknownSymbol},
		{"redefined value", body(`"%a = add i32 1, 1"`, "ret i32 %a"), diag.LoadDuplicateName},
		{"unknown instruction", body(`"%x = frob i32 %a"`, "ret i32 %a"), diag.LoadBadInstruction},
		{"missing result", body(`"add i32 %a, 1"`, "ret i32 %a"), diag.LoadBadInstruction},
		{"unknown block", body("", "br label %nowhere"), diag.LoadUnknownSymbol},
		{"ret type", body("", "ret i8 1"), diag.LoadBadOperand},
		{"no terminator", body("", ""), diag.LoadBadInstruction},
		{"gep struct index", "[[globals]]\nname = \"g\"\ntype = \"{ i8, i32 }\"\n" + body(`"%p = gep { i8, i32 }* @g, i32 0, i32 %a"`, "ret i32 %a"), diag.LoadBadOperand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad.toml", []byte(tc.src))
			var lerr *LoadError
			if !errors.As(err, &lerr) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if lerr.Code != tc.code {
				t.Fatalf("code = %s, want %s (%v)", lerr.Code.ID(), tc.code.ID(), lerr)
			}
			if !strings.HasPrefix(lerr.Error(), "bad.toml: ") {
				t.Fatalf("error %q lacks path", lerr.Error())
			}
		})
	}
}
