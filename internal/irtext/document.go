package irtext

// document mirrors the TOML layout of a module file:
//
//	name = "demo"
//	datalayout = "e-m:e-i64:64-f80:128-n8:16:32:64-S128"
//
//	[types]
//	S = "{ i8, [4 x i32], { i16, double } }"
//
//	[[globals]]
//	name = "g"
//	type = "%S"
//	init = "%S zeroinitializer"
//
//	[[constants]]
//	name = "table"
//	kind = "array"
//	type = "[2 x i32]"
//	elems = ["i32 1", "i32 2"]
//
//	[[functions]]
//	name = "main"
//	type = "i32 (i64)"
//	params = ["n"]
//
//	[[functions.blocks]]
//	name = "entry"
//	instrs = ["%p = gep %S* @g, i32 0, i32 1, i64 %n"]
//	term = "ret i32 0"
type document struct {
	Name       string            `toml:"name"`
	DataLayout string            `toml:"datalayout"`
	Types      map[string]string `toml:"types"`
	Globals    []globalDecl      `toml:"globals"`
	Constants  []constDecl       `toml:"constants"`
	Functions  []funcDecl        `toml:"functions"`
}

type globalDecl struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Init     string `toml:"init"`
	Constant bool   `toml:"constant"`
}

// constDecl is a named constant. Kind selects which fields are read:
//
//	"" / "value"          value (an operand, e.g. "i32 5")
//	"struct" "array" "vector"  type, elems
//	"binary"              op, lhs, rhs
//	"cast"                op, operand, type (the target type)
//	"icmp" "fcmp"         op (the predicate), lhs, rhs
//	"gep"                 base, indices, inbounds, type (optional)
//	"blockaddress"        function, block
//	"metadata"            metadata
type constDecl struct {
	Name     string   `toml:"name"`
	Kind     string   `toml:"kind"`
	Type     string   `toml:"type"`
	Value    string   `toml:"value"`
	Elems    []string `toml:"elems"`
	Op       string   `toml:"op"`
	LHS      string   `toml:"lhs"`
	RHS      string   `toml:"rhs"`
	Operand  string   `toml:"operand"`
	Base     string   `toml:"base"`
	Indices  []string `toml:"indices"`
	InBounds bool     `toml:"inbounds"`
	Function string   `toml:"function"`
	Block    string   `toml:"block"`
	Metadata int64    `toml:"metadata"`
}

type funcDecl struct {
	Name   string      `toml:"name"`
	Type   string      `toml:"type"`
	Params []string    `toml:"params"`
	Blocks []blockDecl `toml:"blocks"`
}

type blockDecl struct {
	Name   string   `toml:"name"`
	Instrs []string `toml:"instrs"`
	Term   string   `toml:"term"`
}
