package symbols

import "llnode/internal/types"

// Helpers for the common symbol shapes. They only fill the payload; the
// caller adds the result to a Table.

// Integer builds an integer constant.
func Integer(t types.TypeID, v int64) Symbol {
	return Symbol{Kind: KindInteger, Type: t, Int: IntConst{Value: v}}
}

// BigInteger builds a wide integer constant from its decimal text.
func BigInteger(t types.TypeID, text string) Symbol {
	return Symbol{Kind: KindBigInteger, Type: t, BigInt: BigIntConst{Text: text}}
}

// Null builds a null (all-zero) constant of type t.
func Null(t types.TypeID) Symbol {
	return Symbol{Kind: KindNull, Type: t}
}

// Undef builds an undefined constant of type t.
func Undef(t types.TypeID) Symbol {
	return Symbol{Kind: KindUndef, Type: t}
}

// Aggregate builds a struct, array or vector constant.
func Aggregate(kind Kind, t types.TypeID, elems ...SymbolID) Symbol {
	return Symbol{Kind: kind, Type: t, Aggregate: AggregateConst{Elems: elems}}
}

// GEP builds a getelementptr constant.
func GEP(t types.TypeID, base SymbolID, indices ...SymbolID) Symbol {
	return Symbol{Kind: KindGEP, Type: t, GEP: GEPConst{Base: base, Indices: indices}}
}

// Named builds a local, parameter, global or function reference.
func Named(kind Kind, t types.TypeID, name string) Symbol {
	return Symbol{Kind: kind, Type: t, Name: name}
}
