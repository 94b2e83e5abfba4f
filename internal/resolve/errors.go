package resolve

import (
	"fmt"

	"llnode/internal/diag"
	"llnode/internal/symbols"
)

// ErrorKind classifies resolution failures. All of them abort the build of
// the enclosing function body; none is retried.
type ErrorKind uint8

const (
	// ErrInvariant is an operator, type or kind combination the resolver has
	// no rule for. It points at malformed input or a coverage gap.
	ErrInvariant ErrorKind = iota + 1
	// ErrUnsupportedSymbol is a symbol variant without a resolution rule.
	ErrUnsupportedSymbol
	// ErrInvalidIndex is an element index that must be constant but is not.
	ErrInvalidIndex
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvariant:
		return "invariant violation"
	case ErrUnsupportedSymbol:
		return "unsupported symbol"
	case ErrInvalidIndex:
		return "invalid index"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error reports a failed resolution.
type Error struct {
	Kind   ErrorKind
	Symbol symbols.SymbolID
	Index  symbols.SymbolID // ErrInvalidIndex: the offending index symbol
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s at symbol#%d", e.Kind, e.Symbol)
	if e.Index.IsValid() {
		msg += fmt.Sprintf(" (index symbol#%d)", e.Index)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Code maps the error to its diagnostic code.
func (e *Error) Code() diag.Code {
	if e == nil {
		return diag.UnknownCode
	}
	switch e.Kind {
	case ErrInvariant:
		return diag.ResolveInvariant
	case ErrUnsupportedSymbol:
		return diag.ResolveUnsupportedSymbol
	case ErrInvalidIndex:
		return diag.ResolveInvalidIndex
	default:
		return diag.UnknownCode
	}
}

func invariant(sym symbols.SymbolID, format string, args ...any) *Error {
	return &Error{Kind: ErrInvariant, Symbol: sym, Detail: fmt.Sprintf(format, args...)}
}
