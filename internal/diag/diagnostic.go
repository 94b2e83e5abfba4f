package diag

import (
	"fmt"
	"strings"
)

// Location points at an entity of a decoded module.
type Location struct {
	Module   string
	Function string
	Block    string
	Symbol   uint32
}

// IsZero reports whether no part of the location is set.
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	if l.IsZero() {
		return "<module>"
	}
	parts := make([]string, 0, 4)
	if l.Module != "" {
		parts = append(parts, l.Module)
	}
	if l.Function != "" {
		parts = append(parts, "@"+l.Function)
	}
	if l.Block != "" {
		parts = append(parts, "%"+l.Block)
	}
	if l.Symbol != 0 {
		parts = append(parts, fmt.Sprintf("#%d", l.Symbol))
	}
	return strings.Join(parts, ":")
}

type Note struct {
	At  Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(at Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{At: at, Msg: msg})
	return d
}
