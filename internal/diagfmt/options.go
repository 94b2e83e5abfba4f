package diagfmt

import "fmt"

// Format selects how diagnostics are written.
type Format uint8

const (
	// FormatShort prints one line per diagnostic.
	FormatShort Format = iota
	FormatPretty
	FormatJSON
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "short":
		return FormatShort, nil
	case "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatShort, fmt.Errorf("unknown diagnostics format %q (want short|pretty|json)", s)
}

func (f Format) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "short"
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// ShowTitle adds the code description under each header.
	ShowTitle bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
