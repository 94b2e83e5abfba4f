package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line in the order given:
//
//	error RES4004 mod:@main:%entry:#12 message
//
// Notes follow their diagnostic as "note" lines when includeNotes is set.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity.Label(), d.Code.ID(), d.Primary, sanitizeMessage(d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s %s", d.Code.ID(), n.At, sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
