package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"llnode/internal/diag"
)

// Pretty печатает диагностики в человекочитаемом виде:
//
//	error[RES4004]: message
//	  --> demo:@main:%entry:#12
//	  = note: demo:@main detail
//
// Порядок берётся из bag.Items(), сортировку делает вызывающий.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	paint := newPalette(opts.Color)
	var b strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		sev := paint.severity(d.Severity)
		fmt.Fprintf(&b, "%s%s %s\n", sev.Sprint(d.Severity.Label()), sev.Sprintf("[%s]:", d.Code.ID()), paint.message.Sprint(oneLine(d.Message)))
		fmt.Fprintf(&b, "  %s %s\n", paint.arrow.Sprint("-->"), d.Primary)
		if opts.ShowTitle {
			fmt.Fprintf(&b, "  %s %s\n", paint.arrow.Sprint("="), d.Code.Title())
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s %s %s\n", paint.note.Sprint("= note:"), n.At, oneLine(n.Msg))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type palette struct {
	err, warn, info *color.Color
	message         *color.Color
	arrow           *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		message: color.New(color.Bold),
		arrow:   color.New(color.FgBlue, color.Bold),
		note:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.message, p.arrow, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
