package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"llnode/internal/types"
)

// Row is one line of a layout table.
type Row struct {
	Name   string
	Layout TypeLayout
	Err    error
}

// maxNameWidth caps the type column; longer names are truncated.
const maxNameWidth = 48

// Rows computes one row per type, keeping errors in place.
func (e *Engine) Rows(names []string, ids []types.TypeID) []Row {
	rows := make([]Row, len(ids))
	for i, id := range ids {
		l, err := e.LayoutOf(id)
		rows[i] = Row{Name: names[i], Layout: l, Err: err}
	}
	return rows
}

// FormatTable renders rows as aligned columns: type, size, align and
// field offsets for structs. Widths are measured in terminal cells so
// names with wide or combining characters line up.
func FormatTable(rows []Row) string {
	width := runewidth.StringWidth("type")
	for _, r := range rows {
		width = max(width, min(runewidth.StringWidth(r.Name), maxNameWidth))
	}

	var sb strings.Builder
	sb.WriteString(pad("type", width))
	sb.WriteString("  size  align  offsets\n")
	for _, r := range rows {
		sb.WriteString(pad(truncate(r.Name, maxNameWidth), width))
		if r.Err != nil {
			fmt.Fprintf(&sb, "  error: %v\n", r.Err)
			continue
		}
		fmt.Fprintf(&sb, "  %4d  %5d", r.Layout.Size, r.Layout.Align)
		if len(r.Layout.FieldOffsets) > 0 {
			offs := make([]string, len(r.Layout.FieldOffsets))
			for i, off := range r.Layout.FieldOffsets {
				offs[i] = fmt.Sprint(off)
			}
			sb.WriteString("  [" + strings.Join(offs, " ") + "]")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}
