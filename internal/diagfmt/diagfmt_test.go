package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"llnode/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ResolveInvariant, diag.Location{Module: "demo", Function: "main", Block: "entry", Symbol: 12}, "xor of double").
		WithNote(diag.Location{Module: "demo", Function: "main"}, "while building\nbody"))
	bag.Add(diag.New(diag.SevInfo, diag.ResolvePrecisionLoss, diag.Location{Module: "demo", Symbol: 3}, "i128 narrowed"))
	return bag
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatShort, "short": FormatShort, "pretty": FormatPretty, "json": FormatJSON} {
		got, err := ParseFormat(in)
		be.Err(t, err, nil)
		be.Equal(t, got, want)
	}
	_, err := ParseFormat("sarif")
	be.True(t, err != nil)
	be.Equal(t, FormatJSON.String(), "json")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	be.Err(t, JSON(&buf, sampleBag(), JSONOpts{IncludeNotes: true}), nil)

	var out DiagnosticsOutput
	be.Err(t, json.Unmarshal(buf.Bytes(), &out), nil)
	be.Equal(t, out.Count, 2)
	be.True(t, !out.Truncated)

	first := out.Diagnostics[0]
	be.Equal(t, first.Severity, "ERROR")
	be.Equal(t, first.Code, "RES4004")
	be.Equal(t, first.Title, "Resolver invariant violated")
	be.Equal(t, first.Location, LocationJSON{Module: "demo", Function: "main", Block: "entry", Symbol: 12})
	be.Equal(t, len(first.Notes), 1)
	be.Equal(t, first.Notes[0].Location.Function, "main")
	be.True(t, !strings.Contains(buf.String(), `"block": ""`))
}

func TestJSONMaxAndNotes(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag(), JSONOpts{Max: 1})
	be.Equal(t, out.Count, 1)
	be.True(t, out.Truncated)
	be.Equal(t, len(out.Diagnostics[0].Notes), 0)

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, diag.Location{Module: "demo"}, "timings").
		WithNote(diag.Location{}, `{"phases":[]}`))
	out = BuildDiagnosticsOutput(bag, JSONOpts{})
	be.Equal(t, out.Diagnostics[0].Notes[0].Message, `{"phases":[]}`)
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	be.Err(t, Pretty(&buf, sampleBag(), PrettyOpts{ShowNotes: true, ShowTitle: true}), nil)
	want := "error[RES4004]: xor of double\n" +
		"  --> demo:@main:%entry:#12\n" +
		"  = Resolver invariant violated\n" +
		"  = note: demo:@main while building body\n" +
		"\n" +
		"info[RES4001]: i128 narrowed\n" +
		"  --> demo:#3\n" +
		"  = Integer constant narrowed to the native word\n"
	be.Equal(t, buf.String(), want)

	buf.Reset()
	be.Err(t, Pretty(&buf, sampleBag(), PrettyOpts{Color: true}), nil)
	be.True(t, strings.Contains(buf.String(), "\x1b["))
	be.True(t, !strings.Contains(buf.String(), "note:"))
}
