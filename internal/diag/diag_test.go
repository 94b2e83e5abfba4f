package diag

import (
	"testing"
)

func TestBagLimitAndMerge(t *testing.T) {
	a := NewBag(1)
	if !a.Add(NewError(ResolveInvariant, Location{Function: "f"}, "first")) {
		t.Fatalf("first add must succeed")
	}
	if a.Add(NewError(ResolveInvariant, Location{Function: "f"}, "second")) {
		t.Fatalf("limit must reject second add")
	}
	b := NewBag(4)
	b.Add(New(SevInfo, ResolvePrecisionLoss, Location{Function: "g"}, "narrowed"))
	b.Add(New(SevWarning, LoadBadOperand, Location{Function: "g"}, "odd"))
	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("merge: len=%d cap=%d", a.Len(), a.Cap())
	}
	if !a.HasErrors() || !a.HasWarnings() {
		t.Fatalf("severity queries wrong")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevInfo, ResolvePrecisionLoss, Location{Function: "b", Symbol: 3}, "narrowed"))
	bag.Add(NewError(ResolveInvariant, Location{Function: "a", Symbol: 9}, "broken"))
	bag.Add(New(SevInfo, ResolvePrecisionLoss, Location{Function: "b", Symbol: 3}, "narrowed"))
	bag.Add(NewError(ResolveInvalidIndex, Location{Function: "a", Symbol: 9}, "index"))
	bag.Dedup()
	bag.Sort()

	want := "error RES4003 @a:#9 index\n" +
		"error RES4004 @a:#9 broken\n" +
		"info RES4001 @b:#3 narrowed"
	if got := FormatShort(bag.Items(), false); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(5)
	rb := ReportInfo(BagReporter{Bag: bag}, ResolvePrecisionLoss, Location{Module: "m", Function: "f", Block: "entry"}, "line one\nline two").
		WithNote(Location{Module: "m", Symbol: 4}, "constant here")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	want := "info RES4001 m:@f:%entry line one line two\nnote RES4001 m:#4 constant here"
	if got := FormatShort(bag.Items(), true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(5)
	r := NewDedupReporter(NewLockedReporter(BagReporter{Bag: bag}))
	for range 3 {
		r.Report(ResolvePrecisionLoss, SevInfo, Location{Symbol: 1}, "narrowed", nil)
	}
	r.Report(ResolvePrecisionLoss, SevInfo, Location{Symbol: 2}, "narrowed", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LoadBadType:          "LOD1003",
		LayoutInvalidType:    "LAY2003",
		ResolvePrecisionLoss: "RES4001",
		ProjBadManifest:      "PRJ5001",
		ObsTimings:           "OBS6001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
	}
	if Code(4999).Title() != "Unknown error" {
		t.Fatalf("unknown code title")
	}
}
