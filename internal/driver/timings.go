package driver

import (
	"encoding/json"
	"fmt"

	"llnode/internal/diag"
	"llnode/internal/observ"
)

type timingPayload struct {
	Kind     string                 `json:"kind"`
	Path     string                 `json:"path,omitempty"`
	TotalMS  float64                `json:"total_ms"`
	Phases   []observ.PhaseReport   `json:"phases"`
	Counters []observ.CounterReport `json:"counters,omitempty"`
}

// AppendTimings adds the timer's report to bag as an info diagnostic whose
// note carries the JSON payload. A full bag grows to take it.
func AppendTimings(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases, Counters: report.Counters}
	if payload.Kind == "" {
		payload.Kind = "build"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, diag.Location{}, msg).WithNote(diag.Location{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
