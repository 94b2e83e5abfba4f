// Package trace records what the driver and the resolver are doing.
//
// # Usage
//
//	llnode resolve --trace=- --trace-level=detail module.toml
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: last N events in memory, dumped when a build fails
//   - MultiTracer: fan-out to several tracers
//
// # Levels and scopes
//
// Levels (off, error, phase, detail, debug) select which scopes are written:
// phase keeps build and pass events, detail adds one span per function
// body, debug adds symbol-level points emitted by the resolver (GEP folding,
// precision loss).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "lower", parentID)
//	defer span.End("")
package trace
