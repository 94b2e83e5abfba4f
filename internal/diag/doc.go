// Package diag defines the diagnostic model shared by the loader, the
// resolver and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the Location (module, function, block, symbol) the finding
//     is about. Decoded IR has no source text, so locations name IR
//     entities instead of byte spans.
//   - Notes – optional secondary locations with extra context.
//
// # Emitting diagnostics
//
// Producers use a Reporter to decouple emission from storage. Build a
// ReportBuilder via NewReportBuilder (or ReportError/ReportWarning/ReportInfo),
// chain WithNote and call Emit. BagReporter collects into a Bag, which
// supports limits, sorting, deduplication and merging of per-function bags.
//
// Package diag performs no IO; rendering lives in the CLI.
package diag
