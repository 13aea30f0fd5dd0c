// Package diag defines the diagnostic model shared by the parser, the
// formatter and the driver.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while
//     classifying and building diagram statements.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//
// Package diag does no IO and no rendering. Pretty and JSON output live in
// internal/diagfmt; the driver decides which diagnostics end the run.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at.
//   - Notes – optional secondary spans with extra context.
//   - Fixes – optional text edits a tool may apply.
//
// Producers normally go through a Reporter; BagReporter collects into a Bag
// which supports sorting, deduplication and limits.
package diag
