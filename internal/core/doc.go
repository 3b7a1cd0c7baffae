// Package core implements the row-selection engine: ingest a workbook,
// pick rows, export the picked rows to a new workbook.
//
// This package holds all domain logic independent of any transport. It is
// used by the HTTP API, the CLI and tests without modification.
//
// # Architecture
//
//   - Ingest: decodes the first sheet of an .xlsx or .xls buffer into a
//     [Document] of sparse [Row] maps plus an ordered header list.
//   - Selection: a bounded set of row indices, see [Selection].
//   - Projection: one labelled [Choice] per row for a chosen display field,
//     see [Project].
//   - Export: writes the selected rows to a single-sheet xlsx [Artifact].
//   - Engine: owns one Document, its Selection and display field, and keeps
//     them unchanged when an operation fails.
//   - Service: one Engine per session for HTTP callers, with an ingest
//     limiter and an idle-session sweeper.
//
// # Header Inference
//
// The first row with any value names the columns. Blank header cells are
// named __EMPTY, __EMPTY_1 and so on; repeated names get _1, _2 suffixes.
// Every later non-blank row becomes a Row holding only its non-blank cells.
// The header list is the union of row keys in first-seen order, so a
// column that never holds a value is not part of the Document.
//
//	eng := core.NewEngine(core.DefaultOptions())
//	doc, err := eng.Ingest(buf, "products.xlsx")
//	eng.Toggle(1)
//	art, err := eng.Export()
//
// # Error Handling
//
// Every failure is a [*Error] whose kind is matched with errors.Is against
// the sentinel kinds ([ErrUnsupportedFormat], [ErrDecodeFailure],
// [ErrEmptyDocument], [ErrEmptySelection], [ErrSerializationFailure] and
// the session and read kinds). [MapError] turns any error into a
// [UserMessage] with a support code:
//
//   - FILE001-FILE006: file errors (size, format, decode, empty)
//   - SEL001-SEL003: selection and display field errors
//   - EXP001: export errors
//   - SES001-SES003: session errors
//   - UPL002, UPL004-UPL005, RATE001: load and request errors
package core
