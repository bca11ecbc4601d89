// Package core provides the domain logic for the tabular data viewer.
//
// This package holds everything that does not depend on a transport or a
// file format library. Web handlers, the format dispatcher and tests use it
// without modification.
//
// # Concepts
//
//   - Table: rows of string cells, fully replaced on every successful parse.
//   - Content validation: [Validate] checks pasted text looks comma-separated.
//   - Row limit: [CheckRowLimit] rejects tables above the configured maximum.
//   - CSV decoding: [DecodeCSV] is shared by pasted text, uploaded .csv files
//     and the text returned by the PDF conversion service.
//   - Limiter: caps concurrent outbound conversions across all sessions.
//
// # Error Handling
//
// Every failure is a [*Error] carrying a [Kind]. [MapError] turns any error
// into a [UserMessage] with a support code:
//
//   - INP001-INP002: pasted content (empty, not comma-separated)
//   - FILE001-FILE004: file handling (csv decode, read, unsupported, row limit)
//   - CONV001: PDF conversion
//
// Errors never escape the session controller; they become the single
// current message shown next to the input that triggered them.
package core
