// Package diag defines the diagnostic model shared by every compiler phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the lexer, the indentation layer, the parser and the compiler passes.
//   - Offer light-weight utilities (Reporter, Bag, ReportBuilder) that let
//     producers emit diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form (LEX1003).
//   - Message – human oriented text.
//   - File, Range – the compiled file name and a line/character range; lines
//     are 1-based, characters are 0-based byte offsets within the line.
//   - Context – the source text the range points into.
//   - Primary – the raw byte span, kept for renderers that need offsets.
//
// Package diag performs no IO. Rendering lives in internal/diagfmt.
package diag
