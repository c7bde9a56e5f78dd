// Package diag defines the diagnostic model shared by every wingstl stage.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable ID such as
//     INP1101 or GEO2005. The numeric range determines the Category.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – a source.Span into a loaded .dat or wingstl.toml file, or
//     source.NoSpan for flag and geometry findings.
//   - Notes – optional secondary spans/messages.
//   - Hint – optional one-line suggestion (usually which flag to change).
//
// # Errors
//
// Stages return *Error values that carry a Diagnostic. errors.Is matches the
// category sentinels ErrInputFormat, ErrGeometry, ErrResource and ErrInternal,
// which the CLI maps to exit codes.
//
// # Emitting diagnostics
//
// Parsers report through a Reporter so that several findings can be collected
// in a Bag before the first error aborts the run. ReportBuilder.Err both emits
// and returns the *Error in one call.
//
// Rendering lives in internal/diagfmt.
package diag
