package diag

import (
	"wingstl/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	// Hint is an actionable suggestion, e.g. which flag to adjust.
	Hint string
}
