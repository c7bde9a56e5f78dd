package diag

import (
	"fmt"
	"sort"
	"strings"

	"wingstl/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by --quiet output and golden tests. Diagnostics without a
// source location are printed with "-" in place of path:line:col.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, resolveShort(fs, severityLabel(d.Severity), d.Code.ID(), d.Primary, d.Message))
		if includeNotes {
			for _, n := range d.Notes {
				rendered = append(rendered, resolveShort(fs, "note", d.Code.ID(), n.Span, n.Msg))
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		if d.Path == "-" {
			fmt.Fprintf(&b, "%s %s - %s", d.Severity, d.Code, d.Message)
		} else {
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		}
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func resolveShort(fs *source.FileSet, sev, code string, sp source.Span, msg string) shortDiagnostic {
	out := shortDiagnostic{Severity: sev, Code: code, Path: "-", Message: sanitizeMessage(msg)}
	if fs == nil || !sp.HasFile() {
		return out
	}
	f := fs.Get(sp.File)
	if f == nil {
		return out
	}
	start, _ := fs.Resolve(sp)
	out.Path = f.FormatPath("relative", fs.BaseDir())
	out.Line = start.Line
	out.Column = start.Col
	return out
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
