package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"wingstl/internal/diag"
	"wingstl/internal/source"
)

type palette struct {
	err, warn, info, note, hint, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		hint:   color.New(color.FgGreen),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.hint, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Hint.
// Диагностики без файла печатаются как "wingstl: <SEV> <CODE>: <Message>".
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sevColor := p.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.loc.Sprint(location(d.Primary, fs, opts.PathMode)),
		sevColor.Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)

	writeContext(w, d.Primary, fs, opts.Context, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
			writeContext(w, n.Span, fs, 0, p)
		}
	}
	if opts.ShowHints && d.Hint != "" {
		fmt.Fprintf(w, "  %s %s\n", p.hint.Sprint("hint:"), d.Hint)
	}
}

func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || !sp.HasFile() {
		return "wingstl"
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "wingstl"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode, fs.BaseDir()), start.Line, start.Col)
}

// writeContext prints the primary line with context lines around it and a caret
// underline covering the span on its first line.
func writeContext(w io.Writer, sp source.Span, fs *source.FileSet, context int8, p palette) {
	if fs == nil || !sp.HasFile() {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(context, 0)) // #nosec G115 -- non-negative int8
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, f.LineCount())
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := strings.ReplaceAll(f.GetLine(ln), "\t", " ")
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		underline := 1
		if end.Line == start.Line && end.Col > start.Col {
			underline = int(end.Col - start.Col)
		} else if end.Line > start.Line {
			underline = max(len(text)-int(start.Col)+1, 1)
		}
		pad := strings.Repeat(" ", int(start.Col-1))
		marks := "^" + strings.Repeat("~", underline-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint(marks))
	}
}
