package main

import (
	"errors"
	"fmt"
	"io"

	"wingstl/internal/diag"
	"wingstl/internal/diagfmt"
	"wingstl/internal/source"
)

// Exit codes by error category.
const (
	exitOK          = 0
	exitCLI         = 1
	exitInputFormat = 2
	exitGeometry    = 3
	exitResource    = 4
	exitInternal    = 5
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, diag.ErrInputFormat):
		return exitInputFormat
	case errors.Is(err, diag.ErrGeometry):
		return exitGeometry
	case errors.Is(err, diag.ErrResource):
		return exitResource
	case errors.Is(err, diag.ErrInternal):
		return exitInternal
	default:
		return exitCLI
	}
}

func newFlagError(msg string) error {
	return diag.Errorf(diag.FlagInvalidValue, "%s", msg)
}

// shortDiagnostics switches rendering to one line per diagnostic (--quiet).
var shortDiagnostics bool

// renderedError marks an error whose diagnostics were already printed.
type renderedError struct{ err error }

func (e renderedError) Error() string { return e.err.Error() }
func (e renderedError) Unwrap() error { return e.err }

// renderDiagnostics prints the diagnostics collected in bag, or the one carried
// by err when the bag is empty, and marks err as rendered.
func renderDiagnostics(w io.Writer, err error, bag *diag.Bag, fs *source.FileSet, useColor bool) error {
	if err == nil {
		return nil
	}
	if bag == nil {
		bag = diag.NewBag(16)
	}
	if bag.Len() == 0 {
		d, ok := diag.AsDiagnostic(err)
		if !ok {
			return err
		}
		bag.Add(d)
	}
	bag.Dedup()
	bag.Sort()
	if errors.Is(err, diag.ErrInternal) {
		fmt.Fprintln(w, "internal error, please report:")
	}
	if shortDiagnostics {
		fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, false))
		return renderedError{err}
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   1,
		ShowNotes: true,
		ShowHints: true,
	})
	return renderedError{err}
}

// renderWarnings prints non-fatal diagnostics left in bag after a successful run.
func renderWarnings(w io.Writer, bag *diag.Bag, fs *source.FileSet, useColor bool) {
	if bag == nil || !bag.HasWarnings() {
		return
	}
	bag.Dedup()
	bag.Sort()
	if shortDiagnostics {
		fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, false))
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: useColor, ShowHints: true})
}

// reportError prints err unless a command already rendered it.
func reportError(w io.Writer, err error) {
	var re renderedError
	if errors.As(err, &re) {
		return
	}
	if _, ok := diag.AsDiagnostic(err); ok {
		_ = renderDiagnostics(w, err, nil, nil, usesColor())
		return
	}
	fmt.Fprintf(w, "wingstl: %v\n", err)
}
