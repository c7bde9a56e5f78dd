package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wingstl/internal/airfoil"
	"wingstl/internal/diag"
	"wingstl/internal/diagfmt"
	"wingstl/internal/source"
)

type inspectPayload struct {
	Path       string          `json:"path"`
	Label      string          `json:"label"`
	Dialect    string          `json:"dialect"`
	Points     int             `json:"points"`
	SplitIndex int             `json:"split_index"`
	Closed     bool            `json:"closed_trailing_edge"`
	Coords     []airfoil.Point `json:"coordinates,omitempty"`
}

// sampledSection is implemented by the digitized section variants.
type sampledSection interface {
	airfoil.Section
	Points() []airfoil.Point
	SplitIndex() int
}

func newInspectCmd() *cobra.Command {
	var (
		format     string
		showPoints bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <file.dat>",
		Short: "Parse a digitized airfoil and describe it",
		Long: `Parse a Selig or Lednicer airfoil file, report every problem found and,
when it is valid, print its label, layout and normalized points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "pretty" && format != "json" {
				return flagValueError("--format", format, "pretty|json")
			}
			return runInspect(cmd, args[0], format == "json", showPoints)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&showPoints, "points", false, "list the normalized points")
	return cmd
}

func runInspect(cmd *cobra.Command, path string, asJSON, showPoints bool) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fs := source.NewFileSet()
	bag := diag.NewBag(100)
	sec, err := airfoil.Load(fs, path, diag.BagReporter{Bag: bag})

	if err != nil {
		if !asJSON {
			return renderDiagnostics(errOut, err, bag, fs, usesColor())
		}
		if bag.Len() == 0 {
			if d, ok := diag.AsDiagnostic(err); ok {
				bag.Add(d)
			}
		}
		bag.Sort()
		if jerr := diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}); jerr != nil {
			return jerr
		}
		return renderedError{err}
	}
	if bag.Len() > 0 && !asJSON {
		bag.Sort()
		diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{Color: usesColor(), ShowNotes: true, ShowHints: true})
	}

	payload := inspectPayload{
		Path:    path,
		Label:   sec.Label(),
		Dialect: sec.Dialect().String(),
		Closed:  sec.ClosedTrailingEdge(),
	}
	if s, ok := sec.(sampledSection); ok {
		pts := s.Points()
		payload.Points = len(pts)
		payload.SplitIndex = s.SplitIndex()
		if showPoints {
			payload.Coords = pts
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return writeInspectText(out, payload)
}

func writeInspectText(w io.Writer, p inspectPayload) error {
	te := "open"
	if p.Closed {
		te = "closed"
	}
	_, err := fmt.Fprintf(w, "%s\n  label:          %s\n  dialect:        %s\n  points:         %d\n  split index:    %d\n  trailing edge:  %s\n",
		p.Path, p.Label, p.Dialect, p.Points, p.SplitIndex, te)
	if err != nil {
		return err
	}
	for i, pt := range p.Coords {
		if _, err := fmt.Fprintf(w, "  %4d  % .6f  % .6f\n", i, pt.X, pt.Y); err != nil {
			return err
		}
	}
	return nil
}
