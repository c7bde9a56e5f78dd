package wing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Report is the property listing printed by --verbose and the props command.
type Report struct {
	SemiSpan      float64 `json:"semi_span"`
	RootChord     float64 `json:"root_chord"`
	TipChord      float64 `json:"tip_chord"`
	Airfoil       string  `json:"airfoil"`
	AspectRatio   float64 `json:"aspect_ratio"`
	SurfaceArea   float64 `json:"surface_area"`
	SweepLeading  float64 `json:"sweep_leading_deg"`
	SweepTrailing float64 `json:"sweep_trailing_deg"`
	TrailingEdge  string  `json:"trailing_edge"`
	SpanStations  int     `json:"span_stations"`
	ChordPoints   int     `json:"chord_points"`
	Spacing       string  `json:"spacing"`
	Units         string  `json:"units"`
}

// NewReport collects the planform properties. The airfoil label and closure come
// from the resolved section since sampled files decide their own trailing edge.
func NewReport(pl *Planform, airfoilLabel string, closedTE bool) Report {
	r := Report{
		SemiSpan:      pl.semiSpan,
		RootChord:     pl.rootChord,
		TipChord:      pl.TipChord(),
		Airfoil:       airfoilLabel,
		AspectRatio:   pl.AspectRatio(),
		SurfaceArea:   pl.SurfaceArea(),
		SweepLeading:  pl.sweepLeading,
		SweepTrailing: pl.sweepTrailing,
		TrailingEdge:  "open",
		SpanStations:  pl.stations,
		ChordPoints:   pl.chordPoints,
		Spacing:       "linear",
		Units:         pl.units.String(),
	}
	if closedTE {
		r.TrailingEdge = "closed"
	}
	if pl.cosine {
		r.Spacing = "cosine"
	}
	return r
}

func (r Report) rows() [][2]string {
	return [][2]string{
		{"Semi span length", fmt.Sprintf("%.2f %s", r.SemiSpan, r.Units)},
		{"Root chord length", fmt.Sprintf("%.2f %s", r.RootChord, r.Units)},
		{"Tip chord length", fmt.Sprintf("%.2f %s", r.TipChord, r.Units)},
		{"Airfoil profile", r.Airfoil},
		{"Full wing aspect ratio", fmt.Sprintf("%.2f", r.AspectRatio)},
		{"Full wing surface area", fmt.Sprintf("%.2f sq %s", r.SurfaceArea, r.Units)},
		{"Leading edge sweep angle", fmt.Sprintf("%.2f deg", r.SweepLeading)},
		{"Trailing edge sweep angle", fmt.Sprintf("%.2f deg", r.SweepTrailing)},
		{"Trailing edge configuration", r.TrailingEdge},
		{"Spanwise points", fmt.Sprint(r.SpanStations)},
		{"Chordwise points", fmt.Sprint(r.ChordPoints)},
		{"Chordwise distribution", r.Spacing},
	}
}

// WriteText prints the aligned property table.
func (r Report) WriteText(w io.Writer, useColor bool) error {
	heading := color.New(color.Bold)
	if useColor {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}

	rows := r.rows()
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}

	var b strings.Builder
	b.WriteString(heading.Sprint("Wing properties:"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(row[0]+":", width+1))
		b.WriteString("  ")
		b.WriteString(row[1])
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
