package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"wingstl/internal/airfoil"
	"wingstl/internal/diag"
	"wingstl/internal/units"
	"wingstl/internal/wing"
)

// Manifest is a decoded wingstl.toml. Nil fields were not set in the file.
type Manifest struct {
	Path   string
	Wing   WingConfig   `toml:"wing"`
	Output OutputConfig `toml:"output"`
}

type WingConfig struct {
	Airfoil       *string  `toml:"airfoil"`
	SemiSpan      *float64 `toml:"semi_span"`
	RootChord     *float64 `toml:"root_chord"`
	SweepLeading  *float64 `toml:"sweep_leading"`
	SweepTrailing *float64 `toml:"sweep_trailing"`
	ChordPoints   *int     `toml:"chord_points"`
	SpanStations  *int     `toml:"span_stations"`
	Spacing       *string  `toml:"spacing"`
	TrailingEdge  *string  `toml:"trailing_edge"`
	Units         *string  `toml:"units"`
}

type OutputConfig struct {
	Path   *string `toml:"path"`
	Format *string `toml:"format"`
}

// LoadManifest decodes path. Keys the schema does not know are rejected.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Path: path}
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, diag.Wrap(diag.IOLoadFileError, err, fmt.Sprintf("unable to read %s", path))
		}
		return nil, diag.Wrap(diag.ManifestInvalid, err, fmt.Sprintf("%s: failed to parse TOML", path))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, diag.Errorf(diag.ManifestUnknownKey, "%s: unknown key %q", path, keys[0]).
			WithHint("known sections are [wing] and [output]; unknown: " + strings.Join(keys, ", "))
	}
	return m, nil
}

// Discover loads the manifest named by explicit, or the nearest wingstl.toml
// above startDir. ok is false when neither exists.
func Discover(explicit, startDir string) (m *Manifest, ok bool, err error) {
	path := explicit
	if path == "" {
		var found bool
		path, found, err = FindManifest(startDir)
		if err != nil {
			return nil, false, diag.Wrap(diag.IOLoadFileError, err, "manifest lookup failed")
		}
		if !found {
			return nil, false, nil
		}
	}
	m, err = LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Flag names ApplyTo consults; they match the generate command.
const (
	FlagAirfoil      = "airfoil"
	FlagSemiSpan     = "semi-span"
	FlagRootChord    = "root-chord"
	FlagSweepLE      = "sweep-le"
	FlagSweepTE      = "sweep-te"
	FlagChordPoints  = "chord-points"
	FlagSpanStations = "span-stations"
	FlagSpacing      = "spacing"
	FlagOpenTE       = "open-te"
	FlagUnits        = "units"
	FlagOutput       = "output"
	FlagFormat       = "format"
)

// ApplyTo copies manifest values into p for every flag the user did not set.
// A nil manifest leaves p unchanged.
func (m *Manifest) ApplyTo(p *wing.Params, changed func(flag string) bool) error {
	if m == nil {
		return nil
	}
	w := m.Wing
	take := func(flag string, set bool) bool { return set && !changed(flag) }

	if take(FlagAirfoil, w.Airfoil != nil) {
		p.Airfoil = m.resolveAirfoil(*w.Airfoil)
	}
	if take(FlagSemiSpan, w.SemiSpan != nil) {
		p.SemiSpan = *w.SemiSpan
	}
	if take(FlagRootChord, w.RootChord != nil) {
		p.RootChord = *w.RootChord
	}
	if take(FlagSweepLE, w.SweepLeading != nil) {
		p.SweepLeading = *w.SweepLeading
	}
	if take(FlagSweepTE, w.SweepTrailing != nil) {
		p.SweepTrailing = *w.SweepTrailing
	}
	if take(FlagChordPoints, w.ChordPoints != nil) {
		p.ChordPoints = *w.ChordPoints
	}
	if take(FlagSpanStations, w.SpanStations != nil) {
		p.SpanStations = *w.SpanStations
	}
	if take(FlagSpacing, w.Spacing != nil) {
		cosine, err := ParseSpacing(*w.Spacing)
		if err != nil {
			return m.invalid("spacing", *w.Spacing, "cosine|linear")
		}
		p.CosineSpacing = cosine
	}
	if take(FlagOpenTE, w.TrailingEdge != nil) {
		switch strings.ToLower(*w.TrailingEdge) {
		case "closed":
			p.OpenTrailingEdge = false
		case "open":
			p.OpenTrailingEdge = true
		default:
			return m.invalid("trailing_edge", *w.TrailingEdge, "closed|open")
		}
	}
	if take(FlagUnits, w.Units != nil) {
		u, err := units.Parse(*w.Units)
		if err != nil {
			return m.invalid("units", *w.Units, units.Names())
		}
		p.Units = u
	}
	return nil
}

// OutputPath returns the manifest output path when the flag was not set.
// Relative paths are resolved against the manifest directory.
func (m *Manifest) OutputPath(current string, changed func(flag string) bool) string {
	if m == nil || m.Output.Path == nil || changed(FlagOutput) {
		return current
	}
	return m.relative(*m.Output.Path)
}

// OutputFormat mirrors OutputPath for the STL encoding.
func (m *Manifest) OutputFormat(current string, changed func(flag string) bool) string {
	if m == nil || m.Output.Format == nil || changed(FlagFormat) {
		return current
	}
	return *m.Output.Format
}

func (m *Manifest) resolveAirfoil(v string) string {
	if !airfoil.LooksLikeFile(v) {
		return v
	}
	return m.relative(v)
}

func (m *Manifest) relative(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(p))
}

func (m *Manifest) invalid(key, got, want string) error {
	return diag.Errorf(diag.ManifestInvalid, "%s: [wing].%s must be one of %s, got %q", m.Path, key, want, got)
}

// ParseSpacing maps "cosine"/"linear" onto the cosine flag.
func ParseSpacing(s string) (cosine bool, err error) {
	switch strings.ToLower(s) {
	case "cosine", "":
		return true, nil
	case "linear":
		return false, nil
	}
	return false, diag.Errorf(diag.FlagInvalidValue,
		"valid options for chordwise spacing (flag '--spacing') are 'cosine' or 'linear', got %q", s)
}
