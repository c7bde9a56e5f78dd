package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wingstl/internal/diag"
	"wingstl/internal/wing"
)

// Template returns the manifest written by `wingstl init`, filled with defaults.
func Template(name string) string {
	d := wing.DefaultParams()
	spacing := "cosine"
	if !d.CosineSpacing {
		spacing = "linear"
	}
	return fmt.Sprintf(`# wingstl manifest
# Values here apply when the matching flag is not given on the command line.

[wing]
airfoil = "2412"          # NACA 4-digit code or path to a .dat file
semi_span = 6.0
root_chord = 1.0
sweep_leading = %.1f
sweep_trailing = %.1f
chord_points = %d
span_stations = %d
spacing = %q          # cosine|linear
trailing_edge = "closed"  # closed|open
units = %q

[output]
path = "%s.stl"
format = "ascii"          # ascii|binary
`, d.SweepLeading, d.SweepTrailing, d.ChordPoints, d.SpanStations, spacing, d.Units.String(), name)
}

// WriteTemplate creates dir if needed and writes wingstl.toml into it.
// An existing manifest is never overwritten.
func WriteTemplate(dir string) (string, error) {
	if st, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to stat %s", dir))
		}
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return "", diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("failed to create directory %q", dir))
		}
	} else if !st.IsDir() {
		return "", diag.Errorf(diag.IOWriteFileError, "%q is not a directory", dir)
	}

	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", diag.Errorf(diag.IOWriteFileError, "already initialized: %s exists", path)
	}

	name := filepath.Base(dir)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "wing"
	}
	if err := os.WriteFile(path, []byte(Template(name)), 0o644); err != nil {
		return "", diag.Wrap(diag.IOWriteFileError, err, "failed to write manifest")
	}
	return path, nil
}
