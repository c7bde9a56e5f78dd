package project

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"wingstl/internal/diag"
	"wingstl/internal/units"
	"wingstl/internal/wing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func noFlags(string) bool { return false }

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[wing]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "glider")
	path, err := WriteTemplate(dir)
	if err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	p := wing.DefaultParams()
	if err := m.ApplyTo(&p, noFlags); err != nil {
		t.Fatal(err)
	}
	if err := p.CheckInputs(); err != nil {
		t.Fatalf("template params invalid: %v", err)
	}
	if p.Airfoil != "2412" || p.SemiSpan != 6 || p.RootChord != 1 {
		t.Fatalf("unexpected params %+v", p)
	}
	if got := m.OutputPath("wing.stl", noFlags); got != filepath.Join(dir, "glider.stl") {
		t.Fatalf("output path = %s", got)
	}
	if _, err := WriteTemplate(dir); !errors.Is(err, diag.ErrResource) {
		t.Fatalf("second init must fail, got %v", err)
	}
}

func TestFlagsOverrideManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[wing]
airfoil = "0012"
semi_span = 4
root_chord = 0.5
chord_points = 40
units = "mm"
trailing_edge = "open"
spacing = "linear"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	p := wing.DefaultParams()
	p.SemiSpan = 9
	p.Units = units.Feet
	changed := func(flag string) bool { return flag == FlagSemiSpan || flag == FlagUnits }
	if err := m.ApplyTo(&p, changed); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		ok   bool
	}{
		{"flag semi span kept", p.SemiSpan == 9},
		{"flag units kept", p.Units == units.Feet},
		{"manifest airfoil", p.Airfoil == "0012"},
		{"manifest chord", p.RootChord == 0.5},
		{"manifest chord points", p.ChordPoints == 40},
		{"manifest open te", p.OpenTrailingEdge},
		{"manifest spacing", !p.CosineSpacing},
		{"default stations", p.SpanStations == wing.DefaultStations},
	}
	for _, tt := range tests {
		if !tt.ok {
			t.Errorf("%s: params %+v", tt.name, p)
		}
	}
}

func TestNilManifestLeavesDefaults(t *testing.T) {
	var m *Manifest
	p := wing.DefaultParams()
	if err := m.ApplyTo(&p, noFlags); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(p.SemiSpan) {
		t.Fatalf("semi span = %g", p.SemiSpan)
	}
	if got := m.OutputFormat("ascii", noFlags); got != "ascii" {
		t.Fatalf("format = %s", got)
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code diag.Code
	}{
		{"unknown key", "[wing]\nwingspan = 3\n", diag.ManifestUnknownKey},
		{"unknown section", "[tail]\nx = 1\n", diag.ManifestUnknownKey},
		{"syntax", "[wing\n", diag.ManifestInvalid},
		{"wrong type", "[wing]\nchord_points = \"many\"\n", diag.ManifestInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, t.TempDir(), tt.body))
			d, ok := diag.AsDiagnostic(err)
			if !ok || d.Code != tt.code {
				t.Fatalf("err = %v, want %s", err, tt.code.ID())
			}
			if !errors.Is(err, diag.ErrInputFormat) {
				t.Fatalf("not an input format error: %v", err)
			}
		})
	}
}

func TestManifestBadEnum(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, t.TempDir(), "[wing]\nunits = \"parsec\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	p := wing.DefaultParams()
	err = m.ApplyTo(&p, noFlags)
	if d, ok := diag.AsDiagnostic(err); !ok || d.Code != diag.ManifestInvalid {
		t.Fatalf("err = %v", err)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := Sum([]byte("a")), Sum([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("combine must be deterministic")
	}
	if len(a.String()) != 64 || a.IsZero() {
		t.Fatalf("digest %s", a)
	}
}
