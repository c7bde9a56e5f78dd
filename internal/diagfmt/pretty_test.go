package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"wingstl/internal/diag"
	"wingstl/internal/source"
)

const clarkY = "CLARK Y AIRFOIL\n1.0 0.0\n0.5 abc\n0.0 0.0\n"

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/wings")
	id := fs.AddVirtual("/home/user/wings/airfoils/clarky.dat", []byte(clarkY))
	f := fs.Get(id)

	bag := diag.NewBag(10)
	line := f.LineSpan(3)
	bag.Add(diag.NewError(diag.DatMalformedLine, source.Span{File: id, Start: line.Start + 4, End: line.End}, "expected a number").
		WithNote(f.LineSpan(1), "header line").
		WithHint("each data line holds two numbers: x y"))
	bag.Add(diag.NewError(diag.GeoTipOverlap, source.NoSpan, "wing tip overlap"))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/wings/airfoils/clarky.dat:3:5"},
		{name: "Relative path", mode: PathModeRelative, contains: "airfoils/clarky.dat:3:5"},
		{name: "Basename only", mode: PathModeBasename, contains: "clarky.dat:3:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR INP1101: expected a number") {
				t.Errorf("missing headline, got:\n%s", output)
			}
			if !strings.Contains(output, "wingstl: ERROR GEO2005: wing tip overlap") {
				t.Errorf("missing fileless diagnostic, got:\n%s", output)
			}
		})
	}
}

func TestPrettyContextAndCaret(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true, ShowHints: true})
	out := buf.String()

	for _, want := range []string{
		"2 | 1.0 0.0\n",
		"3 | 0.5 abc\n",
		"  |     ^~~\n",
		"4 | 0.0 0.0\n",
		"note: clarky.dat:1:1: header line",
		"hint: each data line holds two numbers: x y",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour escapes present with Color=false:\n%s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("unexpected count %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "INP1101" || first.Category != "input format" {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if first.Location == nil || first.Location.File != "airfoils/clarky.dat" || first.Location.StartLine != 3 || first.Location.StartCol != 5 {
		t.Fatalf("unexpected location %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Hint == "" {
		t.Fatalf("notes/hint missing: %+v", first)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatalf("fileless diagnostic should have no location")
	}

	limited := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if limited.Count != 1 {
		t.Fatalf("Max not honoured: %d", limited.Count)
	}
}
