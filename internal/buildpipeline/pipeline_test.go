package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"wingstl/internal/diag"
	"wingstl/internal/mesh"
	"wingstl/internal/meshcache"
	"wingstl/internal/stl"
	"wingstl/internal/wing"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) statuses(stage Stage) []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Status
	for _, ev := range r.events {
		if ev.Stage == stage && ev.Done == 0 {
			out = append(out, ev.Status)
		}
	}
	return out
}

func baseParams() wing.Params {
	p := wing.DefaultParams()
	p.Airfoil = "2412"
	p.SemiSpan = 6
	p.RootChord = 1
	p.ChordPoints = 20
	return p
}

func TestGenerateWritesSTL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "wing.stl")
	rec := &recorder{}
	res, err := Generate(context.Background(), &Request{
		Params:     baseParams(),
		OutputPath: out,
		Format:     stl.ASCII,
		Progress:   rec,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Mesh.Vertices) != 76 || len(res.Mesh.Triangles) != 148 {
		t.Fatalf("counts = %d/%d", len(res.Mesh.Vertices), len(res.Mesh.Triangles))
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "endfacet"); got != 148 {
		t.Fatalf("facets = %d", got)
	}
	for _, st := range Stages() {
		if !res.Timings.Has(st) {
			t.Errorf("no timing for %s", st)
		}
		if got := rec.statuses(st); len(got) != 2 || got[1] != StatusDone {
			t.Errorf("%s events = %v", st, got)
		}
	}
}

func TestValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*wing.Params)
		code  diag.Code
		stage Stage
	}{
		{"missing airfoil before bad sweep", func(p *wing.Params) { p.Airfoil = ""; p.SweepLeading = 0 }, diag.FlagMissing, StageInputs},
		{"inputs before bad code", func(p *wing.Params) { p.Airfoil = "24x2"; p.ChordPoints = 5 }, diag.GeoChordPoints, StageInputs},
		{"bad code", func(p *wing.Params) { p.Airfoil = "24x2" }, diag.NacaBadCode, StageLoad},
		{"zero thickness before overlap", func(p *wing.Params) {
			p.Airfoil = "2400"
			p.SweepLeading, p.SweepTrailing = 10, 170
		}, diag.GeoZeroThickness, StageLoad},
		{"tip overlap", func(p *wing.Params) { p.SweepLeading, p.SweepTrailing = 10, 170 }, diag.GeoTipOverlap, StagePlanform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.edit(&p)
			out := filepath.Join(t.TempDir(), "wing.stl")
			rec := &recorder{}
			res, err := Generate(context.Background(), &Request{Params: p, OutputPath: out, Progress: rec})
			d, ok := diag.AsDiagnostic(err)
			if !ok || d.Code != tt.code {
				t.Fatalf("err = %v, want %s", err, tt.code.ID())
			}
			if res.Mesh != nil {
				t.Fatal("mesh generated despite validation failure")
			}
			if got := rec.statuses(tt.stage); len(got) == 0 || got[len(got)-1] != StatusError {
				t.Fatalf("%s events = %v", tt.stage, got)
			}
			if got := rec.statuses(StageMesh); len(got) != 1 || got[0] != StatusSkipped {
				t.Fatalf("mesh events = %v", got)
			}
			if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
				t.Fatal("output file created on failure")
			}
		})
	}
}

func TestDatSection(t *testing.T) {
	dir := t.TempDir()
	dat := filepath.Join(dir, "flat.dat")
	content := "FLAT PLATE\n1 0\n0.5 0.05\n0 0\n0.5 -0.05\n1 0\n"
	if err := os.WriteFile(dat, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	p := baseParams()
	p.Airfoil = dat
	res, err := Prepare(context.Background(), &Request{Params: p})
	if err != nil {
		t.Fatal(err)
	}
	if res.SectionFile == nil || res.Section.Label() != "FLAT PLATE" {
		t.Fatalf("section = %v file = %v", res.Section, res.SectionFile)
	}
	if SectionDigest(res.Section, res.SectionFile).IsZero() {
		t.Fatal("zero digest")
	}
}

func TestCacheHit(t *testing.T) {
	cache, err := meshcache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	req := &Request{Params: baseParams(), Cache: cache, OutputPath: filepath.Join(dir, "a.stl")}
	first, err := Generate(context.Background(), req)
	if err != nil || first.CacheHit {
		t.Fatalf("first run: hit=%v err=%v", first.CacheHit, err)
	}
	req.OutputPath = filepath.Join(dir, "b.stl")
	second, err := Generate(context.Background(), req)
	if err != nil || !second.CacheHit {
		t.Fatalf("second run: hit=%v err=%v", second.CacheHit, err)
	}
	a, _ := os.ReadFile(filepath.Join(dir, "a.stl"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.stl"))
	if strings.Replace(string(a), "solid a", "solid b", -1) != string(b) {
		t.Fatal("cached mesh produced a different STL")
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, &Request{Params: baseParams(), OutputPath: filepath.Join(t.TempDir(), "w.stl")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMeshProgressCountsStations(t *testing.T) {
	p := baseParams()
	p.SpanStations = 7
	var mu sync.Mutex
	var last Event
	sink := FuncSink(func(ev Event) {
		if ev.Stage == StageMesh && ev.Total > 0 {
			mu.Lock()
			if ev.Done > last.Done {
				last = ev
			}
			mu.Unlock()
		}
	})
	if _, err := Generate(context.Background(), &Request{Params: p, Progress: sink, OutputPath: filepath.Join(t.TempDir(), "w.stl")}); err != nil {
		t.Fatal(err)
	}
	if last.Done != 7 || last.Total != 7 {
		t.Fatalf("last mesh event = %+v", last)
	}
}

func TestOpenTrailingEdgeIgnoredForDatWarns(t *testing.T) {
	dir := t.TempDir()
	dat := filepath.Join(dir, "flat.dat")
	if err := os.WriteFile(dat, []byte("FLAT PLATE\n1 0\n0.5 0.05\n0 0\n0.5 -0.05\n1 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		airfoil string
		openTE  bool
		warn    bool
	}{
		{"dat with open te", dat, true, true},
		{"dat closed", dat, false, false},
		{"naca with open te", "2412", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			p.Airfoil = tt.airfoil
			p.OpenTrailingEdge = tt.openTE
			bag := diag.NewBag(8)
			if _, err := Prepare(context.Background(), &Request{Params: p, Reporter: diag.BagReporter{Bag: bag}}); err != nil {
				t.Fatal(err)
			}
			if bag.HasWarnings() != tt.warn {
				t.Fatalf("warnings = %v, want %v", bag.Items(), tt.warn)
			}
			if tt.warn && bag.Items()[0].Code != diag.FlagIgnored {
				t.Fatalf("code = %s", bag.Items()[0].Code.ID())
			}
		})
	}
}

func TestCacheEntryWithWrongCountsIsRegenerated(t *testing.T) {
	cache, err := meshcache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := baseParams()
	prep, err := Prepare(context.Background(), &Request{Params: p})
	if err != nil {
		t.Fatal(err)
	}
	m, err := mesh.Generate(context.Background(), prep.Section, prep.Planform, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	// indices stay in range, only the triangle count is off
	m.Triangles = m.Triangles[:len(m.Triangles)-1]
	key := meshcache.Key(SectionDigest(prep.Section, prep.SectionFile), p)
	if err := cache.Put(key, m); err != nil {
		t.Fatal(err)
	}

	res, err := Generate(context.Background(), &Request{Params: p, Cache: cache, OutputPath: filepath.Join(t.TempDir(), "w.stl")})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || len(res.Mesh.Triangles) != 148 {
		t.Fatalf("hit=%v triangles=%d", res.CacheHit, len(res.Mesh.Triangles))
	}
}
