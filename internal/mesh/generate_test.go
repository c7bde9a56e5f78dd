package mesh_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"wingstl/internal/airfoil"
	"wingstl/internal/diag"
	"wingstl/internal/mesh"
	"wingstl/internal/source"
	"wingstl/internal/testkit"
	"wingstl/internal/units"
	"wingstl/internal/wing"
)

func naca(t *testing.T, code string, closed bool) airfoil.Section {
	t.Helper()
	d, err := airfoil.ParseCode(code)
	if err != nil {
		t.Fatal(err)
	}
	sec, err := airfoil.NewNACA4(d, closed)
	if err != nil {
		t.Fatal(err)
	}
	return sec
}

func planform(t *testing.T, mutate func(*wing.Params)) *wing.Planform {
	t.Helper()
	p := wing.DefaultParams()
	p.Airfoil = "2412"
	p.SemiSpan = 6
	p.RootChord = 1
	if mutate != nil {
		mutate(&p)
	}
	pl, err := wing.NewPlanform(p)
	if err != nil {
		t.Fatal(err)
	}
	return pl
}

func TestClosedFormCounts(t *testing.T) {
	if got := mesh.VertexCount(20, 2, true); got != 76 {
		t.Fatalf("VertexCount(20, 2, closed) = %d", got)
	}
	if got := mesh.TriangleCount(20, 2, true); got != 148 {
		t.Fatalf("TriangleCount(20, 2, closed) = %d", got)
	}
	if got := mesh.VertexCount(20, 2, false); got != 78 {
		t.Fatalf("VertexCount(20, 2, open) = %d", got)
	}
	if got := mesh.TriangleCount(20, 2, false); got != 152 {
		t.Fatalf("TriangleCount(20, 2, open) = %d", got)
	}
}

func TestGenerateCountsAndInvariants(t *testing.T) {
	for _, closed := range []bool{true, false} {
		for _, stations := range []int{2, 3, 7} {
			for _, rows := range []int{20, 21, 64} {
				pl := planform(t, func(p *wing.Params) {
					p.ChordPoints = rows
					p.SpanStations = stations
					p.SweepLeading = 80
					p.SweepTrailing = 95
					p.SemiSpan = 3
				})
				m, err := mesh.Generate(context.Background(), naca(t, "2412", closed), pl, mesh.Options{})
				if err != nil {
					t.Fatalf("rows=%d stations=%d closed=%v: %v", rows, stations, closed, err)
				}
				if err := testkit.CheckMeshInvariants(m, rows, stations); err != nil {
					t.Fatalf("rows=%d stations=%d closed=%v: %v", rows, stations, closed, err)
				}
			}
		}
	}
}

func TestConcreteCase(t *testing.T) {
	pl := planform(t, func(p *wing.Params) { p.ChordPoints = 20 })
	m, err := mesh.Generate(context.Background(), naca(t, "2412", true), pl, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 76 || len(m.Triangles) != 148 {
		t.Fatalf("got %v", m)
	}
	for k, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.Vertices) {
				t.Fatalf("triangle %d index %d out of range", k, idx)
			}
		}
	}
}

func TestUnsweptLeadingEdgeRowIsStraight(t *testing.T) {
	pl := planform(t, func(p *wing.Params) { p.SpanStations = 9 })
	m, err := mesh.Generate(context.Background(), naca(t, "4415", true), pl, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	// upper row 0 occupies the first SpanStations slots
	x0 := m.Vertices[0].X
	for j := 1; j < pl.SpanStations(); j++ {
		if m.Vertices[j].X != x0 {
			t.Fatalf("station %d: leading-edge x %g differs from root %g", j, m.Vertices[j].X, x0)
		}
	}
	if got := m.Vertices[pl.SpanStations()-1].Y; math.Abs(got-6) > 1e-12 {
		t.Fatalf("tip station y = %g", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	pl := planform(t, func(p *wing.Params) {
		p.SpanStations = 41
		p.ChordPoints = 150
		p.SweepLeading = 75
		p.SweepTrailing = 88
		p.SemiSpan = 4
	})
	sec := naca(t, "6409", false)
	seq, err := mesh.Generate(context.Background(), sec, pl, mesh.Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	par, err := mesh.Generate(context.Background(), sec, pl, mesh.Options{Workers: 8})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(seq.Vertices, par.Vertices) || !slices.Equal(seq.Triangles, par.Triangles) {
		t.Fatal("parallel generation differs from sequential")
	}
}

func TestUnitsConvertToMeters(t *testing.T) {
	pl := planform(t, func(p *wing.Params) { p.Units = units.Millimeters; p.SemiSpan = 6000; p.RootChord = 1000 })
	m, err := mesh.Generate(context.Background(), naca(t, "0012", true), pl, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := m.Bounds()
	if math.Abs(hi.Y-6) > 1e-9 || math.Abs(lo.Y) > 1e-12 || math.Abs(hi.X-1) > 1e-6 {
		t.Fatalf("bounds %+v %+v not in meters", lo, hi)
	}
}

func TestSampledSectionMesh(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("wedge.dat", []byte("WEDGE\n1 0\n0.5 -0.05\n0 0\n0.5 0.08\n1 0\n"))
	sec, err := airfoil.ParseDat(fs.Get(id), nil)
	if err != nil {
		t.Fatal(err)
	}
	pl := planform(t, func(p *wing.Params) { p.ChordPoints = 30; p.SpanStations = 4; p.OpenTrailingEdge = true })
	m, err := mesh.Generate(context.Background(), sec, pl, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Closed {
		t.Fatal("closure must come from the section, not the planform flag")
	}
	if err := testkit.CheckMeshInvariants(m, 30, 4); err != nil {
		t.Fatal(err)
	}
}

func TestAllocationLimit(t *testing.T) {
	pl := planform(t, nil)
	_, err := mesh.Generate(context.Background(), naca(t, "2412", true), pl, mesh.Options{MaxVertices: 100})
	if !errors.Is(err, diag.ErrResource) {
		t.Fatalf("err = %v", err)
	}
	if d, _ := diag.AsDiagnostic(err); d.Code != diag.ResAllocation {
		t.Fatalf("code = %s", d.Code.ID())
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pl := planform(t, nil)
	if _, err := mesh.Generate(ctx, naca(t, "2412", true), pl, mesh.Options{Workers: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
