// Package mesh turns an airfoil section swept along a planform into a closed,
// outward-wound triangle mesh.
package mesh

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"wingstl/internal/airfoil"
	"wingstl/internal/diag"
	"wingstl/internal/trace"
	"wingstl/internal/wing"
)

const (
	DefaultMaxVertices  = 1 << 20
	DefaultMaxTriangles = 1 << 21
)

// Options tunes generation. The zero value is valid.
type Options struct {
	// Workers bounds concurrent station columns; 0 means GOMAXPROCS, 1 is sequential.
	Workers      int
	MaxVertices  int
	MaxTriangles int
	// OnColumn, if set, is called once per finished station from worker goroutines.
	OnColumn func(station, total int)
}

// Mesh is the generated surface.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
	Closed    bool
}

// Generate builds the vertex grid column by column, then stitches indices in a
// fixed order. The result is identical for any worker count.
func Generate(ctx context.Context, sec airfoil.Section, pl *wing.Planform, opts Options) (*Mesh, error) {
	rows, cols := pl.ChordPoints(), pl.SpanStations()
	closed := sec.ClosedTrailingEdge()

	maxV, maxT := opts.MaxVertices, opts.MaxTriangles
	if maxV <= 0 {
		maxV = DefaultMaxVertices
	}
	if maxT <= 0 {
		maxT = DefaultMaxTriangles
	}
	nv, nt := VertexCount(rows, cols, closed), TriangleCount(rows, cols, closed)
	if nv > maxV || nt > maxT {
		return nil, diag.Errorf(diag.ResAllocation,
			"mesh needs %d vertices and %d triangles, limits are %d and %d", nv, nt, maxV, maxT).
			WithHint("reduce '-p/--chord-points' or '-n/--span-stations'")
	}

	g := newGrid(rows, cols, closed)
	if err := fillColumns(ctx, g, sec, pl, opts); err != nil {
		return nil, err
	}

	tris := stitch(g)
	trace.Point(ctx, trace.ScopeFacet, "stitch", strconv.Itoa(len(tris))+" triangles")
	if len(tris) != nt {
		return nil, diag.Errorf(diag.InternalTriangleCount,
			"emitted %d triangles, closed form gives %d (rows=%d stations=%d closed=%v)", len(tris), nt, rows, cols, closed)
	}
	if err := checkIndices(tris, len(g.verts)); err != nil {
		return nil, err
	}
	return &Mesh{Vertices: g.verts, Triangles: tris, Closed: closed}, nil
}

func fillColumns(ctx context.Context, g *Grid, sec airfoil.Section, pl *wing.Planform, opts Options) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(workers, g.cols))
	for j := range g.cols {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			_, span := trace.StartSpan(gctx, trace.ScopeColumn, "column:"+strconv.Itoa(j))
			// каждая колонка пишет только свои индексы, мьютекс не нужен
			fillColumn(g, sec, pl, j)
			span.End("")
			if opts.OnColumn != nil {
				opts.OnColumn(j, g.cols)
			}
			return nil
		})
	}
	return eg.Wait()
}

func fillColumn(g *Grid, sec airfoil.Section, pl *wing.Planform, j int) {
	y := pl.SemiSpan() * float64(j) / float64(g.cols-1)
	chord := pl.LocalChord(y)
	le := pl.LeadingEdgeOffset(y)
	u := pl.Units()

	at := func(i int, side airfoil.Side) Vertex {
		xs, zs := sec.Surface(chordFraction(i, g.rows, pl.CosineSpacing()), side)
		return Vertex{
			X: u.ToMeters(xs*chord + le),
			Y: u.ToMeters(y),
			Z: u.ToMeters(zs * chord),
		}
	}

	for i := range g.rows {
		g.set(g.Upper(i, j), at(i, airfoil.Upper))
	}
	for i := 1; i < g.lowerRows(); i++ {
		g.set(g.Lower(i, j), at(i, airfoil.Lower))
	}
}

// chordFraction maps row i onto [0, 1], clustering rows at both edges with cosine spacing.
func chordFraction(i, rows int, cosine bool) float64 {
	xn := float64(i) / float64(rows-1)
	if cosine {
		return (1 - math.Cos(math.Pi*xn)) / 2
	}
	return xn
}

func checkIndices(tris []Triangle, n int) error {
	for k, t := range tris {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return diag.Errorf(diag.InternalIndexRange, "triangle %d references vertex %d of %d", k, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (lo, hi Vertex) {
	if len(m.Vertices) == 0 {
		return Vertex{}, Vertex{}
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = Vertex{min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z)}
		hi = Vertex{max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z)}
	}
	return lo, hi
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh{vertices=%d triangles=%d closed=%v}", len(m.Vertices), len(m.Triangles), m.Closed)
}
