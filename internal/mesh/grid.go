package mesh

import "fmt"

// Vertex is a mesh point in meters.
type Vertex struct {
	X, Y, Z float64
}

// Triangle holds three vertex indices wound outward.
type Triangle [3]int

// Grid owns the vertex buffer and maps (row, column) pairs onto it.
//
// The upper half stores rows 0..rows-1 for every column. The lower half stores
// rows 1..rows-1, minus the last row when the trailing edge is closed; the missing
// rows are shared with the upper half.
type Grid struct {
	rows   int
	cols   int
	closed bool
	verts  []Vertex
}

func newGrid(rows, cols int, closed bool) *Grid {
	return &Grid{
		rows:   rows,
		cols:   cols,
		closed: closed,
		verts:  make([]Vertex, VertexCount(rows, cols, closed)),
	}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Columns() int { return g.cols }
func (g *Grid) Closed() bool { return g.closed }

// Upper returns the buffer index of the upper-surface vertex at chordwise row i
// and spanwise column j.
func (g *Grid) Upper(i, j int) int {
	g.check(i, j)
	return i*g.cols + j
}

// Lower returns the buffer index of the lower-surface vertex. Row 0 and, when
// closed, the last row resolve to the shared upper vertex.
func (g *Grid) Lower(i, j int) int {
	g.check(i, j)
	if i == 0 || (g.closed && i == g.rows-1) {
		return i*g.cols + j
	}
	return g.rows*g.cols + (i-1)*g.cols + j
}

// lowerRows is the exclusive upper bound of rows stored in the lower half.
func (g *Grid) lowerRows() int {
	if g.closed {
		return g.rows - 1
	}
	return g.rows
}

func (g *Grid) set(idx int, v Vertex) {
	g.verts[idx] = v
}

func (g *Grid) check(i, j int) {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic(fmt.Sprintf("mesh: grid index (%d, %d) outside %dx%d", i, j, g.rows, g.cols))
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// VertexCount is stations*(2*rows - closed - 1).
func VertexCount(rows, cols int, closed bool) int {
	return cols * (2*rows - b2i(closed) - 1)
}

// TriangleCount is the closed form for surfaces, both walls and the optional aft cap.
func TriangleCount(rows, cols int, closed bool) int {
	c := b2i(closed)
	return 2*((rows-1)*(cols-1)*2+(2*rows-c-3)) + (1-c)*(cols-1)*2
}
