package mesh

// stitch emits triangles in a fixed order: upper surface, lower surface, port
// wall, starboard wall, then the aft cap when the trailing edge is open.
func stitch(g *Grid) []Triangle {
	tris := make([]Triangle, 0, TriangleCount(g.rows, g.cols, g.closed))
	tris = stitchSurfaces(g, tris)
	tris = stitchWall(g, tris, 0, false)
	tris = stitchWall(g, tris, g.cols-1, true)
	if !g.closed {
		tris = stitchAftCap(g, tris)
	}
	return tris
}

func quadReversed(tris []Triangle, c [4]int) []Triangle {
	return append(tris, Triangle{c[3], c[2], c[1]}, Triangle{c[3], c[1], c[0]})
}

func quad(tris []Triangle, c [4]int) []Triangle {
	return append(tris, Triangle{c[0], c[1], c[2]}, Triangle{c[0], c[2], c[3]})
}

func stitchSurfaces(g *Grid, tris []Triangle) []Triangle {
	for i := 0; i < g.rows-1; i++ {
		for j := 0; j < g.cols-1; j++ {
			tris = quadReversed(tris, [4]int{g.Upper(i, j), g.Upper(i, j+1), g.Upper(i+1, j+1), g.Upper(i+1, j)})
		}
	}
	for i := 0; i < g.rows-1; i++ {
		for j := 0; j < g.cols-1; j++ {
			tris = quadReversed(tris, [4]int{g.Lower(i, j+1), g.Lower(i, j), g.Lower(i+1, j), g.Lower(i+1, j+1)})
		}
	}
	return tris
}

// stitchWall closes the root (port) or tip (starboard) section. The leading-edge
// row and, when closed, the trailing-edge row degenerate to single triangles.
func stitchWall(g *Grid, tris []Triangle, j int, starboard bool) []Triangle {
	last := g.rows - 2
	for i := 0; i <= last; i++ {
		u0, u1 := g.Upper(i, j), g.Upper(i+1, j)
		l0, l1 := g.Lower(i, j), g.Lower(i+1, j)
		switch {
		case i == 0 && !starboard:
			tris = append(tris, Triangle{u0, l1, u1})
		case i == 0:
			tris = append(tris, Triangle{u0, u1, l1})
		case i == last && g.closed && !starboard:
			tris = append(tris, Triangle{l1, u0, l0})
		case i == last && g.closed:
			tris = append(tris, Triangle{l1, l0, u0})
		case !starboard:
			tris = quad(tris, [4]int{l0, l1, u1, u0})
		default:
			tris = quad(tris, [4]int{l1, l0, u0, u1})
		}
	}
	return tris
}

func stitchAftCap(g *Grid, tris []Triangle) []Triangle {
	i := g.rows - 1
	for j := 0; j < g.cols-1; j++ {
		tris = quad(tris, [4]int{g.Lower(i, j), g.Lower(i, j+1), g.Upper(i, j+1), g.Upper(i, j)})
	}
	return tris
}
