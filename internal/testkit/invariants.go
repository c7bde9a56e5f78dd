package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"wingstl/internal/mesh"
)

// CheckMeshInvariants runs the structural checks every generated mesh must pass:
// 1) vertex and triangle counts match the closed forms for rows x cols
// 2) every index is inside the vertex buffer
// 3) the surface is closed: each directed edge occurs once and its reverse once
// 4) winding is outward, i.e. the enclosed signed volume is positive
func CheckMeshInvariants(m *mesh.Mesh, rows, cols int) error {
	if m == nil {
		return fmt.Errorf("nil mesh")
	}
	if want := mesh.VertexCount(rows, cols, m.Closed); len(m.Vertices) != want {
		return fmt.Errorf("vertex count %d, closed form %d", len(m.Vertices), want)
	}
	if want := mesh.TriangleCount(rows, cols, m.Closed); len(m.Triangles) != want {
		return fmt.Errorf("triangle count %d, closed form %d", len(m.Triangles), want)
	}

	edges := make(map[uint64]int, 3*len(m.Triangles))
	for k, t := range m.Triangles {
		for e := range 3 {
			a, b := t[e], t[(e+1)%3]
			key, err := edgeKey(a, b, len(m.Vertices))
			if err != nil {
				return fmt.Errorf("triangle %d: %w", k, err)
			}
			edges[key]++
		}
	}
	for key, n := range edges {
		a, b := uint32(key>>32), uint32(key) // #nosec G115 -- unpacking edgeKey
		if n != 1 {
			return fmt.Errorf("directed edge %d->%d used %d times", a, b, n)
		}
		if edges[uint64(b)<<32|uint64(a)] != 1 {
			return fmt.Errorf("edge %d->%d has no opposite half-edge", a, b)
		}
	}

	if vol := SignedVolume(m); vol <= 0 {
		return fmt.Errorf("signed volume %g is not positive; triangles wound inward", vol)
	}
	return nil
}

func edgeKey(a, b, n int) (uint64, error) {
	if a < 0 || a >= n || b < 0 || b >= n {
		return 0, fmt.Errorf("edge %d->%d outside %d vertices", a, b, n)
	}
	ua, err := safecast.Conv[uint32](a)
	if err != nil {
		return 0, err
	}
	ub, err := safecast.Conv[uint32](b)
	if err != nil {
		return 0, err
	}
	return uint64(ua)<<32 | uint64(ub), nil
}

// SignedVolume sums tetrahedra against the origin. Positive for outward winding.
func SignedVolume(m *mesh.Mesh) float64 {
	var vol float64
	for _, t := range m.Triangles {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		vol += a.X*(b.Y*c.Z-b.Z*c.Y) - a.Y*(b.X*c.Z-b.Z*c.X) + a.Z*(b.X*c.Y-b.Y*c.X)
	}
	return vol / 6
}
