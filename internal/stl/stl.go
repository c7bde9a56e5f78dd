// Package stl serializes meshes as ASCII or binary STL.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"wingstl/internal/diag"
	"wingstl/internal/mesh"
)

type Format uint8

const (
	ASCII Format = iota
	Binary
)

func (f Format) String() string {
	if f == Binary {
		return "binary"
	}
	return "ascii"
}

// ParseFormat accepts "ascii" and "binary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ascii", "":
		return ASCII, nil
	case "binary":
		return Binary, nil
	}
	return 0, diag.Errorf(diag.FlagInvalidValue, "valid options for output format (flag '--format') are 'ascii' or 'binary', got %q", s)
}

const (
	headerSize   = 80
	triangleSize = 50

	// degenerate facets keep their raw cross product
	minNormalLength = 1e-6
)

// Normal returns the unit normal of (v0, v1, v2) following the right-hand rule.
func Normal(v0, v1, v2 mesh.Vertex) mesh.Vertex {
	ax, ay, az := v1.X-v0.X, v1.Y-v0.Y, v1.Z-v0.Z
	bx, by, bz := v2.X-v0.X, v2.Y-v0.Y, v2.Z-v0.Z
	n := mesh.Vertex{
		X: ay*bz - az*by,
		Y: az*bx - ax*bz,
		Z: ax*by - ay*bx,
	}
	l := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if l > minNormalLength {
		n.X /= l
		n.Y /= l
		n.Z /= l
	}
	return n
}

// WriteASCII writes the solid as text, one facet block per triangle.
func WriteASCII(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range m.Triangles {
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		n := Normal(v0, v1, v2)
		fmt.Fprintf(bw, "  facet normal %f %f %f\n", n.X, n.Y, n.Z)
		bw.WriteString("    outer loop\n")
		for _, v := range [3]mesh.Vertex{v0, v1, v2} {
			fmt.Fprintf(bw, "      vertex %f %f %f\n", v.X, v.Y, v.Z)
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// WriteBinary writes the 80-byte header, the little-endian triangle count and
// 50 bytes per triangle.
func WriteBinary(w io.Writer, m *mesh.Mesh, name string) error {
	count, err := safecast.Conv[uint32](len(m.Triangles))
	if err != nil {
		return fmt.Errorf("triangle count overflow: %w", err)
	}
	bw := bufio.NewWriter(w)

	var header [headerSize + 4]byte
	copy(header[:headerSize], name)
	binary.LittleEndian.PutUint32(header[headerSize:], count)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var buf [triangleSize]byte
	for _, t := range m.Triangles {
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		for k, v := range [4]mesh.Vertex{Normal(v0, v1, v2), v0, v1, v2} {
			off := 12 * k
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(v.Z)))
		}
		// attribute byte count stays zero
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write dispatches on format.
func Write(w io.Writer, m *mesh.Mesh, format Format, name string) error {
	if format == Binary {
		return WriteBinary(w, m, name)
	}
	return WriteASCII(w, m, name)
}

// OutputMode is the permission of written STL files; the temp file starts at 0600.
const OutputMode os.FileMode = 0o644

// WriteFile writes into a temp file next to path and renames it into place, so a
// failed run never leaves a truncated STL behind.
func WriteFile(path string, m *mesh.Mesh, format Format, name string) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".wingstl-*.tmp")
	if err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to open %s for writing", path))
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = Write(f, m, format, name); err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to write %s", path))
	}
	if err = f.Chmod(OutputMode); err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to write %s", path))
	}
	if err = f.Close(); err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to write %s", path))
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), path); err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to move output into %s", path))
	}
	return nil
}

// SolidName derives the solid name from the output path.
func SolidName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
