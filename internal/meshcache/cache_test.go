package meshcache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"wingstl/internal/airfoil"
	"wingstl/internal/mesh"
	"wingstl/internal/project"
	"wingstl/internal/wing"
)

func sampleMesh(t *testing.T) (*mesh.Mesh, project.Digest) {
	t.Helper()
	d, err := airfoil.ParseCode("2412")
	if err != nil {
		t.Fatal(err)
	}
	sec, err := airfoil.NewNACA4(d, true)
	if err != nil {
		t.Fatal(err)
	}
	p := wing.DefaultParams()
	p.Airfoil, p.SemiSpan, p.RootChord, p.ChordPoints = "2412", 6, 1, 20
	pl, err := wing.NewPlanform(p)
	if err != nil {
		t.Fatal(err)
	}
	m, err := mesh.Generate(context.Background(), sec, pl, mesh.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return m, Key(project.Sum([]byte(sec.Label())), p)
}

func TestRoundTrip(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m, key := sampleMesh(t)
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, m); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatal("cached mesh differs from original")
	}

	entries, _ := os.ReadDir(filepath.Join(c.Dir(), "meshes"))
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
}

func TestKeyDependsOnInputs(t *testing.T) {
	sec := project.Sum([]byte("NACA 2412"))
	p := wing.DefaultParams()
	p.Airfoil, p.SemiSpan, p.RootChord = "2412", 6, 1
	base := Key(sec, p)

	q := p
	q.SpanStations = 3
	if Key(sec, q) == base {
		t.Fatal("stations must change the key")
	}
	if Key(project.Sum([]byte("NACA 0012")), p) == base {
		t.Fatal("section must change the key")
	}
	if Key(sec, p) != base {
		t.Fatal("key must be stable")
	}
}

func TestDropAll(t *testing.T) {
	c, err := OpenDir(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	m, key := sampleMesh(t)
	if err := c.Put(key, m); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
	if err := c.Put(key, m); err != nil {
		t.Fatalf("cache unusable after DropAll: %v", err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	if err := c.Put(project.Digest{}, &mesh.Mesh{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(project.Digest{}); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}
