// Package meshcache keeps generated meshes on disk, keyed by a digest of the
// section and the planform inputs.
package meshcache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"wingstl/internal/diag"
	"wingstl/internal/mesh"
	"wingstl/internal/project"
	"wingstl/internal/wing"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Cache stores meshes under <dir>/meshes/<hex key>.mp.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the on-disk form of a mesh.
type Payload struct {
	Schema    uint16
	Key       project.Digest
	Vertices  []mesh.Vertex
	Triangles []mesh.Triangle
	Closed    bool
}

// Open initializes a cache at the standard per-user location.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, diag.Wrap(diag.IOCacheError, err, "no cache directory")
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir uses dir as the cache root.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, diag.Wrap(diag.IOCacheError, err, fmt.Sprintf("unable to create cache directory %s", dir))
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "meshes", hex.EncodeToString(key[:])+".mp")
}

// Key digests everything the mesh depends on. section identifies the airfoil
// geometry (source file hash or analytic label).
func Key(section project.Digest, p wing.Params) project.Digest {
	canon := fmt.Sprintf("v%d|%s|%.17g|%.17g|%.17g|%.17g|%d|%d|%t|%t|%s",
		schemaVersion, p.Airfoil, p.SemiSpan, p.RootChord, p.SweepLeading, p.SweepTrailing,
		p.ChordPoints, p.SpanStations, p.CosineSpacing, p.OpenTrailingEdge, p.Units)
	return project.Combine(section, project.Sum([]byte(canon)))
}

// Put serializes m and atomically replaces any previous entry.
func (c *Cache) Put(key project.Digest, m *mesh.Mesh) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to create cache directory")
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to create cache entry")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload := Payload{
		Schema:    schemaVersion,
		Key:       key,
		Vertices:  m.Vertices,
		Triangles: m.Triangles,
		Closed:    m.Closed,
	}
	if err = msgpack.NewEncoder(f).Encode(&payload); err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to encode cache entry")
	}
	if err = f.Close(); err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to write cache entry")
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to commit cache entry")
	}
	return nil
}

// Get returns the cached mesh for key. Entries from another schema, for another
// key, or with out-of-range indices are treated as misses.
func (c *Cache) Get(key project.Digest) (*mesh.Mesh, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, diag.Wrap(diag.IOCacheError, err, "unable to read cache entry")
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, diag.Wrap(diag.IOCacheError, err, "corrupt cache entry")
	}
	if payload.Schema != schemaVersion || payload.Key != key || !indicesValid(&payload) {
		return nil, false, nil
	}
	return &mesh.Mesh{Vertices: payload.Vertices, Triangles: payload.Triangles, Closed: payload.Closed}, true, nil
}

func indicesValid(p *Payload) bool {
	n := len(p.Vertices)
	for _, t := range p.Triangles {
		for _, v := range t {
			if v < 0 || v >= n {
				return false
			}
		}
	}
	return true
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return diag.Wrap(diag.IOCacheError, err, "unable to drop cache")
	}
	if err := os.RemoveAll(old); err != nil {
		return diag.Wrap(diag.IOCacheError, err, "unable to drop cache")
	}
	return os.MkdirAll(c.dir, 0o755)
}
