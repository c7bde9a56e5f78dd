package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesHeapProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.pprof")
	s, err := Start(Config{Mem: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Fatalf("heap profile missing: %v", err)
	}
}

func TestStartBadPath(t *testing.T) {
	_, err := Start(Config{CPU: filepath.Join(t.TempDir(), "no", "cpu.pprof")})
	if err == nil {
		t.Fatal("expected error")
	}
}
