// Package prof wires the --cpuprofile, --memprofile and --runtime-trace flags.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"wingstl/internal/diag"
)

// Config names the output files; empty paths disable that profiler.
type Config struct {
	CPU   string
	Mem   string
	Trace string
}

// Session owns the open profile files until Stop.
type Session struct {
	cpu     *os.File
	trace   *os.File
	memPath string
	stopped bool
}

// Start enables the profilers named in cfg. On error nothing is left running.
func Start(cfg Config) (*Session, error) {
	s := &Session{memPath: cfg.Mem}
	if cfg.CPU != "" {
		f, err := create(cfg.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, diag.Wrap(diag.IOWriteFileError, err, "failed to start cpu profile")
		}
		s.cpu = f
	}
	if cfg.Trace != "" {
		f, err := create(cfg.Trace)
		if err != nil {
			s.Stop()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.Stop()
			return nil, diag.Wrap(diag.IOWriteFileError, err, "failed to start runtime trace")
		}
		s.trace = f
	}
	return s, nil
}

// Stop ends the trace and cpu profile, then writes the heap profile.
// Safe to call more than once.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	if s.trace != nil {
		trace.Stop()
		_ = s.trace.Close()
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		_ = s.cpu.Close()
	}
	if s.memPath != "" {
		return writeMem(s.memPath)
	}
	return nil
}

func writeMem(path string) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = diag.Wrap(diag.IOWriteFileError, closeErr, "failed to close heap profile")
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return diag.Wrap(diag.IOWriteFileError, err, "failed to write heap profile")
	}
	return nil
}

func create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, diag.Wrap(diag.IOWriteFileError, err, fmt.Sprintf("unable to create %s", path))
	}
	return f, nil
}
