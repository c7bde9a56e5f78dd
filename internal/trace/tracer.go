package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer
	ModeBoth                          // stream + ring
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stream", "":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" for stderr; *.ndjson selects NDJSON
	RingSize   int       // default 4096
	Heartbeat  time.Duration
}

// Session is a configured tracer plus the ring, if any, for failure dumps.
type Session struct {
	Tracer
	Ring      *RingTracer
	heartbeat *Heartbeat
}

// New creates a Tracer based on Config.
func New(cfg Config) (*Session, error) {
	if cfg.Level == LevelOff {
		return &Session{Tracer: Nop}, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	format := FormatText
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		format = FormatNDJSON
	}

	s := &Session{}
	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		s.Tracer = NewStreamTracer(w, cfg.Level, format)
	case ModeRing:
		s.Ring = NewRingTracer(cfg.RingSize, cfg.Level)
		s.Tracer = s.Ring
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		s.Ring = NewRingTracer(cfg.RingSize, cfg.Level)
		s.Tracer = NewMultiTracer(cfg.Level, NewStreamTracer(w, cfg.Level, format), s.Ring)
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	s.heartbeat = StartHeartbeat(s.Tracer, cfg.Heartbeat)
	return s, nil
}

// Close stops the heartbeat, then flushes and closes the tracer.
func (s *Session) Close() error {
	s.heartbeat.Stop()
	if err := s.Tracer.Flush(); err != nil {
		return err
	}
	return s.Tracer.Close()
}

// DumpRing writes the ring contents as text, if a ring is configured.
func (s *Session) DumpRing(w io.Writer) error {
	if s.Ring == nil {
		return nil
	}
	return s.Ring.Dump(w, FormatText)
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }
