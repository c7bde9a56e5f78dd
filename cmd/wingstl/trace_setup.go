package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wingstl/internal/trace"
)

type tracingState struct {
	session *trace.Session
	errOut  io.Writer
	closed  bool
}

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns its state for cleanup.
func setupTracing(cmd *cobra.Command) (*tracingState, error) {
	flags := cmd.Root().PersistentFlags()
	output, _ := flags.GetString("trace")
	levelStr, _ := flags.GetString("trace-level")
	modeStr, _ := flags.GetString("trace-mode")
	ringSize, _ := flags.GetInt("trace-ring-size")
	heartbeat, _ := flags.GetDuration("trace-heartbeat")

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, newFlagError(err.Error())
	}
	// --trace without a level means stage boundaries
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, newFlagError(err.Error())
	}

	session, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(trace.WithTracer(ctx, session))
	return &tracingState{session: session, errOut: cmd.ErrOrStderr()}, nil
}

func (s *tracingState) close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if err := s.session.Close(); err != nil {
		fmt.Fprintf(s.errOut, "trace: close error: %v\n", err)
	}
}

// dumpOnFailure writes the ring buffer so a failed run shows its last stages.
func (s *tracingState) dumpOnFailure(w io.Writer) {
	if s == nil || s.session.Ring == nil {
		return
	}
	fmt.Fprintln(w, "trace: last events before failure:")
	if err := s.session.DumpRing(w); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
