package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"", LevelOff, true},
		{"PHASE", LevelPhase, true},
		{"detail", LevelDetail, true},
		{" debug ", LevelDebug, true},
		{"error", LevelError, true},
		{"verbose", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeColumn) {
		t.Error("phase must drop column events")
	}
	if !LevelDetail.ShouldEmit(ScopeColumn) || LevelDetail.ShouldEmit(ScopeFacet) {
		t.Error("detail covers columns only")
	}
	if LevelOff.ShouldEmit(ScopeCommand) {
		t.Error("off emits nothing")
	}
}

func TestStartSpanNests(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), st)

	ctx, outer := StartSpan(ctx, ScopeStage, "mesh")
	_, inner := StartSpan(ctx, ScopeColumn, "column:0")
	inner.WithExtra("rows", "39").End("")
	outer.End("ok")

	var events []jsonEvent
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev jsonEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad ndjson line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}
	if events[1].ParentID != events[0].SpanID || events[1].Name != "column:0" {
		t.Fatalf("inner span not parented: %+v", events[1])
	}
	if events[2].Extra["rows"] != "39" || events[3].Detail != "ok" {
		t.Fatalf("end events wrong: %+v %+v", events[2], events[3])
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatal("sequence numbers must increase")
		}
	}
}

func TestFilteredScopeIsInert(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelPhase, FormatText))
	ctx2, sp := StartSpan(ctx, ScopeColumn, "column:1")
	sp.End("")
	if buf.Len() != 0 || ctx2 != ctx {
		t.Fatalf("filtered span leaked output %q", buf.String())
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeStage, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 || !strings.Contains(buf.String(), "• e") {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	s, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if s.Enabled() || s.Ring != nil {
		t.Fatal("off tracer must be disabled")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewBothKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(WithTracer(context.Background(), s), ScopeStage, "write", "wing.stl")
	if !strings.Contains(buf.String(), "write (wing.stl)") {
		t.Fatalf("stream output = %q", buf.String())
	}
	if len(s.Ring.Snapshot()) != 1 {
		t.Fatal("ring missed the event")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
