package ui

import (
	"errors"
	"strings"
	"testing"

	"wingstl/internal/buildpipeline"
)

func TestApplyEventTracksStages(t *testing.T) {
	m := NewProgressModel("wing.stl", nil).(*progressModel)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageInputs, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageMesh, Status: buildpipeline.StatusWorking, Done: 1, Total: 2})
	if got := m.fraction(); got != 1.5/5 {
		t.Fatalf("fraction = %g", got)
	}

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageMesh, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	view := m.View()
	for _, want := range []string{"wing.stl", "inputs", "mesh", "boom", "queued"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestUnknownStageIgnored(t *testing.T) {
	m := NewProgressModel("x", nil).(*progressModel)
	if cmd := m.applyEvent(buildpipeline.Event{Stage: "link"}); cmd != nil {
		t.Fatal("unknown stage must be ignored")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("крыло", 10); got != "крыло" {
		t.Fatalf("truncate = %q", got)
	}
}
