package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageInputs   Stage = "inputs"   // flag and manifest values
	StageLoad     Stage = "load"     // airfoil section
	StagePlanform Stage = "planform" // combined geometry checks
	StageMesh     Stage = "mesh"
	StageWrite    Stage = "write"
)

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{StageInputs, StageLoad, StagePlanform, StageMesh, StageWrite}
}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Event reports progress for one stage. Done/Total count finished stations
// while the mesh stage is working.
type Event struct {
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Done    int
	Total   int
	Detail  string
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
