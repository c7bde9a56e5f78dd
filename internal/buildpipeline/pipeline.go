// Package buildpipeline runs the wing compiler stages in order: input checks,
// airfoil loading, planform validation, meshing and STL output.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"wingstl/internal/airfoil"
	"wingstl/internal/diag"
	"wingstl/internal/mesh"
	"wingstl/internal/meshcache"
	"wingstl/internal/observ"
	"wingstl/internal/project"
	"wingstl/internal/source"
	"wingstl/internal/stl"
	"wingstl/internal/trace"
	"wingstl/internal/wing"
)

// Request configures one run.
type Request struct {
	Params wing.Params
	// Files receives the .dat source; a fresh set is used when nil.
	Files    *source.FileSet
	Reporter diag.Reporter

	OutputPath string
	Format     stl.Format
	SolidName  string

	Mesh     mesh.Options
	Cache    *meshcache.Cache
	Progress ProgressSink
	// Timer, if set, gets one phase per stage for --timings.
	Timer *observ.Timer
}

// Result captures what each stage produced. Fields of stages that did not run are zero.
type Result struct {
	Section     airfoil.Section
	SectionFile *source.File // nil for analytic sections
	Planform    *wing.Planform
	Mesh        *mesh.Mesh
	OutputPath  string
	CacheHit    bool
	Timings     Timings
}

// Prepare validates inputs, loads the section and builds the planform.
// Nothing is written.
func Prepare(ctx context.Context, req *Request) (Result, error) {
	var res Result
	if req == nil {
		return res, errors.New("missing build request")
	}
	files := req.Files
	if files == nil {
		files = source.NewFileSet()
	}
	p := req.Params

	err := req.runStage(ctx, &res.Timings, StageInputs, func(context.Context) error {
		return p.CheckInputs()
	})
	if err != nil {
		return res, err
	}

	err = req.runStage(ctx, &res.Timings, StageLoad, func(context.Context) error {
		sec, f, err := LoadSection(files, p.Airfoil, !p.OpenTrailingEdge, req.Reporter)
		res.Section, res.SectionFile = sec, f
		if err == nil && f != nil && p.OpenTrailingEdge {
			diag.ReportWarning(req.Reporter, diag.FlagIgnored, source.Span{},
				"open trailing edge (--open-te) has no effect on a digitized airfoil").
				WithHint("the trailing edge of a .dat section is taken from its first and last points").
				Emit()
		}
		return err
	})
	if err != nil {
		return res, err
	}

	err = req.runStage(ctx, &res.Timings, StagePlanform, func(context.Context) error {
		pl, err := wing.NewPlanform(p)
		res.Planform = pl
		return err
	})
	return res, err
}

// Generate runs Prepare, then meshes (or reuses a cached mesh) and writes the STL.
func Generate(ctx context.Context, req *Request) (Result, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeCommand, "generate")
	res, err := Prepare(ctx, req)
	if err != nil {
		span.End(err.Error())
		skipRemaining(req, res.Timings)
		return res, err
	}

	key := meshcache.Key(SectionDigest(res.Section, res.SectionFile), req.Params)
	err = req.runStage(ctx, &res.Timings, StageMesh, func(ctx context.Context) error {
		if m, ok, cerr := req.Cache.Get(key); cerr == nil && ok {
			if countsMatch(m, res.Section, res.Planform) {
				res.Mesh, res.CacheHit = m, true
				trace.Point(ctx, trace.ScopeStage, "cache", "hit "+key.String()[:12])
				return nil
			}
			trace.Point(ctx, trace.ScopeStage, "cache", "stale "+key.String()[:12])
		}
		opts := req.Mesh
		opts.OnColumn = columnReporter(req.Progress, opts.OnColumn)
		m, err := mesh.Generate(ctx, res.Section, res.Planform, opts)
		if err != nil {
			return err
		}
		res.Mesh = m
		// a cache that cannot be written never fails the run
		if perr := req.Cache.Put(key, m); perr != nil {
			trace.Point(ctx, trace.ScopeStage, "cache", perr.Error())
		}
		return nil
	})
	if err != nil {
		span.End(err.Error())
		skipRemaining(req, res.Timings)
		return res, err
	}

	err = req.runStage(ctx, &res.Timings, StageWrite, func(context.Context) error {
		path := req.OutputPath
		if path == "" {
			path = DefaultOutput
		}
		name := req.SolidName
		if name == "" {
			name = stl.SolidName(path)
		}
		if err := stl.WriteFile(path, res.Mesh, req.Format, name); err != nil {
			return err
		}
		res.OutputPath = path
		return nil
	})
	span.WithExtra("triangles", fmt.Sprint(len(res.Mesh.Triangles))).End("")
	return res, err
}

// DefaultOutput is used when the request names no output path.
const DefaultOutput = "wing.stl"

// LoadSection resolves an --airfoil value: a .dat path is read into files and
// parsed, anything else must be a NACA 4-digit code.
func LoadSection(files *source.FileSet, arg string, closedTE bool, r diag.Reporter) (airfoil.Section, *source.File, error) {
	if airfoil.LooksLikeFile(arg) {
		sec, err := airfoil.Load(files, arg, r)
		var f *source.File
		if id, ok := files.GetLatest(arg); ok {
			f = files.Get(id)
		}
		return sec, f, err
	}
	d, err := airfoil.ParseCode(arg)
	if err != nil {
		return nil, nil, err
	}
	sec, err := airfoil.NewNACA4(d, closedTE)
	if err != nil {
		return nil, nil, err
	}
	return sec, nil, nil
}

// countsMatch applies the closed-form size check that mesh.Generate enforces
// to a mesh read back from the cache.
func countsMatch(m *mesh.Mesh, sec airfoil.Section, pl *wing.Planform) bool {
	rows, cols, closed := pl.ChordPoints(), pl.SpanStations(), sec.ClosedTrailingEdge()
	return m.Closed == closed &&
		len(m.Vertices) == mesh.VertexCount(rows, cols, closed) &&
		len(m.Triangles) == mesh.TriangleCount(rows, cols, closed)
}

// SectionDigest identifies the section geometry for the mesh cache.
func SectionDigest(sec airfoil.Section, f *source.File) project.Digest {
	if f != nil {
		return project.Digest(f.Hash)
	}
	return project.Sum(fmt.Appendf(nil, "%s|%s|%t", sec.Dialect(), sec.Label(), sec.ClosedTrailingEdge()))
}

func (req *Request) runStage(ctx context.Context, timings *Timings, stage Stage, fn func(context.Context) error) error {
	sink := req.Progress
	if err := ctx.Err(); err != nil {
		emit(sink, Event{Stage: stage, Status: StatusError, Err: err})
		return err
	}
	ctx, span := trace.StartSpan(ctx, trace.ScopeStage, string(stage))
	emit(sink, Event{Stage: stage, Status: StatusWorking})

	phase := -1
	if req.Timer != nil {
		phase = req.Timer.Begin(string(stage))
	}
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	timings.Set(stage, elapsed)

	if err != nil {
		if req.Timer != nil {
			req.Timer.End(phase, "failed")
		}
		span.End(err.Error())
		emit(sink, Event{Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	if req.Timer != nil {
		req.Timer.End(phase, "")
	}
	span.End("")
	emit(sink, Event{Stage: stage, Status: StatusDone, Elapsed: elapsed})
	return nil
}

func skipRemaining(req *Request, timings Timings) {
	if req == nil {
		return
	}
	for _, st := range Stages() {
		if !timings.Has(st) {
			emit(req.Progress, Event{Stage: st, Status: StatusSkipped})
		}
	}
}

func columnReporter(sink ProgressSink, next func(int, int)) func(int, int) {
	if sink == nil {
		return next
	}
	var done atomic.Int64
	return func(station, total int) {
		n := int(done.Add(1))
		emit(sink, Event{Stage: StageMesh, Status: StatusWorking, Done: n, Total: total})
		if next != nil {
			next(station, total)
		}
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
