// Package trace records structured events for a wingstl run.
//
// Events carry a scope (command, stage, column, facet) and are filtered by a
// level. Tracers are attached to a context.Context and picked up by every
// stage of the pipeline:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopeStage, "mesh")
//	defer span.End("")
//
// Enable from the command line:
//
//	wingstl generate -a 2412 -b 6 -c 1 --trace=- --trace-level=detail
//
// Implementations: the nop tracer when tracing is off, StreamTracer for
// immediate text or NDJSON output, RingTracer keeping the last N events for
// crash dumps, and MultiTracer fanning out to several of them.
package trace
