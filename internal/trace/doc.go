// Package trace records spans of compiler work: the whole compile (driver),
// each of the four passes, and per-file steps inside them.
//
// Enable it from the command line:
//
//	spool compile --trace=- --trace-level=pass dialogue/
//
// Tracers:
//
//   - Nop: zero-overhead default
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "register_strings", 0)
//	defer span.End("")
package trace
