// Package trace records spans and point events of a formatting run.
//
// Enable tracing via command-line flags:
//
//	mmdfmt --trace=- --trace-level=detail docs/
//
// A StreamTracer writes every admitted event immediately as text or NDJSON;
// Nop is used when tracing is off. Tracers travel through the pipeline in a
// context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "format", 0)
//	defer span.End("")
//
// Levels pick how fine-grained the admitted scopes are: phase admits the
// driver and its passes, detail adds per-file spans, debug admits everything.
package trace
