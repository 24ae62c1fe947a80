// Tracing instrumentation for the interpreter.
package interp

import (
	"context"

	"github.com/vinayprograms/agentkit/telemetry"
	"github.com/vinayprograms/robot/internal/robotfile"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startRunSpan starts a span for a program run.
func (in *Interpreter) startRunSpan(ctx context.Context, prog *robotfile.Program) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "program.run")
	span.SetAttributes(
		attribute.String("program.name", prog.Name),
		attribute.Int("program.statements", len(prog.Statements)),
		attribute.Int("interp.max_steps", in.maxSteps),
	)
	return ctx, span
}

// endRunSpan ends the run span with the run's counters.
func (in *Interpreter) endRunSpan(span trace.Span, err error) {
	status := "complete"
	if err != nil {
		status = "failed"
		if kind := FaultKindOf(err); kind != "" {
			span.SetAttributes(attribute.String("run.fault", string(kind)))
		}
		span.RecordError(err)
	}
	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Int("run.statements", in.stats.Statements),
		attribute.Int("run.actions", in.stats.Actions),
	)
	span.End()
}
