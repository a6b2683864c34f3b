package slot

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/ringlet/slot"

// startSlotSpan creates the span for one time slot of one machine.
// Uses the global tracer initialized by github.com/amp-labs/ringlet/telemetry.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startSlotSpan(ctx context.Context, machine, machineID, state string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "slot.run")
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("machine_id", machineID),
		attribute.String("state", state),
	)

	return ctx, span
}

// startFanOutSpan creates the parent span for RunAll.
//
//nolint:spancheck // Span lifecycle managed by caller
func startFanOutSpan(ctx context.Context, runners int) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "slot.run_all")
	span.SetAttributes(attribute.Int("runners", runners))

	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "completed")
	}

	span.End()
}
