package hooter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/saylorsolutions/hooter"

func (d *Dispatcher) startSpan(ctx context.Context, ev *Event, steps int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("hooter.event", ev.Name()),
		attribute.String("hooter.event.id", ev.ID()),
		attribute.String("hooter.mode", string(ev.Mode())),
		attribute.Int("hooter.handlers", steps),
	}
	if parent := ev.Parent(); parent != nil {
		attrs = append(attrs, attribute.String("hooter.parent", parent.Name()))
	}
	return d.tracer.Start(ctx, "hooter.toot",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
