package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of business spans.
const TracerName = "hpfin-backend"

// Span attribute keys shared by the services.
const (
	SpanAttrCompanyID   = "company.id"
	SpanAttrBranchID    = "branch.id"
	SpanAttrHpEntryID   = "hp_entry.id"
	SpanAttrClosingDate = "closing.date"
)

// StartServiceSpan starts an internal span named "{service}.{method}" on the global provider.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "closing_balance", "advance")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
