package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("league-scorebook/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

const (
	attrOrganization = attribute.Key("league.organization")
	attrDivisionID   = attribute.Key("league.division_id")
)

// startUsecaseSpan only opens a child span when the caller is already traced,
// so the importer and tests do not emit root spans.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func divisionAttrs(organization, divisionID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attrOrganization.String(strings.TrimSpace(organization)),
		attrDivisionID.String(strings.TrimSpace(divisionID)),
	}
}

// recordSpanError marks the span failed; caller mistakes are left unmarked.
func recordSpanError(span trace.Span, err error) {
	if err == nil || isClientError(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
