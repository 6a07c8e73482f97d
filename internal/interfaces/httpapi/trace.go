package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("league-scorebook/internal/interfaces/httpapi")

// handlerSpanAttrs copies the routed path values onto the span so traces can
// be filtered by organization and division.
func handlerSpanAttrs(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	for _, name := range []string{"organization", "divisionID", "gameID"} {
		if v := strings.TrimSpace(r.PathValue(name)); v != "" {
			attrs = append(attrs, attribute.String("league."+name, v))
		}
	}
	return attrs
}

// startSpan opens a handler span under the request span. Untraced requests,
// such as filtered health probes, get the no-op span from their context.
func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(handlerSpanAttrs(r)...))
}
