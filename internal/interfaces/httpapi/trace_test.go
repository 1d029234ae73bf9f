package httpapi

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

var (
	recorderOnce sync.Once
	spanRecorder *tracetest.SpanRecorder
)

// installSpanRecorder registers one recording provider for the package; the
// global tracers bind to the first provider they see.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorderOnce.Do(func() {
		spanRecorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder)))
	})
	return spanRecorder
}

func endedSpanNames(rec *tracetest.SpanRecorder) map[string]int {
	out := make(map[string]int)
	for _, span := range rec.Ended() {
		out[span.Name()]++
	}
	return out
}

func TestStartSpan_HandlerSpanJoinsRequestTrace(t *testing.T) {
	installSpanRecorder(t)

	ctx, parent := otel.Tracer("squad-builder/test").Start(context.Background(), "POST /v1/squad/players")
	defer parent.End()

	childCtx, child := startSpan(ctx, "httpapi.Handler.AddPlayerToSquad")
	defer child.End()

	if !child.IsRecording() {
		t.Fatalf("expected handler span to record under a traced request")
	}
	if got, want := child.SpanContext().TraceID(), parent.SpanContext().TraceID(); got != want {
		t.Fatalf("handler span trace id=%s want=%s", got, want)
	}
	if trace.SpanFromContext(childCtx).SpanContext().SpanID() == parent.SpanContext().SpanID() {
		t.Fatalf("expected a child span in the returned context")
	}
}

func TestStartSpan_SkipsMiddlewareAndUntracedRequests(t *testing.T) {
	installSpanRecorder(t)

	if _, span := startSpan(context.Background(), "httpapi.Handler.GetSquad"); span.IsRecording() {
		t.Fatalf("expected no span without a request trace")
	}

	ctx, parent := otel.Tracer("squad-builder/test").Start(context.Background(), "GET /v1/squad")
	defer parent.End()

	for _, name := range []string{"httpapi.RequestLogging", "httpapi.CORS", "httpapi.writeError"} {
		gotCtx, span := startSpan(ctx, name)
		if span.IsRecording() {
			t.Fatalf("expected %s to reuse the request span", name)
		}
		if trace.SpanFromContext(gotCtx).SpanContext().SpanID() != parent.SpanContext().SpanID() {
			t.Fatalf("expected %s to keep the request span in context", name)
		}
	}
}
