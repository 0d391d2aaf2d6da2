package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/dynplug/internal/core/ports"
)

// EventBufferSize determines the size of the async event channel.
const EventBufferSize = 4096

// logEvent carries a chunk of span output to the renderer.
type logEvent struct {
	spanID string
	data   []byte
}

// planEvent announces the packages scheduled for reconciliation.
type planEvent struct {
	packages []string
}

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// Log output and plan events are forwarded to the renderer through a single
// buffered channel so they arrive in emission order.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
	events   chan any
	mu       sync.RWMutex
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	t := &OTelTracer{
		tracer: otel.Tracer(name),
		events: make(chan any, EventBufferSize), // Buffered to handle bursts
	}
	go t.runLoop()
	return t
}

func (t *OTelTracer) runLoop() {
	for ev := range t.events {
		t.mu.RLock()
		renderer := t.renderer
		t.mu.RUnlock()

		if renderer == nil {
			continue
		}

		switch ev := ev.(type) {
		case logEvent:
			renderer.OnStepLog(ev.spanID, ev.data)
		case planEvent:
			renderer.OnPlanEmit(ev.packages)
		}
	}
}

// Shutdown stops the background event processor.
func (t *OTelTracer) Shutdown(_ context.Context) error {
	close(t.events)
	return nil
}

// WithRenderer sets the renderer to forward events to.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

// Start creates a new span. When a renderer is attached, span output is
// batched and streamed to it asynchronously.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)

	t.mu.RLock()
	renderer := t.renderer
	t.mu.RUnlock()

	var batcher *BatchProcessor
	if renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		cb := func(data []byte) {
			select {
			case t.events <- logEvent{spanID: spanID, data: data}:
			default:
				// Drop logs if the buffer is full to avoid blocking installation
			}
		}
		batcher = NewBatchProcessor(0, 0, cb)
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan signals that a set of packages is planned for installation by
// adding an event to the current span and notifying the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, packages []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("packages", packages),
		))
	}

	t.mu.RLock()
	renderer := t.renderer
	t.mu.RUnlock()

	if renderer != nil {
		select {
		case t.events <- planEvent{packages: packages}:
		default:
			// The plan event initializes the UI, so fall back to a blocking
			// send rather than dropping it.
			t.events <- planEvent{packages: packages}
		}
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer by streaming to the batcher when a renderer is
// attached, or recording a span event otherwise.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
