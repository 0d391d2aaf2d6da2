package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/dynplug/internal/adapters/telemetry"
)

// installProvider registers a real SDK tracer provider so spans are recording.
func installProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestTracerStartAndEnd(t *testing.T) {
	installProvider(t)

	tracer := telemetry.NewOTelTracer("test")
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := tracer.Start(context.Background(), "install my-plugin")
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttribute("package", "my-plugin")
	span.SetAttribute("attempt", 1)
	span.SetAttribute("force", true)
	span.End()
}

func TestTracerStreamsLogsToRenderer(t *testing.T) {
	installProvider(t)

	renderer := &stubRenderer{}
	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "install my-plugin")
	_, err := span.Write([]byte("downloading archive\n"))
	require.NoError(t, err)

	// End closes the batcher, forcing a final flush into the event channel.
	span.End()

	assert.Eventually(t, func() bool {
		return strings.Contains(string(renderer.snapshotLogs()), "downloading archive")
	}, time.Second, 5*time.Millisecond)
}

func TestTracerEmitPlanForwardsToRenderer(t *testing.T) {
	installProvider(t)

	renderer := &stubRenderer{}
	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := tracer.Start(context.Background(), "reconcile")
	tracer.EmitPlan(ctx, []string{"plugin-a", "plugin-b"})
	span.End()

	assert.Eventually(t, func() bool {
		return renderer.planCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTracerWithoutRendererWritesSpanEvents(t *testing.T) {
	installProvider(t)

	tracer := telemetry.NewOTelTracer("test")
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "install my-plugin")
	n, err := span.Write([]byte("no renderer attached"))
	require.NoError(t, err)
	assert.Equal(t, len("no renderer attached"), n)
	span.End()
}

func TestTracerRecordError(t *testing.T) {
	installProvider(t)

	tracer := telemetry.NewOTelTracer("test")
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "install my-plugin")
	span.RecordError(assert.AnError)
	span.End()
}
