package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/nob/internal/adapters/telemetry"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// installProvider replaces the global tracer provider. Tests using it must not
// run in parallel.
func installProvider(t *testing.T, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	t.Helper()
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp
}

func recorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	installProvider(t, sdktrace.WithSpanProcessor(sr))
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestOTelTracer_StartAttributes(t *testing.T) {
	sr := recorder(t)

	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(context.Background(), "build/lib.o",
		ports.WithAttribute(ports.AttrOutput, "build/lib.o"))
	span.SetAttribute(ports.AttrReason, "missing output")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "build/lib.o", spans[0].Name())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "build/lib.o", attrs[ports.AttrOutput].AsString())
	assert.Equal(t, "missing output", attrs[ports.AttrReason].AsString())
}

func TestOTelSpan_SetAttributeTypes(t *testing.T) {
	sr := recorder(t)

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "attrs")
	span.SetAttribute("str", "val")
	span.SetAttribute("int", 123)
	span.SetAttribute("int64", int64(456))
	span.SetAttribute("float", 3.14)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("other", struct{ N int }{N: 7})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0].Attributes())

	assert.Equal(t, "val", attrs["str"].AsString())
	assert.Equal(t, int64(123), attrs["int"].AsInt64())
	assert.Equal(t, int64(456), attrs["int64"].AsInt64())
	assert.InDelta(t, 3.14, attrs["float"].AsFloat64(), 0.0001)
	assert.True(t, attrs["bool"].AsBool())
	assert.Equal(t, []string{"a", "b"}, attrs["slice"].AsStringSlice())
	assert.Equal(t, "{7}", attrs["other"].AsString())
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr := recorder(t)

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "app")
	span.RecordError(errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr := recorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	targets := []string{"lib.c", "lib.o", "app"}
	deps := map[string][]string{"lib.o": {"lib.c"}, "app": {"lib.o"}}
	renderer.EXPECT().OnPlanEmit(targets, deps, "app").Times(2)

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)

	// Without a recording span only the renderer sees the plan.
	tracer.EmitPlan(context.Background(), targets, deps, "app")
	assert.Empty(t, sr.Ended())

	ctx, root := otel.Tracer("test").Start(context.Background(), "build")
	tracer.EmitPlan(ctx, targets, deps, "app")
	root.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
	assert.Equal(t, "app", attrMap(events[0].Attributes)["root"].AsString())
}

func TestOTelTracer_EmitPlanWithoutRenderer(t *testing.T) {
	recorder(t)

	tracer := telemetry.NewOTelTracer("test")
	tracer.EmitPlan(context.Background(), []string{"a"}, nil, "a")
}
