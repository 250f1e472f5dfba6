package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/nob/internal/adapters/telemetry"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/nob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// bridgedProvider returns a provider that forwards every span to renderer.
func bridgedProvider(t *testing.T, renderer ports.Renderer) *sdktrace.TracerProvider {
	t.Helper()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp
}

func target(output string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String(ports.AttrOutput, output))
}

func TestBridge_ForwardsLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, renderer)

	var startedID string
	gomock.InOrder(
		renderer.EXPECT().OnTargetStart(gomock.Any(), "build/app", gomock.Any()).
			Do(func(spanID, _ string, start time.Time) {
				startedID = spanID
				assert.False(t, start.IsZero())
			}),
		renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), string(domain.OutcomeBuilt), nil).
			Do(func(spanID string, _ time.Time, _ string, _ error) {
				assert.Equal(t, startedID, spanID)
			}),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "build/app", target("build/app"))
	span.SetAttributes(attribute.String(ports.AttrOutcome, string(domain.OutcomeBuilt)))
	span.End()
}

func TestBridge_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{name: "description", desc: "cc exited with code 1", want: "cc exited with code 1"},
		{name: "no description", desc: "", want: "target failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			renderer := mocks.NewMockRenderer(ctrl)
			tp := bridgedProvider(t, renderer)

			renderer.EXPECT().OnTargetStart(gomock.Any(), gomock.Any(), gomock.Any())
			renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), "", gomock.Any()).
				Do(func(_ string, _ time.Time, _ string, err error) {
					require.Error(t, err)
					assert.Equal(t, tt.want, err.Error())
				})

			_, span := tp.Tracer("test").Start(context.Background(), "lib.o", target("lib.o"))
			span.SetStatus(codes.Error, tt.desc)
			span.End()
		})
	}
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := bridgedProvider(t, nil)

	_, span := tp.Tracer("test").Start(context.Background(), "lib.o", target("lib.o"))
	span.End()
}

func TestBridge_IgnoresNonTargetSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, renderer)

	_, span := tp.Tracer("test").Start(context.Background(), "session")
	span.End()
}

func TestBridge_NameFromOutputAttribute(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, renderer)

	renderer.EXPECT().OnTargetStart(gomock.Any(), "build/lib.o", gomock.Any())
	renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), "", nil)

	_, span := tp.Tracer("test").Start(context.Background(), "compile", target("build/lib.o"))
	span.End()
}

func TestBridge_ErrorFromExceptionEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tp := bridgedProvider(t, renderer)

	renderer.EXPECT().OnTargetStart(gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ time.Time, _ string, err error) {
			assert.EqualError(t, err, "cc killed by signal")
		})

	_, span := tp.Tracer("test").Start(context.Background(), "lib.o", target("lib.o"))
	span.RecordError(errors.New("cc killed by signal"))
	span.SetStatus(codes.Error, "")
	span.End()
}

func TestBridge_FlushAndShutdown(t *testing.T) {
	bridge := telemetry.NewBridge(nil)

	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}

func TestOTelSpan_RecordErrorReachesRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	installProvider(t, sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))

	renderer.EXPECT().OnTargetStart(gomock.Any(), "app", gomock.Any())
	renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), string(domain.OutcomeFailed), gomock.Any()).
		Do(func(_ string, _ time.Time, _ string, err error) {
			assert.EqualError(t, err, "ld exited with code 1")
		})

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "app",
		ports.WithAttribute(ports.AttrOutput, "app"))
	span.RecordError(errors.New("ld exited with code 1"))
	span.SetAttribute(ports.AttrOutcome, string(domain.OutcomeFailed))
	span.End()
}
