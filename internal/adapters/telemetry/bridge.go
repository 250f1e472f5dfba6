package telemetry

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/nob/internal/core/ports"
)

// Names used by the SDK when a span records an error.
const (
	exceptionEvent   = "exception"
	exceptionMessage = "exception.message"
)

// Bridge implements sdktrace.SpanProcessor and forwards target spans to a
// Renderer. Only spans started with the nob.output attribute are targets;
// any other span is ignored.
type Bridge struct {
	renderer ports.Renderer
	active   sync.Map // span ID -> struct{}
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	output, ok := stringAttr(s.Attributes(), ports.AttrOutput)
	if !ok {
		return
	}

	b.active.Store(sc.SpanID(), struct{}{})
	b.renderer.OnTargetStart(sc.SpanID().String(), output, s.StartTime())
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if _, tracked := b.active.LoadAndDelete(sc.SpanID()); !tracked {
		return
	}

	outcome, _ := stringAttr(s.Attributes(), ports.AttrOutcome)
	b.renderer.OnTargetComplete(sc.SpanID().String(), s.EndTime(), outcome, spanError(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown forgets spans that never ended.
func (b *Bridge) Shutdown(_ context.Context) error {
	b.active.Clear()
	return nil
}

// spanError rebuilds the failure of an errored span from its status, falling
// back to the last recorded exception message.
func spanError(s sdktrace.ReadOnlySpan) error {
	if s.Status().Code != codes.Error {
		return nil
	}
	if desc := s.Status().Description; desc != "" {
		return errors.New(desc)
	}

	events := s.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Name != exceptionEvent {
			continue
		}
		if msg, ok := stringAttr(events[i].Attributes, exceptionMessage); ok && msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New("target failed")
}

func stringAttr(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)
