package proxy

import (
	"context"
	"reflect"
	"testing"

	"github.com/anoideaopen/delegate/core/metrics"
	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reg := trackerRegistry()
	reg.MustRegister(intSized{})
	reg.MustRegister(stringSized{})

	rt := newTestRuntime(reg, WithTracerProvider(tp))
	p := rt.New((*declaringClass)(nil))

	_, err := p.Call("Size")
	require.ErrorIs(t, err, ErrAmbiguousSignature)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	populate := spans[0]
	assert.Equal(t, telemetry.SpanPopulate, populate.Name())
	assert.Contains(t, populate.Attributes(), telemetry.Class(reflectx.TypeName(reflect.TypeOf(declaringClass{}))))
	assert.Contains(t, populate.Attributes(), telemetry.SignaturesAdded(len(trackerProtocol.Methods())))

	scan := spans[1]
	assert.Equal(t, telemetry.SpanFallbackScan, scan.Name())
	assert.Contains(t, scan.Attributes(), telemetry.Method("Size"))
	assert.Contains(t, scan.Attributes(), telemetry.Outcome(metrics.ScanAmbiguous))
	assert.Equal(t, codes.Error, scan.Status().Code)

	require.NoError(t, rt.Close(context.Background()))
	require.NoError(t, tp.Shutdown(context.Background()))
}
