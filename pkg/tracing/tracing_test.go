package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder 安装一个记录Span的Provider，测试结束后恢复
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	shutdown, err := InitTracer("test-service", "localhost:4317", 0.5)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := StartSpan(context.Background(), "test-service", "Noop")
	span.End()

	// Collector不可达时shutdown可能返回导出错误，这里只要求它不阻塞
	_ = shutdown(context.Background())
}

func TestStartSpan(t *testing.T) {
	recorder := useRecorder(t)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "test-service", "catalog.book.Delete")
		_, child := StartSpan(ctx, "test-service", "cascade book->review")
		child.End()
		root.End()

		assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.NotEqual(t, root.SpanContext().SpanID(), child.SpanContext().SpanID())
	})

	t.Run("记录属性与错误状态", func(t *testing.T) {
		_, span := StartSpan(context.Background(), "test-service", "catalog.country.Create")
		span.SetAttributes(attribute.String("entity", "country"))
		span.RecordError(context.DeadlineExceeded)
		span.SetStatus(codes.Error, "storage_failure")
		span.End()

		ended := recorder.Ended()
		require.NotEmpty(t, ended)
		last := ended[len(ended)-1]
		assert.Equal(t, "catalog.country.Create", last.Name())
		assert.Equal(t, codes.Error, last.Status().Code)
		assert.Contains(t, last.Attributes(), attribute.String("entity", "country"))
	})
}

func TestExtractIDs(t *testing.T) {
	useRecorder(t)

	t.Run("有效Context", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "test-service", "Extract")
		defer span.End()

		assert.Len(t, ExtractTraceID(ctx), 32)
		assert.Len(t, ExtractSpanID(ctx), 16)
	})

	t.Run("无Span的Context", func(t *testing.T) {
		assert.Empty(t, ExtractTraceID(context.Background()))
		assert.Empty(t, ExtractSpanID(context.Background()))
	})
}
