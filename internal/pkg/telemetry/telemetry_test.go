package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func Test_ContextHandlerAddsTraceIDs(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info").With("component", "test")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	// Act
	logger.InfoContext(ctx, "hello")

	// Assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
	assert.Equal(t, "test", line["component"])
}

func Test_ContextHandlerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info").Info("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "trace_id")
}

func Test_ParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func Test_MetricsCountByLabels(t *testing.T) {
	// Arrange
	m := NewMetrics(prometheus.NewRegistry())

	// Act
	m.ObserveTransition("Confirmed", "Packing", "applied")
	m.ObserveTransition("Confirmed", "Packing", "applied")
	m.ObserveCarrierSync("delivered", "updated")
	m.ObserveAmbiguousCommit("applied")

	// Assert
	assert.InDelta(t, 2, testutil.ToFloat64(m.transitions.WithLabelValues("Confirmed", "Packing", "applied")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.carrierSync.WithLabelValues("delivered", "updated")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ambiguousCommit.WithLabelValues("applied")), 0)
}
