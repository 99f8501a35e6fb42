package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/revendo/backend/internal/infrastructure/config"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.NoError(t, tp.ForceFlush(context.Background()))
}

func TestPipelineObserverLogsTiming(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewPipelineObserver(tp, zap.New(core))

	obs.PipelineCompleted(context.Background(), "overview", 42*time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline completed", entries[0].Message)
	assert.Equal(t, "overview", entries[0].ContextMap()["pipeline"])
	assert.Equal(t, 42*time.Millisecond, entries[0].ContextMap()["duration"])
}
