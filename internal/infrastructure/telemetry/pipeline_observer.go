package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/revendo/backend/internal/application/stats"
)

// PipelineObserver records each report pipeline run as a span and a debug
// log entry. It implements stats.PipelineObserver.
type PipelineObserver struct {
	tracer trace.Tracer
	logger *zap.Logger
}

func NewPipelineObserver(tp *TracerProvider, logger *zap.Logger) *PipelineObserver {
	return &PipelineObserver{
		tracer: tp.Tracer("stats.pipelines"),
		logger: logger,
	}
}

// PipelineCompleted emits a span covering the pipeline's run. The span is
// backdated so its duration matches the measured one.
func (o *PipelineObserver) PipelineCompleted(ctx context.Context, pipeline string, duration time.Duration) {
	end := time.Now()
	_, span := o.tracer.Start(ctx, "pipeline."+pipeline,
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(
			attribute.String("pipeline", pipeline),
			attribute.Int64("duration_ms", duration.Milliseconds()),
		),
	)
	span.End(trace.WithTimestamp(end))

	o.logger.Debug("pipeline completed",
		zap.String("pipeline", pipeline),
		zap.Duration("duration", duration),
	)
}

var _ stats.PipelineObserver = (*PipelineObserver)(nil)
