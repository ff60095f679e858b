package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/metrics"
)

// auditedEvents are logged at info level as they are published
var auditedEvents = []event.Type{
	event.MaterialRefined,
	event.RefiningCollected,
	event.MaterialPurified,
	event.MaterialConsolidated,
	event.ManufacturingQueued,
	event.ManufacturingCompleted,
	event.ManufacturingCancelled,
}

// RegisterEventHandlers subscribes the metrics collector and the audit logger
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range auditedEvents {
		bus.Subscribe(t, auditEvent)
	}
	slog.Info(LogMsgEventAuditRegistered, "event_types", len(auditedEvents))

	return nil
}

func auditEvent(ctx context.Context, evt event.Event) error {
	logger.FromContext(ctx).Info(LogMsgEventAudit, "event_type", evt.Type, "version", evt.Version)
	return nil
}
