package metrics

import (
	"context"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.MaterialRefined,
		event.RefiningCollected,
		event.MaterialPurified,
		event.MaterialConsolidated,
		event.ManufacturingQueued,
		event.ManufacturingCompleted,
		event.ManufacturingCancelled,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics. Payloads that cannot be
// decoded still count as published.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.MaterialRefined:
		var p domain.MaterialRefinedPayload
		if p, err = event.DecodePayload[domain.MaterialRefinedPayload](evt.Payload); err == nil {
			RefiningJobs.WithLabelValues(p.MaterialType).Inc()
			RefiningWaste.WithLabelValues(p.MaterialType).Add(float64(p.Waste))
		}

	case event.RefiningCollected:
		var p domain.RefiningCollectedPayload
		if p, err = event.DecodePayload[domain.RefiningCollectedPayload](evt.Payload); err == nil {
			RefiningCollected.Add(float64(p.Quantity))
		}

	case event.MaterialPurified:
		var p domain.MaterialPurifiedPayload
		if p, err = event.DecodePayload[domain.MaterialPurifiedPayload](evt.Payload); err == nil {
			PurificationAttempts.WithLabelValues(p.RiskMode, p.Outcome).Inc()
			PurificationCost.WithLabelValues(p.RiskMode).Add(float64(p.Cost))
		}

	case event.MaterialConsolidated:
		var p domain.MaterialConsolidatedPayload
		if p, err = event.DecodePayload[domain.MaterialConsolidatedPayload](evt.Payload); err == nil {
			StacksConsolidated.WithLabelValues(p.MaterialType).Inc()
		}

	case event.ManufacturingQueued, event.ManufacturingCompleted, event.ManufacturingCancelled:
		var p domain.ManufacturingPayload
		if p, err = event.DecodePayload[domain.ManufacturingPayload](evt.Payload); err == nil {
			ManufacturingJobs.WithLabelValues(p.BlueprintID, manufacturingStatus(evt.Type)).Inc()
			if evt.Type == event.ManufacturingQueued {
				ManufacturingUnits.WithLabelValues(p.BlueprintID).Add(float64(p.BatchSize))
			}
		}
	}

	if err != nil {
		log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func manufacturingStatus(t event.Type) string {
	switch t {
	case event.ManufacturingCompleted:
		return StatusCompleted
	case event.ManufacturingCancelled:
		return StatusCancelled
	default:
		return StatusQueued
	}
}
