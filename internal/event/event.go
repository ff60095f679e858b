package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Material pipeline event types
const (
	MaterialRefined        Type = domain.EventTypeMaterialRefined
	RefiningCollected      Type = domain.EventTypeRefiningCollected
	MaterialPurified       Type = domain.EventTypeMaterialPurified
	MaterialConsolidated   Type = domain.EventTypeMaterialConsolidated
	ManufacturingQueued    Type = domain.EventTypeManufacturingQueued
	ManufacturingCompleted Type = domain.EventTypeManufacturingCompleted
	ManufacturingCancelled Type = domain.EventTypeManufacturingCancelled
)

// Type-safe event constructors

// NewMaterialRefinedEvent creates a material.refined event for a queued refining job
func NewMaterialRefinedEvent(job domain.RefiningJob) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MaterialRefined,
		Payload: domain.MaterialRefinedPayload{
			JobID:          job.ID,
			OwnerID:        job.OwnerID,
			MaterialType:   string(job.MaterialType),
			Tier:           int(job.Tier),
			InputQuantity:  job.InputQuantity,
			OutputQuantity: job.OutputQuantity,
			Waste:          job.Waste,
			Cycles:         job.CyclesApplied,
			InputPurity:    job.InputPurity.Raw(),
			OutputPurity:   job.OutputPurity.Raw(),
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewRefiningCollectedEvent creates a refining.collected event
func NewRefiningCollectedEvent(job domain.RefiningJob) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RefiningCollected,
		Payload: domain.RefiningCollectedPayload{
			JobID:         job.ID,
			OwnerID:       job.OwnerID,
			OutputStackID: job.OutputStackID,
			Quantity:      job.OutputQuantity,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewMaterialPurifiedEvent creates a material.purified event
func NewMaterialPurifiedEvent(payload domain.MaterialPurifiedPayload) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version:  EventSchemaVersion,
		Type:     MaterialPurified,
		Payload:  payload,
		Metadata: map[string]interface{}{"risk_mode": payload.RiskMode},
	}
}

// NewMaterialConsolidatedEvent creates a material.consolidated event
func NewMaterialConsolidatedEvent(stack domain.MaterialStack, mergedIDs []string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MaterialConsolidated,
		Payload: domain.MaterialConsolidatedPayload{
			OwnerID:      stack.OwnerID,
			StackID:      stack.ID,
			MergedIDs:    mergedIDs,
			MaterialType: string(stack.MaterialType),
			Quantity:     stack.Quantity,
			Purity:       stack.Purity.Raw(),
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewManufacturingEvent creates a manufacturing.* event for the job
func NewManufacturingEvent(eventType Type, job domain.ManufacturingJob) Event {
	stats := make(map[string]float64, len(job.Stats))
	for name, v := range job.Stats {
		stats[string(name)] = v
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: domain.ManufacturingPayload{
			JobID:       job.ID,
			OwnerID:     job.OwnerID,
			BlueprintID: job.BlueprintID,
			BatchSize:   job.BatchSize,
			Stats:       stats,
			Reason:      job.FailureReason,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
