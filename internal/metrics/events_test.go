package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
)

func TestEventMetricsCollector_Purified(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	attempts := PurificationAttempts.WithLabelValues("yolo", "upgrade")
	cost := PurificationCost.WithLabelValues("yolo")
	beforeAttempts := testutil.ToFloat64(attempts)
	beforeCost := testutil.ToFloat64(cost)

	err := bus.Publish(context.Background(), event.NewMaterialPurifiedEvent(domain.MaterialPurifiedPayload{
		RiskMode: "yolo",
		Outcome:  "upgrade",
		Cost:     35,
	}))
	require.NoError(t, err)

	assert.Equal(t, beforeAttempts+1, testutil.ToFloat64(attempts))
	assert.Equal(t, beforeCost+35, testutil.ToFloat64(cost))
}

func TestEventMetricsCollector_Manufacturing(t *testing.T) {
	c := NewEventMetricsCollector()
	job := domain.ManufacturingJob{ID: "m1", BlueprintID: "metrics_blade", BatchSize: 4}

	queued := ManufacturingJobs.WithLabelValues("metrics_blade", StatusQueued)
	completed := ManufacturingJobs.WithLabelValues("metrics_blade", StatusCompleted)
	units := ManufacturingUnits.WithLabelValues("metrics_blade")

	ctx := context.Background()
	require.NoError(t, c.HandleEvent(ctx, event.NewManufacturingEvent(event.ManufacturingQueued, job)))
	require.NoError(t, c.HandleEvent(ctx, event.NewManufacturingEvent(event.ManufacturingCompleted, job)))

	assert.Equal(t, 1.0, testutil.ToFloat64(queued))
	assert.Equal(t, 1.0, testutil.ToFloat64(completed))
	assert.Equal(t, 4.0, testutil.ToFloat64(units), "only queueing adds units")
}

func TestEventMetricsCollector_UndecodablePayloadIsNotAnError(t *testing.T) {
	c := NewEventMetricsCollector()
	evt := event.Event{Type: event.MaterialRefined, Payload: make(chan int)}
	assert.NoError(t, c.HandleEvent(context.Background(), evt))
}

func TestMiddleware_LabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
