package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/database/memory"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/purification"
	"github.com/osse101/Crucible_Go/internal/refining"
	"github.com/osse101/Crucible_Go/internal/utils"
)

const testOwner = "owner-1"

type testEnv struct {
	store         *memory.Store
	catalog       *catalog.Catalog
	materials     *MaterialHandler
	refining      *RefiningHandler
	purification  *PurificationHandler
	manufacturing *ManufacturingHandler
	catalogH      *CatalogHandler
}

func newTestCatalog() *catalog.Catalog {
	return catalog.New(&catalog.Config{
		Materials: []catalog.MaterialDef{
			{MaterialType: "ferrite", DisplayName: "Ferrite", Attributes: map[domain.AttributeName]float64{
				domain.AttrStrength: 80, domain.AttrStability: 40,
			}},
			{MaterialType: "silvane", DisplayName: "Silvane", Attributes: map[domain.AttributeName]float64{
				domain.AttrElasticity: 45,
			}},
		},
		Blueprints: []catalog.BlueprintDef{
			{
				ID:        "iron_blade",
				Name:      "Iron Blade",
				Tier:      1,
				BaseStats: map[domain.StatName]float64{domain.StatDamage: 100},
				RequiredMaterials: []catalog.RequirementDef{
					{MaterialType: "ferrite", QuantityPerUnit: 3, AffectsStats: []domain.StatName{domain.StatDamage}},
				},
			},
		},
	}, 0, 0)
}

// newTestEnv wires real services over the memory store. rolls feed every random draw.
func newTestEnv(t *testing.T, rolls ...float64) *testEnv {
	t.Helper()
	InitValidator()

	store := memory.NewStore()
	cat := newTestCatalog()
	bus := event.NewMemoryBus()
	rnd := utils.NewFixedSource(rolls...)

	refiningSvc := refining.NewService(store, refining.NewEngine(rnd), bus, time.Minute)
	return &testEnv{
		store:         store,
		catalog:       cat,
		materials:     NewMaterialHandler(material.NewService(store, cat, rnd), refiningSvc),
		refining:      NewRefiningHandler(refiningSvc),
		purification:  NewPurificationHandler(purification.NewService(store, purification.NewEngine(rnd), bus)),
		manufacturing: NewManufacturingHandler(manufacturing.NewService(store, cat, nil, bus)),
		catalogH:      NewCatalogHandler(cat),
	}
}

func (e *testEnv) seed(t *testing.T, id, materialType string, tier, qty int, purity float64) {
	t.Helper()
	require.NoError(t, e.store.CreateStack(context.Background(), &domain.MaterialStack{
		ID:           id,
		OwnerID:      testOwner,
		MaterialType: domain.MaterialType(materialType),
		Tier:         domain.Tier(tier),
		Purity:       domain.NewPurity(purity),
		Quantity:     qty,
	}))
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams attaches chi route parameters the way the router would
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}
