package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/database/memory"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/handler"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/purification"
	"github.com/osse101/Crucible_Go/internal/refining"
	"github.com/osse101/Crucible_Go/internal/utils"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	handler.InitValidator()

	store := memory.NewStore()
	cat := catalog.New(&catalog.Config{
		Materials: []catalog.MaterialDef{
			{MaterialType: "ferrite", DisplayName: "Ferrite", Attributes: map[domain.AttributeName]float64{
				domain.AttrStrength: 80,
			}},
		},
	}, 0, 0)
	bus := event.NewMemoryBus()
	rnd := utils.NewFixedSource(0.5)
	refiningSvc := refining.NewService(store, refining.NewEngine(rnd), bus, time.Minute)

	return NewServer(Options{APIKey: testAPIKey, ServiceName: "crucible-test"}, Services{
		Store:         store,
		Materials:     material.NewService(store, cat, rnd),
		Refining:      refiningSvc,
		Purification:  purification.NewService(store, purification.NewEngine(rnd), bus),
		Manufacturing: manufacturing.NewService(store, cat, nil, bus),
		Catalog:       cat,
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, path, nil, false)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestServer_APIRequiresKey(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/catalog/grades", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/catalog/grades", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
}

func TestServer_ExtractThenFetchStack(t *testing.T) {
	h := newTestServer(t).Handler()

	purity := 0.5
	rec := doRequest(t, h, http.MethodPost, "/api/v1/materials/extract", map[string]interface{}{
		"owner_id":      "owner-1",
		"material_type": "ferrite",
		"tier":          2,
		"quantity":      40,
		"purity":        purity,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created handler.StackResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.Stack.ID)
	assert.Equal(t, 40, created.Stack.Quantity)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/materials/"+created.Stack.ID+"?owner_id=owner-1", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched handler.StackResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, created.Stack.ID, fetched.Stack.ID)
	assert.InDelta(t, purity, fetched.Stack.Purity.Value, 1e-9)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/materials?owner_id=owner-1", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var list handler.StackListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.Stacks, 1)
}

func TestServer_UnknownRoute(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/nowhere", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
