package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/domain"
)

func TestCatalogHandlers(t *testing.T) {
	env := newTestEnv(t)

	t.Run("materials", func(t *testing.T) {
		w := serve(env.catalogH.HandleMaterials, jsonRequest(t, http.MethodGet, "/api/v1/catalog/materials", nil))
		require.Equal(t, http.StatusOK, w.Code)
		mats := decodeBody[[]catalog.MaterialDef](t, w)
		require.Len(t, mats, 2)
		assert.Equal(t, domain.MaterialType("ferrite"), mats[0].MaterialType)
	})

	t.Run("blueprints", func(t *testing.T) {
		w := serve(env.catalogH.HandleBlueprints, jsonRequest(t, http.MethodGet, "/api/v1/catalog/blueprints", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]domain.Blueprint](t, w), 1)
	})

	t.Run("blueprint by id", func(t *testing.T) {
		req := withURLParams(jsonRequest(t, http.MethodGet, "/api/v1/catalog/blueprints/iron_blade", nil), map[string]string{"blueprintID": "iron_blade"})
		w := serve(env.catalogH.HandleBlueprint, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Iron Blade", decodeBody[domain.Blueprint](t, w).Name)
	})

	t.Run("unknown blueprint", func(t *testing.T) {
		req := withURLParams(jsonRequest(t, http.MethodGet, "/api/v1/catalog/blueprints/laser", nil), map[string]string{"blueprintID": "laser"})
		w := serve(env.catalogH.HandleBlueprint, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("grades", func(t *testing.T) {
		w := serve(env.catalogH.HandleGrades, jsonRequest(t, http.MethodGet, "/api/v1/catalog/grades", nil))
		require.Equal(t, http.StatusOK, w.Code)
		grades := decodeBody[[]GradeInfo](t, w)
		require.Len(t, grades, len(domain.AllGrades))
		assert.Equal(t, "Scrap", grades[0].DisplayName)
		assert.Equal(t, domain.GradeQuantum, grades[len(grades)-1].Grade)
	})
}
