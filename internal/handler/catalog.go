package handler

import (
	"context"
	"net/http"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/quality"
)

// CatalogReader is the read-only catalog surface the API exposes
type CatalogReader interface {
	Materials() []catalog.MaterialDef
	Blueprints() []domain.Blueprint
	Blueprint(ctx context.Context, blueprintID string) (*domain.Blueprint, error)
}

// CatalogHandler serves materials, blueprints and the grade table
type CatalogHandler struct {
	catalog CatalogReader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// GradeInfo is one row of the quality grade table
type GradeInfo struct {
	quality.Band
	DisplayName string `json:"display_name"`
}

// HandleMaterials lists every material with its tier-1 attributes
// @Summary List materials
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.MaterialDef
// @Router /api/v1/catalog/materials [get]
func (h *CatalogHandler) HandleMaterials(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Materials())
}

// HandleBlueprints lists every blueprint
// @Summary List blueprints
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Blueprint
// @Router /api/v1/catalog/blueprints [get]
func (h *CatalogHandler) HandleBlueprints(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Blueprints())
}

// HandleBlueprint returns one blueprint
// @Summary Get blueprint
// @Tags catalog
// @Produce json
// @Param blueprintID path string true "Blueprint ID"
// @Success 200 {object} domain.Blueprint
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalog/blueprints/{blueprintID} [get]
func (h *CatalogHandler) HandleBlueprint(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, "blueprintID")
	if !ok {
		return
	}
	bp, err := h.catalog.Blueprint(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpGetBlueprint, err)
		return
	}
	respondJSON(w, http.StatusOK, bp)
}

// HandleGrades returns the purity band of every quality grade
// @Summary Quality grades
// @Tags catalog
// @Produce json
// @Success 200 {array} GradeInfo
// @Router /api/v1/catalog/grades [get]
func (h *CatalogHandler) HandleGrades(w http.ResponseWriter, r *http.Request) {
	bands := quality.Bands()
	grades := make([]GradeInfo, 0, len(bands))
	for _, b := range bands {
		grades = append(grades, GradeInfo{Band: b, DisplayName: quality.GradeDisplayName(b.Grade)})
	}
	respondJSON(w, http.StatusOK, grades)
}
