package handler

import (
	"context"
	"net/http"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/refining"
)

// MaterialHandler handles material stack HTTP endpoints
type MaterialHandler struct {
	service  material.Service
	refining refining.Service
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(service material.Service, refiningSvc refining.Service) *MaterialHandler {
	return &MaterialHandler{
		service:  service,
		refining: refiningSvc,
	}
}

// ExtractRequest is the request body for extracting raw material
type ExtractRequest struct {
	OwnerID      string   `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	MaterialType string   `json:"material_type" validate:"required,max=64"`
	Tier         int      `json:"tier" validate:"tier"`
	Quantity     int      `json:"quantity" validate:"min=1,max=100000"`
	Purity       *float64 `json:"purity,omitempty" validate:"omitempty,min=0,max=1"`
}

// ConsolidateRequest is the request body for merging stacks without refining
type ConsolidateRequest struct {
	OwnerID  string   `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	StackIDs []string `json:"stack_ids" validate:"required,min=2,max=50,dive,required"`
}

// StackResponse wraps a single stack
type StackResponse struct {
	Message string             `json:"message,omitempty"`
	Stack   material.StackView `json:"stack"`
}

// StackListResponse lists an owner's stacks
type StackListResponse struct {
	OwnerID string               `json:"owner_id"`
	Stacks  []material.StackView `json:"stacks"`
}

// HandleExtract credits freshly extracted ore to an owner
// @Summary Extract material
// @Description Create a raw stack at a tier. Purity is rolled when omitted.
// @Tags materials
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Extraction details"
// @Success 201 {object} StackResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/materials/extract [post]
func (h *MaterialHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpExtract, http.StatusCreated,
		func(ctx context.Context, req ExtractRequest) (*material.StackView, error) {
			return h.service.Extract(ctx, material.ExtractRequest{
				OwnerID:      req.OwnerID,
				MaterialType: domain.MaterialType(req.MaterialType),
				Tier:         domain.Tier(req.Tier),
				Quantity:     req.Quantity,
				Purity:       req.Purity,
			})
		},
		func(view *material.StackView) interface{} {
			return StackResponse{Message: MsgExtractSuccess, Stack: *view}
		},
	)
}

// HandleListStacks lists an owner's non-empty stacks
// @Summary List stacks
// @Tags materials
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} StackListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/materials [get]
func (h *MaterialHandler) HandleListStacks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}

	views, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, OpListStacks, err)
		return
	}
	respondJSON(w, http.StatusOK, StackListResponse{OwnerID: ownerID, Stacks: views})
}

// HandleGetStack returns one stack with its grade
// @Summary Get stack
// @Tags materials
// @Produce json
// @Param stackID path string true "Stack ID"
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} StackResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/materials/{stackID} [get]
func (h *MaterialHandler) HandleGetStack(w http.ResponseWriter, r *http.Request) {
	stackID, ok := GetPathParam(r, w, "stackID")
	if !ok {
		return
	}
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), ownerID, stackID)
	if err != nil {
		respondServiceError(w, r, OpGetStack, err)
		return
	}
	respondJSON(w, http.StatusOK, StackResponse{Stack: *view})
}

// HandleConsolidate merges compatible stacks into one without refining
// @Summary Consolidate stacks
// @Description Merge stacks of the same material, tier and refined state. Purity is quantity-weighted.
// @Tags materials
// @Accept json
// @Produce json
// @Param request body ConsolidateRequest true "Stacks to merge"
// @Success 200 {object} StackResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/materials/consolidate [post]
func (h *MaterialHandler) HandleConsolidate(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpConsolidate, http.StatusOK,
		func(ctx context.Context, req ConsolidateRequest) (*domain.MaterialStack, error) {
			return h.refining.Consolidate(ctx, req.OwnerID, req.StackIDs)
		},
		func(stack *domain.MaterialStack) interface{} {
			return StackResponse{Message: MsgConsolidateSuccess, Stack: material.NewStackView(*stack)}
		},
	)
}
