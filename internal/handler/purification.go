package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/purification"
)

// PurificationHandler handles purification HTTP endpoints
type PurificationHandler struct {
	service purification.Service
}

// NewPurificationHandler creates a new purification handler
func NewPurificationHandler(service purification.Service) *PurificationHandler {
	return &PurificationHandler{service: service}
}

// PurifyRequest is the request body for one purification attempt
type PurifyRequest struct {
	OwnerID string `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	StackID string `json:"stack_id" validate:"required,max=64"`
	Amount  int    `json:"amount" validate:"min=1"`
	Mode    string `json:"mode" validate:"required,riskmode"`
}

// PurifyResponse reports the roll and the stack afterwards
type PurifyResponse struct {
	Attempt *purification.Attempt `json:"attempt"`
	Stack   material.StackView    `json:"stack"`
}

// OddsResponse lists the odds of every risk mode for a stack
type OddsResponse struct {
	StackID string                     `json:"stack_id"`
	Modes   []purification.OddsPreview `json:"modes"`
}

// HandlePurify rolls one purification attempt against a stack
// @Summary Purify a stack
// @Description Pay the risk mode's material cost and roll upgrade, same or downgrade for the whole stack
// @Tags purification
// @Accept json
// @Produce json
// @Param request body PurifyRequest true "Attempt details"
// @Success 200 {object} PurifyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/purification/purify [post]
func (h *PurificationHandler) HandlePurify(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpPurify, http.StatusOK,
		func(ctx context.Context, req PurifyRequest) (*purification.PurifyResult, error) {
			return h.service.Purify(ctx, purification.PurifyRequest{
				OwnerID: req.OwnerID,
				StackID: req.StackID,
				Amount:  req.Amount,
				Mode:    domain.RiskMode(strings.ToLower(req.Mode)),
			})
		},
		func(res *purification.PurifyResult) interface{} {
			return PurifyResponse{Attempt: res.Attempt, Stack: material.NewStackView(res.Stack)}
		},
	)
}

// HandleOdds previews the cost and odds of every risk mode
// @Summary Purification odds
// @Tags purification
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Param stack_id query string true "Stack ID"
// @Success 200 {object} OddsResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/purification/odds [get]
func (h *PurificationHandler) HandleOdds(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}
	stackID, ok := GetQueryParam(r, w, "stack_id")
	if !ok {
		return
	}

	previews, err := h.service.Preview(r.Context(), ownerID, stackID)
	if err != nil {
		respondServiceError(w, r, OpPurifyOdds, err)
		return
	}
	respondJSON(w, http.StatusOK, OddsResponse{StackID: stackID, Modes: previews})
}
