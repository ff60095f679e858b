package handler

import (
	"context"
	"net/http"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
)

// ManufacturingHandler handles manufacturing HTTP endpoints
type ManufacturingHandler struct {
	service manufacturing.Service
}

// NewManufacturingHandler creates a new manufacturing handler
func NewManufacturingHandler(service manufacturing.Service) *ManufacturingHandler {
	return &ManufacturingHandler{service: service}
}

// ManufactureRequest is the request body for planning or queueing a job.
// Selections maps each required material type to the stack that supplies it.
type ManufactureRequest struct {
	OwnerID     string            `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	BlueprintID string            `json:"blueprint_id" validate:"required,max=64"`
	BatchSize   int               `json:"batch_size" validate:"min=1,max=100"` // manufacturing.MaxBatchSize
	Selections  map[string]string `json:"selections" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

// ManufacturingJobResponse wraps a manufacturing job
type ManufacturingJobResponse struct {
	Message string                  `json:"message,omitempty"`
	Job     domain.ManufacturingJob `json:"job"`
}

// ManufacturingJobListResponse lists an owner's manufacturing jobs
type ManufacturingJobListResponse struct {
	OwnerID string                    `json:"owner_id"`
	Jobs    []domain.ManufacturingJob `json:"jobs"`
}

func (req ManufactureRequest) toService() manufacturing.QueueRequest {
	selections := make(map[domain.MaterialType]string, len(req.Selections))
	for materialType, stackID := range req.Selections {
		selections[domain.MaterialType(materialType)] = stackID
	}
	return manufacturing.QueueRequest{
		OwnerID:     req.OwnerID,
		BlueprintID: req.BlueprintID,
		BatchSize:   req.BatchSize,
		Selections:  selections,
	}
}

// HandlePlan computes the stats and ETA a job would have without consuming anything
// @Summary Plan manufacturing
// @Tags manufacturing
// @Accept json
// @Produce json
// @Param request body ManufactureRequest true "Blueprint, batch and selections"
// @Success 200 {object} ManufacturingJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/manufacturing/plan [post]
func (h *ManufacturingHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpPlanManufacture, http.StatusOK,
		func(ctx context.Context, req ManufactureRequest) (*domain.ManufacturingJob, error) {
			return h.service.Plan(ctx, req.toService())
		},
		func(job *domain.ManufacturingJob) interface{} {
			return ManufacturingJobResponse{Job: *job}
		},
	)
}

// HandleQueue consumes the selected materials and queues a job
// @Summary Queue manufacturing
// @Description Consume blueprint materials for the batch and queue the job behind the owner's other jobs
// @Tags manufacturing
// @Accept json
// @Produce json
// @Param request body ManufactureRequest true "Blueprint, batch and selections"
// @Success 201 {object} ManufacturingJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/manufacturing/jobs [post]
func (h *ManufacturingHandler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpQueueManufacture, http.StatusCreated,
		func(ctx context.Context, req ManufactureRequest) (*domain.ManufacturingJob, error) {
			return h.service.Queue(ctx, req.toService())
		},
		func(job *domain.ManufacturingJob) interface{} {
			return ManufacturingJobResponse{Message: MsgManufactureQueued, Job: *job}
		},
	)
}

// HandleListJobs lists an owner's manufacturing jobs
// @Summary List manufacturing jobs
// @Tags manufacturing
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} ManufacturingJobListResponse
// @Router /api/v1/manufacturing/jobs [get]
func (h *ManufacturingHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}
	jobs, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, OpListManufacture, err)
		return
	}
	respondJSON(w, http.StatusOK, ManufacturingJobListResponse{OwnerID: ownerID, Jobs: jobs})
}

// HandleGetJob returns one manufacturing job
// @Summary Get manufacturing job
// @Tags manufacturing
// @Produce json
// @Param jobID path string true "Job ID"
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} ManufacturingJobResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/manufacturing/jobs/{jobID} [get]
func (h *ManufacturingHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := GetPathParam(r, w, "jobID")
	if !ok {
		return
	}
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}
	job, err := h.service.Get(r.Context(), ownerID, jobID)
	if err != nil {
		respondServiceError(w, r, OpGetManufacture, err)
		return
	}
	respondJSON(w, http.StatusOK, ManufacturingJobResponse{Job: *job})
}

// HandleCancel cancels a queued or running job. Consumed material is not refunded.
// @Summary Cancel manufacturing job
// @Tags manufacturing
// @Accept json
// @Produce json
// @Param jobID path string true "Job ID"
// @Param request body JobActionRequest true "Owner"
// @Success 200 {object} ManufacturingJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/manufacturing/jobs/{jobID}/cancel [post]
func (h *ManufacturingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, OpCancelManufacture, MsgManufactureCancelled, h.service.Cancel)
}

// HandleCollect marks a finished job's items as delivered
// @Summary Collect manufacturing job
// @Tags manufacturing
// @Accept json
// @Produce json
// @Param jobID path string true "Job ID"
// @Param request body JobActionRequest true "Owner"
// @Success 200 {object} ManufacturingJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/manufacturing/jobs/{jobID}/collect [post]
func (h *ManufacturingHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, OpCollectManufacture, MsgManufactureDone, h.service.Collect)
}

func (h *ManufacturingHandler) jobAction(
	w http.ResponseWriter,
	r *http.Request,
	opName, message string,
	action func(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error),
) {
	jobID, ok := GetPathParam(r, w, "jobID")
	if !ok {
		return
	}
	handleAction(w, r, opName, http.StatusOK,
		func(ctx context.Context, req JobActionRequest) (*domain.ManufacturingJob, error) {
			return action(ctx, req.OwnerID, jobID)
		},
		func(job *domain.ManufacturingJob) interface{} {
			return ManufacturingJobResponse{Message: message, Job: *job}
		},
	)
}
