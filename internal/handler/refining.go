package handler

import (
	"context"
	"net/http"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/refining"
)

// RefiningHandler handles refining HTTP endpoints
type RefiningHandler struct {
	service refining.Service
}

// NewRefiningHandler creates a new refining handler
func NewRefiningHandler(service refining.Service) *RefiningHandler {
	return &RefiningHandler{service: service}
}

// RefineRequest is the request body for a refining run over a crucible batch
type RefineRequest struct {
	OwnerID  string   `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	StackIDs []string `json:"stack_ids" validate:"required,min=1,max=50,dive,required"`
	Cycles   int      `json:"cycles" validate:"min=1,max=20"`
}

// JobActionRequest identifies the owner acting on a job
type JobActionRequest struct {
	OwnerID string `json:"owner_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// RefiningJobResponse wraps a refining job
type RefiningJobResponse struct {
	Message string             `json:"message,omitempty"`
	Job     domain.RefiningJob `json:"job"`
}

// RefiningJobListResponse lists an owner's refining jobs
type RefiningJobListResponse struct {
	OwnerID string               `json:"owner_id"`
	Jobs    []domain.RefiningJob `json:"jobs"`
}

func (req RefineRequest) toService() refining.RefineRequest {
	return refining.RefineRequest{OwnerID: req.OwnerID, StackIDs: req.StackIDs, Cycles: req.Cycles}
}

// HandlePreview reports what a refining run would produce without consuming anything
// @Summary Preview refining
// @Tags refining
// @Accept json
// @Produce json
// @Param request body RefineRequest true "Batch and cycles"
// @Success 200 {object} refining.RunResult
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/refining/preview [post]
func (h *RefiningHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpRefinePreview, http.StatusOK,
		func(ctx context.Context, req RefineRequest) (*refining.RunResult, error) {
			return h.service.Preview(ctx, req.toService())
		},
		func(res *refining.RunResult) interface{} { return res },
	)
}

// HandleRefine consumes the batch and queues a refining job
// @Summary Start refining
// @Description Crucible-merge the stacks, consume them and queue a timed refining job
// @Tags refining
// @Accept json
// @Produce json
// @Param request body RefineRequest true "Batch and cycles"
// @Success 201 {object} RefiningJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/refining/jobs [post]
func (h *RefiningHandler) HandleRefine(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpRefine, http.StatusCreated,
		func(ctx context.Context, req RefineRequest) (*domain.RefiningJob, error) {
			return h.service.Refine(ctx, req.toService())
		},
		func(job *domain.RefiningJob) interface{} {
			return RefiningJobResponse{Message: MsgRefineQueued, Job: *job}
		},
	)
}

// HandleListJobs lists an owner's refining jobs
// @Summary List refining jobs
// @Tags refining
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} RefiningJobListResponse
// @Router /api/v1/refining/jobs [get]
func (h *RefiningHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}
	jobs, err := h.service.ListJobs(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, OpListRefiningJobs, err)
		return
	}
	respondJSON(w, http.StatusOK, RefiningJobListResponse{OwnerID: ownerID, Jobs: jobs})
}

// HandleGetJob returns one refining job
// @Summary Get refining job
// @Tags refining
// @Produce json
// @Param jobID path string true "Job ID"
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} RefiningJobResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/refining/jobs/{jobID} [get]
func (h *RefiningHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := GetPathParam(r, w, "jobID")
	if !ok {
		return
	}
	ownerID, ok := GetQueryParam(r, w, "owner_id")
	if !ok {
		return
	}
	job, err := h.service.GetJob(r.Context(), ownerID, jobID)
	if err != nil {
		respondServiceError(w, r, OpGetRefiningJob, err)
		return
	}
	respondJSON(w, http.StatusOK, RefiningJobResponse{Job: *job})
}

// HandleCollect credits a finished job's output to the owner
// @Summary Collect refining output
// @Tags refining
// @Accept json
// @Produce json
// @Param jobID path string true "Job ID"
// @Param request body JobActionRequest true "Owner"
// @Success 200 {object} RefiningJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/refining/jobs/{jobID}/collect [post]
func (h *RefiningHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, OpCollectRefining, MsgRefineCollected, h.service.Collect)
}

// HandleCancel abandons a job before its ETA. Consumed material is not refunded.
// @Summary Cancel refining job
// @Tags refining
// @Accept json
// @Produce json
// @Param jobID path string true "Job ID"
// @Param request body JobActionRequest true "Owner"
// @Success 200 {object} RefiningJobResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/refining/jobs/{jobID}/cancel [post]
func (h *RefiningHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, OpCancelRefining, MsgRefineCancelled, h.service.Cancel)
}

func (h *RefiningHandler) jobAction(
	w http.ResponseWriter,
	r *http.Request,
	opName, message string,
	action func(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error),
) {
	jobID, ok := GetPathParam(r, w, "jobID")
	if !ok {
		return
	}
	handleAction(w, r, opName, http.StatusOK,
		func(ctx context.Context, req JobActionRequest) (*domain.RefiningJob, error) {
			return action(ctx, req.OwnerID, jobID)
		},
		func(job *domain.RefiningJob) interface{} {
			return RefiningJobResponse{Message: message, Job: *job}
		},
	)
}
