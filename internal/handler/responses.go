package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Headers are already sent, so an encoding failure can only be logged
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgAuthFailedError     = "Authentication failed. Please check your API key."
	ErrMsgResourceNotFoundErr = "Resource not found."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."
	ErrMsgBusyError           = "The request conflicted with another one. Please retry."

	// Material messages
	ErrMsgInsufficientMaterialError = "Not enough material in that stack"
	ErrMsgIncompatibleBatchError    = "Those stacks cannot be combined"
	ErrMsgInvalidQuantityError      = "Invalid quantity"
	ErrMsgUnknownMaterialError      = "Unknown material type"
	ErrMsgStackNotFoundError        = "Material stack not found"
	ErrMsgNotOwnerError             = "That stack belongs to someone else"

	// Purification messages
	ErrMsgInvalidRiskModeError = "Invalid risk mode. Use safe, standard, aggressive or yolo"

	// Manufacturing and job messages
	ErrMsgBlueprintNotFoundError = "Blueprint not found"
	ErrMsgJobNotFoundError       = "Job not found"
	ErrMsgJobNotCancellableError = "That job can no longer be cancelled"
	ErrMsgJobNotCompleteError    = "That job is not finished yet"
	ErrMsgJobAlreadyClaimedError = "That job has already been collected"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Errors that match no sentinel become a generic 500 so internal details do not leak.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientMaterial):
		return http.StatusBadRequest, ErrMsgInsufficientMaterialError
	case errors.Is(err, domain.ErrIncompatibleBatch):
		return http.StatusBadRequest, ErrMsgIncompatibleBatchError
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, ErrMsgInvalidQuantityError
	case errors.Is(err, domain.ErrInvalidRiskMode):
		return http.StatusBadRequest, ErrMsgInvalidRiskModeError
	case errors.Is(err, domain.ErrUnknownMaterialType):
		return http.StatusBadRequest, ErrMsgUnknownMaterialError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrStackNotFound):
		return http.StatusNotFound, ErrMsgStackNotFoundError
	case errors.Is(err, domain.ErrBlueprintNotFound):
		return http.StatusNotFound, ErrMsgBlueprintNotFoundError
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, ErrMsgJobNotFoundError
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, ErrMsgNotOwnerError
	case errors.Is(err, domain.ErrJobNotCancellable):
		return http.StatusConflict, ErrMsgJobNotCancellableError
	case errors.Is(err, domain.ErrJobNotComplete):
		return http.StatusConflict, ErrMsgJobNotCompleteError
	case errors.Is(err, domain.ErrJobAlreadyClaimed):
		return http.StatusConflict, ErrMsgJobAlreadyClaimedError
	case errors.Is(err, domain.ErrDeadlockDetected):
		return http.StatusServiceUnavailable, ErrMsgBusyError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
