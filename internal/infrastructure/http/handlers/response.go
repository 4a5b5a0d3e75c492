// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Validator validates decoded request bodies
type Validator interface {
	ValidateStruct(s interface{}) error
}

// Metrics receives the counters recorded at the HTTP edge
type Metrics interface {
	ShoppingListComputed(entries int)
	InventoryMutation(operation string)
}

type noopMetrics struct{}

func (noopMetrics) ShoppingListComputed(int) {}
func (noopMetrics) InventoryMutation(string) {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func writeSuccess(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}, message string) {
	writeJSON(w, logger, status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError maps err onto the envelope. Errors that are not AppErrors are
// logged and reported as internal errors without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.Wrap(err, "Internal server error")

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Debug("Request rejected", fields...)
	}

	message := appErr.Message
	if appErr.Details != "" && status < http.StatusInternalServerError {
		message = appErr.Message + ": " + appErr.Details
	}

	var data interface{}
	if len(appErr.Metadata) > 0 {
		data = appErr.Metadata
	}

	writeJSON(w, logger, status, APIResponse{
		Success: false,
		Data:    data,
		Error:   string(appErr.Code),
		Message: message,
	})
}

// NotFound answers unmatched routes with the error envelope
func NotFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, logger, apperrors.NewNotFoundError("route"))
	}
}

// decodeJSON reads a single JSON object into dst and validates it
func decodeJSON(r *http.Request, validator Validator, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.NewBadRequestError("Request body is required")
		case errors.As(err, &maxBytes):
			return apperrors.NewBadRequestError("Request body too large")
		default:
			return apperrors.NewBadRequestError("Malformed JSON body").WithCause(err)
		}
	}
	if decoder.More() {
		return apperrors.NewBadRequestError("Request body must contain a single JSON object")
	}

	return validator.ValidateStruct(dst)
}

// idParam parses the {id} URL parameter
func idParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError("Invalid id").WithMetadata("id", raw)
	}
	return id, nil
}
