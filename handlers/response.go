package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"overtime-audit/models"
	"overtime-audit/wizard"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Error: &ErrorDetail{Code: code, Message: message}})
}

// handleError maps core errors to HTTP responses.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *models.ValidationError
	var serr *models.StorageError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, Response{Error: &ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: verr.Error(),
			Line:    verr.Line,
			Field:   verr.Field,
		}})
	case errors.Is(err, wizard.ErrSessionNotFound):
		fail(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, wizard.ErrInvalidTransition):
		fail(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.As(err, &tooLarge):
		fail(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	case errors.As(err, &serr):
		logger.Error("storage failure", slog.String("op", serr.Op), slog.Any("error", serr.Err))
		fail(w, http.StatusInternalServerError, "STORAGE_ERROR", "The record store is unavailable")
	default:
		logger.Error("unexpected error", slog.Any("error", err))
		fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}
