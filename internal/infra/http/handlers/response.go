package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/lead-console/internal/usecase"
)

type ErrorResponse struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUsecaseError maps the usecase error taxonomy onto HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var (
		verrs usecase.ValidationErrors
		verr  usecase.ValidationError
		de    *usecase.DomainError
		sne   *usecase.SimulatedNetworkError
	)

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_FAILED", Message: err.Error(), Fields: verrs})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_FAILED", Message: err.Error(), Fields: usecase.ValidationErrors{verr}})
	case usecase.IsImportError(err):
		writeErrorResponse(w, http.StatusBadRequest, "IMPORT_FAILED", err.Error())
	case errors.As(err, &de):
		writeErrorResponse(w, http.StatusNotFound, de.Code, de.Message)
	case errors.As(err, &sne):
		writeErrorResponse(w, http.StatusBadGateway, "REMOTE_FAILED", sne.Error()+". Please try again.")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
