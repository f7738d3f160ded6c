package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"jcbcommunity/internal/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError writes a failure whose kind is derived from the status code.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: message, Kind: string(kindForStatus(statusCode))}, statusCode)
}

// WriteAppError maps an apperr kind to its HTTP status. Errors outside the
// apperr taxonomy are reported as 500 without leaking their text.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeJSON(w, ErrorResponse{Error: "internal server error", Kind: string(apperr.KindInternal)}, http.StatusInternalServerError)
		return
	}

	writeJSON(w, ErrorResponse{Error: appErr.Message, Kind: string(appErr.Kind)}, statusForKind(appErr.Kind))
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func kindForStatus(statusCode int) apperr.Kind {
	switch statusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return apperr.KindValidation
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized
	case http.StatusBadGateway:
		return apperr.KindUpstream
	}
	return apperr.KindInternal
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, data, statusCode)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
