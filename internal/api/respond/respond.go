// Package respond writes the JSON envelope every endpoint answers with:
// {"status": "success"|"error", "message": ..., "data": ...}.
package respond

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationEnvelope adds per-field errors to a failed envelope.
type ValidationEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, status int, msg string, data any) {
	JSON(w, status, Envelope{Status: StatusSuccess, Message: msg, Data: data})
}

// Error writes a failure envelope with null data.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Status: StatusError, Message: msg})
}

func Validation(w http.ResponseWriter, fields map[string][]string) {
	JSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{
		Status:  StatusError,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// PagedEnvelope is a list response with pagination metadata beside data.
type PagedEnvelope struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Pagination any    `json:"pagination"`
}

func Paged(w http.ResponseWriter, msg string, data, pagination any) {
	JSON(w, http.StatusOK, PagedEnvelope{Status: StatusSuccess, Message: msg, Data: data, Pagination: pagination})
}
