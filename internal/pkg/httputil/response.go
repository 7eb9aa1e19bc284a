// Package httputil holds the shared JSON response envelope helpers for the
// landing API.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/kavvi/landing-backend/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope for all API errors. Code is
// the machine-readable rejection kind the frontend keys its messages on.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("response encode failed", "error", err.Error())
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes a JSON error envelope with the given status, code and
// user-facing message.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: message, Code: code})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusBadRequest, code, message)
}

// InternalError writes a 500 error. The real error is logged; the client
// receives only the generic Portuguese message (never leak internals).
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("internal server error", "error", err.Error())
	Error(w, http.StatusInternalServerError, "server_error",
		"Erro interno. Tente novamente em alguns instantes")
}

// Decode reads JSON from the request body into dst.
// Returns false and writes a 400 response if parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid_request", "Requisição inválida")
		return false
	}
	return true
}
