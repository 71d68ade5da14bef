package handler

import (
	"net/http"

	"github.com/mcoot/openplay-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeForbidden          = apierr.CodeForbidden
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeSessionFull        = apierr.CodeSessionFull
	CodeInvalidConfig      = apierr.CodeInvalidConfig
	CodePlayerNotFound     = apierr.CodePlayerNotFound
	CodeNoPlayers          = apierr.CodeNoPlayers
	CodeInvalidCourt       = apierr.CodeInvalidCourt
	CodeCourtIncomplete    = apierr.CodeCourtIncomplete
	CodeInvalidTeam        = apierr.CodeInvalidTeam
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
