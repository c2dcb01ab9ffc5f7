// Package response owns the error envelope shared by the REST handlers and the
// GraphQL extensions, plus small gin write helpers.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/user-directory-service/internal/repository"
	"github.com/maxviazov/user-directory-service/internal/service"
)

// Error codes as they appear in the envelope and in GraphQL extensions.
const (
	CodeInvalidInput  = "invalid_input"
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeConflict      = "conflict"
	CodeTimeout       = "timeout"
	CodeInternal      = "internal_error"
)

// ErrorPayload is the body of every non-2xx response.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

type errorKind struct {
	target  error
	status  int
	code    string
	message string
}

// kinds is checked in order; the first errors.Is match wins.
var kinds = []errorKind{
	{service.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, "one or more fields are invalid"},
	{repository.ErrNotFound, http.StatusNotFound, CodeNotFound, "user not found"},
	{repository.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists, "user already exists"},
	{repository.ErrConflict, http.StatusConflict, CodeConflict, "conflicting update"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout, "request timed out"},
}

// MapError reports the HTTP status and envelope for err. Anything unrecognized
// is a 500 whose message does not leak the cause.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}
	for _, k := range kinds {
		if !errors.Is(err, k.target) {
			continue
		}
		p := ErrorPayload{Error: k.code, Message: k.message}
		if k.code == CodeInvalidInput {
			p.FieldErrors = service.FieldErrors(err)
		}
		return k.status, p
	}
	return http.StatusInternalServerError, ErrorPayload{Error: CodeInternal, Message: "internal error"}
}

// WriteError writes the envelope for err and aborts the chain.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
