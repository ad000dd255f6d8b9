package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned in the response envelope. Each maps to exactly one
// HTTP status so every handler reports failures the same way.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeInvalidInvite = "INVALID_INVITE"
	CodeServer        = "SERVER_ERROR"
)

// AppError is the error type services return to handlers.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(message string, fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Fields: fields}
}

func NewFieldError(field, message string) *AppError {
	return NewValidationError("Validation failed", map[string]string{field: message})
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewInvalidInviteError(message string) *AppError {
	return &AppError{Code: CodeInvalidInvite, Message: message}
}

func NewServerError(message string) *AppError {
	return &AppError{Code: CodeServer, Message: message}
}

// ErrorResponse is the JSON envelope for every error reply.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation, CodeInvalidInvite:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as the standard envelope. Unknown error types are
// masked as SERVER_ERROR so internals never leak to a client.
func RespondError(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(statusForCode(appErr.Code), CreateErrorResponse(appErr.Code, appErr.Message, appErr.Fields))
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse(CodeServer, "operation could not be completed", nil))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	return RespondError(c, NewFieldError(field, message))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return RespondError(c, NewUnauthorizedError("Unauthorized access"))
}
