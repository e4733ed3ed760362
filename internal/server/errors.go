package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates a new APIError with the given parameters
func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// ErrNoFile is returned when the request carries no "file" part.
func ErrNoFile() *APIError {
	return NewAPIError(http.StatusBadRequest, "NO_FILE", "No file uploaded")
}

// ErrNoFileSelected is returned when the "file" part has an empty filename.
func ErrNoFileSelected() *APIError {
	return NewAPIError(http.StatusBadRequest, "NO_FILE_SELECTED", "No file selected")
}

// ErrInvalidRequest wraps a request that could not be parsed.
func ErrInvalidRequest(err error) *APIError {
	e := NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	e.Details = err.Error()
	return e
}

// ErrInternal wraps an unexpected server-side failure.
func ErrInternal(err error) *APIError {
	e := NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	e.Details = err.Error()
	return e
}
