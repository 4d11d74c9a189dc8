package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrPermission     = errors.New("permission denied")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrLocked         = errors.New("locked")
	ErrStorageCorrupt = errors.New("storage corrupt")
	ErrInternal       = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Fields    map[string]string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

// NewValidation reports one message per offending field so the caller can render
// each next to its input.
func NewValidation(fields map[string]string) *AppError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	e := NewAppError(ErrInvalidInput, "Validation failed", strings.Join(parts, "; "), nil)
	e.Fields = fields
	return e
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewLocked(resource, until string) *AppError {
	msg := fmt.Sprintf("%s is temporarily locked", resource)
	details := fmt.Sprintf("try again after %s", until)
	return NewAppError(ErrLocked, msg, details, nil)
}

func NewStorageCorrupt(key string, err error) *AppError {
	return NewAppError(ErrStorageCorrupt, "Stored value is unreadable", fmt.Sprintf("key '%s' holds an invalid payload", key), err)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrLocked):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	body := gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	return body
}
