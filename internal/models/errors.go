package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

func NewInvalidStatusError(status string) *AppError {
	return &AppError{
		Code:    CodeInvalidStatus,
		Message: "Invalid status",
		Fields:  []FieldError{{Field: "status", Message: fmt.Sprintf("%q is not one of accepted, rejected", status)}},
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
	}
}

func NewNotAuthenticatedError() *AppError {
	return &AppError{
		Code:    CodeNotAuthenticated,
		Message: "Not authenticated",
	}
}

func NewInvalidTokenError() *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "Invalid or expired token",
	}
}

func NewUserNotFoundError() *AppError {
	return &AppError{
		Code:    CodeUserNotFound,
		Message: "User not found",
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusUnprocessableEntity
	case CodeInvalidStatus, CodeBadRequest, CodeConflict:
		return fiber.StatusBadRequest
	case CodeNotAuthenticated, CodeForbidden:
		return fiber.StatusForbidden
	case CodeInvalidToken, CodeUserNotFound, CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError creates a standardized error response.
// Wrapped causes of internal errors are never echoed to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else if status >= fiber.StatusInternalServerError {
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  CodeInternal,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
