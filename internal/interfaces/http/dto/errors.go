package dto

import (
	"net/http"
	"strings"
)

// General error codes used by handlers directly
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "ALREADY_EXISTS"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	"INVALID_INPUT": http.StatusBadRequest,
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Upstream platform failures
	"UPSTREAM_UNAVAILABLE": http.StatusBadGateway,
	"TASK_FAILED":          http.StatusBadGateway,
	"TIMEOUT":              http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Entity validation codes (INVALID_EMAIL, WEAK_PASSWORD, ...) all map to
// 400; anything unrecognized is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "WEAK_") || strings.HasPrefix(code, "EMPTY_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
