package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown covers errors that match no other code
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal hides server-side failures from the caller
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is returned when a dependency failed and the caller should retry
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is returned when a request body fails binding rules
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired marks a missing required field
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat marks a field in the wrong shape, such as a bad email or slot time
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized means no usable admin credentials were sent
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden means the admin is known but may not do this
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired means the access token is past its expiry
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid means the token failed signature or claim checks
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked means the token was logged out or blacklisted
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	// ErrCodeNotFound means the enquiry, post, booking or other record does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists means a unique value such as a slug is taken
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict means the request clashes with current state, such as a booked slot
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict means the record changed since it was read
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState means the record's status does not allow the operation
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule means a domain rule rejected the request
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest covers malformed requests outside body validation
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput means a domain constructor rejected a value
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON means the body is not valid JSON
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge means the body exceeded the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited means the client exceeded its request budget
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// DomainCodeHTTPStatus maps module-specific domain codes, which are returned unchanged
var DomainCodeHTTPStatus = map[string]int{
	// booking
	"SLOT_UNAVAILABLE":       http.StatusConflict,
	"SLOT_NOT_OFFERED":       http.StatusBadRequest,
	"SLOT_TOO_SOON":          http.StatusBadRequest,
	"SLOT_TOO_FAR":           http.StatusBadRequest,
	"PAYMENT_PROVIDER_ERROR": http.StatusBadGateway,
	"INVALID_SIGNATURE":      http.StatusUnauthorized,

	// enquiry and notifications
	"ENQUIRY_NOT_DELIVERED": http.StatusBadGateway,
	"EMAIL_FAILED":          http.StatusBadGateway,
	"EMAIL_DISABLED":        http.StatusServiceUnavailable,

	// blog
	"COMMENT_TOO_DEEP":       http.StatusUnprocessableEntity,
	"MEDIA_TOO_LARGE":        http.StatusRequestEntityTooLarge,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,

	// identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"WEAK_PASSWORD":       http.StatusBadRequest,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* and TOKEN_* domain codes fall back to 400 and 401; anything else unknown is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps the generic shared domain codes to the ERR_ format
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"TOKEN_REVOKED":        ErrCodeTokenRevoked,
}

// NormalizeErrorCode converts a generic domain code to the standardized format.
// Module-specific codes such as SLOT_UNAVAILABLE pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
