package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCodeToResponse(t *testing.T) {
	// domain code as raised, code on the wire, HTTP status
	cases := []struct {
		domain string
		wire   string
		status int
	}{
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"INVALID_INPUT", ErrCodeInvalidInput, http.StatusBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"UNAUTHORIZED", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"TOKEN_EXPIRED", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"TOKEN_REVOKED", ErrCodeTokenRevoked, http.StatusUnauthorized},
		{"INTERNAL_ERROR", ErrCodeInternal, http.StatusInternalServerError},

		{"SLOT_UNAVAILABLE", "SLOT_UNAVAILABLE", http.StatusConflict},
		{"SLOT_TOO_SOON", "SLOT_TOO_SOON", http.StatusBadRequest},
		{"PAYMENT_PROVIDER_ERROR", "PAYMENT_PROVIDER_ERROR", http.StatusBadGateway},
		{"INVALID_SIGNATURE", "INVALID_SIGNATURE", http.StatusUnauthorized},
		{"ENQUIRY_NOT_DELIVERED", "ENQUIRY_NOT_DELIVERED", http.StatusBadGateway},
		{"MEDIA_TOO_LARGE", "MEDIA_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"UNSUPPORTED_MEDIA_TYPE", "UNSUPPORTED_MEDIA_TYPE", http.StatusUnsupportedMediaType},
		{"INVALID_CREDENTIALS", "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", "ACCOUNT_LOCKED", http.StatusForbidden},

		// unlisted codes fall back on their prefix
		{"INVALID_EMAIL", "INVALID_EMAIL", http.StatusBadRequest},
		{"INVALID_SLUG", "INVALID_SLUG", http.StatusBadRequest},
		{"TOKEN_SOMETHING_NEW", "TOKEN_SOMETHING_NEW", http.StatusUnauthorized},
		{"UNKNOWN_CODE", "UNKNOWN_CODE", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.domain, func(t *testing.T) {
			wire := NormalizeErrorCode(tc.domain)
			assert.Equal(t, tc.wire, wire)
			assert.Equal(t, tc.status, GetHTTPStatus(wire))
		})
	}

	t.Run("wire codes are stable", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
		assert.Equal(t, http.StatusRequestEntityTooLarge, GetHTTPStatus(ErrCodeRequestTooLarge))
		assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeRateLimited))
		assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeForbidden))
	})

	t.Run("every mapped code has a status", func(t *testing.T) {
		for domain, wire := range LegacyErrorCodeMapping {
			assert.Contains(t, ErrorCodeHTTPStatus, wire, "%s maps to %s", domain, wire)
		}
	})
}

func TestErrorResponses(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.WithinRange(t, resp.Error.Timestamp, before, time.Now())

	resp = NewErrorResponseWithRequestID("SLOT_UNAVAILABLE", "slot taken", "req-123")
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)

	resp = NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated", "req-001", "https://docs.example.com/auth")
	assert.Equal(t, "https://docs.example.com/auth", resp.Error.Help)

	resp = NewValidationErrorResponse("Validation failed", "req-789", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "date", Message: "This field is required"},
	})
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestErrorResponseOmitsEmptyParts(t *testing.T) {
	data, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "Booking not found", "req-test-123"))
	require.NoError(t, err)

	body := string(data)
	assert.NotContains(t, body, `"data"`)
	assert.NotContains(t, body, `"details"`)
	assert.Contains(t, body, `"request_id":"req-test-123"`)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	cases := []struct {
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, DefaultPageSize},
		{100, -1, 5, DefaultPageSize},
	}
	for _, tc := range cases {
		resp := NewSuccessResponseWithMeta(nil, tc.total, 1, tc.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tc.wantPages, resp.Meta.TotalPages, "total=%d size=%d", tc.total, tc.pageSize)
		assert.Equal(t, tc.wantSize, resp.Meta.PageSize)
	}
}
