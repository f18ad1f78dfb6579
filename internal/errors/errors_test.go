package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "validation", err: ErrValidation, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "invalid credentials", err: ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized, expectedCode: "INVALID_CREDENTIALS"},
		{name: "not found", err: ErrNotFound, expectedStatus: http.StatusNotFound, expectedCode: "NOT_FOUND"},
		{name: "duplicate email", err: ErrDuplicateEmail, expectedStatus: http.StatusConflict, expectedCode: "DUPLICATE_EMAIL"},
		{name: "store timeout", err: ErrStoreTimeout, expectedStatus: http.StatusInternalServerError, expectedCode: "STORE_TIMEOUT"},
		{name: "store unavailable", err: ErrStoreUnavailable, expectedStatus: http.StatusInternalServerError, expectedCode: "STORE_UNAVAILABLE"},
		{name: "hashing failure", err: ErrHashingFailure, expectedStatus: http.StatusInternalServerError, expectedCode: "HASHING_FAILURE"},
		{name: "wrapped error maps by sentinel", err: fmt.Errorf("create user: %w", ErrDuplicateEmail), expectedStatus: http.StatusConflict, expectedCode: "DUPLICATE_EMAIL"},
		{name: "unknown error collapses to 500", err: errors.New("raw driver detail"), expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, he.StatusCode)
			assert.Equal(t, tt.expectedCode, he.Code)
		})
	}
}

// Internal error text must never reach the caller for unmapped errors.
func TestMapErrorToHTTP_HidesInternalDetails(t *testing.T) {
	he := MapErrorToHTTP(errors.New("Error 1045: Access denied for user"))
	resp := he.ToErrorResponse()
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, resp.Error, "1045")
}
