package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"not found", NewNotFound("account", "a1"), ErrorTypeNotFound},
		{"validation", NewValidationFailed("email", "required"), ErrorTypeValidation},
		{"malformed id", NewMalformedID("id", "nope"), ErrorTypeValidation},
		{"reference missing", NewReferenceMissing("membershipTierId", "membership tier", "t1"), ErrorTypeValidation},
		{"duplicate profile", NewDuplicateProfile("a1"), ErrorTypeValidation},
		{"self follow", NewSelfFollow("a1"), ErrorTypeValidation},
		{"conflict", NewConflict("edge already exists"), ErrorTypeConflict},
		{"sink", NewSinkFailed("nats", fmt.Errorf("boom")), ErrorTypeSink},
		{"config", NewConfigMissingRequired("NEO4J_USER"), ErrorTypeConfig},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("post", "p1")), ErrorTypeNotFound},
		{"plain", fmt.Errorf("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("account", "a1")))
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsValidation(NewSelfFollow("a1")))
	assert.True(t, IsConflict(NewConflict("edge already absent")))
	assert.False(t, IsConflict(NewNotFound("account", "a1")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewSinkFailed("nats", fmt.Errorf("timeout"))))
	assert.False(t, IsRetryable(NewNotFound("account", "a1")))
	assert.False(t, IsRetryable(NewConflict("edge already exists")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFound("account", "a1")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewDuplicateProfile("a1")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewConflict("edge already exists")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
}

func TestBaseError_Message(t *testing.T) {
	err := NewSinkFailed("neo4j", fmt.Errorf("connection refused"))
	assert.Equal(t, "[sink] sink neo4j failed: connection refused", err.Error())
	assert.EqualError(t, NewNotFound("post", "p1"), "[not_found] post not found: p1")
}
