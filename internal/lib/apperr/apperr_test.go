package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/apperr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", apperr.Validation("bad input"), 400},
		{"conflict error", apperr.Conflict("duplicate"), 409},
		{"unauthorized error", apperr.Unauthorized("no token"), 401},
		{"not found error", apperr.NotFound("missing"), 404},
		{"internal error", apperr.Internal("boom", errors.New("cause")), 500},
		{"untyped error", errors.New("plain"), 500},
		{"wrapped conflict", fmt.Errorf("op: %w", apperr.Conflict("duplicate")), 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, apperr.Status(tt.err))
		})
	}
}

func TestFrom(t *testing.T) {
	conflict := apperr.Conflict("Email already exists")
	got := apperr.From(fmt.Errorf("wrap: %w", conflict))
	assert.Equal(t, apperr.KindConflict, got.Kind)
	assert.Equal(t, "Email already exists", got.Message)

	// Нетипизированная ошибка не должна протекать к клиенту
	plain := apperr.From(errors.New("pq: connection refused"))
	assert.Equal(t, apperr.KindInternal, plain.Kind)
	assert.Equal(t, "Internal server error", plain.Message)
}

func TestInternal_Details(t *testing.T) {
	cause := errors.New("tx aborted")
	err := apperr.Internal("Failed to create user", cause)
	assert.Equal(t, "tx aborted", err.Details)
	assert.ErrorIs(t, err, cause)
}
