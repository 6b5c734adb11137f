package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeTimeout, "store query timed out")
	wrapped := Wrap(fmt.Errorf("stage 2: %w", inner), CodeUnavailable, "participant lookup failed")

	assert.True(t, HasCode(wrapped, CodeTimeout))
	assert.Equal(t, "participant lookup failed", wrapped.Error())
}

func TestWrapAppliesCodeToPlainErrors(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUnavailable, "participant store unavailable")

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, cause)
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeBadRequest, "schemeID is required")

	assert.ErrorIs(t, err, &Error{Code: CodeBadRequest})
	assert.NotErrorIs(t, err, &Error{Code: CodeInternal})
}

func TestErrorFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeInternal}
	assert.Equal(t, "internal_error", err.Error())
}
