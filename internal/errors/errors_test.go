package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidation, http.StatusBadGateway},
		{CodeUpstream, http.StatusBadGateway},
		{CodeUpstreamTimeout, http.StatusGatewayTimeout},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := NotFoundf("movie %s not found", "603")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)

	wrapped := fmt.Errorf("get movie: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestError_Cause(t *testing.T) {
	err := UpstreamTimeout(context.DeadlineExceeded, "tmdb timed out")

	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "tmdb timed out: context deadline exceeded", err.Error())
	assert.Equal(t, http.StatusGatewayTimeout, err.HTTPStatus())
}

func TestError_WithDetailsCopies(t *testing.T) {
	base := InvalidInput("validation failed")
	detailed := base.WithDetails(map[string]string{"api_id": "is required"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"api_id": "is required"}, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)

	caused := detailed.WithCause(New("boom"))
	require.Error(t, Unwrap(caused))
	assert.Equal(t, detailed.Details, caused.Details)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(New("plain")))
	assert.Equal(t, CodeConflict, CodeOf(Wrap(New("locked"), CodeConflict, "database busy")))
	assert.Equal(t, CodeValidation, CodeOf(Validationf("bad field %s", "id")))
}
