package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/validation"
)

type testRequest struct {
	MediaType    string `json:"mediaType" validate:"required,oneof=MOVIE BOOK TV"`
	SeasonID     string `json:"seasonId" validate:"required_if=MediaType TV"`
	ConsumedDate string `json:"consumedDate" validate:"required,dateonly"`
	Stars        *int   `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
}

func intPtr(i int) *int { return &i }

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{MediaType: "MOVIE", ConsumedDate: "2024-03-01", Stars: intPtr(4)})
	assert.NoError(t, err)

	err = v.Validate(testRequest{MediaType: "TV", SeasonID: "3624", ConsumedDate: "2024-03-01"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
	}{
		{
			name:      "unknown media type",
			req:       testRequest{MediaType: "GAME", ConsumedDate: "2024-03-01"},
			wantField: "mediaType",
		},
		{
			name:      "tv without season",
			req:       testRequest{MediaType: "TV", ConsumedDate: "2024-03-01"},
			wantField: "seasonId",
		},
		{
			name:      "slashed date",
			req:       testRequest{MediaType: "BOOK", ConsumedDate: "03/01/2024"},
			wantField: "consumedDate",
		},
		{
			name:      "impossible date",
			req:       testRequest{MediaType: "BOOK", ConsumedDate: "2024-02-31"},
			wantField: "consumedDate",
		},
		{
			name:      "stars out of range",
			req:       testRequest{MediaType: "BOOK", ConsumedDate: "2024-03-01", Stars: intPtr(6)},
			wantField: "stars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeInvalidInput, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
			assert.Contains(t, domainErr.Message, tt.wantField)
		})
	}
}

func TestValidator_ValidateUpstream(t *testing.T) {
	v := validation.New()

	type upstreamMovie struct {
		ID    int    `json:"id" validate:"required"`
		Title string `json:"title" validate:"required"`
	}

	err := v.ValidateUpstream(upstreamMovie{ID: 603})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, http.StatusBadGateway, domainerrors.CodeOf(err).HTTPStatus())
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{MediaType: "MOVIE"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "consumedDate")
	assert.NotContains(t, err.Error(), "ConsumedDate")
}
