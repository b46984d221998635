package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/auth"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

func TestUserService_EnsureUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	claims := &auth.AccessClaims{UserID: "usr-1", Username: "ada", FirstName: "Ada", LastName: "Lovelace"}
	user, err := env.users.EnsureUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.DisplayName())

	// Profile edits survive later logins; a renamed account follows the token.
	_, err = env.users.UpdateProfile(ctx, "usr-1", UpdateProfileInput{FirstName: strPtr("Augusta")})
	require.NoError(t, err)

	claims.Username = "countess"
	user, err = env.users.EnsureUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "countess", user.Username)
	assert.Equal(t, "Augusta", user.FirstName)

	_, err = env.users.EnsureUser(ctx, &auth.AccessClaims{})
	assert.Equal(t, domainerrors.CodeUnauthorized, domainerrors.CodeOf(err))
}

func TestUserService_Profile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.user(t, "usr-1", "ada", "Ada", "")

	updated, err := env.users.UpdateProfile(ctx, "usr-1", UpdateProfileInput{
		LastName:       strPtr("Lovelace"),
		Avatar:         strPtr("https://example.com/ada.png"),
		SoderberghMode: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.True(t, updated.SoderberghMode)

	got, err := env.users.GetProfile(ctx, "ADA")
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "https://example.com/ada.png", got.Avatar)
	assert.True(t, got.SoderberghMode)

	_, err = env.users.GetProfile(ctx, "nobody")
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))

	_, err = env.users.UpdateProfile(ctx, "usr-missing", UpdateProfileInput{SoderberghMode: boolPtr(true)})
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}
