package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/entry"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/service"
)

func TestFollowAndFeed(t *testing.T) {
	ts := setupTestServer(t, Options{})
	alice := ts.bearer(t, "usr-1", "alice")
	bob := ts.bearer(t, "usr-2", "bob")

	// Bob needs a profile before he can be followed.
	require.Equal(t, http.StatusOK, ts.api.Get("/api/v1/me", bob).Code)
	ts.addEntry(t, bob, map[string]any{"media_type": "BOOK", "api_id": "OL123W", "consumed_date": "2024-02-02"})

	resp := ts.api.Get("/api/v1/feed", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[entry.Result[entry.Entry]](t, resp.Body.Bytes()).Items)

	resp = ts.api.Post("/api/v1/users/alice/follow", alice)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(domainerrors.CodeInvalidInput), decode[errorBody](t, resp.Body.Bytes()).Code)

	for range 2 {
		resp = ts.api.Post("/api/v1/users/bob/follow", alice)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Equal(t, "bob", decode[UserResponse](t, resp.Body.Bytes()).Username)
	}

	resp = ts.api.Get("/api/v1/feed", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	feed := decode[entry.Result[entry.Entry]](t, resp.Body.Bytes())
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Dune", feed.Items[0].Title)
	assert.Equal(t, "bob", feed.Items[0].Username)

	resp = ts.api.Get("/api/v1/users/bob/follows", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	summary := decode[service.FollowersSummary](t, resp.Body.Bytes())
	assert.Equal(t, 1, summary.FollowedBy)
	assert.Equal(t, "alice", summary.Followers)

	resp = ts.api.Delete("/api/v1/users/bob/follow", alice)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/users/bob/follow", alice)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
