package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
)

func TestEntryService_AddEntry_Book(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "reader", "Ada", "Lovelace")

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "OL123W",
		ConsumedDate: "2024-02-10",
		Stars:        intPtr(4),
		Review:       "Spice.",
		Details:      domain.BookEntry{Audiobook: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", res.Title)
	assert.False(t, res.RemovedSaved)

	got, err := env.entries.GetEntry(ctx, res.ReviewID)
	require.NoError(t, err)
	require.NotNil(t, got.Stars)
	assert.Equal(t, 4, *got.Stars)
	assert.Equal(t, "Spice.", got.Text)
	assert.Equal(t, "2024-02-10", got.ConsumedDate.Format("2006-01-02"))
	assert.Equal(t, domain.MediaTypeBook, got.Item.MediaType)
	assert.Equal(t, "8231856", got.Item.CoverArt)
	assert.Equal(t, "1965", got.Item.ReleaseYear())
	assert.Equal(t, []string{"Frank Herbert"}, got.Item.CreatorNames())
	require.NotNil(t, got.Audiobook)
	assert.True(t, *got.Audiobook)
	assert.Nil(t, got.InTheater)
	assert.Nil(t, got.OnPlane)
}

func TestEntryService_AddEntry_BookYearFallback(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "reader", "", "")

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "OL456W",
		ConsumedDate: "2024-02-10",
		Details:      domain.BookEntry{FirstPublishedYear: "1931"},
	})
	require.NoError(t, err)

	got, err := env.entries.GetEntry(ctx, res.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, "1931", got.Item.ReleaseYear())
	assert.Nil(t, got.Stars)
}

func TestEntryService_AddEntry_TvSeason(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "viewer", "", "")

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "1438",
		ConsumedDate: "2024-03-01",
		Details:      domain.TvEntry{SeasonID: "3723", OnPlane: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Wire - Season 2", res.Title)

	got, err := env.entries.GetEntry(ctx, res.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, "3723", got.Item.APIID)
	require.NotNil(t, got.Item.Series)
	assert.Equal(t, "1438", got.Item.Series.APIID)
	assert.Equal(t, []string{"HBO"}, got.Item.CreatorNames())
	require.NotNil(t, got.Item.Length)
	assert.Equal(t, 12, *got.Item.Length)
	require.NotNil(t, got.OnPlane)
	assert.True(t, *got.OnPlane)

	// A second season of the same show reuses the series row.
	res2, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "1438",
		ConsumedDate: "2024-03-02",
		Details:      domain.TvEntry{SeasonID: "3722"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Wire - Season 1", res2.Title)

	got2, err := env.entries.GetEntry(ctx, res2.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, got.Item.SeriesID, got2.Item.SeriesID)
	assert.NotEqual(t, got.Item.ID, got2.Item.ID)
}

func TestEntryService_AddEntry_TvErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "viewer", "", "")

	tests := []struct {
		name     string
		apiID    string
		seasonID string
		code     domainerrors.Code
	}{
		{name: "missing season id", apiID: "1438", code: domainerrors.CodeInvalidInput},
		{name: "unknown season", apiID: "1438", seasonID: "999", code: domainerrors.CodeNotFound},
		{name: "unknown show", apiID: "1", seasonID: "3722", code: domainerrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.entries.AddEntry(ctx, AddEntryInput{
				UserID:       user.ID,
				APIID:        tt.apiID,
				ConsumedDate: "2024-03-01",
				Details:      domain.TvEntry{SeasonID: tt.seasonID},
			})
			require.Error(t, err)
			assert.Equal(t, tt.code, domainerrors.CodeOf(err))
		})
	}

	items, err := env.store.ListMediaItems(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEntryService_AddEntry_InvalidInput(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "viewer", "", "")

	tests := []struct {
		name string
		in   AddEntryInput
	}{
		{
			name: "bad date",
			in:   AddEntryInput{UserID: user.ID, APIID: "603", ConsumedDate: "03/01/2024", Details: domain.MovieEntry{}},
		},
		{
			name: "stars out of range",
			in:   AddEntryInput{UserID: user.ID, APIID: "603", ConsumedDate: "2024-03-01", Stars: intPtr(6), Details: domain.MovieEntry{}},
		},
		{
			name: "missing media type",
			in:   AddEntryInput{UserID: user.ID, APIID: "603", ConsumedDate: "2024-03-01"},
		},
		{
			name: "missing api id",
			in:   AddEntryInput{UserID: user.ID, ConsumedDate: "2024-03-01", Details: domain.MovieEntry{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.entries.AddEntry(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, domainerrors.CodeInvalidInput, domainerrors.CodeOf(err))
		})
	}
	assert.Zero(t, env.catalog.calls.Load())
}

func TestEntryService_AddEntry_CatalogErrorNotRetried(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "viewer", "", "")
	env.catalog.setErr(domainerrors.Upstream(fmt.Errorf("503"), "catalog unavailable"))

	_, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "603",
		ConsumedDate: "2024-03-01",
		Details:      domain.MovieEntry{},
	})
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeUpstream, domainerrors.CodeOf(err))
	assert.EqualValues(t, 1, env.catalog.calls.Load())
}

func TestEntryService_AddEntry_Concurrent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	const writers = 8
	users := make([]*domain.User, writers)
	for i := range users {
		users[i] = env.user(t, fmt.Sprintf("usr-%d", i), fmt.Sprintf("user%d", i), "", "")
	}

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.entries.AddEntry(ctx, AddEntryInput{
				UserID:       users[i].ID,
				APIID:        "603",
				ConsumedDate: "2024-03-01",
				Stars:        intPtr(5),
				Details:      domain.MovieEntry{InTheater: true},
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	items, err := env.store.ListMediaItems(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"Lana Wachowski", "Lilly Wachowski"}, items[0].CreatorNames())

	total := 0
	for _, u := range users {
		n, err := env.store.CountReviews(ctx, u.ID, domain.MediaTypeMovie)
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, writers, total)
}

func TestEntryService_AddEntry_PromotesSaved(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.user(t, "usr-1", "viewer", "", "")

	saved, err := env.saved.SaveForLater(ctx, SaveInput{UserID: user.ID, MediaType: domain.MediaTypeMovie, APIID: "603"})
	require.NoError(t, err)

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       user.ID,
		APIID:        "603",
		ConsumedDate: "2024-03-01",
		Details:      domain.MovieEntry{},
	})
	require.NoError(t, err)
	assert.True(t, res.RemovedSaved)
	assert.Equal(t, saved.MediaItemID, res.MediaItemID)

	_, err = env.store.GetSaved(ctx, saved.SavedItemID)
	assert.True(t, domainerrors.Is(err, store.ErrNotFound))
}

func TestEntryService_UpdateEntry(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner := env.user(t, "usr-1", "owner", "", "")
	other := env.user(t, "usr-2", "other", "", "")

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       owner.ID,
		APIID:        "603",
		ConsumedDate: "2024-03-01",
		Stars:        intPtr(3),
		Details:      domain.MovieEntry{},
	})
	require.NoError(t, err)

	t.Run("other owner is forbidden", func(t *testing.T) {
		_, err := env.entries.UpdateEntry(ctx, other.ID, res.ReviewID, UpdateEntryInput{Favorited: boolPtr(true)})
		require.Error(t, err)
		assert.Equal(t, domainerrors.CodeForbidden, domainerrors.CodeOf(err))
	})

	t.Run("missing review", func(t *testing.T) {
		_, err := env.entries.UpdateEntry(ctx, owner.ID, "rev-missing", UpdateEntryInput{Favorited: boolPtr(true)})
		require.Error(t, err)
		assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	})

	t.Run("updates mutable fields", func(t *testing.T) {
		updated, err := env.entries.UpdateEntry(ctx, owner.ID, res.ReviewID, UpdateEntryInput{
			ConsumedDate: strPtr("2024-04-01"),
			Stars:        intPtr(0),
			Favorited:    boolPtr(true),
			Review:       strPtr("Better the second time."),
			Audiobook:    boolPtr(true),
			OnPlane:      boolPtr(true),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Stars)

		got, err := env.entries.GetEntry(ctx, res.ReviewID)
		require.NoError(t, err)
		assert.Nil(t, got.Stars)
		assert.True(t, got.Favorited)
		assert.Equal(t, "Better the second time.", got.Text)
		assert.Equal(t, "2024-04-01", got.ConsumedDate.Format("2006-01-02"))
		assert.Nil(t, got.Audiobook, "audiobook does not apply to movies")
		require.NotNil(t, got.OnPlane)
		assert.True(t, *got.OnPlane)
		assert.Equal(t, res.MediaItemID, got.MediaItemID)
	})
}

func TestEntryService_DeleteEntry(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	owner := env.user(t, "usr-1", "owner", "", "")
	other := env.user(t, "usr-2", "other", "", "")

	res, err := env.entries.AddEntry(ctx, AddEntryInput{
		UserID:       owner.ID,
		APIID:        "1438",
		ConsumedDate: "2024-03-01",
		Details:      domain.TvEntry{SeasonID: "3722"},
	})
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		result := env.entries.DeleteEntry(ctx, owner.ID, "rev-missing")
		assert.False(t, result.OK)
		assert.Equal(t, domainerrors.CodeNotFound, result.Code)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("other owner", func(t *testing.T) {
		result := env.entries.DeleteEntry(ctx, other.ID, res.ReviewID)
		assert.False(t, result.OK)
		assert.Equal(t, domainerrors.CodeForbidden, result.Code)
	})

	t.Run("owner", func(t *testing.T) {
		result := env.entries.DeleteEntry(ctx, owner.ID, res.ReviewID)
		assert.True(t, result.OK)
		assert.Equal(t, "The Wire - Season 1", result.Title)

		_, err := env.entries.GetEntry(ctx, res.ReviewID)
		assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	})
}
