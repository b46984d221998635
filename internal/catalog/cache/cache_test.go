package cache

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/catalog"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

type countingBooks struct {
	calls atomic.Int32
	err   error
}

func (c *countingBooks) SearchBooks(context.Context, string) ([]catalog.Result, error) {
	c.calls.Add(1)
	return []catalog.Result{{ID: "OL1W", Title: "Dune"}}, nil
}

func (c *countingBooks) GetBook(_ context.Context, id string) (*catalog.BookDetail, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &catalog.BookDetail{ID: id, Title: "Dune", Authors: []catalog.Credit{{ID: "OL1A", Name: "Frank Herbert"}}}, nil
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBooks_CachesDetail(t *testing.T) {
	store := openTestStore(t)
	upstream := &countingBooks{}
	books := store.Wrap(catalog.Catalogs{Books: upstream}).Books

	first, err := books.GetBook(context.Background(), "OL1W")
	require.NoError(t, err)
	second, err := books.GetBook(context.Background(), "OL1W")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Frank Herbert", second.Authors[0].Name)
	assert.EqualValues(t, 1, upstream.calls.Load())
}

func TestBooks_SearchNotCached(t *testing.T) {
	store := openTestStore(t)
	upstream := &countingBooks{}
	books := store.Wrap(catalog.Catalogs{Books: upstream}).Books

	_, _ = books.SearchBooks(context.Background(), "dune")
	_, _ = books.SearchBooks(context.Background(), "dune")
	assert.EqualValues(t, 2, upstream.calls.Load())
}

func TestBooks_ErrorsNotCached(t *testing.T) {
	store := openTestStore(t)
	upstream := &countingBooks{err: domainerrors.NotFound("no such work")}
	books := store.Wrap(catalog.Catalogs{Books: upstream}).Books

	_, err := books.GetBook(context.Background(), "OL404")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = books.GetBook(context.Background(), "OL404")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.EqualValues(t, 2, upstream.calls.Load())
}

type growingShows struct {
	calls   atomic.Int32
	seasons []catalog.Season
}

func (g *growingShows) SearchShows(context.Context, string) ([]catalog.Result, error) {
	return nil, nil
}

func (g *growingShows) GetShow(_ context.Context, id string) (*catalog.ShowDetail, error) {
	g.calls.Add(1)
	return &catalog.ShowDetail{ID: id, Title: "Game of Thrones", Seasons: g.seasons}, nil
}

func TestShows_RefreshReplacesStaleSeasons(t *testing.T) {
	store := openTestStore(t)
	upstream := &growingShows{seasons: []catalog.Season{{ID: "S1", SeasonNumber: 1}}}
	shows := store.Wrap(catalog.Catalogs{Shows: upstream}).Shows
	ctx := context.Background()

	first, err := shows.GetShow(ctx, "1399")
	require.NoError(t, err)
	require.Len(t, first.Seasons, 1)

	upstream.seasons = append(upstream.seasons, catalog.Season{ID: "S2", SeasonNumber: 2})

	cached, err := shows.GetShow(ctx, "1399")
	require.NoError(t, err)
	_, ok := cached.Season("S2")
	assert.False(t, ok)

	refresher, ok := shows.(catalog.ShowRefresher)
	require.True(t, ok)
	fresh, err := refresher.RefreshShow(ctx, "1399")
	require.NoError(t, err)
	_, ok = fresh.Season("S2")
	assert.True(t, ok)

	after, err := shows.GetShow(ctx, "1399")
	require.NoError(t, err)
	assert.Len(t, after.Seasons, 2)
	assert.EqualValues(t, 2, upstream.calls.Load())
}
