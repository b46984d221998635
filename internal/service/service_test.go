package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
	"github.com/mediadiet/mediadiet/internal/store/sqlite"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// fakeCatalog serves fixed detail records and counts detail lookups.
type fakeCatalog struct {
	mu     sync.Mutex
	movies map[string]*catalog.MovieDetail
	shows  map[string]*catalog.ShowDetail
	books  map[string]*catalog.BookDetail
	err    error
	calls  atomic.Int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		movies: map[string]*catalog.MovieDetail{
			"603": {
				ID:          "603",
				Title:       "The Matrix",
				ReleaseDate: "1999-03-31",
				PosterPath:  "/matrix.jpg",
				Runtime:     intPtr(136),
				Directors:   []catalog.Credit{{ID: "9339", Name: "Lana Wachowski"}, {ID: "9340", Name: "Lilly Wachowski"}},
			},
			"27205": {
				ID:          "27205",
				Title:       "Inception",
				ReleaseDate: "2010-07-15",
				PosterPath:  "/inception.jpg",
				Directors:   []catalog.Credit{{ID: "525", Name: "Christopher Nolan"}},
			},
		},
		shows: map[string]*catalog.ShowDetail{
			"1438": {
				ID:         "1438",
				Title:      "The Wire",
				PosterPath: "/wire.jpg",
				Studios:    []catalog.Credit{{ID: "49", Name: "HBO"}},
				Seasons: []catalog.Season{
					{ID: "3722", Name: "Season 1", SeasonNumber: 1, AirDate: "2002-06-02", EpisodeCount: 13, PosterPath: "/s1.jpg"},
					{ID: "3723", SeasonNumber: 2, AirDate: "2003-06-01", EpisodeCount: 12},
				},
			},
		},
		books: map[string]*catalog.BookDetail{
			"OL123W": {
				ID:               "OL123W",
				Title:            "Dune",
				FirstPublishYear: "1965",
				CoverID:          "8231856",
				Authors:          []catalog.Credit{{ID: "OL79034A", Name: "Frank Herbert"}},
			},
			"OL456W": {
				ID:      "OL456W",
				Title:   "Untitled Draft",
				Authors: []catalog.Credit{{ID: "OL1A", Name: "Anon"}},
			},
		},
	}
}

func (f *fakeCatalog) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCatalog) failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeCatalog) SearchMovies(_ context.Context, term string) ([]catalog.Result, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	var out []catalog.Result
	for _, m := range f.movies {
		if m.Title == term {
			out = append(out, catalog.Result{ID: m.ID, Title: m.Title})
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetMovie(_ context.Context, id string) (*catalog.MovieDetail, error) {
	f.calls.Add(1)
	if err := f.failure(); err != nil {
		return nil, err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, domainerrors.NotFoundf("movie %s not found", id)
	}
	return m, nil
}

func (f *fakeCatalog) SearchShows(context.Context, string) ([]catalog.Result, error) {
	return nil, f.failure()
}

func (f *fakeCatalog) GetShow(_ context.Context, id string) (*catalog.ShowDetail, error) {
	f.calls.Add(1)
	if err := f.failure(); err != nil {
		return nil, err
	}
	s, ok := f.shows[id]
	if !ok {
		return nil, domainerrors.NotFoundf("show %s not found", id)
	}
	return s, nil
}

func (f *fakeCatalog) SearchBooks(context.Context, string) ([]catalog.Result, error) {
	return nil, f.failure()
}

func (f *fakeCatalog) GetBook(_ context.Context, id string) (*catalog.BookDetail, error) {
	f.calls.Add(1)
	if err := f.failure(); err != nil {
		return nil, err
	}
	b, ok := f.books[id]
	if !ok {
		return nil, domainerrors.NotFoundf("book %s not found", id)
	}
	return b, nil
}

func (f *fakeCatalog) catalogs() catalog.Catalogs {
	return catalog.Catalogs{Movies: f, Shows: f, Books: f}
}

type testEnv struct {
	store    *sqlite.Store
	catalog  *fakeCatalog
	resolver *MediaResolver
	entries  *EntryService
	saved    *SavedService
	lists    *ListService
	stats    *StatsService
	social   *SocialService
	users    *UserService
}

func newTestEnv(t *testing.T, indexer MediaIndexer) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), 4, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fc := newFakeCatalog()
	v := validation.New()
	resolver := NewMediaResolver(fc.catalogs(), indexer, logger)

	return &testEnv{
		store:    s,
		catalog:  fc,
		resolver: resolver,
		entries:  NewEntryService(s, resolver, v, logger),
		saved:    NewSavedService(s, resolver, v, logger),
		lists:    NewListService(s, logger),
		stats:    NewStatsService(s, logger),
		social:   NewSocialService(s, logger),
		users:    NewUserService(s, v, logger),
	}
}

func (e *testEnv) user(t *testing.T, id, username, first, last string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Username: username, FirstName: first, LastName: last}
	require.NoError(t, e.store.EnsureUser(context.Background(), u))
	return u
}

// review stores a review with an explicit creation time, bypassing the
// catalog.
func (e *testEnv) review(t *testing.T, userID string, item *domain.MediaItem, consumed string, created *time.Time, stars *int) *domain.Review {
	t.Helper()
	ctx := context.Background()

	var r *domain.Review
	err := e.store.WithTx(ctx, func(tx store.Tx) error {
		resolved, err := e.resolver.Resolve(ctx, tx, item)
		if err != nil {
			return err
		}
		r = &domain.Review{
			UserID:       userID,
			MediaItemID:  resolved.ID,
			ConsumedDate: day(consumed),
			CreatedAt:    created,
			Stars:        stars,
		}
		return tx.CreateReview(ctx, r)
	})
	require.NoError(t, err)
	return r
}

func (e *testEnv) fetch(t *testing.T, ref CatalogRef) *domain.MediaItem {
	t.Helper()
	item, err := e.resolver.Fetch(context.Background(), ref)
	require.NoError(t, err)
	return item
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}
