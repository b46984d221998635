package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/catalog/cache"
	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

func TestMediaResolver_FetchSeason_RefreshesCachedShow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := cache.Open("", time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	fc := newFakeCatalog()
	resolver := NewMediaResolver(c.Wrap(fc.catalogs()), nil, logger)
	ctx := context.Background()

	_, err = resolver.Fetch(ctx, CatalogRef{MediaType: domain.MediaTypeTV, APIID: "1438", SeasonID: "3722"})
	require.NoError(t, err)

	// A new season airs after the show record was cached.
	show := fc.shows["1438"]
	show.Seasons = append(show.Seasons, catalog.Season{ID: "3724", SeasonNumber: 3, AirDate: "2004-09-19", EpisodeCount: 12})

	item, err := resolver.Fetch(ctx, CatalogRef{MediaType: domain.MediaTypeTV, APIID: "1438", SeasonID: "3724"})
	require.NoError(t, err)
	assert.Equal(t, "3724", item.APIID)
	require.NotNil(t, item.SeasonNumber)
	assert.Equal(t, 3, *item.SeasonNumber)
	assert.EqualValues(t, 2, fc.calls.Load())

	_, err = resolver.Fetch(ctx, CatalogRef{MediaType: domain.MediaTypeTV, APIID: "1438", SeasonID: "9999"})
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
	assert.EqualValues(t, 3, fc.calls.Load())
}
