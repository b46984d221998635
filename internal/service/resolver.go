package service

import (
	"context"
	"log/slog"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
)

// MediaIndexer receives media items after they are stored.
type MediaIndexer interface {
	IndexMedia(ctx context.Context, item *domain.MediaItem) error
}

type noopIndexer struct{}

func (noopIndexer) IndexMedia(context.Context, *domain.MediaItem) error { return nil }

// CatalogRef identifies a work in an external catalog.
type CatalogRef struct {
	MediaType domain.MediaType
	// APIID is the movie id, the Open Library work id, or the TV show id.
	APIID string
	// SeasonID selects the season for TV.
	SeasonID string
	// FirstPublishedYear fills in a book's release year when the catalog
	// has none.
	FirstPublishedYear string
}

// MediaResolver turns catalog records into stored media items. Fetch runs
// outside any transaction; Resolve connects or creates the dimension rows
// (creators, series) and then the item inside one.
type MediaResolver struct {
	catalogs catalog.Catalogs
	indexer  MediaIndexer
	logger   *slog.Logger
}

// NewMediaResolver creates a resolver. A nil indexer disables indexing.
func NewMediaResolver(catalogs catalog.Catalogs, indexer MediaIndexer, logger *slog.Logger) *MediaResolver {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &MediaResolver{catalogs: catalogs, indexer: indexer, logger: logger}
}

// Fetch loads the catalog detail for ref and maps it to an unsaved media
// item. For TV the season becomes the item and the show its series.
func (r *MediaResolver) Fetch(ctx context.Context, ref CatalogRef) (*domain.MediaItem, error) {
	switch ref.MediaType {
	case domain.MediaTypeMovie:
		return r.fetchMovie(ctx, ref)
	case domain.MediaTypeBook:
		return r.fetchBook(ctx, ref)
	case domain.MediaTypeTV:
		return r.fetchSeason(ctx, ref)
	default:
		return nil, domainerrors.InvalidInputf("unknown media type %q", ref.MediaType)
	}
}

func (r *MediaResolver) fetchMovie(ctx context.Context, ref CatalogRef) (*domain.MediaItem, error) {
	movie, err := r.catalogs.Movies.GetMovie(ctx, ref.APIID)
	if err != nil {
		return nil, err
	}
	return &domain.MediaItem{
		APIID:       movie.ID,
		MediaType:   domain.MediaTypeMovie,
		Title:       movie.Title,
		CoverArt:    movie.PosterPath,
		ReleaseDate: movie.ReleaseDate,
		Length:      movie.Runtime,
		Creators:    creatorsFrom(movie.Directors, domain.CreatorTypeDirector),
	}, nil
}

func (r *MediaResolver) fetchBook(ctx context.Context, ref CatalogRef) (*domain.MediaItem, error) {
	book, err := r.catalogs.Books.GetBook(ctx, ref.APIID)
	if err != nil {
		return nil, err
	}
	release := book.FirstPublishYear
	if release == "" {
		release = ref.FirstPublishedYear
	}
	return &domain.MediaItem{
		APIID:       book.ID,
		MediaType:   domain.MediaTypeBook,
		Title:       book.Title,
		CoverArt:    book.CoverID,
		ReleaseDate: release,
		Creators:    creatorsFrom(book.Authors, domain.CreatorTypeAuthor),
	}, nil
}

func (r *MediaResolver) fetchSeason(ctx context.Context, ref CatalogRef) (*domain.MediaItem, error) {
	if ref.SeasonID == "" {
		return nil, domainerrors.InvalidInputWithDetails("validation failed: season_id is required",
			map[string]string{"season_id": "is required"})
	}

	show, err := r.catalogs.Shows.GetShow(ctx, ref.APIID)
	if err != nil {
		return nil, err
	}
	season, ok := show.Season(ref.SeasonID)
	if refresher, stale := r.catalogs.Shows.(catalog.ShowRefresher); !ok && stale {
		r.logger.Debug("season missing from show record, refreshing", "show", ref.APIID, "season", ref.SeasonID)
		if show, err = refresher.RefreshShow(ctx, ref.APIID); err != nil {
			return nil, err
		}
		season, ok = show.Season(ref.SeasonID)
	}
	if !ok {
		return nil, domainerrors.NotFoundf("season %s not found for show %s", ref.SeasonID, show.ID)
	}

	number := season.SeasonNumber
	episodes := season.EpisodeCount
	return &domain.MediaItem{
		APIID:        season.ID,
		MediaType:    domain.MediaTypeTV,
		Title:        season.Name,
		CoverArt:     season.PosterPath,
		ReleaseDate:  season.AirDate,
		Length:       &episodes,
		SeasonNumber: &number,
		Series: &domain.TvSeries{
			APIID:    show.ID,
			Title:    show.Title,
			CoverArt: show.PosterPath,
		},
		Creators: creatorsFrom(show.Studios, domain.CreatorTypeStudio),
	}, nil
}

func creatorsFrom(credits []catalog.Credit, ct domain.CreatorType) []domain.Creator {
	out := make([]domain.Creator, 0, len(credits))
	for _, c := range credits {
		out = append(out, domain.Creator{APIID: c.ID, CreatorType: ct, Name: c.Name})
	}
	return out
}

// Resolve connects or creates the fetched item and everything it references
// inside tx. It returns a stored copy; fetched is not modified so the same
// record can be resolved again when the transaction is retried.
func (r *MediaResolver) Resolve(ctx context.Context, tx store.Tx, fetched *domain.MediaItem) (*domain.MediaItem, error) {
	item := *fetched
	item.ID = ""
	item.SeriesID = ""

	item.Creators = make([]domain.Creator, len(fetched.Creators))
	for i, c := range fetched.Creators {
		c.ID = ""
		if err := tx.UpsertCreator(ctx, &c); err != nil {
			return nil, err
		}
		item.Creators[i] = c
	}

	if fetched.Series != nil {
		series := *fetched.Series
		series.ID = ""
		if err := tx.UpsertSeries(ctx, &series); err != nil {
			return nil, err
		}
		item.Series = &series
	}

	if err := tx.UpsertMediaItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Index adds a stored item to the search index. Failures are logged only.
func (r *MediaResolver) Index(ctx context.Context, item *domain.MediaItem) {
	if err := r.indexer.IndexMedia(ctx, item); err != nil {
		r.logger.Warn("failed to index media item", "media_item_id", item.ID, "error", err)
	}
}
