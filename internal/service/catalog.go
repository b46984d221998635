package service

import (
	"context"
	"log/slog"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

// CatalogKind names a catalog in URLs.
type CatalogKind string

const (
	CatalogMovies CatalogKind = "movies"
	CatalogShows  CatalogKind = "shows"
	CatalogBooks  CatalogKind = "books"
)

// ParseCatalogKind accepts movies, shows or books.
func ParseCatalogKind(s string) (CatalogKind, error) {
	switch k := CatalogKind(s); k {
	case CatalogMovies, CatalogShows, CatalogBooks:
		return k, nil
	default:
		return "", domainerrors.InvalidInputf("unknown catalog %q", s)
	}
}

// MediaType returns the media type the catalog serves.
func (k CatalogKind) MediaType() domain.MediaType {
	switch k {
	case CatalogMovies:
		return domain.MediaTypeMovie
	case CatalogShows:
		return domain.MediaTypeTV
	default:
		return domain.MediaTypeBook
	}
}

// CatalogService exposes catalog search and detail lookups.
type CatalogService struct {
	catalogs catalog.Catalogs
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogs catalog.Catalogs, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalogs: catalogs, logger: logger}
}

// Search queries one catalog.
func (s *CatalogService) Search(ctx context.Context, kind CatalogKind, term string) ([]catalog.Result, error) {
	var (
		results []catalog.Result
		err     error
	)
	switch kind {
	case CatalogMovies:
		results, err = s.catalogs.Movies.SearchMovies(ctx, term)
	case CatalogShows:
		results, err = s.catalogs.Shows.SearchShows(ctx, term)
	case CatalogBooks:
		results, err = s.catalogs.Books.SearchBooks(ctx, term)
	default:
		return nil, domainerrors.InvalidInputf("unknown catalog %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []catalog.Result{}
	}
	s.logger.Debug("catalog searched", "catalog", kind, "results", len(results))
	return results, nil
}

// GetMovie returns a movie's detail record.
func (s *CatalogService) GetMovie(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	return s.catalogs.Movies.GetMovie(ctx, id)
}

// GetShow returns a show's detail record with its seasons.
func (s *CatalogService) GetShow(ctx context.Context, id string) (*catalog.ShowDetail, error) {
	return s.catalogs.Shows.GetShow(ctx, id)
}

// GetBook returns a book's detail record.
func (s *CatalogService) GetBook(ctx context.Context, id string) (*catalog.BookDetail, error) {
	return s.catalogs.Books.GetBook(ctx, id)
}
