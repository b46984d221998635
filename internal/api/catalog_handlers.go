package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/service"
)

func (s *Server) registerCatalogRoutes() {
	for _, kind := range []service.CatalogKind{service.CatalogMovies, service.CatalogShows, service.CatalogBooks} {
		register(s, huma.Operation{
			OperationID: "searchCatalog-" + string(kind),
			Method:      http.MethodGet,
			Path:        "/api/v1/catalog/" + string(kind) + "/search",
			Summary:     "Search " + string(kind),
			Description: "Searches the external " + string(kind) + " catalog",
			Tags:        []string{"Catalog"},
			Security:    []map[string][]string{{"bearer": {}}},
		}, func(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
			return s.handleSearchCatalog(ctx, kind, input)
		})
	}

	register(s, huma.Operation{
		OperationID: "getCatalogMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns a movie's catalog record with its directors",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCatalogMovie)

	register(s, huma.Operation{
		OperationID: "getCatalogShow",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/shows/{id}",
		Summary:     "Get show",
		Description: "Returns a TV show's catalog record with its seasons and networks",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCatalogShow)

	register(s, huma.Operation{
		OperationID: "getCatalogBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book's catalog record with its authors",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCatalogBook)
}

// === DTOs ===

// SearchCatalogInput contains the catalog search request.
type SearchCatalogInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" maxLength:"200" doc:"Search term"`
}

// SearchCatalogResponse contains catalog search hits.
type SearchCatalogResponse struct {
	Results []catalog.Result `json:"results" doc:"Matches in catalog relevance order"`
}

// SearchCatalogOutput wraps the search response for Huma.
type SearchCatalogOutput struct {
	Body SearchCatalogResponse
}

// GetCatalogItemInput identifies a catalog record.
type GetCatalogItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Catalog id"`
}

// CatalogMovieOutput wraps a movie record.
type CatalogMovieOutput struct {
	Body *catalog.MovieDetail
}

// CatalogShowOutput wraps a show record.
type CatalogShowOutput struct {
	Body *catalog.ShowDetail
}

// CatalogBookOutput wraps a book record.
type CatalogBookOutput struct {
	Body *catalog.BookDetail
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, kind service.CatalogKind, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	results, err := s.services.Catalog.Search(ctx, kind, input.Query)
	if err != nil {
		return nil, err
	}
	return &SearchCatalogOutput{Body: SearchCatalogResponse{Results: results}}, nil
}

func (s *Server) handleGetCatalogMovie(ctx context.Context, input *GetCatalogItemInput) (*CatalogMovieOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	movie, err := s.services.Catalog.GetMovie(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CatalogMovieOutput{Body: movie}, nil
}

func (s *Server) handleGetCatalogShow(ctx context.Context, input *GetCatalogItemInput) (*CatalogShowOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	show, err := s.services.Catalog.GetShow(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CatalogShowOutput{Body: show}, nil
}

func (s *Server) handleGetCatalogBook(ctx context.Context, input *GetCatalogItemInput) (*CatalogBookOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CatalogBookOutput{Body: book}, nil
}
