package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/entry"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/search"
)

func (s *Server) registerSearchRoutes() {
	register(s, huma.Operation{
		OperationID: "searchMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/search",
		Summary:     "Search logged media",
		Description: "Full-text search over every work anyone has logged or saved",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchMedia)
}

// SearchMediaInput contains local search parameters.
type SearchMediaInput struct {
	Authorization string   `header:"Authorization"`
	Query         string   `query:"q" maxLength:"200" doc:"Search query"`
	Types         []string `query:"types" doc:"Media types to include (MOVIE, BOOK, TV)"`
	Limit         int      `query:"limit" minimum:"0" maximum:"100" doc:"Max results; defaults to 20"`
}

// SearchMediaOutput wraps search results for Huma.
type SearchMediaOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchMedia(ctx context.Context, input *SearchMediaInput) (*SearchMediaOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}
	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("Search is not available")
	}

	filter, err := entry.ParseFilter(input.Types)
	if err != nil {
		return nil, domainerrors.InvalidInput(err.Error())
	}

	result, err := s.services.Search.SearchMedia(ctx, input.Query, filter, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchMediaOutput{Body: result}, nil
}
