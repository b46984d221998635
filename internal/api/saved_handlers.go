package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/service"
)

func (s *Server) registerSavedRoutes() {
	register(s, huma.Operation{
		OperationID: "listSaved",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved",
		Summary:     "List saved items",
		Description: "Returns a page of the caller's saved-for-later queue",
		Tags:        []string{"Saved"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSaved)

	register(s, huma.Operation{
		OperationID:   "saveForLater",
		Method:        http.MethodPost,
		Path:          "/api/v1/saved",
		Summary:       "Save for later",
		Description:   "Adds a work to the caller's queue, or moves it to the top if already saved",
		Tags:          []string{"Saved"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSaveForLater)

	register(s, huma.Operation{
		OperationID: "deleteSaved",
		Method:      http.MethodDelete,
		Path:        "/api/v1/saved/{id}",
		Summary:     "Delete saved item",
		Description: "Removes one item from the caller's queue",
		Tags:        []string{"Saved"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSaved)

	register(s, huma.Operation{
		OperationID: "deleteSavedByItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/saved",
		Summary:     "Delete saved item by media item",
		Description: "Removes the caller's saved row for a media item",
		Tags:        []string{"Saved"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSavedByItem)
}

// === DTOs ===

// ListSavedInput selects a page of the caller's queue.
type ListSavedInput struct {
	Authorization string `header:"Authorization"`
	ListParams
}

// SaveRequest is the body of POST /saved.
type SaveRequest struct {
	MediaType domain.MediaType `json:"media_type" enum:"MOVIE,BOOK,TV" doc:"Media type"`
	APIID     string           `json:"api_id" minLength:"1" maxLength:"64" doc:"Catalog id; the show id for TV"`
	SeasonID  string           `json:"season_id,omitempty" maxLength:"64" doc:"Catalog season id, required for TV"`
}

// SaveInput wraps the save request for Huma.
type SaveInput struct {
	Authorization string `header:"Authorization"`
	Body          SaveRequest
}

// SaveOutput wraps the saved row reference.
type SaveOutput struct {
	Body *service.SaveResult
}

// DeleteSavedInput selects one saved row.
type DeleteSavedInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Saved item ID"`
}

// DeleteSavedByItemInput selects the saved row of a media item.
type DeleteSavedByItemInput struct {
	Authorization string `header:"Authorization"`
	MediaItemID   string `query:"media_item_id" doc:"Media item ID"`
}

// === Handlers ===

func (s *Server) handleListSaved(ctx context.Context, input *ListSavedInput) (*SavedEntriesOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter, sort, page, err := input.parse()
	if err != nil {
		return nil, err
	}

	result, err := s.services.Saved.List(ctx, service.SavedQuery{
		UserID: user.ID,
		Filter: filter,
		Sort:   sort,
		Page:   page,
		Cover:  input.Cover,
	})
	if err != nil {
		return nil, err
	}
	return &SavedEntriesOutput{Body: result}, nil
}

func (s *Server) handleSaveForLater(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	result, err := s.services.Saved.SaveForLater(ctx, service.SaveInput{
		UserID:    user.ID,
		MediaType: input.Body.MediaType,
		APIID:     input.Body.APIID,
		SeasonID:  input.Body.SeasonID,
	})
	if err != nil {
		return nil, err
	}
	return &SaveOutput{Body: result}, nil
}

func (s *Server) handleDeleteSaved(ctx context.Context, input *DeleteSavedInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Saved.DeleteSaved(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Saved item deleted"}}, nil
}

func (s *Server) handleDeleteSavedByItem(ctx context.Context, input *DeleteSavedByItemInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if input.MediaItemID == "" {
		return nil, domainerrors.InvalidInput("media_item_id is required")
	}

	if err := s.services.Saved.DeleteSavedByItem(ctx, user.ID, input.MediaItemID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Saved item deleted"}}, nil
}
