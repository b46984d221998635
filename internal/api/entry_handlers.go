package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/entry"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/service"
)

func (s *Server) registerEntryRoutes() {
	register(s, huma.Operation{
		OperationID:   "addEntry",
		Method:        http.MethodPost,
		Path:          "/api/v1/entries",
		Summary:       "Add entry",
		Description:   "Logs a consumed movie, book or TV season. Unknown works are fetched from the catalog.",
		Tags:          []string{"Entries"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddEntry)

	register(s, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Get entry",
		Description: "Returns one entry in display form",
		Tags:        []string{"Entries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetEntry)

	register(s, huma.Operation{
		OperationID: "updateEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Update entry",
		Description: "Changes the mutable fields of the caller's entry",
		Tags:        []string{"Entries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateEntry)

	register(s, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Delete entry",
		Description: "Deletes the caller's entry and reports the removed title",
		Tags:        []string{"Entries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteEntry)
}

// === DTOs ===

// AddEntryRequest is the body of POST /entries.
type AddEntryRequest struct {
	MediaType    domain.MediaType `json:"media_type" enum:"MOVIE,BOOK,TV" doc:"Media type"`
	APIID        string           `json:"api_id" minLength:"1" maxLength:"64" doc:"Catalog id; the show id for TV"`
	SeasonID     string           `json:"season_id,omitempty" maxLength:"64" doc:"Catalog season id, required for TV"`
	ConsumedDate string           `json:"consumed_date" doc:"Date consumed, YYYY-MM-DD"`
	Stars        *int             `json:"stars,omitempty" minimum:"1" maximum:"5" doc:"Star rating"`
	Favorited    bool             `json:"favorited,omitempty" doc:"Mark as a favorite"`
	Review       string           `json:"review,omitempty" maxLength:"20000" doc:"Review text"`

	FirstPublishedYear string `json:"first_published_year,omitempty" maxLength:"4" doc:"Book year when the catalog has none"`
	Audiobook          bool   `json:"audiobook,omitempty" doc:"Book was listened to"`
	InTheater          bool   `json:"in_theater,omitempty" doc:"Movie was seen in a theater"`
	OnPlane            bool   `json:"on_plane,omitempty" doc:"Movie or TV was watched on a plane"`
}

func (r AddEntryRequest) details() (domain.EntryDetails, error) {
	switch r.MediaType {
	case domain.MediaTypeMovie:
		return domain.MovieEntry{InTheater: r.InTheater, OnPlane: r.OnPlane}, nil
	case domain.MediaTypeBook:
		return domain.BookEntry{Audiobook: r.Audiobook, FirstPublishedYear: r.FirstPublishedYear}, nil
	case domain.MediaTypeTV:
		return domain.TvEntry{SeasonID: r.SeasonID, OnPlane: r.OnPlane}, nil
	default:
		return nil, domainerrors.InvalidInputf("unknown media type %q", r.MediaType)
	}
}

// AddEntryInput wraps the add request for Huma.
type AddEntryInput struct {
	Authorization string `header:"Authorization"`
	Body          AddEntryRequest
}

// AddEntryOutput wraps the created entry reference.
type AddEntryOutput struct {
	Body *service.AddEntryResult
}

// EntryIDInput selects one entry.
type EntryIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Entry ID"`
	Cover         string `query:"cover" doc:"Cover size: sm, md, lg or a pixel width"`
}

// EntryOutput wraps one normalized entry.
type EntryOutput struct {
	Body entry.Entry
}

// UpdateEntryRequest is the body of PATCH /entries/{id}. Omitted fields are
// left unchanged.
type UpdateEntryRequest struct {
	ConsumedDate *string `json:"consumed_date,omitempty" doc:"Date consumed, YYYY-MM-DD"`
	Stars        *int    `json:"stars,omitempty" minimum:"0" maximum:"5" doc:"Star rating; 0 clears it"`
	Favorited    *bool   `json:"favorited,omitempty" doc:"Favorite flag"`
	Review       *string `json:"review,omitempty" maxLength:"20000" doc:"Review text"`
	Audiobook    *bool   `json:"audiobook,omitempty" doc:"Book was listened to"`
	InTheater    *bool   `json:"in_theater,omitempty" doc:"Movie was seen in a theater"`
	OnPlane      *bool   `json:"on_plane,omitempty" doc:"Movie or TV was watched on a plane"`
}

// UpdateEntryInput wraps the update for Huma.
type UpdateEntryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Entry ID"`
	Body          UpdateEntryRequest
}

// DeleteEntryOutput carries the delete outcome. Status mirrors the result
// code so clients can rely on either.
type DeleteEntryOutput struct {
	Status int
	Body   service.DeleteResult
}

// === Handlers ===

func (s *Server) handleAddEntry(ctx context.Context, input *AddEntryInput) (*AddEntryOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.throttle(user.ID); err != nil {
		return nil, err
	}

	details, err := input.Body.details()
	if err != nil {
		return nil, err
	}

	result, err := s.services.Entries.AddEntry(ctx, service.AddEntryInput{
		UserID:       user.ID,
		APIID:        input.Body.APIID,
		ConsumedDate: input.Body.ConsumedDate,
		Stars:        input.Body.Stars,
		Favorited:    input.Body.Favorited,
		Review:       input.Body.Review,
		Details:      details,
	})
	if err != nil {
		return nil, err
	}
	return &AddEntryOutput{Body: result}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	joined, err := s.services.Entries.GetEntry(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry.Normalize(*joined, viewerOptions(viewer, input.Cover))}, nil
}

func (s *Server) handleUpdateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Entries.UpdateEntry(ctx, user.ID, input.ID, service.UpdateEntryInput{
		ConsumedDate: input.Body.ConsumedDate,
		Stars:        input.Body.Stars,
		Favorited:    input.Body.Favorited,
		Review:       input.Body.Review,
		Audiobook:    input.Body.Audiobook,
		InTheater:    input.Body.InTheater,
		OnPlane:      input.Body.OnPlane,
	})
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry.Normalize(*updated, viewerOptions(user, ""))}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *EntryIDInput) (*DeleteEntryOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result := s.services.Entries.DeleteEntry(ctx, user.ID, input.ID)
	status := http.StatusOK
	if !result.OK {
		status = result.Code.HTTPStatus()
	}
	return &DeleteEntryOutput{Status: status, Body: result}, nil
}

func viewerOptions(viewer *domain.User, cover string) entry.Options {
	return entry.Options{
		CoverSize: cover,
		HideStars: viewer != nil && viewer.SoderberghMode,
	}
}
