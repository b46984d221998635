package api

import (
	"github.com/mediadiet/mediadiet/internal/entry"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

// ListParams are the query parameters shared by every paged list.
type ListParams struct {
	Types []string `query:"types" doc:"Media types to include (MOVIE, BOOK, TV); empty means all"`
	Sort  string   `query:"sort" doc:"Order by creation time, desc by default"`
	Skip  int      `query:"skip" minimum:"0" maximum:"10000" doc:"Entries to skip, at most 10000"`
	Take  int      `query:"take" minimum:"0" doc:"Page size; defaults to 30, capped at 100"`
	Cover string   `query:"cover" doc:"Cover size: sm, md, lg or a pixel width"`
}

func (p ListParams) parse() (entry.Filter, entry.SortDirection, entry.Page, error) {
	filter, err := entry.ParseFilter(p.Types)
	if err != nil {
		return nil, "", entry.Page{}, domainerrors.InvalidInput(err.Error())
	}
	sort, err := entry.ParseSort(p.Sort)
	if err != nil {
		return nil, "", entry.Page{}, domainerrors.InvalidInput(err.Error())
	}
	return filter, sort, entry.Page{Skip: p.Skip, Take: p.Take}, nil
}

// EntriesOutput wraps a page of entries for Huma.
type EntriesOutput struct {
	Body entry.Result[entry.Entry]
}

// SavedEntriesOutput wraps a page of saved items for Huma.
type SavedEntriesOutput struct {
	Body entry.Result[entry.SavedEntry]
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
