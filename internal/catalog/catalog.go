// Package catalog defines the typed records and interfaces for external
// movie, TV and book metadata providers.
package catalog

import (
	"context"
	"strings"

	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

// Result is a lightweight search hit.
type Result struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Year is the release, first-air or first-publish year; empty if unknown.
	Year     string   `json:"year,omitempty"`
	CoverRef string   `json:"cover_ref,omitempty"`
	Creators []string `json:"creators,omitempty"`
}

// Credit is a creator credited on a detail record.
type Credit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is a validated movie record.
type MovieDetail struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Runtime     *int     `json:"runtime,omitempty"`
	Directors   []Credit `json:"directors"`
}

// Season is one season of a show.
type Season struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	SeasonNumber int    `json:"season_number"`
	AirDate      string `json:"air_date,omitempty"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// ShowDetail is a validated TV show record.
type ShowDetail struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	PosterPath   string   `json:"poster_path,omitempty"`
	Studios      []Credit `json:"studios"`
	Seasons      []Season `json:"seasons"`
}

// Season finds a season by id.
func (s *ShowDetail) Season(id string) (Season, bool) {
	for _, season := range s.Seasons {
		if season.ID == id {
			return season, true
		}
	}
	return Season{}, false
}

// BookDetail is a validated book (work) record.
type BookDetail struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	FirstPublishYear string   `json:"first_publish_year,omitempty"`
	CoverID          string   `json:"cover_id,omitempty"`
	Authors          []Credit `json:"authors"`
}

// MovieCatalog searches and fetches movies.
type MovieCatalog interface {
	SearchMovies(ctx context.Context, term string) ([]Result, error)
	GetMovie(ctx context.Context, id string) (*MovieDetail, error)
}

// ShowCatalog searches and fetches TV shows.
type ShowCatalog interface {
	SearchShows(ctx context.Context, term string) ([]Result, error)
	GetShow(ctx context.Context, id string) (*ShowDetail, error)
}

// ShowRefresher is implemented by show catalogs that may serve stale
// records. RefreshShow skips any stored copy and replaces it.
type ShowRefresher interface {
	RefreshShow(ctx context.Context, id string) (*ShowDetail, error)
}

// BookCatalog searches and fetches books.
type BookCatalog interface {
	SearchBooks(ctx context.Context, term string) ([]Result, error)
	GetBook(ctx context.Context, id string) (*BookDetail, error)
}

// Catalogs bundles one provider per media type.
type Catalogs struct {
	Movies MovieCatalog
	Shows  ShowCatalog
	Books  BookCatalog
}

// RequireTerm trims a search term and rejects blank input.
func RequireTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", domainerrors.InvalidInput("search term is required")
	}
	return term, nil
}

// RequireID rejects blank or path-like catalog ids.
func RequireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domainerrors.InvalidInput("catalog id is required")
	}
	if strings.ContainsAny(id, "/?#") {
		return "", domainerrors.InvalidInputf("invalid catalog id %q", id)
	}
	return id, nil
}
