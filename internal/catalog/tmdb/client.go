// Package tmdb is a movie and TV catalog backed by The Movie Database v3 API.
// See https://developer.themoviedb.org/reference/intro/getting-started.
package tmdb

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

const (
	jobDirector          = "Director"
	jobAssistantDirector = "Assistant Director"
)

// Config configures a Client.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client implements catalog.MovieCatalog and catalog.ShowCatalog.
type Client struct {
	http *catalog.HTTPClient
}

var (
	_ catalog.MovieCatalog = (*Client)(nil)
	_ catalog.ShowCatalog  = (*Client)(nil)
)

// New creates a TMDB client. httpClient is shared across providers.
func New(cfg Config, httpClient *http.Client, v *validation.Validator, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	query := url.Values{}
	if cfg.APIKey != "" {
		query.Set("api_key", cfg.APIKey)
	}
	return &Client{
		http: catalog.NewHTTPClient(catalog.ClientOptions{
			Provider:          "tmdb",
			BaseURL:           cfg.BaseURL,
			HTTP:              httpClient,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Query:             query,
			Validator:         v,
			Logger:            logger,
		}),
	}
}

// SearchMovies returns movies matching term in TMDB relevance order.
func (c *Client) SearchMovies(ctx context.Context, term string) ([]catalog.Result, error) {
	term, err := catalog.RequireTerm(term)
	if err != nil {
		return nil, err
	}

	var page movieSearchPage
	if err := c.http.GetJSON(ctx, "/search/movie", url.Values{"query": {term}}, &page); err != nil {
		return nil, err
	}

	results := make([]catalog.Result, 0, len(page.Results))
	for _, r := range page.Results {
		results = append(results, catalog.Result{
			ID:       strconv.Itoa(r.ID),
			Title:    r.Title,
			Year:     yearOf(r.ReleaseDate),
			CoverRef: deref(r.PosterPath),
		})
	}
	return results, nil
}

// SearchShows returns TV shows matching term in TMDB relevance order.
func (c *Client) SearchShows(ctx context.Context, term string) ([]catalog.Result, error) {
	term, err := catalog.RequireTerm(term)
	if err != nil {
		return nil, err
	}

	var page showSearchPage
	if err := c.http.GetJSON(ctx, "/search/tv", url.Values{"query": {term}}, &page); err != nil {
		return nil, err
	}

	results := make([]catalog.Result, 0, len(page.Results))
	for _, r := range page.Results {
		results = append(results, catalog.Result{
			ID:       strconv.Itoa(r.ID),
			Title:    r.Name,
			Year:     yearOf(r.FirstAirDate),
			CoverRef: deref(r.PosterPath),
		})
	}
	return results, nil
}

// GetMovie fetches a movie with its credited directors.
func (c *Client) GetMovie(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	id, err := catalog.RequireID(id)
	if err != nil {
		return nil, err
	}

	var raw rawMovie
	if err := c.http.GetJSON(ctx, "/movie/"+id, url.Values{"append_to_response": {"credits"}}, &raw); err != nil {
		return nil, err
	}

	return &catalog.MovieDetail{
		ID:          strconv.Itoa(raw.ID),
		Title:       raw.Title,
		ReleaseDate: raw.ReleaseDate,
		PosterPath:  deref(raw.PosterPath),
		Runtime:     raw.Runtime,
		Directors:   Directors(raw.Credits.Crew),
	}, nil
}

// GetShow fetches a show with its networks and seasons.
func (c *Client) GetShow(ctx context.Context, id string) (*catalog.ShowDetail, error) {
	id, err := catalog.RequireID(id)
	if err != nil {
		return nil, err
	}

	var raw rawShow
	if err := c.http.GetJSON(ctx, "/tv/"+id, nil, &raw); err != nil {
		return nil, err
	}

	show := &catalog.ShowDetail{
		ID:           strconv.Itoa(raw.ID),
		Title:        raw.Name,
		FirstAirDate: raw.FirstAirDate,
		PosterPath:   deref(raw.PosterPath),
		Studios:      make([]catalog.Credit, 0, len(raw.Networks)),
		Seasons:      make([]catalog.Season, 0, len(raw.Seasons)),
	}
	for _, n := range raw.Networks {
		show.Studios = append(show.Studios, catalog.Credit{ID: strconv.Itoa(n.ID), Name: n.Name})
	}
	for _, s := range raw.Seasons {
		show.Seasons = append(show.Seasons, catalog.Season{
			ID:           strconv.Itoa(s.ID),
			Name:         s.Name,
			SeasonNumber: s.SeasonNumber,
			AirDate:      deref(s.AirDate),
			EpisodeCount: s.EpisodeCount,
			PosterPath:   deref(s.PosterPath),
		})
	}
	return show, nil
}

// Directors returns crew credited as Director, in credit order and without
// duplicates. Anyone who also holds an Assistant Director credit is left out.
func Directors(crew []CrewMember) []catalog.Credit {
	assistants := make(map[int]bool)
	for _, m := range crew {
		if m.Job == jobAssistantDirector {
			assistants[m.ID] = true
		}
	}

	seen := make(map[int]bool)
	directors := make([]catalog.Credit, 0)
	for _, m := range crew {
		if m.Job != jobDirector || assistants[m.ID] || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		directors = append(directors, catalog.Credit{ID: strconv.Itoa(m.ID), Name: m.Name})
	}
	return directors
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
