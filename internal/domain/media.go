package domain

import (
	"fmt"
	"strings"
)

// MediaType identifies the kind of consumable work.
type MediaType string

const (
	// MediaTypeMovie is a feature film from the movie catalog.
	MediaTypeMovie MediaType = "MOVIE"
	// MediaTypeBook is a work from the book catalog.
	MediaTypeBook MediaType = "BOOK"
	// MediaTypeTV is a single season of a TV series.
	MediaTypeTV MediaType = "TV"
)

// AllMediaTypes lists every media type in display order.
var AllMediaTypes = []MediaType{MediaTypeMovie, MediaTypeBook, MediaTypeTV}

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeMovie, MediaTypeBook, MediaTypeTV:
		return true
	default:
		return false
	}
}

// ParseMediaType accepts a media type in any letter case.
func ParseMediaType(s string) (MediaType, error) {
	m := MediaType(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown media type %q", s)
	}
	return m, nil
}

// CreatorType is the role a creator is credited with.
type CreatorType string

const (
	CreatorTypeAuthor   CreatorType = "AUTHOR"
	CreatorTypeDirector CreatorType = "DIRECTOR"
	CreatorTypeStudio   CreatorType = "STUDIO"
)

// CreatorTypeFor returns the creator role credited on items of media type m.
func CreatorTypeFor(m MediaType) CreatorType {
	switch m {
	case MediaTypeBook:
		return CreatorTypeAuthor
	case MediaTypeTV:
		return CreatorTypeStudio
	default:
		return CreatorTypeDirector
	}
}

// Creator is a person or organization credited on media items.
// (APIID, CreatorType) is unique.
type Creator struct {
	ID          string      `json:"id" db:"id"`
	APIID       string      `json:"api_id" db:"api_id"`
	CreatorType CreatorType `json:"creator_type" db:"creator_type"`
	Name        string      `json:"name" db:"name"`
}

// TvSeries groups the season items of one show.
type TvSeries struct {
	ID       string `json:"id" db:"id"`
	APIID    string `json:"api_id" db:"api_id"`
	Title    string `json:"title" db:"title"`
	CoverArt string `json:"cover_art,omitempty" db:"cover_art"`
}

// MediaItem is a catalog-agnostic reference to a work. (APIID, MediaType) is
// unique. For TV the item is a season: APIID is the season id, Title is the
// season's own name (possibly empty) and Series is the parent show.
type MediaItem struct {
	ID        string    `json:"id"`
	APIID     string    `json:"api_id"`
	MediaType MediaType `json:"media_type"`
	Title     string    `json:"title"`
	// CoverArt is the poster path for MOVIE/TV and the numeric cover id for BOOK.
	CoverArt     string    `json:"cover_art,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	Length       *int      `json:"length,omitempty"`
	SeasonNumber *int      `json:"season_number,omitempty"`
	SeriesID     string    `json:"series_id,omitempty"`
	Series       *TvSeries `json:"series,omitempty"`
	Creators     []Creator `json:"creators,omitempty"`
}

// ReleaseYear returns the leading four-digit year of ReleaseDate, or "".
func (m *MediaItem) ReleaseYear() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}

// CreatorNames returns the creator names in credit order.
func (m *MediaItem) CreatorNames() []string {
	names := make([]string, 0, len(m.Creators))
	for _, c := range m.Creators {
		names = append(names, c.Name)
	}
	return names
}

// DisplayTitle composes the user-facing title. TV seasons render as
// "<series> - <season name>" or "<series> - Season N".
func (m *MediaItem) DisplayTitle() string {
	if m.MediaType != MediaTypeTV {
		return m.Title
	}

	season := strings.TrimSpace(m.Title)
	if season == "" {
		n := 0
		if m.SeasonNumber != nil {
			n = *m.SeasonNumber
		}
		season = fmt.Sprintf("Season %d", n)
	}

	seriesTitle := ""
	if m.Series != nil {
		seriesTitle = m.Series.Title
	}
	return seriesTitle + " - " + season
}
