// Package search provides full-text search over logged and saved media items
// using Bleve.
package search

import (
	"strconv"
	"strings"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// MediaDocument is the indexed form of a media item. Creator and series
// names are denormalized so one query matches across them.
type MediaDocument struct {
	ID        string           `json:"id"`
	MediaType domain.MediaType `json:"media_type"`
	// Title is the composed display title ("Series - Season 2" for TV).
	Title    string `json:"title"`
	Series   string `json:"series,omitempty"`
	Creators string `json:"creators,omitempty"`
	Year     int    `json:"year,omitempty"`
}

// NewMediaDocument builds the document for a media item.
func NewMediaDocument(item *domain.MediaItem) *MediaDocument {
	doc := &MediaDocument{
		ID:        item.ID,
		MediaType: item.MediaType,
		Title:     item.DisplayTitle(),
		Creators:  strings.Join(item.CreatorNames(), ", "),
	}
	if item.Series != nil {
		doc.Series = item.Series.Title
	}
	if y, err := strconv.Atoi(item.ReleaseYear()); err == nil {
		doc.Year = y
	}
	return doc
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *MediaDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"media_type": string(d.MediaType),
		"title":      d.Title,
	}
	if d.Series != "" {
		m["series"] = d.Series
	}
	if d.Creators != "" {
		m["creators"] = d.Creators
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	return m
}
