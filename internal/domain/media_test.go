package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestParseMediaType(t *testing.T) {
	m, err := ParseMediaType("tv")
	require.NoError(t, err)
	assert.Equal(t, MediaTypeTV, m)

	_, err = ParseMediaType("podcast")
	assert.Error(t, err)
}

func TestMediaItem_DisplayTitle(t *testing.T) {
	series := &TvSeries{Title: "Foo"}

	tests := []struct {
		name string
		item MediaItem
		want string
	}{
		{"movie", MediaItem{MediaType: MediaTypeMovie, Title: "Heat"}, "Heat"},
		{"season without name", MediaItem{MediaType: MediaTypeTV, SeasonNumber: intPtr(2), Series: series}, "Foo - Season 2"},
		{"named season", MediaItem{MediaType: MediaTypeTV, Title: "The Return", SeasonNumber: intPtr(3), Series: series}, "Foo - The Return"},
		{"blank season name", MediaItem{MediaType: MediaTypeTV, Title: "  ", SeasonNumber: intPtr(1), Series: series}, "Foo - Season 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.DisplayTitle())
		})
	}
}

func TestMediaFlags_For(t *testing.T) {
	yes := true
	all := MediaFlags{Audiobook: &yes, InTheater: &yes, OnPlane: &yes}

	movie := all.For(MediaTypeMovie)
	assert.Nil(t, movie.Audiobook)
	assert.NotNil(t, movie.InTheater)
	assert.NotNil(t, movie.OnPlane)

	tv := all.For(MediaTypeTV)
	assert.Nil(t, tv.Audiobook)
	assert.Nil(t, tv.InTheater)
	assert.NotNil(t, tv.OnPlane)

	book := all.For(MediaTypeBook)
	assert.NotNil(t, book.Audiobook)
	assert.Nil(t, book.InTheater)
	assert.Nil(t, book.OnPlane)
}

func TestEntryDetails_MediaType(t *testing.T) {
	var details []EntryDetails = []EntryDetails{MovieEntry{}, BookEntry{}, TvEntry{SeasonID: "1"}}
	got := make([]MediaType, 0, len(details))
	for _, d := range details {
		got = append(got, d.MediaType())
	}
	assert.Equal(t, AllMediaTypes, got)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "ada", (&User{Username: "ada"}).DisplayName())
}
