package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/domain"
)

func intPtr(i int) *int { return &i }
func boolPtr(b bool) *bool { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func bookReview() domain.JoinedReview {
	return domain.JoinedReview{
		Review: domain.Review{
			ID:           "rev-1",
			UserID:       "usr-1",
			MediaItemID:  "med-1",
			ConsumedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:    timePtr(time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
			Stars:        intPtr(4),
			Favorited:    true,
			Text:         "Great",
			MediaFlags:   domain.MediaFlags{Audiobook: boolPtr(true), OnPlane: boolPtr(true)},
		},
		Item: domain.MediaItem{
			ID:          "med-1",
			APIID:       "OL123W",
			MediaType:   domain.MediaTypeBook,
			Title:       "The Dispossessed",
			CoverArt:    "8231856",
			ReleaseDate: "1974",
			Creators:    []domain.Creator{{Name: "Ursula K. Le Guin"}},
		},
		Owner: &domain.User{ID: "usr-1", Username: "ursula", FirstName: "Ursula"},
	}
}

func TestNormalize_Book(t *testing.T) {
	e := Normalize(bookReview(), Options{CoverSize: SizeSmall})

	assert.Equal(t, "rev-1", e.ID)
	assert.Equal(t, domain.MediaTypeBook, e.MediaType)
	assert.Equal(t, "The Dispossessed", e.Title)
	assert.Equal(t, "Ursula K. Le Guin", e.Creators)
	require.NotNil(t, e.ReleaseYear)
	assert.Equal(t, "1974", *e.ReleaseYear)
	require.NotNil(t, e.CoverArtURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/8231856-S.jpg", *e.CoverArtURL)
	assert.Equal(t, "3/1", e.ConsumedDate)
	require.NotNil(t, e.Stars)
	assert.Equal(t, 4, *e.Stars)
	assert.True(t, e.Favorited)
	assert.True(t, e.HasReview)
	require.NotNil(t, e.Review)
	assert.Equal(t, "Great", *e.Review)
	assert.Equal(t, "ursula", e.Username)
	assert.Equal(t, "Ursula", e.DisplayName)

	// Flags irrelevant to books are dropped.
	require.NotNil(t, e.MediaTypeFlags.Audiobook)
	assert.Nil(t, e.MediaTypeFlags.OnPlane)
	assert.Nil(t, e.MediaTypeFlags.InTheater)
}

func TestNormalize_EmptyReview(t *testing.T) {
	r := bookReview()
	r.Text = ""
	r.Stars = nil

	e := Normalize(r, Options{})
	assert.False(t, e.HasReview)
	assert.Nil(t, e.Review)
	assert.Nil(t, e.Stars)
}

func TestNormalize_HideStars(t *testing.T) {
	e := Normalize(bookReview(), Options{HideStars: true})
	assert.Nil(t, e.Stars)
	assert.True(t, e.Favorited)
}

func TestNormalize_ConsumedDateIsUTC(t *testing.T) {
	r := bookReview()
	// Midnight UTC is still the previous evening west of Greenwich.
	loc := time.FixedZone("PST", -8*60*60)
	r.ConsumedDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).In(loc)

	e := Normalize(r, Options{})
	assert.Equal(t, "3/1", e.ConsumedDate)
	assert.Equal(t, time.UTC, e.ConsumedDateTime.Location())
}

func TestNormalize_TVTitleComposition(t *testing.T) {
	series := &domain.TvSeries{Title: "Foo", CoverArt: "/series.jpg"}

	unnamed := domain.JoinedReview{
		Review: domain.Review{ID: "rev-tv", ConsumedDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		Item: domain.MediaItem{
			MediaType:    domain.MediaTypeTV,
			SeasonNumber: intPtr(2),
			Series:       series,
			Creators:     []domain.Creator{{Name: "HBO"}, {Name: "Max"}},
		},
	}
	e := Normalize(unnamed, Options{CoverSize: SizeSmall})
	assert.Equal(t, "Foo - Season 2", e.Title)
	assert.Equal(t, "HBO & Max", e.Creators)
	require.NotNil(t, e.CoverArtURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w92/series.jpg", *e.CoverArtURL, "falls back to series poster")

	named := unnamed
	named.Item.Title = "The Return"
	assert.Equal(t, "Foo - The Return", Normalize(named, Options{}).Title)
}

func TestNormalize_NilCreatedAt(t *testing.T) {
	r := bookReview()
	r.CreatedAt = nil
	assert.Nil(t, Normalize(r, Options{}).CreatedAt)
}

func TestNormalize_CreatorLimit(t *testing.T) {
	r := bookReview()
	r.Item.Creators = []domain.Creator{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	assert.Equal(t, "A, B, & 2 others", Normalize(r, Options{CreatorLimit: 2}).Creators)
}

func TestNormalizeSaved(t *testing.T) {
	saved := domain.JoinedSavedItem{
		SavedItem: domain.SavedItem{ID: "sav-1", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		Item: domain.MediaItem{
			ID:          "med-9",
			APIID:       "603",
			MediaType:   domain.MediaTypeMovie,
			Title:       "The Matrix",
			CoverArt:    "/matrix.jpg",
			ReleaseDate: "1999-03-31",
			Creators:    []domain.Creator{{Name: "Lana Wachowski"}, {Name: "Lilly Wachowski"}},
		},
	}

	e := NormalizeSaved(saved, Options{})
	assert.Equal(t, "sav-1", e.ID)
	assert.Equal(t, "603", e.APIID)
	assert.Equal(t, "The Matrix", e.Title)
	assert.Equal(t, "Lana Wachowski & Lilly Wachowski", e.Creators)
	require.NotNil(t, e.ReleaseYear)
	assert.Equal(t, "1999", *e.ReleaseYear)
	require.NotNil(t, e.CoverArtURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/matrix.jpg", *e.CoverArtURL)
}
