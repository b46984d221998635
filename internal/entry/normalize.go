// Package entry turns stored reviews and saved items into display-ready
// entries and merges them into one ordered, paginated list.
package entry

import (
	"time"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// ConsumedDateLayout is the display format for consumption dates.
const ConsumedDateLayout = "1/2"

// Entry is a review flattened into the same shape for every media type.
type Entry struct {
	ID               string            `json:"id"`
	MediaItemID      string            `json:"media_item_id"`
	MediaType        domain.MediaType  `json:"media_type"`
	Title            string            `json:"title"`
	Creators         string            `json:"creators"`
	ReleaseYear      *string           `json:"release_year"`
	CoverArtURL      *string           `json:"cover_art_url"`
	ConsumedDate     string            `json:"consumed_date"`
	ConsumedDateTime time.Time         `json:"consumed_date_time"`
	CreatedAt        *time.Time        `json:"created_at"`
	Stars            *int              `json:"stars"`
	Favorited        bool              `json:"favorited"`
	HasReview        bool              `json:"has_review"`
	Review           *string           `json:"review"`
	MediaTypeFlags   domain.MediaFlags `json:"media_type_flags"`

	UserID      string `json:"user_id,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// SavedEntry is a saved-for-later item flattened for display.
type SavedEntry struct {
	ID          string           `json:"id"`
	MediaItemID string           `json:"media_item_id"`
	APIID       string           `json:"api_id"`
	MediaType   domain.MediaType `json:"media_type"`
	Title       string           `json:"title"`
	Creators    string           `json:"creators"`
	ReleaseYear *string          `json:"release_year"`
	CoverArtURL *string          `json:"cover_art_url"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Options tune normalization for a particular viewer.
type Options struct {
	// CoverSize is sm, md, lg or a pixel width. Defaults to md.
	CoverSize string
	// HideStars drops star ratings (the viewer has soderbergh mode on).
	HideStars bool
	// CreatorLimit truncates long creator lists; 0 shows everyone.
	CreatorLimit int
}

func (o Options) coverSize() string {
	if o.CoverSize == "" {
		return SizeMedium
	}
	return o.CoverSize
}

// Normalize flattens a joined review. It has no side effects and formats
// every date in UTC.
func Normalize(r domain.JoinedReview, opts Options) Entry {
	item := r.Item
	consumed := r.ConsumedDate.UTC()

	e := Entry{
		ID:               r.ID,
		MediaItemID:      item.ID,
		MediaType:        item.MediaType,
		Title:            item.DisplayTitle(),
		Creators:         JoinList(item.CreatorNames(), opts.CreatorLimit),
		ReleaseYear:      optional(item.ReleaseYear()),
		CoverArtURL:      CoverArtURL(item.MediaType, coverRef(item), opts.coverSize()),
		ConsumedDate:     consumed.Format(ConsumedDateLayout),
		ConsumedDateTime: consumed,
		Favorited:        r.Favorited,
		HasReview:        r.Text != "",
		Review:           optional(r.Text),
		MediaTypeFlags:   r.MediaFlags.For(item.MediaType),
	}

	if r.CreatedAt != nil {
		created := r.CreatedAt.UTC()
		e.CreatedAt = &created
	}
	if r.Stars != nil && !opts.HideStars {
		stars := *r.Stars
		e.Stars = &stars
	}
	if r.Owner != nil {
		e.UserID = r.Owner.ID
		e.Username = r.Owner.Username
		e.DisplayName = r.Owner.DisplayName()
	}
	return e
}

// NormalizeAll normalizes every review with the same options.
func NormalizeAll(reviews []domain.JoinedReview, opts Options) []Entry {
	out := make([]Entry, len(reviews))
	for i := range reviews {
		out[i] = Normalize(reviews[i], opts)
	}
	return out
}

// NormalizeSaved flattens a joined saved item.
func NormalizeSaved(s domain.JoinedSavedItem, opts Options) SavedEntry {
	item := s.Item
	return SavedEntry{
		ID:          s.ID,
		MediaItemID: item.ID,
		APIID:       item.APIID,
		MediaType:   item.MediaType,
		Title:       item.DisplayTitle(),
		Creators:    JoinList(item.CreatorNames(), opts.CreatorLimit),
		ReleaseYear: optional(item.ReleaseYear()),
		CoverArtURL: CoverArtURL(item.MediaType, coverRef(item), opts.coverSize()),
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

// coverRef falls back to the series poster for seasons without their own.
func coverRef(item domain.MediaItem) string {
	if item.CoverArt == "" && item.Series != nil {
		return item.Series.CoverArt
	}
	return item.CoverArt
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
