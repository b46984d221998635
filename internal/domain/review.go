package domain

import "time"

// MediaFlags are the media-specific booleans carried on a review. Only the
// flags relevant to the item's media type are meaningful.
type MediaFlags struct {
	Audiobook *bool `json:"audiobook,omitempty"`
	InTheater *bool `json:"in_theater,omitempty"`
	OnPlane   *bool `json:"on_plane,omitempty"`
}

// For returns a copy of f with the flags irrelevant to m cleared.
func (f MediaFlags) For(m MediaType) MediaFlags {
	switch m {
	case MediaTypeMovie:
		return MediaFlags{InTheater: f.InTheater, OnPlane: f.OnPlane}
	case MediaTypeTV:
		return MediaFlags{OnPlane: f.OnPlane}
	case MediaTypeBook:
		return MediaFlags{Audiobook: f.Audiobook}
	default:
		return MediaFlags{}
	}
}

// Review is one user's consumption record for a media item.
type Review struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	MediaItemID string `json:"media_item_id"`
	// ConsumedDate is a calendar date held at UTC midnight.
	ConsumedDate time.Time `json:"consumed_date"`
	// CreatedAt is nil for rows imported without a creation time.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Stars     *int       `json:"stars,omitempty"`
	Favorited bool       `json:"favorited"`
	Text      string     `json:"review"`
	MediaFlags
}

// JoinedReview is a review with its media item (creators and series loaded)
// and its owner.
type JoinedReview struct {
	Review
	Item  MediaItem
	Owner *User
}
