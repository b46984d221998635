package domain

import "time"

// SavedItem marks a media item a user intends to consume. (UserID,
// MediaItemID) is unique; re-saving refreshes CreatedAt.
type SavedItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MediaItemID string    `json:"media_item_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// JoinedSavedItem is a saved item with its media item loaded.
type JoinedSavedItem struct {
	SavedItem
	Item MediaItem
}
