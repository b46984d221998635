// Package store defines the persistence interface for the mediadiet server.
package store

import (
	"context"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// WithTx runs fn inside one write transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Tx) error) error

	// Users
	EnsureUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Media items
	GetMediaItem(ctx context.Context, id string) (*domain.MediaItem, error)
	GetMediaItemByAPIID(ctx context.Context, apiID string, mediaType domain.MediaType) (*domain.MediaItem, error)
	ListMediaItems(ctx context.Context, afterID string, limit int) ([]domain.MediaItem, error)

	// Reviews
	GetReview(ctx context.Context, id string) (*domain.JoinedReview, error)
	ListReviews(ctx context.Context, q ReviewQuery) ([]domain.JoinedReview, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id string) error
	CountReviews(ctx context.Context, userID string, mediaType domain.MediaType) (int, error)

	// Saved items
	GetSaved(ctx context.Context, id string) (*domain.SavedItem, error)
	GetSavedByItem(ctx context.Context, userID, mediaItemID string) (*domain.SavedItem, error)
	ListSaved(ctx context.Context, q SavedQuery) ([]domain.JoinedSavedItem, error)
	DeleteSaved(ctx context.Context, id string) error
	DeleteSavedByItem(ctx context.Context, userID, mediaItemID string) error

	// Follows
	CreateFollow(ctx context.Context, follow *domain.Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID string) error
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	ListFollowers(ctx context.Context, userID string) ([]*domain.User, error)
	ListFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// Tx is the write surface available inside WithTx. Upserts are atomic on
// their natural keys and fill in the stored row's ID.
type Tx interface {
	// UpsertCreator connects or creates a creator keyed by (APIID, CreatorType).
	UpsertCreator(ctx context.Context, creator *domain.Creator) error
	// UpsertSeries connects or creates a TV series keyed by APIID.
	UpsertSeries(ctx context.Context, series *domain.TvSeries) error
	// UpsertMediaItem connects or creates an item keyed by (APIID, MediaType)
	// and links item.Creators, which must already carry IDs.
	UpsertMediaItem(ctx context.Context, item *domain.MediaItem) error
	GetMediaItemByAPIID(ctx context.Context, apiID string, mediaType domain.MediaType) (*domain.MediaItem, error)

	CreateReview(ctx context.Context, review *domain.Review) error

	// UpsertSaved creates the saved item or refreshes CreatedAt on the
	// existing (UserID, MediaItemID) row, whose ID is written back.
	UpsertSaved(ctx context.Context, saved *domain.SavedItem) error
	// DeleteSavedByItem reports whether a saved item was removed.
	DeleteSavedByItem(ctx context.Context, userID, mediaItemID string) (bool, error)
}

// ReviewQuery selects the leading reviews of one media type for a set of
// users, in entry order.
type ReviewQuery struct {
	UserIDs   []string
	MediaType domain.MediaType
	// Ascending flips the order to oldest first.
	Ascending bool
	// Limit caps the number of rows; 0 returns everything.
	Limit int
}

// SavedQuery selects a user's saved items ordered by CreatedAt.
type SavedQuery struct {
	UserID string
	// MediaTypes restricts the result; empty selects every type.
	MediaTypes []domain.MediaType
	Ascending  bool
	Limit      int
}
