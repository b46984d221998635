package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/id"
	"github.com/mediadiet/mediadiet/internal/store"
)

// reviewRow is a review joined with its media item and owner.
type reviewRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	MediaItemID  string         `db:"media_item_id"`
	ConsumedDate string         `db:"consumed_date"`
	CreatedAt    sql.NullString `db:"created_at"`
	Stars        sql.NullInt64  `db:"stars"`
	Favorited    bool           `db:"favorited"`
	Review       string         `db:"review"`
	Audiobook    sql.NullBool   `db:"audiobook"`
	InTheater    sql.NullBool   `db:"in_theater"`
	OnPlane      sql.NullBool   `db:"on_plane"`
	mediaItemRow
	userRow
}

func (r *reviewRow) toDomain() (domain.JoinedReview, error) {
	consumed, err := parseDate(r.ConsumedDate)
	if err != nil {
		return domain.JoinedReview{}, fmt.Errorf("review %s: consumed_date: %w", r.ID, err)
	}
	createdAt, err := parseNullableTime(r.CreatedAt)
	if err != nil {
		return domain.JoinedReview{}, fmt.Errorf("review %s: created_at: %w", r.ID, err)
	}
	owner, err := r.userRow.toDomain()
	if err != nil {
		return domain.JoinedReview{}, err
	}

	return domain.JoinedReview{
		Review: domain.Review{
			ID:           r.ID,
			UserID:       r.UserID,
			MediaItemID:  r.MediaItemID,
			ConsumedDate: consumed,
			CreatedAt:    createdAt,
			Stars:        intPtr(r.Stars),
			Favorited:    r.Favorited,
			Text:         r.Review,
			MediaFlags: domain.MediaFlags{
				Audiobook: boolPtr(r.Audiobook),
				InTheater: boolPtr(r.InTheater),
				OnPlane:   boolPtr(r.OnPlane),
			},
		},
		Item:  r.mediaItemRow.toDomain(),
		Owner: owner,
	}, nil
}

func selectReviews() sq.SelectBuilder {
	cols := []string{
		"r.id", "r.user_id", "r.media_item_id", "r.consumed_date", "r.created_at",
		"r.stars", "r.favorited", "r.review", "r.audiobook", "r.in_theater", "r.on_plane",
	}
	cols = append(cols, mediaItemColumns...)
	cols = append(cols, ownerColumns...)
	return sq.Select(cols...).
		From("reviews r").
		Join("media_items m ON m.id = r.media_item_id").
		Join("users u ON u.id = r.user_id").
		LeftJoin("tv_series s ON s.id = m.series_id")
}

func scanReviews(ctx context.Context, q sqlx.QueryerContext, b sq.SelectBuilder) ([]domain.JoinedReview, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reviews query: %w", err)
	}

	var rows []reviewRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews := make([]domain.JoinedReview, len(rows))
	items := make([]*domain.MediaItem, len(rows))
	for i := range rows {
		r, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		reviews[i] = r
		items[i] = &reviews[i].Item
	}
	if err := attachCreators(ctx, q, items); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReview returns a review with its media item and owner.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.JoinedReview, error) {
	reviews, err := scanReviews(ctx, s.db, selectReviews().Where(sq.Eq{"r.id": id}))
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, store.NotFound("review", id)
	}
	return &reviews[0], nil
}

// ListReviews returns the leading reviews of one media type for the given
// users. Rows are ordered by created_at, then consumed_date, then id; a NULL
// created_at sorts as the oldest value.
func (s *Store) ListReviews(ctx context.Context, q store.ReviewQuery) ([]domain.JoinedReview, error) {
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}

	b := selectReviews().
		Where(sq.Eq{"r.user_id": q.UserIDs}).
		OrderBy("r.created_at "+dir, "r.consumed_date "+dir, "r.id "+dir)
	if q.MediaType != "" {
		b = b.Where(sq.Eq{"m.media_type": string(q.MediaType)})
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return scanReviews(ctx, s.db, b)
}

// UpdateReview writes the mutable review fields. Flags irrelevant to the
// item's media type are stored as NULL.
func (s *Store) UpdateReview(ctx context.Context, r *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET
			consumed_date = ?, stars = ?, favorited = ?, review = ?,
			audiobook = CASE (SELECT media_type FROM media_items WHERE id = reviews.media_item_id) WHEN 'BOOK' THEN ? END,
			in_theater = CASE (SELECT media_type FROM media_items WHERE id = reviews.media_item_id) WHEN 'MOVIE' THEN ? END,
			on_plane = CASE (SELECT media_type FROM media_items WHERE id = reviews.media_item_id) WHEN 'BOOK' THEN NULL ELSE ? END,
			updated_at = ?
		WHERE id = ?`,
		formatDate(r.ConsumedDate), nullInt(r.Stars), r.Favorited, r.Text,
		nullBool(r.Audiobook), nullBool(r.InTheater), nullBool(r.OnPlane),
		formatTime(s.now()), r.ID,
	)
	if err != nil {
		return writeError(err, "update review")
	}
	return requireAffected(res, "review", r.ID)
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return writeError(err, "delete review")
	}
	return requireAffected(res, "review", id)
}

// CountReviews counts a user's reviews of one media type.
func (s *Store) CountReviews(ctx context.Context, userID string, mediaType domain.MediaType) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM reviews r
		JOIN media_items m ON m.id = r.media_item_id
		WHERE r.user_id = ? AND m.media_type = ?`,
		userID, string(mediaType),
	)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// CreateReview inserts a review. A missing ID is generated and a nil
// CreatedAt is set to now.
func (t *txStore) CreateReview(ctx context.Context, r *domain.Review) error {
	if r.ID == "" {
		newID, err := id.Generate(id.PrefixReview)
		if err != nil {
			return err
		}
		r.ID = newID
	}
	if r.CreatedAt == nil {
		now := t.now().UTC()
		r.CreatedAt = &now
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO reviews (
			id, user_id, media_item_id, consumed_date, created_at, stars,
			favorited, review, audiobook, in_theater, on_plane, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.MediaItemID, formatDate(r.ConsumedDate), nullTimeString(r.CreatedAt), nullInt(r.Stars),
		r.Favorited, r.Text, nullBool(r.Audiobook), nullBool(r.InTheater), nullBool(r.OnPlane),
		formatTime(t.now()),
	)
	return writeError(err, "create review")
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.NotFound(kind, id)
	}
	return nil
}
