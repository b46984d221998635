package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/id"
	"github.com/mediadiet/mediadiet/internal/store"
)

type savedRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	MediaItemID string `db:"media_item_id"`
	CreatedAt   string `db:"created_at"`
}

func (r *savedRow) toDomain() (domain.SavedItem, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return domain.SavedItem{}, fmt.Errorf("saved item %s: created_at: %w", r.ID, err)
	}
	return domain.SavedItem{
		ID:          r.ID,
		UserID:      r.UserID,
		MediaItemID: r.MediaItemID,
		CreatedAt:   createdAt,
	}, nil
}

type joinedSavedRow struct {
	savedRow
	mediaItemRow
}

func (s *Store) getSaved(ctx context.Context, where sq.Eq, key string) (*domain.SavedItem, error) {
	query, args, err := sq.Select("id", "user_id", "media_item_id", "created_at").
		From("saved_items").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build saved item query: %w", err)
	}

	var row savedRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, readError(err, "saved item", key)
	}
	saved, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetSaved retrieves a saved item by ID.
func (s *Store) GetSaved(ctx context.Context, id string) (*domain.SavedItem, error) {
	return s.getSaved(ctx, sq.Eq{"id": id}, id)
}

// GetSavedByItem retrieves a user's saved item for a media item.
func (s *Store) GetSavedByItem(ctx context.Context, userID, mediaItemID string) (*domain.SavedItem, error) {
	return s.getSaved(ctx, sq.Eq{"user_id": userID, "media_item_id": mediaItemID}, mediaItemID)
}

// ListSaved returns a user's saved items with their media items, ordered by
// created_at then id.
func (s *Store) ListSaved(ctx context.Context, q store.SavedQuery) ([]domain.JoinedSavedItem, error) {
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}

	cols := append([]string{"si.id", "si.user_id", "si.media_item_id", "si.created_at"}, mediaItemColumns...)
	b := sq.Select(cols...).
		From("saved_items si").
		Join("media_items m ON m.id = si.media_item_id").
		LeftJoin("tv_series s ON s.id = m.series_id").
		Where(sq.Eq{"si.user_id": q.UserID}).
		OrderBy("si.created_at "+dir, "si.id "+dir)
	if len(q.MediaTypes) > 0 {
		types := make([]string, len(q.MediaTypes))
		for i, t := range q.MediaTypes {
			types[i] = string(t)
		}
		b = b.Where(sq.Eq{"m.media_type": types})
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build saved items query: %w", err)
	}

	var rows []joinedSavedRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list saved items: %w", err)
	}

	out := make([]domain.JoinedSavedItem, len(rows))
	items := make([]*domain.MediaItem, len(rows))
	for i := range rows {
		saved, err := rows[i].savedRow.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = domain.JoinedSavedItem{SavedItem: saved, Item: rows[i].mediaItemRow.toDomain()}
		items[i] = &out[i].Item
	}
	if err := attachCreators(ctx, s.db, items); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSaved removes a saved item by ID.
func (s *Store) DeleteSaved(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = ?`, id)
	if err != nil {
		return writeError(err, "delete saved item")
	}
	return requireAffected(res, "saved item", id)
}

// DeleteSavedByItem removes a user's saved item for a media item.
func (s *Store) DeleteSavedByItem(ctx context.Context, userID, mediaItemID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_items WHERE user_id = ? AND media_item_id = ?`, userID, mediaItemID)
	if err != nil {
		return writeError(err, "delete saved item")
	}
	return requireAffected(res, "saved item", mediaItemID)
}

// UpsertSaved creates a saved item or refreshes the existing one's
// created_at.
func (t *txStore) UpsertSaved(ctx context.Context, saved *domain.SavedItem) error {
	newID, err := id.Generate(id.PrefixSaved)
	if err != nil {
		return err
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = t.now().UTC()
	}

	err = t.tx.QueryRowxContext(ctx, `
		INSERT INTO saved_items (id, user_id, media_item_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, media_item_id) DO UPDATE SET created_at = excluded.created_at
		RETURNING id`,
		newID, saved.UserID, saved.MediaItemID, formatTime(saved.CreatedAt),
	).Scan(&saved.ID)
	return writeError(err, "upsert saved item")
}

// DeleteSavedByItem removes the saved placeholder inside the transaction.
func (t *txStore) DeleteSavedByItem(ctx context.Context, userID, mediaItemID string) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM saved_items WHERE user_id = ? AND media_item_id = ?`, userID, mediaItemID)
	if err != nil {
		return false, writeError(err, "delete saved item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
