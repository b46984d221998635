package sqlite

import (
	"context"
	"fmt"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// CreateFollow adds a follow edge. Following twice is a no-op.
func (s *Store) CreateFollow(ctx context.Context, f *domain.Follow) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(follower_id, followed_id) DO NOTHING`,
		f.FollowerID, f.FollowedID, formatTime(f.CreatedAt),
	)
	return writeError(err, "create follow")
}

// DeleteFollow removes a follow edge.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	if err != nil {
		return writeError(err, "delete follow")
	}
	return requireAffected(res, "follow", followerID+"->"+followedID)
}

// CountFollowers counts the users following userID.
func (s *Store) CountFollowers(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM follows WHERE followed_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return n, nil
}

// CountFollowing counts the users userID follows.
func (s *Store) CountFollowing(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return n, nil
}

// ListFollowers returns the users following userID, most recent first.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	query, args, err := selectUsers().
		Join("follows f ON f.follower_id = u.id").
		Where("f.followed_id = ?", userID).
		OrderBy("f.created_at DESC", "u.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build followers query: %w", err)
	}

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		u, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// ListFollowingIDs returns the IDs of the users userID follows.
func (s *Store) ListFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids,
		`SELECT followed_id FROM follows WHERE follower_id = ? ORDER BY followed_id`, userID); err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return ids, nil
}
