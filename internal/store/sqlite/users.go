package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// ownerColumns select the users table joined as u.
var ownerColumns = []string{
	"u.id AS owner_id",
	"u.username AS owner_username",
	"u.first_name AS owner_first_name",
	"u.last_name AS owner_last_name",
	"u.avatar AS owner_avatar",
	"u.soderbergh_mode AS owner_soderbergh_mode",
	"u.created_at AS owner_created_at",
}

type userRow struct {
	OwnerID             string `db:"owner_id"`
	OwnerUsername       string `db:"owner_username"`
	OwnerFirstName      string `db:"owner_first_name"`
	OwnerLastName       string `db:"owner_last_name"`
	OwnerAvatar         string `db:"owner_avatar"`
	OwnerSoderberghMode bool   `db:"owner_soderbergh_mode"`
	OwnerCreatedAt      string `db:"owner_created_at"`
}

func (r *userRow) toDomain() (*domain.User, error) {
	createdAt, err := parseTime(r.OwnerCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s: created_at: %w", r.OwnerID, err)
	}
	return &domain.User{
		ID:             r.OwnerID,
		Username:       r.OwnerUsername,
		FirstName:      r.OwnerFirstName,
		LastName:       r.OwnerLastName,
		Avatar:         r.OwnerAvatar,
		SoderberghMode: r.OwnerSoderberghMode,
		CreatedAt:      createdAt,
	}, nil
}

func selectUsers() sq.SelectBuilder {
	return sq.Select(ownerColumns...).From("users u")
}

func (s *Store) getUser(ctx context.Context, where sq.Sqlizer, key string) (*domain.User, error) {
	query, args, err := selectUsers().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, readError(err, "user", key)
	}
	return row.toDomain()
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"u.id": id}, id)
}

// GetUserByUsername retrieves a user by username, ignoring case.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, sq.Expr("u.username = ? COLLATE NOCASE", username), username)
}

// EnsureUser creates the user on first sight. An existing row keeps its
// profile edits and only follows username changes. The stored row is
// written back into user.
func (s *Store) EnsureUser(ctx context.Context, user *domain.User) error {
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, avatar, soderbergh_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			updated_at = excluded.updated_at
		WHERE users.username <> excluded.username`,
		user.ID, user.Username, user.FirstName, user.LastName, user.Avatar, user.SoderberghMode, now, now,
	)
	if err != nil {
		return writeError(err, "ensure user")
	}

	stored, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

// UpdateUser writes the editable profile fields.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, avatar = ?, soderbergh_mode = ?, updated_at = ?
		WHERE id = ?`,
		user.FirstName, user.LastName, user.Avatar, user.SoderberghMode, formatTime(s.now()), user.ID,
	)
	if err != nil {
		return writeError(err, "update user")
	}
	return requireAffected(res, "user", user.ID)
}
