package service

import (
	"context"
	"log/slog"

	"github.com/mediadiet/mediadiet/internal/auth"
	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// UpdateProfileInput holds the editable profile fields. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	Avatar         *string `json:"avatar" validate:"omitempty,max=2048"`
	SoderberghMode *bool   `json:"soderbergh_mode"`
}

// UserService manages local user profiles.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{store: store, validator: validator, logger: logger}
}

// EnsureUser returns the local profile for the token's account, creating
// it on first sight.
func (s *UserService) EnsureUser(ctx context.Context, claims *auth.AccessClaims) (*domain.User, error) {
	if claims == nil || claims.UserID == "" {
		return nil, domainerrors.Unauthorized("missing user identity")
	}

	user := &domain.User{
		ID:        claims.UserID,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
	if err := s.store.EnsureUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a profile by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// GetProfile returns a profile by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// UpdateProfile applies the non-nil fields of in to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.SoderberghMode != nil {
		user.SoderberghMode = *in.SoderberghMode
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
