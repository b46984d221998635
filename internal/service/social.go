package service

import (
	"context"
	"log/slog"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
)

// SocialService manages the follow graph.
type SocialService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{store: store, logger: logger}
}

// Follow makes followerID follow the user with the given username.
// Following someone twice is not an error.
func (s *SocialService) Follow(ctx context.Context, followerID, username string) (*domain.User, error) {
	target, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, domainerrors.InvalidInput("cannot follow yourself")
	}

	if err := s.store.CreateFollow(ctx, &domain.Follow{FollowerID: followerID, FollowedID: target.ID}); err != nil {
		return nil, err
	}
	s.logger.Info("user followed", "follower_id", followerID, "followed_id", target.ID)
	return target, nil
}

// Unfollow removes the follow edge. A missing edge is NotFound.
func (s *SocialService) Unfollow(ctx context.Context, followerID, username string) error {
	target, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return domainerrors.InvalidInput("cannot unfollow yourself")
	}

	if err := s.store.DeleteFollow(ctx, followerID, target.ID); err != nil {
		return err
	}
	s.logger.Info("user unfollowed", "follower_id", followerID, "followed_id", target.ID)
	return nil
}
