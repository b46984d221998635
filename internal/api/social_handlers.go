package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/service"
)

func (s *Server) registerSocialRoutes() {
	register(s, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{username}/follow",
		Summary:     "Follow user",
		Description: "Follows a user. Following someone twice is a no-op.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	register(s, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{username}/follow",
		Summary:     "Unfollow user",
		Description: "Stops following a user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	register(s, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get feed",
		Description: "Returns a page of entries from everyone the caller follows",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFeed)
}

// FeedInput selects a page of the caller's feed.
type FeedInput struct {
	Authorization string `header:"Authorization"`
	ListParams
}

func (s *Server) handleFollowUser(ctx context.Context, input *UsernameInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	followee, err := s.services.Social.Follow(ctx, user.ID, input.Username)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(followee)}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *UsernameInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, user.ID, input.Username); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Unfollowed"}}, nil
}

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*EntriesOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter, sort, page, err := input.parse()
	if err != nil {
		return nil, err
	}

	result, err := s.services.Lists.GetFeed(ctx, viewer.ID, service.ListQuery{
		Viewer: viewer,
		Filter: filter,
		Sort:   sort,
		Page:   page,
		Cover:  input.Cover,
	})
	if err != nil {
		return nil, err
	}
	return &EntriesOutput{Body: result}, nil
}
