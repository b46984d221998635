package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/color"
	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/service"
)

func (s *Server) registerUserRoutes() {
	register(s, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	register(s, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me",
		Summary:     "Update current user",
		Description: "Updates the authenticated user's profile and settings",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	register(s, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Get user profile",
		Description: "Returns a user's public profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserProfile)

	register(s, huma.Operation{
		OperationID: "listUserEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/entries",
		Summary:     "List user entries",
		Description: "Returns a page of the user's entries across the selected media types",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUserEntries)

	register(s, huma.Operation{
		OperationID: "getUserCounts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/counts",
		Summary:     "Get user counts",
		Description: "Returns per-type entry counts and follow counts",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserCounts)

	register(s, huma.Operation{
		OperationID: "getUserFollows",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/follows",
		Summary:     "Get follow summary",
		Description: "Returns follow counts and a short list of follower names",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserFollows)
}

// === DTOs ===

// UserResponse is a user in API responses.
type UserResponse struct {
	ID             string `json:"id" doc:"User ID"`
	Username       string `json:"username" doc:"Unique username"`
	FirstName      string `json:"first_name,omitempty" doc:"First name"`
	LastName       string `json:"last_name,omitempty" doc:"Last name"`
	DisplayName    string `json:"display_name" doc:"Full name, or the username when no name is set"`
	Avatar         string `json:"avatar,omitempty" doc:"Avatar URL"`
	AvatarColor    string `json:"avatar_color" doc:"Placeholder color for clients without an avatar image"`
	SoderberghMode bool   `json:"soderbergh_mode" doc:"Hide star ratings everywhere"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		DisplayName:    u.DisplayName(),
		Avatar:         u.Avatar,
		AvatarColor:    color.ForUser(u.ID),
		SoderberghMode: u.SoderberghMode,
	}
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

// AuthOnlyInput carries only the bearer token.
type AuthOnlyInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateProfileRequest is the PATCH /me body.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty" maxLength:"100" doc:"First name"`
	LastName       *string `json:"last_name,omitempty" maxLength:"100" doc:"Last name"`
	Avatar         *string `json:"avatar,omitempty" maxLength:"2048" doc:"Avatar URL"`
	SoderberghMode *bool   `json:"soderbergh_mode,omitempty" doc:"Hide star ratings everywhere"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// UsernameInput selects a user by username.
type UsernameInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
}

// ListUserEntriesInput selects a page of a user's entries.
type ListUserEntriesInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
	ListParams
}

// CountsResponse holds a user's entry and follow counts.
type CountsResponse struct {
	Entries domain.EntryCounts  `json:"entries"`
	Follows domain.FollowCounts `json:"follows"`
}

// CountsOutput wraps counts for Huma.
type CountsOutput struct {
	Body CountsResponse
}

// FollowsInput selects a user and how many follower names to list.
type FollowsInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
	Limit         int    `query:"limit" minimum:"0" maximum:"50" doc:"Follower names to list; defaults to 3"`
}

// FollowsOutput wraps the follow summary for Huma.
type FollowsOutput struct {
	Body *service.FollowersSummary
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthOnlyInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Users.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		FirstName:      input.Body.FirstName,
		LastName:       input.Body.LastName,
		Avatar:         input.Body.Avatar,
		SoderberghMode: input.Body.SoderberghMode,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(updated)}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *UsernameInput) (*UserOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Users.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleListUserEntries(ctx context.Context, input *ListUserEntriesInput) (*EntriesOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter, sort, page, err := input.parse()
	if err != nil {
		return nil, err
	}

	result, err := s.services.Lists.ListUserEntries(ctx, input.Username, service.ListQuery{
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

func (s *Server) handleGetUserCounts(ctx context.Context, input *UsernameInput) (*CountsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Users.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Stats.EntryCounts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	follows, err := s.services.Stats.FollowCounts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &CountsOutput{Body: CountsResponse{Entries: entries, Follows: follows}}, nil
}

func (s *Server) handleGetUserFollows(ctx context.Context, input *FollowsInput) (*FollowsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Users.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = service.DefaultFollowersSummaryLimit
	}
	summary, err := s.services.Stats.FollowersSummary(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}
	return &FollowsOutput{Body: summary}, nil
}
