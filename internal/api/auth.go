package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediadiet/mediadiet/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the
// local user, creating it on the account's first request.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.tokens.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return s.services.Users.EnsureUser(ctx, claims)
}

// throttle rejects the request when the user has exhausted their budget of
// catalog-backed operations.
func (s *Server) throttle(userID string) error {
	if s.limiter.Allow(userID) {
		return nil
	}
	wait := s.limiter.RetryAfter(userID)
	s.logger.Warn("rate limit exceeded", "user_id", userID, "retry_after", wait)
	return &APIError{
		status:  http.StatusTooManyRequests,
		Code:    codeRateLimited,
		Message: "Too many requests. Please try again in " + strconv.Itoa(int(wait.Seconds())+1) + "s.",
	}
}
