package service

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/entry"
	"github.com/mediadiet/mediadiet/internal/store"
)

// DefaultFollowersSummaryLimit is how many follower names a summary shows
// before collapsing the rest into "N others".
const DefaultFollowersSummaryLimit = 3

// FollowersSummary is a user's follow counts plus a short display string of
// who follows them.
type FollowersSummary struct {
	domain.FollowCounts
	Followers string `json:"followers"`
}

// StatsService computes per-user counts.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// EntryCounts counts the user's reviews per media type. The three counts
// run concurrently.
func (s *StatsService) EntryCounts(ctx context.Context, userID string) (domain.EntryCounts, error) {
	var counts domain.EntryCounts
	targets := map[domain.MediaType]*int{
		domain.MediaTypeMovie: &counts.Movies,
		domain.MediaTypeBook:  &counts.Books,
		domain.MediaTypeTV:    &counts.TV,
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for mt, dst := range targets {
		p.Go(func(ctx context.Context) error {
			n, err := s.store.CountReviews(ctx, userID, mt)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return domain.EntryCounts{}, err
	}
	return counts, nil
}

// FollowCounts returns how many users follow userID and how many userID
// follows.
func (s *StatsService) FollowCounts(ctx context.Context, userID string) (domain.FollowCounts, error) {
	var counts domain.FollowCounts

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		n, err := s.store.CountFollowers(ctx, userID)
		counts.FollowedBy = n
		return err
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.store.CountFollowing(ctx, userID)
		counts.Following = n
		return err
	})
	if err := p.Wait(); err != nil {
		return domain.FollowCounts{}, err
	}
	return counts, nil
}

// FollowersSummary joins follower display names with the list rule,
// truncated after limit names. A limit of 0 uses the default.
func (s *StatsService) FollowersSummary(ctx context.Context, userID string, limit int) (*FollowersSummary, error) {
	if limit <= 0 {
		limit = DefaultFollowersSummaryLimit
	}

	counts, err := s.FollowCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(followers))
	for i, u := range followers {
		names[i] = u.DisplayName()
	}
	return &FollowersSummary{
		FollowCounts: counts,
		Followers:    entry.JoinList(names, limit),
	}, nil
}
