package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/entry"
	"github.com/mediadiet/mediadiet/internal/store"
)

// ListQuery selects a page of entries.
type ListQuery struct {
	// Viewer is the authenticated user, if any. Their soderbergh mode hides
	// star ratings.
	Viewer *domain.User
	Filter entry.Filter
	Sort   entry.SortDirection
	Page   entry.Page
	Cover  string
	// CreatorLimit truncates creator lists; 0 shows everyone.
	CreatorLimit int
}

func (q ListQuery) options() entry.Options {
	return entry.Options{
		CoverSize:    q.Cover,
		HideStars:    q.Viewer != nil && q.Viewer.SoderberghMode,
		CreatorLimit: q.CreatorLimit,
	}
}

// ListService builds aggregated entry lists across media types.
type ListService struct {
	store  store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store store.Store, logger *slog.Logger) *ListService {
	return &ListService{store: store, logger: logger}
}

// ListUserEntries returns one page of a user's entries across the selected
// media types.
func (s *ListService) ListUserEntries(ctx context.Context, username string, q ListQuery) (entry.Result[entry.Entry], error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return entry.Result[entry.Entry]{}, err
	}
	return s.aggregate(ctx, []string{user.ID}, q)
}

// GetFeed returns one page of entries from every user the viewer follows.
func (s *ListService) GetFeed(ctx context.Context, viewerID string, q ListQuery) (entry.Result[entry.Entry], error) {
	following, err := s.store.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return entry.Result[entry.Entry]{}, err
	}
	if len(following) == 0 {
		page := q.Page.Normalized()
		return entry.Result[entry.Entry]{Items: []entry.Entry{}, Skip: page.Skip, Take: page.Take}, nil
	}
	return s.aggregate(ctx, following, q)
}

// aggregate queries the leading rows of each selected media type
// concurrently and merges them into one ordered page.
func (s *ListService) aggregate(ctx context.Context, userIDs []string, q ListQuery) (entry.Result[entry.Entry], error) {
	page := q.Page.Normalized()
	opts := q.options()

	p := pool.NewWithResults[[]entry.Entry]().
		WithContext(ctx).
		WithCancelOnError()
	for _, mt := range q.Filter.Types() {
		p.Go(func(ctx context.Context) ([]entry.Entry, error) {
			rows, err := s.store.ListReviews(ctx, store.ReviewQuery{
				UserIDs:   userIDs,
				MediaType: mt,
				Ascending: q.Sort == entry.SortAsc,
				Limit:     page.Limit(),
			})
			if err != nil {
				return nil, fmt.Errorf("list %s entries: %w", mt, err)
			}
			return entry.NormalizeAll(rows, opts), nil
		})
	}

	sources, err := p.Wait()
	if err != nil {
		return entry.Result[entry.Entry]{}, err
	}

	result := entry.Merge(sources, q.Sort, page)
	if result.Items == nil {
		result.Items = []entry.Entry{}
	}
	s.logger.Debug("entries aggregated",
		"users", len(userIDs),
		"types", len(sources),
		"returned", len(result.Items),
		"has_more", result.HasMore,
	)
	return result, nil
}
