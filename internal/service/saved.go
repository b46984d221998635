package service

import (
	"context"
	"log/slog"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/entry"
	"github.com/mediadiet/mediadiet/internal/store"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// SaveInput marks a catalog work for later.
type SaveInput struct {
	UserID    string           `json:"user_id" validate:"required"`
	MediaType domain.MediaType `json:"media_type" validate:"required,oneof=MOVIE BOOK TV"`
	APIID     string           `json:"api_id" validate:"required,max=64"`
	// SeasonID selects the season when MediaType is TV. For TV an existing
	// item is looked up by the season id.
	SeasonID string `json:"season_id" validate:"required_if=MediaType TV,max=64"`
}

// SaveResult identifies the saved item.
type SaveResult struct {
	SavedItemID string `json:"saved_item_id"`
	MediaItemID string `json:"media_item_id"`
	Title       string `json:"title"`
}

// SavedQuery selects a page of a user's saved items.
type SavedQuery struct {
	UserID string
	Filter entry.Filter
	Sort   entry.SortDirection
	Page   entry.Page
	Cover  string
}

// SavedService manages the saved-for-later queue.
type SavedService struct {
	store     store.Store
	resolver  *MediaResolver
	validator *validation.Validator
	logger    *slog.Logger
	attempts  uint
}

// NewSavedService creates a new saved service.
func NewSavedService(
	store store.Store,
	resolver *MediaResolver,
	validator *validation.Validator,
	logger *slog.Logger,
) *SavedService {
	return &SavedService{
		store:     store,
		resolver:  resolver,
		validator: validator,
		logger:    logger,
		attempts:  DefaultWriteAttempts,
	}
}

// SaveForLater creates the saved item, or refreshes its created time when
// the user already saved the same media item. A media item seen before is
// reused without a catalog lookup; a known TV season must belong to the
// requested show.
func (s *SavedService) SaveForLater(ctx context.Context, in SaveInput) (*SaveResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	itemAPIID := in.APIID
	if in.MediaType == domain.MediaTypeTV {
		itemAPIID = in.SeasonID
	}

	var fetched *domain.MediaItem
	existing, err := s.store.GetMediaItemByAPIID(ctx, itemAPIID, in.MediaType)
	switch {
	case err == nil:
		if existing.Series != nil && existing.Series.APIID != in.APIID {
			return nil, domainerrors.NotFoundf("season %s not found for show %s", in.SeasonID, in.APIID)
		}
	case domainerrors.Is(err, store.ErrNotFound):
		fetched, err = s.resolver.Fetch(ctx, CatalogRef{MediaType: in.MediaType, APIID: in.APIID, SeasonID: in.SeasonID})
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	var result SaveResult
	var created *domain.MediaItem
	err = retryConflicts(ctx, s.attempts, s.logger, "save for later", func() error {
		return s.store.WithTx(ctx, func(tx store.Tx) error {
			item := existing
			if fetched != nil {
				resolved, err := s.resolver.Resolve(ctx, tx, fetched)
				if err != nil {
					return err
				}
				item = resolved
			}

			saved := &domain.SavedItem{UserID: in.UserID, MediaItemID: item.ID}
			if err := tx.UpsertSaved(ctx, saved); err != nil {
				return err
			}

			if fetched != nil {
				created = item
			}
			result = SaveResult{
				SavedItemID: saved.ID,
				MediaItemID: item.ID,
				Title:       item.DisplayTitle(),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		s.resolver.Index(ctx, created)
	}
	s.logger.Info("saved for later",
		"user_id", in.UserID,
		"saved_item_id", result.SavedItemID,
		"media_item_id", result.MediaItemID,
	)
	return &result, nil
}

// DeleteSaved removes the caller's saved item by id.
func (s *SavedService) DeleteSaved(ctx context.Context, userID, savedID string) error {
	saved, err := s.store.GetSaved(ctx, savedID)
	if err != nil {
		return err
	}
	if saved.UserID != userID {
		// Another user's row is reported as missing.
		return store.NotFound("saved item", savedID)
	}
	if err := s.store.DeleteSaved(ctx, savedID); err != nil {
		return err
	}
	s.logger.Info("saved item deleted", "user_id", userID, "saved_item_id", savedID)
	return nil
}

// DeleteSavedByItem removes the caller's saved item for a media item.
func (s *SavedService) DeleteSavedByItem(ctx context.Context, userID, mediaItemID string) error {
	if err := s.store.DeleteSavedByItem(ctx, userID, mediaItemID); err != nil {
		return err
	}
	s.logger.Info("saved item deleted", "user_id", userID, "media_item_id", mediaItemID)
	return nil
}

// IsSaved reports whether the user has saved the media item.
func (s *SavedService) IsSaved(ctx context.Context, userID, mediaItemID string) (bool, error) {
	_, err := s.store.GetSavedByItem(ctx, userID, mediaItemID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List returns a page of the user's saved items, newest first by default.
func (s *SavedService) List(ctx context.Context, q SavedQuery) (entry.Result[entry.SavedEntry], error) {
	page := q.Page.Normalized()

	rows, err := s.store.ListSaved(ctx, store.SavedQuery{
		UserID:     q.UserID,
		MediaTypes: q.Filter.Types(),
		Ascending:  q.Sort == entry.SortAsc,
		Limit:      page.Limit(),
	})
	if err != nil {
		return entry.Result[entry.SavedEntry]{}, err
	}

	opts := entry.Options{CoverSize: q.Cover}
	items := make([]entry.SavedEntry, len(rows))
	for i := range rows {
		items[i] = entry.NormalizeSaved(rows[i], opts)
	}
	entry.SortSaved(items, q.Sort)
	return entry.Paginate(items, page), nil
}
