package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/store"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// AddEntryInput logs a consumed work. Details carries the media-specific
// fields and decides the media type.
type AddEntryInput struct {
	UserID       string              `json:"user_id" validate:"required"`
	APIID        string              `json:"api_id" validate:"required,max=64"`
	ConsumedDate string              `json:"consumed_date" validate:"required,dateonly"`
	Stars        *int                `json:"stars" validate:"omitempty,min=1,max=5"`
	Favorited    bool                `json:"favorited"`
	Review       string              `json:"review" validate:"max=20000"`
	Details      domain.EntryDetails `json:"media_type" validate:"required"`
}

// AddEntryResult identifies the created review.
type AddEntryResult struct {
	ReviewID    string `json:"review_id"`
	MediaItemID string `json:"media_item_id"`
	Title       string `json:"title"`
	// RemovedSaved reports that a saved-for-later placeholder was promoted.
	RemovedSaved bool `json:"removed_saved"`
}

// UpdateEntryInput holds the mutable review fields. Nil fields are left
// unchanged.
type UpdateEntryInput struct {
	ConsumedDate *string `json:"consumed_date" validate:"omitempty,dateonly"`
	// Stars set to 0 clears the rating.
	Stars     *int    `json:"stars" validate:"omitempty,min=0,max=5"`
	Favorited *bool   `json:"favorited"`
	Review    *string `json:"review" validate:"omitempty,max=20000"`
	Audiobook *bool   `json:"audiobook"`
	InTheater *bool   `json:"in_theater"`
	OnPlane   *bool   `json:"on_plane"`
}

// DeleteResult reports the outcome of DeleteEntry. Failures are carried in
// the value instead of an error.
type DeleteResult struct {
	OK      bool              `json:"ok"`
	Title   string            `json:"title,omitempty"`
	Code    domainerrors.Code `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

// EntryService creates, updates and deletes reviews.
type EntryService struct {
	store     store.Store
	resolver  *MediaResolver
	validator *validation.Validator
	logger    *slog.Logger
	attempts  uint
}

// NewEntryService creates a new entry service.
func NewEntryService(
	store store.Store,
	resolver *MediaResolver,
	validator *validation.Validator,
	logger *slog.Logger,
) *EntryService {
	return &EntryService{
		store:     store,
		resolver:  resolver,
		validator: validator,
		logger:    logger,
		attempts:  DefaultWriteAttempts,
	}
}

// AddEntry fetches the work from its catalog, connects or creates its media
// item, creates the review and removes any saved placeholder for the same
// item, all in one transaction. Conflicting concurrent writes are retried.
func (s *EntryService) AddEntry(ctx context.Context, in AddEntryInput) (*AddEntryResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	consumed, err := time.Parse(validation.DateOnlyLayout, in.ConsumedDate)
	if err != nil {
		return nil, domainerrors.InvalidInputf("invalid consumed_date %q", in.ConsumedDate)
	}

	ref := CatalogRef{MediaType: in.Details.MediaType(), APIID: in.APIID}
	switch d := in.Details.(type) {
	case domain.TvEntry:
		ref.SeasonID = d.SeasonID
	case domain.BookEntry:
		ref.FirstPublishedYear = d.FirstPublishedYear
	}

	fetched, err := s.resolver.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	var (
		result AddEntryResult
		item   *domain.MediaItem
	)
	err = retryConflicts(ctx, s.attempts, s.logger, "add entry", func() error {
		return s.store.WithTx(ctx, func(tx store.Tx) error {
			resolved, err := s.resolver.Resolve(ctx, tx, fetched)
			if err != nil {
				return err
			}

			review := &domain.Review{
				UserID:       in.UserID,
				MediaItemID:  resolved.ID,
				ConsumedDate: consumed,
				Stars:        in.Stars,
				Favorited:    in.Favorited,
				Text:         in.Review,
				MediaFlags:   in.Details.Flags().For(resolved.MediaType),
			}
			if err := tx.CreateReview(ctx, review); err != nil {
				return err
			}

			removed, err := tx.DeleteSavedByItem(ctx, in.UserID, resolved.ID)
			if err != nil {
				return err
			}

			item = resolved
			result = AddEntryResult{
				ReviewID:     review.ID,
				MediaItemID:  resolved.ID,
				Title:        resolved.DisplayTitle(),
				RemovedSaved: removed,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.resolver.Index(ctx, item)
	s.logger.Info("entry added",
		"user_id", in.UserID,
		"review_id", result.ReviewID,
		"media_item_id", result.MediaItemID,
		"media_type", item.MediaType,
		"removed_saved", result.RemovedSaved,
	)
	return &result, nil
}

// GetEntry returns a review with its media item and owner.
func (s *EntryService) GetEntry(ctx context.Context, reviewID string) (*domain.JoinedReview, error) {
	return s.store.GetReview(ctx, reviewID)
}

// UpdateEntry changes the mutable fields of the caller's review. The media
// item and media type never change.
func (s *EntryService) UpdateEntry(ctx context.Context, userID, reviewID string, in UpdateEntryInput) (*domain.JoinedReview, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, domainerrors.Forbidden("cannot edit another user's entry")
	}

	review := existing.Review
	if in.ConsumedDate != nil {
		consumed, err := time.Parse(validation.DateOnlyLayout, *in.ConsumedDate)
		if err != nil {
			return nil, domainerrors.InvalidInputf("invalid consumed_date %q", *in.ConsumedDate)
		}
		review.ConsumedDate = consumed
	}
	if in.Stars != nil {
		if *in.Stars == 0 {
			review.Stars = nil
		} else {
			stars := *in.Stars
			review.Stars = &stars
		}
	}
	if in.Favorited != nil {
		review.Favorited = *in.Favorited
	}
	if in.Review != nil {
		review.Text = *in.Review
	}
	if in.Audiobook != nil {
		review.Audiobook = in.Audiobook
	}
	if in.InTheater != nil {
		review.InTheater = in.InTheater
	}
	if in.OnPlane != nil {
		review.OnPlane = in.OnPlane
	}
	review.MediaFlags = review.MediaFlags.For(existing.Item.MediaType)

	if err := s.store.UpdateReview(ctx, &review); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Review = review
	s.logger.Info("entry updated", "user_id", userID, "review_id", reviewID)
	return &updated, nil
}

// DeleteEntry removes the caller's review and returns its composed title.
// It never returns an error; failures are reported in the result.
func (s *EntryService) DeleteEntry(ctx context.Context, userID, reviewID string) DeleteResult {
	existing, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return s.deleteFailed(reviewID, err)
	}
	if existing.UserID != userID {
		return s.deleteFailed(reviewID, domainerrors.Forbidden("cannot delete another user's entry"))
	}

	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		return s.deleteFailed(reviewID, err)
	}

	title := existing.Item.DisplayTitle()
	s.logger.Info("entry deleted", "user_id", userID, "review_id", reviewID)
	return DeleteResult{OK: true, Title: title}
}

func (s *EntryService) deleteFailed(reviewID string, err error) DeleteResult {
	code := domainerrors.CodeOf(err)
	message := "could not delete entry"
	var de *domainerrors.Error
	if domainerrors.As(err, &de) && code != domainerrors.CodeInternal {
		message = de.Message
	}
	s.logger.Warn("delete entry failed", "review_id", reviewID, "code", code, "error", err)
	return DeleteResult{OK: false, Code: code, Message: message}
}
