package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mediadiet/mediadiet/internal/domain"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/search"
	"github.com/mediadiet/mediadiet/internal/store"
)

// reindexBatchSize is how many media items are read per page during a
// rebuild.
const reindexBatchSize = 500

// SearchService bridges the search index with the data store. It indexes
// media items as they are resolved and answers local media searches.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

var _ MediaIndexer = (*SearchService)(nil)

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchMedia searches every media item ever logged or saved.
func (s *SearchService) SearchMedia(ctx context.Context, query string, types []domain.MediaType, limit int) (*search.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.InvalidInput("search query is required")
	}
	return s.index.Search(ctx, search.SearchParams{Query: query, Types: types, Limit: limit})
}

// IndexMedia indexes a single media item.
func (s *SearchService) IndexMedia(_ context.Context, item *domain.MediaItem) error {
	if err := s.index.IndexDocument(search.NewMediaDocument(item)); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	s.logger.Debug("indexed media item", "id", item.ID, "title", item.DisplayTitle())
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll indexes every stored media item, a page at a time.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	var (
		afterID string
		indexed int
	)
	for {
		items, err := s.store.ListMediaItems(ctx, afterID, reindexBatchSize)
		if err != nil {
			return fmt.Errorf("list media items: %w", err)
		}
		if len(items) == 0 {
			break
		}

		docs := make([]*search.MediaDocument, len(items))
		for i := range items {
			docs[i] = search.NewMediaDocument(&items[i])
		}
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index media items: %w", err)
		}

		indexed += len(items)
		afterID = items[len(items)-1].ID
		if len(items) < reindexBatchSize {
			break
		}
	}

	total, _ := s.index.DocumentCount()
	s.logger.Info("full reindex complete", "indexed", indexed, "total_documents", total)
	return nil
}

// ReindexIfEmpty rebuilds the index when it holds no documents, which is
// the case after the index directory was removed or the mapping changed.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReindexAll(ctx)
}
