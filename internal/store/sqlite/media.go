package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/id"
)

// mediaItemColumns select a media item with its series as item_*/series_*.
var mediaItemColumns = []string{
	"m.id AS item_id",
	"m.api_id AS item_api_id",
	"m.media_type AS item_media_type",
	"m.title AS item_title",
	"m.cover_art AS item_cover_art",
	"m.release_date AS item_release_date",
	"m.length AS item_length",
	"m.season_number AS item_season_number",
	"s.id AS series_id",
	"s.api_id AS series_api_id",
	"s.title AS series_title",
	"s.cover_art AS series_cover_art",
}

// mediaItemRow is the flat scan target for mediaItemColumns.
type mediaItemRow struct {
	ItemID           string         `db:"item_id"`
	ItemAPIID        string         `db:"item_api_id"`
	ItemMediaType    string         `db:"item_media_type"`
	ItemTitle        string         `db:"item_title"`
	ItemCoverArt     string         `db:"item_cover_art"`
	ItemReleaseDate  string         `db:"item_release_date"`
	ItemLength       sql.NullInt64  `db:"item_length"`
	ItemSeasonNumber sql.NullInt64  `db:"item_season_number"`
	SeriesID         sql.NullString `db:"series_id"`
	SeriesAPIID      sql.NullString `db:"series_api_id"`
	SeriesTitle      sql.NullString `db:"series_title"`
	SeriesCoverArt   sql.NullString `db:"series_cover_art"`
}

func (r *mediaItemRow) toDomain() domain.MediaItem {
	item := domain.MediaItem{
		ID:           r.ItemID,
		APIID:        r.ItemAPIID,
		MediaType:    domain.MediaType(r.ItemMediaType),
		Title:        r.ItemTitle,
		CoverArt:     r.ItemCoverArt,
		ReleaseDate:  r.ItemReleaseDate,
		Length:       intPtr(r.ItemLength),
		SeasonNumber: intPtr(r.ItemSeasonNumber),
	}
	if r.SeriesID.Valid {
		item.SeriesID = r.SeriesID.String
		item.Series = &domain.TvSeries{
			ID:       r.SeriesID.String,
			APIID:    r.SeriesAPIID.String,
			Title:    r.SeriesTitle.String,
			CoverArt: r.SeriesCoverArt.String,
		}
	}
	return item
}

func selectMediaItems() sq.SelectBuilder {
	return sq.Select(mediaItemColumns...).
		From("media_items m").
		LeftJoin("tv_series s ON s.id = m.series_id")
}

// creatorRow is a creator tagged with the item it is credited on.
type creatorRow struct {
	MediaItemID string `db:"media_item_id"`
	domain.Creator
}

// loadCreators returns the creators of each item in credit order.
func loadCreators(ctx context.Context, q sqlx.QueryerContext, itemIDs []string) (map[string][]domain.Creator, error) {
	out := make(map[string][]domain.Creator, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT mic.media_item_id, c.id, c.api_id, c.creator_type, c.name
		FROM media_item_creators mic
		JOIN creators c ON c.id = mic.creator_id
		WHERE mic.media_item_id IN (?)
		ORDER BY mic.media_item_id, mic.position`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("build creators query: %w", err)
	}

	var rows []creatorRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load creators: %w", err)
	}
	for _, r := range rows {
		out[r.MediaItemID] = append(out[r.MediaItemID], r.Creator)
	}
	return out, nil
}

// attachCreators loads creators for every item in place.
func attachCreators(ctx context.Context, q sqlx.QueryerContext, items []*domain.MediaItem) error {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}
	creators, err := loadCreators(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		item.Creators = creators[item.ID]
	}
	return nil
}

func getMediaItem(ctx context.Context, q sqlx.QueryerContext, where sq.Sqlizer, kind, key string) (*domain.MediaItem, error) {
	query, args, err := selectMediaItems().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media item query: %w", err)
	}

	var row mediaItemRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return nil, readError(err, kind, key)
	}

	item := row.toDomain()
	if err := attachCreators(ctx, q, []*domain.MediaItem{&item}); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetMediaItem returns a media item with its series and creators.
func (s *Store) GetMediaItem(ctx context.Context, id string) (*domain.MediaItem, error) {
	return getMediaItem(ctx, s.db, sq.Eq{"m.id": id}, "media item", id)
}

// GetMediaItemByAPIID looks an item up by its natural key.
func (s *Store) GetMediaItemByAPIID(ctx context.Context, apiID string, mediaType domain.MediaType) (*domain.MediaItem, error) {
	return getMediaItem(ctx, s.db, sq.Eq{"m.api_id": apiID, "m.media_type": string(mediaType)}, "media item", string(mediaType)+":"+apiID)
}

// ListMediaItems pages through every media item in id order.
func (s *Store) ListMediaItems(ctx context.Context, afterID string, limit int) ([]domain.MediaItem, error) {
	b := selectMediaItems().OrderBy("m.id")
	if afterID != "" {
		b = b.Where(sq.Gt{"m.id": afterID})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media items query: %w", err)
	}

	var rows []mediaItemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list media items: %w", err)
	}

	items := make([]domain.MediaItem, len(rows))
	ptrs := make([]*domain.MediaItem, len(rows))
	for i := range rows {
		items[i] = rows[i].toDomain()
		ptrs[i] = &items[i]
	}
	if err := attachCreators(ctx, s.db, ptrs); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMediaItemByAPIID reads inside the transaction.
func (t *txStore) GetMediaItemByAPIID(ctx context.Context, apiID string, mediaType domain.MediaType) (*domain.MediaItem, error) {
	return getMediaItem(ctx, t.tx, sq.Eq{"m.api_id": apiID, "m.media_type": string(mediaType)}, "media item", string(mediaType)+":"+apiID)
}

// UpsertCreator connects or creates a creator. An existing row keeps its ID
// and takes the latest name.
func (t *txStore) UpsertCreator(ctx context.Context, c *domain.Creator) error {
	newID, err := id.Generate(id.PrefixCreator)
	if err != nil {
		return err
	}

	err = t.tx.QueryRowxContext(ctx, `
		INSERT INTO creators (id, api_id, creator_type, name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(api_id, creator_type) DO UPDATE SET name = excluded.name
		RETURNING id`,
		newID, c.APIID, string(c.CreatorType), c.Name,
	).Scan(&c.ID)
	return writeError(err, "upsert creator")
}

// UpsertSeries connects or creates a TV series keyed by its catalog id.
func (t *txStore) UpsertSeries(ctx context.Context, series *domain.TvSeries) error {
	newID, err := id.Generate(id.PrefixSeries)
	if err != nil {
		return err
	}
	now := formatTime(t.now())

	err = t.tx.QueryRowxContext(ctx, `
		INSERT INTO tv_series (id, api_id, title, cover_art, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(api_id) DO UPDATE SET
			title = excluded.title,
			cover_art = CASE WHEN excluded.cover_art = '' THEN tv_series.cover_art ELSE excluded.cover_art END,
			updated_at = excluded.updated_at
		RETURNING id`,
		newID, series.APIID, series.Title, series.CoverArt, now, now,
	).Scan(&series.ID)
	return writeError(err, "upsert series")
}

// UpsertMediaItem connects or creates a media item and links its creators.
// Catalog fields are refreshed on an existing row; an empty cover never
// replaces a known one.
func (t *txStore) UpsertMediaItem(ctx context.Context, item *domain.MediaItem) error {
	newID, err := id.Generate(id.PrefixMediaItem)
	if err != nil {
		return err
	}
	now := formatTime(t.now())

	seriesID := item.SeriesID
	if seriesID == "" && item.Series != nil {
		seriesID = item.Series.ID
	}

	err = t.tx.QueryRowxContext(ctx, `
		INSERT INTO media_items (
			id, api_id, media_type, title, cover_art, release_date,
			length, season_number, series_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(api_id, media_type) DO UPDATE SET
			title = excluded.title,
			cover_art = CASE WHEN excluded.cover_art = '' THEN media_items.cover_art ELSE excluded.cover_art END,
			release_date = CASE WHEN excluded.release_date = '' THEN media_items.release_date ELSE excluded.release_date END,
			length = COALESCE(excluded.length, media_items.length),
			season_number = COALESCE(excluded.season_number, media_items.season_number),
			series_id = COALESCE(excluded.series_id, media_items.series_id),
			updated_at = excluded.updated_at
		RETURNING id`,
		newID, item.APIID, string(item.MediaType), item.Title, item.CoverArt, item.ReleaseDate,
		nullInt(item.Length), nullInt(item.SeasonNumber), nullString(seriesID), now, now,
	).Scan(&item.ID)
	if err != nil {
		return writeError(err, "upsert media item")
	}
	item.SeriesID = seriesID

	for pos, c := range item.Creators {
		if c.ID == "" {
			return fmt.Errorf("link creator %q: creator has no id", c.APIID)
		}
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO media_item_creators (media_item_id, creator_id, position)
			VALUES (?, ?, ?)
			ON CONFLICT(media_item_id, creator_id) DO UPDATE SET position = excluded.position`,
			item.ID, c.ID, pos,
		)
		if err != nil {
			return writeError(err, "link creator")
		}
	}
	return nil
}
