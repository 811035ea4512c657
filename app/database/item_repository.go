package database

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var _ ItemRepository = (*ItemRepo)(nil)

// ItemRepo handles database operations for feed items
type ItemRepo struct {
	db *DB
}

func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// InsertItem stores a feed item unless one with the same (title, link)
// already exists. Returns true when a new row was written.
func (r *ItemRepo) InsertItem(ctx context.Context, item FeedItem) (bool, error) {
	const q = `INSERT OR IGNORE INTO feed_items (id, title, link, pub_date, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	item.ID = uuid.New().String()
	if item.FetchedAt.IsZero() {
		item.FetchedAt = nowUTC()
	}

	res, err := r.db.ExecContext(ctx, q, item.ID, item.Title, item.Link,
		item.PubDate.UTC(), item.Source, item.FetchedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert feed item: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return inserted > 0, nil
}

// QueryItems returns every feed item matching the filter, newest first.
// No pagination here: the feed query engine paginates the merged set.
func (r *ItemRepo) QueryItems(ctx context.Context, filter ItemFilter) ([]FeedItem, error) {
	q := sq.Select("id", "title", "link", "pub_date", "source", "fetched_at").
		From("feed_items").
		OrderBy("pub_date DESC")

	if len(filter.Sources) > 0 {
		q = q.Where(sq.Eq{"source": filter.Sources})
	}
	if filter.Date != nil {
		q = q.Where("date(pub_date) = ?", filter.Date.UTC().Format("2006-01-02"))
	} else if filter.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	var items []FeedItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query feed items: %w", err)
	}

	return items, nil
}

// RecentItemsBySource returns the newest items for one source tag,
// optionally restricted to titles containing the given substring.
func (r *ItemRepo) RecentItemsBySource(ctx context.Context, source, titleContains string, limit int) ([]FeedItem, error) {
	q := sq.Select("id", "title", "link", "pub_date", "source", "fetched_at").
		From("feed_items").
		Where(sq.Eq{"source": source}).
		OrderBy("pub_date DESC").
		Limit(uint64(limit))

	if titleContains != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleContains)+"%")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent items query: %w", err)
	}

	var items []FeedItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query recent items: %w", err)
	}

	return items, nil
}

// GetItemCount returns the total number of stored feed items
func (r *ItemRepo) GetItemCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM feed_items"); err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}
