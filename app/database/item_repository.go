package database

import (
	"fmt"
	"strings"
)

var _ ItemRepository = (*SQLiteItemRepository)(nil)

// SQLiteItemRepository handles database operations for feed items
type SQLiteItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *SQLiteItemRepository {
	return &SQLiteItemRepository{db: db}
}

// AddItems inserts items one at a time. Each insert is atomic with respect
// to the unique constraint, so concurrent writers racing on the same feed
// cannot produce duplicate rows; the first write wins.
func (r *SQLiteItemRepository) AddItems(items []Item) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := r.db.Prepare(`
		INSERT INTO feed_items (feed_url, title, link, content, image, published)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_url, link) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(item.FeedURL, item.Title, item.Link, item.Content, item.Image, item.Published)
		if err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Link, err)
		}
	}

	return nil
}

func (r *SQLiteItemRepository) GetItems(feedURLs []string, limit int, lastPublished, lastID int64) ([]Item, error) {
	if len(feedURLs) == 0 {
		return nil, nil
	}

	var query strings.Builder
	query.WriteString(`
		SELECT id, feed_url, title, link, content, image, published
		FROM feed_items
		WHERE feed_url IN (` + placeholders(len(feedURLs)) + `)
	`)

	args := make([]interface{}, 0, len(feedURLs)+4)
	for _, url := range feedURLs {
		args = append(args, url)
	}

	if lastPublished != 0 && lastID != 0 {
		query.WriteString(` AND (published < ? OR (published = ? AND id < ?))`)
		args = append(args, lastPublished, lastPublished, lastID)
	}

	query.WriteString(`
		ORDER BY published DESC, id DESC
		LIMIT ?
	`)
	args = append(args, limit)

	rows, err := r.db.Query(query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(&item.ID, &item.FeedURL, &item.Title, &item.Link,
			&item.Content, &item.Image, &item.Published)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func (r *SQLiteItemRepository) HasItems(feedURLs []string) (map[string]bool, error) {
	hasItems := make(map[string]bool, len(feedURLs))
	for _, url := range feedURLs {
		hasItems[url] = false
	}

	if len(feedURLs) == 0 {
		return hasItems, nil
	}

	args := make([]interface{}, 0, len(feedURLs))
	for _, url := range feedURLs {
		args = append(args, url)
	}

	rows, err := r.db.Query(`
		SELECT DISTINCT feed_url
		FROM feed_items
		WHERE feed_url IN (`+placeholders(len(feedURLs))+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check for items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan feed URL row: %w", err)
		}
		hasItems[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed URL rows: %w", err)
	}

	return hasItems, nil
}

func (r *SQLiteItemRepository) GetFeedURLs() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT feed_url FROM feed_items ORDER BY feed_url")
	if err != nil {
		return nil, fmt.Errorf("failed to get feed URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan feed URL row: %w", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed URL rows: %w", err)
	}

	return urls, nil
}

func (r *SQLiteItemRepository) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feed_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
