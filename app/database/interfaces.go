package database

type ItemRepository interface {
	// AddItems inserts each item; rows conflicting on (feed_url, link) are
	// silently skipped.
	AddItems(items []Item) error

	// GetItems returns up to limit rows for the given feed URLs in
	// (published DESC, id DESC) order, starting strictly after the
	// (lastPublished, lastID) cursor position when both are non-zero.
	GetItems(feedURLs []string, limit int, lastPublished, lastID int64) ([]Item, error)

	// HasItems reports, per requested URL, whether at least one row exists.
	HasItems(feedURLs []string) (map[string]bool, error)

	// GetFeedURLs returns every distinct feed URL currently stored.
	GetFeedURLs() ([]string, error)

	GetItemCount() (int, error)
}
