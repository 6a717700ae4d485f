package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feedstream/app/database"
)

// Service is the request-time query path: it guarantees the requested feed
// URLs have at least one ingested snapshot, then answers a page from the
// store.
type Service struct {
	itemRepo   database.ItemRepository
	normalizer *Normalizer
	pageSize   int
}

func NewService(itemRepo database.ItemRepository, normalizer *Normalizer, pageSize int) *Service {
	return &Service{
		itemRepo:   itemRepo,
		normalizer: normalizer,
		pageSize:   pageSize,
	}
}

// GetPage returns one page of items for the given feed URLs. URLs never
// ingested before are fetched synchronously first; a normalization failure
// there fails the whole request.
func (s *Service) GetPage(ctx context.Context, feedURLs []string, cursor *Cursor) (*Page, error) {
	if err := s.EnsureFeeds(ctx, feedURLs); err != nil {
		return nil, err
	}

	var lastPublished, lastID int64
	if cursor != nil {
		lastPublished, lastID = cursor.LastPublished, cursor.LastID
	}

	items, err := s.itemRepo.GetItems(feedURLs, s.pageSize, lastPublished, lastID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	page := &Page{Items: items}

	// A short page means the range is exhausted; no continuation cursor.
	if len(items) == s.pageSize {
		last := items[len(items)-1]
		page.Cursor = &Cursor{LastPublished: last.Published, LastID: last.ID}
	}

	return page, nil
}

// EnsureFeeds ingests every feed URL that has no stored rows yet. Already
// known URLs are left to the poller.
func (s *Service) EnsureFeeds(ctx context.Context, feedURLs []string) error {
	hasItems, err := s.itemRepo.HasItems(feedURLs)
	if err != nil {
		return fmt.Errorf("failed to check for items: %w", err)
	}

	for _, url := range feedURLs {
		if hasItems[url] {
			continue
		}

		items, err := s.normalizer.Run(ctx, url)
		if err != nil {
			return err
		}

		if err := s.itemRepo.AddItems(ToStoredItems(items)); err != nil {
			return fmt.Errorf("failed to store items for %s: %w", url, err)
		}

		slog.Debug("Ingested feed on first request", "feed_url", url, "items", len(items))
	}

	return nil
}

// ToStoredItems converts normalized items to store rows.
func ToStoredItems(items []Item) []database.Item {
	stored := make([]database.Item, 0, len(items))
	for _, item := range items {
		stored = append(stored, database.Item{
			FeedURL:   item.FeedURL,
			Title:     item.Title,
			Link:      item.Link,
			Content:   item.Content,
			Image:     item.Image,
			Published: item.Published,
		})
	}
	return stored
}
