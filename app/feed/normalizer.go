package feed

import (
	"bytes"
	"context"
	"time"

	"github.com/mmcdole/gofeed"
)

// Normalizer fetches one feed URL and converts its entries into canonical
// items. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	fetcher *Fetcher
	now     func() time.Time
}

func NewNormalizer(fetcher *Fetcher) *Normalizer {
	return &Normalizer{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Run fetches and parses feedURL. Either the whole feed's entries are
// returned or a single FeedError for the whole feed; entries with an empty
// title or link after normalization are dropped.
func (n *Normalizer) Run(ctx context.Context, feedURL string) ([]Item, error) {
	data, err := n.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	// gofeed.Parser initializes its translators lazily, so one instance
	// must not be shared across goroutines. Construction is cheap.
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FeedError{URL: feedURL, Kind: ErrorKindParse, Err: err}
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item := n.normalizeEntry(entry, feedURL)
		if item.Title == "" || item.Link == "" {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (n *Normalizer) normalizeEntry(entry *gofeed.Item, feedURL string) Item {
	content, image := htmlToText(entryBody(entry))

	return Item{
		Title:     entry.Title,
		Link:      entry.Link,
		Content:   content,
		Image:     image,
		Published: n.entryPublished(entry),
		FeedURL:   feedURL,
	}
}

// entryBody selects the richest available body field: full content, then
// the encoded-content extension, then the description/summary.
func entryBody(entry *gofeed.Item) string {
	if entry.Content != "" {
		return entry.Content
	}
	if encoded, ok := entry.Extensions["content"]["encoded"]; ok && len(encoded) > 0 {
		if encoded[0].Value != "" {
			return encoded[0].Value
		}
	}
	return entry.Description
}

func (n *Normalizer) entryPublished(entry *gofeed.Item) int64 {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC().UnixMilli()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC().UnixMilli()
	}
	return n.now().UTC().UnixMilli()
}
