package stream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/feedstream/app/api"
	"github.com/lysyi3m/feedstream/app/feed"
)

// NewRSSStream pages through the aggregator's own /api/rss endpoint for a
// set of feed URLs. The cursor is the endpoint's "<lastPublished>|<lastId>"
// pair, passed through verbatim.
func NewRSSStream(httpClient *http.Client, serverURL string, feedURLs []string) *Stream[api.ItemResponse] {
	fetch := func(ctx context.Context, cursor string) (Page[api.ItemResponse], error) {
		query := url.Values{}
		for _, feedURL := range feedURLs {
			query.Add("url", feedURL)
		}
		if cursor != "" {
			lastPublished, lastID, _ := strings.Cut(cursor, "|")
			query.Set("lastPublished", lastPublished)
			query.Set("lastId", lastID)
		}

		requestURL := strings.TrimSuffix(serverURL, "/") + "/api/rss?" + query.Encode()

		page, err := getJSON[api.PageResponse](ctx, httpClient, requestURL)
		if err != nil {
			return Page[api.ItemResponse]{}, &feed.FeedError{URL: requestURL, Kind: feed.ErrorKindFetch, Err: err}
		}

		next := ""
		if page.NextLastPublished != nil && page.NextLastID != nil {
			next = strconv.FormatInt(*page.NextLastPublished, 10) + "|" + strconv.FormatInt(*page.NextLastID, 10)
		}

		return Page[api.ItemResponse]{
			Items:  page.Items,
			Cursor: next,
		}, nil
	}

	keyFunc := func(item api.ItemResponse) string {
		return strconv.FormatInt(item.ID, 10)
	}
	dateFunc := func(item api.ItemResponse) time.Time {
		return time.UnixMilli(item.Published).UTC()
	}

	return NewStream(fetch, keyFunc, dateFunc)
}
