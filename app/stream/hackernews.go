package stream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lysyi3m/feedstream/app/feed"
)

const hackerNewsBaseURL = "https://hacker-news.firebaseio.com/v0"

const (
	hackerNewsBatchSize   = 25
	hackerNewsConcurrency = 4
)

type HackerNewsSorting string

const (
	HackerNewsTop  HackerNewsSorting = "topstories"
	HackerNewsNew  HackerNewsSorting = "newstories"
	HackerNewsAsk  HackerNewsSorting = "askstories"
	HackerNewsShow HackerNewsSorting = "showstories"
	HackerNewsJob  HackerNewsSorting = "jobstories"
)

type HackerNewsPost struct {
	ID          int64  `json:"id"`
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Type        string `json:"type"`
	Time        int64  `json:"time"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
}

// NewHackerNewsStream pages through one of the Hacker News story lists. The
// full ID list is re-fetched each page; the cursor is the next start index
// into it, advancing in batches of 25.
func NewHackerNewsStream(httpClient *http.Client, sorting HackerNewsSorting) *Stream[HackerNewsPost] {
	return newHackerNewsStream(httpClient, hackerNewsBaseURL, sorting)
}

func newHackerNewsStream(httpClient *http.Client, baseURL string, sorting HackerNewsSorting) *Stream[HackerNewsPost] {
	fetch := func(ctx context.Context, cursor string) (Page[HackerNewsPost], error) {
		listURL := baseURL + "/" + string(sorting) + ".json"

		storyIDs, err := getJSON[[]int64](ctx, httpClient, listURL)
		if err != nil {
			return Page[HackerNewsPost]{}, &feed.FeedError{URL: listURL, Kind: feed.ErrorKindFetch, Err: err}
		}

		start := 0
		if cursor != "" {
			start, err = strconv.Atoi(cursor)
			if err != nil || start < 0 {
				return Page[HackerNewsPost]{}, fmt.Errorf("invalid cursor %q: expected a start index", cursor)
			}
		}

		end := start + hackerNewsBatchSize
		if end > len(storyIDs) {
			end = len(storyIDs)
		}
		if start >= end {
			return Page[HackerNewsPost]{}, nil
		}

		posts, err := fetchHackerNewsItems(ctx, httpClient, baseURL, storyIDs[start:end])
		if err != nil {
			return Page[HackerNewsPost]{}, err
		}

		// Exhaust only at the end of the ID list. A batch whose items were
		// all deleted still advances to the next batch.
		next := ""
		if end < len(storyIDs) {
			next = strconv.Itoa(end)
		}

		return Page[HackerNewsPost]{
			Items:  posts,
			Cursor: next,
		}, nil
	}

	keyFunc := func(post HackerNewsPost) string {
		return strconv.FormatInt(post.ID, 10)
	}
	dateFunc := func(post HackerNewsPost) time.Time {
		return time.Unix(post.Time, 0).UTC()
	}

	return NewStream(fetch, keyFunc, dateFunc)
}

// fetchHackerNewsItems loads one batch of items with bounded concurrency,
// preserving the ID list's order. Deleted or missing items decode to a zero
// ID and are dropped.
func fetchHackerNewsItems(ctx context.Context, httpClient *http.Client, baseURL string, ids []int64) ([]HackerNewsPost, error) {
	results := make([]HackerNewsPost, len(ids))
	errs := make([]error, len(ids))
	sem := make(chan struct{}, hackerNewsConcurrency)

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			itemURL := baseURL + "/item/" + strconv.FormatInt(id, 10) + ".json"
			post, err := getJSON[HackerNewsPost](ctx, httpClient, itemURL)
			if err != nil {
				errs[i] = &feed.FeedError{URL: itemURL, Kind: feed.ErrorKindFetch, Err: err}
				return
			}
			if post.URL == "" {
				post.URL = "https://news.ycombinator.com/item?id=" + strconv.FormatInt(post.ID, 10)
			}
			results[i] = post
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	posts := make([]HackerNewsPost, 0, len(results))
	for _, post := range results {
		if post.ID == 0 {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}
