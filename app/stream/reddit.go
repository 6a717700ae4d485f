package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/feedstream/app/feed"
)

const redditBaseURL = "https://www.reddit.com"

type RedditSorting string

const (
	RedditSortHot        RedditSorting = "hot"
	RedditSortNew        RedditSorting = "new"
	RedditSortRising     RedditSorting = "rising"
	RedditSortTopToday   RedditSorting = "top-today"
	RedditSortTopWeek    RedditSorting = "top-week"
	RedditSortTopMonth   RedditSorting = "top-month"
	RedditSortTopYear    RedditSorting = "top-year"
	RedditSortTopAlltime RedditSorting = "top-alltime"
)

type RedditPost struct {
	Data struct {
		ID           string  `json:"id"`
		Author       string  `json:"author"`
		CreatedUTC   float64 `json:"created_utc"`
		Title        string  `json:"title"`
		URL          string  `json:"url"`
		Permalink    string  `json:"permalink"`
		Subreddit    string  `json:"subreddit"`
		Score        int     `json:"score"`
		NumComments  int     `json:"num_comments"`
		Thumbnail    string  `json:"thumbnail"`
		SelftextHTML string  `json:"selftext_html"`
		IsSelf       bool    `json:"is_self"`
		Over18       bool    `json:"over_18"`
	} `json:"data"`
}

type redditListing struct {
	Data struct {
		After    string       `json:"after"`
		Children []RedditPost `json:"children"`
	} `json:"data"`
}

// NewRedditStream pages through one or more subreddits ("golang" or
// "golang+programming") with the given sorting. The cursor is Reddit's
// opaque "after" token.
func NewRedditStream(httpClient *http.Client, subreddits string, sort RedditSorting) *Stream[RedditPost] {
	return newRedditStream(httpClient, redditBaseURL, subreddits, sort)
}

func newRedditStream(httpClient *http.Client, baseURL, subreddits string, sort RedditSorting) *Stream[RedditPost] {
	fetch := func(ctx context.Context, cursor string) (Page[RedditPost], error) {
		// "top-week" splits into path "top" and query "t=week".
		sortType, window, _ := strings.Cut(string(sort), "-")

		query := url.Values{}
		if window != "" {
			query.Set("t", window)
		}
		if cursor != "" {
			query.Set("after", cursor)
		}

		requestURL := baseURL + "/r/" + url.PathEscape(subreddits) + "/" + sortType + "/.json?" + query.Encode()

		listing, err := getJSON[redditListing](ctx, httpClient, requestURL)
		if err != nil {
			return Page[RedditPost]{}, &feed.FeedError{URL: requestURL, Kind: feed.ErrorKindFetch, Err: err}
		}

		return Page[RedditPost]{
			Items:  listing.Data.Children,
			Cursor: listing.Data.After,
		}, nil
	}

	keyFunc := func(post RedditPost) string {
		return post.Data.ID
	}
	dateFunc := func(post RedditPost) time.Time {
		return time.Unix(int64(post.Data.CreatedUTC), 0).UTC()
	}

	return NewStream(fetch, keyFunc, dateFunc)
}

func getJSON[T any](ctx context.Context, httpClient *http.Client, requestURL string) (T, error) {
	var decoded T

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return decoded, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return decoded, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decoded, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decoded, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, &decoded); err != nil {
		return decoded, fmt.Errorf("failed to decode response: %w", err)
	}

	return decoded, nil
}
