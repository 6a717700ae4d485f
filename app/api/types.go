package api

import (
	"github.com/lysyi3m/feedstream/app/database"
	"github.com/lysyi3m/feedstream/app/feed"
)

type Handler struct {
	service  *feed.Service
	itemRepo database.ItemRepository
}

// ItemResponse is the wire shape of one stored item. Published is UTC epoch
// milliseconds.
type ItemResponse struct {
	ID        int64  `json:"id"`
	FeedURL   string `json:"feed_url"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Published int64  `json:"published"`
}

// PageResponse carries one page plus the continuation cursor components.
// Both cursor fields are omitted when the range is exhausted.
type PageResponse struct {
	Items             []ItemResponse `json:"items"`
	NextLastPublished *int64         `json:"nextLastPublished,omitempty"`
	NextLastID        *int64         `json:"nextLastId,omitempty"`
}
