package feed

import (
	"github.com/lysyi3m/feedstream/app/database"
)

// Item is the canonical normalized feed item before persistence. The store
// assigns the row id on insert.
type Item struct {
	Title     string
	Link      string
	Content   string
	Image     string
	Published int64 // UTC milliseconds
	FeedURL   string
}

// Page is one page of stored items plus the continuation cursor. Cursor is
// nil when the requested range is exhausted.
type Page struct {
	Items  []database.Item
	Cursor *Cursor
}
