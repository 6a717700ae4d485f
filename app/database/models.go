package database

// Item represents a normalized feed item row.
type Item struct {
	ID        int64  // Assigned by the store on insert
	FeedURL   string // Subscribed feed URL this item came from
	Title     string
	Link      string // Together with FeedURL forms the natural key
	Content   string
	Image     string // URL of the first image found in the body, empty if none
	Published int64  // UTC milliseconds
}
