package database

import (
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteItemRepository {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewItemRepository(db)
}

func testItems(feedURL string, n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{
			FeedURL:   feedURL,
			Title:     "Item " + string(rune('A'+i)),
			Link:      feedURL + "/item-" + string(rune('a'+i)),
			Content:   "content",
			Published: int64(1700000000000 - i*60000), // minute-decreasing
		})
	}
	return items
}

func TestAddItemsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	items := testItems("https://example.com/rss", 5)

	if err := repo.AddItems(items); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	countAfterFirst, err := repo.GetItemCount()
	if err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}

	if err := repo.AddItems(items); err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}
	countAfterSecond, err := repo.GetItemCount()
	if err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}

	if countAfterFirst != 5 {
		t.Errorf("Expected 5 rows after first insert, got: %d", countAfterFirst)
	}
	if countAfterSecond != countAfterFirst {
		t.Errorf("Expected row count unchanged after second insert, got %d vs %d",
			countAfterSecond, countAfterFirst)
	}
}

func TestAddItemsConflictKeepsFirstWrite(t *testing.T) {
	repo := newTestRepo(t)

	original := Item{
		FeedURL:   "https://example.com/rss",
		Title:     "Original",
		Link:      "https://example.com/post",
		Published: 1000,
	}
	updated := original
	updated.Title = "Updated"

	if err := repo.AddItems([]Item{original}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := repo.AddItems([]Item{updated}); err != nil {
		t.Fatalf("Conflicting insert failed: %v", err)
	}

	items, err := repo.GetItems([]string{"https://example.com/rss"}, 10, 0, 0)
	if err != nil {
		t.Fatalf("Failed to get items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "Original" {
		t.Errorf("Expected first write to win, got title: %s", items[0].Title)
	}
}

func TestGetItemsCanonicalOrder(t *testing.T) {
	repo := newTestRepo(t)

	// Two items share a published timestamp; the tie must break on id DESC.
	items := []Item{
		{FeedURL: "https://a.com/rss", Title: "Old", Link: "https://a.com/1", Published: 1000},
		{FeedURL: "https://a.com/rss", Title: "Tie 1", Link: "https://a.com/2", Published: 2000},
		{FeedURL: "https://a.com/rss", Title: "Tie 2", Link: "https://a.com/3", Published: 2000},
		{FeedURL: "https://a.com/rss", Title: "New", Link: "https://a.com/4", Published: 3000},
	}
	if err := repo.AddItems(items); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := repo.GetItems([]string{"https://a.com/rss"}, 10, 0, 0)
	if err != nil {
		t.Fatalf("Failed to get items: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Expected 4 items, got: %d", len(got))
	}

	if got[0].Title != "New" {
		t.Errorf("Expected 'New' first, got: %s", got[0].Title)
	}
	if got[1].Title != "Tie 2" || got[2].Title != "Tie 1" {
		t.Errorf("Expected tie broken by id DESC, got: %s, %s", got[1].Title, got[2].Title)
	}
	if got[3].Title != "Old" {
		t.Errorf("Expected 'Old' last, got: %s", got[3].Title)
	}
}

func TestGetItemsKeysetPagination(t *testing.T) {
	repo := newTestRepo(t)
	urls := []string{"https://a.com/rss", "https://b.com/rss"}

	if err := repo.AddItems(testItems(urls[0], 9)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.AddItems(testItems(urls[1], 8)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	all, err := repo.GetItems(urls, 100, 0, 0)
	if err != nil {
		t.Fatalf("Failed to get all items: %v", err)
	}
	if len(all) != 17 {
		t.Fatalf("Expected 17 items, got: %d", len(all))
	}

	for _, pageSize := range []int{1, 3, 5, 17} {
		t.Run("pageSize="+string(rune('0'+pageSize/10))+string(rune('0'+pageSize%10)), func(t *testing.T) {
			var paged []Item
			var lastPublished, lastID int64
			for {
				page, err := repo.GetItems(urls, pageSize, lastPublished, lastID)
				if err != nil {
					t.Fatalf("Failed to get page: %v", err)
				}
				if len(page) == 0 {
					break
				}
				paged = append(paged, page...)
				last := page[len(page)-1]
				lastPublished, lastID = last.Published, last.ID
			}

			if len(paged) != len(all) {
				t.Fatalf("Expected %d items across pages, got: %d", len(all), len(paged))
			}
			for i := range all {
				if paged[i].ID != all[i].ID {
					t.Fatalf("Page concatenation diverges at index %d: got id %d, want %d",
						i, paged[i].ID, all[i].ID)
				}
			}
		})
	}
}

func TestGetItemsFiltersByFeedURL(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.AddItems(testItems("https://a.com/rss", 3)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.AddItems(testItems("https://b.com/rss", 3)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	items, err := repo.GetItems([]string{"https://a.com/rss"}, 10, 0, 0)
	if err != nil {
		t.Fatalf("Failed to get items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got: %d", len(items))
	}
	for _, item := range items {
		if item.FeedURL != "https://a.com/rss" {
			t.Errorf("Unexpected feed URL in result: %s", item.FeedURL)
		}
	}
}

func TestHasItems(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.AddItems(testItems("https://known.com/rss", 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := repo.HasItems([]string{"https://known.com/rss", "https://unknown.com/rss"})
	if err != nil {
		t.Fatalf("HasItems failed: %v", err)
	}

	if !result["https://known.com/rss"] {
		t.Error("Expected known feed to have items")
	}
	if result["https://unknown.com/rss"] {
		t.Error("Expected unknown feed to have no items")
	}
	if len(result) != 2 {
		t.Errorf("Expected entry for every requested URL, got: %d", len(result))
	}
}

func TestGetFeedURLs(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.AddItems(testItems("https://b.com/rss", 2)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.AddItems(testItems("https://a.com/rss", 2)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	urls, err := repo.GetFeedURLs()
	if err != nil {
		t.Fatalf("GetFeedURLs failed: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 distinct feed URLs, got: %d", len(urls))
	}
	if urls[0] != "https://a.com/rss" || urls[1] != "https://b.com/rss" {
		t.Errorf("Unexpected feed URLs: %v", urls)
	}
}
