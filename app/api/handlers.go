package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feedstream/app/database"
	"github.com/lysyi3m/feedstream/app/feed"
)

func NewHandler(service *feed.Service, itemRepo database.ItemRepository) *Handler {
	return &Handler{
		service:  service,
		itemRepo: itemRepo,
	}
}

// GetRSS serves one page of stored items for the requested feed URLs.
// Unknown URLs are ingested synchronously before the page is answered.
func (h *Handler) GetRSS(c *gin.Context) {
	feedURLs := make([]string, 0)
	for _, url := range c.QueryArray("url") {
		if url != "" {
			feedURLs = append(feedURLs, url)
		}
	}
	if len(feedURLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	lastPublished := c.Query("lastPublished")
	lastID := c.Query("lastId")

	var cursor *feed.Cursor
	if lastPublished != "" || lastID != "" {
		parsed, err := feed.ParseCursorParts(lastPublished, lastID)
		if err != nil {
			slog.Debug("Rejected malformed cursor", "lastPublished", lastPublished, "lastId", lastID, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination cursor"})
			return
		}
		cursor = parsed
	}

	page, err := h.service.GetPage(c.Request.Context(), feedURLs, cursor)
	if err != nil {
		slog.Error("Failed to serve feed page", "feed_urls", feedURLs, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	response := PageResponse{Items: make([]ItemResponse, 0, len(page.Items))}
	for _, item := range page.Items {
		response.Items = append(response.Items, ItemResponse{
			ID:        item.ID,
			FeedURL:   item.FeedURL,
			Title:     item.Title,
			Link:      item.Link,
			Content:   item.Content,
			Image:     item.Image,
			Published: item.Published,
		})
	}
	if page.Cursor != nil {
		response.NextLastPublished = &page.Cursor.LastPublished
		response.NextLastID = &page.Cursor.LastID
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}
	if feedURLs, err := h.itemRepo.GetFeedURLs(); err == nil {
		health["feeds"] = len(feedURLs)
	}

	c.JSON(http.StatusOK, health)
}
