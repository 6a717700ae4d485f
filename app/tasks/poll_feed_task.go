package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feedstream/app/database"
	"github.com/lysyi3m/feedstream/app/feed"
)

// PollFeedTask re-ingests one already known feed URL. Rows already present
// in the store are ignored by the natural-key constraint, so re-polling the
// same snapshot is a no-op.
type PollFeedTask struct {
	Task
	normalizer *feed.Normalizer
	itemRepo   database.ItemRepository
}

func NewPollFeedTask(feedURL string, normalizer *feed.Normalizer, itemRepo database.ItemRepository) *PollFeedTask {
	return &PollFeedTask{
		Task:       NewTask(TaskTypePollFeed, feedURL),
		normalizer: normalizer,
		itemRepo:   itemRepo,
	}
}

func (t *PollFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.normalizer.Run(ctx, t.FeedURL)
	if err != nil {
		return err
	}

	if err := t.itemRepo.AddItems(feed.ToStoredItems(items)); err != nil {
		return fmt.Errorf("failed to store items: %w", err)
	}

	slog.Info("Task completed",
		"type", "PollFeed",
		"feed_url", t.FeedURL,
		"duration", t.GetDuration(),
		"total", len(items))

	return nil
}
