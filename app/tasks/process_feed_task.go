package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/feed"
)

// ProcessFeedTask fetches one upstream feed, normalizes its entries and
// stores the new ones. Duplicates are counted, not errors.
type ProcessFeedTask struct {
	Task
	Source     feed.Source
	httpClient *http.Client
	parser     *feed.Parser
	normalizer *feed.Normalizer
	itemRepo   database.ItemRepository
	userAgent  string
}

func NewProcessFeedTask(source feed.Source, httpClient *http.Client, parser *feed.Parser, normalizer *feed.Normalizer, itemRepo database.ItemRepository, userAgent string) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, "feed:"+source.Tag),
		Source:     source,
		httpClient: httpClient,
		parser:     parser,
		normalizer: normalizer,
		itemRepo:   itemRepo,
		userAgent:  userAgent,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := t.fetchFeed(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	items := t.normalizer.Run(entries, t.Source.Tag)

	newCount := 0
	duplicateCount := 0
	for _, item := range items {
		inserted, err := t.itemRepo.InsertItem(ctx, database.FeedItem{
			Title:   item.Title,
			Link:    item.Link,
			PubDate: item.PublishedAt,
			Source:  item.Source,
		})
		if err != nil {
			return fmt.Errorf("failed to store item: %w", err)
		}
		if inserted {
			newCount++
		} else {
			duplicateCount++
		}
	}

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"source", t.Source.Tag,
		"duration", t.GetDuration(),
		"total", len(entries),
		"dropped", len(entries)-len(items),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}

func (t *ProcessFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
