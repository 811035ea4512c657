package database

import (
	"context"
	"time"
)

type ItemRepository interface {
	InsertItem(ctx context.Context, item FeedItem) (bool, error)
	QueryItems(ctx context.Context, filter ItemFilter) ([]FeedItem, error)
	RecentItemsBySource(ctx context.Context, source, titleContains string, limit int) ([]FeedItem, error)
	GetItemCount(ctx context.Context) (int, error)
}

type ScheduleRepository interface {
	InsertEntry(ctx context.Context, entry ScheduleEntry) (bool, error)
	QueryEntries(ctx context.Context, filter ScheduleFilter) ([]ScheduleEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]ScheduleEntry, error)
	GetEntryCount(ctx context.Context) (int, error)
}

type SessionRepository interface {
	ReplaceSession(ctx context.Context, session ChamberSession) error
	GetSession(ctx context.Context, chamber string) (*ChamberSession, error)
}

// nowUTC is the single source of audit timestamps for the repositories.
func nowUTC() time.Time {
	return time.Now().UTC()
}
