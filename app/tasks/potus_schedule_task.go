package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/schedule"
)

// PotusScheduleTask fetches the President's public calendar and stores
// the entries not already present.
type PotusScheduleTask struct {
	Task
	fetcher      *schedule.Fetcher
	scheduleRepo database.ScheduleRepository
}

func NewPotusScheduleTask(fetcher *schedule.Fetcher, scheduleRepo database.ScheduleRepository) *PotusScheduleTask {
	return &PotusScheduleTask{
		Task:         NewTask(TaskTypePotusSchedule, "potus-schedule"),
		fetcher:      fetcher,
		scheduleRepo: scheduleRepo,
	}
}

func (t *PotusScheduleTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	events, err := t.fetcher.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	newCount := 0
	duplicateCount := 0
	for _, event := range events {
		inserted, err := t.scheduleRepo.InsertEntry(ctx, database.ScheduleEntry{
			Link:        event.Link,
			Location:    event.Location,
			Time:        event.Time,
			Description: event.Description,
			PressInfo:   event.PressInfo,
		})
		if err != nil {
			return fmt.Errorf("failed to store schedule entry: %w", err)
		}
		if inserted {
			newCount++
		} else {
			duplicateCount++
		}
	}

	slog.Info("Task completed",
		"type", "PotusSchedule",
		"duration", t.GetDuration(),
		"total", len(events),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}
