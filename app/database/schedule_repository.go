package database

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var _ ScheduleRepository = (*ScheduleRepo)(nil)

// ScheduleRepo handles database operations for the President's public schedule
type ScheduleRepo struct {
	db *DB
}

func NewScheduleRepo(db *DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// InsertEntry stores a schedule entry unless one with the same
// (time, location, description) already exists. Returns true when a new
// row was written.
func (r *ScheduleRepo) InsertEntry(ctx context.Context, entry ScheduleEntry) (bool, error) {
	const q = `INSERT OR IGNORE INTO schedule_entries (id, link, location, time, description, press_information, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	entry.ID = uuid.New().String()
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = nowUTC()
	}

	res, err := r.db.ExecContext(ctx, q, entry.ID, entry.Link, entry.Location,
		entry.Time.UTC(), entry.Description, entry.PressInfo, entry.LastUpdated)
	if err != nil {
		return false, fmt.Errorf("failed to insert schedule entry: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return inserted > 0, nil
}

// QueryEntries returns every schedule entry matching the filter, newest
// first and unpaginated, for the merged feed query.
func (r *ScheduleRepo) QueryEntries(ctx context.Context, filter ScheduleFilter) ([]ScheduleEntry, error) {
	q := sq.Select("id", "link", "location", "time", "description", "press_information", "last_updated").
		From("schedule_entries").
		OrderBy("time DESC")

	if filter.Date != nil {
		q = q.Where("date(time) = ?", filter.Date.UTC().Format("2006-01-02"))
	} else if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(sq.Or{
			sq.Expr("LOWER(description) LIKE ?", term),
			sq.Expr("LOWER(location) LIKE ?", term),
		})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule query: %w", err)
	}

	var entries []ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}

	return entries, nil
}

// ListEntries returns a page of schedule entries, newest first
func (r *ScheduleRepo) ListEntries(ctx context.Context, limit, offset int) ([]ScheduleEntry, error) {
	const q = `SELECT id, link, location, time, description, press_information, last_updated
		FROM schedule_entries
		ORDER BY time DESC
		LIMIT ? OFFSET ?`

	var entries []ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, q, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}

	return entries, nil
}

// GetEntryCount returns the total number of stored schedule entries
func (r *ScheduleRepo) GetEntryCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schedule_entries"); err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}
