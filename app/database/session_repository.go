package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var _ SessionRepository = (*SessionRepo)(nil)

// SessionRepo handles database operations for chamber session status
type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// ReplaceSession swaps the chamber's singleton row in one transaction.
// Delete-then-insert rather than a field-level update, so a chamber can
// never carry stale fields from an earlier status.
func (r *SessionRepo) ReplaceSession(ctx context.Context, session ChamberSession) error {
	if session.Chamber != ChamberSenate && session.Chamber != ChamberHouse {
		return fmt.Errorf("unknown chamber: %q", session.Chamber)
	}
	if session.LastUpdated.IsZero() {
		session.LastUpdated = nowUTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chamber_sessions WHERE chamber = ?`, session.Chamber); err != nil {
		return fmt.Errorf("failed to delete chamber session: %w", err)
	}

	const q = `INSERT INTO chamber_sessions (chamber, in_session, next_meeting, live_link, last_updated)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, session.Chamber, session.InSession,
		session.NextMeeting, session.LiveLink, session.LastUpdated); err != nil {
		return fmt.Errorf("failed to insert chamber session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chamber session: %w", err)
	}

	return nil
}

// GetSession returns the chamber's session row, or nil when none exists yet
func (r *SessionRepo) GetSession(ctx context.Context, chamber string) (*ChamberSession, error) {
	const q = `SELECT chamber, in_session, next_meeting, live_link, last_updated
		FROM chamber_sessions
		WHERE chamber = ?`

	var session ChamberSession
	err := r.db.GetContext(ctx, &session, q, chamber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chamber session: %w", err)
	}

	return &session, nil
}
