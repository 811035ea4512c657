package tasks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cipherkeeper/capitol-feed/app/session"
)

// SessionInfoTask refreshes both chambers' session rows. The chambers
// fail independently; one chamber's upstream being down does not stop
// the other from updating.
type SessionInfoTask struct {
	Task
	resolver *session.Resolver
}

func NewSessionInfoTask(resolver *session.Resolver) *SessionInfoTask {
	return &SessionInfoTask{
		Task:     NewTask(TaskTypeSessionInfo, "session-info"),
		resolver: resolver,
	}
}

func (t *SessionInfoTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var errs []error

	if err := t.resolver.RefreshSenate(ctx); err != nil {
		slog.Error("Senate session refresh failed", "error", err)
		errs = append(errs, err)
	}

	if err := t.resolver.RefreshHouse(ctx); err != nil {
		slog.Error("House session refresh failed", "error", err)
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("Task completed",
		"type", "SessionInfo",
		"duration", t.GetDuration())

	return nil
}
