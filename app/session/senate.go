package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/timeutil"
)

type senateSchedule struct {
	FloorProceedings []senateProceeding `json:"floorProceedings"`
}

type senateProceeding struct {
	ConveneYear   int    `json:"conveneYear"`
	ConveneMonth  int    `json:"conveneMonth"`
	ConveneDay    int    `json:"conveneDay"`
	ConveneHour   int    `json:"conveneHour"`
	ConveneMinute int    `json:"conveneMinute"`
	LiveLink      string `json:"liveLink"`
}

// RefreshSenate fetches the Senate floor schedule and replaces the
// senate session row. Any failure ends the cycle with no partial write.
func (r *Resolver) RefreshSenate(ctx context.Context) error {
	body, err := r.fetchBody(ctx, r.senateScheduleURL)
	if err != nil {
		return fmt.Errorf("senate schedule unavailable: %w", err)
	}

	var sched senateSchedule
	if err := json.Unmarshal(body, &sched); err != nil {
		return fmt.Errorf("failed to parse senate schedule: %w", err)
	}
	if len(sched.FloorProceedings) == 0 {
		return fmt.Errorf("senate schedule has no floor proceedings")
	}

	inSession, convene, liveLink, err := deriveSenateStatus(sched.FloorProceedings, r.now())
	if err != nil {
		return fmt.Errorf("failed to derive senate status: %w", err)
	}

	session := database.ChamberSession{
		Chamber:     database.ChamberSenate,
		InSession:   inSession,
		NextMeeting: &convene,
	}
	if liveLink != "" {
		session.LiveLink = &liveLink
	}

	if err := r.sessions.ReplaceSession(ctx, session); err != nil {
		return fmt.Errorf("failed to store senate session: %w", err)
	}

	return nil
}

// deriveSenateStatus converts each proceeding's Eastern convene time to
// UTC and compares it against now. When the upstream returns several
// proceedings, the last one in the array determines the result — that is
// how the upstream feed has always behaved, and consumers depend on it.
func deriveSenateStatus(procs []senateProceeding, now time.Time) (bool, time.Time, string, error) {
	var (
		inSession bool
		convene   time.Time
		liveLink  string
	)

	for _, proc := range procs {
		instant, err := timeutil.EasternToUTC(proc.ConveneYear, time.Month(proc.ConveneMonth),
			proc.ConveneDay, proc.ConveneHour, proc.ConveneMinute)
		if err != nil {
			return false, time.Time{}, "", err
		}
		convene = instant
		inSession = !now.Before(instant)
		liveLink = proc.LiveLink
	}

	return inSession, convene, liveLink, nil
}
