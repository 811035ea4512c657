package session

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/timeutil"
)

// houseSource is the feed tag whose announcements carry the House's
// adjournment and convening notices.
const houseSource = "housedailypress-twitter"

//go:embed prompt.txt
var promptTemplate string

// RefreshHouse combines the floor in-session flag with a completion-based
// extraction of the next convening time over recent press announcements,
// then replaces the house session row. An unparseable or "unknown" answer
// keeps the previous row; any failure ends the cycle with no write.
func (r *Resolver) RefreshHouse(ctx context.Context) error {
	if r.completer == nil {
		slog.Debug("Completion service not configured, skipping house refresh")
		return nil
	}

	inSession, err := r.fetchHouseFlag(ctx)
	if err != nil {
		return fmt.Errorf("house floor status unavailable: %w", err)
	}

	items, err := r.recentHouseItems(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no recent %s items to extract a meeting time from", houseSource)
	}

	var listing strings.Builder
	for _, item := range items {
		fmt.Fprintf(&listing, "- %s (%s)\n", item.Title, item.PubDate.Format("January 2, 2006 3:04 PM"))
	}
	prompt := fmt.Sprintf(promptTemplate, r.now().Format("January 2, 2006"), listing.String())

	answer, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("completion service unavailable: %w", err)
	}

	nextMeeting, err := parseMeetingAnswer(answer)
	if err != nil {
		return fmt.Errorf("failed to parse completion answer %q: %w", answer, err)
	}
	if nextMeeting == nil {
		slog.Info("Next house meeting unknown, keeping previous session row", "answer", answer)
		return nil
	}

	session := database.ChamberSession{
		Chamber:     database.ChamberHouse,
		InSession:   inSession,
		NextMeeting: nextMeeting,
	}
	if err := r.sessions.ReplaceSession(ctx, session); err != nil {
		return fmt.Errorf("failed to store house session: %w", err)
	}

	return nil
}

// fetchHouseFlag reads the plaintext floor-status endpoint; the body is
// an integer boolean.
func (r *Resolver) fetchHouseFlag(ctx context.Context) (bool, error) {
	body, err := r.fetchBody(ctx, r.houseStatusURL)
	if err != nil {
		return false, err
	}

	flag, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return false, fmt.Errorf("non-numeric floor status %q: %w", strings.TrimSpace(string(body)), err)
	}

	return flag != 0, nil
}

// recentHouseItems prefers announcements that mention adjournment and
// falls back to the newest announcements overall.
func (r *Resolver) recentHouseItems(ctx context.Context) ([]database.FeedItem, error) {
	items, err := r.items.RecentItemsBySource(ctx, houseSource, "adjourn", 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent items: %w", err)
	}
	if len(items) > 0 {
		return items, nil
	}

	items, err = r.items.RecentItemsBySource(ctx, houseSource, "", 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent items: %w", err)
	}
	return items, nil
}

// meetingAnswerLayout is the format the prompt instructs the completion
// service to answer in.
const meetingAnswerLayout = "January 2, 2006 3:04 PM"

// parseMeetingAnswer turns the completion answer into a UTC instant.
// Returns (nil, nil) when the answer indicates the time is unknown.
func parseMeetingAnswer(answer string) (*time.Time, error) {
	if strings.Contains(strings.ToLower(answer), "unknown") {
		return nil, nil
	}

	eastern, err := timeutil.Eastern()
	if err != nil {
		return nil, err
	}

	parsed, err := time.ParseInLocation(meetingAnswerLayout, answer, eastern)
	if err != nil {
		// The service occasionally drifts from the requested layout.
		// dateparse accepts most date shapes but will also force a
		// year-zero timestamp out of free text, so the fallback only
		// counts when the result lands in a plausible year.
		parsed, err = dateparse.ParseIn(answer, eastern)
		if err != nil {
			return nil, err
		}
		if parsed.Year() < 2000 || parsed.Year() > 2100 {
			return nil, fmt.Errorf("implausible meeting year %d", parsed.Year())
		}
	}

	utc := parsed.UTC()
	return &utc, nil
}
