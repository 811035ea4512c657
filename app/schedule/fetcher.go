// Package schedule fetches the President's public schedule from a
// third-party JSON calendar.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/timeutil"
)

// Event is one normalized schedule entry, timestamped in UTC
type Event struct {
	Link        string
	Location    string
	Time        time.Time
	Description string
	PressInfo   string
}

type rawEvent struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Coverage    string `json:"coverage"`
	URL         string `json:"url"`
}

type Fetcher struct {
	httpClient *http.Client
	url        string
	userAgent  string
}

func NewFetcher(httpClient *http.Client, url, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		url:        url,
		userAgent:  userAgent,
	}
}

// Run fetches the calendar and normalizes its events. Events with
// malformed dates or times are skipped individually; the rest of the
// calendar still goes through.
func (f *Fetcher) Run(ctx context.Context) ([]Event, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw []rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse schedule JSON: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		instant, err := eventTime(r)
		if err != nil {
			slog.Warn("Skipping schedule event with bad date/time", "date", r.Date, "time", r.Time, "error", err)
			continue
		}
		events = append(events, Event{
			Link:        r.URL,
			Location:    r.Location,
			Time:        instant,
			Description: r.Description,
			PressInfo:   r.Coverage,
		})
	}

	return events, nil
}

// eventTime combines the event's Eastern date and optional time into a
// UTC instant. A missing time defaults to midnight.
func eventTime(r rawEvent) (time.Time, error) {
	day, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date: %w", err)
	}

	hour, minute := 0, 0
	if r.Time != "" {
		clock, err := time.Parse("15:04:05", r.Time)
		if err != nil {
			clock, err = time.Parse("15:04", r.Time)
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("bad time: %w", err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}

	return timeutil.EasternToUTC(day.Year(), day.Month(), day.Day(), hour, minute)
}
