// Package session derives each chamber's in-session status and next
// meeting time and maintains the singleton session rows.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/database"
)

// Completer is the completion service: prompt text in, answer text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Resolver struct {
	httpClient        *http.Client
	completer         Completer
	items             database.ItemRepository
	sessions          database.SessionRepository
	houseStatusURL    string
	senateScheduleURL string
	userAgent         string
	now               func() time.Time
}

func NewResolver(httpClient *http.Client, completer Completer,
	items database.ItemRepository, sessions database.SessionRepository,
	houseStatusURL, senateScheduleURL, userAgent string) *Resolver {
	return &Resolver{
		httpClient:        httpClient,
		completer:         completer,
		items:             items,
		sessions:          sessions,
		houseStatusURL:    houseStatusURL,
		senateScheduleURL: senateScheduleURL,
		userAgent:         userAgent,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// fetchBody GETs the URL and returns the response body, with the timeout
// bounded so a stalled upstream cannot hold a refresh cycle open.
func (r *Resolver) fetchBody(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
