package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/feed"
)

type stubItems struct {
	items []database.FeedItem
	err   error
	count int
}

func (s *stubItems) InsertItem(ctx context.Context, item database.FeedItem) (bool, error) {
	return true, nil
}

func (s *stubItems) QueryItems(ctx context.Context, filter database.ItemFilter) ([]database.FeedItem, error) {
	return s.items, s.err
}

func (s *stubItems) RecentItemsBySource(ctx context.Context, source, titleContains string, limit int) ([]database.FeedItem, error) {
	return nil, nil
}

func (s *stubItems) GetItemCount(ctx context.Context) (int, error) {
	return s.count, nil
}

type stubSchedules struct {
	entries []database.ScheduleEntry
	err     error
	count   int
}

func (s *stubSchedules) InsertEntry(ctx context.Context, entry database.ScheduleEntry) (bool, error) {
	return true, nil
}

func (s *stubSchedules) QueryEntries(ctx context.Context, filter database.ScheduleFilter) ([]database.ScheduleEntry, error) {
	return s.entries, s.err
}

func (s *stubSchedules) ListEntries(ctx context.Context, limit, offset int) ([]database.ScheduleEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if offset >= len(s.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[offset:end], nil
}

func (s *stubSchedules) GetEntryCount(ctx context.Context) (int, error) {
	return s.count, nil
}

type stubSessions struct {
	rows map[string]*database.ChamberSession
	err  error
}

func (s *stubSessions) ReplaceSession(ctx context.Context, session database.ChamberSession) error {
	return nil
}

func (s *stubSessions) GetSession(ctx context.Context, chamber string) (*database.ChamberSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[chamber], nil
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func serveRequest(t *testing.T, items *stubItems, schedules *stubSchedules, sessions *stubSessions, url string) (int, envelope) {
	t.Helper()

	handler := NewHandler(feed.NewQuery(items, schedules), items, schedules, sessions)
	server := NewServer(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	server.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func someItems() *stubItems {
	return &stubItems{items: []database.FeedItem{
		{
			Title:     "Major arms sale announced",
			Link:      "https://example.com/sale",
			PubDate:   time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			Source:    "dsca-major-arms-sales",
			FetchedAt: time.Date(2024, 1, 5, 12, 30, 0, 0, time.UTC),
		},
	}}
}

func someSchedules() *stubSchedules {
	return &stubSchedules{entries: []database.ScheduleEntry{
		{
			Description: "Remarks on the economy",
			Location:    "East Room",
			Link:        "https://example.com/remarks",
			Time:        time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC),
			PressInfo:   "Open press",
			LastUpdated: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
		},
	}}
}

func TestGetFeed(t *testing.T) {
	code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{}, "/feed")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var results []feedItemResponse
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 2)

	// Newest first: the schedule entry postdates the feed item.
	assert.Equal(t, "Remarks on the economy (East Room)", results[0].Title)
	assert.Equal(t, "potus-schedule", results[0].Source)
	assert.Nil(t, results[0].FetchedAt)

	assert.Equal(t, "Major arms sale announced", results[1].Title)
	assert.NotNil(t, results[1].FetchedAt)
}

func TestGetFeedInvalidBounds(t *testing.T) {
	urls := []string{
		"/feed?limit=abc",
		"/feed?offset=xyz",
		"/feed?limit=0",
		"/feed?limit=-5",
		"/feed?offset=-1",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{}, url)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, "Invalid limit/offset value. Must be > 0", env.Message)
		})
	}
}

func TestGetFeedImpossibleDate(t *testing.T) {
	code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{},
		"/feed?search_term=February+30,+2024")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "The supplied date format was correct, but the date is not possible.", env.Message)
}

func TestGetFeedNotFound(t *testing.T) {
	code, env := serveRequest(t, &stubItems{}, &stubSchedules{}, &stubSessions{}, "/feed")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Items not found", env.Message)
}

func TestGetFeedOffsetPastEnd(t *testing.T) {
	code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{}, "/feed?offset=100")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var results []feedItemResponse
	require.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Empty(t, results)
}

func TestGetFeedQueryError(t *testing.T) {
	items := &stubItems{err: fmt.Errorf("database is locked")}
	code, env := serveRequest(t, items, someSchedules(), &stubSessions{}, "/feed")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Internal server error", env.Message)
}

func TestGetSessionInfo(t *testing.T) {
	nextMeeting := time.Date(2024, 1, 8, 17, 0, 0, 0, time.UTC)
	liveLink := "https://example.com/live"
	sessions := &stubSessions{rows: map[string]*database.ChamberSession{
		database.ChamberSenate: {
			Chamber:     database.ChamberSenate,
			InSession:   true,
			NextMeeting: &nextMeeting,
			LiveLink:    &liveLink,
			LastUpdated: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		},
		database.ChamberHouse: {
			Chamber:     database.ChamberHouse,
			InSession:   false,
			NextMeeting: &nextMeeting,
			LastUpdated: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		},
	}}

	code, env := serveRequest(t, someItems(), someSchedules(), sessions, "/legislative/session-info")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var results []sessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 2)

	assert.Equal(t, "senate", results[0].Chamber)
	assert.True(t, results[0].InSession)
	require.NotNil(t, results[0].LiveLink)
	assert.Equal(t, liveLink, *results[0].LiveLink)

	assert.Equal(t, "house", results[1].Chamber)
	assert.False(t, results[1].InSession)
	assert.Nil(t, results[1].LiveLink)
}

func TestGetSessionInfoMissingChamber(t *testing.T) {
	sessions := &stubSessions{rows: map[string]*database.ChamberSession{
		database.ChamberSenate: {Chamber: database.ChamberSenate},
	}}

	code, env := serveRequest(t, someItems(), someSchedules(), sessions, "/legislative/session-info")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Session information not found", env.Message)
}

func TestGetPotusSchedule(t *testing.T) {
	code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{}, "/executive/potus-schedule/")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var results []scheduleEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)

	assert.Equal(t, "Remarks on the economy", results[0].Description)
	assert.Equal(t, "East Room", results[0].Location)
	assert.Equal(t, "Open press", results[0].PressInfo)
	assert.True(t, results[0].PubDate.Equal(results[0].Time))
}

func TestGetPotusScheduleEmpty(t *testing.T) {
	code, env := serveRequest(t, someItems(), &stubSchedules{}, &stubSessions{}, "/executive/potus-schedule/")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
}

func TestGetPotusScheduleInvalidBounds(t *testing.T) {
	code, env := serveRequest(t, someItems(), someSchedules(), &stubSessions{}, "/executive/potus-schedule/?limit=none")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}

func TestEnvelopeAlwaysCarriesAllKeys(t *testing.T) {
	handler := NewHandler(feed.NewQuery(someItems(), someSchedules()), someItems(), someSchedules(), &stubSessions{})
	server := NewServer(handler)

	t.Run("success carries explicit null message", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Contains(t, body, "message")
		assert.Equal(t, "null", string(body["message"]))
	})

	t.Run("error carries explicit null data", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/feed?limit=0", nil)
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Contains(t, body, "data")
		assert.Equal(t, "null", string(body["data"]))
	})
}

func TestGetHealth(t *testing.T) {
	items := someItems()
	items.count = 42
	schedules := someSchedules()
	schedules.count = 7

	handler := NewHandler(feed.NewQuery(items, schedules), items, schedules, &stubSessions{})
	server := NewServer(handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.EqualValues(t, 42, health["items"])
	assert.EqualValues(t, 7, health["schedule_entries"])
	assert.Contains(t, health, "timestamp")
}
