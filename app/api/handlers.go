package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/feed"
)

const (
	msgInvalidBounds  = "Invalid limit/offset value. Must be > 0"
	msgImpossibleDate = "The supplied date format was correct, but the date is not possible."
	msgItemsNotFound  = "Items not found"
	msgNoSessionInfo  = "Session information not found"
	msgInternalError  = "Internal server error"
)

func NewHandler(query *feed.Query, items database.ItemRepository,
	schedules database.ScheduleRepository, sessions database.SessionRepository) *Handler {
	return &Handler{
		query:     query,
		items:     items,
		schedules: schedules,
		sessions:  sessions,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	limit, offset, ok := pageBounds(c)
	if !ok {
		return
	}

	results, err := h.query.Run(c.Request.Context(), feed.QueryParams{
		SearchTerm: c.Query("search_term"),
		Sources:    c.Query("sources"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrInvalidBounds):
			failure(c, http.StatusBadRequest, msgInvalidBounds)
		case errors.Is(err, feed.ErrImpossibleDate):
			failure(c, http.StatusBadRequest, msgImpossibleDate)
		case errors.Is(err, feed.ErrNotFound):
			failure(c, http.StatusNotFound, msgItemsNotFound)
		default:
			slog.Error("Feed query failed", "error", err)
			failure(c, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	items := make([]feedItemResponse, 0, len(results))
	for _, r := range results {
		items = append(items, feedItemResponse{
			Title:     r.Title,
			Link:      r.Link,
			PubDate:   r.PubDate,
			Source:    r.Source,
			FetchedAt: r.FetchedAt,
		})
	}

	success(c, items)
}

func (h *Handler) GetSessionInfo(c *gin.Context) {
	ctx := c.Request.Context()

	senate, err := h.sessions.GetSession(ctx, database.ChamberSenate)
	if err != nil {
		slog.Error("Database error", "operation", "get_session", "chamber", database.ChamberSenate, "error", err)
		failure(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	house, err := h.sessions.GetSession(ctx, database.ChamberHouse)
	if err != nil {
		slog.Error("Database error", "operation", "get_session", "chamber", database.ChamberHouse, "error", err)
		failure(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	if senate == nil || house == nil {
		failure(c, http.StatusNotFound, msgNoSessionInfo)
		return
	}

	// Senate first, then House. Consumers index into this array.
	success(c, []sessionResponse{
		sessionFromRow(senate),
		sessionFromRow(house),
	})
}

func (h *Handler) GetPotusSchedule(c *gin.Context) {
	limit, offset, ok := pageBounds(c)
	if !ok {
		return
	}

	entries, err := h.schedules.ListEntries(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "list_entries", "error", err)
		failure(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	if len(entries) == 0 {
		failure(c, http.StatusNotFound, msgItemsNotFound)
		return
	}

	results := make([]scheduleEntryResponse, 0, len(entries))
	for _, entry := range entries {
		results = append(results, scheduleEntryResponse{
			Description: entry.Description,
			Link:        entry.Link,
			Location:    entry.Location,
			Time:        entry.Time,
			PubDate:     entry.Time,
			PressInfo:   entry.PressInfo,
			LastUpdated: entry.LastUpdated,
		})
	}

	success(c, results)
}

func (h *Handler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if itemCount, err := h.items.GetItemCount(ctx); err == nil {
		health["items"] = itemCount
	}
	if entryCount, err := h.schedules.GetEntryCount(ctx); err == nil {
		health["schedule_entries"] = entryCount
	}

	c.JSON(http.StatusOK, health)
}

// pageBounds reads limit/offset query parameters, writing the error
// response itself when they do not parse or are out of range.
func pageBounds(c *gin.Context) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		failure(c, http.StatusBadRequest, msgInvalidBounds)
		return 0, 0, false
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		failure(c, http.StatusBadRequest, msgInvalidBounds)
		return 0, 0, false
	}

	if limit <= 0 || offset < 0 {
		failure(c, http.StatusBadRequest, msgInvalidBounds)
		return 0, 0, false
	}

	return limit, offset, true
}

func sessionFromRow(row *database.ChamberSession) sessionResponse {
	return sessionResponse{
		Chamber:     row.Chamber,
		InSession:   row.InSession,
		NextMeeting: row.NextMeeting,
		LiveLink:    row.LiveLink,
		LastUpdated: row.LastUpdated,
	}
}
