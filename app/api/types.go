package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cipherkeeper/capitol-feed/app/database"
	"github.com/cipherkeeper/capitol-feed/app/feed"
)

type Handler struct {
	query     *feed.Query
	items     database.ItemRepository
	schedules database.ScheduleRepository
	sessions  database.SessionRepository
}

// response is the envelope every endpoint answers with. All three keys
// are always present; the unused one is an explicit null.
type response struct {
	Status  string  `json:"status"`
	Data    any     `json:"data"`
	Message *string `json:"message"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response{Status: "success", Data: data})
}

func failure(c *gin.Context, code int, message string) {
	c.JSON(code, response{Status: "error", Message: &message})
}

type feedItemResponse struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	PubDate   time.Time  `json:"pubDate"`
	Source    string     `json:"source"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
}

type sessionResponse struct {
	Chamber     string     `json:"chamber"`
	InSession   bool       `json:"in_session"`
	NextMeeting *time.Time `json:"next_meeting"`
	LiveLink    *string    `json:"live_link"`
	LastUpdated time.Time  `json:"last_updated"`
}

type scheduleEntryResponse struct {
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
	PubDate     time.Time `json:"pubDate"`
	PressInfo   string    `json:"press_information"`
	LastUpdated time.Time `json:"last_updated"`
}
