package database

import (
	"time"
)

const (
	ChamberSenate = "senate"
	ChamberHouse  = "house"
)

type FeedItem struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Link      string    `db:"link"`
	PubDate   time.Time `db:"pub_date"`
	Source    string    `db:"source"`
	FetchedAt time.Time `db:"fetched_at"`
}

type ScheduleEntry struct {
	ID          string    `db:"id"`
	Link        string    `db:"link"`
	Location    string    `db:"location"`
	Time        time.Time `db:"time"`
	Description string    `db:"description"`
	PressInfo   string    `db:"press_information"`
	LastUpdated time.Time `db:"last_updated"`
}

type ChamberSession struct {
	Chamber     string     `db:"chamber"`
	InSession   bool       `db:"in_session"`
	NextMeeting *time.Time `db:"next_meeting"`
	LiveLink    *string    `db:"live_link"`
	LastUpdated time.Time  `db:"last_updated"`
}

// ItemFilter narrows feed item queries. A nil Date with an empty Search
// returns everything (the query engine paginates after merging, so the
// repository never paginates itself).
type ItemFilter struct {
	Sources []string
	Date    *time.Time
	Search  string
}

type ScheduleFilter struct {
	Date   *time.Time
	Search string
}
