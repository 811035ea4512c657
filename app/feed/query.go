package feed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/database"
)

// PotusScheduleTag is the pseudo-source that lets schedule entries
// participate in source filtering alongside genuine feed sources.
const PotusScheduleTag = "potus-schedule"

var (
	ErrInvalidBounds  = errors.New("invalid limit or offset")
	ErrImpossibleDate = errors.New("date is well-formed but not possible")
	ErrNotFound       = errors.New("no items found")
)

// literalDatePattern is the strict search-term date grammar. A term that
// matches it is ONLY treated as a date, never as a substring.
var literalDatePattern = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2}, \d{4}$`)

type QueryParams struct {
	SearchTerm string
	Sources    string // comma-separated source tag allow-list
	Limit      int
	Offset     int
}

// Result is one row of the merged feed. FetchedAt is nil for schedule
// entries, which carry no ingestion audit timestamp of their own.
type Result struct {
	Title     string
	Link      string
	PubDate   time.Time
	Source    string
	FetchedAt *time.Time
}

// Query merges feed items and schedule entries into one
// reverse-chronological, filterable, paginated feed.
type Query struct {
	items     database.ItemRepository
	schedules database.ScheduleRepository
}

func NewQuery(items database.ItemRepository, schedules database.ScheduleRepository) *Query {
	return &Query{
		items:     items,
		schedules: schedules,
	}
}

func (q *Query) Run(ctx context.Context, params QueryParams) ([]Result, error) {
	if params.Limit <= 0 || params.Offset < 0 {
		return nil, ErrInvalidBounds
	}

	var itemFilter database.ItemFilter
	var scheduleFilter database.ScheduleFilter

	includeSchedule := true
	if params.Sources != "" {
		tags := strings.Split(params.Sources, ",")
		for i := range tags {
			tags[i] = strings.TrimSpace(tags[i])
		}
		itemFilter.Sources = tags
		includeSchedule = slices.Contains(tags, PotusScheduleTag)
	}

	if params.SearchTerm != "" {
		if literalDatePattern.MatchString(params.SearchTerm) {
			date, err := time.Parse("January 2, 2006", params.SearchTerm)
			if err != nil {
				return nil, ErrImpossibleDate
			}
			itemFilter.Date = &date
			scheduleFilter.Date = &date
		} else {
			itemFilter.Search = params.SearchTerm
			scheduleFilter.Search = params.SearchTerm
		}
	}

	// Both sets are fetched unpaginated: slicing each set before the merge
	// would undercount whenever the page boundary interleaves the kinds.
	items, err := q.items.QueryItems(ctx, itemFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed items: %w", err)
	}

	merged := make([]Result, 0, len(items))
	for _, item := range items {
		fetchedAt := item.FetchedAt
		merged = append(merged, Result{
			Title:     item.Title,
			Link:      item.Link,
			PubDate:   item.PubDate,
			Source:    item.Source,
			FetchedAt: &fetchedAt,
		})
	}

	if includeSchedule {
		entries, err := q.schedules.QueryEntries(ctx, scheduleFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to query schedule entries: %w", err)
		}
		for _, entry := range entries {
			merged = append(merged, scheduleResult(entry))
		}
	}

	if len(merged) == 0 {
		return nil, ErrNotFound
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})

	if params.Offset >= len(merged) {
		return []Result{}, nil
	}
	end := params.Offset + params.Limit
	if end > len(merged) {
		end = len(merged)
	}

	return merged[params.Offset:end], nil
}

// scheduleResult maps a schedule entry into the feed item shape
func scheduleResult(entry database.ScheduleEntry) Result {
	title := entry.Description
	if entry.Location != "" {
		title = fmt.Sprintf("%s (%s)", entry.Description, entry.Location)
	}

	return Result{
		Title:   title,
		Link:    entry.Link,
		PubDate: entry.Time,
		Source:  PotusScheduleTag,
	}
}
