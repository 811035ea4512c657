// Package timeutil holds the Eastern-to-UTC conversions shared by the
// chamber session resolver and the schedule fetcher. Upstream congressional
// sources publish wall-clock times in US Eastern; everything is stored UTC.
package timeutil

import (
	"fmt"
	"sync"
	"time"
)

const easternName = "America/New_York"

var loadEastern = sync.OnceValues(func() (*time.Location, error) {
	return time.LoadLocation(easternName)
})

// Eastern returns the US Eastern location
func Eastern() (*time.Location, error) {
	loc, err := loadEastern()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", easternName, err)
	}
	return loc, nil
}

// EasternToUTC interprets the given wall-clock components as US Eastern
// and returns the UTC instant. DST is resolved by the zone database.
func EasternToUTC(year int, month time.Month, day, hour, minute int) (time.Time, error) {
	loc, err := Eastern()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC(), nil
}
