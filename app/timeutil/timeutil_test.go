package timeutil

import (
	"testing"
	"time"
)

func TestEasternToUTC_StandardTime(t *testing.T) {
	// January is EST (UTC-5).
	got, err := EasternToUTC(2024, time.January, 5, 14, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEasternToUTC_DaylightTime(t *testing.T) {
	// July is EDT (UTC-4).
	got, err := EasternToUTC(2024, time.July, 10, 10, 30)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := time.Date(2024, 7, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
