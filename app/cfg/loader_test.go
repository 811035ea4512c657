package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be a valid timezone, got error: %v", err)
	}
	if err := applyTimezone("America/New_York"); err != nil {
		t.Errorf("Expected America/New_York to be a valid timezone, got error: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected an error for an invalid timezone")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:                 "capitol.db",
		Port:                   "8080",
		WorkerCount:            5,
		FeedRefreshMinutes:     5,
		SessionRefreshMinutes:  30,
		ScheduleRefreshMinutes: 30,
		UserAgent:              "Test Agent",
		Timezone:               "UTC",
		Debug:                  true,
	}

	if cfg.DBPath != "capitol.db" {
		t.Errorf("Expected DB path 'capitol.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.FeedRefreshMinutes != 5 {
		t.Errorf("Expected feed refresh interval 5, got %d", cfg.FeedRefreshMinutes)
	}
	if cfg.SessionRefreshMinutes != 30 {
		t.Errorf("Expected session refresh interval 30, got %d", cfg.SessionRefreshMinutes)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
