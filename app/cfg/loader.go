package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"capitol.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesFile            string `long:"sources-file" env:"SOURCES_FILE" description:"YAML file listing feed sources (built-in defaults when empty)"`
	Port                   string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount            int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for ingestion tasks"`
	FeedRefreshMinutes     int    `long:"feed-refresh" env:"FEED_REFRESH_MINUTES" default:"5" description:"Feed ingestion interval in minutes"`
	SessionRefreshMinutes  int    `long:"session-refresh" env:"SESSION_REFRESH_MINUTES" default:"30" description:"Chamber session refresh interval in minutes"`
	ScheduleRefreshMinutes int    `long:"schedule-refresh" env:"SCHEDULE_REFRESH_MINUTES" default:"30" description:"Presidential schedule refresh interval in minutes"`

	// Upstream endpoints
	HouseStatusURL    string `long:"house-status-url" env:"HOUSE_STATUS_URL" default:"https://in-session.house.gov/" description:"House floor in-session flag endpoint"`
	SenateScheduleURL string `long:"senate-schedule-url" env:"SENATE_SCHEDULE_URL" default:"https://www.senate.gov/legislative/schedule/floor_schedule.json" description:"Senate floor schedule JSON endpoint"`
	PotusScheduleURL  string `long:"potus-schedule-url" env:"POTUS_SCHEDULE_URL" default:"https://media-cdn.factba.se/rss/json/calendar-full.json" description:"President's public schedule JSON endpoint"`

	// Completion service
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"API key for the completion service (House next-meeting extraction disabled when empty)"`
	LLMModel        string `long:"llm-model" env:"LLM_MODEL" default:"claude-haiku-4-5" description:"Completion model identifier"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Capitol Feed/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:                 raw.DBPath,
		SourcesFile:            raw.SourcesFile,
		Port:                   raw.Port,
		WorkerCount:            raw.WorkerCount,
		FeedRefreshMinutes:     raw.FeedRefreshMinutes,
		SessionRefreshMinutes:  raw.SessionRefreshMinutes,
		ScheduleRefreshMinutes: raw.ScheduleRefreshMinutes,
		HouseStatusURL:         raw.HouseStatusURL,
		SenateScheduleURL:      raw.SenateScheduleURL,
		PotusScheduleURL:       raw.PotusScheduleURL,
		AnthropicAPIKey:        raw.AnthropicAPIKey,
		LLMModel:               raw.LLMModel,
		UserAgent:              raw.UserAgent,
		Timezone:               raw.Timezone,
		Debug:                  raw.Debug,
		Version:                GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
