package feed

import (
	"time"
)

// Feed processing types

// Entry is a raw feed entry as parsed from the wire, before normalization
type Entry struct {
	Title       string
	Link        string
	PublishedAt *time.Time
}

// Item is a normalized feed entry carrying its source tag
type Item struct {
	Title       string
	Link        string
	PublishedAt time.Time
	Source      string
}

// Configuration types

type Source struct {
	Tag     string `yaml:"tag"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}
