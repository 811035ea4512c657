package feed

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// retweetMarker is how the Twitter mirrors label reposts in entry titles.
const retweetMarker = "RT by @"

var (
	// Mirror hosts redirect to rotating nitter instances, so entry links
	// come back on arbitrary nitter-ish domains.
	mirrorLinkPattern = regexp.MustCompile(`^https?://(?:[^/]*nitter[^/]*|twiiit\.com)(/.*)?$`)
	replyPrefix       = regexp.MustCompile(`^R to @\w+: `)
)

// Normalizer turns raw entries into canonical feed items
type Normalizer struct {
	stripPolicy *bluemonday.Policy
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		stripPolicy: bluemonday.StrictPolicy(),
	}
}

// Run normalizes raw entries for one source. Entries missing a title,
// link, or publish time are dropped silently, and mirror-sourced retweets
// are discarded.
func (n *Normalizer) Run(entries []Entry, source string) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if item, ok := n.normalize(entry, source); ok {
			items = append(items, item)
		}
	}
	return items
}

func (n *Normalizer) normalize(entry Entry, source string) (Item, bool) {
	if entry.Title == "" || entry.Link == "" || entry.PublishedAt == nil {
		return Item{}, false
	}

	title := strings.TrimSpace(n.stripPolicy.Sanitize(entry.Title))
	link := entry.Link

	if m := mirrorLinkPattern.FindStringSubmatch(link); m != nil {
		if strings.Contains(title, retweetMarker) {
			return Item{}, false
		}
		title = replyPrefix.ReplaceAllString(title, "")
		link = "https://twitter.com" + m[1]
	}

	if title == "" {
		return Item{}, false
	}

	return Item{
		Title:       title,
		Link:        link,
		PublishedAt: entry.PublishedAt.UTC(),
		Source:      source,
	}, true
}
