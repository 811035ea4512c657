package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw RSS/Atom bytes into entries
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses feed data into raw entries. Entries keep the feed's
// structured publish time; anything the feed left unset stays nil for the
// normalizer to reject.
func (p *Parser) Run(data []byte) ([]Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PublishedParsed,
		})
	}

	return entries, nil
}
