// Package feed adapts RSS/Atom sources to the item sequence consumed by
// the ingestion pipeline.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Item is one entry of a feed, reduced to what the pipeline scores.
type Item struct {
	Title   string
	Summary string
	Link    string
}

// Source yields the items of a feed URL. No ordering is assumed.
type Source interface {
	Fetch(ctx context.Context, url string) ([]Item, error)
}

// RSSFetcher implements Source over gofeed.
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher creates an RSS/Atom fetcher.
func NewRSSFetcher(userAgent string) *RSSFetcher {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &RSSFetcher{parser: parser}
}

// Fetch parses the feed at url into items. HTML markup is stripped from
// summaries before scoring.
func (f *RSSFetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		items = append(items, Item{
			Title:   entry.Title,
			Summary: stripHTML(summary),
			Link:    entry.Link,
		})
	}
	return items, nil
}

// Text composes the block of text that gets scored for an item.
func (i Item) Text() string {
	return fmt.Sprintf("%s, %s", i.Title, i.Summary)
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
