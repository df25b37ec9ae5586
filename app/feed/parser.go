package feed

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/a2z-signals/app/signals"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run converts an RSS/Atom document into raw news records.
func (p *Parser) Run(doc Document) ([]signals.NewsItem, error) {
	if strings.TrimSpace(doc.Body) == "" {
		return nil, fmt.Errorf("feed document is empty")
	}

	parsed, err := p.gofeedParser.ParseString(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := cmp.Or(strings.TrimSpace(doc.Source), strings.TrimSpace(parsed.Title))

	items := make([]signals.NewsItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.normalizeItem(item, source, doc.Category))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, source, category string) signals.NewsItem {
	if category = strings.TrimSpace(category); category == "" && len(item.Categories) > 0 {
		category = strings.TrimSpace(item.Categories[0])
	}

	publishedAt := item.Published
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	return signals.NewsItem{
		ID:          p.generateItemID(item),
		Title:       strings.TrimSpace(item.Title),
		Description: htmlToText(cmp.Or(item.Description, item.Content)),
		Source:      source,
		Category:    category,
		PublishedAt: publishedAt,
		URL:         strings.TrimSpace(item.Link),
	}
}

func (p *Parser) generateItemID(item *gofeed.Item) string {
	key := cmp.Or(item.GUID, item.Link, item.Title+"|"+item.Published)
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])[:16]
}

// htmlToText flattens an HTML fragment into single-spaced plain text.
func htmlToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
