package signals

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

const placeholderName = "unknown"

type Normalizer struct {
	confidence SourceConfidence
	now        func() time.Time
}

func NewNormalizer(weights ScoringWeights, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		confidence: weights.Confidence,
		now:        now,
	}
}

func (n *Normalizer) NormalizeNews(items []NewsItem) []SignalEvent {
	out := make([]SignalEvent, 0, len(items))
	for _, item := range items {
		category := strings.TrimSpace(item.Category)

		tags := make([]string, 0, 2)
		if category != "" {
			tags = append(tags, category)
		}
		tags = append(tags, "news")

		out = append(out, SignalEvent{
			ID:         "news-" + cmp.Or(strings.TrimSpace(item.ID), Slugify(item.Title), placeholderName),
			Title:      cmp.Or(strings.TrimSpace(item.Title), "Untitled"),
			Summary:    strings.TrimSpace(item.Description),
			URL:        cmp.Or(strings.TrimSpace(item.URL), "/news"),
			Source:     cmp.Or(strings.TrimSpace(item.Source), "News"),
			EventType:  EventNews,
			EntityType: EntityMarket,
			EntityName: cmp.Or(category, "AI"),
			EventDate:  ParseTimestamp(item.PublishedAt),
			Confidence: clampUnit(n.confidence.News),
			Tags:       tags,
		})
	}
	return out
}

// NormalizeModels stamps every entry with the current time: upstream trend
// lists carry no release date.
func (n *Normalizer) NormalizeModels(items []ModelTrend) []SignalEvent {
	now := n.now().UTC()

	out := make([]SignalEvent, 0, len(items))
	for _, item := range items {
		name := cmp.Or(strings.TrimSpace(item.Name), placeholderName)
		trend := strings.TrimSpace(item.Trend)

		title := name + " momentum"
		if trend != "" {
			title += " " + trend
		}

		tags := make([]string, 0, 2)
		if t := strings.TrimSpace(item.Type); t != "" {
			tags = append(tags, t)
		}
		tags = append(tags, "models")

		out = append(out, SignalEvent{
			ID:         "model-" + cmp.Or(Slugify(name), placeholderName),
			Title:      title,
			Summary:    modelSummary(item),
			URL:        cmp.Or(strings.TrimSpace(item.URL), "/models"),
			Source:     cmp.Or(strings.TrimSpace(item.Provider), "Model Trends"),
			EventType:  EventModelRelease,
			EntityType: EntityModel,
			EntityName: name,
			EventDate:  now,
			Confidence: clampUnit(n.confidence.Model),
			Tags:       tags,
		})
	}
	return out
}

func (n *Normalizer) NormalizeFunding(items []FundingRound) []SignalEvent {
	out := make([]SignalEvent, 0, len(items))
	for _, item := range items {
		company := cmp.Or(strings.TrimSpace(item.Company), placeholderName)
		amount := cmp.Or(strings.TrimSpace(item.Amount), "an undisclosed amount")
		round := cmp.Or(strings.TrimSpace(item.Round), "undisclosed round")

		tags := make([]string, 0, 3)
		if c := strings.TrimSpace(item.Category); c != "" {
			tags = append(tags, c)
		}
		if r := strings.TrimSpace(item.Round); r != "" {
			tags = append(tags, r)
		}
		tags = append(tags, "funding")

		out = append(out, SignalEvent{
			ID:         "funding-" + cmp.Or(strings.TrimSpace(item.ID), Slugify(company), placeholderName),
			Title:      fmt.Sprintf("%s raised %s (%s)", company, amount, round),
			Summary:    fundingSummary(item),
			URL:        cmp.Or(strings.TrimSpace(item.Website), "/funding"),
			Source:     company,
			EventType:  EventFunding,
			EntityType: EntityStartup,
			EntityName: company,
			EventDate:  ParseTimestamp(item.Date),
			Confidence: clampUnit(n.confidence.Funding),
			Tags:       tags,
		})
	}
	return out
}

func modelSummary(item ModelTrend) string {
	parts := make([]string, 0, 2)
	if p := strings.TrimSpace(item.Provider); p != "" {
		parts = append(parts, "by "+p)
	}
	if t := strings.TrimSpace(item.Type); t != "" {
		parts = append(parts, t+" model")
	}
	if len(parts) == 0 {
		return "Trending model"
	}
	return "Trending " + strings.Join(parts, ", ")
}

func fundingSummary(item FundingRound) string {
	var parts []string
	if c := strings.TrimSpace(item.Category); c != "" {
		parts = append(parts, c)
	}
	if hq := strings.TrimSpace(item.Headquarters); hq != "" {
		parts = append(parts, "based in "+hq)
	}
	return strings.Join(parts, ", ")
}
