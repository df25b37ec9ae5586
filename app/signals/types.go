package signals

import (
	"time"
)

type EventType string

const (
	EventFunding      EventType = "funding"
	EventModelRelease EventType = "model_release"
	EventNews         EventType = "news"
)

// Gate returns the event type used for watchlist compatibility checks.
// Unknown values fall into the news bucket.
func (e EventType) Gate() EventType {
	switch e {
	case EventFunding, EventModelRelease, EventNews:
		return e
	default:
		return EventNews
	}
}

type EntityType string

const (
	// EntityCompany is reserved for company-level signals; no current source produces it.
	EntityCompany EntityType = "company"
	EntityModel   EntityType = "model"
	EntityStartup EntityType = "startup"
	EntityMarket  EntityType = "market"
)

type WatchlistType string

const (
	WatchCompany WatchlistType = "company"
	WatchModel   WatchlistType = "model"
	WatchFunding WatchlistType = "funding"
)

// Raw upstream shapes

type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
}

type ModelTrend struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Trend    string `json:"trend"` // pre-formatted, e.g. "+12%"
	Type     string `json:"type"`
	URL      string `json:"url"`
}

type FundingRound struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Amount       string `json:"amount"`
	Round        string `json:"round"`
	Category     string `json:"category"`
	Headquarters string `json:"headquarters"`
	Website      string `json:"website"`
	Date         string `json:"date"`
}

// Normalized types

type SignalEvent struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	URL        string     `json:"url"`
	Source     string     `json:"source"`
	EventType  EventType  `json:"eventType"`
	EntityType EntityType `json:"entityType"`
	EntityName string     `json:"entityName"`
	EventDate  time.Time  `json:"eventDate"`
	Confidence float64    `json:"confidence"`
	Tags       []string   `json:"tags"`
}

type WatchlistEntity struct {
	EntityType WatchlistType `json:"entityType"`
	Slug       string        `json:"slug"`
	Name       string        `json:"name"`
}

type PersonalizedSignal struct {
	SignalEvent
	WatchlistMatch bool             `json:"watchlistMatch"`
	MatchedEntity  *WatchlistEntity `json:"matchedEntity,omitempty"`
}

type ScoreBreakdown struct {
	Base          int `json:"base"`
	Watchlist     int `json:"watchlist"`
	TopicAffinity int `json:"topicAffinity"`
	ReadHistory   int `json:"readHistory"`
	Freshness     int `json:"freshness"`
}

type PersonalizationScore struct {
	Total     int            `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Reasons   []string       `json:"reasons"`
}

type RankedSignal struct {
	PersonalizedSignal
	PersonalizationScore PersonalizationScore `json:"personalizationScore"`
}

type ReadHistoryEntry struct {
	ArticleType string `json:"articleType"`
	ReadAt      string `json:"readAt"`
}

// RankInput is the snapshot of a single ranking request.
type RankInput struct {
	Signals           []SignalEvent
	WatchlistEntities []WatchlistEntity
	Preferences       *PreferenceOverrides
	ReadHistory       []ReadHistoryEntry
	Limit             int // clamped into [1, MaxLimit]
	WatchlistOnly     bool
}

type RankResult struct {
	Data           []RankedSignal `json:"data"`
	MatchedCount   int            `json:"matchedCount"`
	ScoringVersion string         `json:"scoringVersion"`
}
