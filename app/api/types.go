package api

import (
	"github.com/lysyi3m/a2z-signals/app/feed"
	"github.com/lysyi3m/a2z-signals/app/signals"
)

type ParserInterface interface {
	Run(doc feed.Document) ([]signals.NewsItem, error)
}

type FiltererInterface interface {
	Run(items []signals.NewsItem) []signals.NewsItem
}

var _ ParserInterface = (*feed.Parser)(nil)
var _ FiltererInterface = (*feed.Filterer)(nil)

type Handler struct {
	engine      *signals.Engine
	parser      ParserInterface
	filterer    FiltererInterface
	profileName string
	version     string
}

// SourcesRequest carries raw platform records to normalize
type SourcesRequest struct {
	News    []signals.NewsItem     `json:"news"`
	Models  []signals.ModelTrend   `json:"models"`
	Funding []signals.FundingRound `json:"funding"`
	Feeds   []feed.Document        `json:"feeds"`
}

func (r SourcesRequest) empty() bool {
	return len(r.News) == 0 && len(r.Models) == 0 && len(r.Funding) == 0 && len(r.Feeds) == 0
}

type FeedRequest struct {
	SourcesRequest
	Limit int `json:"limit"`
}

type WatchlistRequest struct {
	SourcesRequest
	Signals           []SignalPayload           `json:"signals"`
	FeedLimit         int                       `json:"feedLimit"`
	WatchlistEntities []signals.WatchlistEntity `json:"watchlistEntities"`
}

type RankRequest struct {
	SourcesRequest
	Signals           []SignalPayload              `json:"signals"`
	FeedLimit         int                          `json:"feedLimit"`
	WatchlistEntities []signals.WatchlistEntity    `json:"watchlistEntities"`
	Preferences       *signals.PreferenceOverrides `json:"preferences"`
	ReadHistory       []signals.ReadHistoryEntry   `json:"readHistory"`
	Limit             *int                         `json:"limit"` // nil means signals.DefaultFeedLimit
	WatchlistOnly     bool                         `json:"watchlistOnly"`
}

// SignalPayload is a pre-normalized signal as sent by clients. The date is
// kept as text so unparseable values degrade to the zero time instead of
// failing the whole request.
type SignalPayload struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Summary    string             `json:"summary"`
	URL        string             `json:"url"`
	Source     string             `json:"source"`
	EventType  signals.EventType  `json:"eventType"`
	EntityType signals.EntityType `json:"entityType"`
	EntityName string             `json:"entityName"`
	EventDate  string             `json:"eventDate"`
	Confidence float64            `json:"confidence"`
	Tags       []string           `json:"tags"`
}

func (p SignalPayload) event() signals.SignalEvent {
	return signals.SignalEvent{
		ID:         p.ID,
		Title:      p.Title,
		Summary:    p.Summary,
		URL:        p.URL,
		Source:     p.Source,
		EventType:  p.EventType,
		EntityType: p.EntityType,
		EntityName: p.EntityName,
		EventDate:  signals.ParseTimestamp(p.EventDate),
		Confidence: signals.ClampConfidence(p.Confidence),
		Tags:       p.Tags,
	}
}

// feedError reports a feed document that could not be parsed
type feedError struct {
	index int
	err   error
}

func (e *feedError) Error() string {
	return e.err.Error()
}

func (e *feedError) Unwrap() error {
	return e.err
}
