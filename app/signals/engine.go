package signals

import (
	"time"
)

// Engine wires the normalizer, matcher and scorer around one set of weights.
// It holds no mutable state and may be shared across goroutines.
type Engine struct {
	weights    ScoringWeights
	Normalizer *Normalizer
	Matcher    *Matcher
	Scorer     *Scorer
}

type EngineOption func(*engineOptions)

type engineOptions struct {
	now       func() time.Time
	extractor EntityExtractor
	topics    TopicMatcher
}

func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) { o.now = now }
}

func WithEntityExtractor(e EntityExtractor) EngineOption {
	return func(o *engineOptions) { o.extractor = e }
}

func WithTopicMatcher(m TopicMatcher) EngineOption {
	return func(o *engineOptions) { o.topics = m }
}

func NewEngine(weights ScoringWeights, opts ...EngineOption) *Engine {
	o := engineOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	matcher := NewMatcher(o.extractor)
	return &Engine{
		weights:    weights,
		Normalizer: NewNormalizer(weights, o.now),
		Matcher:    matcher,
		Scorer:     NewScorer(weights, matcher, o.topics, o.now),
	}
}

func (e *Engine) Weights() ScoringWeights {
	return e.weights
}

func (e *Engine) BuildSignalFeed(src FeedSources, limit int) []SignalEvent {
	return e.Normalizer.BuildSignalFeed(src, limit)
}

func (e *Engine) AnnotateSignalsWithWatchlist(signals []SignalEvent, entities []WatchlistEntity) []PersonalizedSignal {
	return e.Matcher.AnnotateSignalsWithWatchlist(signals, entities)
}

func (e *Engine) FilterSignalsByWatchlist(signals []SignalEvent, entities []WatchlistEntity) []PersonalizedSignal {
	return e.Matcher.FilterSignalsByWatchlist(signals, entities)
}

func (e *Engine) RankSignalsForUser(in RankInput) RankResult {
	return e.Scorer.RankSignalsForUser(in)
}
