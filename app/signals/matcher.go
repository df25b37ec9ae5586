package signals

import (
	"strings"
)

// EntityExtractor recovers entity names embedded in free text.
type EntityExtractor interface {
	ExtractEntities(title string) []string
}

// FundingTitleExtractor reads the company out of "<company> raised ..." titles.
type FundingTitleExtractor struct{}

func (FundingTitleExtractor) ExtractEntities(title string) []string {
	idx := strings.Index(title, " raised ")
	if idx <= 0 {
		return nil
	}
	return []string{title[:idx]}
}

type Matcher struct {
	extractor EntityExtractor
}

func NewMatcher(extractor EntityExtractor) *Matcher {
	if extractor == nil {
		extractor = FundingTitleExtractor{}
	}
	return &Matcher{extractor: extractor}
}

// Candidates returns the slug set a signal can be matched by.
func (m *Matcher) Candidates(s SignalEvent) map[string]struct{} {
	set := make(map[string]struct{}, len(s.Tags)+3)
	add := func(v string) {
		if slug := Slugify(v); slug != "" {
			set[slug] = struct{}{}
		}
	}

	add(s.EntityName)
	add(s.Source)
	for _, name := range m.extractor.ExtractEntities(s.Title) {
		add(name)
	}
	for _, tag := range s.Tags {
		add(tag)
	}

	return set
}

// Compatible reports whether a watchlist entity type may match an event type.
func Compatible(w WatchlistType, e EventType) bool {
	e = e.Gate()
	switch w {
	case WatchModel:
		return e == EventModelRelease
	case WatchFunding:
		return e == EventFunding
	case WatchCompany:
		return e == EventNews || e == EventFunding
	default:
		return true
	}
}

// Match returns the first compatible entity whose slug is a candidate.
func (m *Matcher) Match(s SignalEvent, entities []WatchlistEntity) (WatchlistEntity, bool) {
	if len(entities) == 0 {
		return WatchlistEntity{}, false
	}

	candidates := m.Candidates(s)
	for _, entity := range entities {
		if !Compatible(entity.EntityType, s.EventType) {
			continue
		}
		if _, ok := candidates[Slugify(entity.Slug)]; ok {
			return entity, true
		}
	}
	return WatchlistEntity{}, false
}

func (m *Matcher) AnnotateSignalsWithWatchlist(signals []SignalEvent, entities []WatchlistEntity) []PersonalizedSignal {
	out := make([]PersonalizedSignal, 0, len(signals))
	for _, s := range signals {
		ps := PersonalizedSignal{SignalEvent: s}
		if entity, ok := m.Match(s, entities); ok {
			ps.WatchlistMatch = true
			ps.MatchedEntity = &entity
		}
		out = append(out, ps)
	}
	return out
}

func (m *Matcher) FilterSignalsByWatchlist(signals []SignalEvent, entities []WatchlistEntity) []PersonalizedSignal {
	annotated := m.AnnotateSignalsWithWatchlist(signals, entities)
	matched := make([]PersonalizedSignal, 0, len(annotated))
	for _, ps := range annotated {
		if ps.WatchlistMatch {
			matched = append(matched, ps)
		}
	}
	return matched
}
