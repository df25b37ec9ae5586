package signals

import (
	"cmp"
	"fmt"
	"math"
	"sort"
	"time"
)

type Scorer struct {
	weights ScoringWeights
	matcher *Matcher
	topics  TopicMatcher
	now     func() time.Time
}

func NewScorer(weights ScoringWeights, matcher *Matcher, topics TopicMatcher, now func() time.Time) *Scorer {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	if topics == nil {
		topics = SubstringTopicMatcher{}
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{
		weights: weights,
		matcher: matcher,
		topics:  topics,
		now:     now,
	}
}

// HistoryCounts buckets recent reads by article type.
type HistoryCounts map[string]int

// CountHistory counts reads inside the configured window. Only the first
// MaxHistoryEntries entries are considered.
func (s *Scorer) CountHistory(history []ReadHistoryEntry, now time.Time) HistoryCounts {
	if limit := s.weights.MaxHistoryEntries; limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	counts := make(HistoryCounts)
	for _, entry := range history {
		readAt := ParseTimestamp(entry.ReadAt)
		if readAt.IsZero() {
			continue
		}
		if now.Sub(readAt) > s.weights.ReadHistoryWindow {
			continue
		}
		counts[entry.ArticleType]++
	}
	return counts
}

// historyArticleType maps an event type to the read-history bucket it draws on.
func historyArticleType(e EventType) string {
	switch e {
	case EventModelRelease:
		return "model"
	case EventNews:
		return "news"
	default:
		return "funding"
	}
}

// ScoreSignal computes the additive personalization score of one annotated signal.
func (s *Scorer) ScoreSignal(ps PersonalizedSignal, prefs Preferences, history HistoryCounts, now time.Time) PersonalizationScore {
	var (
		breakdown ScoreBreakdown
		reasons   []string
	)

	breakdown.Base = int(math.Round(clampUnit(ps.Confidence) * s.weights.BaseMultiplier))

	if ps.WatchlistMatch {
		breakdown.Watchlist = s.weights.WatchlistBonus
		name := ""
		if ps.MatchedEntity != nil {
			name = cmp.Or(ps.MatchedEntity.Name, ps.MatchedEntity.Slug)
		}
		reasons = append(reasons, fmt.Sprintf("On your watchlist: %s", cmp.Or(name, ps.EntityName)))
	}

	haystack := topicHaystack(ps.SignalEvent)
	topicScore := 0
	for _, rule := range s.weights.Topics {
		if !prefs.Enabled(rule.Topic) {
			continue
		}
		if !s.topics.Matches(haystack, rule.Keywords) {
			continue
		}
		topicScore += rule.Points
		reasons = append(reasons, fmt.Sprintf("Matches %s preference", cmp.Or(rule.Label, string(rule.Topic))))
	}
	breakdown.TopicAffinity = min(topicScore, s.weights.TopicCap)

	articleType := historyArticleType(ps.EventType)
	if count := history[articleType]; count > 0 {
		breakdown.ReadHistory = min(count*s.weights.ReadHistoryPerEntry, s.weights.ReadHistoryCap)
		reasons = append(reasons, fmt.Sprintf("Aligned with your recent %s reading behavior", articleType))
	}

	breakdown.Freshness = s.freshness(ps.EventDate, now)

	if reasons == nil {
		reasons = []string{}
	}

	return PersonalizationScore{
		Total:     breakdown.Base + breakdown.Watchlist + breakdown.TopicAffinity + breakdown.ReadHistory + breakdown.Freshness,
		Breakdown: breakdown,
		Reasons:   reasons,
	}
}

func (s *Scorer) freshness(eventDate time.Time, now time.Time) int {
	if eventDate.IsZero() {
		return 0
	}
	age := now.Sub(eventDate)
	if age < 0 {
		age = 0
	}
	for _, step := range s.weights.Freshness {
		if age <= step.MaxAge {
			return step.Points
		}
	}
	return 0
}

// RankSignalsForUser annotates, scores and orders signals for a single user.
func (s *Scorer) RankSignalsForUser(in RankInput) RankResult {
	now := s.now()
	prefs := ResolvePreferences(in.Preferences)
	history := s.CountHistory(in.ReadHistory, now)

	annotated := s.matcher.AnnotateSignalsWithWatchlist(in.Signals, in.WatchlistEntities)

	ranked := make([]RankedSignal, 0, len(annotated))
	for _, ps := range annotated {
		if in.WatchlistOnly && !ps.WatchlistMatch {
			continue
		}
		ranked = append(ranked, RankedSignal{
			PersonalizedSignal:   ps,
			PersonalizationScore: s.ScoreSignal(ps, prefs, history, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PersonalizationScore.Total != b.PersonalizationScore.Total {
			return a.PersonalizationScore.Total > b.PersonalizationScore.Total
		}
		return a.EventDate.After(b.EventDate)
	})

	matched := 0
	for _, r := range ranked {
		if r.WatchlistMatch {
			matched++
		}
	}

	if limit := ClampRankLimit(in.Limit); len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return RankResult{
		Data:           ranked,
		MatchedCount:   matched,
		ScoringVersion: ScoringVersion,
	}
}
