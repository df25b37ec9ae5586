package signals

import (
	"sort"
)

type FeedSources struct {
	News    []NewsItem
	Models  []ModelTrend
	Funding []FundingRound
}

// BuildSignalFeed merges normalized signals from every source, newest first,
// and truncates to limit. Ties on EventDate fall back to higher confidence.
// No cross-source deduplication happens here.
func (n *Normalizer) BuildSignalFeed(src FeedSources, limit int) []SignalEvent {
	limit = ClampLimit(limit)

	all := make([]SignalEvent, 0, len(src.News)+len(src.Models)+len(src.Funding))
	all = append(all, n.NormalizeNews(src.News)...)
	all = append(all, n.NormalizeModels(src.Models)...)
	all = append(all, n.NormalizeFunding(src.Funding)...)

	SortByRecency(all)

	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SortByRecency orders signals by EventDate descending, then Confidence
// descending. The sort is stable.
func SortByRecency(signals []SignalEvent) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.After(b.EventDate)
		}
		return a.Confidence > b.Confidence
	})
}
