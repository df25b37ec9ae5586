package signals

import (
	"strings"
)

// TopicMatcher decides whether a lowercased haystack hits any keyword.
type TopicMatcher interface {
	Matches(haystack string, keywords []string) bool
}

// SubstringTopicMatcher hits on a plain substring match.
type SubstringTopicMatcher struct{}

func (SubstringTopicMatcher) Matches(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func topicHaystack(s SignalEvent) string {
	return strings.ToLower(s.EntityName + " " + s.Title + " " + strings.Join(s.Tags, " "))
}
