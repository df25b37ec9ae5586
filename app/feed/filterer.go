package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/a2z-signals/app/signals"
)

type Filterer struct {
	filters []Filter
}

func NewFilterer(filters []Filter) *Filterer {
	return &Filterer{filters: filters}
}

// Run drops news items rejected by the configured rules.
func (f *Filterer) Run(items []signals.NewsItem) []signals.NewsItem {
	if len(f.filters) == 0 {
		return items
	}

	kept := make([]signals.NewsItem, 0, len(items))
	for _, item := range items {
		if isFiltered, reason := f.applyFilters(item); isFiltered {
			slog.Debug("News item filtered", "id", item.ID, "source", item.Source, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

func (f *Filterer) applyFilters(item signals.NewsItem) (bool, string) {
	for _, filter := range f.filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item signals.NewsItem, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "category":
		return item.Category
	case "source":
		return item.Source
	case "url":
		return item.URL
	default:
		return ""
	}
}
