package config

import (
	"github.com/lysyi3m/a2z-signals/app/feed"
	"github.com/lysyi3m/a2z-signals/app/signals"
)

// Profile is a loaded and validated scoring profile
type Profile struct {
	Name        string
	Weights     signals.ScoringWeights
	NewsFilters []feed.Filter
}

// ProfileFile mirrors the YAML layout of a scoring profile.
// Pointer fields distinguish an explicit zero from an omitted value.
type ProfileFile struct {
	Name        string               `yaml:"name"`
	Weights     WeightsSection       `yaml:"weights"`
	Confidence  ConfidenceSection    `yaml:"confidence"`
	Freshness   []FreshnessStep      `yaml:"freshness"`
	Topics      map[string]TopicRule `yaml:"topics"`
	NewsFilters []feed.Filter        `yaml:"news_filters"`
}

// WeightsSection contains the additive scoring components
type WeightsSection struct {
	BaseMultiplier        *float64 `yaml:"base_multiplier"`
	WatchlistBonus        *int     `yaml:"watchlist_bonus"`
	TopicCap              *int     `yaml:"topic_cap"`
	ReadHistoryPerEntry   *int     `yaml:"read_history_per_entry"`
	ReadHistoryCap        *int     `yaml:"read_history_cap"`
	ReadHistoryWindowDays *int     `yaml:"read_history_window_days"`
	MaxHistoryEntries     *int     `yaml:"max_history_entries"`
}

// ConfidenceSection contains per-source confidence values
type ConfidenceSection struct {
	Funding *float64 `yaml:"funding"`
	News    *float64 `yaml:"news"`
	Model   *float64 `yaml:"model"`
}

// FreshnessStep awards points to signals younger than MaxAgeHours
type FreshnessStep struct {
	MaxAgeHours int `yaml:"max_age_hours"`
	Points      int `yaml:"points"`
}

// TopicRule overrides one topic's label, points or keywords
type TopicRule struct {
	Label    string   `yaml:"label"`
	Points   *int     `yaml:"points"`
	Keywords []string `yaml:"keywords"`
}
