package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/a2z-signals/app/feed"
	"github.com/lysyi3m/a2z-signals/app/signals"
)

const DefaultProfileName = "default"

// Loader handles loading and validation of scoring profiles
type Loader struct {
	path string
}

// NewLoader creates a loader for the profile at path; an empty path selects the built-in profile
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// DefaultProfile returns the built-in scoring profile
func DefaultProfile() *Profile {
	return &Profile{
		Name:    DefaultProfileName,
		Weights: signals.DefaultWeights(),
	}
}

// Load reads, defaults and validates the configured profile
func (l *Loader) Load() (*Profile, error) {
	if l.path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	profile, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", l.path, err)
	}

	slog.Info("Loaded scoring profile", "path", l.path, "name", profile.Name, "topics", len(profile.Weights.Topics), "news_filters", len(profile.NewsFilters))
	return profile, nil
}

// Parse builds a profile from YAML data
func Parse(data []byte) (*Profile, error) {
	var file ProfileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFile(&file); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	profile := &Profile{
		Name:        file.Name,
		Weights:     signals.DefaultWeights(),
		NewsFilters: file.NewsFilters,
	}
	setDefaults(&file, profile)

	if err := validate(profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return profile, nil
}

// setDefaults overlays the values present in file onto the built-in weights
func setDefaults(file *ProfileFile, profile *Profile) {
	if profile.Name == "" {
		profile.Name = DefaultProfileName
	}

	w := &profile.Weights
	setFloat(&w.BaseMultiplier, file.Weights.BaseMultiplier)
	setInt(&w.WatchlistBonus, file.Weights.WatchlistBonus)
	setInt(&w.TopicCap, file.Weights.TopicCap)
	setInt(&w.ReadHistoryPerEntry, file.Weights.ReadHistoryPerEntry)
	setInt(&w.ReadHistoryCap, file.Weights.ReadHistoryCap)
	setInt(&w.MaxHistoryEntries, file.Weights.MaxHistoryEntries)
	if file.Weights.ReadHistoryWindowDays != nil {
		w.ReadHistoryWindow = time.Duration(*file.Weights.ReadHistoryWindowDays) * 24 * time.Hour
	}

	setFloat(&w.Confidence.Funding, file.Confidence.Funding)
	setFloat(&w.Confidence.News, file.Confidence.News)
	setFloat(&w.Confidence.Model, file.Confidence.Model)

	if file.Freshness != nil {
		w.Freshness = make([]signals.FreshnessStep, len(file.Freshness))
		for i, step := range file.Freshness {
			w.Freshness[i] = signals.FreshnessStep{
				MaxAge: time.Duration(step.MaxAgeHours) * time.Hour,
				Points: step.Points,
			}
		}
	}

	for i, rule := range w.Topics {
		override, ok := file.Topics[string(rule.Topic)]
		if !ok {
			continue
		}
		if override.Label != "" {
			w.Topics[i].Label = override.Label
		}
		setInt(&w.Topics[i].Points, override.Points)
		if override.Keywords != nil {
			w.Topics[i].Keywords = override.Keywords
		}
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// validateFile checks the parts of the file that are lost once defaults are applied
func validateFile(file *ProfileFile) error {
	for key := range file.Topics {
		if !signals.Topic(key).Valid() {
			return fmt.Errorf("unknown topic: %s", key)
		}
	}

	if file.Weights.ReadHistoryWindowDays != nil && *file.Weights.ReadHistoryWindowDays < 0 {
		return fmt.Errorf("read history window must be non-negative")
	}

	for i, step := range file.Freshness {
		if step.MaxAgeHours <= 0 {
			return fmt.Errorf("freshness step at index %d must have a positive max age", i)
		}
	}

	return nil
}

// validate validates the resolved profile
func validate(profile *Profile) error {
	w := profile.Weights

	if w.BaseMultiplier < 0 {
		return fmt.Errorf("base multiplier must be non-negative")
	}
	if w.WatchlistBonus < 0 {
		return fmt.Errorf("watchlist bonus must be non-negative")
	}
	if w.TopicCap < 0 {
		return fmt.Errorf("topic cap must be non-negative")
	}
	if w.ReadHistoryPerEntry < 0 || w.ReadHistoryCap < 0 {
		return fmt.Errorf("read history weights must be non-negative")
	}
	if w.MaxHistoryEntries < 0 {
		return fmt.Errorf("max history entries must be non-negative")
	}

	for name, v := range map[string]float64{
		"funding": w.Confidence.Funding,
		"news":    w.Confidence.News,
		"model":   w.Confidence.Model,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s confidence must be between 0 and 1, got %v", name, v)
		}
	}

	for i, step := range w.Freshness {
		if step.Points < 0 {
			return fmt.Errorf("freshness step at index %d must have non-negative points", i)
		}
		if i > 0 && step.MaxAge <= w.Freshness[i-1].MaxAge {
			return fmt.Errorf("freshness steps must have strictly increasing max age (index %d)", i)
		}
	}

	for _, rule := range w.Topics {
		if rule.Points < 0 {
			return fmt.Errorf("topic %s must have non-negative points", rule.Topic)
		}
	}

	for i, filter := range profile.NewsFilters {
		if !feed.FilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
