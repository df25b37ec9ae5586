package signals

import (
	"time"
)

const (
	ScoringVersion = "v1"

	DefaultFeedLimit = 12
	MaxLimit         = 100
)

type Topic string

const (
	TopicLLMs       Topic = "llms"
	TopicAgents     Topic = "agents"
	TopicVision     Topic = "vision"
	TopicRobotics   Topic = "robotics"
	TopicAudio      Topic = "audio"
	TopicOpenSource Topic = "open_source"
	TopicStartups   Topic = "startups"
	TopicPolicy     Topic = "policy"
)

// AllTopics lists topics in scoring order.
var AllTopics = []Topic{
	TopicLLMs, TopicAgents, TopicVision, TopicRobotics,
	TopicAudio, TopicOpenSource, TopicStartups, TopicPolicy,
}

func (t Topic) Valid() bool {
	switch t {
	case TopicLLMs, TopicAgents, TopicVision, TopicRobotics,
		TopicAudio, TopicOpenSource, TopicStartups, TopicPolicy:
		return true
	default:
		return false
	}
}

type SourceConfidence struct {
	Funding float64 `json:"funding"`
	News    float64 `json:"news"`
	Model   float64 `json:"model"`
}

type TopicRule struct {
	Topic    Topic    `json:"topic"`
	Label    string   `json:"label"`
	Points   int      `json:"points"`
	Keywords []string `json:"keywords"`
}

type FreshnessStep struct {
	MaxAge time.Duration `json:"maxAge"`
	Points int           `json:"points"`
}

// ScoringWeights holds every tunable number used by normalization and ranking.
type ScoringWeights struct {
	Confidence SourceConfidence `json:"confidence"`

	BaseMultiplier float64 `json:"baseMultiplier"`
	WatchlistBonus int     `json:"watchlistBonus"`

	Topics   []TopicRule `json:"topics"`
	TopicCap int         `json:"topicCap"`

	ReadHistoryPerEntry int           `json:"readHistoryPerEntry"`
	ReadHistoryCap      int           `json:"readHistoryCap"`
	ReadHistoryWindow   time.Duration `json:"readHistoryWindow"`
	MaxHistoryEntries   int           `json:"maxHistoryEntries"`

	// Freshness steps are checked in order; the first step whose MaxAge
	// covers the signal age wins.
	Freshness []FreshnessStep `json:"freshness"`
}

func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Confidence: SourceConfidence{
			Funding: 0.90,
			News:    0.72,
			Model:   0.65,
		},
		BaseMultiplier:      20,
		WatchlistBonus:      30,
		Topics:              DefaultTopicRules(),
		TopicCap:            18,
		ReadHistoryPerEntry: 2,
		ReadHistoryCap:      8,
		ReadHistoryWindow:   21 * 24 * time.Hour,
		MaxHistoryEntries:   250,
		Freshness: []FreshnessStep{
			{MaxAge: 6 * time.Hour, Points: 8},
			{MaxAge: 24 * time.Hour, Points: 5},
			{MaxAge: 72 * time.Hour, Points: 2},
		},
	}
}

func DefaultTopicRules() []TopicRule {
	return []TopicRule{
		{Topic: TopicLLMs, Label: "LLMs", Points: 6, Keywords: []string{
			"llm", "language model", "gpt", "claude", "gemini", "llama", "mistral", "transformer", "chatbot",
		}},
		{Topic: TopicAgents, Label: "Agents", Points: 4, Keywords: []string{
			"agent", "agentic", "autonomous", "tool use", "copilot", "assistant",
		}},
		{Topic: TopicVision, Label: "Vision", Points: 4, Keywords: []string{
			"vision", "image", "video", "multimodal", "diffusion", "ocr",
		}},
		{Topic: TopicRobotics, Label: "Robotics", Points: 4, Keywords: []string{
			"robot", "humanoid", "embodied", "autonomous vehicle", "drone",
		}},
		{Topic: TopicAudio, Label: "Audio", Points: 4, Keywords: []string{
			"audio", "speech", "voice", "music", "text-to-speech", "tts",
		}},
		{Topic: TopicOpenSource, Label: "Open Source", Points: 3, Keywords: []string{
			"open source", "open-source", "open weights", "open-weight", "hugging face", "github",
		}},
		{Topic: TopicStartups, Label: "Startups", Points: 5, Keywords: []string{
			"startup", "seed", "series a", "series b", "series c", "raised", "funding", "valuation",
		}},
		{Topic: TopicPolicy, Label: "Policy", Points: 3, Keywords: []string{
			"policy", "regulation", "regulator", "ai act", "lawmakers", "government", "compliance",
		}},
	}
}

func (w ScoringWeights) confidenceFor(e EventType) float64 {
	switch e {
	case EventFunding:
		return clampUnit(w.Confidence.Funding)
	case EventModelRelease:
		return clampUnit(w.Confidence.Model)
	case EventNews:
		return clampUnit(w.Confidence.News)
	default:
		return clampUnit(w.Confidence.News)
	}
}

// ClampConfidence bounds a confidence value to [0, 1].
func ClampConfidence(v float64) float64 {
	return clampUnit(v)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampLimit maps zero/negative to the default and caps at MaxLimit.
// It is the feed assembler's rule; ranking uses ClampRankLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampRankLimit clamps a ranking limit into [1, MaxLimit].
func ClampRankLimit(limit int) int {
	return min(max(limit, 1), MaxLimit)
}
