package signals

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultWeights(), WithClock(fixedClock))
}

func boolPtr(v bool) *bool { return &v }

func TestResolvePreferences(t *testing.T) {
	defaults := ResolvePreferences(nil)
	if !defaults.LLMs || !defaults.Agents {
		t.Error("Expected LLMs and Agents enabled by default")
	}
	if defaults.Vision || defaults.Robotics || defaults.Audio || defaults.OpenSource || defaults.Startups || defaults.Policy {
		t.Errorf("Expected remaining topics disabled by default, got %+v", defaults)
	}

	merged := ResolvePreferences(&PreferenceOverrides{Agents: boolPtr(false), Policy: boolPtr(true)})
	if !merged.LLMs {
		t.Error("Expected missing LLMs override to keep the default")
	}
	if merged.Agents {
		t.Error("Expected Agents override to disable the topic")
	}
	if !merged.Policy {
		t.Error("Expected Policy override to enable the topic")
	}

	empty := ResolvePreferences(&PreferenceOverrides{})
	if !reflect.DeepEqual(empty, DefaultPreferences()) {
		t.Errorf("Expected empty overrides to equal defaults, got %+v", empty)
	}
}

func TestRankSignalsForUser_WatchlistScenario(t *testing.T) {
	e := newTestEngine()
	result := e.RankSignalsForUser(RankInput{
		Signals: []SignalEvent{{
			ID: "funding-1", Title: "Acme raised $5M (Seed)", EventType: EventFunding,
			EntityType: EntityStartup, EntityName: "Acme", Confidence: 0.9, EventDate: testNow,
		}},
		WatchlistEntities: []WatchlistEntity{{EntityType: WatchCompany, Slug: "acme", Name: "Acme"}},
		Limit:             10,
	})

	if len(result.Data) != 1 {
		t.Fatalf("Expected 1 ranked signal, got %d", len(result.Data))
	}
	r := result.Data[0]
	if !r.WatchlistMatch || r.MatchedEntity == nil || r.MatchedEntity.Slug != "acme" {
		t.Fatalf("Expected watchlist match on acme, got %+v", r.PersonalizedSignal)
	}
	if r.PersonalizationScore.Breakdown.Watchlist != 30 {
		t.Errorf("Expected watchlist component 30, got %d", r.PersonalizationScore.Breakdown.Watchlist)
	}
	if r.PersonalizationScore.Breakdown.Base != 18 {
		t.Errorf("Expected base 18, got %d", r.PersonalizationScore.Breakdown.Base)
	}
	if r.PersonalizationScore.Breakdown.Freshness != 8 {
		t.Errorf("Expected freshness 8, got %d", r.PersonalizationScore.Breakdown.Freshness)
	}
	if r.PersonalizationScore.Reasons[0] != "On your watchlist: Acme" {
		t.Errorf("Expected watchlist reason first, got %v", r.PersonalizationScore.Reasons)
	}
	if result.MatchedCount != 1 {
		t.Errorf("Expected matched count 1, got %d", result.MatchedCount)
	}
	if result.ScoringVersion != "v1" {
		t.Errorf("Expected scoring version v1, got %s", result.ScoringVersion)
	}
}

func TestScoreSignal_WatchlistAddsExactly30(t *testing.T) {
	e := newTestEngine()
	prefs := ResolvePreferences(nil)
	base := SignalEvent{Title: "GPT agents", EventType: EventNews, Confidence: 0.72, EventDate: testNow.Add(-2 * time.Hour), Tags: []string{"news"}}

	unmatched := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: base}, prefs, nil, testNow)
	matched := e.Scorer.ScoreSignal(PersonalizedSignal{
		SignalEvent:    base,
		WatchlistMatch: true,
		MatchedEntity:  &WatchlistEntity{EntityType: WatchCompany, Slug: "x", Name: "X"},
	}, prefs, nil, testNow)

	if matched.Total-unmatched.Total != 30 {
		t.Errorf("Expected watchlist to add exactly 30, got %d -> %d", unmatched.Total, matched.Total)
	}
}

func TestScoreSignal_TopicAffinity(t *testing.T) {
	e := newTestEngine()
	s := PersonalizedSignal{SignalEvent: SignalEvent{
		Title:      "Open-source GPT agent for robot vision raised funding under new AI Act policy",
		EntityName: "Speech",
		EventType:  EventNews,
		Confidence: 0.72,
	}}

	defaults := e.Scorer.ScoreSignal(s, ResolvePreferences(nil), nil, testNow)
	if defaults.Breakdown.TopicAffinity != 10 {
		t.Errorf("Expected LLMs+Agents = 10, got %d", defaults.Breakdown.TopicAffinity)
	}
	expectedReasons := []string{"Matches LLMs preference", "Matches Agents preference"}
	if !reflect.DeepEqual(defaults.Reasons, expectedReasons) {
		t.Errorf("Expected reasons %v, got %v", expectedReasons, defaults.Reasons)
	}

	all := ResolvePreferences(&PreferenceOverrides{
		Vision: boolPtr(true), Robotics: boolPtr(true), Audio: boolPtr(true),
		OpenSource: boolPtr(true), Startups: boolPtr(true), Policy: boolPtr(true),
	})
	capped := e.Scorer.ScoreSignal(s, all, nil, testNow)
	if capped.Breakdown.TopicAffinity != 18 {
		t.Errorf("Expected topic affinity capped at 18, got %d", capped.Breakdown.TopicAffinity)
	}
	if len(capped.Reasons) != 8 {
		t.Errorf("Expected a reason per matching topic, got %v", capped.Reasons)
	}

	none := e.Scorer.ScoreSignal(s, Preferences{}, nil, testNow)
	if none.Breakdown.TopicAffinity != 0 || len(none.Reasons) != 0 {
		t.Errorf("Expected no topic contribution with all topics off, got %+v", none)
	}
}

func TestScoreSignal_ReadHistory(t *testing.T) {
	e := newTestEngine()
	history := []ReadHistoryEntry{
		{ArticleType: "model", ReadAt: testNow.Add(-time.Hour).Format(time.RFC3339)},
		{ArticleType: "model", ReadAt: testNow.Add(-48 * time.Hour).Format(time.RFC3339)},
		{ArticleType: "model", ReadAt: testNow.Add(-30 * 24 * time.Hour).Format(time.RFC3339)},
		{ArticleType: "model", ReadAt: "not-a-time"},
		{ArticleType: "news", ReadAt: testNow.Add(-time.Hour).Format(time.RFC3339)},
	}
	for i := 0; i < 6; i++ {
		history = append(history, ReadHistoryEntry{ArticleType: "funding", ReadAt: testNow.Format(time.RFC3339)})
	}
	counts := e.Scorer.CountHistory(history, testNow)

	model := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventModelRelease}}, Preferences{}, counts, testNow)
	if model.Breakdown.ReadHistory != 4 {
		t.Errorf("Expected 2 recent model reads = 4, got %d", model.Breakdown.ReadHistory)
	}
	if !reflect.DeepEqual(model.Reasons, []string{"Aligned with your recent model reading behavior"}) {
		t.Errorf("Unexpected reasons %v", model.Reasons)
	}

	funding := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventFunding}}, Preferences{}, counts, testNow)
	if funding.Breakdown.ReadHistory != 8 {
		t.Errorf("Expected read history capped at 8, got %d", funding.Breakdown.ReadHistory)
	}

	unknown := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventType("podcast")}}, Preferences{}, counts, testNow)
	if unknown.Breakdown.ReadHistory != 8 {
		t.Errorf("Expected unknown event types to use funding history, got %d", unknown.Breakdown.ReadHistory)
	}

	empty := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventNews}}, Preferences{}, nil, testNow)
	if empty.Breakdown.ReadHistory != 0 || len(empty.Reasons) != 0 {
		t.Errorf("Expected no history contribution, got %+v", empty)
	}
}

func TestScoreSignal_Freshness(t *testing.T) {
	e := newTestEngine()
	cases := []struct {
		age      time.Duration
		expected int
	}{
		{-time.Hour, 8},
		{0, 8},
		{6 * time.Hour, 8},
		{6*time.Hour + time.Minute, 5},
		{24 * time.Hour, 5},
		{48 * time.Hour, 2},
		{72 * time.Hour, 2},
		{73 * time.Hour, 0},
	}

	for _, c := range cases {
		s := PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventNews, EventDate: testNow.Add(-c.age)}}
		got := e.Scorer.ScoreSignal(s, Preferences{}, nil, testNow)
		if got.Breakdown.Freshness != c.expected {
			t.Errorf("Age %v: expected freshness %d, got %d", c.age, c.expected, got.Breakdown.Freshness)
		}
	}

	zero := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventNews}}, Preferences{}, nil, testNow)
	if zero.Breakdown.Freshness != 0 {
		t.Errorf("Expected zero freshness for missing date, got %d", zero.Breakdown.Freshness)
	}
}

func TestRankSignalsForUser_OrderingAndLimits(t *testing.T) {
	e := newTestEngine()
	signals := e.BuildSignalFeed(FeedSources{
		News: []NewsItem{
			{ID: "n1", Title: "Quiet market update", PublishedAt: testNow.Add(-100 * time.Hour).Format(time.RFC3339)},
			{ID: "n2", Title: "New LLM benchmark", PublishedAt: testNow.Add(-time.Hour).Format(time.RFC3339)},
		},
		Models: []ModelTrend{{Name: "Model A", Trend: "+1%"}, {Name: "Model B", Trend: "+2%"}},
	}, 100)

	result := e.RankSignalsForUser(RankInput{Signals: signals, Limit: 3})
	if len(result.Data) != 3 {
		t.Fatalf("Expected 3 signals, got %d", len(result.Data))
	}
	for i := 1; i < len(result.Data); i++ {
		if result.Data[i].PersonalizationScore.Total > result.Data[i-1].PersonalizationScore.Total {
			t.Errorf("Scores must be non-increasing at %d", i)
		}
	}
	if result.Data[0].ID != "news-n2" {
		t.Errorf("Expected LLM news first, got %s", result.Data[0].ID)
	}

	again := e.RankSignalsForUser(RankInput{Signals: signals, Limit: 3})
	for i := range result.Data {
		if result.Data[i].ID != again.Data[i].ID {
			t.Errorf("Expected deterministic order, position %d: %s vs %s", i, result.Data[i].ID, again.Data[i].ID)
		}
	}
	if result.Data[1].ID != "model-model-a" || result.Data[2].ID != "model-model-b" {
		t.Errorf("Expected tied models in feed order, got %s, %s", result.Data[1].ID, result.Data[2].ID)
	}

	if got := e.RankSignalsForUser(RankInput{Signals: signals, Limit: 1000}); len(got.Data) != len(signals) {
		t.Errorf("Expected all %d signals under a large limit, got %d", len(signals), len(got.Data))
	}
}

func TestRankSignalsForUser_EmptyInputs(t *testing.T) {
	e := newTestEngine()

	result := e.RankSignalsForUser(RankInput{})
	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("Expected empty non-nil data, got %v", result.Data)
	}
	if result.MatchedCount != 0 {
		t.Errorf("Expected matched count 0, got %d", result.MatchedCount)
	}
}

func TestRankSignalsForUser_WatchlistOnlyWithoutMatches(t *testing.T) {
	e := newTestEngine()

	result := e.RankSignalsForUser(RankInput{
		Signals:           []SignalEvent{{ID: "news-1", EntityName: "Other", EventType: EventNews, EventDate: testNow}},
		WatchlistEntities: []WatchlistEntity{{EntityType: WatchCompany, Slug: "acme", Name: "Acme"}},
		WatchlistOnly:     true,
		Limit:             5,
	})

	if len(result.Data) != 0 {
		t.Errorf("Expected no data, got %d", len(result.Data))
	}
	if result.MatchedCount != 0 {
		t.Errorf("Expected matched count 0, got %d", result.MatchedCount)
	}
}

func TestRankSignalsForUser_MatchedCountBeforeTruncation(t *testing.T) {
	e := newTestEngine()
	entities := []WatchlistEntity{{EntityType: WatchCompany, Slug: "acme", Name: "Acme"}}

	var signals []SignalEvent
	for i := 0; i < 5; i++ {
		signals = append(signals, SignalEvent{ID: "n" + string(rune('0'+i)), EntityName: "Acme", EventType: EventNews, EventDate: testNow})
	}

	result := e.RankSignalsForUser(RankInput{Signals: signals, WatchlistEntities: entities, Limit: 2, WatchlistOnly: true})
	if len(result.Data) != 2 {
		t.Errorf("Expected 2 signals, got %d", len(result.Data))
	}
	if result.MatchedCount != 5 {
		t.Errorf("Expected matched count 5 before truncation, got %d", result.MatchedCount)
	}
}

type alwaysTopic struct{}

func (alwaysTopic) Matches(string, []string) bool { return true }

func TestEngine_CustomTopicMatcher(t *testing.T) {
	e := NewEngine(DefaultWeights(), WithClock(fixedClock), WithTopicMatcher(alwaysTopic{}))
	got := e.Scorer.ScoreSignal(PersonalizedSignal{SignalEvent: SignalEvent{EventType: EventNews}}, ResolvePreferences(nil), nil, testNow)
	if got.Breakdown.TopicAffinity != 10 {
		t.Errorf("Expected custom matcher to award LLMs+Agents, got %d", got.Breakdown.TopicAffinity)
	}
}

func TestRankSignalsForUser_LimitClamp(t *testing.T) {
	e := newTestEngine()

	events := make([]SignalEvent, 0, 120)
	for i := 0; i < 120; i++ {
		events = append(events, SignalEvent{ID: fmt.Sprintf("news-%d", i), EventType: EventNews, EventDate: testNow})
	}

	cases := map[int]int{
		-5:  1,
		0:   1,
		1:   1,
		12:  12,
		100: 100,
		101: 100,
	}

	for limit, expected := range cases {
		if got := len(e.RankSignalsForUser(RankInput{Signals: events, Limit: limit}).Data); got != expected {
			t.Errorf("Limit %d: expected %d signals, got %d", limit, expected, got)
		}
	}
}

func TestClampRankLimit(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 50: 50, 100: 100, 101: 100}

	for in, expected := range cases {
		if got := ClampRankLimit(in); got != expected {
			t.Errorf("ClampRankLimit(%d): expected %d, got %d", in, expected, got)
		}
	}
}
