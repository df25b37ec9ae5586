package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/a2z-signals/app/signals"
)

func NewHandler(engine *signals.Engine, parser ParserInterface, filterer FiltererInterface,
	profileName, version string) *Handler {
	return &Handler{
		engine:      engine,
		parser:      parser,
		filterer:    filterer,
		profileName: profileName,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"status":          "ok",
		"version":         h.version,
		"scoring_version": signals.ScoringVersion,
		"scoring_profile": h.profileName,
		"topics":          len(h.engine.Weights().Topics),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIGetProfile(c *gin.Context) {
	w := h.engine.Weights()

	freshness := make([]map[string]interface{}, 0, len(w.Freshness))
	for _, step := range w.Freshness {
		freshness = append(freshness, map[string]interface{}{
			"max_age_hours": int(step.MaxAge / time.Hour),
			"points":        step.Points,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"name":            h.profileName,
		"scoring_version": signals.ScoringVersion,
		"confidence":      w.Confidence,
		"weights": map[string]interface{}{
			"base_multiplier":          w.BaseMultiplier,
			"watchlist_bonus":          w.WatchlistBonus,
			"topic_cap":                w.TopicCap,
			"read_history_per_entry":   w.ReadHistoryPerEntry,
			"read_history_cap":         w.ReadHistoryCap,
			"read_history_window_days": int(w.ReadHistoryWindow / (24 * time.Hour)),
			"max_history_entries":      w.MaxHistoryEntries,
		},
		"freshness": freshness,
		"topics":    w.Topics,
	})
}

func (h *Handler) APIBuildFeed(c *gin.Context) {
	var req FeedRequest
	if !h.bind(c, &req) {
		return
	}

	sources, err := h.buildSources(req.SourcesRequest)
	if err != nil {
		h.writeSourcesError(c, err)
		return
	}

	data := h.engine.BuildSignalFeed(sources, req.Limit)

	c.JSON(http.StatusOK, map[string]interface{}{
		"data":  data,
		"total": len(data),
	})
}

func (h *Handler) APIWatchlist(c *gin.Context) {
	matchedOnly := false
	if raw := c.Query("matched_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid matched_only parameter"})
			return
		}
		matchedOnly = parsed
	}

	var req WatchlistRequest
	if !h.bind(c, &req) {
		return
	}

	all, err := h.collectSignals(req.Signals, req.SourcesRequest, req.FeedLimit)
	if err != nil {
		h.writeSourcesError(c, err)
		return
	}

	var data []signals.PersonalizedSignal
	if matchedOnly {
		data = h.engine.FilterSignalsByWatchlist(all, req.WatchlistEntities)
	} else {
		data = h.engine.AnnotateSignalsWithWatchlist(all, req.WatchlistEntities)
	}

	matched := 0
	for _, s := range data {
		if s.WatchlistMatch {
			matched++
		}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"data":         data,
		"matchedCount": matched,
	})
}

func (h *Handler) APIRank(c *gin.Context) {
	var req RankRequest
	if !h.bind(c, &req) {
		return
	}

	all, err := h.collectSignals(req.Signals, req.SourcesRequest, req.FeedLimit)
	if err != nil {
		h.writeSourcesError(c, err)
		return
	}

	limit := signals.DefaultFeedLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	result := h.engine.RankSignalsForUser(signals.RankInput{
		Signals:           all,
		WatchlistEntities: req.WatchlistEntities,
		Preferences:       req.Preferences,
		ReadHistory:       req.ReadHistory,
		Limit:             limit,
		WatchlistOnly:     req.WatchlistOnly,
	})

	slog.Debug("Ranked signals", "candidates", len(all), "returned", len(result.Data), "matched", result.MatchedCount)

	c.JSON(http.StatusOK, result)
}

// bind decodes the JSON body into dst and writes the error response on failure
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Request body too large",
			"limit": maxBytesErr.Limit,
		})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
	return false
}

// collectSignals appends normalized raw records to the pre-normalized signals
func (h *Handler) collectSignals(pre []SignalPayload, req SourcesRequest, feedLimit int) ([]signals.SignalEvent, error) {
	all := make([]signals.SignalEvent, 0, len(pre))
	for _, p := range pre {
		all = append(all, p.event())
	}

	if req.empty() {
		return all, nil
	}

	sources, err := h.buildSources(req)
	if err != nil {
		return nil, err
	}

	return append(all, h.engine.BuildSignalFeed(sources, feedLimit)...), nil
}

func (h *Handler) buildSources(req SourcesRequest) (signals.FeedSources, error) {
	news := make([]signals.NewsItem, 0, len(req.News))
	news = append(news, req.News...)

	for i, doc := range req.Feeds {
		items, err := h.parser.Run(doc)
		if err != nil {
			return signals.FeedSources{}, &feedError{index: i, err: err}
		}
		news = append(news, items...)
	}

	return signals.FeedSources{
		News:    h.filterer.Run(news),
		Models:  req.Models,
		Funding: req.Funding,
	}, nil
}

func (h *Handler) writeSourcesError(c *gin.Context, err error) {
	var fe *feedError
	if errors.As(err, &fe) {
		slog.Warn("Feed document rejected", "feed", fe.index, "error", fe.err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"feed":  fe.index,
		})
		return
	}

	slog.Error("Signal assembly error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
