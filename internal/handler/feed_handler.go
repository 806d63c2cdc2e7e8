package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/model"
	"github.com/ClementStand/market-analyser/internal/repository"
)

const (
	// feedPageSize caps the API feed; dashboardPageSize caps the wider
	// dashboard view. No cursor pagination, just a hard cap.
	feedPageSize      = 100
	dashboardPageSize = 200
)

type NewsStore interface {
	GetFeed(orgID string, f repository.FeedFilter) ([]model.NewsItem, error)
	UpdateFlags(id, orgID string, isRead, isStarred *bool) (bool, error)
	GetStats(orgID string) (*repository.Stats, error)
}

type FeedHandler struct {
	repository NewsStore
}

func NewFeedHandler(repository NewsStore) *FeedHandler {
	return &FeedHandler{repository: repository}
}

func parseFeedFilter(c *gin.Context, defaultLimit, maxLimit int) repository.FeedFilter {
	return repository.FeedFilter{
		CompetitorID: c.Query("competitor_id"),
		EventType:    c.Query("event_type"),
		MinThreat:    getQueryInt("min_threat", 0, c),
		UnreadOnly:   getQueryBool("unread", c),
		StarredOnly:  getQueryBool("starred", c),
		Region:       c.Query("region"),
		Location:     c.Query("location"),
		Limit:        getQueryLimit(defaultLimit, maxLimit, c),
	}
}

func (h *FeedHandler) getFeed(c *gin.Context, defaultLimit, maxLimit int) {
	filter := parseFeedFilter(c, defaultLimit, maxLimit)

	articles, err := h.repository.GetFeed(orgID(c), filter)
	if err != nil {
		slog.Error("error fetching feed", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := FeedResponse{Articles: []NewsResponse{}}
	for _, n := range articles {
		res.Articles = append(res.Articles, toNewsResponse(n))
	}
	res.Count = len(res.Articles)

	c.JSON(http.StatusOK, res)
}

// GetFeed serves the filtered API feed.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	h.getFeed(c, feedPageSize, feedPageSize)
}

// GetDashboard serves the wider dashboard view of the same feed.
func (h *FeedHandler) GetDashboard(c *gin.Context) {
	h.getFeed(c, dashboardPageSize, dashboardPageSize)
}

type updateNewsRequest struct {
	IsRead    *bool `json:"is_read"`
	IsStarred *bool `json:"is_starred"`
}

// UpdateNews flips read/starred flags on one item.
func (h *FeedHandler) UpdateNews(c *gin.Context) {
	var req updateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.IsRead == nil && req.IsStarred == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	updated, err := h.repository.UpdateFlags(c.Param("id"), orgID(c), req.IsRead, req.IsStarred)
	if err != nil {
		slog.Error("error updating news flags", "error", err, "news_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "News item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// GetStats serves the dashboard counters.
func (h *FeedHandler) GetStats(c *gin.Context) {
	stats, err := h.repository.GetStats(orgID(c))
	if err != nil {
		slog.Error("error fetching stats", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalItems:        stats.TotalItems,
		HighThreat:        stats.HighThreat,
		Unread:            stats.Unread,
		Starred:           stats.Starred,
		ActiveCompetitors: stats.ActiveCompetitors,
	})
}

// GetHealth reports liveness plus database connectivity.
func (h *FeedHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetStats("")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
