package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/model"
)

// IngestStore persists enriched news rows. Save returns false when the
// item is rejected or already stored.
type IngestStore interface {
	Save(n *model.NewsItem) (bool, error)
}

type IngestHandler struct {
	repository IngestStore
}

func NewIngestHandler(repository IngestStore) *IngestHandler {
	return &IngestHandler{repository: repository}
}

type ingestNewsRequest struct {
	CompetitorID string          `json:"competitor_id"`
	Title        string          `json:"title"`
	Summary      string          `json:"summary"`
	SourceURL    string          `json:"source_url"`
	Date         string          `json:"date"`
	EventType    string          `json:"event_type"`
	ThreatLevel  int             `json:"threat_level"`
	ImpactScore  *int            `json:"impact_score"`
	Region       string          `json:"region"`
	Details      json.RawMessage `json:"details"`
}

// Create accepts one enriched item from the worker. Placeholder URLs and
// duplicates come back as saved=false rather than an error so the worker
// can keep streaming the rest of its batch.
func (h *IngestHandler) Create(c *gin.Context) {
	var req ingestNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CompetitorID == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "competitor_id and title are required"})
		return
	}

	item := model.NewsItem{
		CompetitorID: req.CompetitorID,
		Title:        req.Title,
		Summary:      req.Summary,
		SourceURL:    req.SourceURL,
		Date:         parseNewsDate(req.Date),
		EventType:    req.EventType,
		ThreatLevel:  req.ThreatLevel,
		ImpactScore:  req.ImpactScore,
		Region:       req.Region,
		Details:      string(req.Details),
		ExtractedAt:  time.Now().UTC(),
	}

	saved, err := h.repository.Save(&item)
	if err != nil {
		slog.Error("error saving news item", "error", err, "competitor_id", req.CompetitorID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !saved {
		slog.Info("news item skipped", "competitor_id", req.CompetitorID, "source_url", req.SourceURL)
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": true, "id": item.ID})
}

// parseNewsDate accepts the worker's timestamp or date-only formats; an
// unparseable date falls back to now rather than rejecting the item.
func parseNewsDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Now().UTC()
}
