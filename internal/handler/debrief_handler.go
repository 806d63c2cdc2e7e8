package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/model"
)

const debriefPageSize = 10

type DebriefStore interface {
	GetLatest(orgID string) (*model.Debrief, error)
	List(orgID string, limit, offset int) ([]model.Debrief, error)
	Count(orgID string) (int, error)
}

// DebriefGenerator produces a new debrief on demand. A (nil, nil) result
// means the trailing window held nothing to summarize.
type DebriefGenerator interface {
	Generate(orgID string) (*model.Debrief, error)
}

type DebriefHandler struct {
	repository DebriefStore
	generator  DebriefGenerator
}

func NewDebriefHandler(repository DebriefStore, generator DebriefGenerator) *DebriefHandler {
	return &DebriefHandler{repository: repository, generator: generator}
}

// List serves the debrief archive, newest first, with the latest one pulled
// out separately for the overview card.
func (h *DebriefHandler) List(c *gin.Context) {
	limit := getQueryLimit(debriefPageSize, 50, c)
	offset := getQueryOffset(c)

	debriefs, err := h.repository.List(orgID(c), limit, offset)
	if err != nil {
		slog.Error("error listing debriefs", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.Count(orgID(c))
	if err != nil {
		slog.Error("error counting debriefs", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := DebriefsResponse{
		History: []DebriefResponse{},
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}

	for i, d := range debriefs {
		dr := toDebriefResponse(d)
		if i == 0 && offset == 0 {
			res.Latest = &dr
		}
		res.History = append(res.History, dr)
	}

	c.JSON(http.StatusOK, res)
}

func (h *DebriefHandler) GetLatest(c *gin.Context) {
	debrief, err := h.repository.GetLatest(orgID(c))
	if err != nil {
		slog.Error("error fetching latest debrief", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if debrief == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No debriefs yet"})
		return
	}

	c.JSON(http.StatusOK, toDebriefResponse(*debrief))
}

// Generate produces a fresh debrief immediately instead of waiting for the
// weekly schedule.
func (h *DebriefHandler) Generate(c *gin.Context) {
	debrief, err := h.generator.Generate(orgID(c))
	if err != nil {
		slog.Error("error generating debrief", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate debrief"})
		return
	}

	if debrief == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No news in the last 7 days"})
		return
	}

	c.JSON(http.StatusCreated, toDebriefResponse(*debrief))
}
