package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/intel"
	"github.com/ClementStand/market-analyser/internal/model"
)

type SettingsStore interface {
	GetByID(id string) (*model.Organization, error)
	UpdateSettings(id string, vipCompetitors, priorityRegions, regions []string) (bool, error)
}

type ActiveCompetitorStore interface {
	ListActive(orgID string) ([]model.Competitor, error)
}

type OrgNewsStore interface {
	GetAllForOrganization(orgID string) ([]model.NewsItem, error)
}

// Rescorer recomputes impact scores after boost lists change.
type Rescorer interface {
	RescoreAll(orgID string) (int, error)
}

type SettingsHandler struct {
	orgs        SettingsStore
	competitors ActiveCompetitorStore
	news        OrgNewsStore
	scorer      Rescorer
}

func NewSettingsHandler(orgs SettingsStore, competitors ActiveCompetitorStore, news OrgNewsStore, scorer Rescorer) *SettingsHandler {
	return &SettingsHandler{orgs: orgs, competitors: competitors, news: news, scorer: scorer}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	org, err := h.orgs.GetByID(orgID(c))
	if err != nil {
		slog.Error("error fetching organization", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(org))
}

// Pointer slices distinguish "not sent" from "sent empty": absent fields
// keep their stored values, an explicit [] clears the list.
type updateSettingsRequest struct {
	VipCompetitors  *[]string `json:"vip_competitors"`
	PriorityRegions *[]string `json:"priority_regions"`
	Regions         *[]string `json:"regions"`
}

// Update persists the boost lists and rescores the whole feed so existing
// items reflect the new VIP/priority boosts.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	org, err := h.orgs.GetByID(orgID(c))
	if err != nil {
		slog.Error("error fetching organization", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if req.VipCompetitors != nil {
		org.VipCompetitors = *req.VipCompetitors
	}
	if req.PriorityRegions != nil {
		org.PriorityRegions = *req.PriorityRegions
	}
	if req.Regions != nil {
		org.Regions = *req.Regions
	}

	updated, err := h.orgs.UpdateSettings(orgID(c), org.VipCompetitors, org.PriorityRegions, org.Regions)
	if err != nil {
		slog.Error("error updating settings", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	rescored, err := h.scorer.RescoreAll(orgID(c))
	if err != nil {
		slog.Error("error rescoring after settings update", "error", err, "org_id", orgID(c))
	}

	c.JSON(http.StatusOK, gin.H{"settings": toSettingsResponse(org), "rescored": rescored})
}

// AutoDetect proposes VIP competitors and priority regions from historical
// news. With ?apply=true the proposal is persisted and the feed rescored.
func (h *SettingsHandler) AutoDetect(c *gin.Context) {
	org, err := h.orgs.GetByID(orgID(c))
	if err != nil {
		slog.Error("error fetching organization", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	competitors, err := h.competitors.ListActive(orgID(c))
	if err != nil {
		slog.Error("error listing competitors", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items, err := h.news.GetAllForOrganization(orgID(c))
	if err != nil {
		slog.Error("error loading news", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	newsByCompetitor := make(map[string][]model.NewsItem)
	for _, n := range items {
		newsByCompetitor[n.CompetitorID] = append(newsByCompetitor[n.CompetitorID], n)
	}

	result := intel.AutoDetect(competitors, newsByCompetitor)

	applied := false
	if getQueryBool("apply", c) {
		if _, err := h.orgs.UpdateSettings(orgID(c), result.VipCompetitors, result.PriorityRegions, org.Regions); err != nil {
			slog.Error("error applying auto-detect", "error", err, "org_id", orgID(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		applied = true

		if _, err := h.scorer.RescoreAll(orgID(c)); err != nil {
			slog.Error("error rescoring after auto-detect", "error", err, "org_id", orgID(c))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"vip_competitors":  result.VipCompetitors,
		"priority_regions": result.PriorityRegions,
		"breakdown":        result.Breakdown,
		"applied":          applied,
	})
}

func toSettingsResponse(org *model.Organization) SettingsResponse {
	return SettingsResponse{
		Name:            org.Name,
		Industry:        org.Industry,
		Regions:         emptyIfNil(org.Regions),
		VipCompetitors:  emptyIfNil(org.VipCompetitors),
		PriorityRegions: emptyIfNil(org.PriorityRegions),
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
