package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/model"
)

type CompetitorStore interface {
	Save(c *model.Competitor) (bool, error)
	GetByID(id, orgID string) (*model.Competitor, error)
	ListByOrganization(orgID string) ([]model.Competitor, error)
	CountActive(orgID string) (int, error)
	Archive(id, orgID string) (bool, error)
}

type CompetitorHandler struct {
	repository CompetitorStore
}

func NewCompetitorHandler(repository CompetitorStore) *CompetitorHandler {
	return &CompetitorHandler{repository: repository}
}

func (h *CompetitorHandler) List(c *gin.Context) {
	competitors, err := h.repository.ListByOrganization(orgID(c))
	if err != nil {
		slog.Error("error listing competitors", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := []CompetitorResponse{}
	for _, comp := range competitors {
		res = append(res, toCompetitorResponse(comp))
	}

	c.JSON(http.StatusOK, res)
}

type createCompetitorRequest struct {
	Name          string `json:"name"`
	Website       string `json:"website"`
	Region        string `json:"region"`
	Headquarters  string `json:"headquarters"`
	EmployeeCount string `json:"employee_count"`
	Revenue       string `json:"revenue"`
	FundingStatus string `json:"funding_status"`
	KeyMarkets    string `json:"key_markets"`
	Industry      string `json:"industry"`
	Description   string `json:"description"`
}

func (h *CompetitorHandler) Create(c *gin.Context) {
	var req createCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	active, err := h.repository.CountActive(orgID(c))
	if err != nil {
		slog.Error("error counting competitors", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if active >= model.MaxActiveCompetitors {
		c.JSON(http.StatusConflict, gin.H{"error": "Active competitor limit reached"})
		return
	}

	competitor := model.Competitor{
		OrganizationID: orgID(c),
		Name:           req.Name,
		Website:        req.Website,
		Region:         req.Region,
		Status:         model.CompetitorActive,
		Headquarters:   req.Headquarters,
		EmployeeCount:  req.EmployeeCount,
		Revenue:        req.Revenue,
		FundingStatus:  req.FundingStatus,
		KeyMarkets:     req.KeyMarkets,
		Industry:       req.Industry,
		Description:    req.Description,
	}

	created, err := h.repository.Save(&competitor)
	if err != nil {
		slog.Error("error creating competitor", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "Competitor already exists"})
		return
	}

	c.JSON(http.StatusCreated, toCompetitorResponse(competitor))
}

func (h *CompetitorHandler) Get(c *gin.Context) {
	competitor, err := h.repository.GetByID(c.Param("id"), orgID(c))
	if err != nil {
		slog.Error("error fetching competitor", "error", err, "competitor_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if competitor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Competitor not found"})
		return
	}

	c.JSON(http.StatusOK, toCompetitorResponse(*competitor))
}

// Archive soft-flips status; news rows survive.
func (h *CompetitorHandler) Archive(c *gin.Context) {
	archived, err := h.repository.Archive(c.Param("id"), orgID(c))
	if err != nil {
		slog.Error("error archiving competitor", "error", err, "competitor_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !archived {
		c.JSON(http.StatusNotFound, gin.H{"error": "Competitor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": true})
}
