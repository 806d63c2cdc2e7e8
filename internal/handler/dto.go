package handler

import (
	"time"

	"github.com/ClementStand/market-analyser/internal/model"
)

type CompetitorResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Website       string `json:"website"`
	Region        string `json:"region"`
	Status        string `json:"status"`
	Headquarters  string `json:"headquarters"`
	EmployeeCount string `json:"employee_count"`
	Revenue       string `json:"revenue"`
	FundingStatus string `json:"funding_status"`
	KeyMarkets    string `json:"key_markets"`
	Industry      string `json:"industry"`
	Description   string `json:"description"`
}

type NewsResponse struct {
	ID             string            `json:"id"`
	CompetitorID   string            `json:"competitor_id"`
	CompetitorName string            `json:"competitor_name"`
	Title          string            `json:"title"`
	Summary        string            `json:"summary"`
	SourceURL      string            `json:"source_url"`
	Date           string            `json:"date"`
	EventType      string            `json:"event_type"`
	ThreatLevel    int               `json:"threat_level"`
	ImpactScore    *int              `json:"impact_score"`
	IsRead         bool              `json:"is_read"`
	IsStarred      bool              `json:"is_starred"`
	Region         string            `json:"region"`
	Details        model.NewsDetails `json:"details"`
}

type FeedResponse struct {
	Articles []NewsResponse `json:"articles"`
	Count    int            `json:"count"`
}

type StatsResponse struct {
	TotalItems        int `json:"total_items"`
	HighThreat        int `json:"high_threat"`
	Unread            int `json:"unread"`
	Starred           int `json:"starred"`
	ActiveCompetitors int `json:"active_competitors"`
}

type SettingsResponse struct {
	Name            string   `json:"name"`
	Industry        string   `json:"industry"`
	Regions         []string `json:"regions"`
	VipCompetitors  []string `json:"vip_competitors"`
	PriorityRegions []string `json:"priority_regions"`
}

type JobResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	CurrentStep  string  `json:"current_step"`
	Processed    int     `json:"processed"`
	Total        int     `json:"total"`
	ErrorMessage string  `json:"error_message,omitempty"`
	StartedAt    string  `json:"started_at"`
	UpdatedAt    string  `json:"updated_at"`
	CompletedAt  *string `json:"completed_at,omitempty"`
}

type DebriefResponse struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	ItemCount   int    `json:"item_count"`
	GeneratedAt string `json:"generated_at"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type DebriefsResponse struct {
	Latest  *DebriefResponse  `json:"latest"`
	History []DebriefResponse `json:"history"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

func toCompetitorResponse(c model.Competitor) CompetitorResponse {
	return CompetitorResponse{
		ID:            c.ID,
		Name:          c.Name,
		Website:       c.Website,
		Region:        c.Region,
		Status:        c.Status,
		Headquarters:  c.Headquarters,
		EmployeeCount: c.EmployeeCount,
		Revenue:       c.Revenue,
		FundingStatus: c.FundingStatus,
		KeyMarkets:    c.KeyMarkets,
		Industry:      c.Industry,
		Description:   c.Description,
	}
}

func toNewsResponse(n model.NewsItem) NewsResponse {
	return NewsResponse{
		ID:             n.ID,
		CompetitorID:   n.CompetitorID,
		CompetitorName: n.CompetitorName,
		Title:          n.Title,
		Summary:        n.Summary,
		SourceURL:      n.SourceURL,
		Date:           n.Date.Format(time.RFC3339),
		EventType:      n.EventType,
		ThreatLevel:    n.ThreatLevel,
		ImpactScore:    n.ImpactScore,
		IsRead:         n.IsRead,
		IsStarred:      n.IsStarred,
		Region:         n.Region,
		Details:        n.ParsedDetails(),
	}
}

func toJobResponse(j model.FetchJob) JobResponse {
	res := JobResponse{
		ID:           j.ID,
		Status:       j.Status,
		CurrentStep:  j.CurrentStep,
		Processed:    j.Processed,
		Total:        j.Total,
		ErrorMessage: j.ErrorMessage,
		StartedAt:    j.StartedAt.Format(time.RFC3339),
		UpdatedAt:    j.UpdatedAt.Format(time.RFC3339),
	}
	if j.CompletedAt != nil {
		completed := j.CompletedAt.Format(time.RFC3339)
		res.CompletedAt = &completed
	}
	return res
}

func toDebriefResponse(d model.Debrief) DebriefResponse {
	return DebriefResponse{
		ID:          d.ID,
		Content:     d.Content,
		ItemCount:   d.ItemCount,
		GeneratedAt: d.GeneratedAt.Format(time.RFC3339),
		PeriodStart: d.PeriodStart.Format(time.RFC3339),
		PeriodEnd:   d.PeriodEnd.Format(time.RFC3339),
	}
}
