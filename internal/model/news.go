package model

import (
	"encoding/json"
	"time"
)

type NewsItem struct {
	ID             string
	CompetitorID   string
	CompetitorName string
	Title          string
	Summary        string
	SourceURL      string
	Date           time.Time
	EventType      string
	ThreatLevel    int
	ImpactScore    *int
	IsRead         bool
	IsStarred      bool
	Region         string
	Details        string
	ExtractedAt    time.Time
}

// NewsDetails is the structured extraction stored as an opaque JSON blob
// in the details column.
type NewsDetails struct {
	Location       string   `json:"location,omitempty"`
	FinancialValue string   `json:"financial_value,omitempty"`
	Partners       []string `json:"partners,omitempty"`
	Products       []string `json:"products,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// ParsedDetails decodes the details blob. Malformed JSON is treated as an
// absent field, never as an error.
func (n *NewsItem) ParsedDetails() NewsDetails {
	var d NewsDetails
	if n.Details == "" {
		return d
	}
	if err := json.Unmarshal([]byte(n.Details), &d); err != nil {
		return NewsDetails{}
	}
	return d
}
