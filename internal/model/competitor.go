package model

import "time"

const (
	CompetitorActive   = "active"
	CompetitorArchived = "archived"

	// MaxActiveCompetitors caps active competitors per organization,
	// enforced at creation time rather than by a DB constraint.
	MaxActiveCompetitors = 15
)

type Competitor struct {
	ID             string
	OrganizationID string
	Name           string
	Website        string
	Region         string
	Status         string
	Headquarters   string
	EmployeeCount  string
	Revenue        string
	FundingStatus  string
	KeyMarkets     string
	Industry       string
	Description    string
	CreatedAt      time.Time
}
