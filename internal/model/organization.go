package model

import "time"

type Organization struct {
	ID              string
	Name            string
	Industry        string
	Regions         []string
	VipCompetitors  []string
	PriorityRegions []string
	CreatedAt       time.Time
}

type UserProfile struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	CreatedAt      time.Time
}
