package model

import "time"

type Debrief struct {
	ID             string
	OrganizationID string
	Content        string
	ItemCount      int
	GeneratedAt    time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
}
