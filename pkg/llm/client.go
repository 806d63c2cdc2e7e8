package llm

import "time"

type DebriefItem struct {
	CompetitorName string
	Title          string
	Summary        string
	EventType      string
	ThreatLevel    int
	Region         string
	SourceURL      string
	Date           time.Time
}

type DebriefResult struct {
	Content   string
	ModelUsed string
}

type DebriefWriter interface {
	WriteDebrief(orgName, industry string, items []DebriefItem) (*DebriefResult, error)
}
