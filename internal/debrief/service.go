package debrief

import (
	"fmt"
	"time"

	"github.com/ClementStand/market-analyser/internal/intel"
	"github.com/ClementStand/market-analyser/internal/model"
	"github.com/ClementStand/market-analyser/pkg/llm"
)

const (
	// WindowDays is the default debrief lookback.
	WindowDays = 7

	// maxItems caps how many articles go to the generator.
	maxItems = 50
)

type OrganizationStore interface {
	GetByID(id string) (*model.Organization, error)
}

type NewsStore interface {
	GetWindow(orgID string, start, end time.Time) ([]model.NewsItem, error)
}

type DebriefStore interface {
	Save(d *model.Debrief) error
}

// Service produces and persists the weekly debrief. Ranking and top-article
// selection are deterministic; only the narrative comes from the LLM.
type Service struct {
	orgs     OrganizationStore
	news     NewsStore
	debriefs DebriefStore
	writer   llm.DebriefWriter
}

func New(orgs OrganizationStore, news NewsStore, debriefs DebriefStore, writer llm.DebriefWriter) *Service {
	return &Service{orgs: orgs, news: news, debriefs: debriefs, writer: writer}
}

// Generate builds the debrief for the trailing window. Returns (nil, nil)
// when there is nothing to summarize.
func (s *Service) Generate(orgID string) (*model.Debrief, error) {
	org, err := s.orgs.GetByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("loading organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("organization %s not found", orgID)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -WindowDays)

	items, err := s.news.GetWindow(orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading news window: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	_, ranked := intel.TopArticles(items)
	if len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}

	inputs := make([]llm.DebriefItem, len(ranked))
	for i, n := range ranked {
		inputs[i] = llm.DebriefItem{
			CompetitorName: n.CompetitorName,
			Title:          n.Title,
			Summary:        n.Summary,
			EventType:      n.EventType,
			ThreatLevel:    n.ThreatLevel,
			Region:         n.Region,
			SourceURL:      n.SourceURL,
			Date:           n.Date,
		}
	}

	result, err := s.writer.WriteDebrief(org.Name, org.Industry, inputs)
	if err != nil {
		return nil, fmt.Errorf("generating debrief: %w", err)
	}

	d := &model.Debrief{
		OrganizationID: orgID,
		Content:        result.Content,
		ItemCount:      len(items),
		PeriodStart:    start,
		PeriodEnd:      end,
	}

	if err := s.debriefs.Save(d); err != nil {
		return nil, fmt.Errorf("saving debrief: %w", err)
	}

	return d, nil
}
