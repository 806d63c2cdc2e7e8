package scorer

import (
	"fmt"
	"log/slog"

	"github.com/ClementStand/market-analyser/internal/intel"
	"github.com/ClementStand/market-analyser/internal/model"
)

type NewsStore interface {
	GetAllForOrganization(orgID string) ([]model.NewsItem, error)
	GetUnscored(orgID string) ([]model.NewsItem, error)
	UpdateScore(id string, impactScore int) error
}

type OrganizationStore interface {
	GetByID(id string) (*model.Organization, error)
}

// Service persists impact scores. The scoring itself is pure; this service
// resolves the organization's boost lists and writes the results back.
type Service struct {
	orgs OrganizationStore
	news NewsStore
}

func New(orgs OrganizationStore, news NewsStore) *Service {
	return &Service{orgs: orgs, news: news}
}

// ScoreNew scores items that have no impact score yet, typically right
// after an enrichment run completes.
func (s *Service) ScoreNew(orgID string) (int, error) {
	return s.score(orgID, func(orgID string) ([]model.NewsItem, error) {
		return s.news.GetUnscored(orgID)
	})
}

// RescoreAll recomputes every item's score, used after the VIP or priority
// region lists change.
func (s *Service) RescoreAll(orgID string) (int, error) {
	return s.score(orgID, func(orgID string) ([]model.NewsItem, error) {
		return s.news.GetAllForOrganization(orgID)
	})
}

func (s *Service) score(orgID string, fetch func(string) ([]model.NewsItem, error)) (int, error) {
	org, err := s.orgs.GetByID(orgID)
	if err != nil {
		return 0, fmt.Errorf("loading organization: %w", err)
	}
	if org == nil {
		return 0, fmt.Errorf("organization %s not found", orgID)
	}

	items, err := fetch(orgID)
	if err != nil {
		return 0, fmt.Errorf("loading news: %w", err)
	}

	scored := 0
	for _, n := range items {
		isVip := intel.IsVipCompetitor(n.CompetitorName, org.VipCompetitors)
		isPriority := intel.MatchesPriorityRegion(n.Region, org.PriorityRegions)
		score := intel.ImpactScore(n.EventType, isVip, isPriority)

		if n.ImpactScore != nil && *n.ImpactScore == score {
			continue
		}

		if err := s.news.UpdateScore(n.ID, score); err != nil {
			slog.Error("error persisting impact score", "error", err, "news_id", n.ID)
			continue
		}
		scored++
	}

	return scored, nil
}
