package intel

import (
	"sort"

	"github.com/ClementStand/market-analyser/internal/model"
)

const (
	highThreatWeight = 3
	baselineWeight   = 1
	highImpactWeight = 2

	// highImpactFloor marks an article as high impact for ranking purposes.
	highImpactFloor = 50

	// regionThreatFloor is the minimum threat level for an article to count
	// towards region detection.
	regionThreatFloor = 3

	// autoDetectLimit is how many VIP competitors and priority regions are
	// proposed.
	autoDetectLimit = 2
)

// CompetitorScore is the per-competitor breakdown behind an auto-detect
// proposal, returned for transparency.
type CompetitorScore struct {
	CompetitorID string `json:"competitor_id"`
	Name         string `json:"name"`
	Articles     int    `json:"articles"`
	HighThreat   int    `json:"high_threat"`
	HighImpact   int    `json:"high_impact"`
	Score        int    `json:"score"`
}

// AutoDetectResult is a proposal only; callers persist the selection onto
// the organization record.
type AutoDetectResult struct {
	VipCompetitors  []string          `json:"vip_competitors"`
	PriorityRegions []string          `json:"priority_regions"`
	Breakdown       []CompetitorScore `json:"breakdown"`
}

// AutoDetect proposes VIP competitors and priority regions from historical
// news. Each active competitor scores 3 per high-threat article, 1 per
// remaining article and 2 per article with impact >= 50; the top two with at
// least one article become VIP candidates. Regions are counted by exact
// string over items with threat >= 3, top two. Both rankings are stable:
// ties keep input order, so re-running over the same input is deterministic.
func AutoDetect(competitors []model.Competitor, newsByCompetitor map[string][]model.NewsItem) AutoDetectResult {
	var breakdown []CompetitorScore
	for _, c := range competitors {
		if c.Status != model.CompetitorActive {
			continue
		}
		items := newsByCompetitor[c.ID]
		s := CompetitorScore{
			CompetitorID: c.ID,
			Name:         c.Name,
			Articles:     len(items),
		}
		for _, n := range items {
			if n.ThreatLevel >= HighThreat {
				s.HighThreat++
			}
			if n.ImpactScore != nil && *n.ImpactScore >= highImpactFloor {
				s.HighImpact++
			}
		}
		s.Score = highThreatWeight*s.HighThreat +
			baselineWeight*(s.Articles-s.HighThreat) +
			highImpactWeight*s.HighImpact
		breakdown = append(breakdown, s)
	}

	ranked := append([]CompetitorScore(nil), breakdown...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	var vips []string
	for _, s := range ranked {
		if len(vips) == autoDetectLimit {
			break
		}
		if s.Articles == 0 {
			continue
		}
		vips = append(vips, s.Name)
	}

	return AutoDetectResult{
		VipCompetitors:  vips,
		PriorityRegions: detectRegions(competitors, newsByCompetitor),
		Breakdown:       breakdown,
	}
}

func detectRegions(competitors []model.Competitor, newsByCompetitor map[string][]model.NewsItem) []string {
	counts := make(map[string]int)
	var seen []string
	for _, c := range competitors {
		if c.Status != model.CompetitorActive {
			continue
		}
		for _, n := range newsByCompetitor[c.ID] {
			if n.ThreatLevel < regionThreatFloor || n.Region == "" {
				continue
			}
			if _, ok := counts[n.Region]; !ok {
				seen = append(seen, n.Region)
			}
			counts[n.Region]++
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return counts[seen[i]] > counts[seen[j]]
	})

	if len(seen) > autoDetectLimit {
		seen = seen[:autoDetectLimit]
	}
	return seen
}
