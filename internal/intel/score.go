package intel

import "strings"

// Threat levels run 1 (routine) to 5 (major threat). Items at or above
// HighThreat count as high threat everywhere: stats, auto-detect, digests
// and ranking.
const (
	MinThreat     = 1
	MaxThreat     = 5
	HighThreat    = 4
	DefaultThreat = 2
)

const (
	minImpact = 0
	maxImpact = 100

	unknownEventBase = 10

	majorEventBonus     = 40
	majorContractBonus  = 30
	vipBonus            = 20
	priorityRegionBonus = 20
)

// eventBase maps event types to their base significance score (10-50).
// Event types come from the enrichment analysis vocabulary.
var eventBase = map[string]int{
	"Merger":                50,
	"Acquisition":           50,
	"M&A":                   50,
	"Funding Round":         45,
	"Investment":            45,
	"Major Contract":        45,
	"Product Launch":        40,
	"Market Expansion":      35,
	"Partnership":           30,
	"New Project":           30,
	"Financial Performance": 25,
	"Leadership Change":     20,
	"Other":                 10,
}

// majorEvents get the major-event bonus on top of their base score.
var majorEvents = map[string]bool{
	"Merger":        true,
	"Acquisition":   true,
	"M&A":           true,
	"Funding Round": true,
	"Investment":    true,
}

const contractEvent = "Major Contract"

// ImpactScore computes the 0-100 impact score for a news item. It is pure:
// the organization's boost lists are resolved by the caller and passed as
// flags, and the caller persists the result.
func ImpactScore(eventType string, isVip, isPriorityRegion bool) int {
	score, ok := eventBase[eventType]
	if !ok {
		score = unknownEventBase
	}

	if majorEvents[eventType] {
		score += majorEventBonus
	}
	if eventType == contractEvent {
		score += majorContractBonus
	}
	if isVip {
		score += vipBonus
	}
	if isPriorityRegion {
		score += priorityRegionBonus
	}

	if score < minImpact {
		return minImpact
	}
	if score > maxImpact {
		return maxImpact
	}
	return score
}

// IsVipCompetitor reports whether name is on the organization's VIP list.
func IsVipCompetitor(name string, vips []string) bool {
	for _, v := range vips {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return true
		}
	}
	return false
}

// MatchesPriorityRegion reports whether an item's region matches any of the
// organization's priority regions, by case-insensitive substring in either
// direction or exact equality. Empty regions and empty lists contribute no
// match.
func MatchesPriorityRegion(region string, priorityRegions []string) bool {
	r := strings.ToLower(strings.TrimSpace(region))
	if r == "" {
		return false
	}
	for _, p := range priorityRegions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if p == r || strings.Contains(r, p) || strings.Contains(p, r) {
			return true
		}
	}
	return false
}

// ClampThreat forces a threat level into the documented 1-5 range, falling
// back to DefaultThreat when the input is zero.
func ClampThreat(level int) int {
	if level == 0 {
		return DefaultThreat
	}
	if level < MinThreat {
		return MinThreat
	}
	if level > MaxThreat {
		return MaxThreat
	}
	return level
}
