package intel

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestImpactScore_ClampedToRange(t *testing.T) {
	events := []string{
		"Merger", "Acquisition", "M&A", "Funding Round", "Investment",
		"Major Contract", "Product Launch", "Market Expansion",
		"Partnership", "New Project", "Financial Performance",
		"Leadership Change", "Other", "Something Unheard Of", "",
	}

	for _, event := range events {
		for _, vip := range []bool{false, true} {
			for _, region := range []bool{false, true} {
				score := ImpactScore(event, vip, region)
				if score < 0 || score > 100 {
					t.Errorf("ImpactScore(%q, %v, %v) = %d, out of [0,100]", event, vip, region, score)
				}
			}
		}
	}
}

func TestImpactScore_AllBonusesStackAndClamp(t *testing.T) {
	// Acquisition: base 50 + major 40 + vip 20 + region 20 = 130, clamped.
	assert.Equal(t, 100, ImpactScore("Acquisition", true, true))
}

func TestImpactScore_VipAndRegionBonuses(t *testing.T) {
	// Product Launch base 40, +20 VIP, +20 priority region.
	assert.Equal(t, 40, ImpactScore("Product Launch", false, false))
	assert.Equal(t, 60, ImpactScore("Product Launch", true, false))
	assert.Equal(t, 60, ImpactScore("Product Launch", false, true))
	assert.Equal(t, 80, ImpactScore("Product Launch", true, true))
}

func TestImpactScore_MajorContractBonus(t *testing.T) {
	assert.Equal(t, 75, ImpactScore("Major Contract", false, false))
}

func TestImpactScore_UnknownEventFallsBack(t *testing.T) {
	assert.Equal(t, 10, ImpactScore("Trade Show Appearance", false, false))
	assert.Equal(t, 10, ImpactScore("", false, false))
}

func TestIsVipCompetitor(t *testing.T) {
	vips := []string{"Acme", " Mappedin "}

	assert.Equal(t, true, IsVipCompetitor("Acme", vips))
	assert.Equal(t, true, IsVipCompetitor("acme", []string{"ACME"}))
	assert.Equal(t, true, IsVipCompetitor("Mappedin", vips))
	assert.Equal(t, false, IsVipCompetitor("Pointr", vips))
	assert.Equal(t, false, IsVipCompetitor("Acme", nil))
}

func TestMatchesPriorityRegion(t *testing.T) {
	priority := []string{"MENA"}

	assert.Equal(t, true, MatchesPriorityRegion("MENA", priority))
	assert.Equal(t, true, MatchesPriorityRegion("mena", priority))
	assert.Equal(t, true, MatchesPriorityRegion("UAE, MENA", priority))
	assert.Equal(t, false, MatchesPriorityRegion("EUROPE", priority))
	assert.Equal(t, false, MatchesPriorityRegion("", priority))
	assert.Equal(t, false, MatchesPriorityRegion("MENA", nil))
	assert.Equal(t, false, MatchesPriorityRegion("MENA", []string{""}))
}

func TestClampThreat(t *testing.T) {
	assert.Equal(t, 2, ClampThreat(0))
	assert.Equal(t, 1, ClampThreat(-3))
	assert.Equal(t, 5, ClampThreat(9))
	assert.Equal(t, 3, ClampThreat(3))
}

func TestHighThreatThreshold(t *testing.T) {
	// The high-threat cutoff is load bearing across stats, auto-detect and
	// digests. If this changes, every call site changes meaning.
	assert.Equal(t, 4, HighThreat)
}
