package intel

import (
	"sort"

	"github.com/ClementStand/market-analyser/internal/model"
)

// TopArticleCount is how many articles a debrief or digest highlights.
const TopArticleCount = 3

// SortByPriority orders news items by impact score desc, then threat level
// desc, then date desc. Each key only breaks ties in the previous one.
// Missing impact scores sort as zero. The sort is stable, so an already
// sorted list re-sorts to the identical sequence.
func SortByPriority(items []model.NewsItem) []model.NewsItem {
	out := append([]model.NewsItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ai, bi := impactOrZero(a), impactOrZero(b); ai != bi {
			return ai > bi
		}
		if a.ThreatLevel != b.ThreatLevel {
			return a.ThreatLevel > b.ThreatLevel
		}
		return a.Date.After(b.Date)
	})
	return out
}

// TopArticles ranks a window of items and returns the bounded top slice
// alongside the full ordered list.
func TopArticles(items []model.NewsItem) (top, all []model.NewsItem) {
	all = SortByPriority(items)
	n := TopArticleCount
	if len(all) < n {
		n = len(all)
	}
	return all[:n], all
}

func impactOrZero(n model.NewsItem) int {
	if n.ImpactScore == nil {
		return 0
	}
	return *n.ImpactScore
}
