package intel

import "strings"

// canonicalRegion maps display aliases onto canonical region labels.
var canonicalRegion = map[string]string{
	"middle east":   "MENA",
	"mena":          "MENA",
	"gulf":          "MENA",
	"europe":        "EUROPE",
	"eu":            "EUROPE",
	"north america": "NORTH_AMERICA",
	"north_america": "NORTH_AMERICA",
	"apac":          "APAC",
	"asia pacific":  "APAC",
	"asia":          "APAC",
	"global":        "GLOBAL",
}

// regionKeywords expands a canonical region into substrings that may appear
// in free-text region fields. Regions without an entry fall back to exact
// matching.
var regionKeywords = map[string][]string{
	"MENA": {
		"mena", "middle east", "uae", "dubai", "abu dhabi", "saudi",
		"ksa", "qatar", "bahrain", "kuwait", "oman", "egypt",
	},
	"EUROPE": {
		"europe", "united kingdom", "uk", "germany", "france", "spain",
		"italy", "netherlands", "nordic", "switzerland",
	},
	"NORTH_AMERICA": {
		"north america", "united states", "usa", "u.s.", "canada", "mexico",
	},
	"APAC": {
		"apac", "asia", "australia", "singapore", "japan", "korea",
		"india", "china", "hong kong",
	},
}

// NormalizeRegion resolves aliases such as "Middle East" to their canonical
// label. Unknown input is returned unchanged.
func NormalizeRegion(region string) string {
	if canonical, ok := canonicalRegion[strings.ToLower(strings.TrimSpace(region))]; ok {
		return canonical
	}
	return strings.TrimSpace(region)
}

// RegionKeywords returns the keyword expansion for a requested region, or
// nil when only exact matching applies.
func RegionKeywords(region string) []string {
	return regionKeywords[NormalizeRegion(region)]
}
