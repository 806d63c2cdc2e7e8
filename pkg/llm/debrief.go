package llm

import (
	"fmt"
	"strings"
)

const maxSummaryChars = 500

const debriefPromptTemplate = `You are a strategic intelligence analyst for %s, a company in the %s industry.

Generate a comprehensive weekly intelligence debrief based on competitor activities.

Threat levels run 1 (routine) to 5 (major threat).

Structure your debrief with:
1. **Executive Summary** (2-3 sentences on key trends)
2. **High-Priority Threats** (threat level 4-5 items)
3. **Regional Analysis**
4. **Competitor Movements** (grouped by company)
5. **Strategic Recommendations** (actionable insights)

Use clear markdown formatting with headers, bullet points, and emphasis.
Be concise but actionable.`

func buildDebriefPrompt(orgName, industry string) string {
	if orgName == "" {
		orgName = "the organization"
	}
	if industry == "" {
		industry = "technology"
	}
	return fmt.Sprintf(debriefPromptTemplate, orgName, industry)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func formatDebriefItems(items []DebriefItem) string {
	var sb strings.Builder
	for i, item := range items {
		region := item.Region
		if region == "" {
			region = "Global"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, item.CompetitorName, item.Title))
		sb.WriteString(fmt.Sprintf("   Date: %s\n", item.Date.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("   Threat Level: %d/5\n", item.ThreatLevel))
		sb.WriteString(fmt.Sprintf("   Type: %s\n", item.EventType))
		sb.WriteString(fmt.Sprintf("   Region: %s\n", region))
		sb.WriteString(fmt.Sprintf("   Summary: %s\n", truncate(item.Summary, maxSummaryChars)))
		sb.WriteString(fmt.Sprintf("   Source: %s\n\n", item.SourceURL))
	}
	return sb.String()
}

func buildDebriefRequest(items []DebriefItem) string {
	return fmt.Sprintf(
		"Analyze these %d intelligence items from the past week and generate a strategic debrief:\n\n%s\nGenerate a comprehensive weekly intelligence debrief following the structure outlined.",
		len(items), formatDebriefItems(items))
}
