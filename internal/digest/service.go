package digest

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/ClementStand/market-analyser/internal/intel"
	"github.com/ClementStand/market-analyser/internal/model"
	"github.com/ClementStand/market-analyser/pkg/mailer"
)

// WindowDays is the lookback for digest article selection.
const WindowDays = 7

type OrganizationStore interface {
	ListWithUsers() ([]model.Organization, error)
	GetUsers(orgID string) ([]model.UserProfile, error)
}

type NewsStore interface {
	GetWindow(orgID string, start, end time.Time) ([]model.NewsItem, error)
}

// Service sends the periodic top-articles email. One failed recipient never
// aborts the rest of the batch.
type Service struct {
	orgs   OrganizationStore
	news   NewsStore
	sender mailer.Sender
	appURL string
}

func New(orgs OrganizationStore, news NewsStore, sender mailer.Sender, appURL string) *Service {
	return &Service{orgs: orgs, news: news, sender: sender, appURL: appURL}
}

// Run sends a digest to every user of every organization that has at least
// one user and at least one recent article. Returns the number of emails
// sent.
func (s *Service) Run() (int, error) {
	orgs, err := s.orgs.ListWithUsers()
	if err != nil {
		return 0, fmt.Errorf("listing organizations: %w", err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -WindowDays)

	sent := 0
	for _, org := range orgs {
		items, err := s.news.GetWindow(org.ID, start, end)
		if err != nil {
			slog.Error("error fetching digest window", "error", err, "org_id", org.ID)
			continue
		}

		top, _ := intel.TopArticles(items)
		if len(top) == 0 {
			slog.Info("no recent articles, skipping digest", "org_id", org.ID)
			continue
		}

		users, err := s.orgs.GetUsers(org.ID)
		if err != nil {
			slog.Error("error fetching digest recipients", "error", err, "org_id", org.ID)
			continue
		}

		subject := fmt.Sprintf("Weekly Intelligence Digest - %s", org.Name)
		body := buildDigestHTML(org.Name, top, s.appURL)

		for _, u := range users {
			if err := s.sender.Send(u.Email, subject, body); err != nil {
				slog.Error("error sending digest email", "error", err, "org_id", org.ID, "email", u.Email)
				continue
			}
			sent++
		}
	}

	return sent, nil
}

func buildDigestHTML(orgName string, top []model.NewsItem, appURL string) string {
	var sb strings.Builder
	sb.WriteString(`<div style="font-family: -apple-system, sans-serif; max-width: 560px; margin: 0 auto; padding: 32px;">`)
	sb.WriteString(fmt.Sprintf(`<h2 style="color: #0f172a;">Top competitor news for %s</h2>`, html.EscapeString(orgName)))

	for _, n := range top {
		sb.WriteString(`<div style="margin-bottom: 20px;">`)
		sb.WriteString(fmt.Sprintf(`<a href="%s" style="color: #0891b2; font-weight: 600;">%s</a>`,
			html.EscapeString(n.SourceURL), html.EscapeString(n.Title)))
		sb.WriteString(fmt.Sprintf(`<p style="color: #475569; margin: 6px 0;">%s</p>`,
			html.EscapeString(n.Summary)))
		sb.WriteString(fmt.Sprintf(`<p style="color: #94a3b8; font-size: 12px;">%s &middot; %s &middot; threat %d/5</p>`,
			html.EscapeString(n.CompetitorName), html.EscapeString(n.EventType), n.ThreatLevel))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(fmt.Sprintf(`<a href="%s" style="display: inline-block; margin-top: 12px; padding: 12px 24px; background-color: #0891b2; color: white; text-decoration: none; border-radius: 8px;">View Dashboard</a>`,
		html.EscapeString(appURL)))
	sb.WriteString(`</div>`)
	return sb.String()
}
