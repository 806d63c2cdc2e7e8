package repository

import (
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ClementStand/market-analyser/internal/intel"
	"github.com/ClementStand/market-analyser/internal/model"
)

// placeholderURLMarker flags seeded/test rows that must never surface in a
// feed.
const placeholderURLMarker = "%example.com%"

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// FeedFilter carries the optional feed parameters. Zero values mean "not
// set".
type FeedFilter struct {
	CompetitorID string
	EventType    string
	MinThreat    int
	UnreadOnly   bool
	StarredOnly  bool
	Region       string
	Location     string
	Limit        int
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const newsColumns = `n.id, n.competitor_id, c.name, n.title, n.summary,
	n.source_url, n.date, n.event_type, n.threat_level, n.impact_score,
	n.is_read, n.is_starred, n.region, n.details, n.extracted_at`

// scopedFeed is the base query every read goes through: caller's
// organization only, active competitors only, placeholder rows excluded.
func scopedFeed(orgID string) sq.SelectBuilder {
	return psql.Select(newsColumns).
		From("competitor_news n").
		Join("competitors c ON c.id = n.competitor_id").
		Where(sq.Eq{"c.organization_id": orgID}).
		Where(sq.Eq{"c.status": model.CompetitorActive}).
		Where(sq.NotILike{"n.source_url": placeholderURLMarker})
}

// GetFeed returns the filtered, date-descending feed capped at f.Limit.
func (r *NewsRepository) GetFeed(orgID string, f FeedFilter) ([]model.NewsItem, error) {
	q := scopedFeed(orgID).OrderBy("n.date DESC")

	if f.CompetitorID != "" {
		q = q.Where(sq.Eq{"n.competitor_id": f.CompetitorID})
	}
	if f.EventType != "" {
		q = q.Where(sq.Eq{"n.event_type": f.EventType})
	}
	if f.MinThreat > 0 {
		q = q.Where(sq.GtOrEq{"n.threat_level": f.MinThreat})
	}
	if f.UnreadOnly {
		q = q.Where(sq.Eq{"n.is_read": false})
	}
	if f.StarredOnly {
		q = q.Where(sq.Eq{"n.is_starred": true})
	}
	if f.Region != "" {
		if keywords := intel.RegionKeywords(f.Region); len(keywords) > 0 {
			or := sq.Or{}
			for _, kw := range keywords {
				or = append(or, sq.ILike{"n.region": "%" + kw + "%"})
			}
			q = q.Where(or)
		} else {
			q = q.Where(sq.Expr("LOWER(n.region) = LOWER(?)", f.Region))
		}
	}
	if f.Location != "" {
		q = q.Where(sq.ILike{"n.details": "%" + f.Location + "%"})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

// GetWindow returns all feed-visible items dated within [start, end] for
// debrief and digest ranking.
func (r *NewsRepository) GetWindow(orgID string, start, end time.Time) ([]model.NewsItem, error) {
	q := scopedFeed(orgID).
		Where(sq.GtOrEq{"n.date": start}).
		Where(sq.LtOrEq{"n.date": end}).
		OrderBy("n.date DESC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

func scanNewsRows(rows *sql.Rows) ([]model.NewsItem, error) {
	var items []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		var impact sql.NullInt64
		err := rows.Scan(&n.ID, &n.CompetitorID, &n.CompetitorName, &n.Title,
			&n.Summary, &n.SourceURL, &n.Date, &n.EventType, &n.ThreatLevel,
			&impact, &n.IsRead, &n.IsStarred, &n.Region, &n.Details,
			&n.ExtractedAt)
		if err != nil {
			return nil, err
		}
		if impact.Valid {
			v := int(impact.Int64)
			n.ImpactScore = &v
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Save inserts an enriched news item. Empty or placeholder source URLs and
// duplicates (same URL, or same title under the same competitor) are
// rejected without error, mirroring the worker's write-side guards.
func (r *NewsRepository) Save(n *model.NewsItem) (bool, error) {
	if n.SourceURL == "" || strings.Contains(strings.ToLower(n.SourceURL), "example.com") {
		return false, nil
	}

	var exists int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM competitor_news
		WHERE source_url = $1 OR (competitor_id = $2 AND title = $3)
	`, n.SourceURL, n.CompetitorID, n.Title).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists > 0 {
		return false, nil
	}

	if n.ID == "" {
		n.ID = model.NewID()
	}
	n.ThreatLevel = intel.ClampThreat(n.ThreatLevel)

	var impact sql.NullInt64
	if n.ImpactScore != nil {
		impact = sql.NullInt64{Int64: int64(*n.ImpactScore), Valid: true}
	}

	_, err = r.db.Exec(`
		INSERT INTO competitor_news(id, competitor_id, title, summary, source_url,
			date, event_type, threat_level, impact_score, is_read, is_starred,
			region, details, extracted_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, false, false, $10, $11, $12)
	`, n.ID, n.CompetitorID, n.Title, n.Summary, n.SourceURL, n.Date,
		n.EventType, n.ThreatLevel, impact, n.Region, n.Details, n.ExtractedAt)
	if err != nil {
		return false, err
	}

	return true, nil
}

// UpdateFlags sets read/starred state. Org-scoped through the competitor
// join so a foreign item id is a no-op.
func (r *NewsRepository) UpdateFlags(id, orgID string, isRead, isStarred *bool) (bool, error) {
	q := psql.Update("competitor_news n").
		Where(sq.Eq{"n.id": id}).
		Where(sq.Expr(`n.competitor_id IN (SELECT id FROM competitors WHERE organization_id = ?)`, orgID))

	if isRead != nil {
		q = q.Set("is_read", *isRead)
	}
	if isStarred != nil {
		q = q.Set("is_starred", *isStarred)
	}
	if isRead == nil && isStarred == nil {
		return false, nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return false, err
	}

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// GetUnscored returns feed-visible items still awaiting an impact score.
func (r *NewsRepository) GetUnscored(orgID string) ([]model.NewsItem, error) {
	q := scopedFeed(orgID).Where(sq.Eq{"n.impact_score": nil})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

// GetAllForOrganization returns every feed-visible item, used for full
// rescoring after boost-list changes.
func (r *NewsRepository) GetAllForOrganization(orgID string) ([]model.NewsItem, error) {
	q := scopedFeed(orgID)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

func (r *NewsRepository) UpdateScore(id string, impactScore int) error {
	_, err := r.db.Exec(`
		UPDATE competitor_news SET impact_score = $1 WHERE id = $2
	`, impactScore, id)
	return err
}

// Stats are the dashboard counters for one organization.
type Stats struct {
	TotalItems        int
	HighThreat        int
	Unread            int
	Starred           int
	ActiveCompetitors int
}

func (r *NewsRepository) GetStats(orgID string) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE n.threat_level >= $2),
			COUNT(*) FILTER (WHERE NOT n.is_read),
			COUNT(*) FILTER (WHERE n.is_starred)
		FROM competitor_news n
		JOIN competitors c ON c.id = n.competitor_id
		WHERE c.organization_id = $1 AND c.status = $3
			AND n.source_url NOT ILIKE $4
	`, orgID, intel.HighThreat, model.CompetitorActive, placeholderURLMarker).
		Scan(&s.TotalItems, &s.HighThreat, &s.Unread, &s.Starred)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM competitors
		WHERE organization_id = $1 AND status = $2
	`, orgID, model.CompetitorActive).Scan(&s.ActiveCompetitors)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
