package repository

import (
	"database/sql"

	"github.com/ClementStand/market-analyser/internal/model"
)

type CompetitorRepository struct {
	db *sql.DB
}

func NewCompetitorRepository(db *sql.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

const competitorColumns = `id, organization_id, name, website, region, status,
	headquarters, employee_count, revenue, funding_status, key_markets,
	industry, description, created_at`

func scanCompetitor(row interface{ Scan(...any) error }, c *model.Competitor) error {
	return row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Website, &c.Region,
		&c.Status, &c.Headquarters, &c.EmployeeCount, &c.Revenue,
		&c.FundingStatus, &c.KeyMarkets, &c.Industry, &c.Description,
		&c.CreatedAt)
}

// Save inserts a competitor. Returns false when the organization already
// tracks a competitor with the same name.
func (r *CompetitorRepository) Save(c *model.Competitor) (bool, error) {
	if c.ID == "" {
		c.ID = model.NewID()
	}
	if c.Status == "" {
		c.Status = model.CompetitorActive
	}

	var id string
	err := r.db.QueryRow(`
		INSERT INTO competitors(id, organization_id, name, website, region, status,
			headquarters, employee_count, revenue, funding_status, key_markets,
			industry, description)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (organization_id, name) DO NOTHING
		RETURNING id
	`, c.ID, c.OrganizationID, c.Name, c.Website, c.Region, c.Status,
		c.Headquarters, c.EmployeeCount, c.Revenue, c.FundingStatus,
		c.KeyMarkets, c.Industry, c.Description).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *CompetitorRepository) GetByID(id, orgID string) (*model.Competitor, error) {
	var c model.Competitor
	err := scanCompetitor(r.db.QueryRow(`
		SELECT `+competitorColumns+`
		FROM competitors
		WHERE id = $1 AND organization_id = $2
	`, id, orgID), &c)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CompetitorRepository) ListByOrganization(orgID string) ([]model.Competitor, error) {
	rows, err := r.db.Query(`
		SELECT `+competitorColumns+`
		FROM competitors
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`, orgID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []model.Competitor
	for rows.Next() {
		var c model.Competitor
		if err := scanCompetitor(rows, &c); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return competitors, nil
}

func (r *CompetitorRepository) ListActive(orgID string) ([]model.Competitor, error) {
	rows, err := r.db.Query(`
		SELECT `+competitorColumns+`
		FROM competitors
		WHERE organization_id = $1 AND status = $2
		ORDER BY created_at ASC
	`, orgID, model.CompetitorActive)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []model.Competitor
	for rows.Next() {
		var c model.Competitor
		if err := scanCompetitor(rows, &c); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return competitors, nil
}

func (r *CompetitorRepository) CountActive(orgID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM competitors
		WHERE organization_id = $1 AND status = $2
	`, orgID, model.CompetitorActive).Scan(&count)
	return count, err
}

// Archive flips status to archived. Soft flip only, news rows stay.
func (r *CompetitorRepository) Archive(id, orgID string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE competitors SET status = $1
		WHERE id = $2 AND organization_id = $3 AND status = $4
	`, model.CompetitorArchived, id, orgID, model.CompetitorActive)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
