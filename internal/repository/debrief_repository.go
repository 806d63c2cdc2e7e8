package repository

import (
	"database/sql"

	"github.com/ClementStand/market-analyser/internal/model"
)

type DebriefRepository struct {
	db *sql.DB
}

func NewDebriefRepository(db *sql.DB) *DebriefRepository {
	return &DebriefRepository{db: db}
}

func (r *DebriefRepository) Save(d *model.Debrief) error {
	if d.ID == "" {
		d.ID = model.NewID()
	}

	return r.db.QueryRow(`
		INSERT INTO debriefs(id, organization_id, content, item_count, period_start, period_end)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING generated_at
	`, d.ID, d.OrganizationID, d.Content, d.ItemCount,
		d.PeriodStart, d.PeriodEnd).Scan(&d.GeneratedAt)
}

func (r *DebriefRepository) GetLatest(orgID string) (*model.Debrief, error) {
	var d model.Debrief
	err := r.db.QueryRow(`
		SELECT id, organization_id, content, item_count, generated_at, period_start, period_end
		FROM debriefs
		WHERE organization_id = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`, orgID).Scan(&d.ID, &d.OrganizationID, &d.Content, &d.ItemCount,
		&d.GeneratedAt, &d.PeriodStart, &d.PeriodEnd)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *DebriefRepository) List(orgID string, limit, offset int) ([]model.Debrief, error) {
	rows, err := r.db.Query(`
		SELECT id, organization_id, content, item_count, generated_at, period_start, period_end
		FROM debriefs
		WHERE organization_id = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debriefs []model.Debrief
	for rows.Next() {
		var d model.Debrief
		err := rows.Scan(&d.ID, &d.OrganizationID, &d.Content, &d.ItemCount,
			&d.GeneratedAt, &d.PeriodStart, &d.PeriodEnd)
		if err != nil {
			return nil, err
		}
		debriefs = append(debriefs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return debriefs, nil
}

func (r *DebriefRepository) Count(orgID string) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM debriefs WHERE organization_id = $1
	`, orgID).Scan(&total)
	return total, err
}
