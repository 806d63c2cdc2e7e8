package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/ClementStand/market-analyser/internal/model"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetByID(id string) (*model.Organization, error) {
	var o model.Organization
	err := r.db.QueryRow(`
		SELECT id, name, industry, regions, vip_competitors, priority_regions, created_at
		FROM organizations
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Industry, pq.Array(&o.Regions),
		pq.Array(&o.VipCompetitors), pq.Array(&o.PriorityRegions), &o.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &o, nil
}

// UpdateSettings persists the boost lists and tracked regions. Nil slices
// clear the corresponding list.
func (r *OrganizationRepository) UpdateSettings(id string, vipCompetitors, priorityRegions, regions []string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE organizations
		SET vip_competitors = $1, priority_regions = $2, regions = $3
		WHERE id = $4
	`, pq.Array(vipCompetitors), pq.Array(priorityRegions), pq.Array(regions), id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ListWithUsers returns organizations that have at least one user profile,
// the digest recipient set.
func (r *OrganizationRepository) ListWithUsers() ([]model.Organization, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT o.id, o.name, o.industry, o.regions, o.vip_competitors,
			o.priority_regions, o.created_at
		FROM organizations o
		JOIN user_profiles u ON u.organization_id = o.id
		ORDER BY o.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var o model.Organization
		err := rows.Scan(&o.ID, &o.Name, &o.Industry, pq.Array(&o.Regions),
			pq.Array(&o.VipCompetitors), pq.Array(&o.PriorityRegions), &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}

func (r *OrganizationRepository) GetUsers(orgID string) ([]model.UserProfile, error) {
	rows, err := r.db.Query(`
		SELECT id, organization_id, email, name, created_at
		FROM user_profiles
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.UserProfile
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
