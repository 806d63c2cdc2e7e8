package repository

import (
	"database/sql"
	"time"

	"github.com/ClementStand/market-analyser/internal/model"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, organization_id, status, current_step, processed,
	total, error_message, email_sent, started_at, updated_at, completed_at`

func scanJob(row interface{ Scan(...any) error }, j *model.FetchJob) error {
	var completed sql.NullTime
	err := row.Scan(&j.ID, &j.OrganizationID, &j.Status, &j.CurrentStep,
		&j.Processed, &j.Total, &j.ErrorMessage, &j.EmailSent,
		&j.StartedAt, &j.UpdatedAt, &completed)
	if err != nil {
		return err
	}
	if completed.Valid {
		j.CompletedAt = &completed.Time
	}
	return nil
}

func (r *JobRepository) Create(job *model.FetchJob) error {
	if job.ID == "" {
		job.ID = model.NewID()
	}
	if job.Status == "" {
		job.Status = model.JobPending
	}

	return r.db.QueryRow(`
		INSERT INTO fetch_jobs(id, organization_id, status, current_step, processed, total)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING started_at, updated_at
	`, job.ID, job.OrganizationID, job.Status, job.CurrentStep,
		job.Processed, job.Total).Scan(&job.StartedAt, &job.UpdatedAt)
}

func (r *JobRepository) GetByID(id string) (*model.FetchJob, error) {
	var j model.FetchJob
	err := scanJob(r.db.QueryRow(`
		SELECT `+jobColumns+` FROM fetch_jobs WHERE id = $1
	`, id), &j)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &j, nil
}

// GetLatest returns the most recent job for an organization, the polling
// read behind "is my refresh done yet".
func (r *JobRepository) GetLatest(orgID string) (*model.FetchJob, error) {
	var j model.FetchJob
	err := scanJob(r.db.QueryRow(`
		SELECT `+jobColumns+` FROM fetch_jobs
		WHERE organization_id = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, orgID), &j)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &j, nil
}

// progressUpdate is the row state a worker report resolves to once merged
// with the current job.
type progressUpdate struct {
	status       string
	currentStep  string
	processed    int
	total        int
	errorMessage string
	terminal     bool
}

// mergeProgress reconciles a worker report with the stored job. Status may
// only move forward (pending -> running -> completed|error); a report
// carrying the current status updates counters only. Processed is clamped to
// total and never moves backwards, and empty step/error fields keep the
// stored values. Returns false when the transition is not allowed.
func mergeProgress(j *model.FetchJob, status, currentStep string, processed, total int, errorMessage string) (progressUpdate, bool) {
	if status != j.Status && !model.CanTransition(j.Status, status) {
		return progressUpdate{}, false
	}

	if total < j.Total {
		total = j.Total
	}
	processed = model.ClampProgress(processed, total)
	if processed < j.Processed {
		processed = j.Processed
	}
	if currentStep == "" {
		currentStep = j.CurrentStep
	}
	if errorMessage == "" {
		errorMessage = j.ErrorMessage
	}

	return progressUpdate{
		status:       status,
		currentStep:  currentStep,
		processed:    processed,
		total:        total,
		errorMessage: errorMessage,
		terminal:     status == model.JobCompleted || status == model.JobError,
	}, true
}

// UpdateProgress applies a worker progress report. Returns false when the
// job is missing or the status transition is not allowed.
func (r *JobRepository) UpdateProgress(id, status, currentStep string, processed, total int, errorMessage string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var j model.FetchJob
	err = scanJob(tx.QueryRow(`
		SELECT `+jobColumns+` FROM fetch_jobs WHERE id = $1 FOR UPDATE
	`, id), &j)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	u, ok := mergeProgress(&j, status, currentStep, processed, total, errorMessage)
	if !ok {
		return false, nil
	}

	var completedAt sql.NullTime
	if u.terminal {
		completedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	_, err = tx.Exec(`
		UPDATE fetch_jobs
		SET status = $1, current_step = $2, processed = $3, total = $4,
			error_message = $5, updated_at = now(), completed_at = $6
		WHERE id = $7
	`, u.status, u.currentStep, u.processed, u.total, u.errorMessage, completedAt, id)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// MarkEmailSent flips the completion-email guard. Returns false when the
// email was already recorded as sent, so retried jobs don't double send.
func (r *JobRepository) MarkEmailSent(id string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE fetch_jobs SET email_sent = true
		WHERE id = $1 AND email_sent = false
	`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
