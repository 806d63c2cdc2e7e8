package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ClementStand/market-analyser/internal/model"
	"github.com/ClementStand/market-analyser/pkg/mailer"
)

type JobStore interface {
	Create(job *model.FetchJob) error
	GetByID(id string) (*model.FetchJob, error)
	GetLatest(orgID string) (*model.FetchJob, error)
	UpdateProgress(id, status, currentStep string, processed, total int, errorMessage string) (bool, error)
	MarkEmailSent(id string) (bool, error)
}

type UserStore interface {
	GetUsers(orgID string) ([]model.UserProfile, error)
}

// NewScorer scores freshly enriched items once a job completes.
type NewScorer interface {
	ScoreNew(orgID string) (int, error)
}

// QueuePayload is what gets pushed for the dispatcher to pick up.
type QueuePayload struct {
	JobID         string   `json:"job_id"`
	OrgID         string   `json:"org_id"`
	CompetitorIDs []string `json:"competitor_ids"`
}

type JobHandler struct {
	jobs        JobStore
	competitors ActiveCompetitorStore
	users       UserStore
	scorer      NewScorer
	sender      mailer.Sender
	appURL      string
	push        func(payload string) error
}

func NewJobHandler(jobs JobStore, competitors ActiveCompetitorStore, users UserStore,
	scorer NewScorer, sender mailer.Sender, appURL string, push func(payload string) error) *JobHandler {
	return &JobHandler{
		jobs:        jobs,
		competitors: competitors,
		users:       users,
		scorer:      scorer,
		sender:      sender,
		appURL:      appURL,
		push:        push,
	}
}

// Create queues a news refresh across the organization's active competitors.
func (h *JobHandler) Create(c *gin.Context) {
	competitors, err := h.competitors.ListActive(orgID(c))
	if err != nil {
		slog.Error("error listing competitors", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if len(competitors) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active competitors to refresh"})
		return
	}

	job := model.FetchJob{
		OrganizationID: orgID(c),
		Status:         model.JobPending,
		CurrentStep:    "queued",
		Total:          len(competitors),
	}

	if err := h.jobs.Create(&job); err != nil {
		slog.Error("error creating job", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	ids := make([]string, len(competitors))
	for i, comp := range competitors {
		ids[i] = comp.ID
	}

	payload, err := json.Marshal(QueuePayload{JobID: job.ID, OrgID: orgID(c), CompetitorIDs: ids})
	if err != nil {
		slog.Error("error encoding queue payload", "error", err, "job_id", job.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if err := h.push(string(payload)); err != nil {
		slog.Error("error queueing job", "error", err, "job_id", job.ID)
		if _, uerr := h.jobs.UpdateProgress(job.ID, model.JobError, "", 0, 0, "Failed to queue job"); uerr != nil {
			slog.Error("error marking job failed", "error", uerr, "job_id", job.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue job"})
		return
	}

	c.JSON(http.StatusAccepted, toJobResponse(job))
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Param("id"))
	if err != nil {
		slog.Error("error fetching job", "error", err, "job_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// A job belonging to another organization looks like a missing one.
	if job == nil || job.OrganizationID != orgID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, toJobResponse(*job))
}

// GetLatest serves the most recent job, the polling endpoint behind the
// refresh progress bar.
func (h *JobHandler) GetLatest(c *gin.Context) {
	job, err := h.jobs.GetLatest(orgID(c))
	if err != nil {
		slog.Error("error fetching latest job", "error", err, "org_id", orgID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No jobs found"})
		return
	}

	c.JSON(http.StatusOK, toJobResponse(*job))
}

type progressRequest struct {
	Status       string `json:"status"`
	CurrentStep  string `json:"current_step"`
	Processed    int    `json:"processed"`
	Total        int    `json:"total"`
	ErrorMessage string `json:"error_message"`
}

func validJobStatus(status string) bool {
	switch status {
	case model.JobPending, model.JobRunning, model.JobCompleted, model.JobError:
		return true
	}
	return false
}

// UpdateProgress is the worker callback. On completion it scores the new
// items and sends the notification email, once.
func (h *JobHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !validJobStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	updated, err := h.jobs.UpdateProgress(c.Param("id"), req.Status, req.CurrentStep,
		req.Processed, req.Total, req.ErrorMessage)
	if err != nil {
		slog.Error("error updating job progress", "error", err, "job_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !updated {
		c.JSON(http.StatusConflict, gin.H{"error": "Update rejected"})
		return
	}

	if req.Status == model.JobCompleted {
		h.onCompleted(c.Param("id"))
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// onCompleted runs post-completion side effects. Failures are logged, never
// surfaced to the worker: the progress update itself already succeeded.
func (h *JobHandler) onCompleted(jobID string) {
	job, err := h.jobs.GetByID(jobID)
	if err != nil || job == nil {
		slog.Error("error reloading completed job", "error", err, "job_id", jobID)
		return
	}

	scored, err := h.scorer.ScoreNew(job.OrganizationID)
	if err != nil {
		slog.Error("error scoring new items", "error", err, "org_id", job.OrganizationID)
	} else {
		slog.Info("scored new items", "count", scored, "org_id", job.OrganizationID)
	}

	sent, err := h.jobs.MarkEmailSent(jobID)
	if err != nil {
		slog.Error("error marking completion email", "error", err, "job_id", jobID)
		return
	}
	if !sent {
		return
	}

	users, err := h.users.GetUsers(job.OrganizationID)
	if err != nil {
		slog.Error("error fetching notification recipients", "error", err, "org_id", job.OrganizationID)
		return
	}

	subject := "Your competitor news refresh is ready"
	body := fmt.Sprintf(`<div style="font-family: -apple-system, sans-serif; max-width: 560px; margin: 0 auto; padding: 32px;">
		<h2 style="color: #0f172a;">Fresh intelligence is in</h2>
		<p style="color: #475569;">We finished analyzing news across %d competitors. Head to your dashboard to see what changed.</p>
		<a href="%s" style="display: inline-block; margin-top: 12px; padding: 12px 24px; background-color: #0891b2; color: white; text-decoration: none; border-radius: 8px;">View Dashboard</a>
	</div>`, job.Total, h.appURL)

	for _, u := range users {
		if err := h.sender.Send(u.Email, subject, body); err != nil {
			slog.Error("error sending completion email", "error", err, "email", u.Email)
		}
	}
}
