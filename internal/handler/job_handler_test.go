package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/ClementStand/market-analyser/internal/model"
)

type fakeJobStore struct {
	job          *model.FetchJob
	latest       *model.FetchJob
	updateOK     bool
	emailClaimed bool
	err          error
	created      *model.FetchJob
	lastStatus   string
	updates      int
}

func (f *fakeJobStore) Create(job *model.FetchJob) error {
	job.ID = "job1"
	f.created = job
	return f.err
}

func (f *fakeJobStore) GetByID(id string) (*model.FetchJob, error) {
	return f.job, f.err
}

func (f *fakeJobStore) GetLatest(orgID string) (*model.FetchJob, error) {
	return f.latest, f.err
}

func (f *fakeJobStore) UpdateProgress(id, status, currentStep string, processed, total int, errorMessage string) (bool, error) {
	f.lastStatus = status
	f.updates++
	return f.updateOK, f.err
}

func (f *fakeJobStore) MarkEmailSent(id string) (bool, error) {
	return f.emailClaimed, f.err
}

type fakeActiveCompetitors struct {
	competitors []model.Competitor
	err         error
}

func (f *fakeActiveCompetitors) ListActive(orgID string) ([]model.Competitor, error) {
	return f.competitors, f.err
}

type fakeUsers struct {
	users []model.UserProfile
	err   error
}

func (f *fakeUsers) GetUsers(orgID string) ([]model.UserProfile, error) {
	return f.users, f.err
}

type fakeNewScorer struct {
	scored int
	orgIDs []string
	err    error
}

func (f *fakeNewScorer) ScoreNew(orgID string) (int, error) {
	f.orgIDs = append(f.orgIDs, orgID)
	return f.scored, f.err
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePusher struct {
	payloads []string
	err      error
}

func (f *fakePusher) push(payload string) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type jobFixture struct {
	jobs        *fakeJobStore
	competitors *fakeActiveCompetitors
	users       *fakeUsers
	scorer      *fakeNewScorer
	sender      *fakeSender
	pusher      *fakePusher
}

func newJobRouter(f *jobFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewJobHandler(f.jobs, f.competitors, f.users, f.scorer, f.sender,
		"https://app.example.test", f.pusher.push)

	api := r.Group("/api", asOrg("org1"))
	api.POST("/jobs", h.Create)
	api.GET("/jobs/latest", h.GetLatest)
	api.GET("/jobs/:id", h.Get)

	r.PUT("/internal/jobs/:id", h.UpdateProgress)
	return r
}

func defaultJobFixture() *jobFixture {
	return &jobFixture{
		jobs:        &fakeJobStore{updateOK: true, emailClaimed: true},
		competitors: &fakeActiveCompetitors{competitors: []model.Competitor{{ID: "c1"}, {ID: "c2"}}},
		users:       &fakeUsers{},
		scorer:      &fakeNewScorer{},
		sender:      &fakeSender{},
		pusher:      &fakePusher{},
	}
}

func TestCreateJob_Queued(t *testing.T) {
	f := defaultJobFixture()
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/jobs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "org1", f.jobs.created.OrganizationID)
	assert.Equal(t, 2, f.jobs.created.Total)
	assert.Equal(t, model.JobPending, f.jobs.created.Status)
	assert.Equal(t, 1, len(f.pusher.payloads))

	var payload QueuePayload
	json.Unmarshal([]byte(f.pusher.payloads[0]), &payload)
	assert.Equal(t, "job1", payload.JobID)
	assert.Equal(t, []string{"c1", "c2"}, payload.CompetitorIDs)
}

func TestCreateJob_NoCompetitors(t *testing.T) {
	f := defaultJobFixture()
	f.competitors.competitors = nil
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/jobs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, len(f.pusher.payloads))
}

func TestCreateJob_QueueDown(t *testing.T) {
	f := defaultJobFixture()
	f.pusher.err = errors.New("redis down")
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/jobs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// job flipped to error so the frontend doesn't poll a stuck pending job
	assert.Equal(t, model.JobError, f.jobs.lastStatus)
}

func TestGetJob_OtherOrgHidden(t *testing.T) {
	f := defaultJobFixture()
	f.jobs.job = &model.FetchJob{ID: "job1", OrganizationID: "org2"}
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/jobs/job1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestJob(t *testing.T) {
	f := defaultJobFixture()
	f.jobs.latest = &model.FetchJob{
		ID:             "job1",
		OrganizationID: "org1",
		Status:         model.JobRunning,
		CurrentStep:    "Analyzing Acme",
		Processed:      1,
		Total:          2,
	}
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/jobs/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, model.JobRunning, res.Status)
	assert.Equal(t, "Analyzing Acme", res.CurrentStep)
	assert.Equal(t, 1, res.Processed)
}

func TestGetLatestJob_None(t *testing.T) {
	f := defaultJobFixture()
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/jobs/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProgress_InvalidStatus(t *testing.T) {
	f := defaultJobFixture()
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/internal/jobs/job1",
		strings.NewReader(`{"status": "done"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.jobs.updates)
}

func TestUpdateProgress_RejectedTransition(t *testing.T) {
	f := defaultJobFixture()
	f.jobs.updateOK = false
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/internal/jobs/job1",
		strings.NewReader(`{"status": "running"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateProgress_CompletionScoresAndNotifies(t *testing.T) {
	f := defaultJobFixture()
	f.jobs.job = &model.FetchJob{ID: "job1", OrganizationID: "org1", Status: model.JobCompleted, Total: 2}
	f.users.users = []model.UserProfile{{Email: "a@example.org"}, {Email: "b@example.org"}}
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/internal/jobs/job1",
		strings.NewReader(`{"status": "completed", "processed": 2, "total": 2}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"org1"}, f.scorer.orgIDs)
	assert.Equal(t, []string{"a@example.org", "b@example.org"}, f.sender.sent)
}

func TestUpdateProgress_EmailSentOnce(t *testing.T) {
	f := defaultJobFixture()
	f.jobs.job = &model.FetchJob{ID: "job1", OrganizationID: "org1", Status: model.JobCompleted, Total: 2}
	f.jobs.emailClaimed = false
	f.users.users = []model.UserProfile{{Email: "a@example.org"}}
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/internal/jobs/job1",
		strings.NewReader(`{"status": "completed"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(f.sender.sent))
}

func TestUpdateProgress_RunningNoSideEffects(t *testing.T) {
	f := defaultJobFixture()
	r := newJobRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/internal/jobs/job1",
		strings.NewReader(`{"status": "running", "current_step": "Analyzing Acme", "processed": 1, "total": 2}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(f.scorer.orgIDs))
	assert.Equal(t, 0, len(f.sender.sent))
}
