package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/ClementStand/market-analyser/internal/model"
)

type fakeOrgStore struct {
	org        *model.Organization
	updated    bool
	err        error
	savedVip   []string
	savedPrio  []string
	savedReg   []string
	updateHits int
}

func (f *fakeOrgStore) GetByID(id string) (*model.Organization, error) {
	return f.org, f.err
}

func (f *fakeOrgStore) UpdateSettings(id string, vipCompetitors, priorityRegions, regions []string) (bool, error) {
	f.savedVip = vipCompetitors
	f.savedPrio = priorityRegions
	f.savedReg = regions
	f.updateHits++
	return f.updated, f.err
}

type fakeOrgNewsStore struct {
	items []model.NewsItem
	err   error
}

func (f *fakeOrgNewsStore) GetAllForOrganization(orgID string) ([]model.NewsItem, error) {
	return f.items, f.err
}

type fakeRescorer struct {
	rescored int
	calls    int
	err      error
}

func (f *fakeRescorer) RescoreAll(orgID string) (int, error) {
	f.calls++
	return f.rescored, f.err
}

type settingsFixture struct {
	orgs        *fakeOrgStore
	competitors *fakeActiveCompetitors
	news        *fakeOrgNewsStore
	scorer      *fakeRescorer
}

func newSettingsRouter(f *settingsFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSettingsHandler(f.orgs, f.competitors, f.news, f.scorer)
	r.Use(asOrg("org1"))
	r.GET("/api/settings", h.Get)
	r.PUT("/api/settings", h.Update)
	r.POST("/api/settings/autodetect", h.AutoDetect)
	return r
}

func defaultSettingsFixture() *settingsFixture {
	return &settingsFixture{
		orgs: &fakeOrgStore{
			org: &model.Organization{
				ID:              "org1",
				Name:            "Initech",
				Industry:        "fintech",
				Regions:         []string{"Europe"},
				VipCompetitors:  []string{"Acme"},
				PriorityRegions: []string{"Europe"},
			},
			updated: true,
		},
		competitors: &fakeActiveCompetitors{},
		news:        &fakeOrgNewsStore{},
		scorer:      &fakeRescorer{},
	}
}

func TestGetSettings(t *testing.T) {
	f := defaultSettingsFixture()
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/settings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SettingsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Initech", res.Name)
	assert.Equal(t, []string{"Acme"}, res.VipCompetitors)
}

func TestGetSettings_NotFound(t *testing.T) {
	f := defaultSettingsFixture()
	f.orgs.org = nil
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/settings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSettings_TriggersRescore(t *testing.T) {
	f := defaultSettingsFixture()
	f.scorer.rescored = 7
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/settings",
		strings.NewReader(`{"vip_competitors": ["Globex"], "priority_regions": ["APAC"], "regions": ["APAC"]}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Globex"}, f.orgs.savedVip)
	assert.Equal(t, []string{"APAC"}, f.orgs.savedPrio)
	assert.Equal(t, 1, f.scorer.calls)

	var res map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &res)
	var rescored int
	json.Unmarshal(res["rescored"], &rescored)
	assert.Equal(t, 7, rescored)
}

func TestUpdateSettings_OmittedFieldsKeepStoredValues(t *testing.T) {
	f := defaultSettingsFixture()
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/settings",
		strings.NewReader(`{"vip_competitors": ["Globex"]}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Globex"}, f.orgs.savedVip)
	assert.Equal(t, []string{"Europe"}, f.orgs.savedPrio)
	assert.Equal(t, []string{"Europe"}, f.orgs.savedReg)
}

func TestUpdateSettings_ExplicitEmptyClearsList(t *testing.T) {
	f := defaultSettingsFixture()
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/settings",
		strings.NewReader(`{"vip_competitors": []}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(f.orgs.savedVip))
	assert.Equal(t, []string{"Europe"}, f.orgs.savedReg)
}

func autoDetectFixture() *settingsFixture {
	f := defaultSettingsFixture()
	f.competitors.competitors = []model.Competitor{
		{ID: "c1", Name: "Acme", Status: model.CompetitorActive},
		{ID: "c2", Name: "Globex", Status: model.CompetitorActive},
	}
	f.news.items = []model.NewsItem{
		{ID: "n1", CompetitorID: "c1", ThreatLevel: 5, Region: "Europe"},
		{ID: "n2", CompetitorID: "c1", ThreatLevel: 4, Region: "Europe"},
		{ID: "n3", CompetitorID: "c2", ThreatLevel: 2, Region: "APAC"},
	}
	return f
}

func TestAutoDetect_Proposal(t *testing.T) {
	f := autoDetectFixture()
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/settings/autodetect", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		VipCompetitors  []string `json:"vip_competitors"`
		PriorityRegions []string `json:"priority_regions"`
		Applied         bool     `json:"applied"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, []string{"Acme", "Globex"}, res.VipCompetitors)
	assert.Equal(t, []string{"Europe"}, res.PriorityRegions)
	assert.Equal(t, false, res.Applied)
	// proposal only, nothing persisted
	assert.Equal(t, 0, f.orgs.updateHits)
	assert.Equal(t, 0, f.scorer.calls)
}

func TestAutoDetect_Apply(t *testing.T) {
	f := autoDetectFixture()
	r := newSettingsRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/settings/autodetect?apply=true", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.orgs.updateHits)
	assert.Equal(t, []string{"Acme", "Globex"}, f.orgs.savedVip)
	// tracked regions survive an applied proposal
	assert.Equal(t, []string{"Europe"}, f.orgs.savedReg)
	assert.Equal(t, 1, f.scorer.calls)
}
