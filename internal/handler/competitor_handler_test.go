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

type fakeCompetitorStore struct {
	competitors []model.Competitor
	competitor  *model.Competitor
	active      int
	created     bool
	archived    bool
	err         error
	saved       *model.Competitor
}

func (f *fakeCompetitorStore) Save(c *model.Competitor) (bool, error) {
	f.saved = c
	return f.created, f.err
}

func (f *fakeCompetitorStore) GetByID(id, orgID string) (*model.Competitor, error) {
	return f.competitor, f.err
}

func (f *fakeCompetitorStore) ListByOrganization(orgID string) ([]model.Competitor, error) {
	return f.competitors, f.err
}

func (f *fakeCompetitorStore) CountActive(orgID string) (int, error) {
	return f.active, f.err
}

func (f *fakeCompetitorStore) Archive(id, orgID string) (bool, error) {
	return f.archived, f.err
}

func newCompetitorRouter(store CompetitorStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCompetitorHandler(store)
	r.Use(asOrg("org1"))
	r.GET("/api/competitors", h.List)
	r.POST("/api/competitors", h.Create)
	r.GET("/api/competitors/:id", h.Get)
	r.POST("/api/competitors/:id/archive", h.Archive)
	return r
}

func TestListCompetitors(t *testing.T) {
	store := &fakeCompetitorStore{
		competitors: []model.Competitor{
			{ID: "c1", Name: "Acme", Status: model.CompetitorActive},
			{ID: "c2", Name: "Globex", Status: model.CompetitorArchived},
		},
	}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/competitors", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res []CompetitorResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, "Acme", res[0].Name)
	assert.Equal(t, "archived", res[1].Status)
}

func TestCreateCompetitor(t *testing.T) {
	store := &fakeCompetitorStore{active: 3, created: true}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors",
		strings.NewReader(`{"name": "  Acme  ", "region": "Europe"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Acme", store.saved.Name)
	assert.Equal(t, "org1", store.saved.OrganizationID)
	assert.Equal(t, model.CompetitorActive, store.saved.Status)
}

func TestCreateCompetitor_MissingName(t *testing.T) {
	store := &fakeCompetitorStore{}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors", strings.NewReader(`{"name": "   "}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCompetitor_LimitReached(t *testing.T) {
	store := &fakeCompetitorStore{active: model.MaxActiveCompetitors}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors", strings.NewReader(`{"name": "Acme"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, store.saved == nil)
}

func TestCreateCompetitor_Duplicate(t *testing.T) {
	store := &fakeCompetitorStore{active: 1, created: false}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors", strings.NewReader(`{"name": "Acme"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCompetitor_NotFound(t *testing.T) {
	store := &fakeCompetitorStore{}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/competitors/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveCompetitor(t *testing.T) {
	store := &fakeCompetitorStore{archived: true}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors/c1/archive", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestArchiveCompetitor_NotFound(t *testing.T) {
	store := &fakeCompetitorStore{archived: false}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/competitors/missing/archive", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCompetitors_DBError(t *testing.T) {
	store := &fakeCompetitorStore{err: errors.New("DB down")}
	r := newCompetitorRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/competitors", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
