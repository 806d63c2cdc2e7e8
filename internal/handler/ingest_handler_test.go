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

type fakeIngestStore struct {
	created bool
	err     error
	saved   *model.NewsItem
}

func (f *fakeIngestStore) Save(n *model.NewsItem) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.created {
		n.ID = "n1"
	}
	f.saved = n
	return f.created, f.err
}

func newIngestRouter(store IngestStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewIngestHandler(store)
	r.POST("/internal/news", InternalAuth("s3cret"), h.Create)
	return r
}

func postNews(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/internal/news", strings.NewReader(body))
	req.Header.Set("X-Internal-Secret", "s3cret")
	r.ServeHTTP(w, req)
	return w
}

func TestIngestNews_Saved(t *testing.T) {
	store := &fakeIngestStore{created: true}
	r := newIngestRouter(store)

	w := postNews(r, `{
		"competitor_id": "c1",
		"title": "Acme expands to MENA",
		"summary": "New regional HQ.",
		"source_url": "https://news.test/acme-mena",
		"date": "2026-08-20T00:00:00Z",
		"event_type": "Market Expansion",
		"threat_level": 3,
		"region": "MENA",
		"details": {"location": "Dubai"}
	}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["saved"])
	assert.Equal(t, "n1", res["id"])

	assert.Equal(t, "c1", store.saved.CompetitorID)
	assert.Equal(t, "Market Expansion", store.saved.EventType)
	assert.Equal(t, 2026, store.saved.Date.Year())
	// details arrive as an opaque JSON blob
	assert.Equal(t, "Dubai", store.saved.ParsedDetails().Location)
}

func TestIngestNews_DuplicateSkipped(t *testing.T) {
	store := &fakeIngestStore{created: false}
	r := newIngestRouter(store)

	w := postNews(r, `{"competitor_id": "c1", "title": "Seen before", "source_url": "https://news.test/dup"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["saved"])
}

func TestIngestNews_MissingFields(t *testing.T) {
	store := &fakeIngestStore{created: true}
	r := newIngestRouter(store)

	w := postNews(r, `{"title": "No competitor"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, true, store.saved == nil)
}

func TestIngestNews_DBError(t *testing.T) {
	store := &fakeIngestStore{err: errors.New("DB down")}
	r := newIngestRouter(store)

	w := postNews(r, `{"competitor_id": "c1", "title": "Acme news"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIngestNews_RequiresSecret(t *testing.T) {
	store := &fakeIngestStore{created: true}
	r := newIngestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/internal/news",
		strings.NewReader(`{"competitor_id": "c1", "title": "Acme news"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, true, store.saved == nil)
}

func TestIngestNews_DateFallback(t *testing.T) {
	store := &fakeIngestStore{created: true}
	r := newIngestRouter(store)

	w := postNews(r, `{"competitor_id": "c1", "title": "Acme news", "date": "2026-08-20"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2026-08-20", store.saved.Date.Format("2006-01-02"))

	postNews(r, `{"competitor_id": "c1", "title": "Acme news", "date": "last tuesday"}`)
	assert.Equal(t, false, store.saved.Date.IsZero())
}