package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/rmoralesdev/mediavault-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGalleryService struct {
	page    *gallery.Page
	record  *models.MediaRecord
	stats   *gallery.Stats
	counts  *gallery.TableCounts
	err     error
	lastID  int64
	lastCat string
}

func (s *stubGalleryService) ListByType(ctx context.Context, mediaType enums.MediaType, page pagination.Params) (*gallery.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubGalleryService) ListByCategory(ctx context.Context, mediaType enums.MediaType, rawCategory string, page pagination.Params) (*gallery.Page, error) {
	s.lastCat = rawCategory
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubGalleryService) Random(ctx context.Context, mediaType *enums.MediaType, rawCategory string) (*models.MediaRecord, error) {
	s.lastCat = rawCategory
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubGalleryService) GetByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubGalleryService) Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) (*gallery.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubGalleryService) Stats(ctx context.Context) (*gallery.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *stubGalleryService) TableCounts(ctx context.Context) (*gallery.TableCounts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func (s *stubGalleryService) InitSchema(ctx context.Context) error {
	return s.err
}

func routeRequest(handler http.HandlerFunc, r *http.Request, params map[string]string) *httptest.ResponseRecorder {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

func TestListByTypeWritesEnvelope(t *testing.T) {
	svc := &stubGalleryService{page: &gallery.Page{
		Items: []models.MediaRecord{{ID: 1, Title: "a", MediaType: enums.MediaTypeImage}},
		Total: 1, Limit: 50, Offset: 0,
	}}

	rec := routeRequest(ListByType(svc, enums.MediaTypeImage, nil), httptest.NewRequest("GET", "/api/media/all-images", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data gallery.Page `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.Total)
	require.Len(t, body.Data.Items, 1)
}

func TestListByTypeRejectsBadLimit(t *testing.T) {
	svc := &stubGalleryService{}
	rec := routeRequest(ListByType(svc, enums.MediaTypeImage, nil), httptest.NewRequest("GET", "/?limit=ten", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListByTypeEmptyBecomes404(t *testing.T) {
	svc := &stubGalleryService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no media found").
		WithDetails(map[string]any{"items": []any{}, "total": 0})}

	rec := routeRequest(ListByType(svc, enums.MediaTypeGIF, nil), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	payload := body["error"].(map[string]any)
	details := payload["details"].(map[string]any)
	assert.Equal(t, float64(0), details["total"])
}

func TestRandomPassesCategoryParam(t *testing.T) {
	svc := &stubGalleryService{record: &models.MediaRecord{ID: 9, MediaType: enums.MediaTypeGIF}}
	gif := enums.MediaTypeGIF

	rec := routeRequest(Random(svc, &gif, nil), httptest.NewRequest("GET", "/", nil), map[string]string{"category": "pat"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pat", svc.lastCat)
}

func TestGetByIDParsesPathID(t *testing.T) {
	svc := &stubGalleryService{record: &models.MediaRecord{ID: 42, MediaType: enums.MediaTypeImage}}

	rec := routeRequest(GetByID(svc, enums.MediaTypeImage, nil), httptest.NewRequest("GET", "/", nil), map[string]string{"id": "42"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.lastID)
}

func TestGetByIDRejectsNonNumericID(t *testing.T) {
	svc := &stubGalleryService{}
	rec := routeRequest(GetByID(svc, enums.MediaTypeImage, nil), httptest.NewRequest("GET", "/", nil), map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(0), svc.lastID)
}

func TestByCategoryRequiresCategory(t *testing.T) {
	svc := &stubGalleryService{}
	rec := routeRequest(ByCategory(svc, enums.MediaTypeImage, nil), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubPinger struct {
	err    error
	pinged bool
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.pinged = true
	return p.err
}

func TestHealthReportsCounts(t *testing.T) {
	svc := &stubGalleryService{counts: &gallery.TableCounts{Images: 3, GIFs: 1, Total: 4}}
	pinger := &stubPinger{}
	rec := routeRequest(Health(svc, pinger, nil), httptest.NewRequest("GET", "/health", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pinger.pinged)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
}

func TestHealthDatabaseFailureIs500(t *testing.T) {
	svc := &stubGalleryService{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	rec := routeRequest(Health(svc, &stubPinger{}, nil), httptest.NewRequest("GET", "/health", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthPingFailureIs500(t *testing.T) {
	svc := &stubGalleryService{counts: &gallery.TableCounts{Total: 4}}
	pinger := &stubPinger{err: pkgerrors.New(pkgerrors.CodeDependency, "connection refused")}
	rec := routeRequest(Health(svc, pinger, nil), httptest.NewRequest("GET", "/health", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "INTERNAL_ERROR", errBody["code"])
}

func TestStatsAndTables(t *testing.T) {
	svc := &stubGalleryService{
		stats: &gallery.Stats{
			Totals:      gallery.AggregateCounts{Total: 2},
			AllowedList: []string{"neko"},
		},
		counts: &gallery.TableCounts{Images: 2, Total: 2},
	}

	rec := routeRequest(Stats(svc, nil), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = routeRequest(Tables(svc, nil), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitDBReportsSchemaEnsured(t *testing.T) {
	svc := &stubGalleryService{}
	rec := routeRequest(InitDB(svc, nil), httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "schema ensured")
}
