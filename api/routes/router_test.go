package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rmoralesdev/mediavault-backend/internal/auth"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/internal/uploads"
	pkgAuth "github.com/rmoralesdev/mediavault-backend/pkg/auth"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/db/models"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	"github.com/rmoralesdev/mediavault-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerGalleryStub struct {
	lastType     *enums.MediaType
	lastCategory string
	lastID       int64
	lastQuery    string
}

func (s *routerGalleryStub) ListByType(ctx context.Context, mediaType enums.MediaType, page pagination.Params) (*gallery.Page, error) {
	s.lastType = &mediaType
	return &gallery.Page{Items: []models.MediaRecord{{ID: 1}}, Total: 1}, nil
}

func (s *routerGalleryStub) ListByCategory(ctx context.Context, mediaType enums.MediaType, rawCategory string, page pagination.Params) (*gallery.Page, error) {
	s.lastType = &mediaType
	s.lastCategory = rawCategory
	return &gallery.Page{Items: []models.MediaRecord{{ID: 1}}, Total: 1}, nil
}

func (s *routerGalleryStub) Random(ctx context.Context, mediaType *enums.MediaType, rawCategory string) (*models.MediaRecord, error) {
	s.lastType = mediaType
	s.lastCategory = rawCategory
	return &models.MediaRecord{ID: 2}, nil
}

func (s *routerGalleryStub) GetByID(ctx context.Context, mediaType enums.MediaType, id int64) (*models.MediaRecord, error) {
	s.lastType = &mediaType
	s.lastID = id
	return &models.MediaRecord{ID: id}, nil
}

func (s *routerGalleryStub) Search(ctx context.Context, mediaType enums.MediaType, query string, page pagination.Params) (*gallery.Page, error) {
	s.lastType = &mediaType
	s.lastQuery = query
	return &gallery.Page{Items: []models.MediaRecord{{ID: 3}}, Total: 1}, nil
}

func (s *routerGalleryStub) Stats(ctx context.Context) (*gallery.Stats, error) {
	return &gallery.Stats{}, nil
}

func (s *routerGalleryStub) TableCounts(ctx context.Context) (*gallery.TableCounts, error) {
	return &gallery.TableCounts{}, nil
}

func (s *routerGalleryStub) InitSchema(ctx context.Context) error {
	return nil
}

type routerPingerStub struct{}

func (routerPingerStub) Ping(ctx context.Context) error { return nil }

type routerAuthStub struct{}

func (routerAuthStub) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{Token: "stub-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type routerUploadStub struct {
	called bool
}

func (s *routerUploadStub) BulkUpload(ctx context.Context, input uploads.BulkUploadInput) (*uploads.BulkUploadResult, error) {
	s.called = true
	return &uploads.BulkUploadResult{}, nil
}

func routerTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "mediavault", ExpirationMinutes: 10},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *routerGalleryStub, *routerUploadStub) {
	t.Helper()
	galleryStub := &routerGalleryStub{}
	uploadStub := &routerUploadStub{}
	handler := NewRouter(routerTestConfig(), nil, prometheus.NewRegistry(), routerPingerStub{}, routerAuthStub{}, galleryStub, uploadStub)
	return handler, galleryStub, uploadStub
}

func adminToken(t *testing.T, cfg *config.Config, isAdmin bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Subject: "admin",
		IsAdmin: isAdmin,
	})
	require.NoError(t, err)
	return token
}

func doRequest(handler http.Handler, method, target, token string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	handler, galleryStub, _ := newTestRouter(t)

	rec := doRequest(handler, "GET", "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "GET", "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "GET", "/api/media/all-images", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, galleryStub.lastType)
	assert.Equal(t, enums.MediaTypeImage, *galleryStub.lastType)

	rec = doRequest(handler, "GET", "/api/media/all-gifs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.MediaTypeGIF, *galleryStub.lastType)
}

func TestRandomRouteVariants(t *testing.T) {
	handler, galleryStub, _ := newTestRouter(t)

	rec := doRequest(handler, "GET", "/api/media/random", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, galleryStub.lastType)
	assert.Empty(t, galleryStub.lastCategory)

	rec = doRequest(handler, "GET", "/api/media/random/image", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, galleryStub.lastType)
	assert.Equal(t, enums.MediaTypeImage, *galleryStub.lastType)
	assert.Empty(t, galleryStub.lastCategory)

	rec = doRequest(handler, "GET", "/api/media/random/gif/pat", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, galleryStub.lastType)
	assert.Equal(t, enums.MediaTypeGIF, *galleryStub.lastType)
	assert.Equal(t, "pat", galleryStub.lastCategory)

	rec = doRequest(handler, "GET", "/api/media/random/neko", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, galleryStub.lastType)
	assert.Equal(t, "neko", galleryStub.lastCategory)
}

func TestIDSearchAndCategoryRoutes(t *testing.T) {
	handler, galleryStub, _ := newTestRouter(t)

	rec := doRequest(handler, "GET", "/api/media/image/id/9", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), galleryStub.lastID)

	rec = doRequest(handler, "GET", "/api/media/search/gif?q=neko", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "neko", galleryStub.lastQuery)
	assert.Equal(t, enums.MediaTypeGIF, *galleryStub.lastType)

	rec = doRequest(handler, "GET", "/api/media/gif/hug", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hug", galleryStub.lastCategory)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := doRequest(handler, "GET", "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestMethodNotAllowedIsJSON(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := doRequest(handler, "POST", "/api/media/all-images", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	handler, _, uploadStub := newTestRouter(t)
	cfg := routerTestConfig()

	rec := doRequest(handler, "GET", "/api/admin/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(handler, "GET", "/api/admin/stats", adminToken(t, cfg, false), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := adminToken(t, cfg, true)
	for _, target := range []string{"/api/admin/stats", "/api/admin/tables", "/api/admin/init-db"} {
		rec = doRequest(handler, "GET", target, token, "")
		assert.Equal(t, http.StatusOK, rec.Code, "target %s", target)
	}

	assert.False(t, uploadStub.called)
}

func TestLoginRouteIsPublic(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := doRequest(handler, "POST", "/api/admin/login", "", `{"username":"admin","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stub-token")
}
