package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

func newRouter(t *testing.T, manager *jwt.Manager, limiter ratelimit.Limiter) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
	}
	db, err := mysql.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tx := mysql.NewTxManager(db)
	countryRepo := mysql.NewCountryRepository(db)
	authorRepo := mysql.NewAuthorRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	reviewerRepo := mysql.NewReviewerRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)

	countries := catalog.NewCountryService(countryRepo, authorRepo, tx, nil)
	authors := catalog.NewAuthorService(authorRepo, countryRepo, bookRepo, tx, nil)
	categories := catalog.NewCategoryService(categoryRepo, bookRepo, tx, nil)
	books := catalog.NewBookService(bookRepo, authorRepo, categoryRepo, reviewRepo, tx, nil)
	reviewers := catalog.NewReviewerService(reviewerRepo, reviewRepo, tx, nil)
	reviews := catalog.NewReviewService(reviewRepo, bookRepo, reviewerRepo, tx, nil)

	return router.NewRouter(cfg, &router.Handlers{
		Countries:  handler.NewCountryHandler(countries),
		Authors:    handler.NewAuthorHandler(authors, countries),
		Categories: handler.NewCategoryHandler(categories),
		Books:      handler.NewBookHandler(books, authors, categories, reviews),
		Reviewers:  handler.NewReviewerHandler(reviewers),
		Reviews:    handler.NewReviewHandler(reviews, reviewers),
	}, middleware.NewAuthMiddleware(manager, true), limiter, nil)
}

func send(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWriteRoutesRequireToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", "bookcatalog", time.Hour)
	r := newRouter(t, manager, nil)
	token, err := manager.GenerateToken("ops")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/v1/countries", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, "/api/v1/countries", `{"name":"France"}`, "").Code)
	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/api/v1/countries", `{"name":"France"}`, token.AccessToken).Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodDelete, "/api/v1/countries/1", "", "").Code)
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodDelete, "/api/v1/countries/1", "", token.AccessToken).Code)
}

func TestOperationalRoutes(t *testing.T) {
	r := newRouter(t, jwt.NewManager("test-secret", "bookcatalog", time.Hour), nil)

	w := send(r, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	w = send(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	// 未注册的路由
	w = send(r, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	r := newRouter(t, jwt.NewManager("test-secret", "bookcatalog", time.Hour), ratelimit.NewMemoryLimiter(1, time.Hour, 1))

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/v1/books", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(r, http.MethodGet, "/api/v1/books", "", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/ping", "", "").Code)
}
