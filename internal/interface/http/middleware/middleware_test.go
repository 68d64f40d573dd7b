package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func engine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/x", func(c *gin.Context) {
		c.String(http.StatusOK, GetSubject(c))
	})
	return r
}

func post(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestRequireWrite(t *testing.T) {
	manager := jwt.NewManager("test-secret", "bookcatalog", time.Hour)
	r := engine(NewAuthMiddleware(manager, true).RequireWrite())

	writeToken, err := manager.GenerateToken("ops")
	require.NoError(t, err)
	readToken, err := manager.GenerateToken("viewer", "catalog:read")
	require.NoError(t, err)
	expired, err := jwt.NewManager("test-secret", "bookcatalog", -time.Minute).GenerateToken("ops")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header http.Header
		status int
		body   string
	}{
		{"no header", nil, http.StatusUnauthorized, ""},
		{"wrong scheme", http.Header{"Authorization": []string{"Basic abc"}}, http.StatusUnauthorized, ""},
		{"garbage token", bearer("not-a-jwt"), http.StatusUnauthorized, ""},
		{"expired", bearer(expired.AccessToken), http.StatusUnauthorized, ""},
		{"missing scope", bearer(readToken.AccessToken), http.StatusForbidden, ""},
		{"valid", bearer(writeToken.AccessToken), http.StatusOK, "ops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequireWrite_Disabled(t *testing.T) {
	r := engine(NewAuthMiddleware(jwt.NewManager("s", "i", time.Hour), false).RequireWrite())
	assert.Equal(t, http.StatusOK, post(r, nil).Code)
}

func TestRequestLogger_RequestID(t *testing.T) {
	r := engine(RequestLogger(nil))

	w := post(r, nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	w = post(r, http.Header{HeaderRequestID: []string{"req-42"}})
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	// 头名大小写不敏感
	w = post(r, http.Header{"x-request-id": []string{"req-43"}})
	assert.Equal(t, "req-43", w.Header().Get(HeaderRequestID))
}

// stubLimiter 固定返回结果的限流器
type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.allowed, s.err }
func (s stubLimiter) Name() string { return "stub" }

func TestRateLimit(t *testing.T) {
	metrics.InitMetrics()

	t.Run("rejects", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.RateLimitRejectedTotal.WithLabelValues("stub"))
		w := post(engine(RateLimit(stubLimiter{allowed: false}, nil)), nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`"code":%d`, apperrors.ErrCodeTooManyRequests))
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitRejectedTotal.WithLabelValues("stub")))
	})

	t.Run("fails open", func(t *testing.T) {
		w := post(engine(RateLimit(stubLimiter{err: errors.New("redis down")}, nil)), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("memory burst", func(t *testing.T) {
		r := engine(RateLimit(ratelimit.NewMemoryLimiter(1, time.Hour, 2), nil))
		assert.Equal(t, http.StatusOK, post(r, nil).Code)
		assert.Equal(t, http.StatusOK, post(r, nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, post(r, nil).Code)
	})
}

func TestMetrics_RouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/books/:id", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/17", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.HTTPRequestsInProgress))
}
