package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl-go/internal/ratelimit"
)

func newLimitedRouter(perMinute, perHour int, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewRegistry(perMinute, perHour, 0), enabled))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/r/:shortCode", ok)
	r.GET("/health", ok)
	return r
}

func doGet(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = "192.0.2.1:40000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitAdmitsAndSetsRemainingHeader(t *testing.T) {
	r := newLimitedRouter(3, 1000, true)

	w := doGet(r, "/r/abc1234", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Rate-Limit-Remaining"))

	w = doGet(r, "/r/abc1234", nil)
	assert.Equal(t, "1", w.Header().Get("X-Rate-Limit-Remaining"))
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	r := newLimitedRouter(2, 1000, true)

	require.Equal(t, http.StatusOK, doGet(r, "/r/abc1234", nil).Code)
	require.Equal(t, http.StatusOK, doGet(r, "/r/abc1234", nil).Code)

	w := doGet(r, "/r/abc1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Rate-Limit-Retry-After-Seconds"))

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "Rate limit exceeded. Please try again in")
}

func TestRateLimitDisabledAdmitsEverything(t *testing.T) {
	r := newLimitedRouter(1, 1, false)

	for i := 0; i < 10; i++ {
		w := doGet(r, "/r/abc1234", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Rate-Limit-Remaining"))
	}
}

func TestRateLimitExemptPaths(t *testing.T) {
	r := newLimitedRouter(1, 1, true)

	// 豁免路径既不被拒也不消耗配额
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/health", nil).Code)
	}

	// 配额仍然完整，业务路径第一次请求照常放行
	assert.Equal(t, http.StatusOK, doGet(r, "/r/abc1234", nil).Code)
}

func TestRateLimitSeparateClientsSeparateBuckets(t *testing.T) {
	r := newLimitedRouter(1, 1000, true)

	assert.Equal(t, http.StatusOK, doGet(r, "/r/abc1234", map[string]string{"X-Forwarded-For": "1.1.1.1"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/r/abc1234", map[string]string{"X-Forwarded-For": "1.1.1.1"}).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/r/abc1234", map[string]string{"X-Forwarded-For": "2.2.2.2"}).Code)
}
