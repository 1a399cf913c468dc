package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/observability"
	"blog-api/utils"
	"blog-api/views"
)

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tmpl, err := views.Load()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)
	return r
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:4000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t)
	r.POST("/contact", RateLimit(NewRateLimiter(1, 2)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/contact", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/contact", nil).Code)

	w := serve(r, http.MethodPost, "/contact", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	r := newTestRouter(t)
	r.POST("/login", RateLimit(rl), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/login", nil).Code)
	}
	assert.Empty(t, rl.visitors)
}

func TestCleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	rl.GetLimiter("198.51.100.1")
	rl.GetLimiter("198.51.100.2")

	rl.mutex.Lock()
	rl.visitors["198.51.100.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.mutex.Unlock()

	assert.Equal(t, 1, rl.CleanupLimiters(10*time.Minute))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "198.51.100.2")
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(t)
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(r, http.MethodGet, "/", nil)
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = serve(r, http.MethodGet, "/", map[string]string{"X-Request-ID": "from-proxy"})
	assert.Equal(t, "from-proxy", w.Header().Get("X-Request-ID"))
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(t)
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestErrorHandlerAndRecovery(t *testing.T) {
	logger := observability.Discard()
	r := newTestRouter(t)
	r.Use(Recovery(logger), ErrorHandler(logger))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("database is gone"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.String(http.StatusTeapot, "short and stout")
	})

	w := serve(r, http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred.")
	assert.NotContains(t, w.Body.String(), "database is gone")

	w = serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(r, http.MethodGet, "/handled", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

func TestRequireLogin(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/logout", RequireLogin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCookiePolicy(t *testing.T) {
	for _, secure := range []bool{true, false} {
		r := newTestRouter(t)
		r.Use(CookiePolicy(secure))
		r.GET("/", func(c *gin.Context) {
			utils.Flash(c, "hello")
			c.Status(http.StatusNoContent)
		})

		w := serve(r, http.MethodGet, "/", nil)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, secure, cookies[0].Secure)
	}
}

func TestRejectCrossSite(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/delete/:id", RejectCrossSite(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		headers  map[string]string
		expected int
	}{
		{name: "no browser headers", expected: http.StatusNoContent},
		{name: "same origin fetch", headers: map[string]string{"Sec-Fetch-Site": "same-origin"}, expected: http.StatusNoContent},
		{name: "typed into the address bar", headers: map[string]string{"Sec-Fetch-Site": "none"}, expected: http.StatusNoContent},
		{name: "link from another site", headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, expected: http.StatusForbidden},
		{name: "matching origin", headers: map[string]string{"Origin": "http://example.com"}, expected: http.StatusNoContent},
		{name: "foreign origin", headers: map[string]string{"Origin": "https://evil.example"}, expected: http.StatusForbidden},
		{name: "opaque origin", headers: map[string]string{"Origin": "null"}, expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/delete/1", tt.headers)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
