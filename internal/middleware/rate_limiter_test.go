package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func resetRateLimiterState() {
	mu.Lock()
	visitors = make(map[string]*visitor)
	requestsPerSecond = 5
	burstSize = 10
	mu.Unlock()
}

func TestRateLimiter(t *testing.T) {
	resetRateLimiterState()

	e := echo.New()
	middleware := RateLimiter()

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	successCount := 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.7:4242"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(c); err == nil && rec.Code == http.StatusOK {
			successCount++
		}
	}
	assert.Equal(t, 5, successCount, "requests within the burst should succeed")

	rateLimited := false
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.7:4242"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		// SendError writes the response and returns nil
		if err := handler(c); err == nil && rec.Code == http.StatusTooManyRequests {
			rateLimited = true
			break
		}
	}
	assert.True(t, rateLimited, "sustained traffic from one IP should be limited")
}

func TestRateLimiterWithConfig(t *testing.T) {
	resetRateLimiterState()

	e := echo.New()
	middleware := RateLimiterWithConfig(2, 4)

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.8:4242"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.8:4242"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	resetRateLimiterState()

	e := echo.New()
	middleware := RateLimiter()

	handler := middleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	ips := []string{"10.0.1.1:1234", "10.0.1.2:1234", "10.0.1.3:1234"}
	for _, ip := range ips {
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = ip
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code, "IP %s should have its own budget", ip)
		}
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "203.0.113.9",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "203.0.113.10"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "203.0.113.10",
		},
		{
			name: "X-Forwarded-For takes precedence",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.9",
				"X-Real-IP":       "203.0.113.10",
			},
			remoteAddr: "127.0.0.1:12345",
			expected:   "203.0.113.9",
		},
		{
			name:       "falls back to remote address",
			headers:    map[string]string{},
			remoteAddr: "203.0.113.11:12345",
			expected:   "203.0.113.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remoteAddr

			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}

func TestVisitorExpiry(t *testing.T) {
	mu.Lock()
	visitors = map[string]*visitor{
		"stale_ip": {limiter: nil, lastSeen: time.Now().Add(-5 * time.Minute)},
		"fresh_ip": {limiter: nil, lastSeen: time.Now()},
	}

	for ip, v := range visitors {
		if time.Since(v.lastSeen) > 3*time.Minute {
			delete(visitors, ip)
		}
	}
	_, staleExists := visitors["stale_ip"]
	_, freshExists := visitors["fresh_ip"]
	mu.Unlock()

	assert.False(t, staleExists)
	assert.True(t, freshExists)
}
