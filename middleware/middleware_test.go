package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"techmate/config"
	"techmate/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuthMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	techToken, err := utils.GenerateToken("tech-1", utils.RoleTechnician, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	adminToken, _ := utils.GenerateToken("ops", utils.RoleAdmin, time.Hour)

	r := gin.New()
	r.GET("/me", JWTAuthTechnicianMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(TechnicianIDKey))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + adminToken, status: http.StatusForbidden},
		{name: "technician", header: "Bearer " + techToken, status: http.StatusOK, body: "tech-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func rateLimitCodes(r *gin.Engine, n int, xff string) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:4100"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, []string{"X-Forwarded-For"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := rateLimitCodes(r, 3, "10.0.0.1")
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want two allowed then 429", codes)
	}
	// Clients behind the same proxy get their own bucket.
	if codes := rateLimitCodes(r, 1, "10.0.0.2"); codes[0] != http.StatusNoContent {
		t.Errorf("second client code = %d, want 204", codes[0])
	}
}

func TestRateLimitIgnoresUntrustedForwardingHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// Rotating X-Forwarded-For must not mint fresh buckets for one peer.
	var codes []int
	for _, xff := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		codes = append(codes, rateLimitCodes(r, 1, xff)...)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want the third request from one peer limited", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		headers map[string]string
		want    string
	}{
		{name: "no trusted headers uses peer", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, want: "192.0.2.10"},
		{name: "first hop of forwarded list", trusted: []string{"X-Forwarded-For"}, headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}, want: "10.0.0.1"},
		{name: "untrusted header skipped", trusted: []string{"X-Forwarded-For"}, headers: map[string]string{"X-Real-IP": "10.0.0.9"}, want: "192.0.2.10"},
		{name: "falls through to next trusted header", trusted: []string{"X-Forwarded-For", " X-Real-IP"}, headers: map[string]string{"X-Real-IP": "10.0.0.9"}, want: "10.0.0.9"},
		{name: "malformed value ignored", trusted: []string{"X-Forwarded-For"}, headers: map[string]string{"X-Forwarded-For": "not-an-ip"}, want: "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.10:4100"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req
			if got := getClientIP(c, tt.trusted); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
