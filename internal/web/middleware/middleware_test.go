package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/licscan/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.RemoteAddr))
})

// ============================================================================
// APIKeyAuth
// ============================================================================

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
	handler := APIKeyAuth(cfg)(okHandler)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"invalid", "X-API-Key", "nope", http.StatusForbidden},
		{"header key", "X-API-Key", "k2", http.StatusOK},
		{"bearer", "Authorization", "Bearer k1", http.StatusOK},
		{"wrong scheme", "Authorization", "Basic k1", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/licenses", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	handler := APIKeyAuth(&config.SecurityConfig{})(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// TrustedRealIP
// ============================================================================

func TestTrustedRealIP(t *testing.T) {
	handler := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "bogus"})(okHandler)

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted ignores header", "203.0.113.9:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.9:5000"},
		{"trusted cidr real ip", "10.1.2.3:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted single forwarded", "192.168.1.5:80", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, "5.6.7.8"},
		{"trusted invalid header", "10.1.2.3:5000", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3:5000"},
		{"trusted no header", "10.1.2.3:5000", nil, "10.1.2.3:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

// ============================================================================
// Logger
// ============================================================================

func TestLogger_RecordsStatus(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())
}
