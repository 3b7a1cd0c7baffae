package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/xlselect/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.RemoteAddr))
})

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		key      string
		wantCode int
		wantBody string
	}{
		{"disabled passes", config.SecurityConfig{}, "", http.StatusOK, ""},
		{"missing key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "", http.StatusUnauthorized, CodeMissingKey},
		{"invalid key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "nope", http.StatusForbidden, CodeInvalidKey},
		{"valid second key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}, "k2", http.StatusOK, ""},
		{"no keys configured", config.SecurityConfig{RequireAPIKey: true}, "k1", http.StatusForbidden, CodeInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(&tt.cfg)(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody == "" {
				return
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["code"] != tt.wantBody {
				t.Errorf("code = %q, want %q", body["code"], tt.wantBody)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{"untrusted peer ignores headers", []string{"10.0.0.0/8"}, "203.0.113.9:5000", "1.2.3.4", "", "203.0.113.9:5000"},
		{"trusted peer uses X-Real-IP", []string{"10.0.0.0/8"}, "10.1.2.3:5000", "1.2.3.4", "5.6.7.8", "1.2.3.4"},
		{"trusted peer falls back to X-Forwarded-For", []string{"10.0.0.0/8"}, "10.1.2.3:5000", "", "5.6.7.8, 10.1.2.3", "5.6.7.8"},
		{"bare IP is trusted", []string{"127.0.0.1"}, "127.0.0.1:5000", "1.2.3.4", "", "1.2.3.4"},
		{"invalid header keeps address", []string{"10.0.0.0/8"}, "10.1.2.3:5000", "not-an-ip", "", "10.1.2.3:5000"},
		{"no trusted proxies", nil, "10.1.2.3:5000", "1.2.3.4", "", "10.1.2.3:5000"},
		{"invalid CIDR skipped", []string{"bogus", "10.0.0.0/8"}, "10.1.2.3:5000", "1.2.3.4", "", "1.2.3.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()

			TrustedRealIP(tt.trusted)(okHandler).ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["status"] != float64(http.StatusNotFound) || entry["bytes"] != float64(len("missing")) {
		t.Errorf("entry = %v", entry)
	}
	if !strings.HasPrefix(entry["path"].(string), "/api/sessions") {
		t.Errorf("path = %v", entry["path"])
	}
}
