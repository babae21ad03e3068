package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuildCSPHeader(t *testing.T) {
	got := APICSPConfig().BuildCSPHeader()
	want := "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
	if got != want {
		t.Errorf("BuildCSPHeader() = %q, want %q", got, want)
	}

	withWS := CSPConfig{DefaultSrc: []string{"'self'"}, ConnectSrc: []string{"'self'", "ws:"}}
	if got, want := withWS.BuildCSPHeader(), "default-src 'self'; connect-src 'self' ws:"; got != want {
		t.Errorf("BuildCSPHeader() = %q, want %q", got, want)
	}

	if got := (CSPConfig{}).BuildCSPHeader(); got != "" {
		t.Errorf("empty BuildCSPHeader() = %q, want empty", got)
	}
}

func TestSecurityHeadersWithCSP(t *testing.T) {
	h := SecurityHeadersWithCSP(APICSPConfig(), okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": APICSPConfig().BuildCSPHeader(),
	}
	for k, want := range headers {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"evangelios", true},
		{"nuevo-testamento-90", true},
		{"plan_2", true},
		{"", false},
		{"-lead", false},
		{"Mayus", false},
		{"../etc", false},
		{"a b", false},
	}
	for _, tt := range tests {
		if got := ValidIdentifier(tt.in); got != tt.want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
