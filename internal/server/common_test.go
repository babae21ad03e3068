package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allow all", nil, http.MethodGet, "http://x.test", http.StatusOK, "*"},
		{"allow all preflight", nil, http.MethodOptions, "http://x.test", http.StatusNoContent, "*"},
		{"listed origin", []string{"http://app.test"}, http.MethodGet, "http://app.test", http.StatusOK, "http://app.test"},
		{"unlisted origin", []string{"http://app.test"}, http.MethodGet, "http://evil.test", http.StatusOK, ""},
		{"unlisted preflight", []string{"http://app.test"}, http.MethodOptions, "http://evil.test", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORSMiddleware(CORSConfig{AllowedOrigins: tt.allowed}, okHandler)
			req := httptest.NewRequest(tt.method, "/books", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			wantCreds := tt.wantOrigin != "" && tt.wantOrigin != "*"
			if got := rec.Header().Get("Access-Control-Allow-Credentials") == "true"; got != wantCreds {
				t.Errorf("Allow-Credentials set = %v, want %v", got, wantCreds)
			}
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	open := CORSConfig{}
	if !open.OriginAllowed("http://anything.test") {
		t.Error("empty config should allow any origin")
	}
	closed := CORSConfig{AllowedOrigins: []string{"http://app.test"}}
	if !closed.OriginAllowed("http://app.test") {
		t.Error("listed origin rejected")
	}
	if closed.OriginAllowed("http://evil.test") {
		t.Error("unlisted origin allowed")
	}
}
