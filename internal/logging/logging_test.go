package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogOutput redirects the global logger into a buffer while f runs.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestInitLoggerWithWriter(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
		want   string
	}{
		{"json info", LevelInfo, FormatJSON, `"msg":"hello"`},
		{"text info", LevelInfo, FormatText, "msg=hello"},
		{"invalid level falls back to info", Level(999), FormatJSON, `"msg":"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerWithWriter(tt.level, tt.format, &buf)
			defer InitLogger(LevelInfo, FormatJSON)

			Info("hello")
			Debug("hidden")

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
			if strings.Contains(out, "hidden") {
				t.Errorf("debug message logged at info level: %q", out)
			}
		})
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
	}
	for in, want := range levels {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if ParseFormat("Text") != FormatText {
		t.Error("ParseFormat(Text) should be FormatText")
	}
	if ParseFormat("json") != FormatJSON || ParseFormat("") != FormatJSON {
		t.Error("ParseFormat should default to FormatJSON")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID = %q, want req-1", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}
	wrongType := context.WithValue(context.Background(), RequestIDKey, 42)
	if got := GetRequestID(wrongType); got != "" {
		t.Errorf("GetRequestID(wrong type) = %q, want empty", got)
	}
}

func TestNavigationAndStateChange(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	out := captureLogOutput(func() {
		Navigation(ctx, "Génesis 50", "Éxodo 0", "forward", "swipe")
		StateChange(ctx, "favorite", "add", "Juan-3-16")
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), out)
	}

	var nav map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &nav); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if nav["msg"] != "navigation" || nav["to"] != "Éxodo 0" || nav["request_id"] != "abc" {
		t.Errorf("unexpected navigation entry: %v", nav)
	}

	var change map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &change); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if change["entity"] != "favorite" || change["key"] != "Juan-3-16" {
		t.Errorf("unexpected state_change entry: %v", change)
	}
}

func TestCombinedMiddleware(t *testing.T) {
	var seenID string
	handler := CombinedMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	out := captureLogOutput(func() {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
	})

	if seenID == "" {
		t.Error("handler did not see a request ID")
	}
	if !strings.Contains(out, `"status_code":418`) || !strings.Contains(out, `"path":"/books"`) {
		t.Errorf("access log missing fields: %q", out)
	}
}

func TestRequestIDMiddlewareReusesHeader(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "client-id" {
			t.Errorf("request ID = %q, want client-id", got)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id" {
		t.Errorf("X-Request-ID = %q, want client-id", got)
	}
}

func TestEventLevels(t *testing.T) {
	out := captureLogOutput(func() {
		WebSocketEvent("client_connected", 3, "client_id", "c1")
		SecurityEvent("origin_rejected", "websocket", "origin", "https://evil.example")
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), out)
	}

	tests := []struct {
		line  string
		level string
		key   string
		want  any
	}{
		{lines[0], "INFO", "client_count", float64(3)},
		{lines[1], "WARN", "origin", "https://evil.example"},
	}
	for _, tt := range tests {
		var entry map[string]any
		if err := json.Unmarshal([]byte(tt.line), &entry); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if entry["level"] != tt.level {
			t.Errorf("level = %v, want %v", entry["level"], tt.level)
		}
		if entry[tt.key] != tt.want {
			t.Errorf("%s = %v, want %v", tt.key, entry[tt.key], tt.want)
		}
	}
}
