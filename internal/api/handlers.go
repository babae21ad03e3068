package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/sqlite"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/gesture"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Error codes.
const (
	codeNotFound     = "NOT_FOUND"
	codeInvalidInput = "INVALID_INPUT"
	codeInternal     = "INTERNAL_ERROR"
)

// maxSteps bounds /navigate; it exceeds the number of positions in the canon.
const maxSteps = 2000

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
	Books   int    `json:"books"`
	Clients int    `json:"ws_clients"`
	Storage string `json:"storage"`
}

// BookDetail is a book with its neighbours in canonical order.
type BookDetail struct {
	*canon.BookEntry
	Index    int    `json:"index"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// NavigationResult reports a move through the canon.
type NavigationResult struct {
	From      canon.Position `json:"from"`
	To        canon.Position `json:"to"`
	Direction string         `json:"direction,omitempty"`
	Steps     int            `json:"steps"`
	Terminal  bool           `json:"terminal"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		respondError(w, http.StatusNotFound, codeNotFound, "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"name":    "Mi Alma Biblia API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"GET /books",
			"GET /books/:name",
			"GET /navigate",
			"GET /swipe",
			"GET /refs",
			"GET|PUT /last-read",
			"GET|POST /favorites",
			"DELETE /favorites/:key",
			"GET|PUT|DELETE /highlights",
			"GET|PUT /settings",
			"GET /plans",
			"GET /plans/:id",
			"POST /plans/:id/start|advance|reset",
			"GET /daily",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Books:   len(canon.Books()),
		Clients: s.hub.ClientCount(),
		Storage: sqlite.DriverType(),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	books := canon.Books()
	if t := r.URL.Query().Get("testament"); t != "" {
		testament := canon.Testament(strings.ToUpper(t))
		if !testament.IsValid() {
			respondError(w, http.StatusBadRequest, codeInvalidInput, "testament must be OLD or NEW")
			return
		}
		books = canon.BooksOf(testament)
	}
	respondList(w, books, len(books))
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	book, err := canon.Lookup(r.PathValue("name"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	idx, _ := canon.Index(book.Name)
	detail := BookDetail{BookEntry: book, Index: idx}
	if prev, _ := canon.PreviousBook(book.Name); prev != nil {
		detail.Previous = prev.Name
	}
	if next, _ := canon.NextBook(book.Name); next != nil {
		detail.Next = next.Name
	}
	respond(w, http.StatusOK, detail)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	from, err := positionFromQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	q := r.URL.Query()
	dir := canon.Forward
	if v := q.Get("direction"); v != "" {
		if dir, err = canon.ParseDirection(v); err != nil {
			respondErr(w, r, err)
			return
		}
	}
	steps := 1
	if v := q.Get("steps"); v != "" {
		steps, err = strconv.Atoi(v)
		if err != nil || steps < 1 || steps > maxSteps {
			respondError(w, http.StatusBadRequest, codeInvalidInput, "steps must be between 1 and "+strconv.Itoa(maxSteps))
			return
		}
	}

	to, moved := canon.Walk(from, dir, steps)
	logging.Navigation(r.Context(), from.String(), to.String(), dir.String(), "api")
	respond(w, http.StatusOK, NavigationResult{
		From:      from,
		To:        to,
		Direction: dir.String(),
		Steps:     moved,
		Terminal:  moved < steps,
	})
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	from, err := positionFromQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	dx, errX := strconv.ParseFloat(r.URL.Query().Get("dx"), 64)
	dy, errY := strconv.ParseFloat(r.URL.Query().Get("dy"), 64)
	if errX != nil || errY != nil || !gesture.Finite(dx) || !gesture.Finite(dy) {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "dx and dy must be finite numbers")
		return
	}

	result := NavigationResult{From: from, To: from}
	if dir, ok := s.cfg.Gesture.Classify(dx, dy); ok {
		result.Direction = dir.String()
		result.To = canon.Step(from, dir)
		if result.To != from {
			result.Steps = 1
		} else {
			result.Terminal = true
		}
		logging.Navigation(r.Context(), from.String(), result.To.String(), dir.String(), "swipe")
	}
	respond(w, http.StatusOK, result)
}

func (s *Server) handleRef(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "missing q parameter")
		return
	}
	ref, err := canon.ParseRef(q)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, ref)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.daily.Today())
}

// positionFromQuery reads ?book=&chapter=. A missing chapter means the
// introduction.
func positionFromQuery(r *http.Request) (canon.Position, error) {
	q := r.URL.Query()
	book := q.Get("book")
	if book == "" {
		return canon.Position{}, errors.NewValidation("book", "missing book parameter")
	}
	chapter := canon.Introduction
	if v := q.Get("chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return canon.Position{}, &errors.ValidationError{Field: "chapter", Value: v, Message: "must be a number"}
		}
		chapter = n
	}
	return canon.NewPosition(book, chapter)
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.NewValidation("body", "request body is empty")
		}
		return errors.NewParse("request body", "", err.Error())
	}
	return nil
}

func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Total: total, Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

// respondErr maps domain errors to status codes. Internal errors are logged
// and reported without detail.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	default:
		logging.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
