package api

import (
	"net/http"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

// PositionRequest is the body of PUT /last-read.
type PositionRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

// VerseRequest is the body of POST /favorites and PUT /highlights.
type VerseRequest struct {
	Book    string      `json:"book"`
	Chapter int         `json:"chapter"`
	Verse   int         `json:"verse"`
	Note    string      `json:"note,omitempty"`
	Color   state.Color `json:"color,omitempty"`
}

func (s *Server) handleGetLastRead(w http.ResponseWriter, r *http.Request) {
	lr, err := s.store.LastRead(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, lr)
}

func (s *Server) handlePutLastRead(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := canon.NewPosition(req.Book, req.Chapter)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	lr, err := s.store.SetLastRead(r.Context(), p)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	s.hub.BroadcastPosition(lr, "api")
	respond(w, http.StatusOK, lr)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.store.Favorites(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, favs, len(favs))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req VerseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := canon.NewPosition(req.Book, req.Chapter)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	fav, err := s.store.AddFavorite(r.Context(), p, req.Verse, req.Note)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusCreated, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	key, err := normalizeKey(r.PathValue("key"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := s.store.RemoveFavorite(r.Context(), key); err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"removed": key})
}

// handleHighlights lists one chapter's highlights when ?book= is given,
// otherwise every highlight.
func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	var (
		list []state.Highlight
		err  error
	)
	if r.URL.Query().Get("book") != "" {
		var p canon.Position
		if p, err = positionFromQuery(r); err == nil {
			list, err = s.store.Highlights(r.Context(), p)
		}
	} else {
		list, err = s.store.AllHighlights(r.Context())
	}
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, list, len(list))
}

func (s *Server) handleSetHighlight(w http.ResponseWriter, r *http.Request) {
	var req VerseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := canon.NewPosition(req.Book, req.Chapter)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	h, err := s.store.SetHighlight(r.Context(), p, req.Verse, req.Color)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, h)
}

func (s *Server) handleClearHighlight(w http.ResponseWriter, r *http.Request) {
	key, err := normalizeKey(r.URL.Query().Get("key"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := s.store.ClearHighlight(r.Context(), key); err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"cleared": key})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings state.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, settings)
}

// normalizeKey accepts keys with any book spelling ("gn-1-3") and returns
// the canonical form ("Génesis-1-3").
func normalizeKey(key string) (string, error) {
	if key == "" {
		return "", errors.NewValidation("key", "missing verse key")
	}
	p, verse, err := canon.ParseKey(key)
	if err != nil {
		return "", err
	}
	return p.Key(verse), nil
}
