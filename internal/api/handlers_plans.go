package api

import (
	"context"
	"net/http"

	"github.com/FocuswithJustin/MiAlmaBiblia/internal/plans"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/server"
)

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracker.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, list, len(list))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !server.ValidIdentifier(id) {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "invalid plan id")
		return
	}
	st, err := s.tracker.Status(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (s *Server) handlePlanAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !server.ValidIdentifier(id) {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "invalid plan id")
		return
	}

	var action func(context.Context, string) (plans.Status, error)
	switch r.PathValue("action") {
	case "start":
		action = s.tracker.Start
	case "advance":
		action = s.tracker.Advance
	case "reset":
		action = s.tracker.Reset
	default:
		respondError(w, http.StatusNotFound, codeNotFound, "unknown plan action")
		return
	}

	st, err := action(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, st)
}
