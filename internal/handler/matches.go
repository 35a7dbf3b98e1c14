package handler

import (
	"net/http"
	"strconv"

	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
)

// MatchHandler exposes the local fixture mirror.
type MatchHandler struct {
	matches *service.MatchService
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matches *service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// Get returns one mirrored match.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		RespondError(w, errInvalidID("match id"))
		return
	}

	match, err := h.matches.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, match)
}
