package handler

import (
	"net/http"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MvpHandler exposes MVP voting reads and vote casting.
type MvpHandler struct {
	mvp *service.MvpService
}

// NewMvpHandler creates an MvpHandler.
func NewMvpHandler(mvp *service.MvpService) *MvpHandler {
	return &MvpHandler{mvp: mvp}
}

// Get returns one voting with its ballot and current votes.
func (h *MvpHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "votingID"))
	if err != nil {
		RespondError(w, errInvalidID("voting id"))
		return
	}

	voting, err := h.mvp.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, voting)
}

// Vote casts the caller's vote. Body: {"player_id": 123}.
func (h *MvpHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "votingID"))
	if err != nil {
		RespondError(w, errInvalidID("voting id"))
		return
	}

	var body struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	if err := h.mvp.CastVote(r.Context(), id, auth.SubjectFromContext(r.Context()), body.PlayerID); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}
