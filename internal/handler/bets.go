package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/guard"
	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func errInvalidID(field string) error {
	return domain.ErrValidation(fmt.Sprintf("invalid %s", field))
}

// BetHandler exposes bet placement and bet history.
type BetHandler struct {
	bets *service.BetService
	idem *guard.IdempotencyGuard
}

// NewBetHandler creates a BetHandler.
func NewBetHandler(bets *service.BetService) *BetHandler {
	return &BetHandler{bets: bets, idem: guard.NewIdempotencyGuard()}
}

// PlaceBet places a wager for the caller. Clients may send an
// Idempotency-Key header; a retry with the same key is rejected instead
// of staking twice.
func (h *BetHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	userID := auth.SubjectFromContext(r.Context())

	idemKey := r.Header.Get("Idempotency-Key")
	if res := h.idem.Check(r.Context(), idemKey); !res.Allowed {
		RespondError(w, domain.ErrConflict(res.Reason))
		return
	}

	var input service.PlaceBetInput
	if err := DecodeJSON(r, &input); err != nil {
		h.idem.Remove(idemKey)
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	bet, err := h.bets.PlaceBet(r.Context(), userID, input)
	if err != nil {
		// The key is only burned by a successful placement; a failed
		// attempt may be retried with the same key.
		h.idem.Remove(idemKey)
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, bet)
}

// MyBets returns the caller's wagers, newest first.
func (h *BetHandler) MyBets(w http.ResponseWriter, r *http.Request) {
	userID := auth.SubjectFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	bets, err := h.bets.ListUserBets(r.Context(), userID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, bets)
}

// GetBet returns one wager; players may only read their own.
func (h *BetHandler) GetBet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "betID"))
	if err != nil {
		RespondError(w, errInvalidID("bet id"))
		return
	}

	bet, err := h.bets.GetBet(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	if bet.UserID != auth.SubjectFromContext(r.Context()) {
		RespondError(w, domain.ErrForbidden("not your bet"))
		return
	}
	RespondJSON(w, http.StatusOK, bet)
}
