package handler

import (
	"net/http"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// BolaoHandler exposes prediction pool reads and participation.
type BolaoHandler struct {
	boloes *service.BolaoService
}

// NewBolaoHandler creates a BolaoHandler.
func NewBolaoHandler(boloes *service.BolaoService) *BolaoHandler {
	return &BolaoHandler{boloes: boloes}
}

// Get returns one pool.
func (h *BolaoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bolaoID"))
	if err != nil {
		RespondError(w, errInvalidID("bolão id"))
		return
	}

	bolao, err := h.boloes.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, bolao)
}

// Join enters the caller into a pool with their exact-score guess.
// Body: {"guess": "2-1"}.
func (h *BolaoHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bolaoID"))
	if err != nil {
		RespondError(w, errInvalidID("bolão id"))
		return
	}

	var body struct {
		Guess string `json:"guess"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	guess, err := domain.ParseExactScore(body.Guess)
	if err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	bolao, err := h.boloes.Join(r.Context(), id, auth.SubjectFromContext(r.Context()), guess)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, bolao)
}
