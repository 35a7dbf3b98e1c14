package admin

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/handler"
	"github.com/fielbet/platform/internal/service"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func errInvalidID(field string) error {
	return domain.ErrValidation(fmt.Sprintf("invalid %s", field))
}

// CompetitionHandler manages bolões and MVP votings from the admin side.
type CompetitionHandler struct {
	boloes       *service.BolaoService
	mvp          *service.MvpService
	orchestrator *settlement.Orchestrator
	finalizer    *settlement.MvpFinalizer
}

// NewCompetitionHandler creates a CompetitionHandler.
func NewCompetitionHandler(
	boloes *service.BolaoService,
	mvp *service.MvpService,
	orchestrator *settlement.Orchestrator,
	finalizer *settlement.MvpFinalizer,
) *CompetitionHandler {
	return &CompetitionHandler{boloes: boloes, mvp: mvp, orchestrator: orchestrator, finalizer: finalizer}
}

// CreateBolao opens a prediction pool for a match.
// Body: {"match_id": 9001}.
func (h *CompetitionHandler) CreateBolao(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MatchID int64 `json:"match_id"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	bolao, err := h.boloes.Create(r.Context(), body.MatchID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, bolao)
}

// CancelBolao cancels a pool and refunds every entry fee.
func (h *CompetitionHandler) CancelBolao(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bolaoID"))
	if err != nil {
		handler.RespondError(w, errInvalidID("bolão id"))
		return
	}

	res := h.orchestrator.CancelBolao(r.Context(), id)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	handler.RespondJSON(w, status, res)
}

// CreateMvpVoting opens an MVP election for a match.
// Body: {"match_id": 9001}.
func (h *CompetitionHandler) CreateMvpVoting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MatchID int64 `json:"match_id"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	voting, err := h.mvp.CreateVoting(r.Context(), body.MatchID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, voting)
}

// FinalizeMvpVoting closes a voting now instead of waiting for the
// deadline. An optional body {"winner_ids": [...]} overrides the tally.
func (h *CompetitionHandler) FinalizeMvpVoting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "votingID"))
	if err != nil {
		handler.RespondError(w, errInvalidID("voting id"))
		return
	}

	var body struct {
		WinnerIDs []int64 `json:"winner_ids"`
	}
	// An empty body means "use the tally".
	if err := handler.DecodeJSON(r, &body); err != nil && err != io.EOF {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var res domain.OpResult
	if body.WinnerIDs != nil {
		res = h.finalizer.FinalizeVotingWith(r.Context(), id, body.WinnerIDs)
	} else {
		res = h.finalizer.FinalizeVoting(r.Context(), id)
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	handler.RespondJSON(w, status, res)
}

// CancelMvpVoting cancels a voting and reverses every vote reward.
func (h *CompetitionHandler) CancelMvpVoting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "votingID"))
	if err != nil {
		handler.RespondError(w, errInvalidID("voting id"))
		return
	}

	res := h.finalizer.CancelVoting(r.Context(), id)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	handler.RespondJSON(w, status, res)
}

