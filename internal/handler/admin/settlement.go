package admin

import (
	"net/http"
	"strconv"

	"github.com/fielbet/platform/internal/handler"
	"github.com/fielbet/platform/internal/scheduler"
	"github.com/fielbet/platform/internal/service"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/go-chi/chi/v5"
)

// SettlementHandler exposes manual settlement triggers. These mirror the
// scheduler passes so an operator can force a run without waiting for the
// next tick.
type SettlementHandler struct {
	orchestrator *settlement.Orchestrator
	processor    *scheduler.Processor
	matches      *service.MatchService
}

// NewSettlementHandler creates a SettlementHandler.
func NewSettlementHandler(orchestrator *settlement.Orchestrator, processor *scheduler.Processor, matches *service.MatchService) *SettlementHandler {
	return &SettlementHandler{orchestrator: orchestrator, processor: processor, matches: matches}
}

// SettleMatch settles one match immediately.
func (h *SettlementHandler) SettleMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		handler.RespondError(w, errInvalidID("match id"))
		return
	}

	res := h.orchestrator.SettleMatch(r.Context(), id)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusConflict
	}
	handler.RespondJSON(w, status, res)
}

// RunSettlementPass runs the due-match settlement batch.
func (h *SettlementHandler) RunSettlementPass(w http.ResponseWriter, r *http.Request) {
	report, err := h.processor.ProcessFinishedMatches(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}

// RunMvpPass finalizes expired MVP votings.
func (h *SettlementHandler) RunMvpPass(w http.ResponseWriter, r *http.Request) {
	report, err := h.processor.ProcessExpiredVotings(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}

// RunNoticePass announces imminent kickoffs.
func (h *SettlementHandler) RunNoticePass(w http.ResponseWriter, r *http.Request) {
	report, err := h.processor.ProcessKickoffNotices(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}

// SyncFixture refreshes the local mirror of one match from the provider.
func (h *SettlementHandler) SyncFixture(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		handler.RespondError(w, errInvalidID("match id"))
		return
	}

	match, err := h.matches.SyncFixture(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, match)
}
