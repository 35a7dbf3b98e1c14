package admin

import (
	"net/http"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/handler"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EconomyHandler manages the level ladder, store refunds and XP events.
type EconomyHandler struct {
	pool        *pgxpool.Pool
	levelConfig repository.LevelConfigRepository
	store       *service.StoreService
	multiplier  *infra.EventMultiplier
}

// NewEconomyHandler creates an EconomyHandler.
func NewEconomyHandler(
	pool *pgxpool.Pool,
	levelConfig repository.LevelConfigRepository,
	store *service.StoreService,
	multiplier *infra.EventMultiplier,
) *EconomyHandler {
	return &EconomyHandler{pool: pool, levelConfig: levelConfig, store: store, multiplier: multiplier}
}

// GetLevelConfig returns the configured level ladder.
func (h *EconomyHandler) GetLevelConfig(w http.ResponseWriter, r *http.Request) {
	ladder, err := h.levelConfig.Get(r.Context(), h.pool)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ladder)
}

// ReplaceLevelConfig swaps the whole level ladder after validation.
func (h *EconomyHandler) ReplaceLevelConfig(w http.ResponseWriter, r *http.Request) {
	var ladder []domain.LevelThreshold
	if err := handler.DecodeJSON(r, &ladder); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateLevelConfig(ladder); err != nil {
		handler.RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	if err := h.levelConfig.Replace(r.Context(), h.pool, ladder); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ladder)
}

// RefundPurchase reverses one store purchase.
func (h *EconomyHandler) RefundPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "inventoryID"))
	if err != nil {
		handler.RespondError(w, errInvalidID("inventory id"))
		return
	}

	if err := h.store.Refund(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// StartXPEvent activates an XP multiplier event.
// Body: {"multiplier": 2, "duration_minutes": 120}.
func (h *EconomyHandler) StartXPEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Multiplier      int `json:"multiplier"`
		DurationMinutes int `json:"duration_minutes"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if body.DurationMinutes <= 0 {
		handler.RespondError(w, domain.ErrValidation("duration must be positive"))
		return
	}

	duration := time.Duration(body.DurationMinutes) * time.Minute
	if err := h.multiplier.StartEvent(r.Context(), body.Multiplier, duration); err != nil {
		handler.RespondError(w, domain.ErrValidation(err.Error()))
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"multiplier": body.Multiplier,
		"ends_at":    time.Now().Add(duration),
	})
}

// StopXPEvent ends the active XP multiplier event.
func (h *EconomyHandler) StopXPEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.multiplier.StopEvent(r.Context()); err != nil {
		handler.RespondError(w, domain.ErrInternal("stop event", err))
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}
