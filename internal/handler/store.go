package handler

import (
	"net/http"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// StoreHandler exposes the item catalog and purchases.
type StoreHandler struct {
	store *service.StoreService
}

// NewStoreHandler creates a StoreHandler.
func NewStoreHandler(store *service.StoreService) *StoreHandler {
	return &StoreHandler{store: store}
}

// ListItems returns the purchasable catalog.
func (h *StoreHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListItems(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, items)
}

// Purchase buys one item for the caller.
func (h *StoreHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		RespondError(w, errInvalidID("item id"))
		return
	}

	entry, err := h.store.Purchase(r.Context(), auth.SubjectFromContext(r.Context()), itemID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, entry)
}
