package handler

import (
	"net/http"
	"strconv"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/service"
	"github.com/google/uuid"
)

// WalletHandler exposes wallet balance and transaction history.
type WalletHandler struct {
	wallets *service.WalletService
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// GetBalance returns the caller's wallet, creating it with the welcome
// bonus on first touch.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	wallet, err := h.wallets.EnsureWallet(r.Context(), claims.Subject, claims.IsVIP)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, wallet)
}

// GetTransactions returns the caller's audit log, newest first.
// Query params: cursor (transaction id), limit.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := auth.SubjectFromContext(r.Context())

	var cursor *uuid.UUID
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(w, errInvalidID("cursor"))
			return
		}
		cursor = &id
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.wallets.History(r.Context(), userID, cursor, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, page)
}
