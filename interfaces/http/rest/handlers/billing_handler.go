package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workhub-backend/internal/repository"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

// BillingHandler exposes the caller's payment ledger. Rows are written by
// the payment pipeline; this surface is read-only.
type BillingHandler struct {
	transactions *repository.TransactionRepository
	logger       *zap.Logger
}

func NewBillingHandler(transactions *repository.TransactionRepository, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{transactions: transactions, logger: logger}
}

// List handles GET /transactions for the authenticated user.
func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	page, err := h.transactions.ListByUser(r.Context(), userCtx.UserID, paginationFromQuery(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(page))
}

// Get handles GET /transactions/{txID}.
func (h *BillingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	tx, err := h.transactions.FindByID(r.Context(), userCtx.UserID, chi.URLParam(r, "txID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}
