package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/repository"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

// TrustHandler takes verification documents and dispute reports from the
// caller. Review decisions happen through the ops tooling, not here.
type TrustHandler struct {
	checks *repository.CheckRepository
	logger *zap.Logger
}

func NewTrustHandler(checks *repository.CheckRepository, logger *zap.Logger) *TrustHandler {
	return &TrustHandler{checks: checks, logger: logger}
}

type submitVerificationRequest struct {
	DocumentType string `json:"documentType" validate:"required,min=1,max=50"`
	DocumentURL  string `json:"documentUrl,omitempty" validate:"omitempty,url"`
}

// SubmitVerification handles POST /verifications.
func (h *TrustHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req submitVerificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	v, err := h.checks.CreateVerification(r.Context(), &domain.Verification{
		UserID:       userCtx.UserID,
		DocumentType: req.DocumentType,
		DocumentURL:  req.DocumentURL,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

type submitDisputeRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=1,max=2000"`
}

// SubmitDispute handles POST /disputes.
func (h *TrustHandler) SubmitDispute(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req submitDisputeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	d, err := h.checks.CreateDispute(r.Context(), &domain.Dispute{
		UserID:    userCtx.UserID,
		ProjectID: req.ProjectID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}
