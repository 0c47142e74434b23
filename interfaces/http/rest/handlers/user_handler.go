package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/repository"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

type UserHandler struct {
	users  *repository.UserRepository
	tokens *auth.Service
	logger *zap.Logger
}

func NewUserHandler(users *repository.UserRepository, tokens *auth.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, logger: logger}
}

type registerUserRequest struct {
	Phone      string `json:"phone" validate:"required,e164"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Role       string `json:"role" validate:"required,oneof=CLIENT MASTER"`
	City       string `json:"city,omitempty" validate:"omitempty,max=100"`
	TelegramID string `json:"telegramId,omitempty"`
}

type registerUserResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /users. Phone numbers are unique; a duplicate
// registration returns 409.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.Create(r.Context(), &domain.User{
		Phone:      req.Phone,
		Name:       req.Name,
		Role:       domain.Role(req.Role),
		City:       req.City,
		TelegramID: req.TelegramID,
		IsActive:   true,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.Phone, string(user.Role))
	if err != nil {
		respondError(w, h.logger, apperrors.NewInternal("issue token", err))
		return
	}
	respondJSON(w, http.StatusCreated, registerUserResponse{User: user, Token: token})
}

type loginRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

// Login handles POST /auth/login. Verification codes are out of scope;
// possession of the phone number is checked upstream.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.FindByPhone(r.Context(), req.Phone)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !user.IsActive {
		respondError(w, h.logger, apperrors.NewForbidden("account is deactivated"))
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.Phone, string(user.Role))
	if err != nil {
		respondError(w, h.logger, apperrors.NewInternal("issue token", err))
		return
	}
	respondJSON(w, http.StatusOK, registerUserResponse{User: user, Token: token})
}

// Get handles GET /users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	user, err := h.users.FindByID(r.Context(), userCtx.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Phone      *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	AvatarURL  *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	TelegramID *string `json:"telegramId,omitempty"`
}

// Update handles PATCH /users/me.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req updateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.Update(r.Context(), userCtx.UserID, domain.UserPatch{
		Phone:      req.Phone,
		Name:       req.Name,
		City:       req.City,
		AvatarURL:  req.AvatarURL,
		TelegramID: req.TelegramID,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Deactivate handles DELETE /users/me. The row survives as an inactive
// profile; history referencing the user stays intact.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	if err := h.users.Deactivate(r.Context(), userCtx.UserID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
