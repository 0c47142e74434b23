package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/service/chat"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

type ChatHandler struct {
	rooms   *repository.ChatRepository
	service *chat.Service
	logger  *zap.Logger
}

func NewChatHandler(rooms *repository.ChatRepository, service *chat.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{rooms: rooms, service: service, logger: logger}
}

type createRoomRequest struct {
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
	ProjectID      string   `json:"projectId,omitempty"`
}

// CreateRoom handles POST /rooms. The caller is always a participant.
func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req createRoomRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	participants := req.ParticipantIDs
	found := false
	for _, id := range participants {
		if id == userCtx.UserID {
			found = true
			break
		}
	}
	if !found {
		participants = append([]string{userCtx.UserID}, participants...)
	}

	room, err := h.rooms.CreateRoom(r.Context(), &domain.Room{
		Participants: participants,
		ProjectID:    req.ProjectID,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

// ListRooms handles GET /rooms for the authenticated user.
func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	memberships, err := h.rooms.ListRoomsByUser(r.Context(), userCtx.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, memberships)
}

// GetRoom handles GET /rooms/{roomID}.
func (h *ChatHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	room, err := h.rooms.FindRoom(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !room.HasParticipant(userCtx.UserID) {
		respondError(w, h.logger, apperrors.NewForbidden("not a room participant"))
		return
	}
	respondJSON(w, http.StatusOK, room)
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// SendMessage handles POST /rooms/{roomID}/messages.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req sendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), chi.URLParam(r, "roomID"), userCtx.UserID, req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /rooms/{roomID}/messages. Reading the history
// resets the caller's unread counter.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	page, err := h.service.History(r.Context(), chi.URLParam(r, "roomID"), userCtx.UserID, paginationFromQuery(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(page))
}
