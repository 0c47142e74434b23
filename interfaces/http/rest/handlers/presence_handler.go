package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"workhub-backend/internal/ws"
	apperrors "workhub-backend/pkg/errors"
)

type PresenceHandler struct {
	registry *ws.Registry
	logger   *zap.Logger
}

func NewPresenceHandler(registry *ws.Registry, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{registry: registry, logger: logger}
}

// Get handles GET /presence?userIds=a,b,c and reports which of the given
// users have a live WebSocket connection.
func (h *PresenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userIds")
	if raw == "" {
		respondError(w, h.logger, apperrors.NewValidation("userIds query parameter is required"))
		return
	}
	userIDs := strings.Split(raw, ",")
	if len(userIDs) > 50 {
		respondError(w, h.logger, apperrors.NewValidation("at most 50 userIds per request"))
		return
	}

	online := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		userID = strings.TrimSpace(userID)
		if userID == "" {
			continue
		}
		isOnline, err := h.registry.Online(r.Context(), userID)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		online[userID] = isOnline
	}
	respondJSON(w, http.StatusOK, map[string]map[string]bool{"online": online})
}
