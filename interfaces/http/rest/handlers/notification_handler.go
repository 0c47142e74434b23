package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"workhub-backend/internal/repository"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *repository.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// List handles GET /notifications for the authenticated user.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	page, err := h.notifications.ListByUser(r.Context(), userCtx.UserID, paginationFromQuery(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(page))
}

type markReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// MarkRead handles POST /notifications/read. The IDs are matched against
// the caller's own feed; foreign ids are skipped.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req markReadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	wanted := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		wanted[id] = true
	}

	// The sort key embeds the creation timestamp, so ids alone cannot
	// address a row; walk the feed and mark the matches.
	marked := 0
	p := repository.Pagination{}
	for {
		page, err := h.notifications.ListByUser(r.Context(), userCtx.UserID, p)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		for _, n := range page.Items {
			if !wanted[n.ID] || n.IsRead {
				continue
			}
			if err := h.notifications.MarkRead(r.Context(), n); err != nil {
				respondError(w, h.logger, err)
				return
			}
			marked++
		}
		if page.NextCursor == "" || marked == len(req.IDs) {
			break
		}
		p.Cursor = page.NextCursor
	}
	respondJSON(w, http.StatusOK, map[string]int{"marked": marked})
}
