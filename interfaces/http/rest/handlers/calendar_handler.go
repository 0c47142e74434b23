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

// CalendarHandler manages the caller's own availability slots.
type CalendarHandler struct {
	calendar *repository.CalendarRepository
	logger   *zap.Logger
}

func NewCalendarHandler(calendar *repository.CalendarRepository, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, logger: logger}
}

type createSlotRequest struct {
	Type      string `json:"scheduleType" validate:"required,oneof=ONCE WEEKLY"`
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weekday   string `json:"weekday,omitempty" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// Create handles POST /calendar.
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req createSlotRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Type == string(domain.ScheduleTypeOnce) && req.Date == "" {
		respondError(w, h.logger, apperrors.NewValidation("date is required for one-off slots"))
		return
	}
	if req.Type == string(domain.ScheduleTypeWeekly) && req.Weekday == "" {
		respondError(w, h.logger, apperrors.NewValidation("weekday is required for weekly slots"))
		return
	}

	slot, err := h.calendar.Create(r.Context(), &domain.CalendarSlot{
		MasterID:  userCtx.UserID,
		Type:      domain.ScheduleType(req.Type),
		Date:      req.Date,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, slot)
}

// List handles GET /calendar. With ?day= it returns the day view, without
// it the whole calendar.
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var slots []*domain.CalendarSlot
	if day := r.URL.Query().Get("day"); day != "" {
		slots, err = h.calendar.ListByDay(r.Context(), userCtx.UserID, day)
	} else {
		slots, err = h.calendar.ListByMaster(r.Context(), userCtx.UserID)
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

type updateSlotRequest struct {
	Date      *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weekday   *string `json:"weekday,omitempty" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime *string `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Booked    *bool   `json:"booked,omitempty"`
}

// Update handles PATCH /calendar/{slotID}.
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req updateSlotRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	slot, err := h.calendar.Update(r.Context(), userCtx.UserID, chi.URLParam(r, "slotID"), domain.CalendarSlotPatch{
		Date:      req.Date,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Booked:    req.Booked,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, slot)
}

// Delete handles DELETE /calendar/{slotID}.
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	if err := h.calendar.Delete(r.Context(), userCtx.UserID, chi.URLParam(r, "slotID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
