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

type OrderHandler struct {
	orders *repository.OrderRepository
	logger *zap.Logger
}

func NewOrderHandler(orders *repository.OrderRepository, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
	City        string `json:"city,omitempty" validate:"omitempty,max=100"`
	Budget      int64  `json:"budget,omitempty" validate:"omitempty,min=0"`
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req createOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.orders.Create(r.Context(), &domain.Order{
		ClientID:    userCtx.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		Budget:      req.Budget,
		Status:      domain.OrderStatusOpen,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// Get handles GET /orders/{orderID}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.FindByID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// List handles GET /orders?status= or ?category=, or ?mine=true for the
// caller's own orders. The selector picks the index used.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := paginationFromQuery(r)

	if q.Get("mine") == "true" {
		userCtx, err := auth.GetUserFromContext(r.Context())
		if err != nil {
			respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
			return
		}
		page, err := h.orders.ListByClient(r.Context(), userCtx.UserID, p)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, toPageResponse(page))
		return
	}

	status := q.Get("status")
	category := q.Get("category")
	switch {
	case status != "" && category != "":
		respondError(w, h.logger, apperrors.NewValidation("status and category are mutually exclusive"))
	case category != "":
		page, err := h.orders.ListByCategory(r.Context(), category, p)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, toPageResponse(page))
	default:
		if status == "" {
			status = string(domain.OrderStatusOpen)
		}
		page, err := h.orders.ListByStatus(r.Context(), domain.OrderStatus(status), p)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, toPageResponse(page))
	}
}

type updateOrderRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Budget      *int64  `json:"budget,omitempty" validate:"omitempty,min=0"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=OPEN MATCHED CLOSED CANCELLED"`
}

// Update handles PATCH /orders/{orderID}. Only the owning client may
// modify an order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.FindByID(r.Context(), orderID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if order.ClientID != userCtx.UserID {
		respondError(w, h.logger, apperrors.NewForbidden("not the order owner"))
		return
	}

	var req updateOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	patch := domain.OrderPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		Budget:      req.Budget,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	updated, err := h.orders.Update(r.Context(), orderID, patch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type applyRequest struct {
	Message string `json:"message,omitempty" validate:"omitempty,max=2000"`
	Price   int64  `json:"price,omitempty" validate:"omitempty,min=0"`
}

// Apply handles POST /orders/{orderID}/applications.
func (h *OrderHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.FindByID(r.Context(), orderID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if order.Status != domain.OrderStatusOpen {
		respondError(w, h.logger, apperrors.NewConflict("order is not open for applications"))
		return
	}

	var req applyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	app, err := h.orders.CreateApplication(r.Context(), &domain.Application{
		OrderID:  orderID,
		MasterID: userCtx.UserID,
		Message:  req.Message,
		Price:    req.Price,
		Status:   domain.ApplicationStatusPending,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

// ListApplications handles GET /orders/{orderID}/applications.
func (h *OrderHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.orders.ListApplications(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, apps)
}

// MyApplications handles GET /applications for the authenticated master.
func (h *OrderHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	page, err := h.orders.ListApplicationsByMaster(r.Context(), userCtx.UserID, paginationFromQuery(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(page))
}

type decideApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

// DecideApplication handles PATCH /orders/{orderID}/applications/{appID}.
func (h *OrderHandler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.FindByID(r.Context(), orderID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if order.ClientID != userCtx.UserID {
		respondError(w, h.logger, apperrors.NewForbidden("not the order owner"))
		return
	}

	var req decideApplicationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	status := domain.ApplicationStatus(req.Status)
	app, err := h.orders.UpdateApplication(r.Context(), orderID, chi.URLParam(r, "appID"), domain.ApplicationPatch{Status: &status})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}
